package enrichment

import (
	"math"

	"github.com/cellarmind/v1/internal/domain/wine"
)

// Parsed AI payloads use pointer fields so that an omitted field is
// distinguishable from a zero value: merging is always field-by-field over
// the rule-based default, never whole-object replacement.

type tastePayload struct {
	Body           *float64 `json:"body"`
	Acidity        *float64 `json:"acidity"`
	Tannin         *float64 `json:"tannin"`
	Sweetness      *float64 `json:"sweetness"`
	Fruitiness     *float64 `json:"fruitiness"`
	Oak            *float64 `json:"oak"`
	Complexity     *float64 `json:"complexity"`
	Intensity      *float64 `json:"intensity"`
	PrimaryFlavors []string `json:"primary_flavors"`
}

func (p tastePayload) empty() bool {
	return p.Body == nil && p.Acidity == nil && p.Tannin == nil &&
		p.Sweetness == nil && p.Fruitiness == nil && p.Oak == nil &&
		p.Complexity == nil && p.Intensity == nil && len(p.PrimaryFlavors) == 0
}

// mergeTaste overlays AI-provided axes onto the rule-based base and clamps
// the result for the wine's color.
func mergeTaste(base wine.TasteProfile, p tastePayload, color wine.Color) wine.TasteProfile {
	merged := base
	setIf(&merged.Body, p.Body)
	setIf(&merged.Acidity, p.Acidity)
	setIf(&merged.Tannin, p.Tannin)
	setIf(&merged.Sweetness, p.Sweetness)
	setIf(&merged.Fruitiness, p.Fruitiness)
	setIf(&merged.Oak, p.Oak)
	setIf(&merged.Complexity, p.Complexity)
	setIf(&merged.Intensity, p.Intensity)
	if len(p.PrimaryFlavors) > 0 {
		merged.PrimaryFlavors = p.PrimaryFlavors
	}
	merged.Clamp(color)
	return merged
}

func setIf(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

type agingPayload struct {
	PotentialYears *int     `json:"potential_years"`
	PeakStartYear  *int     `json:"peak_start_year"`
	PeakEndYear    *int     `json:"peak_end_year"`
	CurrentPhase   *string  `json:"current_phase"`
	DrinkNow       *bool    `json:"drink_now"`
	QualityNow     *float64 `json:"estimated_quality_now"`
}

func (p agingPayload) empty() bool {
	return p.PotentialYears == nil && p.PeakStartYear == nil &&
		p.PeakEndYear == nil && p.CurrentPhase == nil &&
		p.DrinkNow == nil && p.QualityNow == nil
}

// mergeAging overlays AI-provided fields onto the rule-based base, then
// repairs the window invariant peak_start <= peak_end <= vintage+potential.
// An AI response that supplies peak_start_year but omits drink_now keeps
// the rule-based drink_now.
func mergeAging(base wine.AgingProfile, p agingPayload, vintage int) wine.AgingProfile {
	merged := base
	if p.PotentialYears != nil && *p.PotentialYears >= 0 {
		merged.PotentialYears = *p.PotentialYears
	}
	if p.PeakStartYear != nil && *p.PeakStartYear >= vintage {
		merged.PeakStartYear = *p.PeakStartYear
	}
	if p.PeakEndYear != nil && *p.PeakEndYear >= vintage {
		merged.PeakEndYear = *p.PeakEndYear
	}
	if p.CurrentPhase != nil {
		if phase := wine.Phase(*p.CurrentPhase); phase.IsValid() {
			merged.CurrentPhase = phase
		}
	}
	if p.DrinkNow != nil {
		merged.DrinkNow = *p.DrinkNow
	}
	if p.QualityNow != nil {
		merged.QualityNow = math.Max(0, math.Min(100, *p.QualityNow))
	}

	if merged.PeakEndYear < merged.PeakStartYear {
		merged.PeakEndYear = merged.PeakStartYear
	}
	if vintage+merged.PotentialYears < merged.PeakEndYear {
		merged.PotentialYears = merged.PeakEndYear - vintage
	}
	return merged
}

type pairingPayload struct {
	Food        string   `json:"food"`
	Strength    *float64 `json:"pairing_strength"`
	Type        string   `json:"pairing_type"`
	Explanation string   `json:"explanation"`
}

// mergePairings keeps structurally valid AI pairings, rounded to half
// points and capped at four. When nothing valid survives, the rule-based
// base stands.
func mergePairings(base wine.PairingList, payload []pairingPayload) wine.PairingList {
	var merged wine.PairingList
	for _, p := range payload {
		if p.Food == "" {
			continue
		}
		pt := wine.PairingType(p.Type)
		if !pt.IsValid() {
			pt = wine.PairingClassic
		}
		strength := 3.0
		if p.Strength != nil {
			strength = roundHalf(math.Max(1, math.Min(5, *p.Strength)))
		}
		merged = append(merged, wine.Pairing{
			Food:        p.Food,
			Strength:    strength,
			Type:        pt,
			Explanation: p.Explanation,
		})
		if len(merged) == 4 {
			break
		}
	}
	if len(merged) == 0 {
		return base
	}
	return merged
}

func roundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}

// wineInfoPayload is the full-record response shape for the wine-info
// enrichment task.
type wineInfoPayload struct {
	Color      *string          `json:"color"`
	Alcohol    *float64         `json:"alcohol"`
	Style      *string          `json:"style"`
	PriceRange *string          `json:"price_range"`
	Grapes     []string         `json:"grapes"`
	Taste      *tastePayload    `json:"taste_profile"`
	Aging      *agingPayload    `json:"aging_profile"`
	Pairings   []pairingPayload `json:"pairings"`
}
