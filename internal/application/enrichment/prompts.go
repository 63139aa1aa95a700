package enrichment

import (
	"fmt"
	"strings"

	"github.com/cellarmind/v1/internal/domain/wine"
)

// PromptBuilder renders natural-language instructions with explicit
// JSON-shape hints for each enrichment task. Pure string construction, no
// side effects. The builder is strict in what it requests so the response
// parser can afford to be liberal in what it accepts.
type PromptBuilder struct{}

// NewPromptBuilder creates a prompt builder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// SystemPersona is the system instruction shared by every task: a
// sommelier persona plus the JSON-only contract.
func (b *PromptBuilder) SystemPersona(language string) string {
	return fmt.Sprintf(`You are an expert sommelier with deep knowledge of wine regions, aging potential and food pairing.

CRITICAL: Respond with ONLY the requested JSON payload. No explanatory text, no markdown formatting, no code fences.
All free-text values must be written in %s.`, languageName(language))
}

func languageName(code string) string {
	switch strings.ToLower(code) {
	case "fr":
		return "French"
	case "es":
		return "Spanish"
	case "it":
		return "Italian"
	case "de":
		return "German"
	default:
		return "English"
	}
}

// wineSummary renders the identifying facts of a record for a prompt.
func wineSummary(rec *wine.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Wine: %s", rec.Name)
	if rec.Vintage > 0 {
		fmt.Fprintf(&sb, "\nVintage: %d", rec.Vintage)
	}
	if rec.Domain != "" {
		fmt.Fprintf(&sb, "\nProducer: %s", rec.Domain)
	}
	if rec.Region != "" {
		fmt.Fprintf(&sb, "\nRegion: %s", rec.Region)
	}
	if rec.Appellation != "" {
		fmt.Fprintf(&sb, "\nAppellation: %s", rec.Appellation)
	}
	if rec.Color.IsValid() {
		fmt.Fprintf(&sb, "\nColor: %s", rec.Color)
	}
	if len(rec.Grapes) > 0 {
		fmt.Fprintf(&sb, "\nGrapes: %s", strings.Join(rec.Grapes, ", "))
	}
	return sb.String()
}

const tasteShape = `{
  "body": 4,
  "acidity": 3,
  "tannin": 4,
  "sweetness": 1,
  "fruitiness": 3,
  "oak": 2,
  "complexity": 3,
  "intensity": 3,
  "primary_flavors": ["descriptor", "descriptor", "descriptor"]
}`

const agingShape = `{
  "potential_years": 20,
  "peak_start_year": 2028,
  "peak_end_year": 2035,
  "current_phase": "development",
  "drink_now": false,
  "estimated_quality_now": 75
}`

const pairingShape = `[
  {
    "food": "dish or wine description",
    "pairing_strength": 4.5,
    "pairing_type": "classic",
    "explanation": "one or two sentences"
  }
]`

// TasteProfile asks for the eight-axis profile of a wine.
func (b *PromptBuilder) TasteProfile(rec *wine.Record, language string) string {
	return fmt.Sprintf(`Estimate the taste profile of this wine:

%s

Return a JSON object with exactly this shape:
%s

Rules:
- every axis is a number from 1 to 5, except "tannin" and "oak" which may be 0
- white, rosé and sparkling wines must have "tannin" of 0 or at most 1
- "primary_flavors" lists 3 to 5 short descriptors in %s`,
		wineSummary(rec), tasteShape, languageName(language))
}

// AgingData asks for the drinking-window analysis of a wine.
func (b *PromptBuilder) AgingData(rec *wine.Record, language string) string {
	return fmt.Sprintf(`Analyze the aging potential of this wine:

%s

Return a JSON object with exactly this shape:
%s

Rules:
- "current_phase" must be one of: "youth", "development", "peak", "decline"
- "peak_start_year" and "peak_end_year" are absolute calendar years with peak_start_year <= peak_end_year
- "estimated_quality_now" is a number from 0 to 100
- "potential_years" counts from the vintage year %d`,
		wineSummary(rec), agingShape, rec.Vintage)
}

// PairingsForWine asks for food pairings matching the requested mix.
func (b *PromptBuilder) PairingsForWine(rec *wine.Record, mix wine.PairingMix, language string) string {
	return fmt.Sprintf(`Suggest food pairings for this wine:

%s

Return a JSON array with exactly this shape:
%s

Rules:
- return %d pairings: %d tagged "classic", %d tagged "audacious", %d tagged "merchant"
- "pairing_type" must be one of: "classic", "audacious", "merchant"
- "pairing_strength" is a number from 1 to 5, half points allowed
- write "food" and "explanation" in %s`,
		wineSummary(rec), pairingShape,
		mix.Total(), mix.Classic, mix.Audacious, mix.Merchant,
		languageName(language))
}

// WinesForFood asks for wine styles matching a dish. The "food" field of
// each element carries the wine suggestion.
func (b *PromptBuilder) WinesForFood(food, language string) string {
	return fmt.Sprintf(`Suggest wines to serve with this dish: %s

Return a JSON array with exactly this shape:
%s

Rules:
- return 2 to 4 suggestions; put the wine style or appellation in the "food" field
- "pairing_type" must be one of: "classic", "audacious", "merchant"; include at least one "classic"
- "pairing_strength" is a number from 1 to 5, half points allowed
- write every text field in %s`,
		food, pairingShape, languageName(language))
}

// WineInfo asks for the full record: identification fields plus all three
// sub-structures in one payload.
func (b *PromptBuilder) WineInfo(rec *wine.Record, language string) string {
	return fmt.Sprintf(`Provide complete information about this wine:

%s

Return a JSON object with exactly this shape:
{
  "color": "red",
  "alcohol": 13.5,
  "style": "short style description",
  "price_range": "one of: entry, mid, premium, icon",
  "grapes": ["grape", "grape"],
  "taste_profile": %s,
  "aging_profile": %s,
  "pairings": %s
}

Rules:
- "color" must be one of: "red", "white", "rose", "sparkling", "fortified"
- taste axes are numbers from 1 to 5 ("tannin" and "oak" may be 0)
- "current_phase" must be one of: "youth", "development", "peak", "decline"
- "pairing_type" must be one of: "classic", "audacious", "merchant"
- write every free-text value in %s`,
		wineSummary(rec),
		indent(tasteShape, 2), indent(agingShape, 2), indent(pairingShape, 2),
		languageName(language))
}

func indent(s string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}
