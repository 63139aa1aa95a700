package enrichment

import (
	"strings"
	"time"

	"github.com/cellarmind/v1/internal/domain/wine"
)

// Estimator produces deterministic, AI-free answers for every enrichment
// type. It serves three roles: the only answer when no API key is
// configured, the fallback when the AI path fails, and the base onto which
// parsed AI output is merged.
//
// Every method is total given a valid input record, with one exception:
// AgingCurve returns wine.ErrVintageRequired when the record has no
// vintage, because no deterministic aging estimate exists without a
// reference year.
type Estimator struct {
	now func() time.Time
}

// NewEstimator creates an estimator using the wall clock.
func NewEstimator() *Estimator {
	return &Estimator{now: time.Now}
}

// NewEstimatorAt creates an estimator with a fixed clock, for tests and
// for replaying historical cellar states.
func NewEstimatorAt(now func() time.Time) *Estimator {
	return &Estimator{now: now}
}

// DefaultTasteProfile returns the fixed table entry for a color. Unknown
// colors get a neutral middle-of-road profile.
func (e *Estimator) DefaultTasteProfile(color wine.Color) wine.TasteProfile {
	switch color {
	case wine.ColorRed:
		return wine.TasteProfile{
			Body: 4, Acidity: 3, Tannin: 4, Sweetness: 1, Fruitiness: 3,
			Oak: 2, Complexity: 3, Intensity: 3,
			PrimaryFlavors: []string{"blackcurrant", "cherry", "spice"},
		}
	case wine.ColorWhite:
		return wine.TasteProfile{
			Body: 2, Acidity: 4, Tannin: 0, Sweetness: 2, Fruitiness: 4,
			Oak: 1, Complexity: 3, Intensity: 3,
			PrimaryFlavors: []string{"citrus", "green apple", "white flowers"},
		}
	case wine.ColorRose:
		return wine.TasteProfile{
			Body: 2, Acidity: 4, Tannin: 0, Sweetness: 2, Fruitiness: 4,
			Oak: 0, Complexity: 2, Intensity: 2,
			PrimaryFlavors: []string{"strawberry", "grapefruit", "redcurrant"},
		}
	case wine.ColorSparkling:
		return wine.TasteProfile{
			Body: 2, Acidity: 5, Tannin: 0, Sweetness: 2, Fruitiness: 3,
			Oak: 0, Complexity: 3, Intensity: 3,
			PrimaryFlavors: []string{"brioche", "citrus", "almond"},
		}
	case wine.ColorFortified:
		return wine.TasteProfile{
			Body: 5, Acidity: 3, Tannin: 3, Sweetness: 4, Fruitiness: 4,
			Oak: 3, Complexity: 4, Intensity: 5,
			PrimaryFlavors: []string{"dried fig", "walnut", "caramel"},
		}
	default:
		return wine.TasteProfile{
			Body: 3, Acidity: 3, Tannin: 1, Sweetness: 3, Fruitiness: 3,
			Oak: 1, Complexity: 3, Intensity: 3,
		}
	}
}

// NoteAdjustments maps taste axes to additive increments extracted from
// free-text tasting notes.
type NoteAdjustments map[string]float64

// AnalyzeTastingNotes spots trigger keywords in free text and returns
// per-axis increments. A bare hit adds a medium increment; an amplifier or
// attenuator within the context window scales it up or down.
func (e *Estimator) AnalyzeTastingNotes(text string) NoteAdjustments {
	adj := NoteAdjustments{}
	if strings.TrimSpace(text) == "" {
		return adj
	}
	lower := strings.ToLower(text)

	for axis, triggers := range tasteTriggers {
		for _, trigger := range triggers {
			idx := strings.Index(lower, trigger)
			if idx < 0 {
				continue
			}
			adj[axis] += hitIncrement(lower, idx, len(trigger))
		}
	}
	return adj
}

// hitIncrement inspects the context window around a trigger hit for
// amplifying and attenuating modifiers.
func hitIncrement(text string, idx, triggerLen int) float64 {
	start := idx - modifierWindow
	if start < 0 {
		start = 0
	}
	end := idx + triggerLen + modifierWindow
	if end > len(text) {
		end = len(text)
	}
	window := text[start:end]

	for _, w := range amplifiers {
		if strings.Contains(window, w) {
			return incrementLarge
		}
	}
	for _, w := range attenuators {
		if strings.Contains(window, w) {
			return incrementSmall
		}
	}
	return incrementMedium
}

// TasteProfileFor combines the color default with tasting-note adjustments
// and clamps the result to the legal ranges.
func (e *Estimator) TasteProfileFor(rec *wine.Record) wine.TasteProfile {
	profile := e.DefaultTasteProfile(rec.Color)
	applyAdjustments(&profile, e.AnalyzeTastingNotes(rec.TastingNotes))
	profile.Clamp(rec.Color)
	return profile
}

func applyAdjustments(p *wine.TasteProfile, adj NoteAdjustments) {
	p.Body += adj[axisBody]
	p.Acidity += adj[axisAcidity]
	p.Tannin += adj[axisTannin]
	p.Sweetness += adj[axisSweetness]
	p.Fruitiness += adj[axisFruitiness]
	p.Oak += adj[axisOak]
	p.Complexity += adj[axisComplexity]
	p.Intensity += adj[axisIntensity]
}

// agingRule gives years from vintage to the start of the peak window and
// total ageability for a (color, provenance keyword) bucket.
type agingRule struct {
	keywords   []string // matched against region + appellation, lowercased
	peakYears  int
	totalYears int
}

// agingRules is consulted top to bottom within a color; the first keyword
// match wins, the last entry of each color is the default.
var agingRules = map[wine.Color][]agingRule{
	wine.ColorRed: {
		{keywords: []string{"grand cru", "premier cru", "1er cru"}, peakYears: 12, totalYears: 25},
		{keywords: []string{"bordeaux", "pauillac", "margaux", "saint-julien", "pomerol", "saint-émilion", "saint-emilion"}, peakYears: 10, totalYears: 20},
		{keywords: []string{"bourgogne", "burgundy", "barolo", "brunello", "hermitage", "côte-rôtie", "cote-rotie", "rioja"}, peakYears: 9, totalYears: 18},
		{keywords: nil, peakYears: 7, totalYears: 12},
	},
	wine.ColorWhite: {
		{keywords: []string{"grand cru", "premier cru", "1er cru", "riesling", "chablis"}, peakYears: 8, totalYears: 15},
		{keywords: []string{"sauternes", "tokaj", "vendanges tardives"}, peakYears: 12, totalYears: 30},
		{keywords: nil, peakYears: 3, totalYears: 6},
	},
	wine.ColorRose: {
		{keywords: nil, peakYears: 1, totalYears: 2},
	},
	wine.ColorSparkling: {
		{keywords: []string{"millésimé", "millesime", "vintage", "grand cru"}, peakYears: 8, totalYears: 15},
		{keywords: nil, peakYears: 2, totalYears: 4},
	},
	wine.ColorFortified: {
		{keywords: []string{"vintage port", "porto vintage", "vintage"}, peakYears: 20, totalYears: 40},
		{keywords: nil, peakYears: 10, totalYears: 30},
	},
}

// AgingCurve derives the aging profile from the rule table, the explicit
// drink window when the store carries one, and the current year.
func (e *Estimator) AgingCurve(rec *wine.Record) (*wine.AgingProfile, error) {
	if rec.Vintage <= 0 {
		return nil, wine.ErrVintageRequired
	}

	peakYears, totalYears := e.lookupAgingRule(rec)

	peakStart := rec.Vintage + peakYears
	peakEnd := rec.Vintage + (peakYears+totalYears)/2

	// Explicit drink window from the cellar store wins over the table.
	if rec.DrinkFrom != nil && *rec.DrinkFrom > rec.Vintage {
		peakStart = *rec.DrinkFrom
	}
	if rec.DrinkUntil != nil && *rec.DrinkUntil >= peakStart {
		peakEnd = *rec.DrinkUntil
	}
	if peakEnd < peakStart {
		peakEnd = peakStart
	}
	// The ceiling stays at least minDeclineSpan years past the window end,
	// so quality tapers after the peak instead of dropping to the floor in
	// a single year when the window reaches the table ceiling.
	if totalYears < peakEnd-rec.Vintage+minDeclineSpan {
		totalYears = peakEnd - rec.Vintage + minDeclineSpan
	}

	age := e.now().Year() - rec.Vintage
	phase := lifecyclePhase(age, peakStart-rec.Vintage, peakEnd-rec.Vintage)

	return &wine.AgingProfile{
		PotentialYears: totalYears,
		PeakStartYear:  peakStart,
		PeakEndYear:    peakEnd,
		CurrentPhase:   phase,
		DrinkNow:       phase == wine.PhasePeak || phase == wine.PhaseDecline,
		QualityNow:     qualityNow(age, peakStart-rec.Vintage, peakEnd-rec.Vintage, totalYears),
	}, nil
}

func (e *Estimator) lookupAgingRule(rec *wine.Record) (peakYears, totalYears int) {
	rules, ok := agingRules[rec.Color]
	if !ok {
		return 5, 10
	}
	provenance := strings.ToLower(rec.Region + " " + rec.Subregion + " " + rec.Appellation + " " + rec.Style)
	for _, rule := range rules {
		if rule.keywords == nil {
			return rule.peakYears, rule.totalYears
		}
		for _, kw := range rule.keywords {
			if strings.Contains(provenance, kw) {
				return rule.peakYears, rule.totalYears
			}
		}
	}
	last := rules[len(rules)-1]
	return last.peakYears, last.totalYears
}

// lifecyclePhase is a pure function of the wine's age against its peak
// window: youth below 40% of the peak-start age, development up to it,
// peak inside the window, decline beyond.
func lifecyclePhase(age, peakStartAge, peakEndAge int) wine.Phase {
	if peakStartAge <= 0 {
		if age <= peakEndAge {
			return wine.PhasePeak
		}
		return wine.PhaseDecline
	}
	switch {
	case float64(age) < 0.4*float64(peakStartAge):
		return wine.PhaseYouth
	case age < peakStartAge:
		return wine.PhaseDevelopment
	case age <= peakEndAge:
		return wine.PhasePeak
	default:
		return wine.PhaseDecline
	}
}

// minDeclineSpan is the smallest number of years between the end of the
// peak window and the ageability ceiling.
const minDeclineSpan = 3

// qualityNow is a piecewise-linear estimate of present-day drinking
// quality in [0,100]: rising from 40 at release to 98 at the start of the
// peak window, flat across the window, then falling to a floor of 12 at
// and past the ageability ceiling. Monotone within each phase and
// continuous at the boundaries.
func qualityNow(age, peakStartAge, peakEndAge, totalYears int) float64 {
	const (
		release = 40.0
		peak    = 98.0
		floor   = 12.0
	)
	switch {
	case age <= 0:
		return release
	case age < peakStartAge:
		return release + (peak-release)*float64(age)/float64(peakStartAge)
	case age <= peakEndAge:
		return peak
	case age >= totalYears:
		return floor
	default:
		span := float64(totalYears - peakEndAge)
		if span <= 0 {
			return floor
		}
		return peak - (peak-floor)*float64(age-peakEndAge)/span
	}
}

// DefaultPairings returns the fixed four-pairing table for a color,
// spanning the three type tags.
func (e *Estimator) DefaultPairings(color wine.Color) wine.PairingList {
	switch color {
	case wine.ColorRed:
		return wine.PairingList{
			{Food: "grilled rib steak", Strength: 4.5, Type: wine.PairingClassic,
				Explanation: "Tannins cut through the marbling while the char echoes the wine's structure."},
			{Food: "braised lamb shank", Strength: 4, Type: wine.PairingClassic,
				Explanation: "Slow-cooked meat matches the wine's depth and savory notes."},
			{Food: "dark chocolate tart", Strength: 3, Type: wine.PairingAudacious,
				Explanation: "Bitter cocoa plays against ripe fruit for an unexpected finish."},
			{Food: "aged comté", Strength: 3.5, Type: wine.PairingMerchant,
				Explanation: "A crowd-pleasing cheese board match that flatters almost any red."},
		}
	case wine.ColorWhite:
		return wine.PairingList{
			{Food: "roast chicken with lemon", Strength: 4, Type: wine.PairingClassic,
				Explanation: "Bright acidity lifts the roasted skin and citrus notes."},
			{Food: "seared scallops", Strength: 4.5, Type: wine.PairingClassic,
				Explanation: "Delicate sweetness of the shellfish mirrors the wine's fruit."},
			{Food: "thai green curry", Strength: 3, Type: wine.PairingAudacious,
				Explanation: "Residual freshness tames the chili heat and coconut richness."},
			{Food: "goat cheese crostini", Strength: 3.5, Type: wine.PairingMerchant,
				Explanation: "An easy aperitif pairing that sells itself at the counter."},
		}
	case wine.ColorRose:
		return wine.PairingList{
			{Food: "niçoise salad", Strength: 4, Type: wine.PairingClassic,
				Explanation: "Provençal flavors and crisp rosé are a textbook summer match."},
			{Food: "grilled prawns", Strength: 4, Type: wine.PairingClassic,
				Explanation: "Light smoke and sweet shellfish suit the wine's red-berry lift."},
			{Food: "spicy tuna roll", Strength: 3, Type: wine.PairingAudacious,
				Explanation: "Chilled fruit and gentle sweetness cool wasabi and chili."},
			{Food: "charcuterie board", Strength: 3.5, Type: wine.PairingMerchant,
				Explanation: "A versatile picnic staple that moves bottles year-round."},
		}
	case wine.ColorSparkling:
		return wine.PairingList{
			{Food: "oysters on the half shell", Strength: 5, Type: wine.PairingClassic,
				Explanation: "Brisk bubbles and saline minerality are made for each other."},
			{Food: "fried chicken", Strength: 4, Type: wine.PairingAudacious,
				Explanation: "High acidity scrubs the palate between crispy, salty bites."},
			{Food: "gougères", Strength: 4, Type: wine.PairingClassic,
				Explanation: "Cheese puffs echo the wine's brioche autolysis notes."},
			{Food: "potato chips with crème fraîche", Strength: 3.5, Type: wine.PairingMerchant,
				Explanation: "A playful apéro pairing that makes the bottle memorable."},
		}
	case wine.ColorFortified:
		return wine.PairingList{
			{Food: "stilton", Strength: 5, Type: wine.PairingClassic,
				Explanation: "Salt-sweet tension between blue cheese and fortified fruit is legendary."},
			{Food: "chocolate fondant", Strength: 4, Type: wine.PairingClassic,
				Explanation: "Molten chocolate meets the wine's fig and caramel depth."},
			{Food: "smoked almonds", Strength: 3, Type: wine.PairingAudacious,
				Explanation: "Smoke and salt sharpen the wine's oxidative nuttiness."},
			{Food: "salted caramel tart", Strength: 3.5, Type: wine.PairingMerchant,
				Explanation: "A dessert-cart match that needs no explaining to guests."},
		}
	default:
		return wine.PairingList{
			{Food: "roast poultry", Strength: 3.5, Type: wine.PairingClassic,
				Explanation: "A neutral, dependable match for an unclassified bottle."},
			{Food: "mushroom risotto", Strength: 3, Type: wine.PairingClassic,
				Explanation: "Earthy umami flatters most styles without clashing."},
			{Food: "grilled halloumi", Strength: 3, Type: wine.PairingAudacious,
				Explanation: "Salty grilled cheese bridges red and white territory."},
			{Food: "mixed tapas", Strength: 3, Type: wine.PairingMerchant,
				Explanation: "Small plates keep the pairing flexible for any guest."},
		}
	}
}

// foodRule maps dish keywords to a wine suggestion for the reverse
// (wine-for-food) direction.
type foodRule struct {
	keywords []string
	pairing  wine.Pairing
}

var foodRules = []foodRule{
	{keywords: []string{"beef", "steak", "lamb", "game", "venison", "boeuf", "agneau", "gibier"},
		pairing: wine.Pairing{Food: "structured red (Bordeaux blend or Syrah)", Strength: 4.5, Type: wine.PairingClassic,
			Explanation: "Red meat calls for tannin and dark fruit to stand up to the char."}},
	{keywords: []string{"fish", "seafood", "oyster", "shellfish", "sole", "poisson", "huître", "huitre"},
		pairing: wine.Pairing{Food: "crisp dry white (Chablis or Muscadet)", Strength: 4.5, Type: wine.PairingClassic,
			Explanation: "Saline, high-acid whites frame delicate sea flavors without overwhelming them."}},
	{keywords: []string{"chicken", "poultry", "pork", "veal", "poulet", "porc", "veau"},
		pairing: wine.Pairing{Food: "supple red or rich white (Pinot Noir, Chardonnay)", Strength: 4, Type: wine.PairingClassic,
			Explanation: "White meats sit happily between light reds and fuller whites."}},
	{keywords: []string{"spicy", "curry", "thai", "szechuan", "épicé", "epice"},
		pairing: wine.Pairing{Food: "off-dry aromatic white (Gewurztraminer, Riesling)", Strength: 4, Type: wine.PairingAudacious,
			Explanation: "A touch of sugar and low alcohol keep chili heat in check."}},
	{keywords: []string{"chocolate", "dessert", "cake", "tart", "chocolat", "gâteau", "gateau"},
		pairing: wine.Pairing{Food: "fortified red (Banyuls, ruby port)", Strength: 4.5, Type: wine.PairingClassic,
			Explanation: "Only a sweet, powerful wine survives next to chocolate."}},
	{keywords: []string{"cheese", "fromage", "brie", "comté", "comte", "stilton", "roquefort"},
		pairing: wine.Pairing{Food: "white with tension or late-harvest (Jura, Sauternes)", Strength: 4, Type: wine.PairingMerchant,
			Explanation: "Whites handle most cheese boards better than big reds do."}},
}

// SuggestWinesForFood is the deterministic wine-for-food fallback: keyword
// buckets over the dish description, with a versatile default when nothing
// matches. The Food field of each pairing carries the wine suggestion.
func (e *Estimator) SuggestWinesForFood(food string) wine.PairingList {
	lower := strings.ToLower(food)
	var list wine.PairingList
	for _, rule := range foodRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				list = append(list, rule.pairing)
				break
			}
		}
		if len(list) == 3 {
			break
		}
	}
	if len(list) == 0 {
		list = wine.PairingList{
			{Food: "dry sparkling (Crémant or Champagne)", Strength: 3.5, Type: wine.PairingMerchant,
				Explanation: "Bubbles and acidity make sparkling the safest all-rounder."},
			{Food: "light red served cool (Gamay, Pinot Noir)", Strength: 3, Type: wine.PairingClassic,
				Explanation: "Low tannin and bright fruit flex across most dishes."},
		}
	}
	return list
}
