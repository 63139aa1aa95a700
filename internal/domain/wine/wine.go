// Package wine contains the core domain model for cellar records and
// their enrichable sub-structures (taste profile, aging profile, pairings).
package wine

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Color classifies a wine. The closed set matters: prompts enumerate it
// and the rule-based estimator keys its tables on it.
type Color string

const (
	ColorRed       Color = "red"
	ColorWhite     Color = "white"
	ColorRose      Color = "rose"
	ColorSparkling Color = "sparkling"
	ColorFortified Color = "fortified"
)

// colorAliases maps free-text color labels (including the French labels
// the original cellar data carries) to canonical colors.
var colorAliases = map[string]Color{
	"red":          ColorRed,
	"rouge":        ColorRed,
	"white":        ColorWhite,
	"blanc":        ColorWhite,
	"rose":         ColorRose,
	"rosé":         ColorRose,
	"sparkling":    ColorSparkling,
	"effervescent": ColorSparkling,
	"petillant":    ColorSparkling,
	"pétillant":    ColorSparkling,
	"fortified":    ColorFortified,
	"muté":         ColorFortified,
	"vdn":          ColorFortified,
}

// ParseColor normalizes a free-text color label. The second return value
// reports whether the label was recognized.
func ParseColor(s string) (Color, bool) {
	c, ok := colorAliases[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// IsValid reports whether the color is one of the canonical values.
func (c Color) IsValid() bool {
	switch c {
	case ColorRed, ColorWhite, ColorRose, ColorSparkling, ColorFortified:
		return true
	}
	return false
}

// Tannic reports whether tannin is structurally meaningful for the color.
func (c Color) Tannic() bool {
	return c == ColorRed || c == ColorFortified
}

// Record is the subject of enrichment. Identity and classification come
// from the cellar store; the three sub-structures are nil until enriched.
type Record struct {
	ID      uuid.UUID `json:"id,omitempty"`
	Name    string    `json:"name"`
	Vintage int       `json:"vintage,omitempty"` // 0 means non-vintage

	// Provenance
	Domain      string `json:"domain,omitempty"`
	Region      string `json:"region,omitempty"`
	Subregion   string `json:"subregion,omitempty"`
	Appellation string `json:"appellation,omitempty"`

	// Classification
	Color      Color    `json:"color"`
	Alcohol    float64  `json:"alcohol,omitempty"`
	Style      string   `json:"style,omitempty"`
	PriceRange string   `json:"price_range,omitempty"`
	Grapes     []string `json:"grapes,omitempty"`

	// Free-text cellar notes, fed to the tasting-note analyzer.
	TastingNotes string `json:"tasting_notes,omitempty"`

	// Explicit optimal-consumption window from the store. When present it
	// overrides the table-derived peak window.
	DrinkFrom  *int `json:"drink_from,omitempty"`
	DrinkUntil *int `json:"drink_until,omitempty"`

	// Enrichable sub-structures
	Taste    *TasteProfile `json:"taste_profile,omitempty"`
	Aging    *AgingProfile `json:"aging_profile,omitempty"`
	Pairings PairingList   `json:"pairings,omitempty"`

	// Vintage-chart score on the 0-20 scale, when the chart covers the
	// region and year.
	VintageScore *float64 `json:"vintage_score,omitempty"`
}

// Validate checks the invariants an enriched record must satisfy.
// Name and color are mandatory; everything else is optional.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	if !r.Color.IsValid() {
		return ErrColorRequired
	}
	return nil
}

// FullyEnriched reports whether all three sub-structures are populated.
func (r *Record) FullyEnriched() bool {
	return r.Taste != nil && r.Aging != nil && len(r.Pairings) > 0
}

// Age returns the wine's age in years at the given reference time, or 0
// when the record has no vintage.
func (r *Record) Age(now time.Time) int {
	if r.Vintage <= 0 {
		return 0
	}
	age := now.Year() - r.Vintage
	if age < 0 {
		return 0
	}
	return age
}
