package wine

// Value objects for the enrichable sub-structures.

// TasteProfile scores a wine along eight axes. Every axis lives in [1,5]
// except tannin and oak, which may be 0 to express absence.
type TasteProfile struct {
	Body       float64 `json:"body" validate:"min=1,max=5"`
	Acidity    float64 `json:"acidity" validate:"min=1,max=5"`
	Tannin     float64 `json:"tannin" validate:"min=0,max=5"`
	Sweetness  float64 `json:"sweetness" validate:"min=1,max=5"`
	Fruitiness float64 `json:"fruitiness" validate:"min=1,max=5"`
	Oak        float64 `json:"oak" validate:"min=0,max=5"`
	Complexity float64 `json:"complexity" validate:"min=1,max=5"`
	Intensity  float64 `json:"intensity" validate:"min=1,max=5"`

	// 3-5 free-text descriptors when known.
	PrimaryFlavors []string `json:"primary_flavors,omitempty" validate:"omitempty,max=8"`
}

// Clamp forces every axis into its legal range for the given color.
// Non-tannic colors keep at most a nominal tannin floor of 1 so that
// enrichment cannot fabricate structure a fresh white does not have.
func (t *TasteProfile) Clamp(color Color) {
	t.Body = clampAxis(t.Body, 1)
	t.Acidity = clampAxis(t.Acidity, 1)
	t.Sweetness = clampAxis(t.Sweetness, 1)
	t.Fruitiness = clampAxis(t.Fruitiness, 1)
	t.Complexity = clampAxis(t.Complexity, 1)
	t.Intensity = clampAxis(t.Intensity, 1)
	t.Tannin = clampAxis(t.Tannin, 0)
	t.Oak = clampAxis(t.Oak, 0)
	if !color.Tannic() && t.Tannin > 1 {
		t.Tannin = 1
	}
}

func clampAxis(v, floor float64) float64 {
	if v < floor {
		return floor
	}
	if v > 5 {
		return 5
	}
	return v
}

// Phase is a wine's lifecycle stage relative to its peak window.
type Phase string

const (
	PhaseYouth       Phase = "youth"
	PhaseDevelopment Phase = "development"
	PhasePeak        Phase = "peak"
	PhaseDecline     Phase = "decline"
)

// IsValid reports whether the phase is one of the canonical values.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseYouth, PhaseDevelopment, PhasePeak, PhaseDecline:
		return true
	}
	return false
}

// AgingProfile describes a wine's drinking window. Peak years are absolute
// calendar years derived from vintage plus offsets.
//
// Invariant: PeakStartYear <= PeakEndYear <= vintage + PotentialYears.
type AgingProfile struct {
	PotentialYears int     `json:"potential_years" validate:"min=0,max=100"`
	PeakStartYear  int     `json:"peak_start_year"`
	PeakEndYear    int     `json:"peak_end_year"`
	CurrentPhase   Phase   `json:"current_phase" validate:"oneof=youth development peak decline"`
	DrinkNow       bool    `json:"drink_now"`
	QualityNow     float64 `json:"estimated_quality_now" validate:"min=0,max=100"`
}

// PairingType tags the register of a food pairing.
type PairingType string

const (
	PairingClassic   PairingType = "classic"
	PairingAudacious PairingType = "audacious"
	PairingMerchant  PairingType = "merchant"
)

// IsValid reports whether the type is one of the canonical tags.
func (p PairingType) IsValid() bool {
	switch p {
	case PairingClassic, PairingAudacious, PairingMerchant:
		return true
	}
	return false
}

// Pairing recommends a food match. Strength allows half points in [1,5].
type Pairing struct {
	Food        string      `json:"food" validate:"required"`
	Strength    float64     `json:"pairing_strength" validate:"min=1,max=5"`
	Type        PairingType `json:"pairing_type" validate:"oneof=classic audacious merchant"`
	Explanation string      `json:"explanation"`
}

// PairingList holds 1-4 pairings for a wine or dish.
type PairingList []Pairing

// PairingMix requests how many of each pairing type a caller wants.
type PairingMix struct {
	Classic   int `json:"classic"`
	Audacious int `json:"audacious"`
	Merchant  int `json:"merchant"`
}

// DefaultPairingMix is one classic match plus one of each alternative tag.
func DefaultPairingMix() PairingMix {
	return PairingMix{Classic: 2, Audacious: 1, Merchant: 1}
}

// Total returns the requested number of pairings, capped at 4.
func (m PairingMix) Total() int {
	n := m.Classic + m.Audacious + m.Merchant
	if n <= 0 {
		n = 4
	}
	if n > 4 {
		n = 4
	}
	return n
}
