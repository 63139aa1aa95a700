package wine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		input string
		want  Color
		ok    bool
	}{
		{"red", ColorRed, true},
		{"Red", ColorRed, true},
		{"  ROUGE ", ColorRed, true},
		{"blanc", ColorWhite, true},
		{"white", ColorWhite, true},
		{"rosé", ColorRose, true},
		{"rose", ColorRose, true},
		{"sparkling", ColorSparkling, true},
		{"effervescent", ColorSparkling, true},
		{"fortified", ColorFortified, true},
		{"orange", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseColor(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRecordValidate(t *testing.T) {
	rec := &Record{Name: "Château Margaux", Color: ColorRed}
	require.NoError(t, rec.Validate())

	noName := &Record{Color: ColorRed}
	assert.ErrorIs(t, noName.Validate(), ErrNameRequired)

	noColor := &Record{Name: "Château Margaux"}
	assert.ErrorIs(t, noColor.Validate(), ErrColorRequired)
}

func TestTasteProfileClamp(t *testing.T) {
	t.Run("caps tannin for non-tannic colors", func(t *testing.T) {
		p := TasteProfile{Body: 3, Acidity: 4, Tannin: 4, Sweetness: 2, Fruitiness: 4, Complexity: 3, Intensity: 3}
		p.Clamp(ColorWhite)
		assert.Equal(t, 1.0, p.Tannin)
	})

	t.Run("keeps tannin for tannic colors", func(t *testing.T) {
		p := TasteProfile{Body: 4, Acidity: 3, Tannin: 4, Sweetness: 1, Fruitiness: 3, Complexity: 3, Intensity: 3}
		p.Clamp(ColorRed)
		assert.Equal(t, 4.0, p.Tannin)
	})

	t.Run("forces axes into range", func(t *testing.T) {
		p := TasteProfile{Body: 9, Acidity: -2, Tannin: 7, Sweetness: 0, Fruitiness: 3, Oak: -1, Complexity: 3, Intensity: 6}
		p.Clamp(ColorRed)
		assert.Equal(t, 5.0, p.Body)
		assert.Equal(t, 1.0, p.Acidity)
		assert.Equal(t, 5.0, p.Tannin)
		assert.Equal(t, 1.0, p.Sweetness)
		assert.Equal(t, 0.0, p.Oak)
		assert.Equal(t, 5.0, p.Intensity)
	})
}

func TestPairingMixTotal(t *testing.T) {
	assert.Equal(t, 4, DefaultPairingMix().Total())
	assert.Equal(t, 4, PairingMix{}.Total())
	assert.Equal(t, 2, PairingMix{Classic: 1, Merchant: 1}.Total())
	assert.Equal(t, 4, PairingMix{Classic: 3, Audacious: 3, Merchant: 3}.Total())
}

func TestPhaseIsValid(t *testing.T) {
	for _, p := range []Phase{PhaseYouth, PhaseDevelopment, PhasePeak, PhaseDecline} {
		assert.True(t, p.IsValid())
	}
	assert.False(t, Phase("mature").IsValid())
	assert.False(t, Phase("").IsValid())
}
