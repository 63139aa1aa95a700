package enrichment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cellarmind/v1/internal/domain/wine"
	"github.com/cellarmind/v1/internal/infrastructure/persistence/memory"
	"github.com/cellarmind/v1/internal/infrastructure/vintage"
	"github.com/cellarmind/v1/internal/ports/outbound"
)

// stubLLM is a scripted gateway: it returns a fixed response or error,
// counts calls and records the last request it saw.
type stubLLM struct {
	response   string
	err        error
	configured bool
	calls      int
	lastReq    outbound.CompletionRequest
}

func (s *stubLLM) Name() string     { return "stub" }
func (s *stubLLM) Configured() bool { return s.configured }

func (s *stubLLM) Complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newTestService(t *testing.T, llm outbound.LLMClient) (*Service, *memory.CacheRepository) {
	t.Helper()
	cache := memory.NewCacheRepository(zaptest.NewLogger(t))
	svc := NewService(Config{}, cache, nil, nil, llm, zaptest.NewLogger(t))
	svc.SetEstimator(NewEstimatorAt(fixedClock(2026)))
	return svc, cache
}

func testWine() *wine.Record {
	return &wine.Record{
		Name:    "Château Test",
		Vintage: 2015,
		Region:  "Bordeaux",
		Color:   wine.ColorRed,
	}
}

func TestGetTasteProfileIdempotent(t *testing.T) {
	llm := &stubLLM{configured: true, response: `{"body": 5, "primary_flavors": ["plum", "cedar"]}`}
	svc, _ := newTestService(t, llm)

	first, err := svc.GetTasteProfile(context.Background(), testWine(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 5.0, first.Body)
	assert.Equal(t, []string{"plum", "cedar"}, first.PrimaryFlavors)

	second, err := svc.GetTasteProfile(context.Background(), testWine(), Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, llm.calls, "second call must come from the cache")
}

func TestGetTasteProfileNoKeyDegrades(t *testing.T) {
	llm := &stubLLM{configured: false}
	svc, cache := newTestService(t, llm)

	profile, err := svc.GetTasteProfile(context.Background(), testWine(), Options{})
	require.NoError(t, err)

	want := NewEstimator().TasteProfileFor(testWine())
	assert.Equal(t, want, *profile)
	assert.Equal(t, 0, llm.calls)
	assert.Equal(t, 0, cache.Len(), "degraded results are not cached")
}

func TestGetTasteProfileProviderErrorFallsBack(t *testing.T) {
	llm := &stubLLM{configured: true, err: errors.New("upstream exploded")}
	svc, cache := newTestService(t, llm)

	profile, err := svc.GetTasteProfile(context.Background(), testWine(), Options{})
	require.NoError(t, err, "provider errors never propagate")

	want := NewEstimator().TasteProfileFor(testWine())
	assert.Equal(t, want, *profile)
	assert.Equal(t, 0, cache.Len(), "fallback results are not cached")
}

func TestGetTasteProfileUnparseableFallsBack(t *testing.T) {
	llm := &stubLLM{configured: true, response: "I am terribly sorry but I cannot help with that."}
	svc, cache := newTestService(t, llm)

	profile, err := svc.GetTasteProfile(context.Background(), testWine(), Options{})
	require.NoError(t, err)

	want := NewEstimator().TasteProfileFor(testWine())
	assert.Equal(t, want, *profile)
	assert.Equal(t, 0, cache.Len())
}

func TestGetTasteProfileForceRefresh(t *testing.T) {
	llm := &stubLLM{configured: true, response: `{"body": 5}`}
	svc, _ := newTestService(t, llm)

	_, err := svc.GetTasteProfile(context.Background(), testWine(), Options{})
	require.NoError(t, err)

	llm.response = `{"body": 2}`
	refreshed, err := svc.GetTasteProfile(context.Background(), testWine(), Options{ForceRefresh: true})
	require.NoError(t, err)
	assert.Equal(t, 2.0, refreshed.Body)
	assert.Equal(t, 2, llm.calls)

	// The refresh overwrote the cache entry.
	cached, err := svc.GetTasteProfile(context.Background(), testWine(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2.0, cached.Body)
	assert.Equal(t, 2, llm.calls)
}

func TestGetTasteProfileValidatesRecord(t *testing.T) {
	svc, _ := newTestService(t, &stubLLM{})

	_, err := svc.GetTasteProfile(context.Background(), &wine.Record{Color: wine.ColorRed}, Options{})
	assert.ErrorIs(t, err, wine.ErrNameRequired)

	_, err = svc.GetTasteProfile(context.Background(), &wine.Record{Name: "x"}, Options{})
	assert.ErrorIs(t, err, wine.ErrColorRequired)
}

func TestGetAgingDataRequiresVintage(t *testing.T) {
	svc, _ := newTestService(t, &stubLLM{configured: true, response: "{}"})

	_, err := svc.GetAgingData(context.Background(), &wine.Record{
		Name:  "NV Brut",
		Color: wine.ColorSparkling,
	}, Options{})
	assert.ErrorIs(t, err, wine.ErrVintageRequired)
}

func TestGetAgingDataNoKeyDegrades(t *testing.T) {
	svc, _ := newTestService(t, &stubLLM{configured: false})

	profile, err := svc.GetAgingData(context.Background(), testWine(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 20, profile.PotentialYears)
	assert.Equal(t, 2025, profile.PeakStartYear)
	assert.Equal(t, 2030, profile.PeakEndYear)
	assert.Equal(t, wine.PhasePeak, profile.CurrentPhase)
}

func TestGetAgingDataMergesResponse(t *testing.T) {
	llm := &stubLLM{configured: true, response: `{"potential_years": 30, "peak_start_year": 2027}`}
	svc, _ := newTestService(t, llm)

	profile, err := svc.GetAgingData(context.Background(), testWine(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 30, profile.PotentialYears)
	assert.Equal(t, 2027, profile.PeakStartYear)
	assert.Equal(t, 2030, profile.PeakEndYear, "omitted field keeps the rule-based value")
}

func TestGetPairingsHonorsMixKey(t *testing.T) {
	llm := &stubLLM{configured: true, response: `[{"food": "duck", "pairing_strength": 4, "pairing_type": "classic", "explanation": "x"}]`}
	svc, _ := newTestService(t, llm)

	_, err := svc.GetPairings(context.Background(), testWine(), wine.DefaultPairingMix(), Options{})
	require.NoError(t, err)

	// A different mix is a different cache entry, so the gateway runs again.
	_, err = svc.GetPairings(context.Background(), testWine(), wine.PairingMix{Classic: 4}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, llm.calls)
}

func TestGetPairingsFragmentRecovery(t *testing.T) {
	llm := &stubLLM{configured: true, response: `Sure! Here are my picks:
{"food": "duck breast", "pairing_strength": 4.5, "pairing_type": "classic", "explanation": "rich meets rich"}
and also
{"food": "aged gouda", "pairing_strength": 3.5, "pairing_type": "merchant", "explanation": "easy"}
{"note": "not a pairing"}`}
	svc, _ := newTestService(t, llm)

	pairings, err := svc.GetPairings(context.Background(), testWine(), wine.DefaultPairingMix(), Options{})
	require.NoError(t, err)
	require.Len(t, pairings, 2)
	assert.Equal(t, "duck breast", pairings[0].Food)
	assert.Equal(t, "aged gouda", pairings[1].Food)
}

func TestGetWinesForFoodDegrades(t *testing.T) {
	svc, _ := newTestService(t, &stubLLM{configured: false})

	list, err := svc.GetWinesForFood(context.Background(), "grilled beef", Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, list)
}

func TestEnrichWineFullInfo(t *testing.T) {
	llm := &stubLLM{configured: true, response: `{
		"alcohol": 13.5,
		"grapes": ["merlot", "cabernet sauvignon"],
		"taste_profile": {"body": 5, "primary_flavors": ["plum"]},
		"aging_profile": {"potential_years": 25},
		"pairings": [{"food": "duck", "pairing_strength": 4, "pairing_type": "classic", "explanation": "x"}]
	}`}
	cache := memory.NewCacheRepository(zaptest.NewLogger(t))
	svc := NewService(Config{}, cache, nil, vintage.NewChart(), llm, zaptest.NewLogger(t))
	svc.SetEstimator(NewEstimatorAt(fixedClock(2026)))

	rec, err := svc.EnrichWine(context.Background(), testWine(), Options{})
	require.NoError(t, err)

	assert.True(t, rec.FullyEnriched())
	assert.Equal(t, 13.5, rec.Alcohol)
	assert.Equal(t, 5.0, rec.Taste.Body)
	assert.Equal(t, 25, rec.Aging.PotentialYears)
	assert.Equal(t, "duck", rec.Pairings[0].Food)
	require.NotNil(t, rec.VintageScore)
	assert.Equal(t, 18.0, *rec.VintageScore)
	assert.Equal(t, 1, llm.calls, "a full payload needs no sub-enrichment calls")
}

func TestEnrichWineSkipsAgingWithoutVintage(t *testing.T) {
	svc, _ := newTestService(t, &stubLLM{configured: false})

	rec, err := svc.EnrichWine(context.Background(), &wine.Record{
		Name:  "NV Brut",
		Color: wine.ColorSparkling,
	}, Options{})
	require.NoError(t, err)

	assert.Nil(t, rec.Aging, "aging stays explicitly absent without a vintage")
	assert.NotNil(t, rec.Taste)
	assert.NotEmpty(t, rec.Pairings)
}

func TestGetTasteProfileUsesCallLanguage(t *testing.T) {
	llm := &stubLLM{configured: true, response: `{"body": 4}`}
	svc, _ := newTestService(t, llm)

	_, err := svc.GetTasteProfile(context.Background(), testWine(), Options{Language: "fr"})
	require.NoError(t, err)

	assert.Contains(t, llm.lastReq.System, "French", "system persona follows the call language")
	assert.Contains(t, llm.lastReq.Prompt, "French")
}

func TestCompleteUsesConfiguredSampling(t *testing.T) {
	llm := &stubLLM{configured: true, response: `{"body": 4}`}
	cache := memory.NewCacheRepository(zaptest.NewLogger(t))
	svc := NewService(Config{Temperature: 0.2, MaxTokens: 256}, cache, nil, nil, llm, zaptest.NewLogger(t))
	svc.SetEstimator(NewEstimatorAt(fixedClock(2026)))

	_, err := svc.GetTasteProfile(context.Background(), testWine(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 0.2, llm.lastReq.Temperature)
	assert.Equal(t, 256, llm.lastReq.MaxTokens)
}

func TestCompleteSamplingDefaults(t *testing.T) {
	llm := &stubLLM{configured: true, response: `{"body": 4}`}
	svc, _ := newTestService(t, llm)

	_, err := svc.GetTasteProfile(context.Background(), testWine(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 0.7, llm.lastReq.Temperature)
	assert.Equal(t, 1000, llm.lastReq.MaxTokens)
}

func TestEnrichWineStoredRecordShortCircuits(t *testing.T) {
	store := memory.NewWineRepository()
	stored := testWine()
	stored.Alcohol = 14.5
	stored.Style = "classed growth"
	stored.Taste = &wine.TasteProfile{
		Body: 4.5, Acidity: 3, Tannin: 4, Sweetness: 1, Fruitiness: 3,
		Oak: 2, Complexity: 4, Intensity: 4,
	}
	stored.Aging = &wine.AgingProfile{
		PotentialYears: 20, PeakStartYear: 2025, PeakEndYear: 2030,
		CurrentPhase: wine.PhasePeak, DrinkNow: true, QualityNow: 98,
	}
	stored.Pairings = wine.PairingList{
		{Food: "duck", Strength: 4, Type: wine.PairingClassic, Explanation: "x"},
	}
	require.NoError(t, store.Save(context.Background(), stored))

	llm := &stubLLM{configured: true, response: `{"alcohol": 11}`}
	cache := memory.NewCacheRepository(zaptest.NewLogger(t))
	svc := NewService(Config{}, cache, store, vintage.NewChart(), llm, zaptest.NewLogger(t))
	svc.SetEstimator(NewEstimatorAt(fixedClock(2026)))

	rec, err := svc.EnrichWine(context.Background(), testWine(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, llm.calls, "fully enriched stored record needs no gateway call")
	assert.Equal(t, 14.5, rec.Alcohol)
	assert.Equal(t, "classed growth", rec.Style)
	assert.Equal(t, 4.5, rec.Taste.Body)
	assert.Equal(t, 20, rec.Aging.PotentialYears)
	require.NotNil(t, rec.VintageScore)
	assert.Equal(t, 18.0, *rec.VintageScore)
}

func TestEnrichWineKeepsStoredClassification(t *testing.T) {
	store := memory.NewWineRepository()
	stored := testWine()
	stored.Alcohol = 14.5
	stored.Style = "classed growth"
	require.NoError(t, store.Save(context.Background(), stored))

	llm := &stubLLM{configured: true, response: `{
		"alcohol": 11,
		"style": "light quaffer",
		"taste_profile": {"body": 5, "primary_flavors": ["plum"]},
		"aging_profile": {"potential_years": 25},
		"pairings": [{"food": "duck", "pairing_strength": 4, "pairing_type": "classic", "explanation": "x"}]
	}`}
	cache := memory.NewCacheRepository(zaptest.NewLogger(t))
	svc := NewService(Config{}, cache, store, nil, llm, zaptest.NewLogger(t))
	svc.SetEstimator(NewEstimatorAt(fixedClock(2026)))

	rec, err := svc.EnrichWine(context.Background(), testWine(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, llm.calls, "partially stored record still needs the gateway")
	assert.Equal(t, 14.5, rec.Alcohol, "stored classification wins over the gateway guess")
	assert.Equal(t, "classed growth", rec.Style)
	assert.Equal(t, 5.0, rec.Taste.Body)
}

func TestEnrichWineUsesStoredSubStructures(t *testing.T) {
	store := memory.NewWineRepository()
	stored := testWine()
	stored.Taste = &wine.TasteProfile{
		Body: 4.5, Acidity: 3, Tannin: 4, Sweetness: 1, Fruitiness: 3,
		Oak: 2, Complexity: 4, Intensity: 4,
	}
	require.NoError(t, store.Save(context.Background(), stored))

	llm := &stubLLM{configured: true, response: "not parseable either way"}
	cache := memory.NewCacheRepository(zaptest.NewLogger(t))
	svc := NewService(Config{}, cache, store, nil, llm, zaptest.NewLogger(t))
	svc.SetEstimator(NewEstimatorAt(fixedClock(2026)))

	taste, err := svc.GetTasteProfile(context.Background(), testWine(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 4.5, taste.Body, "stored profile short-circuits the gateway")
	assert.Equal(t, 0, llm.calls)
}
