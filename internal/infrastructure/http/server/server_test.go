package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cellarmind/v1/internal/application/enrichment"
	"github.com/cellarmind/v1/internal/domain/wine"
	"github.com/cellarmind/v1/internal/infrastructure/config"
	"github.com/cellarmind/v1/internal/infrastructure/persistence/memory"
	"github.com/cellarmind/v1/internal/infrastructure/vintage"
)

// newTestServer builds a server over a degraded (keyless) enrichment
// service, so every response comes from the rule-based estimator.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := zaptest.NewLogger(t)
	cache := memory.NewCacheRepository(logger)
	svc := enrichment.NewService(enrichment.Config{}, cache, memory.NewWineRepository(), vintage.NewChart(), nil, logger)

	cfg := &config.Config{}
	cfg.App.Name = "CellarMind"
	cfg.App.Version = "test"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0

	return NewServer(cfg, logger, svc)
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestTasteEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/api/v1/wines/taste",
		`{"name": "Château Test", "vintage": 2015, "color": "red"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile wine.TasteProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, 4.0, profile.Body)
	assert.Equal(t, 4.0, profile.Tannin)
}

func TestAgingEndpointRequiresVintage(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/api/v1/wines/aging",
		`{"name": "NV Brut", "color": "sparkling"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VINTAGE_REQUIRED")
}

func TestAgingEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/api/v1/wines/aging",
		`{"name": "Château Test", "vintage": 2015, "region": "Bordeaux", "color": "red"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile wine.AgingProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, 20, profile.PotentialYears)
	assert.Equal(t, 2025, profile.PeakStartYear)
}

func TestPairingsEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/api/v1/wines/pairings",
		`{"name": "Château Test", "color": "red", "classic": 2, "audacious": 1, "merchant": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var pairings wine.PairingList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pairings))
	assert.NotEmpty(t, pairings)
}

func TestFoodPairingsEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/api/v1/foods/pairings",
		`{"food": "grilled beef"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var list wine.PairingList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.NotEmpty(t, list)
	assert.Contains(t, list[0].Food, "red")
}

func TestFoodPairingsRequiresFood(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/api/v1/foods/pairings", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnrichEndpoint(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/api/v1/wines/enrich",
		`{"name": "Château Test", "vintage": 2016, "region": "Bordeaux", "color": "red"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var record wine.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.NotNil(t, record.Taste)
	assert.NotNil(t, record.Aging)
	assert.NotEmpty(t, record.Pairings)
	require.NotNil(t, record.VintageScore)
	assert.Equal(t, 19.0, *record.VintageScore)
}

func TestInvalidColorRejected(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/api/v1/wines/taste",
		`{"name": "Mystery", "color": "plaid"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_COLOR")
}

func TestInvalidJSONRejected(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/api/v1/wines/taste", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
