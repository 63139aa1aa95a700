// Package server provides the JSON API over the enrichment engine.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cellarmind/v1/internal/application/enrichment"
	"github.com/cellarmind/v1/internal/domain/wine"
	"github.com/cellarmind/v1/internal/infrastructure/config"
	apperrors "github.com/cellarmind/v1/pkg/errors"
)

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     *zap.Logger
	router     *chi.Mux
	server     *http.Server
	enrichment *enrichment.Service
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	service *enrichment.Service,
) *Server {
	s := &Server{
		config:     cfg,
		logger:     logger.Named("http"),
		enrichment: service,
	}

	s.router = s.setupRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// setupRouter configures routes and middleware
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/wines", func(r chi.Router) {
			r.Post("/enrich", s.handleEnrichWine)
			r.Post("/taste", s.handleTasteProfile)
			r.Post("/aging", s.handleAgingData)
			r.Post("/pairings", s.handleWinePairings)
		})
		r.Route("/foods", func(r chi.Router) {
			r.Post("/pairings", s.handleFoodPairings)
		})
	})

	return r
}

// Start begins listening for requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Router exposes the mux for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// wineRequest is the wire shape shared by the per-structure endpoints.
type wineRequest struct {
	Name         string   `json:"name"`
	Vintage      int      `json:"vintage,omitempty"`
	Domain       string   `json:"domain,omitempty"`
	Region       string   `json:"region,omitempty"`
	Subregion    string   `json:"subregion,omitempty"`
	Appellation  string   `json:"appellation,omitempty"`
	Color        string   `json:"color,omitempty"`
	Grapes       []string `json:"grapes,omitempty"`
	TastingNotes string   `json:"tasting_notes,omitempty"`
	DrinkFrom    *int     `json:"drink_from,omitempty"`
	DrinkUntil   *int     `json:"drink_until,omitempty"`

	Language     string `json:"language,omitempty"`
	ForceRefresh bool   `json:"force_refresh,omitempty"`
}

func (req *wineRequest) record() (*wine.Record, error) {
	color, ok := wine.ParseColor(req.Color)
	if req.Color != "" && !ok {
		return nil, apperrors.NewInvalidColorError(req.Color)
	}
	rec := &wine.Record{
		Name:         req.Name,
		Vintage:      req.Vintage,
		Domain:       req.Domain,
		Region:       req.Region,
		Subregion:    req.Subregion,
		Appellation:  req.Appellation,
		Color:        color,
		Grapes:       req.Grapes,
		TastingNotes: req.TastingNotes,
		DrinkFrom:    req.DrinkFrom,
		DrinkUntil:   req.DrinkUntil,
	}
	return rec, nil
}

func (req *wineRequest) options() enrichment.Options {
	return enrichment.Options{Language: req.Language, ForceRefresh: req.ForceRefresh}
}

type pairingsRequest struct {
	wineRequest
	Classic   *int `json:"classic,omitempty"`
	Audacious *int `json:"audacious,omitempty"`
	Merchant  *int `json:"merchant,omitempty"`
}

func (req *pairingsRequest) mix() wine.PairingMix {
	mix := wine.DefaultPairingMix()
	if req.Classic != nil {
		mix.Classic = *req.Classic
	}
	if req.Audacious != nil {
		mix.Audacious = *req.Audacious
	}
	if req.Merchant != nil {
		mix.Merchant = *req.Merchant
	}
	return mix
}

type foodRequest struct {
	Food         string `json:"food"`
	Language     string `json:"language,omitempty"`
	ForceRefresh bool   `json:"force_refresh,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.config.App.Name,
		"version": s.config.App.Version,
	})
}

func (s *Server) handleEnrichWine(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeWineRequest(w, r, s)
	if !ok {
		return
	}
	rec, err := req.record()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	enriched, err := s.enrichment.EnrichWine(r.Context(), rec, req.options())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, enriched)
}

func (s *Server) handleTasteProfile(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeWineRequest(w, r, s)
	if !ok {
		return
	}
	rec, err := req.record()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	taste, err := s.enrichment.GetTasteProfile(r.Context(), rec, req.options())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, taste)
}

func (s *Server) handleAgingData(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeWineRequest(w, r, s)
	if !ok {
		return
	}
	rec, err := req.record()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	aging, err := s.enrichment.GetAgingData(r.Context(), rec, req.options())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, aging)
}

func (s *Server) handleWinePairings(w http.ResponseWriter, r *http.Request) {
	var req pairingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, apperrors.NewBadRequestError("invalid JSON body"))
		return
	}
	rec, err := req.record()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	pairings, err := s.enrichment.GetPairings(r.Context(), rec, req.mix(), req.options())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, pairings)
}

func (s *Server) handleFoodPairings(w http.ResponseWriter, r *http.Request) {
	var req foodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, apperrors.NewBadRequestError("invalid JSON body"))
		return
	}
	if req.Food == "" {
		s.respondError(w, r, apperrors.NewBadRequestError("food is required"))
		return
	}
	opts := enrichment.Options{Language: req.Language, ForceRefresh: req.ForceRefresh}
	wines, err := s.enrichment.GetWinesForFood(r.Context(), req.Food, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, wines)
}

func decodeWineRequest(w http.ResponseWriter, r *http.Request, s *Server) (*wineRequest, bool) {
	var req wineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, apperrors.NewBadRequestError("invalid JSON body"))
		return nil, false
	}
	return &req, true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// respondError maps domain errors to structured API errors.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
	case errors.Is(err, wine.ErrVintageRequired):
		appErr = apperrors.NewVintageRequiredError()
	case errors.Is(err, wine.ErrNameRequired):
		appErr = apperrors.NewBadRequestError("name is required")
	case errors.Is(err, wine.ErrColorRequired):
		appErr = apperrors.NewBadRequestError("color is required")
	case errors.Is(err, wine.ErrWineNotFound):
		appErr = apperrors.NewWineNotFoundError("")
	default:
		s.logger.Error("unhandled error", zap.Error(err))
		appErr = apperrors.NewInternalError("")
	}

	requestID := chimiddleware.GetReqID(r.Context())
	s.respondJSON(w, appErr.StatusCode(), apperrors.ToErrorResponse(appErr, requestID))
}
