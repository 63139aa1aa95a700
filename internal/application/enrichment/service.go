// Package enrichment implements the AI-backed wine-data enrichment
// engine: per-entity workflows that resolve a request against the cache,
// the cellar store, the rule-based estimator and an LLM provider, in that
// priority order, and merge the results under a fixed precedence policy.
package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cellarmind/v1/internal/domain/wine"
	"github.com/cellarmind/v1/internal/infrastructure/ai"
	"github.com/cellarmind/v1/internal/ports/outbound"
)

// Completion defaults for every enrichment task.
const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1000
	defaultCacheTTL    = 24 * time.Hour
	defaultLanguage    = "en"
)

// Config tunes the enrichment service.
type Config struct {
	CacheTTL        time.Duration
	DefaultLanguage string
	Temperature     float64
	MaxTokens       int
}

// Options apply to a single enrichment call.
type Options struct {
	// Language for free-text fields in the result.
	Language string
	// ForceRefresh bypasses both the cache and the store short-circuit
	// and overwrites the cache entry on success.
	ForceRefresh bool
}

func (o Options) language(fallback string) string {
	if o.Language != "" {
		return o.Language
	}
	return fallback
}

// Service is the enrichment orchestrator. Each operation follows the same
// shape: cache, store, rule-based degradation when no provider key is
// configured, otherwise prompt, gateway call, defensive parse, field
// merge over the rule-based default, cache write.
//
// No AI or transport error ever propagates to callers: the contract is a
// usable (possibly degraded) result, or an explicit error only when the
// request is fundamentally unanswerable (wine.ErrVintageRequired).
type Service struct {
	cfg       Config
	cache     outbound.CacheRepository
	store     outbound.WineRepository
	chart     outbound.VintageChart
	llm       outbound.LLMClient
	estimator *Estimator
	prompts   *PromptBuilder
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewService creates the orchestrator. The store and chart collaborators
// may be nil; the corresponding lookup steps are then skipped.
func NewService(
	cfg Config,
	cache outbound.CacheRepository,
	store outbound.WineRepository,
	chart outbound.VintageChart,
	llm outbound.LLMClient,
	logger *zap.Logger,
) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = defaultLanguage
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	return &Service{
		cfg:       cfg,
		cache:     cache,
		store:     store,
		chart:     chart,
		llm:       llm,
		estimator: NewEstimator(),
		prompts:   NewPromptBuilder(),
		validate:  validator.New(),
		logger:    logger.Named("enrichment"),
	}
}

// SetEstimator swaps the rule-based estimator, used by tests to pin the
// clock.
func (s *Service) SetEstimator(e *Estimator) { s.estimator = e }

// GetTasteProfile resolves the eight-axis taste profile for a wine.
func (s *Service) GetTasteProfile(ctx context.Context, rec *wine.Record, opts Options) (*wine.TasteProfile, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	lang := opts.language(s.cfg.DefaultLanguage)
	key := CacheKey{Task: TaskTaste, Entity: rec.Name, Discriminator: vintageKey(rec.Vintage), Language: lang}

	if !opts.ForceRefresh {
		var cached wine.TasteProfile
		if s.cacheGet(ctx, key, &cached) {
			return &cached, nil
		}
		if stored := s.storedRecord(ctx, rec); stored != nil && stored.Taste != nil {
			profile := *stored.Taste
			profile.Clamp(rec.Color)
			s.cachePut(ctx, key, profile)
			return &profile, nil
		}
	}

	base := s.estimator.TasteProfileFor(rec)

	raw, ok := s.complete(ctx, s.prompts.TasteProfile(rec, lang), lang)
	if !ok {
		return &base, nil
	}

	var payload tastePayload
	if !ai.Extract(raw, &payload) || payload.empty() {
		s.logger.Warn("unparseable taste response, using rule-based profile",
			zap.String("wine", rec.Name),
			zap.String("raw", raw),
		)
		return &base, nil
	}

	merged := mergeTaste(base, payload, rec.Color)
	if err := s.validate.Struct(merged); err != nil {
		s.logger.Warn("merged taste profile failed validation, using rule-based profile",
			zap.String("wine", rec.Name),
			zap.Error(err),
		)
		return &base, nil
	}

	s.cachePut(ctx, key, merged)
	return &merged, nil
}

// GetAgingData resolves the drinking-window analysis for a wine. A record
// without a vintage yields wine.ErrVintageRequired: aging is undefined
// without a reference year, and a fabricated default would be worse than
// an explicit absence.
func (s *Service) GetAgingData(ctx context.Context, rec *wine.Record, opts Options) (*wine.AgingProfile, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if rec.Vintage <= 0 {
		return nil, wine.ErrVintageRequired
	}
	lang := opts.language(s.cfg.DefaultLanguage)
	key := CacheKey{Task: TaskAging, Entity: rec.Name, Discriminator: vintageKey(rec.Vintage), Language: lang}

	if !opts.ForceRefresh {
		var cached wine.AgingProfile
		if s.cacheGet(ctx, key, &cached) {
			return &cached, nil
		}
		if stored := s.storedRecord(ctx, rec); stored != nil && stored.Aging != nil {
			profile := *stored.Aging
			s.cachePut(ctx, key, profile)
			return &profile, nil
		}
	}

	base, err := s.estimator.AgingCurve(rec)
	if err != nil {
		return nil, err
	}

	raw, ok := s.complete(ctx, s.prompts.AgingData(rec, lang), lang)
	if !ok {
		return base, nil
	}

	var payload agingPayload
	if !ai.Extract(raw, &payload) || payload.empty() {
		s.logger.Warn("unparseable aging response, using rule-based curve",
			zap.String("wine", rec.Name),
			zap.String("raw", raw),
		)
		return base, nil
	}

	merged := mergeAging(*base, payload, rec.Vintage)
	if err := s.validate.Struct(merged); err != nil {
		s.logger.Warn("merged aging profile failed validation, using rule-based curve",
			zap.String("wine", rec.Name),
			zap.Error(err),
		)
		return base, nil
	}

	s.cachePut(ctx, key, merged)
	return &merged, nil
}

// GetPairings resolves food pairings for a wine according to the
// requested mix.
func (s *Service) GetPairings(ctx context.Context, rec *wine.Record, mix wine.PairingMix, opts Options) (wine.PairingList, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	lang := opts.language(s.cfg.DefaultLanguage)
	key := CacheKey{Task: TaskPairings, Entity: rec.Name, Discriminator: pairingKey(rec.Color, mix), Language: lang}

	if !opts.ForceRefresh {
		var cached wine.PairingList
		if s.cacheGet(ctx, key, &cached) {
			return cached, nil
		}
		if stored := s.storedRecord(ctx, rec); stored != nil && len(stored.Pairings) > 0 {
			s.cachePut(ctx, key, stored.Pairings)
			return stored.Pairings, nil
		}
	}

	base := s.estimator.DefaultPairings(rec.Color)

	raw, ok := s.complete(ctx, s.prompts.PairingsForWine(rec, mix, lang), lang)
	if !ok {
		return base, nil
	}

	merged, parsed := s.parsePairings(raw, base)
	if !parsed {
		s.logger.Warn("unparseable pairing response, using default pairings",
			zap.String("wine", rec.Name),
			zap.String("raw", raw),
		)
		return base, nil
	}

	s.cachePut(ctx, key, merged)
	return merged, nil
}

// GetWinesForFood resolves wine suggestions for a dish. The Food field of
// each returned pairing carries the wine suggestion.
func (s *Service) GetWinesForFood(ctx context.Context, food string, opts Options) (wine.PairingList, error) {
	lang := opts.language(s.cfg.DefaultLanguage)
	key := CacheKey{Task: TaskWinesForFood, Entity: food, Language: lang}

	if !opts.ForceRefresh {
		var cached wine.PairingList
		if s.cacheGet(ctx, key, &cached) {
			return cached, nil
		}
	}

	base := s.estimator.SuggestWinesForFood(food)

	raw, ok := s.complete(ctx, s.prompts.WinesForFood(food, lang), lang)
	if !ok {
		return base, nil
	}

	merged, parsed := s.parsePairings(raw, base)
	if !parsed {
		s.logger.Warn("unparseable wine-suggestion response, using rule-based suggestions",
			zap.String("food", food),
			zap.String("raw", raw),
		)
		return base, nil
	}

	s.cachePut(ctx, key, merged)
	return merged, nil
}

// EnrichWine produces the fully enriched record: taste, aging, pairings
// and the vintage-chart score. It fills from the cellar store first and
// stops there when the stored record is fully enriched; otherwise it
// tries the single full-info prompt and fills whatever that payload
// lacked through the per-structure operations, so every sub-structure
// lands at least at the rule-based default (aging excepted when the
// record carries no vintage).
func (s *Service) EnrichWine(ctx context.Context, rec *wine.Record, opts Options) (*wine.Record, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	lang := opts.language(s.cfg.DefaultLanguage)
	key := CacheKey{Task: TaskWineInfo, Entity: rec.Name, Discriminator: vintageKey(rec.Vintage), Language: lang}

	enriched := *rec

	if !opts.ForceRefresh {
		var cached wine.Record
		if s.cacheGet(ctx, key, &cached) {
			return &cached, nil
		}
		if stored := s.storedRecord(ctx, rec); stored != nil {
			fillFromStored(&enriched, stored)
			if enriched.FullyEnriched() {
				s.scoreVintage(ctx, &enriched)
				s.cachePut(ctx, key, enriched)
				return &enriched, nil
			}
		}
	}

	if raw, ok := s.complete(ctx, s.prompts.WineInfo(rec, lang), lang); ok {
		var payload wineInfoPayload
		if ai.Extract(raw, &payload) {
			s.applyWineInfo(&enriched, payload)
		} else {
			s.logger.Warn("unparseable wine-info response, filling from sub-enrichments",
				zap.String("wine", rec.Name),
				zap.String("raw", raw),
			)
		}
	}

	if enriched.Taste == nil {
		if taste, err := s.GetTasteProfile(ctx, rec, opts); err == nil {
			enriched.Taste = taste
		}
	}
	if enriched.Aging == nil {
		aging, err := s.GetAgingData(ctx, rec, opts)
		switch {
		case err == nil:
			enriched.Aging = aging
		case errors.Is(err, wine.ErrVintageRequired):
			s.logger.Warn("skipping aging analysis, record has no vintage", zap.String("wine", rec.Name))
		}
	}
	if len(enriched.Pairings) == 0 {
		if pairings, err := s.GetPairings(ctx, rec, wine.DefaultPairingMix(), opts); err == nil {
			enriched.Pairings = pairings
		}
	}

	s.scoreVintage(ctx, &enriched)

	s.cachePut(ctx, key, enriched)
	return &enriched, nil
}

// fillFromStored copies durable cellar data into the request record,
// keeping whatever the caller already supplied. Stored classification and
// sub-structures are authoritative over anything the gateway might guess.
func fillFromStored(rec, stored *wine.Record) {
	if rec.ID == uuid.Nil {
		rec.ID = stored.ID
	}
	if !rec.Color.IsValid() && stored.Color.IsValid() {
		rec.Color = stored.Color
	}
	if rec.Alcohol == 0 {
		rec.Alcohol = stored.Alcohol
	}
	if rec.Style == "" {
		rec.Style = stored.Style
	}
	if rec.PriceRange == "" {
		rec.PriceRange = stored.PriceRange
	}
	if len(rec.Grapes) == 0 {
		rec.Grapes = stored.Grapes
	}
	if rec.Domain == "" {
		rec.Domain = stored.Domain
	}
	if rec.Region == "" {
		rec.Region = stored.Region
	}
	if rec.Subregion == "" {
		rec.Subregion = stored.Subregion
	}
	if rec.Appellation == "" {
		rec.Appellation = stored.Appellation
	}
	if rec.TastingNotes == "" {
		rec.TastingNotes = stored.TastingNotes
	}
	if rec.DrinkFrom == nil {
		rec.DrinkFrom = stored.DrinkFrom
	}
	if rec.DrinkUntil == nil {
		rec.DrinkUntil = stored.DrinkUntil
	}
	if rec.Taste == nil {
		rec.Taste = stored.Taste
	}
	if rec.Aging == nil {
		rec.Aging = stored.Aging
	}
	if len(rec.Pairings) == 0 {
		rec.Pairings = stored.Pairings
	}
	if rec.VintageScore == nil {
		rec.VintageScore = stored.VintageScore
	}
}

// scoreVintage resolves the vintage-chart score for the record when the
// chart covers its (region, vintage) pair and no score is present yet.
func (s *Service) scoreVintage(ctx context.Context, rec *wine.Record) {
	if s.chart == nil || rec.VintageScore != nil || rec.Region == "" || rec.Vintage <= 0 {
		return
	}
	if score, ok := s.chart.Score(ctx, rec.Region, rec.Vintage); ok {
		rec.VintageScore = &score
	}
}

// applyWineInfo merges a full-info payload into the record, routing each
// sub-structure through the same merge policy as the dedicated tasks.
func (s *Service) applyWineInfo(rec *wine.Record, payload wineInfoPayload) {
	if payload.Color != nil && !rec.Color.IsValid() {
		if c, ok := wine.ParseColor(*payload.Color); ok {
			rec.Color = c
		}
	}
	if payload.Alcohol != nil && rec.Alcohol == 0 {
		rec.Alcohol = *payload.Alcohol
	}
	if payload.Style != nil && rec.Style == "" {
		rec.Style = *payload.Style
	}
	if payload.PriceRange != nil && rec.PriceRange == "" {
		rec.PriceRange = *payload.PriceRange
	}
	if len(payload.Grapes) > 0 && len(rec.Grapes) == 0 {
		rec.Grapes = payload.Grapes
	}

	if payload.Taste != nil && !payload.Taste.empty() {
		merged := mergeTaste(s.estimator.TasteProfileFor(rec), *payload.Taste, rec.Color)
		if s.validate.Struct(merged) == nil {
			rec.Taste = &merged
		}
	}
	if payload.Aging != nil && !payload.Aging.empty() && rec.Vintage > 0 {
		if base, err := s.estimator.AgingCurve(rec); err == nil {
			merged := mergeAging(*base, *payload.Aging, rec.Vintage)
			if s.validate.Struct(merged) == nil {
				rec.Aging = &merged
			}
		}
	}
	if len(payload.Pairings) > 0 {
		if merged := mergePairings(s.estimator.DefaultPairings(rec.Color), payload.Pairings); s.validate.Var(merged, "dive") == nil {
			rec.Pairings = merged
		}
	}
}

// complete runs the gateway call for a prompt. The boolean reports whether
// usable text came back; every failure mode degrades to the rule-based
// path and is logged here with provider context.
func (s *Service) complete(ctx context.Context, prompt, lang string) (string, bool) {
	if s.llm == nil || !s.llm.Configured() {
		s.logger.Warn("no provider key configured, serving rule-based result")
		return "", false
	}

	raw, err := s.llm.Complete(ctx, outbound.CompletionRequest{
		System:      s.prompts.SystemPersona(lang),
		Prompt:      prompt,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		s.logger.Error("provider call failed, serving rule-based result",
			zap.String("provider", s.llm.Name()),
			zap.Error(err),
		)
		return "", false
	}
	return raw, true
}

// parsePairings runs the layered extraction for array-shaped responses,
// including the per-fragment last resort keyed on the food discriminator.
func (s *Service) parsePairings(raw string, base wine.PairingList) (wine.PairingList, bool) {
	var payload []pairingPayload
	if !ai.Extract(raw, &payload) {
		if !ai.ExtractFragments(raw, "food", &payload) {
			return nil, false
		}
	}
	if len(payload) == 0 {
		return nil, false
	}
	return mergePairings(base, payload), true
}

// storedRecord consults the cellar store for an authoritative record so
// previously enriched, durably stored data short-circuits repeated LLM
// calls. Absence and store failures are both non-events.
func (s *Service) storedRecord(ctx context.Context, rec *wine.Record) *wine.Record {
	if s.store == nil {
		return nil
	}
	stored, err := s.store.FindByName(ctx, rec.Name, rec.Vintage)
	if err != nil {
		if !errors.Is(err, wine.ErrWineNotFound) {
			s.logger.Warn("cellar store lookup failed", zap.String("wine", rec.Name), zap.Error(err))
		}
		return nil
	}
	return stored
}

func (s *Service) cacheGet(ctx context.Context, key CacheKey, v any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key.String())
	if err != nil {
		if !errors.Is(err, outbound.ErrCacheMiss) {
			s.logger.Warn("cache read failed", zap.String("key", key.String()), zap.Error(err))
		}
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (s *Service) cachePut(ctx context.Context, key CacheKey, v any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key.String(), data, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key.String()), zap.Error(err))
	}
}

func vintageKey(vintage int) string {
	if vintage <= 0 {
		return "nv"
	}
	return strconv.Itoa(vintage)
}

func pairingKey(color wine.Color, mix wine.PairingMix) string {
	return fmt.Sprintf("%s:%d%d%d", color, mix.Classic, mix.Audacious, mix.Merchant)
}
