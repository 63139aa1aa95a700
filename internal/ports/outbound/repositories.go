// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/cellarmind/v1/internal/domain/wine"
)

// ErrCacheMiss is returned by CacheRepository.Get when a key is absent or
// has expired. Callers must not treat it as a failure.
var ErrCacheMiss = errors.New("cache miss")

// WineRepository is the durable cellar store. The engine mostly reads from
// it; enriched sub-structures are occasionally written back.
type WineRepository interface {
	// FindByName returns the record matching name (and vintage, when
	// non-zero), or wine.ErrWineNotFound.
	FindByName(ctx context.Context, name string, vintage int) (*wine.Record, error)
	FindByID(ctx context.Context, id string) (*wine.Record, error)
	Save(ctx context.Context, record *wine.Record) error
}

// CacheRepository caches computed enrichment artifacts with expiry.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// VintageChart resolves a (region, vintage) pair to a quality score on the
// 0-20 scale. The boolean reports whether the chart covers the pair.
type VintageChart interface {
	Score(ctx context.Context, region string, vintage int) (float64, bool)
}

// CompletionRequest is a single chat-style completion call.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// LLMClient is a narrow text-in/text-out adapter over one completion
// provider. It has no knowledge of wine semantics; a third provider can be
// added without touching anything above this port.
type LLMClient interface {
	// Name identifies the provider in logs and errors.
	Name() string
	// Configured reports whether an API key is available. When false the
	// orchestrator skips the AI path entirely.
	Configured() bool
	// Complete returns the assistant's raw text. An empty or field-less
	// response body is an error, never a silent empty string.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
