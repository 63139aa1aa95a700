package ai

import "fmt"

// ProviderError is raised by a provider client on a non-success HTTP
// status or a structurally empty response. It carries enough context for
// the orchestrator's error log; the orchestrator never propagates it to
// callers, it degrades to the rule-based path instead.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, truncate(e.Body, 200))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: invalid response", e.Provider)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsRateLimit reports whether the error is an HTTP 429.
func (e *ProviderError) IsRateLimit() bool { return e.StatusCode == 429 }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
