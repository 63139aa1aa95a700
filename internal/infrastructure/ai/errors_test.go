package ai

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderError(t *testing.T) {
	t.Run("status errors carry provider and code", func(t *testing.T) {
		err := &ProviderError{Provider: "openai", StatusCode: 500, Body: "oops"}
		assert.Contains(t, err.Error(), "openai")
		assert.Contains(t, err.Error(), "500")
		assert.False(t, err.IsRateLimit())
	})

	t.Run("429 is a rate limit", func(t *testing.T) {
		err := &ProviderError{Provider: "mistral", StatusCode: 429}
		assert.True(t, err.IsRateLimit())
	})

	t.Run("long bodies are truncated", func(t *testing.T) {
		err := &ProviderError{Provider: "openai", StatusCode: 400, Body: strings.Repeat("x", 500)}
		assert.Less(t, len(err.Error()), 300)
	})

	t.Run("unwraps the cause", func(t *testing.T) {
		cause := fmt.Errorf("connection refused")
		err := &ProviderError{Provider: "openai", Err: cause}
		assert.ErrorIs(t, err, cause)
		assert.True(t, errors.Is(err, cause))
	})
}
