// Package ai provides the shared infrastructure for LLM providers: the
// defensive response parser and the provider error type.
package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Providers are instructed to emit JSON only, but in practice responses
// arrive wrapped in markdown fences, surrounded by prose, or truncated.
// Extract recovers a JSON value from such text with layered strategies,
// first success wins:
//
//  1. the interior of a fenced code block
//  2. the first greedy {...} or [...] span
//  3. the whole text verbatim
//
// It never panics; the return value reports whether any strategy parsed
// into v. For array-shaped expectations with a known discriminator field,
// see ExtractFragments.

var (
	fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")
	objectSpanRe  = regexp.MustCompile(`(?s)\{.*\}`)
	arraySpanRe   = regexp.MustCompile(`(?s)\[.*\]`)
	fragmentRe    = regexp.MustCompile(`(?s)\{[^{}]*\}`)
)

// Extract parses a JSON object or array out of raw LLM text into v.
func Extract(raw string, v any) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}

	if m := fencedBlockRe.FindStringSubmatch(raw); m != nil {
		if tryUnmarshal(m[1], v) {
			return true
		}
	}

	if span := firstSpan(raw); span != "" {
		if tryUnmarshal(span, v) {
			return true
		}
	}

	return tryUnmarshal(raw, v)
}

// ExtractFragments is the last-resort strategy for array expectations:
// scan raw text for individual {...} fragments, parse each independently,
// and keep only those carrying the discriminator field. Returns false when
// no usable fragment survives.
func ExtractFragments(raw, discriminator string, v any) bool {
	var kept []json.RawMessage
	for _, frag := range fragmentRe.FindAllString(raw, -1) {
		var probe map[string]any
		if err := json.Unmarshal([]byte(frag), &probe); err != nil {
			continue
		}
		if _, ok := probe[discriminator]; !ok {
			continue
		}
		kept = append(kept, json.RawMessage(frag))
	}
	if len(kept) == 0 {
		return false
	}
	joined, err := json.Marshal(kept)
	if err != nil {
		return false
	}
	return json.Unmarshal(joined, v) == nil
}

// firstSpan returns the earliest greedy object or array span in the text.
func firstSpan(raw string) string {
	obj := objectSpanRe.FindStringIndex(raw)
	arr := arraySpanRe.FindStringIndex(raw)
	switch {
	case obj == nil && arr == nil:
		return ""
	case obj == nil:
		return raw[arr[0]:arr[1]]
	case arr == nil:
		return raw[obj[0]:obj[1]]
	case arr[0] < obj[0]:
		return raw[arr[0]:arr[1]]
	default:
		return raw[obj[0]:obj[1]]
	}
}

func tryUnmarshal(s string, v any) bool {
	return json.Unmarshal([]byte(strings.TrimSpace(s)), v) == nil
}
