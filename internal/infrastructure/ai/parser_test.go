package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tasteDoc struct {
	Body    float64 `json:"body"`
	Acidity float64 `json:"acidity"`
}

func TestExtractVerbatimJSON(t *testing.T) {
	var doc tasteDoc
	require.True(t, Extract(`{"body": 4, "acidity": 3}`, &doc))
	assert.Equal(t, 4.0, doc.Body)
}

func TestExtractFencedBlock(t *testing.T) {
	raw := "```json\n{\"body\": 4, \"acidity\": 3}\n```"
	var doc tasteDoc
	require.True(t, Extract(raw, &doc))
	assert.Equal(t, 4.0, doc.Body)
	assert.Equal(t, 3.0, doc.Acidity)
}

func TestExtractFencedBlockWithoutLanguageTag(t *testing.T) {
	raw := "```\n{\"body\": 2}\n```"
	var doc tasteDoc
	require.True(t, Extract(raw, &doc))
	assert.Equal(t, 2.0, doc.Body)
}

func TestExtractProseWrappedObject(t *testing.T) {
	raw := `Certainly! Here is the analysis you asked for: {"body": 4, "acidity": 3} I hope this helps.`
	var doc tasteDoc
	require.True(t, Extract(raw, &doc))
	assert.Equal(t, 4.0, doc.Body)
}

func TestExtractProseWrappedArray(t *testing.T) {
	raw := `My picks: [{"body": 1}, {"body": 2}] enjoy!`
	var docs []tasteDoc
	require.True(t, Extract(raw, &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, 2.0, docs[1].Body)
}

func TestExtractGarbage(t *testing.T) {
	var doc tasteDoc
	assert.False(t, Extract("not json at all", &doc))
	assert.False(t, Extract("", &doc))
	assert.False(t, Extract("   \n\t ", &doc))
}

func TestExtractPrefersFence(t *testing.T) {
	// Prose before the fence carries a decoy object; the fenced block wins.
	raw := "Ignore {\"body\": 99} this.\n```json\n{\"body\": 4}\n```"
	var doc tasteDoc
	require.True(t, Extract(raw, &doc))
	assert.Equal(t, 4.0, doc.Body)
}

func TestExtractFragments(t *testing.T) {
	raw := `Here you go:
{"food": "duck", "pairing_strength": 4}
some chatter
{"food": "cheese", "pairing_strength": 3}
{"comment": "not a pairing"}`

	var frags []map[string]any
	require.True(t, ExtractFragments(raw, "food", &frags))
	require.Len(t, frags, 2)
	assert.Equal(t, "duck", frags[0]["food"])
	assert.Equal(t, "cheese", frags[1]["food"])
}

func TestExtractFragmentsNothingUsable(t *testing.T) {
	var frags []map[string]any
	assert.False(t, ExtractFragments(`{"comment": "hello"}`, "food", &frags))
	assert.False(t, ExtractFragments("no braces here", "food", &frags))
}
