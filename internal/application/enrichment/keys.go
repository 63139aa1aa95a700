package enrichment

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Task names an enrichment operation, used as the cache-key namespace.
type Task string

const (
	TaskWineInfo     Task = "wineinfo"
	TaskTaste        Task = "taste"
	TaskAging        Task = "aging"
	TaskPairings     Task = "pairings"
	TaskWinesForFood Task = "food"
)

// CacheKey addresses one enrichment result. It is a structured tuple
// rather than an ad hoc string concatenation so that entities containing
// separator characters cannot collide.
type CacheKey struct {
	Task          Task
	Entity        string // wine name or dish description
	Discriminator string // vintage, pairing mix, or wine type
	Language      string
}

// String serializes the key as namespace:task:digest. The digest covers
// the normalized tuple with field framing, so ("ab","c") and ("a","bc")
// hash differently.
func (k CacheKey) String() string {
	h := sha256.New()
	for _, part := range []string{normalizeKeyPart(k.Entity), normalizeKeyPart(k.Discriminator), normalizeKeyPart(k.Language)} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "enrich:" + string(k.Task) + ":" + hex.EncodeToString(h.Sum(nil))[:24]
}

func normalizeKeyPart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
