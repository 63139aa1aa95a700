package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/cellarmind/v1/internal/domain/wine"
)

// WineRepository is an in-memory cellar store keyed by normalized name
// plus vintage.
type WineRepository struct {
	mu      sync.RWMutex
	records map[string]*wine.Record
}

// NewWineRepository creates an empty store.
func NewWineRepository() *WineRepository {
	return &WineRepository{records: make(map[string]*wine.Record)}
}

func storeKey(name string, vintage int) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + vintageTag(vintage)
}

func vintageTag(vintage int) string {
	if vintage <= 0 {
		return "nv"
	}
	digits := [4]byte{
		byte('0' + vintage/1000%10),
		byte('0' + vintage/100%10),
		byte('0' + vintage/10%10),
		byte('0' + vintage%10),
	}
	return string(digits[:])
}

// FindByName returns a copy of the matching record or wine.ErrWineNotFound.
// With a zero vintage the lookup falls back to any vintage of the name.
func (r *WineRepository) FindByName(ctx context.Context, name string, vintage int) (*wine.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rec, ok := r.records[storeKey(name, vintage)]; ok {
		cp := *rec
		return &cp, nil
	}
	if vintage > 0 {
		return nil, wine.ErrWineNotFound
	}
	prefix := strings.ToLower(strings.TrimSpace(name)) + "|"
	for key, rec := range r.records {
		if strings.HasPrefix(key, prefix) {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, wine.ErrWineNotFound
}

// FindByID returns a copy of the record with the given ID.
func (r *WineRepository) FindByID(ctx context.Context, id string) (*wine.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.ID.String() == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, wine.ErrWineNotFound
}

// Save upserts a record.
func (r *WineRepository) Save(ctx context.Context, record *wine.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	cp := *record
	r.records[storeKey(record.Name, record.Vintage)] = &cp
	r.mu.Unlock()
	return nil
}
