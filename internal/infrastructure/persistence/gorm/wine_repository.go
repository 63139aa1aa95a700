package gorm

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/cellarmind/v1/internal/domain/wine"
	"github.com/cellarmind/v1/internal/ports/outbound"
)

// WineRepository implements the cellar store on GORM.
type WineRepository struct {
	db *gorm.DB
}

// NewWineRepository creates a wine repository.
func NewWineRepository(db *gorm.DB) outbound.WineRepository {
	return &WineRepository{db: db}
}

// FindByName finds a record by case-insensitive name. A non-zero vintage
// narrows the match; with a zero vintage any vintage of the name matches.
func (r *WineRepository) FindByName(ctx context.Context, name string, vintage int) (*wine.Record, error) {
	var model WineModel

	query := r.db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if vintage > 0 {
		query = query.Where("vintage = ?", vintage)
	}

	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wine.ErrWineNotFound
		}
		return nil, err
	}
	return ModelToRecord(&model), nil
}

// FindByID finds a record by its identifier.
func (r *WineRepository) FindByID(ctx context.Context, id string) (*wine.Record, error) {
	var model WineModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wine.ErrWineNotFound
		}
		return nil, err
	}
	return ModelToRecord(&model), nil
}

// Save upserts a record.
func (r *WineRepository) Save(ctx context.Context, record *wine.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	model, err := RecordToModel(record)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}
