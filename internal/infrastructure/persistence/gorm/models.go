// Package gorm provides the GORM-backed cellar store: model definitions,
// domain mappers and the wine repository.
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WineModel is the persistence shape of a cellar record. Sub-structures
// are stored as JSON columns; the pairing rows keep the legacy "strength"
// field name on disk, translated in the mapper.
type WineModel struct {
	ID      uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name    string    `gorm:"type:varchar(255);not null;index:idx_wines_name_vintage"`
	Vintage int       `gorm:"index:idx_wines_name_vintage"`

	Domain      string `gorm:"type:varchar(255)"`
	Region      string `gorm:"type:varchar(255);index"`
	Subregion   string `gorm:"type:varchar(255)"`
	Appellation string `gorm:"type:varchar(255)"`

	Color      string      `gorm:"type:varchar(20);not null"`
	Alcohol    float64     `gorm:"default:0"`
	Style      string      `gorm:"type:varchar(255)"`
	PriceRange string      `gorm:"type:varchar(50)"`
	Grapes     StringSlice `gorm:"type:json"`

	TastingNotes string `gorm:"type:text"`

	DrinkFrom  *int
	DrinkUntil *int

	TasteProfile JSONRaw `gorm:"type:json"`
	AgingProfile JSONRaw `gorm:"type:json"`
	Pairings     JSONRaw `gorm:"type:json"`

	VintageScore *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName pins the table name.
func (WineModel) TableName() string { return "wines" }

// StringSlice stores a []string as a JSON column.
type StringSlice []string

// Value implements driver.Valuer.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *StringSlice) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type for StringSlice: %T", value)
	}
}

// JSONRaw stores arbitrary JSON verbatim.
type JSONRaw json.RawMessage

// Value implements driver.Valuer.
func (j JSONRaw) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements sql.Scanner.
func (j *JSONRaw) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[:0], v...)
		return nil
	case string:
		*j = JSONRaw(v)
		return nil
	default:
		return fmt.Errorf("unsupported type for JSONRaw: %T", value)
	}
}
