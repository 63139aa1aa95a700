// Package sqlite provides SQLite database setup and seed data for the
// cellar store.
package sqlite

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormModels "github.com/cellarmind/v1/internal/infrastructure/persistence/gorm"
)

// SetupDatabase creates and migrates the SQLite cellar database.
func SetupDatabase(dbPath string, logLevel logger.LogLevel) (*gorm.DB, error) {
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&gormModels.WineModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// SeedDatabase populates an empty cellar with a few demo bottles.
func SeedDatabase(db *gorm.DB) error {
	var count int64
	db.Model(&gormModels.WineModel{}).Count(&count)
	if count > 0 {
		return nil // Already seeded
	}

	drinkFrom := 2025
	drinkUntil := 2035

	wines := []gormModels.WineModel{
		{
			ID:           uuid.New(),
			Name:         "Château Montrose",
			Vintage:      2016,
			Domain:       "Château Montrose",
			Region:       "Bordeaux",
			Subregion:    "Médoc",
			Appellation:  "Saint-Estèphe",
			Color:        "red",
			Alcohol:      13.5,
			Grapes:       gormModels.StringSlice{"Cabernet Sauvignon", "Merlot"},
			TastingNotes: "Dense and structured, firm tannins, blackcurrant and cedar with a very long finish.",
			DrinkFrom:    &drinkFrom,
			DrinkUntil:   &drinkUntil,
		},
		{
			ID:           uuid.New(),
			Name:         "Domaine Vacheron Sancerre",
			Vintage:      2022,
			Domain:       "Domaine Vacheron",
			Region:       "Loire",
			Appellation:  "Sancerre",
			Color:        "white",
			Alcohol:      13,
			Grapes:       gormModels.StringSlice{"Sauvignon Blanc"},
			TastingNotes: "Crisp and zesty, citrus and flint, slightly saline finish.",
		},
		{
			ID:      uuid.New(),
			Name:    "Taylor's Vintage Port",
			Vintage: 2000,
			Domain:  "Taylor Fladgate",
			Region:  "Douro",
			Style:   "Vintage Port",
			Color:   "fortified",
			Alcohol: 20,
			Grapes:  gormModels.StringSlice{"Touriga Nacional", "Touriga Franca"},
		},
	}

	for _, w := range wines {
		if err := db.Create(&w).Error; err != nil {
			return fmt.Errorf("failed to seed wine %s: %w", w.Name, err)
		}
	}
	return nil
}
