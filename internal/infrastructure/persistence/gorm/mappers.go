package gorm

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/cellarmind/v1/internal/domain/wine"
)

// pairingRow is the on-disk pairing shape. The schema predates the
// pairing_strength rename, so the column keeps the legacy "strength"
// name; this mapper is the only place the two names meet.
type pairingRow struct {
	Food        string  `json:"food"`
	Strength    float64 `json:"strength"`
	Type        string  `json:"pairing_type"`
	Explanation string  `json:"explanation"`
}

// RecordToModel maps a domain record to its persistence shape.
func RecordToModel(rec *wine.Record) (*WineModel, error) {
	model := &WineModel{
		ID:           rec.ID,
		Name:         rec.Name,
		Vintage:      rec.Vintage,
		Domain:       rec.Domain,
		Region:       rec.Region,
		Subregion:    rec.Subregion,
		Appellation:  rec.Appellation,
		Color:        string(rec.Color),
		Alcohol:      rec.Alcohol,
		Style:        rec.Style,
		PriceRange:   rec.PriceRange,
		Grapes:       StringSlice(rec.Grapes),
		TastingNotes: rec.TastingNotes,
		DrinkFrom:    rec.DrinkFrom,
		DrinkUntil:   rec.DrinkUntil,
		VintageScore: rec.VintageScore,
	}
	if model.ID == uuid.Nil {
		model.ID = uuid.New()
	}

	if rec.Taste != nil {
		data, err := json.Marshal(rec.Taste)
		if err != nil {
			return nil, err
		}
		model.TasteProfile = JSONRaw(data)
	}
	if rec.Aging != nil {
		data, err := json.Marshal(rec.Aging)
		if err != nil {
			return nil, err
		}
		model.AgingProfile = JSONRaw(data)
	}
	if len(rec.Pairings) > 0 {
		rows := make([]pairingRow, len(rec.Pairings))
		for i, p := range rec.Pairings {
			rows[i] = pairingRow{
				Food:        p.Food,
				Strength:    p.Strength,
				Type:        string(p.Type),
				Explanation: p.Explanation,
			}
		}
		data, err := json.Marshal(rows)
		if err != nil {
			return nil, err
		}
		model.Pairings = JSONRaw(data)
	}

	return model, nil
}

// ModelToRecord maps a persistence row back to the domain. Unreadable
// sub-structure columns are dropped rather than failing the whole read;
// the enrichment engine regenerates them.
func ModelToRecord(model *WineModel) *wine.Record {
	color, _ := wine.ParseColor(model.Color)
	rec := &wine.Record{
		ID:           model.ID,
		Name:         model.Name,
		Vintage:      model.Vintage,
		Domain:       model.Domain,
		Region:       model.Region,
		Subregion:    model.Subregion,
		Appellation:  model.Appellation,
		Color:        color,
		Alcohol:      model.Alcohol,
		Style:        model.Style,
		PriceRange:   model.PriceRange,
		Grapes:       []string(model.Grapes),
		TastingNotes: model.TastingNotes,
		DrinkFrom:    model.DrinkFrom,
		DrinkUntil:   model.DrinkUntil,
		VintageScore: model.VintageScore,
	}

	if len(model.TasteProfile) > 0 {
		var taste wine.TasteProfile
		if json.Unmarshal(model.TasteProfile, &taste) == nil {
			rec.Taste = &taste
		}
	}
	if len(model.AgingProfile) > 0 {
		var aging wine.AgingProfile
		if json.Unmarshal(model.AgingProfile, &aging) == nil {
			rec.Aging = &aging
		}
	}
	if len(model.Pairings) > 0 {
		var rows []pairingRow
		if json.Unmarshal(model.Pairings, &rows) == nil {
			for _, row := range rows {
				rec.Pairings = append(rec.Pairings, wine.Pairing{
					Food:        row.Food,
					Strength:    row.Strength,
					Type:        wine.PairingType(row.Type),
					Explanation: row.Explanation,
				})
			}
		}
	}

	return rec
}
