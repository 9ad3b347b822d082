package file

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/stocktake/services/inventory/domain/models"
)

// itemRecord is the on-disk shape of an item. Timestamps are Unix
// milliseconds.
type itemRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
	Category  string `json:"category"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

type categoryRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
}

func toItemRecords(items []models.Item) []itemRecord {
	out := make([]itemRecord, len(items))
	for i, it := range items {
		out[i] = itemRecord{
			ID:        it.ID.String(),
			Name:      it.Name.String(),
			Count:     it.Count,
			Category:  it.Category,
			CreatedAt: it.CreatedAt.UnixMilli(),
			UpdatedAt: it.UpdatedAt.UnixMilli(),
		}
	}
	return out
}

func fromItemRecords(recs []itemRecord) ([]models.Item, error) {
	out := make([]models.Item, 0, len(recs))
	for _, r := range recs {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("item %q: parse id: %w", r.ID, err)
		}
		name, err := models.NewItemName(r.Name)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", r.ID, err)
		}
		out = append(out, models.Item{
			ID:        id,
			Name:      name,
			Count:     models.ClampCount(r.Count),
			Category:  r.Category,
			CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
			UpdatedAt: time.UnixMilli(max(r.UpdatedAt, r.CreatedAt)).UTC(),
		})
	}
	return out, nil
}

func toCategoryRecords(cats []models.Category) []categoryRecord {
	out := make([]categoryRecord, len(cats))
	for i, c := range cats {
		out[i] = categoryRecord{ID: c.ID.String(), Name: c.Name.String(), IsDefault: c.IsDefault}
	}
	return out
}

func fromCategoryRecords(recs []categoryRecord) ([]models.Category, error) {
	out := make([]models.Category, 0, len(recs))
	for _, r := range recs {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("category %q: parse id: %w", r.ID, err)
		}
		name, err := models.NewCategoryName(r.Name)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", r.ID, err)
		}
		out = append(out, models.Category{ID: id, Name: name, IsDefault: r.IsDefault})
	}
	return out, nil
}
