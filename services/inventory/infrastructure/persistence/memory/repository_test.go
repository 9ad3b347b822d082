package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghuser/stocktake/services/inventory/domain"
	"github.com/ghuser/stocktake/services/inventory/domain/models"
	"github.com/ghuser/stocktake/services/inventory/domain/repositories"
)

var (
	_ repositories.InventoryRepository = (*Repository)(nil)
	_ repositories.SnapshotSaver       = (*Repository)(nil)
)

func TestRepository_UnsavedCollections(t *testing.T) {
	r := New()
	ctx := context.Background()

	if _, err := r.LoadItems(ctx); !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Errorf("LoadItems: expected ErrCollectionNotFound, got %v", err)
	}
	if _, err := r.LoadCategories(ctx); !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Errorf("LoadCategories: expected ErrCollectionNotFound, got %v", err)
	}
}

func TestRepository_SavedEmptyIsNotMissing(t *testing.T) {
	r := New()
	ctx := context.Background()

	if err := r.SaveCategories(ctx, nil); err != nil {
		t.Fatalf("SaveCategories: %v", err)
	}
	cats, err := r.LoadCategories(ctx)
	if err != nil {
		t.Fatalf("LoadCategories: %v", err)
	}
	if len(cats) != 0 {
		t.Fatalf("expected empty categories, got %d", len(cats))
	}
}

func TestRepository_SaveSnapshotCopies(t *testing.T) {
	r := New()
	ctx := context.Background()
	items := []models.Item{*models.NewItem("Rice", 2, "Pantry", time.Now())}
	cats := models.DefaultCategories()

	if err := r.SaveSnapshot(ctx, items, cats); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	items[0].Count = 99

	got, err := r.LoadItems(ctx)
	if err != nil {
		t.Fatalf("LoadItems: %v", err)
	}
	if got[0].Count != 2 {
		t.Fatalf("repository aliases caller slice: count=%d", got[0].Count)
	}
	gotCats, _ := r.LoadCategories(ctx)
	if len(gotCats) != len(cats) {
		t.Fatalf("expected %d categories, got %d", len(cats), len(gotCats))
	}
}
