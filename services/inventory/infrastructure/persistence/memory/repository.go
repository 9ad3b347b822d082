// Package memory is an in-process InventoryRepository. Data does not survive
// a restart.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/ghuser/stocktake/services/inventory/domain"
	"github.com/ghuser/stocktake/services/inventory/domain/models"
)

// Repository keeps saved collections in memory. The zero value is an empty
// repository in which neither collection has been saved.
type Repository struct {
	mu         sync.Mutex
	items      []models.Item
	categories []models.Category
	haveItems  bool
	haveCats   bool
}

// New returns an empty Repository.
func New() *Repository {
	return &Repository{}
}

func (r *Repository) LoadItems(_ context.Context) ([]models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.haveItems {
		return nil, domain.ErrCollectionNotFound
	}
	return slices.Clone(r.items), nil
}

func (r *Repository) LoadCategories(_ context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.haveCats {
		return nil, domain.ErrCollectionNotFound
	}
	return slices.Clone(r.categories), nil
}

func (r *Repository) SaveItems(_ context.Context, items []models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items, r.haveItems = slices.Clone(items), true
	return nil
}

func (r *Repository) SaveCategories(_ context.Context, categories []models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories, r.haveCats = slices.Clone(categories), true
	return nil
}

// SaveSnapshot replaces both collections under one lock.
func (r *Repository) SaveSnapshot(_ context.Context, items []models.Item, categories []models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items, r.haveItems = slices.Clone(items), true
	r.categories, r.haveCats = slices.Clone(categories), true
	return nil
}

// Ping always succeeds.
func (r *Repository) Ping(_ context.Context) error {
	return nil
}
