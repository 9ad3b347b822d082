package repositories

import (
	"context"

	"github.com/ghuser/stocktake/services/inventory/domain/models"
)

// InventoryRepository loads and saves the two inventory collections.
// The domain layer owns this interface; infrastructure implements it.
//
// Saves are full replacements: the slice passed in becomes the entire
// collection, in the given order.
type InventoryRepository interface {
	// LoadItems returns the stored items, or domain.ErrCollectionNotFound
	// if the items collection has never been saved.
	LoadItems(ctx context.Context) ([]models.Item, error)

	// LoadCategories returns the stored categories, or
	// domain.ErrCollectionNotFound if the collection has never been saved.
	LoadCategories(ctx context.Context) ([]models.Category, error)

	SaveItems(ctx context.Context, items []models.Item) error
	SaveCategories(ctx context.Context, categories []models.Category) error
}

// SnapshotSaver is implemented by repositories that can write both
// collections atomically. Repositories without it get two separate writes;
// a failure between them is compensated by rewriting the previous
// categories, which is not atomic against a crash.
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, items []models.Item, categories []models.Category) error
}

// OutgoingEvent is a change event to publish on Topic.
type OutgoingEvent struct {
	Topic   string
	Payload any
}

// OutboxSaver is implemented by repositories that write change events in
// the same transaction as the snapshot, so an event exists if and only if
// its change was saved.
type OutboxSaver interface {
	SaveSnapshotWithEvents(ctx context.Context, items []models.Item, categories []models.Category, events []OutgoingEvent) error
}
