package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	// TopicItemChanged is the Watermill topic published when an Item is
	// added, updated or deleted.
	TopicItemChanged = "inventory.item.changed"

	// TopicCategoryChanged is the Watermill topic published when a Category
	// is added, renamed or deleted.
	TopicCategoryChanged = "inventory.category.changed"
)

// CurrentVersion is the schema version stamped on every published event.
const CurrentVersion = 1

// ItemAction names what happened to an Item.
type ItemAction string

const (
	ItemAdded   ItemAction = "added"
	ItemUpdated ItemAction = "updated"
	ItemDeleted ItemAction = "deleted"
)

// CategoryAction names what happened to a Category.
type CategoryAction string

const (
	CategoryAdded   CategoryAction = "added"
	CategoryRenamed CategoryAction = "renamed"
	CategoryDeleted CategoryAction = "deleted"
)

// ItemChangedEvent is published after an item mutation is persisted.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicItemChanged, handler).
type ItemChangedEvent struct {
	EventID    uuid.UUID  `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int        `json:"version"`  // Schema version; increment on breaking changes
	Action     ItemAction `json:"action"`
	ItemID     uuid.UUID  `json:"item_id"`
	Category   string     `json:"category"`
	Count      int        `json:"count"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// CategoryChangedEvent is published after a category mutation, including
// its cascade onto items, is persisted.
type CategoryChangedEvent struct {
	EventID      uuid.UUID      `json:"event_id"`
	Version      int            `json:"version"`
	Action       CategoryAction `json:"action"`
	CategoryID   uuid.UUID      `json:"category_id"`
	Name         string         `json:"name"`
	PreviousName string         `json:"previous_name,omitempty"`
	ReassignedTo string         `json:"reassigned_to,omitempty"`
	// AffectedItems is the number of items renamed, reassigned or removed.
	AffectedItems int       `json:"affected_items"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewItemChanged stamps a fresh ItemChangedEvent.
func NewItemChanged(action ItemAction, itemID uuid.UUID, category string, count int, at time.Time) ItemChangedEvent {
	return ItemChangedEvent{
		EventID:    uuid.New(),
		Version:    CurrentVersion,
		Action:     action,
		ItemID:     itemID,
		Category:   category,
		Count:      count,
		OccurredAt: at,
	}
}

// NewCategoryChanged stamps a fresh CategoryChangedEvent. Callers fill the
// optional fields.
func NewCategoryChanged(action CategoryAction, categoryID uuid.UUID, name string, at time.Time) CategoryChangedEvent {
	return CategoryChangedEvent{
		EventID:    uuid.New(),
		Version:    CurrentVersion,
		Action:     action,
		CategoryID: categoryID,
		Name:       name,
		OccurredAt: at,
	}
}
