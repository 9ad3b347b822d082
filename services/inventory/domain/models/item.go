package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is a tracked inventory entry.
type Item struct {
	ID    uuid.UUID
	Name  ItemName
	Count int
	// Category holds the category name at the time of the last update.
	// It is a copy of the name, not a reference to Category.ID.
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewItem constructs an Item with a generated ID, a clamped count and both
// timestamps set to now.
func NewItem(name ItemName, count int, category string, now time.Time) *Item {
	return &Item{
		ID:        uuid.New(),
		Name:      name,
		Count:     ClampCount(count),
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ClampCount returns n, or 0 when n is negative.
func ClampCount(n int) int {
	return max(n, 0)
}

// Touch refreshes UpdatedAt. It never moves the timestamp backwards, so a
// clock that steps back leaves UpdatedAt where it was.
func (i *Item) Touch(now time.Time) {
	if now.After(i.UpdatedAt) {
		i.UpdatedAt = now
	}
}

// ItemPatch describes a partial update. Nil fields are left unchanged.
type ItemPatch struct {
	Name     *string
	Count    *int
	Category *string
}

// IsEmpty reports whether the patch sets no fields.
func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Count == nil && p.Category == nil
}
