// Package stores holds the in-memory inventory state. Stores are not safe for
// concurrent use; the application layer serializes access to them.
package stores

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/ghuser/stocktake/services/inventory/domain"
	"github.com/ghuser/stocktake/services/inventory/domain/models"
	"github.com/ghuser/stocktake/services/inventory/domain/services"
)

// ItemStore owns the item collection. Items are kept newest-first in
// storage order; List returns them ordered by UpdatedAt.
//
// Category existence is not checked here: callers resolve category names
// against a CategoryStore before writing.
type ItemStore struct {
	items []models.Item
	now   Clock
}

// NewItemStore returns a store holding a copy of items. A nil clock means
// SystemClock.
func NewItemStore(items []models.Item, now Clock) *ItemStore {
	if now == nil {
		now = SystemClock
	}
	return &ItemStore{items: slices.Clone(items), now: now}
}

// Clone returns an independent copy sharing the same clock.
func (s *ItemStore) Clone() *ItemStore {
	return &ItemStore{items: slices.Clone(s.items), now: s.now}
}

// Len returns the number of items.
func (s *ItemStore) Len() int {
	return len(s.items)
}

// Add creates an item. The name is trimmed and must not be empty; a
// negative count is stored as 0.
func (s *ItemStore) Add(name string, count int, category string) (models.Item, error) {
	n, err := parseItemName(name)
	if err != nil {
		return models.Item{}, err
	}

	item := models.NewItem(n, count, category, s.now())
	s.items = slices.Insert(s.items, 0, *item)
	return *item, nil
}

// Update applies patch to the item with the given id. The returned bool
// reports whether any field changed; UpdatedAt is refreshed only then.
func (s *ItemStore) Update(id uuid.UUID, patch models.ItemPatch) (models.Item, bool, error) {
	i := s.index(id)
	if i < 0 {
		return models.Item{}, false, domain.ErrItemNotFound
	}

	next := s.items[i]
	if patch.Name != nil {
		n, err := parseItemName(*patch.Name)
		if err != nil {
			return models.Item{}, false, err
		}
		next.Name = n
	}
	if patch.Count != nil {
		next.Count = models.ClampCount(*patch.Count)
	}
	if patch.Category != nil {
		next.Category = *patch.Category
	}

	cur := s.items[i]
	if next.Name == cur.Name && next.Count == cur.Count && next.Category == cur.Category {
		return cur, false, nil
	}

	next.Touch(s.now())
	s.items[i] = next
	return next, true, nil
}

// Delete removes the item with the given id. It reports whether an item
// was removed; unknown ids are not an error.
func (s *ItemStore) Delete(id uuid.UUID) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

// Increment adds one to the item's count.
func (s *ItemStore) Increment(id uuid.UUID) (models.Item, error) {
	i := s.index(id)
	if i < 0 {
		return models.Item{}, domain.ErrItemNotFound
	}
	s.items[i].Count++
	s.items[i].Touch(s.now())
	return s.items[i], nil
}

// Decrement subtracts one from the item's count. At zero nothing changes
// and the returned bool is false.
func (s *ItemStore) Decrement(id uuid.UUID) (models.Item, bool, error) {
	i := s.index(id)
	if i < 0 {
		return models.Item{}, false, domain.ErrItemNotFound
	}
	if s.items[i].Count == 0 {
		return s.items[i], false, nil
	}
	s.items[i].Count--
	s.items[i].Touch(s.now())
	return s.items[i], true, nil
}

// RenameCategory retags every item in category oldName with newName and
// returns how many items changed. Names match case-insensitively.
func (s *ItemStore) RenameCategory(oldName, newName string) int {
	if oldName == newName {
		return 0
	}
	now := s.now()
	n := 0
	for i := range s.items {
		if strings.EqualFold(s.items[i].Category, oldName) {
			s.items[i].Category = newName
			s.items[i].Touch(now)
			n++
		}
	}
	return n
}

// ReassignOrDelete handles the items of a category that is going away:
// either retags them with the disposition's target or removes them.
// It returns the number of items affected.
func (s *ItemStore) ReassignOrDelete(name string, d models.Disposition) int {
	if target, ok := d.Target(); ok {
		return s.RenameCategory(name, target)
	}

	before := len(s.items)
	s.items = slices.DeleteFunc(s.items, func(it models.Item) bool {
		return strings.EqualFold(it.Category, name)
	})
	return before - len(s.items)
}

// Get returns the item with the given id.
func (s *ItemStore) Get(id uuid.UUID) (models.Item, bool) {
	i := s.index(id)
	if i < 0 {
		return models.Item{}, false
	}
	return s.items[i], true
}

// List returns a copy of all items, most recently updated first. Items
// with equal UpdatedAt keep their storage order.
func (s *ItemStore) List() []models.Item {
	out := slices.Clone(s.items)
	sortByUpdated(out)
	return out
}

// ByCategory is List restricted to one category, matched case-insensitively.
func (s *ItemStore) ByCategory(name string) []models.Item {
	var out []models.Item
	for _, it := range s.items {
		if strings.EqualFold(it.Category, name) {
			out = append(out, it)
		}
	}
	sortByUpdated(out)
	return out
}

// CountInCategory returns the number of items tagged with name.
func (s *ItemStore) CountInCategory(name string) int {
	n := 0
	for _, it := range s.items {
		if strings.EqualFold(it.Category, name) {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of the items in storage order, for persistence.
func (s *ItemStore) Snapshot() []models.Item {
	return slices.Clone(s.items)
}

func (s *ItemStore) index(id uuid.UUID) int {
	return slices.IndexFunc(s.items, func(it models.Item) bool { return it.ID == id })
}

func sortByUpdated(items []models.Item) {
	slices.SortStableFunc(items, func(a, b models.Item) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
}

func parseItemName(s string) (models.ItemName, error) {
	n, err := models.NewItemName(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidItemName, err)
	}
	if err := services.ValidateItemName(n); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidItemName, err)
	}
	return n, nil
}
