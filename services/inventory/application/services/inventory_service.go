package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	pkgcache "github.com/ghuser/stocktake/pkg/cache"
	"github.com/ghuser/stocktake/pkg/logger"
	"github.com/ghuser/stocktake/pkg/telemetry"
	inventorydomain "github.com/ghuser/stocktake/services/inventory/domain"
	"github.com/ghuser/stocktake/services/inventory/domain/events"
	"github.com/ghuser/stocktake/services/inventory/domain/models"
	"github.com/ghuser/stocktake/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/stocktake/services/inventory/domain/services"
	"github.com/ghuser/stocktake/services/inventory/domain/stores"
)

// Publisher publishes change events after they are saved.
// *events.EventBus satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, topic string, payload any) error
}

// SummaryCache holds a precomputed Summary. *cache.SummaryCache satisfies it.
type SummaryCache interface {
	Get(ctx context.Context) (*pkgcache.CachedSummary, error)
	Set(ctx context.Context, s *pkgcache.CachedSummary) error
}

// CategoryCount is the number of items tagged with one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Summary is the count-per-category view. Categories follow category
// storage order and leave out categories with no items; Total counts every
// item.
type Summary struct {
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
}

// Option configures an InventoryService.
type Option func(*InventoryService)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logger.Logger) Option {
	return func(s *InventoryService) { s.log = l }
}

// WithMetrics records operation counts on m.
func WithMetrics(m *telemetry.InventoryMetrics) Option {
	return func(s *InventoryService) { s.metrics = m }
}

// WithSummaryCache writes the summary through to c after every change.
func WithSummaryCache(c SummaryCache) Option {
	return func(s *InventoryService) { s.cache = c }
}

// WithPublisher publishes change events through p after every change. It is
// not needed when the repository implements repositories.OutboxSaver.
func WithPublisher(p Publisher) Option {
	return func(s *InventoryService) { s.bus = p }
}

// WithClock overrides the clock used to stamp items and events.
func WithClock(c stores.Clock) Option {
	return func(s *InventoryService) { s.clock = c }
}

// InventoryService owns the item and category stores and sequences every
// operation on them. One mutex serializes all operations; a mutation runs
// against copies of both stores, which replace the live stores only after
// the repository accepted the new state.
type InventoryService struct {
	mu    sync.Mutex
	repo  repositories.InventoryRepository
	items *stores.ItemStore
	cats  *stores.CategoryStore

	log     logger.Logger
	metrics *telemetry.InventoryMetrics
	cache   SummaryCache
	bus     Publisher
	clock   stores.Clock
}

// Open loads both collections from repo. A collection that was never saved
// starts empty (items) or with the default categories, which are saved
// immediately so their ids stay stable.
func Open(ctx context.Context, repo repositories.InventoryRepository, opts ...Option) (*InventoryService, error) {
	s := &InventoryService{repo: repo, log: logger.Nop(), clock: stores.SystemClock}
	for _, opt := range opts {
		opt(s)
	}

	items, cats, seeded, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if seeded {
		if err := repo.SaveCategories(ctx, cats.List()); err != nil {
			return nil, fmt.Errorf("seed categories: %w", err)
		}
		s.log.InfoContext(ctx, "inventory: seeded default categories", "count", cats.Len())
	}
	s.items, s.cats = items, cats

	s.log.InfoContext(ctx, "inventory: opened", "items", items.Len(), "categories", cats.Len())
	s.metrics.RecordItemCount(ctx, items.Len())
	return s, nil
}

// Reload replaces the in-memory state with what the repository holds. The
// worker calls it before rebuilding the summary cache.
func (s *InventoryService) Reload(ctx context.Context) error {
	items, cats, _, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items, s.cats = items, cats
	s.mu.Unlock()
	return nil
}

func (s *InventoryService) load(ctx context.Context) (*stores.ItemStore, *stores.CategoryStore, bool, error) {
	items, err := s.repo.LoadItems(ctx)
	if err != nil && !errors.Is(err, inventorydomain.ErrCollectionNotFound) {
		return nil, nil, false, fmt.Errorf("load items: %w", err)
	}

	seeded := false
	cats, err := s.repo.LoadCategories(ctx)
	switch {
	case errors.Is(err, inventorydomain.ErrCollectionNotFound):
		cats, seeded = models.DefaultCategories(), true
	case err != nil:
		return nil, nil, false, fmt.Errorf("load categories: %w", err)
	}
	if err := domainsvcs.ValidateCategorySet(cats); err != nil {
		return nil, nil, false, fmt.Errorf("load categories: %w", err)
	}

	return stores.NewItemStore(items, s.clock), stores.NewCategoryStore(cats), seeded, nil
}

// mutation is the body of a mutating operation. It edits the staged stores
// and reports whether anything changed plus the events to publish.
type mutation func(items *stores.ItemStore, cats *stores.CategoryStore) (changed bool, evts []repositories.OutgoingEvent, err error)

func (s *InventoryService) mutate(ctx context.Context, op string, fn mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, cats := s.items.Clone(), s.cats.Clone()
	changed, evts, err := fn(items, cats)
	if err != nil {
		s.metrics.RecordOperation(ctx, op, telemetry.OutcomeInvalid)
		return err
	}
	if !changed {
		s.metrics.RecordOperation(ctx, op, telemetry.OutcomeNoop)
		return nil
	}

	published, err := s.persist(ctx, items, cats, evts)
	if err != nil {
		s.metrics.RecordOperation(ctx, op, telemetry.OutcomeError)
		s.log.ErrorContext(ctx, "inventory: save failed, change discarded", "op", op, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	s.items, s.cats = items, cats
	s.metrics.RecordOperation(ctx, op, telemetry.OutcomeOK)
	s.metrics.RecordItemCount(ctx, items.Len())
	s.log.InfoContext(ctx, "inventory: change saved", "op", op, "items", items.Len(), "categories", cats.Len())

	if !published {
		s.publish(ctx, evts)
	}
	s.writeSummary(ctx)
	return nil
}

// persist saves both collections, preferring the most atomic path the
// repository offers. It reports whether events were written with the save.
//
// Without a SnapshotSaver categories are written before items. When the
// items write fails, the committed categories are written back so storage
// never holds renamed categories next to the old items.
func (s *InventoryService) persist(ctx context.Context, items *stores.ItemStore, cats *stores.CategoryStore, evts []repositories.OutgoingEvent) (bool, error) {
	if ob, ok := s.repo.(repositories.OutboxSaver); ok {
		return true, ob.SaveSnapshotWithEvents(ctx, items.Snapshot(), cats.List(), evts)
	}
	if ss, ok := s.repo.(repositories.SnapshotSaver); ok {
		return false, ss.SaveSnapshot(ctx, items.Snapshot(), cats.List())
	}
	if err := s.repo.SaveCategories(ctx, cats.List()); err != nil {
		return false, err
	}
	if err := s.repo.SaveItems(ctx, items.Snapshot()); err != nil {
		if rbErr := s.repo.SaveCategories(ctx, s.cats.List()); rbErr != nil {
			return false, errors.Join(err, fmt.Errorf("restore categories: %w", rbErr))
		}
		return false, err
	}
	return false, nil
}

func (s *InventoryService) publish(ctx context.Context, evts []repositories.OutgoingEvent) {
	if s.bus == nil {
		return
	}
	for _, e := range evts {
		if err := s.bus.PublishJSON(ctx, e.Topic, e.Payload); err != nil {
			s.log.WarnContext(ctx, "inventory: publish failed", "topic", e.Topic, "error", err)
		}
	}
}

// writeSummary refreshes the summary cache. Callers hold s.mu.
func (s *InventoryService) writeSummary(ctx context.Context) {
	if s.cache == nil {
		return
	}
	sum := s.summaryLocked()
	if err := s.cache.Set(ctx, toCached(sum, s.clock())); err != nil {
		s.log.WarnContext(ctx, "inventory: summary cache write failed", "error", err)
	}
}

// AddItem creates an item in an existing category. The category is matched
// case-insensitively and stored under its canonical name.
func (s *InventoryService) AddItem(ctx context.Context, name string, count int, category string) (models.Item, error) {
	var added models.Item
	err := s.mutate(ctx, "add_item", func(items *stores.ItemStore, cats *stores.CategoryStore) (bool, []repositories.OutgoingEvent, error) {
		c, ok := cats.FindByName(category)
		if !ok {
			return false, nil, fmt.Errorf("%w: %q", inventorydomain.ErrCategoryNotFound, category)
		}
		item, err := items.Add(name, count, c.Name.String())
		if err != nil {
			return false, nil, err
		}
		added = item
		return true, []repositories.OutgoingEvent{s.itemEvent(events.ItemAdded, item)}, nil
	})
	if err != nil {
		return models.Item{}, err
	}
	return added, nil
}

// UpdateItem applies a partial update. A patch that changes nothing returns
// the current item without saving.
func (s *InventoryService) UpdateItem(ctx context.Context, id uuid.UUID, patch models.ItemPatch) (models.Item, error) {
	var updated models.Item
	err := s.mutate(ctx, "update_item", func(items *stores.ItemStore, cats *stores.CategoryStore) (bool, []repositories.OutgoingEvent, error) {
		if patch.Category != nil {
			c, ok := cats.FindByName(*patch.Category)
			if !ok {
				return false, nil, fmt.Errorf("%w: %q", inventorydomain.ErrCategoryNotFound, *patch.Category)
			}
			canonical := c.Name.String()
			patch.Category = &canonical
		}
		item, changed, err := items.Update(id, patch)
		if err != nil {
			return false, nil, err
		}
		updated = item
		if !changed {
			return false, nil, nil
		}
		return true, []repositories.OutgoingEvent{s.itemEvent(events.ItemUpdated, item)}, nil
	})
	if err != nil {
		return models.Item{}, err
	}
	return updated, nil
}

// DeleteItem removes an item. Unknown ids are not an error.
func (s *InventoryService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.mutate(ctx, "delete_item", func(items *stores.ItemStore, _ *stores.CategoryStore) (bool, []repositories.OutgoingEvent, error) {
		item, ok := items.Get(id)
		if !ok {
			return false, nil, nil
		}
		items.Delete(id)
		return true, []repositories.OutgoingEvent{s.itemEvent(events.ItemDeleted, item)}, nil
	})
}

// IncrementCount adds one to an item's count.
func (s *InventoryService) IncrementCount(ctx context.Context, id uuid.UUID) (models.Item, error) {
	var updated models.Item
	err := s.mutate(ctx, "increment_count", func(items *stores.ItemStore, _ *stores.CategoryStore) (bool, []repositories.OutgoingEvent, error) {
		item, err := items.Increment(id)
		if err != nil {
			return false, nil, err
		}
		updated = item
		return true, []repositories.OutgoingEvent{s.itemEvent(events.ItemUpdated, item)}, nil
	})
	if err != nil {
		return models.Item{}, err
	}
	return updated, nil
}

// DecrementCount subtracts one from an item's count. At zero the item is
// returned unchanged and nothing is saved.
func (s *InventoryService) DecrementCount(ctx context.Context, id uuid.UUID) (models.Item, error) {
	var updated models.Item
	err := s.mutate(ctx, "decrement_count", func(items *stores.ItemStore, _ *stores.CategoryStore) (bool, []repositories.OutgoingEvent, error) {
		item, changed, err := items.Decrement(id)
		if err != nil {
			return false, nil, err
		}
		updated = item
		if !changed {
			return false, nil, nil
		}
		return true, []repositories.OutgoingEvent{s.itemEvent(events.ItemUpdated, item)}, nil
	})
	if err != nil {
		return models.Item{}, err
	}
	return updated, nil
}

// AddCategory creates a non-default category.
func (s *InventoryService) AddCategory(ctx context.Context, name string) (models.Category, error) {
	var added models.Category
	err := s.mutate(ctx, "add_category", func(_ *stores.ItemStore, cats *stores.CategoryStore) (bool, []repositories.OutgoingEvent, error) {
		c, err := cats.Add(name)
		if err != nil {
			return false, nil, err
		}
		added = c
		evt := events.NewCategoryChanged(events.CategoryAdded, c.ID, c.Name.String(), s.clock())
		return true, []repositories.OutgoingEvent{{Topic: events.TopicCategoryChanged, Payload: evt}}, nil
	})
	if err != nil {
		return models.Category{}, err
	}
	return added, nil
}

// UpdateCategory renames a category and retags its items in the same
// change. Renaming to the exact current name changes nothing.
func (s *InventoryService) UpdateCategory(ctx context.Context, id uuid.UUID, newName string) (models.Category, error) {
	var renamed models.Category
	err := s.mutate(ctx, "update_category", func(items *stores.ItemStore, cats *stores.CategoryStore) (bool, []repositories.OutgoingEvent, error) {
		before, after, err := cats.Rename(id, newName)
		if err != nil {
			return false, nil, err
		}
		renamed = after
		if before.Name == after.Name {
			return false, nil, nil
		}

		n := items.RenameCategory(before.Name.String(), after.Name.String())
		evt := events.NewCategoryChanged(events.CategoryRenamed, after.ID, after.Name.String(), s.clock())
		evt.PreviousName = before.Name.String()
		evt.AffectedItems = n
		return true, []repositories.OutgoingEvent{{Topic: events.TopicCategoryChanged, Payload: evt}}, nil
	})
	if err != nil {
		return models.Category{}, err
	}
	return renamed, nil
}

// DeleteCategory removes a category and either moves its items to another
// existing category or deletes them, as d says. It returns the applied
// disposition, with a reassignment target resolved to its stored name, and
// the number of items moved or deleted.
func (s *InventoryService) DeleteCategory(ctx context.Context, id uuid.UUID, d models.Disposition) (models.Disposition, int, error) {
	var affected int
	err := s.mutate(ctx, "delete_category", func(items *stores.ItemStore, cats *stores.CategoryStore) (bool, []repositories.OutgoingEvent, error) {
		c, ok := cats.Get(id)
		if !ok {
			return false, nil, inventorydomain.ErrCategoryNotFound
		}

		reassignedTo := ""
		if target, reassign := d.Target(); reassign {
			if target == "" {
				return false, nil, fmt.Errorf("%w: target must not be blank", inventorydomain.ErrInvalidReassignTarget)
			}
			tc, found := cats.FindByName(target)
			if !found {
				return false, nil, fmt.Errorf("%w: reassign target %q", inventorydomain.ErrCategoryNotFound, target)
			}
			if tc.ID == c.ID {
				return false, nil, fmt.Errorf("%w: cannot reassign %q to itself", inventorydomain.ErrInvalidReassignTarget, c.Name)
			}
			reassignedTo = tc.Name.String()
			d = models.ReassignTo(reassignedTo)
		}

		affected = items.ReassignOrDelete(c.Name.String(), d)
		if _, err := cats.Remove(id); err != nil {
			return false, nil, err
		}

		evt := events.NewCategoryChanged(events.CategoryDeleted, c.ID, c.Name.String(), s.clock())
		evt.ReassignedTo = reassignedTo
		evt.AffectedItems = affected
		return true, []repositories.OutgoingEvent{{Topic: events.TopicCategoryChanged, Payload: evt}}, nil
	})
	if err != nil {
		return models.Disposition{}, 0, err
	}
	return d, affected, nil
}

// ListItems returns items most recently updated first. A non-empty category
// restricts the list to that category.
func (s *InventoryService) ListItems(category string) []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(category) == "" {
		return s.items.List()
	}
	return s.items.ByCategory(strings.TrimSpace(category))
}

// GetItem returns one item.
func (s *InventoryService) GetItem(id uuid.UUID) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items.Get(id)
	if !ok {
		return models.Item{}, inventorydomain.ErrItemNotFound
	}
	return item, nil
}

// ListCategories returns categories in storage order.
func (s *InventoryService) ListCategories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cats.List()
}

// CategoryNames returns category names in storage order.
func (s *InventoryService) CategoryNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cats.Names()
}

// FindCategory looks a category up by id or, failing that, by name.
func (s *InventoryService) FindCategory(idOrName string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, err := uuid.Parse(strings.TrimSpace(idOrName)); err == nil {
		if c, ok := s.cats.Get(id); ok {
			return c, nil
		}
	}
	if c, ok := s.cats.FindByName(idOrName); ok {
		return c, nil
	}
	return models.Category{}, fmt.Errorf("%w: %q", inventorydomain.ErrCategoryNotFound, idOrName)
}

// CategoryItemCount returns how many items are tagged with the named
// category. Callers use it to decide whether deleting the category needs a
// reassignment target.
func (s *InventoryService) CategoryItemCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.CountInCategory(strings.TrimSpace(name))
}

// Summary computes the count-per-category view from current state.
func (s *InventoryService) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

// CachedSummary serves the summary from the cache when one is configured,
// computing it and warming the cache on a miss or cache error.
func (s *InventoryService) CachedSummary(ctx context.Context) Summary {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err == nil {
			return fromCached(cached)
		}
		if !errors.Is(err, pkgcache.ErrCacheMiss) {
			s.log.WarnContext(ctx, "inventory: summary cache read failed", "error", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeSummary(ctx)
	return s.summaryLocked()
}

// RefreshSummaryCache recomputes the summary and writes it to the cache.
func (s *InventoryService) RefreshSummaryCache(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeSummary(ctx)
}

func (s *InventoryService) summaryLocked() Summary {
	sum := Summary{Total: s.items.Len(), Categories: []CategoryCount{}}
	for _, name := range s.cats.Names() {
		if n := s.items.CountInCategory(name); n > 0 {
			sum.Categories = append(sum.Categories, CategoryCount{Category: name, Count: n})
		}
	}
	return sum
}

func (s *InventoryService) itemEvent(action events.ItemAction, item models.Item) repositories.OutgoingEvent {
	evt := events.NewItemChanged(action, item.ID, item.Category, item.Count, s.clock())
	return repositories.OutgoingEvent{Topic: events.TopicItemChanged, Payload: evt}
}
