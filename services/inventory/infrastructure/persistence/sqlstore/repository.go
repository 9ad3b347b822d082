// Package sqlstore implements the inventory repository over database/sql for
// both PostgreSQL (pgx) and SQLite (modernc). Tables are created by the goose
// migrations in migrations/inventory.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ghuser/stocktake/pkg/database"
	"github.com/ghuser/stocktake/pkg/events"
	"github.com/ghuser/stocktake/services/inventory/domain"
	"github.com/ghuser/stocktake/services/inventory/domain/models"
	"github.com/ghuser/stocktake/services/inventory/domain/repositories"
)

// TxPublisher opens a watermill publisher bound to a transaction.
// *events.EventBus satisfies it.
type TxPublisher interface {
	NewTxPublisher(tx *sql.Tx) (message.Publisher, error)
}

// Repository implements repositories.InventoryRepository and
// repositories.SnapshotSaver. Saves are full replacements inside a
// transaction.
type Repository struct {
	db     *database.Database
	rebind func(string) string
	now    func() time.Time
	outbox TxPublisher
}

// New returns a Repository over db.
func New(db *database.Database) *Repository {
	return &Repository{db: db, rebind: rebindFor(db.Driver()), now: time.Now}
}

// WithOutbox returns a copy of r that also implements
// repositories.OutboxSaver, writing events through pub inside the save
// transaction. Only PostgreSQL carries the watermill tables.
func (r *Repository) WithOutbox(pub TxPublisher) *OutboxRepository {
	cp := *r
	cp.outbox = pub
	return &OutboxRepository{Repository: &cp}
}

// OutboxRepository is a Repository that publishes events transactionally.
type OutboxRepository struct {
	*Repository
}

// SaveSnapshotWithEvents replaces both collections and publishes events in
// one transaction.
func (r *OutboxRepository) SaveSnapshotWithEvents(ctx context.Context, items []models.Item, categories []models.Category, evts []repositories.OutgoingEvent) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := r.writeCategories(ctx, tx, categories); err != nil {
			return err
		}
		if err := r.writeItems(ctx, tx, items); err != nil {
			return err
		}
		if len(evts) == 0 {
			return nil
		}

		pub, err := r.outbox.NewTxPublisher(tx)
		if err != nil {
			return fmt.Errorf("outbox publisher: %w", err)
		}
		for _, e := range evts {
			msg, err := events.NewJSONMessage(e.Payload)
			if err != nil {
				return err
			}
			events.InjectTrace(ctx, msg)
			if err := pub.Publish(e.Topic, msg); err != nil {
				return fmt.Errorf("outbox publish %s: %w", e.Topic, err)
			}
		}
		return nil
	})
}

func (r *Repository) LoadItems(ctx context.Context) ([]models.Item, error) {
	if err := r.requireCollection(ctx, collectionItems); err != nil {
		return nil, err
	}

	rows, err := r.db.DB().QueryContext(ctx, qSelectItems)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var items []models.Item
	for rows.Next() {
		var (
			id, name, category   string
			count                int
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&id, &name, &count, &category, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item, err := rowToItem(id, name, count, category, createdAt, updatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

func (r *Repository) LoadCategories(ctx context.Context) ([]models.Category, error) {
	if err := r.requireCollection(ctx, collectionCategories); err != nil {
		return nil, err
	}

	rows, err := r.db.DB().QueryContext(ctx, qSelectCategories)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var cats []models.Category
	for rows.Next() {
		var (
			id, name  string
			isDefault bool
		)
		if err := rows.Scan(&id, &name, &isDefault); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c, err := rowToCategory(id, name, isDefault)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

func (r *Repository) SaveItems(ctx context.Context, items []models.Item) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return r.writeItems(ctx, tx, items)
	})
}

func (r *Repository) SaveCategories(ctx context.Context, categories []models.Category) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return r.writeCategories(ctx, tx, categories)
	})
}

// SaveSnapshot replaces both collections in one transaction.
func (r *Repository) SaveSnapshot(ctx context.Context, items []models.Item, categories []models.Category) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := r.writeCategories(ctx, tx, categories); err != nil {
			return err
		}
		return r.writeItems(ctx, tx, items)
	})
}

// Ping checks the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *Repository) requireCollection(ctx context.Context, name string) error {
	var savedAt int64
	err := r.db.DB().QueryRowContext(ctx, r.rebind(qCollectionExists), name).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrCollectionNotFound
	}
	if err != nil {
		return fmt.Errorf("query collection %s: %w", name, err)
	}
	return nil
}

func (r *Repository) markCollection(ctx context.Context, tx *sql.Tx, name string) error {
	if _, err := tx.ExecContext(ctx, r.rebind(qMarkCollection), name, r.now().UnixMilli()); err != nil {
		return fmt.Errorf("mark collection %s: %w", name, err)
	}
	return nil
}

func (r *Repository) writeItems(ctx context.Context, tx *sql.Tx, items []models.Item) error {
	if _, err := tx.ExecContext(ctx, qDeleteItems); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, r.rebind(qInsertItem))
	if err != nil {
		return fmt.Errorf("prepare insert item: %w", err)
	}
	defer stmt.Close() //nolint:errcheck

	for pos, it := range items {
		if _, err := stmt.ExecContext(ctx,
			it.ID.String(),
			it.Name.String(),
			it.Count,
			it.Category,
			it.CreatedAt.UnixMilli(),
			it.UpdatedAt.UnixMilli(),
			pos,
		); err != nil {
			return fmt.Errorf("insert item %s: %w", it.ID, err)
		}
	}
	return r.markCollection(ctx, tx, collectionItems)
}

func (r *Repository) writeCategories(ctx context.Context, tx *sql.Tx, categories []models.Category) error {
	if _, err := tx.ExecContext(ctx, qDeleteCategories); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, r.rebind(qInsertCategory))
	if err != nil {
		return fmt.Errorf("prepare insert category: %w", err)
	}
	defer stmt.Close() //nolint:errcheck

	for pos, c := range categories {
		if _, err := stmt.ExecContext(ctx, c.ID.String(), c.Name.String(), c.IsDefault, pos); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %q", domain.ErrCategoryAlreadyExists, c.Name)
			}
			return fmt.Errorf("insert category %s: %w", c.ID, err)
		}
	}
	return r.markCollection(ctx, tx, collectionCategories)
}

// isUniqueViolation reports whether err is a unique-constraint failure from
// either driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

func rowToItem(id, name string, count int, category string, createdAt, updatedAt int64) (models.Item, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return models.Item{}, fmt.Errorf("item %q: parse id: %w", id, err)
	}
	n, err := models.NewItemName(name)
	if err != nil {
		return models.Item{}, fmt.Errorf("item %s: %w", id, err)
	}
	return models.Item{
		ID:        uid,
		Name:      n,
		Count:     models.ClampCount(count),
		Category:  category,
		CreatedAt: time.UnixMilli(createdAt).UTC(),
		UpdatedAt: time.UnixMilli(max(updatedAt, createdAt)).UTC(),
	}, nil
}

func rowToCategory(id, name string, isDefault bool) (models.Category, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return models.Category{}, fmt.Errorf("category %q: parse id: %w", id, err)
	}
	n, err := models.NewCategoryName(name)
	if err != nil {
		return models.Category{}, fmt.Errorf("category %s: %w", id, err)
	}
	return models.Category{ID: uid, Name: n, IsDefault: isDefault}, nil
}
