package sqlstore

// Collection names recorded in inventory_collections once saved.
const (
	collectionItems      = "items"
	collectionCategories = "categories"
)

const (
	qCollectionExists = `SELECT saved_at FROM inventory_collections WHERE name = ?`

	qMarkCollection = `INSERT INTO inventory_collections (name, saved_at) VALUES (?, ?)
ON CONFLICT (name) DO UPDATE SET saved_at = excluded.saved_at`

	qSelectItems = `SELECT id, name, item_count, category, created_at, updated_at
FROM inventory_items ORDER BY position`

	qDeleteItems = `DELETE FROM inventory_items`

	qInsertItem = `INSERT INTO inventory_items (id, name, item_count, category, created_at, updated_at, position)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	qSelectCategories = `SELECT id, name, is_default FROM inventory_categories ORDER BY position`

	qDeleteCategories = `DELETE FROM inventory_categories`

	qInsertCategory = `INSERT INTO inventory_categories (id, name, is_default, position) VALUES (?, ?, ?, ?)`
)
