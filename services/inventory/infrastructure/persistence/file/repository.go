// Package file stores the inventory as two JSON documents in a directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghuser/stocktake/services/inventory/domain"
	"github.com/ghuser/stocktake/services/inventory/domain/models"
)

// File names of the two collections inside the data directory.
const (
	ItemsFile      = "stocktake_items.json"
	CategoriesFile = "stocktake_categories.json"
)

const fileMode = 0o600

// Repository reads and writes the collections under dir. Writes go through
// a temp file and a rename, so a crash leaves either the old or the new
// document on disk.
type Repository struct {
	dir string
}

// New returns a Repository rooted at dir, creating the directory if needed.
func New(dir string) (*Repository, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("file store: create %s: %w", dir, err)
	}
	return &Repository{dir: dir}, nil
}

// Dir returns the data directory.
func (r *Repository) Dir() string {
	return r.dir
}

func (r *Repository) LoadItems(_ context.Context) ([]models.Item, error) {
	var recs []itemRecord
	if err := readJSON(r.path(ItemsFile), &recs); err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	return fromItemRecords(recs)
}

func (r *Repository) LoadCategories(_ context.Context) ([]models.Category, error) {
	var recs []categoryRecord
	if err := readJSON(r.path(CategoriesFile), &recs); err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return fromCategoryRecords(recs)
}

func (r *Repository) SaveItems(_ context.Context, items []models.Item) error {
	if err := writeJSON(r.path(ItemsFile), toItemRecords(items)); err != nil {
		return fmt.Errorf("save items: %w", err)
	}
	return nil
}

func (r *Repository) SaveCategories(_ context.Context, categories []models.Category) error {
	if err := writeJSON(r.path(CategoriesFile), toCategoryRecords(categories)); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	return nil
}

// SaveSnapshot stages both documents before renaming either into place, so a
// marshal or write failure leaves both files untouched.
func (r *Repository) SaveSnapshot(_ context.Context, items []models.Item, categories []models.Category) error {
	catTmp, err := stageJSON(r.path(CategoriesFile), toCategoryRecords(categories))
	if err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	defer func() { _ = os.Remove(catTmp) }()

	itemTmp, err := stageJSON(r.path(ItemsFile), toItemRecords(items))
	if err != nil {
		return fmt.Errorf("save items: %w", err)
	}
	defer func() { _ = os.Remove(itemTmp) }()

	if err := os.Rename(catTmp, r.path(CategoriesFile)); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	if err := os.Rename(itemTmp, r.path(ItemsFile)); err != nil {
		return fmt.Errorf("save items: %w", err)
	}
	return nil
}

// Ping checks that the data directory is still there.
func (r *Repository) Ping(_ context.Context) error {
	info, err := os.Stat(r.dir)
	if err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("file store: %s is not a directory", r.dir)
	}
	return nil
}

func (r *Repository) path(name string) string {
	return filepath.Join(r.dir, name)
}

// readJSON decodes path into out. A missing file is ErrCollectionNotFound.
func readJSON(path string, out any) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.ErrCollectionNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// writeJSON writes v to path via a temp file, then rename.
func writeJSON(path string, v any) error {
	tmp, err := stageJSON(path, v)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp) }()
	return os.Rename(tmp, path)
}

// stageJSON writes v to a temp file next to path and returns its name.
func stageJSON(path string, v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", err
	}
	tmp := f.Name()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if err := f.Chmod(fileMode); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return tmp, nil
}
