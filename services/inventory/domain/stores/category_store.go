package stores

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/ghuser/stocktake/services/inventory/domain"
	"github.com/ghuser/stocktake/services/inventory/domain/models"
	"github.com/ghuser/stocktake/services/inventory/domain/services"
)

// CategoryStore owns the category collection in insertion order. Names are
// unique ignoring case.
type CategoryStore struct {
	cats []models.Category
}

// NewCategoryStore returns a store holding a copy of cats.
func NewCategoryStore(cats []models.Category) *CategoryStore {
	return &CategoryStore{cats: slices.Clone(cats)}
}

// Clone returns an independent copy.
func (s *CategoryStore) Clone() *CategoryStore {
	return &CategoryStore{cats: slices.Clone(s.cats)}
}

// Add appends a non-default category named name (trimmed).
func (s *CategoryStore) Add(name string) (models.Category, error) {
	n, err := parseCategoryName(name)
	if err != nil {
		return models.Category{}, err
	}
	if s.taken(n, uuid.Nil) {
		return models.Category{}, fmt.Errorf("%w: %q", domain.ErrCategoryAlreadyExists, n)
	}

	c := models.NewCategory(n, false)
	s.cats = append(s.cats, *c)
	return *c, nil
}

// Rename changes the name of the category with the given id and returns
// the category before and after. Only the category itself may already hold
// the new name, so a case-only change is allowed.
func (s *CategoryStore) Rename(id uuid.UUID, newName string) (before, after models.Category, err error) {
	n, err := parseCategoryName(newName)
	if err != nil {
		return models.Category{}, models.Category{}, err
	}
	if s.taken(n, id) {
		return models.Category{}, models.Category{}, fmt.Errorf("%w: %q", domain.ErrCategoryAlreadyExists, n)
	}

	i := s.index(id)
	if i < 0 {
		return models.Category{}, models.Category{}, domain.ErrCategoryNotFound
	}

	before = s.cats[i]
	s.cats[i].Name = n
	return before, s.cats[i], nil
}

// Remove deletes the category with the given id and returns it.
func (s *CategoryStore) Remove(id uuid.UUID) (models.Category, error) {
	i := s.index(id)
	if i < 0 {
		return models.Category{}, domain.ErrCategoryNotFound
	}
	c := s.cats[i]
	s.cats = slices.Delete(s.cats, i, i+1)
	return c, nil
}

// Get returns the category with the given id.
func (s *CategoryStore) Get(id uuid.UUID) (models.Category, bool) {
	i := s.index(id)
	if i < 0 {
		return models.Category{}, false
	}
	return s.cats[i], true
}

// FindByName looks a category up by name, ignoring case and surrounding
// whitespace.
func (s *CategoryStore) FindByName(name string) (models.Category, bool) {
	n, err := models.NewCategoryName(name)
	if err != nil {
		return models.Category{}, false
	}
	for _, c := range s.cats {
		if c.Name.Matches(n.String()) {
			return c, true
		}
	}
	return models.Category{}, false
}

// List returns a copy of the categories in insertion order.
func (s *CategoryStore) List() []models.Category {
	return slices.Clone(s.cats)
}

// Names returns the category names in insertion order.
func (s *CategoryStore) Names() []string {
	out := make([]string, len(s.cats))
	for i, c := range s.cats {
		out[i] = c.Name.String()
	}
	return out
}

// Len returns the number of categories.
func (s *CategoryStore) Len() int {
	return len(s.cats)
}

// taken reports whether a category other than except already uses name.
func (s *CategoryStore) taken(name models.CategoryName, except uuid.UUID) bool {
	return slices.ContainsFunc(s.cats, func(c models.Category) bool {
		return c.ID != except && c.Name.Matches(name.String())
	})
}

func (s *CategoryStore) index(id uuid.UUID) int {
	return slices.IndexFunc(s.cats, func(c models.Category) bool { return c.ID == id })
}

func parseCategoryName(s string) (models.CategoryName, error) {
	n, err := models.NewCategoryName(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidCategoryName, err)
	}
	if err := services.ValidateCategoryName(n); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidCategoryName, err)
	}
	return n, nil
}
