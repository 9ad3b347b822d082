package models

import "github.com/google/uuid"

// DefaultCategoryNames are seeded on first run, in this order.
var DefaultCategoryNames = []string{
	"Laundry",
	"Electronics",
	"Pantry",
	"Bathroom",
	"Cleaning",
	"Office",
	"Kitchen",
	"Other",
}

// Category groups items. Items refer to it by Name.
type Category struct {
	ID        uuid.UUID
	Name      CategoryName
	IsDefault bool // informational; default categories can be renamed and deleted
}

// NewCategory constructs a Category with a generated ID.
func NewCategory(name CategoryName, isDefault bool) *Category {
	return &Category{
		ID:        uuid.New(),
		Name:      name,
		IsDefault: isDefault,
	}
}

// DefaultCategories returns freshly identified copies of the seeded categories.
func DefaultCategories() []Category {
	out := make([]Category, 0, len(DefaultCategoryNames))
	for _, name := range DefaultCategoryNames {
		out = append(out, *NewCategory(CategoryName(name), true))
	}
	return out
}
