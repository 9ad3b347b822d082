// Package services contains stateless domain services for the inventory bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond stdlib and the domain layer.
package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ghuser/stocktake/services/inventory/domain"
	"github.com/ghuser/stocktake/services/inventory/domain/models"
)

// ValidateItemName enforces business rules for ItemName beyond the structural
// constraints enforced by the ItemName constructor (trimmed, length 1–255).
//
// Business rules:
//   - No leading or trailing whitespace
//   - No control characters (Unicode category Cc)
func ValidateItemName(name models.ItemName) error {
	return validateLabel("item name", name.String())
}

// ValidateCategoryName applies the same rules as ValidateItemName to a
// CategoryName.
func ValidateCategoryName(name models.CategoryName) error {
	return validateLabel("category name", name.String())
}

// ValidateCategorySet checks that no two categories share a name under
// CategoryName.Matches, the comparison the category store uses. Used when
// loading collections written outside this process.
func ValidateCategorySet(cats []models.Category) error {
	for i, c := range cats {
		for _, prev := range cats[:i] {
			if prev.Name.Matches(c.Name.String()) {
				return fmt.Errorf("%w: duplicate name %q", domain.ErrCategoryAlreadyExists, c.Name)
			}
		}
	}
	return nil
}

func validateLabel(field, s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%s must not be only whitespace", field)
	}

	if s != strings.TrimSpace(s) {
		return fmt.Errorf("%s must not have leading or trailing whitespace", field)
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("%s must not contain control characters", field)
		}
	}

	return nil
}
