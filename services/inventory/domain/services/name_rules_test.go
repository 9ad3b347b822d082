package services

import (
	"errors"
	"testing"

	"github.com/ghuser/stocktake/services/inventory/domain"
	"github.com/ghuser/stocktake/services/inventory/domain/models"
)

func TestValidateItemName(t *testing.T) {
	tests := []struct {
		name    string
		input   models.ItemName
		wantErr bool
	}{
		{"valid name", "Valid Item Name", false},
		{"valid name with special chars", "Item-Name_123!@#", false},
		{"double space inside is allowed", "Item  Name", false},
		{"unicode letters", "Crème fraîche", false},
		{"leading whitespace", " Name", true},
		{"trailing whitespace", "Name ", true},
		{"only whitespace", "   ", true},
		{"empty", "", true},
		{"tab character (control)", "Name\tName", true},
		{"newline character (control)", "Name\nName", true},
		{"null byte (control)", "Name\x00", true},
		{"DEL character", "Name\x7F", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItemName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateItemName(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCategoryName(t *testing.T) {
	tests := []struct {
		name    string
		input   models.CategoryName
		wantErr bool
	}{
		{"valid", "Home Office", false},
		{"leading whitespace", " Home", true},
		{"control character", "Ho\x01me", true},
		{"only whitespace", "  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCategoryName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCategoryName(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCategorySet(t *testing.T) {
	t.Run("defaults are unique", func(t *testing.T) {
		if err := ValidateCategorySet(models.DefaultCategories()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("case-insensitive duplicate", func(t *testing.T) {
		cats := []models.Category{
			*models.NewCategory("Pantry", false),
			*models.NewCategory("PANTRY", false),
		}
		if err := ValidateCategorySet(cats); !errors.Is(err, domain.ErrCategoryAlreadyExists) {
			t.Fatalf("expected ErrCategoryAlreadyExists, got %v", err)
		}
	})

	t.Run("duplicate under unicode case folding", func(t *testing.T) {
		// U+017F LATIN SMALL LETTER LONG S folds to "s".
		cats := []models.Category{
			*models.NewCategory("Spices", false),
			*models.NewCategory("\u017Fpices", false),
		}
		if !cats[0].Name.Matches(cats[1].Name.String()) {
			t.Fatal("names must match under the category store comparison")
		}
		if err := ValidateCategorySet(cats); !errors.Is(err, domain.ErrCategoryAlreadyExists) {
			t.Fatalf("expected ErrCategoryAlreadyExists, got %v", err)
		}
	})

	t.Run("empty set", func(t *testing.T) {
		if err := ValidateCategorySet(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
