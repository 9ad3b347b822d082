package models

import (
	"fmt"
	"strings"
)

// CategoryName is a value object representing a valid category name.
// Two names are the same category when they match case-insensitively.
type CategoryName string

const maxCategoryNameLength = 100

// NewCategoryName trims surrounding whitespace from s and constructs a valid
// CategoryName, or returns an error if the result is empty or too long.
func NewCategoryName(s string) (CategoryName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("category name must not be empty")
	}
	if len(s) > maxCategoryNameLength {
		return "", fmt.Errorf("category name must not exceed %d characters", maxCategoryNameLength)
	}
	return CategoryName(s), nil
}

// String returns the underlying string value.
func (n CategoryName) String() string {
	return string(n)
}

// Matches reports whether s names the same category, ignoring case.
func (n CategoryName) Matches(s string) bool {
	return strings.EqualFold(string(n), s)
}
