package models

import (
	"fmt"
	"strings"
)

// ItemName is a value object representing a valid item name.
// Encapsulates validation rules: trimmed, 1 <= len(name) <= 255.
type ItemName string

const (
	minItemNameLength = 1
	maxItemNameLength = 255
)

// NewItemName trims surrounding whitespace from s and constructs a valid
// ItemName, or returns an error if constraints are violated.
func NewItemName(s string) (ItemName, error) {
	s = strings.TrimSpace(s)
	if len(s) < minItemNameLength {
		return "", fmt.Errorf("item name must be at least %d character", minItemNameLength)
	}
	if len(s) > maxItemNameLength {
		return "", fmt.Errorf("item name must not exceed %d characters", maxItemNameLength)
	}
	return ItemName(s), nil
}

// String returns the underlying string value.
func (n ItemName) String() string {
	return string(n)
}
