package domain

import "errors"

// Sentinel errors for the inventory domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidItemName indicates the item name violates domain constraints.
	ErrInvalidItemName = errors.New("invalid item name")

	// ErrCategoryNotFound indicates the requested category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryAlreadyExists indicates another category already uses the name
	// (compared case-insensitively).
	ErrCategoryAlreadyExists = errors.New("category already exists")

	// ErrInvalidCategoryName indicates the category name violates domain constraints.
	ErrInvalidCategoryName = errors.New("invalid category name")

	// ErrInvalidReassignTarget indicates a category deletion asked to move its
	// items to a blank name or to the category being deleted.
	ErrInvalidReassignTarget = errors.New("invalid reassign target")

	// ErrCollectionNotFound is returned by repositories when a collection has
	// never been saved. Callers seed defaults on this error.
	ErrCollectionNotFound = errors.New("collection not found")
)
