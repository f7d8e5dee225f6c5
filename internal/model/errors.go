package model

import "errors"

// Validation errors returned by the editing operations. They are recoverable
// and meant to be shown to the user as-is.
var (
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrEmptyValue   = errors.New("value cannot be empty")
	ErrTooFewLists  = errors.New("select items from at least 2 lists")
	ErrListNotFound = errors.New("list not found")
	ErrItemNotFound = errors.New("item not found")
	ErrRuleNotFound = errors.New("invalid combination not found")
)
