package catalog

import "errors"

var (
	// ErrCategoryNotFound is returned for an unknown or inactive category slug
	ErrCategoryNotFound = errors.New("service category not found")

	// ErrEmptyCategory is returned when a category has no active services;
	// booking cannot proceed without a price list
	ErrEmptyCategory = errors.New("service category has no services")

	// ErrStoreUnavailable marks catalog read failures as retryable
	ErrStoreUnavailable = errors.New("catalog store unavailable")
)
