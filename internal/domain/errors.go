package domain

import "errors"

// KeyPrefix is the default storage key prefix for catalog data.
const KeyPrefix = "kakule:"

var (
	// ErrNotFound signals a missing product.
	ErrNotFound = errors.New("product not found")
	// ErrUnknownCategory signals a category id outside the fixed catalog.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidRequest signals malformed search or listing parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrRepositoryUnavailable signals that the product source failed and no fallback was configured.
	ErrRepositoryUnavailable = errors.New("product repository unavailable")
)
