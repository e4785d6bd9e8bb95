package models

import "errors"

// Sentinel errors for analytics requests.
var (
	ErrDataUnavailable = errors.New("data unavailable")
	ErrUserNotFound    = errors.New("user not found")
	ErrNoPath          = errors.New("no path found")
	ErrInvalidInput    = errors.New("invalid input")
)

// ErrInvalidRow marks a store row that failed boundary validation. Such rows
// are skipped, never surfaced to callers.
var ErrInvalidRow = errors.New("invalid row")

// ErrStoreUnavailable indicates the backing store is rejecting requests (maps to HTTP 503).
var ErrStoreUnavailable = errors.New("store unavailable")
