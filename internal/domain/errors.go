package domain

import "errors"

// Sentinel errors shared by every layer. Repos and services wrap them with
// context; handlers match them with errors.Is to pick the HTTP status.
var (
	// ErrNotFound means no record has the requested id. Maps to 404.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks input that breaks a business rule, such as an
	// unknown destination type or an order below 1. Maps to 400 "fail".
	ErrValidation = errors.New("validation error")

	// ErrDuplicate marks a unique constraint violation. The wrapping message
	// names the field, e.g. "duplicate key: email". Maps to 400 "fail".
	ErrDuplicate = errors.New("duplicate key")
)
