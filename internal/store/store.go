// Package store holds the read-side adapters the matching engine consumes.
package store

import "errors"

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")
