package registry

import "errors"

var (
	// ErrNotFound is returned when a lookup by key (or, for resources, by URI
	// template match) finds nothing. It is surfaced to the caller as-is; the
	// lookup is not retried.
	ErrNotFound = errors.New("capability not found")

	// ErrInvalidCursor is returned when a pagination cursor is malformed or no
	// longer addresses a position inside the collection. Callers should restart
	// pagination from the beginning.
	ErrInvalidCursor = errors.New("invalid pagination cursor")
)
