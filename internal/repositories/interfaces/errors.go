package interfaces

import "errors"

// ErrNotFound is returned by lookups when no document matches.
var ErrNotFound = errors.New("document not found")

// ErrDuplicate is returned when a unique index rejects a write.
var ErrDuplicate = errors.New("duplicate document")
