package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no record matches the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrDocumentMissing is returned by a Backend whose document was never
	// created or has been removed.
	ErrDocumentMissing = errors.New("document does not exist")

	// ErrIDSpaceExhausted is returned when an allocator cannot find a free id.
	ErrIDSpaceExhausted = errors.New("no free id left")
)

// StorageError reports a failure to read, decode, encode or write a
// collection document.
type StorageError struct {
	Collection string
	Op         string
	Err        error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
