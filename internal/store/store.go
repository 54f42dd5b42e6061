// Package store persists the single versioned application document.
package store

import "errors"

var ErrNotFound = errors.New("not found")

// Store reads and writes the one Document a device owns. Load never fails
// outward: a missing or corrupt document degrades to the defaults, which
// are persisted so the next load is clean. Implementations are synchronous
// read-modify-write with last-write-wins semantics.
type Store interface {
	Load() Document
	Save(Document) error
	Reset() error

	// Export serializes the current document as pretty-printed JSON.
	Export() ([]byte, error)
	// Import replaces the entire document with the given blob if it is
	// parseable JSON, reporting success. No structural validation is
	// performed; Load repairs invalid sections on the next read.
	Import(blob []byte) bool
}
