// Package storage defines the save-store boundary: a named-record store
// the engine writes full save snapshots to and reads them back from.
//
// Every write is an idempotent whole-record overwrite; no partial-write
// or transactional guarantee is required by the engine.
package storage

import (
	"context"
	"errors"

	"github.com/ebenmoss/sultanate/internal/save"
)

// ErrNotFound indicates a requested save record is missing.
var ErrNotFound = errors.New("save record not found")

// Store persists save records keyed by save id.
type Store interface {
	// Put writes the record, overwriting any existing record with the
	// same id.
	Put(ctx context.Context, record save.Record) error
	// Get fetches a record by id, or ErrNotFound.
	Get(ctx context.Context, id string) (save.Record, error)
	// List returns all stored save ids.
	List(ctx context.Context) ([]string, error)
	// Delete removes a record by id. Deleting a missing record is not
	// an error.
	Delete(ctx context.Context, id string) error
	// Close releases the underlying store.
	Close() error
}
