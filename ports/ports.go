// Package ports defines interfaces (contracts) between layers.
// Implementations live in adapters/.
package ports

import (
	"context"
	"errors"
	"time"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// ErrSnapshotNotFound is returned when a schema has no recorded snapshot.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is one published revision of a schema.
type Snapshot struct {
	ID        string    `json:"id" yaml:"id"`
	Schema    string    `json:"schema" yaml:"schema"`
	Revision  uint64    `json:"revision" yaml:"revision"`
	Hash      string    `json:"hash" yaml:"hash"`
	Document  []byte    `json:"-" yaml:"-"`
	Size      int       `json:"size" yaml:"size"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// SnapshotStore persists published schema documents.
type SnapshotStore interface {
	// Save records a snapshot.
	Save(ctx context.Context, s Snapshot) error

	// Latest returns the most recent snapshot of a schema.
	// Returns ErrSnapshotNotFound when none exists.
	Latest(ctx context.Context, schema string) (Snapshot, error)

	// List returns snapshots of a schema, newest first.
	// A limit of zero or less returns all of them.
	List(ctx context.Context, schema string, limit int) ([]Snapshot, error)

	// Get returns a snapshot by ID.
	Get(ctx context.Context, id string) (Snapshot, error)
}
