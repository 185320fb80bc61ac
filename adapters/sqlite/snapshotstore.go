package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/artpar/chartschema/ports"
)

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SnapshotStore implements ports.SnapshotStore using SQLite.
type SnapshotStore struct {
	db *DB
}

// NewSnapshotStore creates a new snapshot store.
func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Save records a snapshot.
func (s *SnapshotStore) Save(ctx context.Context, snap ports.Snapshot) error {
	_, err := s.db.DB.ExecContext(ctx,
		`INSERT INTO snapshots (id, schema_name, revision, hash, document, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Schema, snap.Revision, snap.Hash, snap.Document,
		snap.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// Latest returns the most recent snapshot of a schema.
func (s *SnapshotStore) Latest(ctx context.Context, schema string) (ports.Snapshot, error) {
	row := s.db.DB.QueryRowContext(ctx,
		`SELECT id, schema_name, revision, hash, document, created_at
		 FROM snapshots WHERE schema_name = ?
		 ORDER BY created_at DESC, revision DESC LIMIT 1`,
		schema,
	)
	return scanSnapshot(row)
}

// Get returns a snapshot by ID.
func (s *SnapshotStore) Get(ctx context.Context, id string) (ports.Snapshot, error) {
	row := s.db.DB.QueryRowContext(ctx,
		`SELECT id, schema_name, revision, hash, document, created_at
		 FROM snapshots WHERE id = ?`,
		id,
	)
	return scanSnapshot(row)
}

// List returns snapshots of a schema, newest first.
func (s *SnapshotStore) List(ctx context.Context, schema string, limit int) ([]ports.Snapshot, error) {
	if limit <= 0 {
		limit = -1 // no limit
	}

	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT id, schema_name, revision, hash, document, created_at
		 FROM snapshots WHERE schema_name = ?
		 ORDER BY created_at DESC, revision DESC LIMIT ?`,
		schema, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []ports.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (ports.Snapshot, error) {
	var snap ports.Snapshot
	var createdAt string

	err := row.Scan(&snap.ID, &snap.Schema, &snap.Revision, &snap.Hash, &snap.Document, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.Snapshot{}, ports.ErrSnapshotNotFound
		}
		return ports.Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}

	snap.Size = len(snap.Document)
	snap.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return snap, nil
}

var _ ports.SnapshotStore = (*SnapshotStore)(nil)
