// Package memory provides in-memory implementations of storage ports.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/artpar/chartschema/ports"
)

// SnapshotStore is an in-memory implementation of ports.SnapshotStore.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]ports.Snapshot // by ID
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[string]ports.Snapshot),
	}
}

// Save records a snapshot. IDs must be unique.
func (s *SnapshotStore) Save(ctx context.Context, snap ports.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.snapshots[snap.ID]; exists {
		return fmt.Errorf("snapshot %s already exists", snap.ID)
	}
	snap.Document = append([]byte(nil), snap.Document...)
	snap.Size = len(snap.Document)
	s.snapshots[snap.ID] = snap
	return nil
}

// Latest returns the most recent snapshot of a schema.
func (s *SnapshotStore) Latest(ctx context.Context, schema string) (ports.Snapshot, error) {
	list, _ := s.List(ctx, schema, 1)
	if len(list) == 0 {
		return ports.Snapshot{}, ports.ErrSnapshotNotFound
	}
	return list[0], nil
}

// Get returns a snapshot by ID.
func (s *SnapshotStore) Get(ctx context.Context, id string) (ports.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[id]
	if !ok {
		return ports.Snapshot{}, ports.ErrSnapshotNotFound
	}
	return snap, nil
}

// List returns snapshots of a schema, newest first.
func (s *SnapshotStore) List(ctx context.Context, schema string, limit int) ([]ports.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []ports.Snapshot
	for _, snap := range s.snapshots {
		if snap.Schema == schema {
			result = append(result, snap)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].Revision > result[j].Revision
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Len returns the number of stored snapshots.
func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}

var _ ports.SnapshotStore = (*SnapshotStore)(nil)
