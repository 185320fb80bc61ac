// Package history records every published schema revision as a snapshot.
// A schema whose encoded document did not change since its latest snapshot
// is not recorded again.
package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/chartschema/core/registry"
	"github.com/artpar/chartschema/ports"
)

// Recorder writes snapshots of published schemas to a store.
type Recorder struct {
	store   ports.SnapshotStore
	ids     ports.IDGenerator
	clock   ports.Clock
	logger  zerolog.Logger
	timeout time.Duration

	// OnRecorded, if set, is called for each new snapshot.
	OnRecorded func(ports.Snapshot)
	// OnError, if set, is called when a snapshot cannot be written.
	OnError func(schema string, err error)
}

// NewRecorder creates a recorder.
func NewRecorder(store ports.SnapshotStore, ids ports.IDGenerator, clock ports.Clock, logger zerolog.Logger) *Recorder {
	return &Recorder{
		store:   store,
		ids:     ids,
		clock:   clock,
		logger:  logger.With().Str("component", "history").Logger(),
		timeout: 5 * time.Second,
	}
}

// Record snapshots every schema of p whose document changed. It returns the
// snapshots written, plus the first error encountered.
func (r *Recorder) Record(ctx context.Context, p *registry.Published) ([]ports.Snapshot, error) {
	var recorded []ports.Snapshot
	var firstErr error

	for _, name := range p.Names() {
		snap, changed, err := r.recordOne(ctx, name, p)
		if err != nil {
			r.logger.Error().Err(err).Str("schema", name).Msg("snapshot failed")
			if r.OnError != nil {
				r.OnError(name, err)
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !changed {
			continue
		}

		r.logger.Info().
			Str("schema", name).
			Str("id", snap.ID).
			Uint64("revision", snap.Revision).
			Str("hash", snap.Hash[:12]).
			Msg("snapshot recorded")
		if r.OnRecorded != nil {
			r.OnRecorded(snap)
		}
		recorded = append(recorded, snap)
	}

	return recorded, firstErr
}

// Listener returns a registry.Listener recording each publish.
func (r *Recorder) Listener() registry.Listener {
	return func(p *registry.Published) {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		// Record logs and reports failures through OnError.
		_, _ = r.Record(ctx, p)
	}
}

func (r *Recorder) recordOne(ctx context.Context, name string, p *registry.Published) (ports.Snapshot, bool, error) {
	doc, err := json.Marshal(p.Schemas[name])
	if err != nil {
		return ports.Snapshot{}, false, fmt.Errorf("encode schema %s: %w", name, err)
	}
	hash := Hash(doc)

	latest, err := r.store.Latest(ctx, name)
	switch {
	case err == nil && latest.Hash == hash:
		return latest, false, nil
	case err != nil && !errors.Is(err, ports.ErrSnapshotNotFound):
		return ports.Snapshot{}, false, fmt.Errorf("load latest snapshot of %s: %w", name, err)
	}

	snap := ports.Snapshot{
		ID:        r.ids.New(),
		Schema:    name,
		Revision:  p.Revision,
		Hash:      hash,
		Document:  doc,
		Size:      len(doc),
		CreatedAt: r.clock.Now(),
	}
	if err := r.store.Save(ctx, snap); err != nil {
		return ports.Snapshot{}, false, err
	}
	return snap, true, nil
}

// Hash returns the hex sha256 of a schema document.
func Hash(doc []byte) string {
	sum := sha256.Sum256(doc)
	return hex.EncodeToString(sum[:])
}
