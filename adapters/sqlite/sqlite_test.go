package sqlite_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/artpar/chartschema/adapters/sqlite"
	"github.com/artpar/chartschema/ports"
)

func setupTestDB(t *testing.T) (*sqlite.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp("", "chartschema-test-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	path := f.Name()
	f.Close()

	db, err := sqlite.Open(path)
	if err != nil {
		os.Remove(path)
		t.Fatalf("open database: %v", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		os.Remove(path)
		t.Fatalf("migrate: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(path)
	}

	return db, cleanup
}

func TestMigrate_Idempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("schema_migrations has %d rows, want 1", count)
	}
}

func TestPending(t *testing.T) {
	db, err := sqlite.Open(t.TempDir() + "/pending.db")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	pending, err := db.Pending()
	if err != nil {
		t.Fatalf("Pending() error = %v", err)
	}
	if len(pending) != 1 || pending[0] != "001_snapshots.sql" {
		t.Errorf("Pending() = %v, want [001_snapshots.sql]", pending)
	}

	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	pending, err = db.Pending()
	if err != nil {
		t.Fatalf("Pending() after Migrate error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("Pending() after Migrate = %v, want none", pending)
	}
}

// -----------------------------------------------------------------------------
// SnapshotStore Tests
// -----------------------------------------------------------------------------

func TestSnapshotStore_SaveAndLatest(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewSnapshotStore(db)
	ctx := context.Background()

	if _, err := store.Latest(ctx, "polar"); !errors.Is(err, ports.ErrSnapshotNotFound) {
		t.Fatalf("Latest() on empty store error = %v, want ErrSnapshotNotFound", err)
	}

	base := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	snaps := []ports.Snapshot{
		{ID: "snap-1", Schema: "polar", Revision: 1, Hash: "aaa", Document: []byte(`{"a":1}`), CreatedAt: base},
		{ID: "snap-2", Schema: "polar", Revision: 2, Hash: "bbb", Document: []byte(`{"a":2}`), CreatedAt: base.Add(1500 * time.Millisecond)},
		{ID: "snap-3", Schema: "smith", Revision: 2, Hash: "ccc", Document: []byte(`{}`), CreatedAt: base.Add(time.Hour)},
	}
	for _, s := range snaps {
		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("Save(%s) error = %v", s.ID, err)
		}
	}

	latest, err := store.Latest(ctx, "polar")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.ID != "snap-2" {
		t.Errorf("Latest().ID = %s, want snap-2", latest.ID)
	}
	if latest.Hash != "bbb" || string(latest.Document) != `{"a":2}` {
		t.Errorf("Latest() = %+v", latest)
	}
	if latest.Size != 7 {
		t.Errorf("Latest().Size = %d, want 7", latest.Size)
	}
	if !latest.CreatedAt.Equal(snaps[1].CreatedAt) {
		t.Errorf("Latest().CreatedAt = %v, want %v", latest.CreatedAt, snaps[1].CreatedAt)
	}
}

func TestSnapshotStore_List(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewSnapshotStore(db)
	ctx := context.Background()

	base := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		store.Save(ctx, ports.Snapshot{
			ID:        id,
			Schema:    "polar",
			Revision:  uint64(i + 1),
			Hash:      id,
			Document:  []byte("{}"),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	all, err := store.List(ctx, "polar", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Errorf("List() = %v, want newest first", all)
	}

	two, _ := store.List(ctx, "polar", 2)
	if len(two) != 2 {
		t.Errorf("List(limit 2) returned %d", len(two))
	}

	none, err := store.List(ctx, "smith", 0)
	if err != nil || len(none) != 0 {
		t.Errorf("List(smith) = %v, %v; want empty", none, err)
	}
}

func TestSnapshotStore_Get(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewSnapshotStore(db)
	ctx := context.Background()

	snap := ports.Snapshot{ID: "snap-1", Schema: "polar", Revision: 7, Hash: "h", Document: []byte("{}"), CreatedAt: time.Now()}
	store.Save(ctx, snap)

	got, err := store.Get(ctx, "snap-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Revision != 7 {
		t.Errorf("Revision = %d, want 7", got.Revision)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ports.ErrSnapshotNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrSnapshotNotFound", err)
	}

	if err := store.Save(ctx, snap); err == nil {
		t.Error("Save() should reject a duplicate ID")
	}
}
