package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/artpar/chartschema/adapters/memory"
	"github.com/artpar/chartschema/ports"
)

var base = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func snapshot(id string, rev uint64, at time.Time) ports.Snapshot {
	return ports.Snapshot{
		ID:        id,
		Schema:    "polar",
		Revision:  rev,
		Hash:      "hash-" + id,
		Document:  []byte(`{"hole":{}}`),
		CreatedAt: at,
	}
}

func TestSnapshotStore_Empty(t *testing.T) {
	store := memory.NewSnapshotStore()
	ctx := context.Background()

	if _, err := store.Latest(ctx, "polar"); !errors.Is(err, ports.ErrSnapshotNotFound) {
		t.Errorf("Latest() error = %v, want ErrSnapshotNotFound", err)
	}
	if _, err := store.Get(ctx, "nope"); !errors.Is(err, ports.ErrSnapshotNotFound) {
		t.Errorf("Get() error = %v, want ErrSnapshotNotFound", err)
	}
	list, err := store.List(ctx, "polar", 0)
	if err != nil || len(list) != 0 {
		t.Errorf("List() = %v, %v; want empty", list, err)
	}
}

func TestSnapshotStore_SaveAndQuery(t *testing.T) {
	store := memory.NewSnapshotStore()
	ctx := context.Background()

	for _, s := range []ports.Snapshot{
		snapshot("a", 1, base),
		snapshot("b", 2, base.Add(time.Minute)),
		snapshot("c", 3, base.Add(time.Minute)),
	} {
		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("Save(%s) error = %v", s.ID, err)
		}
	}
	other := snapshot("x", 1, base.Add(time.Hour))
	other.Schema = "smith"
	store.Save(ctx, other)

	latest, err := store.Latest(ctx, "polar")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.ID != "c" {
		t.Errorf("Latest().ID = %s, want c (newest, highest revision)", latest.ID)
	}
	if latest.Size != len(`{"hole":{}}`) {
		t.Errorf("Latest().Size = %d", latest.Size)
	}

	list, _ := store.List(ctx, "polar", 0)
	var ids []string
	for _, s := range list {
		ids = append(ids, s.ID)
	}
	if len(ids) != 3 || ids[0] != "c" || ids[1] != "b" || ids[2] != "a" {
		t.Errorf("List() ids = %v, want [c b a]", ids)
	}

	limited, _ := store.List(ctx, "polar", 2)
	if len(limited) != 2 {
		t.Errorf("List(limit 2) returned %d", len(limited))
	}

	got, err := store.Get(ctx, "b")
	if err != nil || got.Revision != 2 {
		t.Errorf("Get(b) = %+v, %v", got, err)
	}
	if store.Len() != 4 {
		t.Errorf("Len() = %d, want 4", store.Len())
	}
}

func TestSnapshotStore_DuplicateID(t *testing.T) {
	store := memory.NewSnapshotStore()
	ctx := context.Background()

	store.Save(ctx, snapshot("a", 1, base))
	if err := store.Save(ctx, snapshot("a", 2, base)); err == nil {
		t.Error("Save() should reject a duplicate ID")
	}
}

func TestSnapshotStore_CopiesDocument(t *testing.T) {
	store := memory.NewSnapshotStore()
	ctx := context.Background()

	s := snapshot("a", 1, base)
	store.Save(ctx, s)
	s.Document[0] = 'X'

	got, _ := store.Get(ctx, "a")
	if got.Document[0] != '{' {
		t.Error("stored document shares memory with the caller")
	}
}

func TestSnapshotStore_Concurrent(t *testing.T) {
	store := memory.NewSnapshotStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			store.Save(ctx, snapshot(string(rune('a'+i)), uint64(i), base))
		}(i)
		go func() {
			defer wg.Done()
			store.List(ctx, "polar", 0)
		}()
	}
	wg.Wait()

	if store.Len() != 20 {
		t.Errorf("Len() = %d, want 20", store.Len())
	}
}
