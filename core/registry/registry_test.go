package registry

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/chartschema/adapters/clock"
	"github.com/artpar/chartschema/core/schema"
	"github.com/artpar/chartschema/domain/polar"
)

var testTime = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := New(clock.NewFake(testTime), zerolog.Nop())
	if err := r.Register(polar.Name, polar.LayoutAttributes); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return r
}

func TestRegistry_Register(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.Register(polar.Name, polar.LayoutAttributes); err == nil {
		t.Error("Register() should reject a duplicate name")
	}
	for _, name := range []string{"", "polar.axis"} {
		if err := r.Register(name, polar.LayoutAttributes); err == nil {
			t.Errorf("Register(%q) should fail", name)
		}
	}
}

func TestRegistry_NotPublished(t *testing.T) {
	r := newTestRegistry(t)

	if r.Current() != nil {
		t.Error("Current() should be nil before the first rebuild")
	}
	if _, err := r.Get(polar.Name); !errors.Is(err, ErrNotPublished) {
		t.Errorf("Get() error = %v, want ErrNotPublished", err)
	}
	if names := r.List(); len(names) != 0 {
		t.Errorf("List() = %v, want empty", names)
	}
}

func TestRegistry_Rebuild(t *testing.T) {
	r := newTestRegistry(t)

	p, err := r.Rebuild(nil)
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if p.Revision != 1 {
		t.Errorf("Revision = %d, want 1", p.Revision)
	}
	if !p.BuiltAt.Equal(testTime) {
		t.Errorf("BuiltAt = %v, want %v", p.BuiltAt, testTime)
	}
	if r.Current() != p {
		t.Error("Current() should return the published generation")
	}

	g, err := r.Get(polar.Name)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, ok := g.Get("realaxis"); !ok {
		t.Error("published polar schema has no realaxis")
	}

	if _, err := r.Get("smith"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(smith) error = %v, want ErrNotFound", err)
	}
	if names := r.List(); len(names) != 1 || names[0] != polar.Name {
		t.Errorf("List() = %v, want [polar]", names)
	}

	p2, err := r.Rebuild(nil)
	if err != nil {
		t.Fatalf("second Rebuild() error = %v", err)
	}
	if p2.Revision != 2 {
		t.Errorf("second Revision = %d, want 2", p2.Revision)
	}
}

func TestRegistry_RebuildAppliesOverrides(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Rebuild(map[string]any{
		"polar.hole":               0.25,
		"polar.realaxis.gridcolor": "#ccc",
	})
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	g, _ := r.Get(polar.Name)
	if d := schema.MustDescriptor(g, "hole"); d.Default != 0.25 {
		t.Errorf("hole default = %v, want 0.25", d.Default)
	}
	if d := schema.MustDescriptor(g, "realaxis.gridcolor"); d.Default != "#ccc" {
		t.Errorf("realaxis.gridcolor default = %v, want #ccc", d.Default)
	}
	if d := schema.MustDescriptor(g, "imaginaryaxis.gridcolor"); d.Default != "#eee" {
		t.Errorf("imaginaryaxis.gridcolor default = %v, want #eee", d.Default)
	}

	// The shared builder output is untouched.
	if d := schema.MustDescriptor(polar.LayoutAttributes(), "hole"); d.Default != 0.0 {
		t.Errorf("builder hole default = %v, want 0", d.Default)
	}
}

func TestRegistry_RebuildRejectsBadOverrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		wantMsg   string
	}{
		{
			name:      "unknown schema",
			overrides: map[string]any{"smith.hole": 0.5},
			wantMsg:   `unknown schema "smith"`,
		},
		{
			name:      "unknown path",
			overrides: map[string]any{"polar.center": 0.5},
			wantMsg:   `no attribute at "center"`,
		},
		{
			name:      "group path",
			overrides: map[string]any{"polar.realaxis": true},
			wantMsg:   `no attribute at "realaxis"`,
		},
		{
			name:      "out of range",
			overrides: map[string]any{"polar.hole": 2},
			wantMsg:   "hole: default 2: must be at most 1",
		},
		{
			name:      "NaN",
			overrides: map[string]any{"polar.hole": math.NaN()},
			wantMsg:   "hole: default NaN: must be a finite number",
		},
		{
			name:      "infinite",
			overrides: map[string]any{"polar.sector": []any{0, math.Inf(1)}},
			wantMsg:   "sector",
		},
		{
			name:      "not in values",
			overrides: map[string]any{"polar.gridshape": "square"},
			wantMsg:   "gridshape: default square",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			first, err := r.Rebuild(nil)
			if err != nil {
				t.Fatalf("Rebuild() error = %v", err)
			}

			_, err = r.Rebuild(tt.overrides)
			if err == nil {
				t.Fatal("Rebuild() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Rebuild() error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
			if r.Current() != first {
				t.Error("a failed rebuild must keep the previous generation")
			}
		})
	}
}

func TestRegistry_OnPublish(t *testing.T) {
	r := newTestRegistry(t)

	var got []uint64
	r.OnPublish(func(p *Published) { got = append(got, p.Revision) })

	r.Rebuild(nil)
	r.Rebuild(map[string]any{"polar.hole": 5})
	r.Rebuild(nil)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("listener saw revisions %v, want [1 2]", got)
	}
}

func TestRegistry_ConcurrentReaders(t *testing.T) {
	r := newTestRegistry(t)
	if _, err := r.Rebuild(nil); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p := r.Current()
				if _, ok := p.Schemas[polar.Name]; !ok {
					t.Error("reader saw a generation without polar")
					return
				}
			}
		}()
	}
	for i := 0; i < 20; i++ {
		r.Rebuild(map[string]any{"polar.hole": float64(i%10) / 10})
	}
	wg.Wait()
}

func TestApplyDefault(t *testing.T) {
	g := polar.LayoutAttributes()

	out, err := ApplyDefault(g, "realaxis.title.text", "r")
	if err != nil {
		t.Fatalf("ApplyDefault() error = %v", err)
	}
	if d := schema.MustDescriptor(out, "realaxis.title.text"); d.Default != "r" {
		t.Errorf("default = %v, want r", d.Default)
	}
	if d := schema.MustDescriptor(g, "realaxis.title.text"); d.Default != "" {
		t.Errorf("input default = %v, want empty", d.Default)
	}

	if _, err := ApplyDefault(g, "", 1); err == nil {
		t.Error("ApplyDefault() with empty path should fail")
	}
}
