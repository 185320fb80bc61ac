// Package registry holds the named schema builders and the published,
// immutable set of built schemas. Readers never see a partially built set:
// a rebuild either publishes every schema at once or keeps the previous set.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/chartschema/core/schema"
	"github.com/artpar/chartschema/ports"
)

// ErrNotFound is returned for an unknown schema name.
var ErrNotFound = errors.New("schema not found")

// ErrNotPublished is returned before the first successful rebuild.
var ErrNotPublished = errors.New("no schemas published")

// Builder returns a freshly built schema tree.
type Builder func() schema.Group

// Published is one immutable generation of built schemas.
type Published struct {
	Revision uint64
	Schemas  map[string]schema.Group
	BuiltAt  time.Time
}

// Names returns the published schema names, sorted.
func (p *Published) Names() []string {
	names := make([]string, 0, len(p.Schemas))
	for name := range p.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Listener is called after every successful publish.
type Listener func(*Published)

// Registry manages schema builders and the published generation.
type Registry struct {
	// mu guards builders and listeners and serializes rebuilds.
	mu        sync.Mutex
	builders  map[string]Builder
	listeners []Listener

	current  atomic.Pointer[Published]
	revision uint64

	clock  ports.Clock
	logger zerolog.Logger
}

// New creates an empty registry.
func New(clock ports.Clock, logger zerolog.Logger) *Registry {
	return &Registry{
		builders: make(map[string]Builder),
		clock:    clock,
		logger:   logger.With().Str("component", "registry").Logger(),
	}
}

// Register adds a named builder. It does not build or publish anything.
func (r *Registry) Register(name string, b Builder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" || strings.Contains(name, ".") {
		return fmt.Errorf("invalid schema name %q", name)
	}
	if _, exists := r.builders[name]; exists {
		return fmt.Errorf("schema %q already registered", name)
	}
	r.builders[name] = b
	return nil
}

// OnPublish registers a listener called after each publish.
// Listeners run synchronously on the rebuilding goroutine.
func (r *Registry) OnPublish(fn Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Rebuild runs every builder, applies the default overrides, checks every
// tree and publishes the result. Override keys have the form
// "<schema>.<path>", e.g. "polar.hole".
//
// On error nothing is published and the previous generation stays current.
func (r *Registry) Rebuild(overrides map[string]any) (*Published, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	built := make(map[string]schema.Group, len(r.builders))
	for name, build := range r.builders {
		built[name] = build()
	}

	var errs []string
	for _, key := range sortedOverrideKeys(overrides) {
		name, path, _ := strings.Cut(key, ".")
		g, ok := built[name]
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: unknown schema %q", key, name))
			continue
		}
		updated, err := ApplyDefault(g, path, overrides[key])
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
			continue
		}
		built[name] = updated
	}

	for _, name := range sortedNames(built) {
		if err := schema.Check(built[name]); err != nil {
			errs = append(errs, fmt.Sprintf("schema %s: %v", name, err))
		}
	}

	if len(errs) > 0 {
		r.logger.Error().Int("errors", len(errs)).Msg("rebuild rejected, keeping previous schemas")
		return nil, fmt.Errorf("rebuild failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	r.revision++
	p := &Published{
		Revision: r.revision,
		Schemas:  built,
		BuiltAt:  r.clock.Now(),
	}
	r.current.Store(p)

	r.logger.Info().
		Uint64("revision", p.Revision).
		Int("schemas", len(built)).
		Int("overrides", len(overrides)).
		Msg("schemas published")

	for _, fn := range r.listeners {
		fn(p)
	}
	return p, nil
}

// Current returns the published generation, or nil before the first publish.
func (r *Registry) Current() *Published {
	return r.current.Load()
}

// Get returns a published schema by name.
func (r *Registry) Get(name string) (schema.Group, error) {
	p := r.current.Load()
	if p == nil {
		return schema.Group{}, ErrNotPublished
	}
	g, ok := p.Schemas[name]
	if !ok {
		return schema.Group{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return g, nil
}

// List returns the published schema names, sorted.
func (r *Registry) List() []string {
	p := r.current.Load()
	if p == nil {
		return nil
	}
	return p.Names()
}

// ApplyDefault returns a copy of g whose descriptor at path declares v as
// its default. The new default is checked by schema.Check, not here.
func ApplyDefault(g schema.Group, path string, v any) (schema.Group, error) {
	if path == "" {
		return g, errors.New("missing attribute path")
	}
	d, ok := schema.LookupDescriptor(g, path)
	if !ok {
		return g, fmt.Errorf("no attribute at %q", path)
	}
	out, ok := schema.Replace(g, path, schema.Extend(d, schema.WithDefault(v)))
	if !ok {
		return g, fmt.Errorf("no attribute at %q", path)
	}
	return out, nil
}

func sortedOverrideKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedNames(m map[string]schema.Group) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
