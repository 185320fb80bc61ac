// Package formatter provides a pluggable output formatting system.
// Formatters render schemas, validation results and snapshot history as
// json, yaml, aligned tables or markdown reference docs.
package formatter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/artpar/chartschema/core/schema"
	"github.com/artpar/chartschema/core/validation"
	"github.com/artpar/chartschema/ports"
)

// Formatter converts structured data to a specific output format.
type Formatter interface {
	// Name returns the formatter name (e.g., "table", "json", "yaml").
	Name() string

	// Description returns a human-readable description.
	Description() string

	// FormatSchema formats a schema or one of its subtrees.
	FormatSchema(w io.Writer, doc SchemaDoc, opts FormatOptions) error

	// FormatValidation formats the result of validating one layout.
	FormatValidation(w io.Writer, report Report, opts FormatOptions) error

	// FormatSnapshots formats the publish history of a schema.
	FormatSnapshots(w io.Writer, snapshots []ports.Snapshot, opts FormatOptions) error

	// FormatError formats an error.
	FormatError(w io.Writer, err error) error
}

// SchemaDoc is a schema, or the node at Path within it.
type SchemaDoc struct {
	Name     string
	Revision uint64
	Path     string
	Node     schema.Node
}

// Report is a validation result for one layout source.
type Report struct {
	Schema string
	Source string
	Result validation.ValidationResult
}

// FormatOptions configures formatting behavior.
type FormatOptions struct {
	// NoHeader disables header row for tabular formats.
	NoHeader bool

	// Compact minimizes whitespace (for json).
	Compact bool

	// MaxWidth truncates long values (0 = no limit).
	MaxWidth int
}

// Registry manages registered formatters.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
	defaultFmt string
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
		defaultFmt: "table",
	}
}

// Register adds a formatter to the registry.
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[f.Name()]; exists {
		return fmt.Errorf("formatter %q already registered", f.Name())
	}

	r.formatters[f.Name()] = f
	return nil
}

// Get returns a formatter by name.
func (r *Registry) Get(name string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formatters[name]
	return f, ok
}

// Default returns the default formatter.
func (r *Registry) Default() Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.formatters[r.defaultFmt]
}

// SetDefault sets the default formatter.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[name]; !exists {
		return fmt.Errorf("formatter %q not registered", name)
	}

	r.defaultFmt = name
	return nil
}

// List returns all registered formatter names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter to the default registry.
func Register(f Formatter) error {
	return DefaultRegistry.Register(f)
}

// Get returns a formatter from the default registry.
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// Default returns the default formatter from the default registry.
func Default() Formatter {
	return DefaultRegistry.Default()
}

// List returns all formatter names from the default registry.
func List() []string {
	return DefaultRegistry.List()
}

// leafRow is the flattened view of one descriptor used by the tabular formats.
type leafRow struct {
	Path        string
	Kind        string
	Default     any
	EditType    string
	Constraints string
	Description string
}

// leafRows flattens a node into rows sorted by path. A descriptor yields a
// single row named by prefix.
func leafRows(prefix string, n schema.Node) []leafRow {
	switch v := n.(type) {
	case schema.Descriptor:
		return []leafRow{newLeafRow(prefix, v)}
	case schema.Group:
		leaves := schema.Leaves(v)
		paths := make([]string, 0, len(leaves))
		for p := range leaves {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		rows := make([]leafRow, 0, len(paths))
		for _, p := range paths {
			full := p
			if prefix != "" {
				full = prefix + "." + p
			}
			rows = append(rows, newLeafRow(full, leaves[p]))
		}
		return rows
	default:
		return nil
	}
}

func newLeafRow(path string, d schema.Descriptor) leafRow {
	return leafRow{
		Path:        path,
		Kind:        string(d.Kind),
		Default:     d.Default,
		EditType:    string(d.EditType),
		Constraints: constraintText(d),
		Description: d.Description,
	}
}

// constraintText renders the constraints of d in one short line.
func constraintText(d schema.Descriptor) string {
	switch c := d.Constraints.(type) {
	case schema.NumberRange:
		return c.String()
	case schema.EnumValues:
		return strings.Join(c.Values, " | ")
	case schema.FixedItems:
		kinds := make([]string, len(c.Items))
		for i, item := range c.Items {
			kinds[i] = string(item.Kind)
			if r, ok := item.Range(); ok {
				kinds[i] += " " + r.String()
			}
		}
		return "[" + strings.Join(kinds, ", ") + "]"
	default:
		return ""
	}
}

// documentOf returns the map encoding of a schema document shared by the
// json and yaml formatters.
func documentOf(doc SchemaDoc) map[string]any {
	out := map[string]any{
		"schema":     doc.Name,
		"attributes": schema.Encode(doc.Node),
	}
	if doc.Revision > 0 {
		out["revision"] = doc.Revision
	}
	if doc.Path != "" {
		out["path"] = doc.Path
	}
	return out
}

func reportOf(report Report) map[string]any {
	out := map[string]any{
		"schema": report.Schema,
		"valid":  report.Result.Valid,
	}
	if report.Source != "" {
		out["source"] = report.Source
	}
	if len(report.Result.Errors) > 0 {
		out["errors"] = report.Result.Errors
	}
	if len(report.Result.Warnings) > 0 {
		out["warnings"] = report.Result.Warnings
	}
	return out
}

func snapshotsOf(snapshots []ports.Snapshot) map[string]any {
	if snapshots == nil {
		snapshots = []ports.Snapshot{}
	}
	return map[string]any{
		"count": len(snapshots),
		"data":  snapshots,
	}
}
