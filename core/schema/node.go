package schema

import "sort"

// Node is either a Descriptor (leaf) or a Group.
type Node interface {
	isNode()
}

// Descriptor describes one configurable value.
type Descriptor struct {
	// Kind is the value kind. See Kind constants.
	Kind ValueKind

	// Default value, nil when the attribute has none.
	Default any

	// Constraints restricts legal values. Must match Kind, see Check.
	Constraints Constraints

	// EditType is the invalidation tier of this attribute.
	EditType EditType

	// Origin is set when the descriptor was spliced in by OverrideAll.
	Origin Origin

	// Description is reference documentation.
	Description string
}

func (Descriptor) isNode() {}

// HasDefault reports whether the descriptor declares a default.
func (d Descriptor) HasDefault() bool {
	return d.Default != nil
}

// Range returns the numeric bounds, if any.
func (d Descriptor) Range() (NumberRange, bool) {
	r, ok := d.Constraints.(NumberRange)
	return r, ok
}

// Values returns the allowed values of an enumerated descriptor.
func (d Descriptor) Values() []string {
	if e, ok := d.Constraints.(EnumValues); ok {
		return e.Values
	}
	return nil
}

// Items returns the item descriptors of an info_array descriptor.
func (d Descriptor) Items() []Descriptor {
	if f, ok := d.Constraints.(FixedItems); ok {
		return f.Items
	}
	return nil
}

func (d Descriptor) clone() Descriptor {
	out := d
	out.Default = cloneValue(d.Default)
	if d.Constraints != nil {
		out.Constraints = d.Constraints.clone()
	}
	return out
}

// Attrs maps attribute names to nodes.
type Attrs map[string]Node

// Group is a named set of attributes.
// Groups are treated as immutable once built; every operation in this
// package returns a new Group.
type Group struct {
	// Attrs holds the attributes of this group.
	Attrs Attrs

	// EditType applies when the whole group is replaced. Optional.
	EditType EditType

	// Deprecated holds attributes still accepted but no longer documented.
	Deprecated Attrs
}

func (Group) isNode() {}

// Keys returns the attribute names in sorted order.
func (g Group) Keys() []string {
	return sortedKeys(g.Attrs)
}

// Get returns the attribute with the given name.
func (g Group) Get(name string) (Node, bool) {
	n, ok := g.Attrs[name]
	return n, ok
}

// Len returns the number of attributes.
func (g Group) Len() int {
	return len(g.Attrs)
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	out := Group{
		Attrs:    cloneAttrs(g.Attrs),
		EditType: g.EditType,
	}
	if g.Deprecated != nil {
		out.Deprecated = cloneAttrs(g.Deprecated)
	}
	return out
}

func cloneAttrs(attrs Attrs) Attrs {
	out := make(Attrs, len(attrs))
	for k, n := range attrs {
		out[k] = cloneNode(n)
	}
	return out
}

func cloneNode(n Node) Node {
	switch v := n.(type) {
	case Descriptor:
		return v.clone()
	case Group:
		return v.Clone()
	default:
		return n
	}
}

// cloneValue copies the slice and map values used as defaults.
func cloneValue(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}
		return out
	case []float64:
		return append([]float64(nil), x...)
	case []string:
		return append([]string(nil), x...)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func sortedKeys(attrs Attrs) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Font is the value of a font attribute.
type Font struct {
	Family string  `json:"family,omitempty" yaml:"family,omitempty"`
	Size   float64 `json:"size,omitempty" yaml:"size,omitempty"`
	Color  string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// Option changes one field of a copied descriptor.
type Option func(*Descriptor)

// Extend returns a copy of d with opts applied. d is not modified.
func Extend(d Descriptor, opts ...Option) Descriptor {
	out := d.clone()
	for _, opt := range opts {
		opt(&out)
	}
	return out
}

// WithDefault sets the default value.
func WithDefault(v any) Option {
	return func(d *Descriptor) { d.Default = cloneValue(v) }
}

// WithEditType sets the edit type.
func WithEditType(e EditType) Option {
	return func(d *Descriptor) { d.EditType = e }
}

// WithDescription replaces the documentation.
func WithDescription(s string) Option {
	return func(d *Descriptor) { d.Description = s }
}

// WithConstraints replaces the constraints.
func WithConstraints(c Constraints) Option {
	return func(d *Descriptor) { d.Constraints = c }
}
