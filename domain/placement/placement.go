// Package placement builds the plot-area placement attributes shared by
// every subplot type: the x and y domain fractions and the grid cell.
package placement

import (
	"strings"

	"github.com/artpar/chartschema/core/schema"
)

type options struct {
	trace       bool
	noGridCell  bool
	description string
}

// Option customizes the generated attributes.
type Option func(*options)

// ForTrace words the documentation for a trace instead of a subplot.
func ForTrace() Option {
	return func(o *options) { o.trace = true }
}

// WithoutGridCell omits the row and column attributes.
func WithoutGridCell() Option {
	return func(o *options) { o.noGridCell = true }
}

// WithDescription appends extra documentation to every attribute.
func WithDescription(s string) Option {
	return func(o *options) { o.description = s }
}

// Attributes returns the placement group for a subplot named name, with
// every attribute at the given edit type. Domain fractions default to the
// whole plot area [0, 1].
func Attributes(name string, tier schema.EditType, opts ...Option) schema.Group {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	subject := "subplot"
	if o.trace {
		subject = "trace"
	}
	if name != "" {
		subject = name + " " + subject
	}

	fraction := func(axis string) schema.Descriptor {
		item := schema.Descriptor{
			Kind:        schema.KindNumber,
			Constraints: schema.Between(0, 1),
			EditType:    tier,
		}
		return schema.Descriptor{
			Kind:        schema.KindInfoArray,
			Default:     []any{0.0, 1.0},
			Constraints: schema.ItemsOf(item, item),
			EditType:    tier,
			Description: describe("Sets the "+axis+" domain of this "+subject+" (in plot fraction).", o.description),
		}
	}

	g := schema.Group{
		EditType: tier,
		Attrs: schema.Attrs{
			"x": fraction("horizontal"),
			"y": fraction("vertical"),
		},
	}

	if !o.noGridCell {
		cell := func(dim string) schema.Descriptor {
			return schema.Descriptor{
				Kind:        schema.KindInteger,
				Default:     0,
				Constraints: schema.AtLeast(0),
				EditType:    tier,
				Description: describe("If there is a layout grid, use the domain for this "+dim+" in the grid for this "+subject+".", o.description),
			}
		}
		g.Attrs["row"] = cell("row")
		g.Attrs["column"] = cell("column")
	}

	return g
}

func describe(base, extra string) string {
	if extra == "" {
		return base
	}
	return strings.Join([]string{base, extra}, " ")
}
