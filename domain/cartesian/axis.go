// Package cartesian holds the canonical axis attributes. They are authored
// once here and reused by other subplot types through schema.Pick,
// schema.Extend and schema.OverrideAll.
package cartesian

import (
	"sync"

	"github.com/artpar/chartschema/core/schema"
	"github.com/artpar/chartschema/domain/color"
)

// Font returns a font descriptor.
func Font(editType schema.EditType, description string) schema.Descriptor {
	return schema.Descriptor{
		Kind:        schema.KindFont,
		EditType:    editType,
		Description: description,
	}
}

var axisAttributes = sync.OnceValue(buildAxisAttributes)

// AxisAttributes returns the shared axis attribute group.
// The group is built on first use and must not be modified.
func AxisAttributes() schema.Group {
	return axisAttributes()
}

func buildAxisAttributes() schema.Group {
	prefixSuffixModes := schema.OneOf("all", "first", "last", "none")

	return schema.Group{
		EditType: schema.EditCalc,
		Attrs: schema.Attrs{
			"visible": schema.Descriptor{
				Kind:     schema.KindBoolean,
				EditType: schema.EditPlot,
				Description: "A single toggle to hide the axis while preserving interaction " +
					"like dragging. Default is true when a cheater plot is present on the " +
					"axis, otherwise false",
			},
			"color": schema.Descriptor{
				Kind:     schema.KindColor,
				Default:  color.DefaultLine,
				EditType: schema.EditTicks,
				Description: "Sets default for all colors associated with this axis all at once: " +
					"line, font, tick, and grid colors. Grid color is lightened by blending " +
					"this with the plot background. Individual pieces can override this.",
			},
			"title": schema.Group{
				EditType: schema.EditTicks,
				Attrs: schema.Attrs{
					"text": schema.Descriptor{
						Kind:        schema.KindString,
						EditType:    schema.EditTicks,
						Description: "Sets the title of this axis.",
					},
					"font": Font(schema.EditTicks, "Sets this axis' title font."),
				},
			},
			"showline": schema.Descriptor{
				Kind:        schema.KindBoolean,
				Default:     false,
				EditType:    schema.EditTicks,
				Description: "Determines whether or not a line bounding this axis is drawn.",
			},
			"linecolor": schema.Descriptor{
				Kind:        schema.KindColor,
				Default:     color.DefaultLine,
				EditType:    schema.EditLayoutStyle,
				Description: "Sets the axis line color.",
			},
			"linewidth": schema.Descriptor{
				Kind:        schema.KindNumber,
				Default:     1,
				Constraints: schema.AtLeast(0),
				EditType:    schema.EditTicks,
				Description: "Sets the width (in px) of the axis line.",
			},
			"showgrid": schema.Descriptor{
				Kind:     schema.KindBoolean,
				EditType: schema.EditTicks,
				Description: "Determines whether or not grid lines are drawn. If true, " +
					"the grid lines are drawn at every tick mark.",
			},
			"gridcolor": schema.Descriptor{
				Kind:        schema.KindColor,
				Default:     color.LightLine,
				EditType:    schema.EditTicks,
				Description: "Sets the color of the grid lines.",
			},
			"gridwidth": schema.Descriptor{
				Kind:        schema.KindNumber,
				Default:     1,
				Constraints: schema.AtLeast(0),
				EditType:    schema.EditTicks,
				Description: "Sets the width (in px) of the grid lines.",
			},
			"tickmode": schema.Descriptor{
				Kind:        schema.KindEnumerated,
				Constraints: schema.OneOf("auto", "linear", "array"),
				EditType:    schema.EditTicks,
				Description: "Sets the tick mode for this axis. If *auto*, the number of ticks is " +
					"set automatically. If *linear*, placement follows `tick0` and `dtick`. " +
					"If *array*, placement follows `tickvals` and `ticktext`.",
			},
			"tickvals": schema.Descriptor{
				Kind:        schema.KindAny,
				EditType:    schema.EditTicks,
				Description: "Sets the values at which ticks on this axis appear. Only has an effect if `tickmode` is set to *array*.",
			},
			"ticktext": schema.Descriptor{
				Kind:        schema.KindAny,
				EditType:    schema.EditTicks,
				Description: "Sets the text displayed at the ticks position via `tickvals`. Only has an effect if `tickmode` is set to *array*.",
			},
			"ticks": schema.Descriptor{
				Kind:        schema.KindEnumerated,
				Constraints: schema.OneOf("outside", "inside", ""),
				EditType:    schema.EditTicks,
				Description: "Determines whether ticks are drawn or not. If **, this axis' ticks are not drawn.",
			},
			"ticklen": schema.Descriptor{
				Kind:        schema.KindNumber,
				Default:     5,
				Constraints: schema.AtLeast(0),
				EditType:    schema.EditTicks,
				Description: "Sets the tick length (in px).",
			},
			"tickwidth": schema.Descriptor{
				Kind:        schema.KindNumber,
				Default:     1,
				Constraints: schema.AtLeast(0),
				EditType:    schema.EditTicks,
				Description: "Sets the tick width (in px).",
			},
			"tickcolor": schema.Descriptor{
				Kind:        schema.KindColor,
				Default:     color.DefaultLine,
				EditType:    schema.EditTicks,
				Description: "Sets the tick color.",
			},
			"showticklabels": schema.Descriptor{
				Kind:        schema.KindBoolean,
				Default:     true,
				EditType:    schema.EditTicks,
				Description: "Determines whether or not the tick labels are drawn.",
			},
			"showtickprefix": schema.Descriptor{
				Kind:        schema.KindEnumerated,
				Default:     "all",
				Constraints: prefixSuffixModes,
				EditType:    schema.EditTicks,
				Description: "If *all*, all tick labels are displayed with a prefix. If *first*, only the first tick is displayed with a prefix. If *last*, only the last tick is displayed with a suffix. If *none*, tick prefixes are hidden.",
			},
			"tickprefix": schema.Descriptor{
				Kind:        schema.KindString,
				Default:     "",
				EditType:    schema.EditTicks,
				Description: "Sets a tick label prefix.",
			},
			"showticksuffix": schema.Descriptor{
				Kind:        schema.KindEnumerated,
				Default:     "all",
				Constraints: prefixSuffixModes,
				EditType:    schema.EditTicks,
				Description: "Same as `showtickprefix` but for tick suffixes.",
			},
			"ticksuffix": schema.Descriptor{
				Kind:        schema.KindString,
				Default:     "",
				EditType:    schema.EditTicks,
				Description: "Sets a tick label suffix.",
			},
			"showexponent": schema.Descriptor{
				Kind:        schema.KindEnumerated,
				Default:     "all",
				Constraints: prefixSuffixModes,
				EditType:    schema.EditTicks,
				Description: "If *all*, all exponents are shown besides their significands. If *first*, only the exponent of the first tick is shown. If *last*, only the exponent of the last tick is shown. If *none*, no exponents appear.",
			},
			"exponentformat": schema.Descriptor{
				Kind:        schema.KindEnumerated,
				Default:     "B",
				Constraints: schema.OneOf("none", "e", "E", "power", "SI", "B"),
				EditType:    schema.EditTicks,
				Description: "Determines a formatting rule for the tick exponents. For example, consider the number 1,000,000,000. If *none*, it appears as 1,000,000,000. If *e*, 1e+9. If *E*, 1E+9. If *power*, 1x10^9 (with 9 in a super script). If *SI*, 1G. If *B*, 1B.",
			},
			"minexponent": schema.Descriptor{
				Kind:        schema.KindNumber,
				Default:     3,
				Constraints: schema.AtLeast(0),
				EditType:    schema.EditTicks,
				Description: "Hide SI prefix for 10^n if |n| is below this number. This only has an effect when `tickformat` is *SI* or *B*.",
			},
			"separatethousands": schema.Descriptor{
				Kind:        schema.KindBoolean,
				Default:     false,
				EditType:    schema.EditTicks,
				Description: "If true, even 4-digit integers are separated",
			},
			"tickfont": Font(schema.EditTicks, "Sets the tick font."),
			"tickangle": schema.Descriptor{
				Kind:     schema.KindAngle,
				EditType: schema.EditTicks,
				Description: "Sets the angle of the tick labels with respect to the horizontal. " +
					"For example, a `tickangle` of -90 draws the tick labels vertically. " +
					"Unset means the angle is chosen automatically.",
			},
			"tickformat": schema.Descriptor{
				Kind:        schema.KindString,
				Default:     "",
				EditType:    schema.EditTicks,
				Description: "Sets the tick label formatting rule using d3 formatting mini-languages.",
			},
			"tickformatstops": schema.Descriptor{
				Kind:        schema.KindAny,
				EditType:    schema.EditTicks,
				Description: "Array of objects with `dtickrange`, `value`, `enabled`, `name` and `templateitemname` keys, each a tick format rule for a zoom range.",
			},
			"layer": schema.Descriptor{
				Kind:        schema.KindEnumerated,
				Default:     "above traces",
				Constraints: schema.OneOf("above traces", "below traces"),
				EditType:    schema.EditPlot,
				Description: "Sets the layer on which this axis is displayed. If *above traces*, this axis is displayed above all the subplot's traces. If *below traces*, this axis is displayed below all the subplot's traces, but above the grid lines.",
			},
			"hoverformat": schema.Descriptor{
				Kind:        schema.KindString,
				Default:     "",
				EditType:    schema.EditNone,
				Description: "Sets the hover text formatting rule using d3 formatting mini-languages.",
			},
		},
		Deprecated: schema.Attrs{
			"title": schema.Descriptor{
				Kind:     schema.KindString,
				EditType: schema.EditTicks,
				Description: "Value of `title` is no longer a simple *string* but a set of sub-attributes. " +
					"To set the axis' title, please use `title.text` now.",
			},
			"titlefont": Font(schema.EditTicks, "Former `titlefont` is now the sub-attribute `font` of `title`. To customize title font properties, please use `title.font` now."),
		},
	}
}
