// Package polar defines the layout attributes of a polar subplot: its
// placement, angular sector, hole, background, grid shape and the radial
// (real) and angular (imaginary) axes.
package polar

import (
	"sync"

	"github.com/artpar/chartschema/core/schema"
	"github.com/artpar/chartschema/domain/cartesian"
	"github.com/artpar/chartschema/domain/color"
	"github.com/artpar/chartschema/domain/placement"
)

// Name is the registry name and placement namespace of the polar layout.
const Name = "polar"

// LineGridAttributes returns the axis line and grid fragment. Lines and
// grids are shown by default and every setting replots from the root.
func LineGridAttributes() schema.Group {
	axes := cartesian.AxisAttributes()

	fragment := schema.Compose(
		schema.Pick(axes, "color", "linecolor", "linewidth", "gridcolor", "gridwidth"),
		schema.Group{Attrs: schema.Attrs{
			"showline": schema.Extend(schema.MustDescriptor(axes, "showline"), schema.WithDefault(true)),
			"showgrid": schema.Extend(schema.MustDescriptor(axes, "showgrid"), schema.WithDefault(true)),
		}},
	)
	return schema.OverrideAll(fragment, schema.EditPlot, schema.OriginFromRoot)
}

// TickAttributes returns the axis tick fragment.
func TickAttributes() schema.Group {
	fragment := schema.Pick(cartesian.AxisAttributes(),
		"tickmode", "tickvals", "ticktext", "ticks", "ticklen", "tickwidth", "tickcolor",
		"showticklabels", "showtickprefix", "tickprefix", "showticksuffix", "ticksuffix",
		"showexponent", "exponentformat", "minexponent", "separatethousands",
		"tickfont", "tickangle", "tickformat", "tickformatstops", "layer",
	)
	return schema.OverrideAll(fragment, schema.EditPlot, schema.OriginFromRoot)
}

// RadialAxisAttributes returns the radial (real) axis group.
func RadialAxisAttributes() schema.Group {
	axes := cartesian.AxisAttributes()

	base := schema.Group{
		EditType: schema.EditPlot,
		Attrs: schema.Attrs{
			"visible": schema.Extend(schema.MustDescriptor(axes, "visible"), schema.WithDefault(true)),
			"angle": schema.Descriptor{
				Kind:     schema.KindAngle,
				EditType: schema.EditPlot,
				Description: "Sets the angle (in degrees) from which the radial axis is drawn. " +
					"By default, the radial axis line on the theta=0 line points right. " +
					"Defaults to the first `sector` angle.",
			},
			"side": schema.Descriptor{
				Kind:        schema.KindEnumerated,
				Default:     "clockwise",
				Constraints: schema.OneOf("clockwise", "counterclockwise"),
				EditType:    schema.EditPlot,
				Description: "Determines on which side of radial axis line the tick and tick labels appear.",
			},
			"title": schema.Group{
				EditType: schema.EditPlot,
				Attrs: schema.Attrs{
					// Not editable from the UI, so it needs an explicit empty default.
					"text": schema.Extend(schema.MustDescriptor(axes, "title.text"),
						schema.WithEditType(schema.EditPlot), schema.WithDefault("")),
					"font": schema.Extend(schema.MustDescriptor(axes, "title.font"),
						schema.WithEditType(schema.EditPlot)),
				},
			},
			"hoverformat": schema.MustDescriptor(axes, "hoverformat"),
			"uirevision": schema.Descriptor{
				Kind:     schema.KindAny,
				EditType: schema.EditNone,
				Description: "Controls persistence of user-driven changes in axis `range`, " +
					"`autorange`, `angle`, and `title` if in `editable: true` configuration. " +
					"Defaults to `polar<N>.uirevision`.",
			},
		},
		Deprecated: schema.Pick(schema.Group{Attrs: axes.Deprecated}, "title", "titlefont").Attrs,
	}

	// Grid lines of the real axis are circular, its line runs straight
	// from the center to the outer bound.
	return schema.Compose(base, LineGridAttributes(), TickAttributes())
}

// AngularAxisAttributes returns the angular (imaginary) axis group.
func AngularAxisAttributes() schema.Group {
	axes := cartesian.AxisAttributes()

	base := schema.Group{
		EditType: schema.EditPlot,
		Attrs: schema.Attrs{
			"visible": schema.Extend(schema.MustDescriptor(axes, "visible"), schema.WithDefault(true)),
			"period": schema.Descriptor{
				Kind:        schema.KindNumber,
				Constraints: schema.AtLeast(0),
				EditType:    schema.EditCalc,
				Description: "Set the angular period. Has an effect only when `imaginaryaxis.type` is *category*.",
			},
			"direction": schema.Descriptor{
				Kind:        schema.KindEnumerated,
				Default:     "counterclockwise",
				Constraints: schema.OneOf("counterclockwise", "clockwise"),
				EditType:    schema.EditCalc,
				Description: "Sets the direction corresponding to positive angles.",
			},
			"rotation": schema.Descriptor{
				Kind:     schema.KindAngle,
				EditType: schema.EditCalc,
				Description: "Sets the start position (in degrees) of the angular axis. " +
					"Subplots with `direction` set to *counterclockwise* get a `rotation` of 0 " +
					"(due East), those with *clockwise* get 90 (due North).",
			},
			"hoverformat": schema.MustDescriptor(axes, "hoverformat"),
			"uirevision": schema.Descriptor{
				Kind:        schema.KindAny,
				EditType:    schema.EditNone,
				Description: "Controls persistence of user-driven changes in axis `rotation`. Defaults to `polar<N>.uirevision`.",
			},
		},
	}

	// Angular grid lines run straight from the center, the angular line is
	// the circle bounding the plot area.
	return schema.Compose(base, LineGridAttributes(), TickAttributes())
}

var layoutAttributes = sync.OnceValue(buildLayoutAttributes)

// LayoutAttributes returns the polar subplot layout schema.
// The group is built on first use and must not be modified.
func LayoutAttributes() schema.Group {
	return layoutAttributes()
}

func buildLayoutAttributes() schema.Group {
	return schema.Group{
		EditType: schema.EditCalc,
		Attrs: schema.Attrs{
			"domain": placement.Attributes(Name, schema.EditPlot),
			"sector": schema.Descriptor{
				Kind:    schema.KindInfoArray,
				Default: []any{0.0, 360.0},
				Constraints: schema.ItemsOf(
					schema.Descriptor{Kind: schema.KindNumber, EditType: schema.EditPlot},
					schema.Descriptor{Kind: schema.KindNumber, EditType: schema.EditPlot},
				),
				EditType: schema.EditPlot,
				Description: "Sets angular span of this polar subplot with two angles (in degrees). " +
					"Sectors are spanned counterclockwise with 0 at the rightmost limit of the subplot.",
			},
			"hole": schema.Descriptor{
				Kind:        schema.KindNumber,
				Default:     0.0,
				Constraints: schema.Between(0, 1),
				EditType:    schema.EditPlot,
				Description: "Sets the fraction of the radius to cut out of the polar subplot.",
			},
			"bgcolor": schema.Descriptor{
				Kind:        schema.KindColor,
				Default:     color.Background,
				EditType:    schema.EditPlot,
				Description: "Set the background color of the subplot",
			},
			"realaxis":      RadialAxisAttributes(),
			"imaginaryaxis": AngularAxisAttributes(),
			"gridshape": schema.Descriptor{
				Kind:        schema.KindEnumerated,
				Default:     "circular",
				Constraints: schema.OneOf("circular", "linear"),
				EditType:    schema.EditPlot,
				Description: "Determines if the radial axis grid lines and angular axis line are drawn " +
					"as *circular* sectors or as *linear* (polygon) sectors. Has an effect only when " +
					"the angular axis has `type` *category*.",
			},
			"uirevision": schema.Descriptor{
				Kind:     schema.KindAny,
				EditType: schema.EditNone,
				Description: "Controls persistence of user-driven changes in axis attributes, " +
					"if not overridden in the individual axes. Defaults to `layout.uirevision`.",
			},
		},
	}
}
