/*
Package schema defines attribute schemas: trees of typed, documented
configuration values with defaults and invalidation hints.

A schema is a Group. Each attribute of a group is either a Descriptor (one
configurable value) or a nested Group.

# Descriptors

A descriptor has a value kind, an optional default, optional constraints,
an edit type and reference documentation:

	hole := schema.Descriptor{
		Kind:        schema.KindNumber,
		Default:     0,
		Constraints: schema.Between(0, 1),
		EditType:    schema.EditPlot,
		Description: "Sets the fraction of the radius to cut out of the polar subplot.",
	}

# Value Kinds

  - number:     Floating-point value (NumberRange)
  - integer:    Whole number (NumberRange)
  - angle:      Degrees (NumberRange)
  - color:      CSS color string: #rgb, #rrggbb, rgb(), rgba(), named
  - boolean:    true or false
  - enumerated: One of a set of strings (requires EnumValues)
  - string:     Text value
  - font:       Font{Family, Size, Color}
  - info_array: Fixed-length array (requires FixedItems)
  - any:        Opaque value, never checked

# Edit Types

The edit type tells a renderer how much work a change to the value needs,
from calc (recompute everything) down to none. Every descriptor carries
exactly one edit type.

# Composition

Fragments are authored once and reused. Compose performs a shallow union
where later groups win:

	axis := schema.Compose(base, lineGrid, ticks)

Extend copies a descriptor and changes selected fields:

	showline := schema.Extend(schema.MustDescriptor(axes, "showline"), schema.WithDefault(true))

Pick selects a subset of a shared group:

	lineGrid := schema.Pick(axes, "color", "linecolor", "linewidth")

OverrideAll rewrites the edit type and origin of every descriptor in a
fragment, at any depth, so it can be spliced into a different context:

	ticks := schema.OverrideAll(tickFragment, schema.EditPlot, schema.OriginFromRoot)

None of these operations modify their inputs.

# Checking

Check reports every authoring defect in a tree at once. A schema that fails
Check must not be published.
*/
package schema
