package schema

// ValueKind is the type of value an attribute accepts.
type ValueKind string

const (
	// Numeric kinds
	KindNumber  ValueKind = "number"
	KindInteger ValueKind = "integer"
	KindAngle   ValueKind = "angle" // Degrees, wrapped to (-180, 180] by consumers

	// Scalar kinds
	KindColor      ValueKind = "color"
	KindBoolean    ValueKind = "boolean"
	KindEnumerated ValueKind = "enumerated" // Requires EnumValues
	KindString     ValueKind = "string"

	// Structured kinds
	KindFont      ValueKind = "font"       // Family, size and color
	KindInfoArray ValueKind = "info_array" // Fixed-length array, requires FixedItems
	KindAny       ValueKind = "any"        // Opaque, never checked
)

// Valid reports whether k is one of the known kinds.
func (k ValueKind) Valid() bool {
	switch k {
	case KindNumber, KindInteger, KindAngle,
		KindColor, KindBoolean, KindEnumerated, KindString,
		KindFont, KindInfoArray, KindAny:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether values of this kind are numbers.
func (k ValueKind) IsNumeric() bool {
	return k == KindNumber || k == KindInteger || k == KindAngle
}

// EditType is the invalidation tier of an attribute: the amount of downstream
// work a change to its value requires.
type EditType string

const (
	EditCalc            EditType = "calc"            // Recompute everything
	EditCalcIfAutorange EditType = "calcIfAutorange" // Recompute only when autoranging
	EditPlot            EditType = "plot"            // Replot without recalculating data
	EditLegend          EditType = "legend"
	EditTicks           EditType = "ticks"
	EditAxRange         EditType = "axrange"
	EditLayoutStyle     EditType = "layoutstyle"
	EditModebar         EditType = "modebar"
	EditArrayDraw       EditType = "arraydraw"
	EditColorbars       EditType = "colorbars"
	EditNone            EditType = "none" // No recompute needed
)

// Valid reports whether e is one of the known edit types.
func (e EditType) Valid() bool {
	switch e {
	case EditCalc, EditCalcIfAutorange, EditPlot, EditLegend, EditTicks,
		EditAxRange, EditLayoutStyle, EditModebar, EditArrayDraw,
		EditColorbars, EditNone:
		return true
	default:
		return false
	}
}

// EditTypes returns every known edit type, cheapest last.
func EditTypes() []EditType {
	return []EditType{
		EditCalc, EditCalcIfAutorange, EditPlot, EditLegend, EditTicks,
		EditAxRange, EditLayoutStyle, EditModebar, EditArrayDraw,
		EditColorbars, EditNone,
	}
}

// Origin records where a spliced fragment is anchored.
// The zero value means the descriptor is used where it was declared.
type Origin string

const (
	OriginFromRoot Origin = "from-root" // Anchored at the root of the splice, root container included
	OriginNested   Origin = "nested"    // Anchored below the root container
)

// Valid reports whether o is empty or one of the known origins.
func (o Origin) Valid() bool {
	return o == "" || o == OriginFromRoot || o == OriginNested
}
