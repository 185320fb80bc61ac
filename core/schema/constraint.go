package schema

import (
	"fmt"
	"math"
)

// Constraints restricts the legal values of a descriptor.
// Implementations are NumberRange, EnumValues and FixedItems.
type Constraints interface {
	// kinds lists the value kinds the constraint may be attached to.
	kinds() []ValueKind
	clone() Constraints
}

// NumberRange bounds a numeric value. Nil bounds are open.
type NumberRange struct {
	Min *float64
	Max *float64
}

func (NumberRange) kinds() []ValueKind {
	return []ValueKind{KindNumber, KindInteger, KindAngle}
}

func (r NumberRange) clone() Constraints {
	out := NumberRange{}
	if r.Min != nil {
		v := *r.Min
		out.Min = &v
	}
	if r.Max != nil {
		v := *r.Max
		out.Max = &v
	}
	return out
}

// Contains reports whether v lies within the range. NaN lies in no range.
func (r NumberRange) Contains(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

func (r NumberRange) String() string {
	switch {
	case r.Min != nil && r.Max != nil:
		return fmt.Sprintf("[%v, %v]", *r.Min, *r.Max)
	case r.Min != nil:
		return fmt.Sprintf(">= %v", *r.Min)
	case r.Max != nil:
		return fmt.Sprintf("<= %v", *r.Max)
	default:
		return "any"
	}
}

// Between returns a closed range.
func Between(min, max float64) NumberRange {
	return NumberRange{Min: &min, Max: &max}
}

// AtLeast returns a range bounded below.
func AtLeast(min float64) NumberRange {
	return NumberRange{Min: &min}
}

// EnumValues lists the allowed values of an enumerated attribute.
type EnumValues struct {
	Values []string
}

func (EnumValues) kinds() []ValueKind {
	return []ValueKind{KindEnumerated}
}

func (e EnumValues) clone() Constraints {
	return EnumValues{Values: append([]string(nil), e.Values...)}
}

// Has reports whether s is an allowed value.
func (e EnumValues) Has(s string) bool {
	for _, v := range e.Values {
		if v == s {
			return true
		}
	}
	return false
}

// OneOf returns the allowed-value constraint for an enumerated attribute.
func OneOf(values ...string) EnumValues {
	return EnumValues{Values: values}
}

// FixedItems describes each position of an info_array attribute.
type FixedItems struct {
	Items []Descriptor
}

func (FixedItems) kinds() []ValueKind {
	return []ValueKind{KindInfoArray}
}

func (f FixedItems) clone() Constraints {
	items := make([]Descriptor, len(f.Items))
	for i, item := range f.Items {
		items[i] = item.clone()
	}
	return FixedItems{Items: items}
}

// ItemsOf returns the fixed-shape constraint for an info_array attribute.
func ItemsOf(items ...Descriptor) FixedItems {
	return FixedItems{Items: items}
}

// allows reports whether c may be attached to a descriptor of kind k.
func allows(c Constraints, k ValueKind) bool {
	for _, allowed := range c.kinds() {
		if allowed == k {
			return true
		}
	}
	return false
}
