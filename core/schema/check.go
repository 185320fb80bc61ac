package schema

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// reservedNames cannot be used as attribute names because the encoded
// schema uses them for group metadata.
var reservedNames = map[string]bool{
	"editType":    true,
	"_deprecated": true,
}

// ValueError describes why a value is not legal for a descriptor.
type ValueError struct {
	// Constraint names the violated rule: kind, min, max, values, items.
	Constraint string
	Message    string
}

func (e *ValueError) Error() string {
	return e.Message
}

// CheckValue checks v against the kind and constraints of d.
// A nil v is always accepted; absence is handled by defaults.
func CheckValue(d Descriptor, v any) *ValueError {
	if v == nil {
		return nil
	}

	switch d.Kind {
	case KindNumber, KindAngle:
		f, ok := ToFloat64(v)
		if !ok {
			return &ValueError{Constraint: "kind", Message: "must be a number"}
		}
		if !isFinite(f) {
			return &ValueError{Constraint: "kind", Message: "must be a finite number"}
		}
		return checkRange(d, f)
	case KindInteger:
		if f, ok := ToFloat64(v); ok && !isFinite(f) {
			return &ValueError{Constraint: "kind", Message: "must be a finite integer"}
		}
		if !IsIntegral(v) {
			return &ValueError{Constraint: "kind", Message: "must be an integer"}
		}
		f, _ := ToFloat64(v)
		return checkRange(d, f)
	case KindBoolean:
		if _, ok := v.(bool); !ok {
			return &ValueError{Constraint: "kind", Message: "must be a boolean"}
		}
	case KindString:
		if _, ok := v.(string); !ok {
			return &ValueError{Constraint: "kind", Message: "must be a string"}
		}
	case KindColor:
		s, ok := v.(string)
		if !ok {
			return &ValueError{Constraint: "kind", Message: "must be a color string"}
		}
		if _, _, err := ParseColor(s); err != nil {
			return &ValueError{Constraint: "kind", Message: err.Error()}
		}
	case KindEnumerated:
		s, ok := v.(string)
		if !ok {
			return &ValueError{Constraint: "kind", Message: "must be a string"}
		}
		if !OneOf(d.Values()...).Has(s) {
			return &ValueError{
				Constraint: "values",
				Message:    fmt.Sprintf("must be one of: %s", quoteAll(d.Values())),
			}
		}
	case KindFont:
		return checkFont(v)
	case KindInfoArray:
		return checkItems(d, v)
	case KindAny:
		return nil
	default:
		return &ValueError{Constraint: "kind", Message: fmt.Sprintf("unknown kind %q", d.Kind)}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func checkRange(d Descriptor, f float64) *ValueError {
	r, ok := d.Range()
	if !ok {
		return nil
	}
	if r.Min != nil && f < *r.Min {
		return &ValueError{Constraint: "min", Message: fmt.Sprintf("must be at least %v", *r.Min)}
	}
	if r.Max != nil && f > *r.Max {
		return &ValueError{Constraint: "max", Message: fmt.Sprintf("must be at most %v", *r.Max)}
	}
	return nil
}

func checkFont(v any) *ValueError {
	switch f := v.(type) {
	case Font:
		if f.Size != 0 && (!isFinite(f.Size) || f.Size < 1) {
			return &ValueError{Constraint: "min", Message: "font size must be at least 1"}
		}
		if f.Color != "" && !IsColor(f.Color) {
			return &ValueError{Constraint: "kind", Message: fmt.Sprintf("font color %q is not a color", f.Color)}
		}
		return nil
	case map[string]any:
		for key, val := range f {
			switch key {
			case "family":
				if _, ok := val.(string); !ok {
					return &ValueError{Constraint: "kind", Message: "font family must be a string"}
				}
			case "size":
				size, ok := ToFloat64(val)
				if !ok {
					return &ValueError{Constraint: "kind", Message: "font size must be a number"}
				}
				if !isFinite(size) {
					return &ValueError{Constraint: "kind", Message: "font size must be a finite number"}
				}
				if size < 1 {
					return &ValueError{Constraint: "min", Message: "font size must be at least 1"}
				}
			case "color":
				if !IsColor(val) {
					return &ValueError{Constraint: "kind", Message: "font color must be a color string"}
				}
			default:
				return &ValueError{Constraint: "kind", Message: fmt.Sprintf("unknown font key %q", key)}
			}
		}
		return nil
	default:
		return &ValueError{Constraint: "kind", Message: "must be a font object"}
	}
}

func checkItems(d Descriptor, v any) *ValueError {
	values, ok := asSlice(v)
	if !ok {
		return &ValueError{Constraint: "kind", Message: "must be an array"}
	}
	items := d.Items()
	if len(values) != len(items) {
		return &ValueError{
			Constraint: "items",
			Message:    fmt.Sprintf("must have exactly %d items, got %d", len(items), len(values)),
		}
	}
	for i, item := range items {
		if err := CheckValue(item, values[i]); err != nil {
			return &ValueError{
				Constraint: err.Constraint,
				Message:    fmt.Sprintf("item %d: %s", i, err.Message),
			}
		}
	}
	return nil
}

// asSlice converts the slice types used for info_array values to []any.
func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []float64:
		out := make([]any, len(s))
		for i, f := range s {
			out[i] = f
		}
		return out, true
	case []int:
		out := make([]any, len(s))
		for i, n := range s {
			out[i] = n
		}
		return out, true
	case []string:
		out := make([]any, len(s))
		for i, str := range s {
			out[i] = str
		}
		return out, true
	default:
		return nil, false
	}
}

// Check reports every authoring defect in g as a single error:
// unknown kinds or edit types, constraints that do not match their kind,
// defaults that do not satisfy their descriptor, and invalid names.
// A nil error means g is well formed.
func Check(g Group) error {
	var errs []string
	checkGroup("", g, &errs)

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func checkGroup(prefix string, g Group, errs *[]string) {
	if g.EditType != "" && !g.EditType.Valid() {
		*errs = append(*errs, fmt.Sprintf("%s: unknown editType %q", displayPath(prefix), g.EditType))
	}

	for name, n := range g.Attrs {
		checkNode(prefix, name, n, errs)
	}
	for name, n := range g.Deprecated {
		checkNode(joinPath(prefix, "_deprecated"), name, n, errs)
	}
}

func checkNode(prefix, name string, n Node, errs *[]string) {
	path := joinPath(prefix, name)
	if !isValidIdentifier(name) || reservedNames[name] {
		*errs = append(*errs, fmt.Sprintf("%s: %q is not a valid attribute name", displayPath(prefix), name))
	}

	switch v := n.(type) {
	case Descriptor:
		for _, msg := range checkDescriptor(v) {
			*errs = append(*errs, path+": "+msg)
		}
	case Group:
		checkGroup(path, v, errs)
	default:
		*errs = append(*errs, fmt.Sprintf("%s: unsupported node %T", path, n))
	}
}

func checkDescriptor(d Descriptor) []string {
	var msgs []string

	if !d.Kind.Valid() {
		return []string{fmt.Sprintf("unknown kind %q", d.Kind)}
	}
	if d.EditType == "" {
		msgs = append(msgs, "editType is required")
	} else if !d.EditType.Valid() {
		msgs = append(msgs, fmt.Sprintf("unknown editType %q", d.EditType))
	}
	if !d.Origin.Valid() {
		msgs = append(msgs, fmt.Sprintf("unknown origin %q", d.Origin))
	}

	switch {
	case d.Constraints != nil && !allows(d.Constraints, d.Kind):
		msgs = append(msgs, fmt.Sprintf("%T constraints are not valid for kind %s", d.Constraints, d.Kind))
		return msgs
	case d.Kind == KindEnumerated && len(d.Values()) == 0:
		msgs = append(msgs, "enumerated kind requires values")
		return msgs
	case d.Kind == KindInfoArray && len(d.Items()) == 0:
		msgs = append(msgs, "info_array kind requires items")
		return msgs
	}

	if r, ok := d.Range(); ok && r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		msgs = append(msgs, fmt.Sprintf("min %v is greater than max %v", *r.Min, *r.Max))
	}
	for i, item := range d.Items() {
		if item.Kind == KindInfoArray {
			msgs = append(msgs, fmt.Sprintf("item %d: nested info_array is not supported", i))
			continue
		}
		for _, msg := range checkDescriptor(item) {
			msgs = append(msgs, fmt.Sprintf("item %d: %s", i, msg))
		}
	}

	if d.HasDefault() {
		if err := CheckValue(d, d.Default); err != nil {
			msgs = append(msgs, fmt.Sprintf("default %v: %s", d.Default, err.Message))
		}
	}

	return msgs
}

// isValidIdentifier checks if a string is a valid attribute name.
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, c := range s {
		if i == 0 {
			if !isLetter(c) && c != '_' {
				return false
			}
		} else {
			if !isLetter(c) && !isDigit(c) && c != '_' {
				return false
			}
		}
	}

	return true
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
