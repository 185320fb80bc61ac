package validation

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ConstraintError represents a validation failure at one attribute path.
type ConstraintError struct {
	Field      string `json:"field" yaml:"field"`
	Constraint string `json:"constraint" yaml:"constraint"`
	Value      any    `json:"value,omitempty" yaml:"value,omitempty"`
	Message    string `json:"message" yaml:"message"`
}

func (e ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning is a non-fatal finding, such as the use of a deprecated attribute.
type Warning struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

// ValidationResult holds all validation findings for one layout.
type ValidationResult struct {
	Valid    bool              `json:"valid" yaml:"valid"`
	Errors   []ConstraintError `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []Warning         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// AddError adds a validation error.
func (r *ValidationResult) AddError(field, constraint string, value any, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ConstraintError{
		Field:      field,
		Constraint: constraint,
		Value:      encodable(value),
		Message:    message,
	})
}

// encodable replaces NaN and infinite floats in v by their text so the
// result always encodes as JSON.
func encodable(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Sprint(x)
		}
	case float32:
		return encodable(float64(x))
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = encodable(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = encodable(item)
		}
		return out
	}
	return v
}

// AddWarning adds a warning. It does not change Valid.
func (r *ValidationResult) AddWarning(field, message string) {
	r.Warnings = append(r.Warnings, Warning{Field: field, Message: message})
}

// Error returns a combined error message.
func (r ValidationResult) Error() string {
	if r.Valid {
		return ""
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// sort orders findings by field so results are stable across runs.
func (r *ValidationResult) sort() {
	sort.SliceStable(r.Errors, func(i, j int) bool { return r.Errors[i].Field < r.Errors[j].Field })
	sort.SliceStable(r.Warnings, func(i, j int) bool { return r.Warnings[i].Field < r.Warnings[j].Field })
}
