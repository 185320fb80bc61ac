// Package validation checks user-supplied layout values against published
// schemas and fills in defaults. Schemas describe legal values; this package
// is the layer that enforces them.
package validation

import (
	"fmt"

	"github.com/artpar/chartschema/core/schema"
)

// Source resolves a schema by name. *registry.Registry implements it.
type Source interface {
	Get(name string) (schema.Group, error)
}

// Validator validates layouts against the schemas of a Source.
type Validator struct {
	source Source
}

// New creates a validator reading schemas from source.
func New(source Source) *Validator {
	return &Validator{source: source}
}

// Validate validates a layout against the named schema.
func (v *Validator) Validate(schemaName string, layout map[string]any) ValidationResult {
	g, err := v.source.Get(schemaName)
	if err != nil {
		result := ValidationResult{Valid: true}
		result.AddError("_schema", "unknown", schemaName, err.Error())
		return result
	}
	return Validate(g, layout)
}

// Resolve fills the defaults of the named schema into layout.
func (v *Validator) Resolve(schemaName string, layout map[string]any) (map[string]any, error) {
	g, err := v.source.Get(schemaName)
	if err != nil {
		return nil, err
	}
	return Resolve(g, layout), nil
}

// Validate checks every value of layout against g.
//
// Unknown attributes are errors (strict mode). Deprecated attributes are
// accepted with a warning. Null values are accepted and mean "use the default".
func Validate(g schema.Group, layout map[string]any) ValidationResult {
	result := ValidationResult{Valid: true}
	validateGroup(&result, "", g, layout)
	result.sort()
	return result
}

func validateGroup(result *ValidationResult, prefix string, g schema.Group, values map[string]any) {
	for key, value := range values {
		path := joinPath(prefix, key)

		if n, ok := g.Attrs[key]; ok {
			validateNode(result, path, n, value)
			continue
		}
		if n, ok := g.Deprecated[key]; ok {
			result.AddWarning(path, fmt.Sprintf("'%s' is deprecated", path))
			validateNode(result, path, n, value)
			continue
		}
		result.AddError(path, "unknown_field", key,
			fmt.Sprintf("unknown attribute '%s' - not defined in schema", path))
	}
}

func validateNode(result *ValidationResult, path string, n schema.Node, value any) {
	switch node := n.(type) {
	case schema.Descriptor:
		ValidateValue(result, path, node, value)
	case schema.Group:
		if value == nil {
			return
		}
		sub, ok := asMap(value)
		if !ok {
			result.AddError(path, "kind", value, "must be an object")
			return
		}
		validateGroup(result, path, node, sub)
	}
}

// ValidateValue checks one value against its descriptor and records any
// failure under path.
func ValidateValue(result *ValidationResult, path string, d schema.Descriptor, value any) {
	if err := schema.CheckValue(d, value); err != nil {
		result.AddError(path, err.Constraint, value, err.Message)
	}
}

// Resolve returns a new layout holding every value of layout plus the
// default of every attribute layout leaves unset or null. Unknown attributes
// are dropped; deprecated ones are kept as given. Neither input is modified.
//
// Attributes with no default stay unset. Groups with no resulting values are
// omitted.
func Resolve(g schema.Group, layout map[string]any) map[string]any {
	out := make(map[string]any, len(g.Attrs))

	for key, n := range g.Attrs {
		value := layout[key]
		switch node := n.(type) {
		case schema.Descriptor:
			if value != nil {
				out[key] = schema.CloneValue(value)
			} else if node.HasDefault() {
				out[key] = schema.CloneValue(node.Default)
			}
		case schema.Group:
			sub, _ := asMap(value)
			if resolved := Resolve(node, sub); len(resolved) > 0 {
				out[key] = resolved
			}
		}
	}
	for key := range g.Deprecated {
		if value, ok := layout[key]; ok && value != nil {
			out[key] = schema.CloneValue(value)
		}
	}

	return out
}

// asMap accepts the map shapes produced by encoding/json and yaml.v3.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[s] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
