package schema

import (
	"encoding/json"
)

// Encode converts a node to the plain map form used in schema documents:
// descriptors become {valType, dflt, editType, ...} and groups become a map
// of their attributes plus editType and _deprecated.
func Encode(n Node) map[string]any {
	switch v := n.(type) {
	case Descriptor:
		return encodeDescriptor(v)
	case Group:
		return encodeGroup(v)
	default:
		return nil
	}
}

func encodeDescriptor(d Descriptor) map[string]any {
	out := map[string]any{
		"valType":  string(d.Kind),
		"editType": string(d.EditType),
	}
	if d.HasDefault() {
		out["dflt"] = d.Default
	}
	if d.Origin != "" {
		out["origin"] = string(d.Origin)
	}
	if d.Description != "" {
		out["description"] = d.Description
	}

	switch c := d.Constraints.(type) {
	case NumberRange:
		if c.Min != nil {
			out["min"] = *c.Min
		}
		if c.Max != nil {
			out["max"] = *c.Max
		}
	case EnumValues:
		out["values"] = append([]string(nil), c.Values...)
	case FixedItems:
		items := make([]map[string]any, len(c.Items))
		for i, item := range c.Items {
			items[i] = encodeDescriptor(item)
		}
		out["items"] = items
	}

	return out
}

func encodeGroup(g Group) map[string]any {
	out := make(map[string]any, len(g.Attrs)+2)
	for name, n := range g.Attrs {
		out[name] = Encode(n)
	}
	if g.EditType != "" {
		out["editType"] = string(g.EditType)
	}
	if len(g.Deprecated) > 0 {
		dep := make(map[string]any, len(g.Deprecated))
		for name, n := range g.Deprecated {
			dep[name] = Encode(n)
		}
		out["_deprecated"] = dep
	}
	return out
}

// MarshalJSON encodes the descriptor in schema document form.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(encodeDescriptor(d))
}

// MarshalJSON encodes the group in schema document form.
func (g Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(encodeGroup(g))
}

// MarshalYAML encodes the descriptor in schema document form.
func (d Descriptor) MarshalYAML() (any, error) {
	return encodeDescriptor(d), nil
}

// MarshalYAML encodes the group in schema document form.
func (g Group) MarshalYAML() (any, error) {
	return encodeGroup(g), nil
}
