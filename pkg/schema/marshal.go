package schema

import "encoding/json"

// ToMap renders the node back into a JSON Schema payload suitable for the
// wire. Only keywords this module parses are emitted.
func (s Schema) ToMap() map[string]any {
	out := make(map[string]any)
	if s.Ref != "" {
		out["$ref"] = s.Ref
	}
	if s.Kind != "" {
		out["type"] = string(s.Kind)
	}
	if s.Title != "" {
		out["title"] = s.Title
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Format != "" {
		out["format"] = s.Format
	}
	if s.Default != nil {
		out["default"] = s.Default
	}
	if s.Const != nil {
		out["const"] = s.Const
	}
	if len(s.Enum) > 0 {
		out["enum"] = append([]any(nil), s.Enum...)
	}
	if len(s.Required) > 0 {
		out["required"] = append([]string(nil), s.Required...)
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, child := range s.Properties {
			props[name] = child.ToMap()
		}
		out["properties"] = props
	}
	if len(s.Defs) > 0 {
		defs := make(map[string]any, len(s.Defs))
		for name, child := range s.Defs {
			defs[name] = child.ToMap()
		}
		out["$defs"] = defs
	}
	if s.Items != nil {
		out["items"] = s.Items.ToMap()
	}
	if len(s.AnyOf) > 0 {
		out["anyOf"] = branchMaps(s.AnyOf)
	}
	if len(s.OneOf) > 0 {
		out["oneOf"] = branchMaps(s.OneOf)
	}
	if len(s.AllOf) > 0 {
		out["allOf"] = branchMaps(s.AllOf)
	}
	if s.Minimum != nil {
		out["minimum"] = *s.Minimum
	}
	if s.Maximum != nil {
		out["maximum"] = *s.Maximum
	}
	if s.MinLength != nil {
		out["minLength"] = *s.MinLength
	}
	if s.MaxLength != nil {
		out["maxLength"] = *s.MaxLength
	}
	if s.Pattern != "" {
		out["pattern"] = s.Pattern
	}
	return out
}

func branchMaps(branches []Schema) []any {
	out := make([]any, 0, len(branches))
	for _, branch := range branches {
		out = append(out, branch.ToMap())
	}
	return out
}

// MarshalJSON emits the JSON Schema payload form of the node.
func (s Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToMap())
}

// UnmarshalJSON parses a JSON Schema payload into the node.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	parsed, err := FromMap(payload)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
