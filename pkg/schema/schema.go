// Package schema defines the schema node consumed by the form-edit
// pipeline, parses JSON Schema documents into it, and implements the
// traversal primitives everything else builds on: normalization of
// indirection ($ref, anyOf/oneOf, allOf), path resolution, and allow-list
// derivation.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind enumerates the primitive schema kinds. The empty string marks a
// node whose kind is not declared (composition-only or bare object).
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindNull    Kind = "null"
)

// Schema is the typed schema node. Composition keywords (Ref, AnyOf,
// OneOf, AllOf) survive parsing untouched; Normalize collapses them into a
// concrete node on demand.
type Schema struct {
	Ref         string
	Kind        Kind
	Title       string
	Description string
	Format      string
	Default     any
	Const       any
	Enum        []any
	Required    []string
	Properties  map[string]Schema
	Items       *Schema
	AnyOf       []Schema
	OneOf       []Schema
	AllOf       []Schema
	Defs        map[string]Schema
	Minimum     *float64
	Maximum     *float64
	MinLength   *int
	MaxLength   *int
	Pattern     string
}

// IsZero reports whether the node carries no schema information at all.
func (s Schema) IsZero() bool {
	return s.Ref == "" && s.Kind == "" && len(s.Properties) == 0 && s.Items == nil &&
		len(s.AnyOf) == 0 && len(s.OneOf) == 0 && len(s.AllOf) == 0 &&
		len(s.Enum) == 0 && s.Const == nil && s.Default == nil
}

// PropertyNames returns the declared property names in the deterministic
// order used by every traversal in this module.
func (s Schema) PropertyNames() []string {
	if len(s.Properties) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseBytes decodes a schema document into the typed node. JSON documents
// are decoded with encoding/json; anything else falls back to YAML.
func ParseBytes(raw []byte) (Schema, error) {
	if len(raw) == 0 {
		return Schema{}, fmt.Errorf("schema: document is empty")
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		if yamlErr := yaml.Unmarshal(raw, &payload); yamlErr != nil {
			return Schema{}, fmt.Errorf("schema: parse document: %w", err)
		}
	}
	return FromMap(payload)
}

// FromMap converts a decoded JSON Schema payload into the typed node.
// Unknown keywords are ignored so documents written for richer dialects
// still parse; keywords this module understands must be well-formed.
func FromMap(payload map[string]any) (Schema, error) {
	return fromMapAt(payload, "#")
}

func fromMapAt(payload map[string]any, at string) (Schema, error) {
	if payload == nil {
		return Schema{}, fmt.Errorf("schema: node is nil at %s", at)
	}

	out := Schema{
		Ref:         strings.TrimSpace(readString(payload, "$ref")),
		Title:       strings.TrimSpace(readString(payload, "title")),
		Description: strings.TrimSpace(readString(payload, "description")),
		Format:      strings.TrimSpace(readString(payload, "format")),
		Default:     payload["default"],
		Const:       payload["const"],
		Pattern:     readString(payload, "pattern"),
	}

	kind, err := kindFrom(payload, at)
	if err != nil {
		return Schema{}, err
	}
	out.Kind = kind

	if enumRaw, ok := payload["enum"]; ok {
		list, ok := enumRaw.([]any)
		if !ok {
			return Schema{}, fmt.Errorf("schema: enum must be an array at %s", at)
		}
		out.Enum = append([]any(nil), list...)
	}

	if requiredRaw, ok := payload["required"]; ok {
		list, ok := requiredRaw.([]any)
		if !ok {
			return Schema{}, fmt.Errorf("schema: required must be an array at %s", at)
		}
		required := make([]string, 0, len(list))
		for idx, item := range list {
			name, ok := item.(string)
			if !ok || strings.TrimSpace(name) == "" {
				return Schema{}, fmt.Errorf("schema: required[%d] must be a string at %s", idx, at)
			}
			required = append(required, name)
		}
		out.Required = required
	}

	if minRaw, ok := payload["minimum"]; ok {
		value, ok := toFloat(minRaw)
		if !ok {
			return Schema{}, fmt.Errorf("schema: minimum must be a number at %s", at)
		}
		out.Minimum = &value
	}
	if maxRaw, ok := payload["maximum"]; ok {
		value, ok := toFloat(maxRaw)
		if !ok {
			return Schema{}, fmt.Errorf("schema: maximum must be a number at %s", at)
		}
		out.Maximum = &value
	}
	if minLenRaw, ok := payload["minLength"]; ok {
		value, ok := toInt(minLenRaw)
		if !ok {
			return Schema{}, fmt.Errorf("schema: minLength must be an integer at %s", at)
		}
		out.MinLength = &value
	}
	if maxLenRaw, ok := payload["maxLength"]; ok {
		value, ok := toInt(maxLenRaw)
		if !ok {
			return Schema{}, fmt.Errorf("schema: maxLength must be an integer at %s", at)
		}
		out.MaxLength = &value
	}

	if propsRaw, ok := payload["properties"]; ok {
		props, ok := propsRaw.(map[string]any)
		if !ok {
			return Schema{}, fmt.Errorf("schema: properties must be an object at %s", at)
		}
		out.Properties = make(map[string]Schema, len(props))
		for _, name := range sortedKeys(props) {
			child, err := childMapAt(props[name], joinAt(at, "properties", name))
			if err != nil {
				return Schema{}, err
			}
			out.Properties[name] = child
		}
	}

	if defsRaw, ok := payload["$defs"]; ok {
		defs, ok := defsRaw.(map[string]any)
		if !ok {
			return Schema{}, fmt.Errorf("schema: $defs must be an object at %s", at)
		}
		out.Defs = make(map[string]Schema, len(defs))
		for _, name := range sortedKeys(defs) {
			child, err := childMapAt(defs[name], joinAt(at, "$defs", name))
			if err != nil {
				return Schema{}, err
			}
			out.Defs[name] = child
		}
	}

	if itemsRaw, ok := payload["items"]; ok {
		switch typed := itemsRaw.(type) {
		case map[string]any:
			child, err := fromMapAt(typed, joinAt(at, "items"))
			if err != nil {
				return Schema{}, err
			}
			out.Items = &child
		case []any:
			return Schema{}, fmt.Errorf("schema: tuple items are not supported at %s", at)
		default:
			return Schema{}, fmt.Errorf("schema: items must be an object at %s", at)
		}
	}

	for _, keyword := range []string{"anyOf", "oneOf", "allOf"} {
		raw, ok := payload[keyword]
		if !ok {
			continue
		}
		list, ok := raw.([]any)
		if !ok {
			return Schema{}, fmt.Errorf("schema: %s must be an array at %s", keyword, at)
		}
		if len(list) == 0 {
			return Schema{}, fmt.Errorf("schema: %s must include at least one schema at %s", keyword, at)
		}
		branches := make([]Schema, 0, len(list))
		for idx, entry := range list {
			child, err := childMapAt(entry, joinAt(at, keyword, fmt.Sprintf("%d", idx)))
			if err != nil {
				return Schema{}, err
			}
			branches = append(branches, child)
		}
		switch keyword {
		case "anyOf":
			out.AnyOf = branches
		case "oneOf":
			out.OneOf = branches
		case "allOf":
			out.AllOf = branches
		}
	}

	return out, nil
}

func childMapAt(raw any, at string) (Schema, error) {
	payload, ok := raw.(map[string]any)
	if !ok {
		return Schema{}, fmt.Errorf("schema: node must be an object at %s", at)
	}
	return fromMapAt(payload, at)
}

// kindFrom reads the "type" keyword. Lists are accepted for nullable
// declarations: a single-entry "null" list is the null kind, otherwise the
// first non-null entry wins.
func kindFrom(payload map[string]any, at string) (Kind, error) {
	raw, ok := payload["type"]
	if !ok {
		return "", nil
	}
	switch typed := raw.(type) {
	case string:
		return checkedKind(typed, at)
	case []any:
		if len(typed) == 0 {
			return "", fmt.Errorf("schema: type list is empty at %s", at)
		}
		var first Kind
		for _, entry := range typed {
			name, ok := entry.(string)
			if !ok {
				return "", fmt.Errorf("schema: type list entries must be strings at %s", at)
			}
			kind, err := checkedKind(name, at)
			if err != nil {
				return "", err
			}
			if kind != KindNull && first == "" {
				first = kind
			}
		}
		if first == "" {
			return KindNull, nil
		}
		return first, nil
	default:
		return "", fmt.Errorf("schema: type must be a string at %s", at)
	}
}

func checkedKind(value, at string) (Kind, error) {
	switch Kind(value) {
	case KindString, KindNumber, KindInteger, KindBoolean, KindObject, KindArray, KindNull:
		return Kind(value), nil
	default:
		return "", fmt.Errorf("schema: unsupported type %q at %s", value, at)
	}
}

func readString(payload map[string]any, key string) string {
	value, ok := payload[key]
	if !ok {
		return ""
	}
	str, ok := value.(string)
	if !ok {
		return ""
	}
	return str
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
		return 0, false
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

func sortedKeys(payload map[string]any) []string {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func joinAt(at string, segments ...string) string {
	for _, segment := range segments {
		at = at + "/" + segment
	}
	return at
}
