package update

import (
	"strings"

	"github.com/goliatone/go-formedit/pkg/schema"
)

// maxSynthesisDepth bounds recursion over nested object schemas. A
// self-referential schema bottoms out as nil instead of recursing forever.
const maxSynthesisDepth = 32

const stringPlaceholder = "New value"

// defaultStrategy produces a default for a normalized node, reporting
// whether it applies. Strategies are consulted in declaration order.
type defaultStrategy func(node, root schema.Schema, depth int) (any, bool)

// Populated in init: kindDefault recurses through synthesize, so a var
// initializer would form an initialization cycle.
var defaultStrategies []defaultStrategy

func init() {
	defaultStrategies = []defaultStrategy{
		declaredDefault,
		constValue,
		firstEnumMember,
		kindDefault,
	}
}

// SynthesizeDefault builds a schema-conformant placeholder value for the
// node, typically for a freshly appended array element. The node is
// normalized against root first; nodes that cannot be resolved or that
// exhaust every strategy yield nil.
func SynthesizeDefault(node, root schema.Schema) any {
	return synthesize(node, root, 0)
}

func synthesize(node, root schema.Schema, depth int) any {
	if depth >= maxSynthesisDepth {
		return nil
	}
	normalized, err := schema.Normalize(node, root)
	if err != nil {
		return nil
	}
	for _, strategy := range defaultStrategies {
		if value, ok := strategy(normalized, root, depth); ok {
			return value
		}
	}
	return nil
}

func declaredDefault(node, _ schema.Schema, _ int) (any, bool) {
	if node.Default == nil {
		return nil, false
	}
	return cloneValue(node.Default), true
}

func constValue(node, _ schema.Schema, _ int) (any, bool) {
	if node.Const == nil {
		return nil, false
	}
	return cloneValue(node.Const), true
}

func firstEnumMember(node, _ schema.Schema, _ int) (any, bool) {
	if len(node.Enum) == 0 {
		return nil, false
	}
	return cloneValue(node.Enum[0]), true
}

func kindDefault(node, root schema.Schema, depth int) (any, bool) {
	switch node.Kind {
	case schema.KindObject:
		out := make(map[string]any, len(node.Properties))
		for _, name := range node.PropertyNames() {
			out[name] = synthesize(node.Properties[name], root, depth+1)
		}
		return out, true
	case schema.KindArray:
		return []any{}, true
	case schema.KindString:
		return stringDefault(node), true
	case schema.KindNumber, schema.KindInteger:
		if node.Minimum != nil {
			return *node.Minimum, true
		}
		return float64(0), true
	case schema.KindBoolean:
		return false, true
	default:
		if len(node.Properties) > 0 {
			return kindDefault(schema.Schema{Kind: schema.KindObject, Properties: node.Properties}, root, depth)
		}
		return nil, true
	}
}

// stringDefault prefers the empty string but honors constraints a blank
// value would violate: a recognized format gets a syntactically valid
// placeholder, a positive minLength gets a non-empty one.
func stringDefault(node schema.Schema) string {
	if node.Format == "email" {
		return "user@example.com"
	}
	if node.MinLength == nil || *node.MinLength <= 0 {
		return ""
	}
	placeholder := stringPlaceholder
	for len(placeholder) < *node.MinLength {
		placeholder += strings.Repeat(".", *node.MinLength-len(placeholder))
	}
	return placeholder
}
