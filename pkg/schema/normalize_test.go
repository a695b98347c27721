package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustFromMap(t *testing.T, payload map[string]any) Schema {
	t.Helper()
	parsed, err := FromMap(payload)
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	return parsed
}

func TestNormalizeResolvesRefChains(t *testing.T) {
	root := mustFromMap(t, map[string]any{
		"$defs": map[string]any{
			"name":  map[string]any{"type": "string", "minLength": float64(1)},
			"alias": map[string]any{"$ref": "#/$defs/name"},
		},
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"$ref": "#/$defs/alias"},
		},
	})

	node, err := Normalize(root.Properties["name"], root)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if node.Kind != KindString {
		t.Fatalf("kind = %q, want string", node.Kind)
	}
	if node.MinLength == nil || *node.MinLength != 1 {
		t.Fatalf("minLength not carried through ref chain: %+v", node)
	}
}

func TestNormalizePicksFirstNonNullUnionBranch(t *testing.T) {
	for _, keyword := range []string{"anyOf", "oneOf"} {
		node := mustFromMap(t, map[string]any{
			keyword: []any{
				map[string]any{"type": "null"},
				map[string]any{"type": "integer"},
				map[string]any{"type": "string"},
			},
		})
		resolved, err := Normalize(node, node)
		if err != nil {
			t.Fatalf("Normalize(%s): %v", keyword, err)
		}
		if resolved.Kind != KindInteger {
			t.Fatalf("Normalize(%s) picked %q, want integer", keyword, resolved.Kind)
		}
	}
}

func TestNormalizeRejectsNullOnlyUnion(t *testing.T) {
	node := mustFromMap(t, map[string]any{
		"anyOf": []any{map[string]any{"type": "null"}},
	})
	_, err := Normalize(node, node)
	var unionErr *UnionError
	if !errors.As(err, &unionErr) {
		t.Fatalf("expected *UnionError, got %v", err)
	}
}

func TestNormalizeTakesFirstAllOfMember(t *testing.T) {
	node := mustFromMap(t, map[string]any{
		"allOf": []any{
			map[string]any{"type": "object", "properties": map[string]any{"a": map[string]any{"type": "string"}}},
			map[string]any{"type": "object", "properties": map[string]any{"b": map[string]any{"type": "string"}}},
		},
	})
	resolved, err := Normalize(node, node)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if _, ok := resolved.Properties["a"]; !ok {
		t.Fatalf("expected first allOf member, got %+v", resolved)
	}
	if _, ok := resolved.Properties["b"]; ok {
		t.Fatal("allOf members must not be merged")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	root := mustFromMap(t, map[string]any{
		"$defs": map[string]any{
			"age": map[string]any{"type": "integer", "minimum": float64(0)},
		},
		"type": "object",
		"properties": map[string]any{
			"age": map[string]any{"$ref": "#/$defs/age"},
			"nickname": map[string]any{
				"anyOf": []any{
					map[string]any{"type": "null"},
					map[string]any{"type": "string"},
				},
			},
		},
	})

	for name, child := range root.Properties {
		once, err := Normalize(child, root)
		if err != nil {
			t.Fatalf("Normalize(%s): %v", name, err)
		}
		twice, err := Normalize(once, root)
		if err != nil {
			t.Fatalf("Normalize(Normalize(%s)): %v", name, err)
		}
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Fatalf("Normalize(%s) not idempotent (-once +twice):\n%s", name, diff)
		}
	}
}

func TestNormalizeUnresolvableRef(t *testing.T) {
	root := mustFromMap(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"ghost": map[string]any{"$ref": "#/$defs/missing"},
		},
	})
	_, err := Normalize(root.Properties["ghost"], root)
	var refErr *RefError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected *RefError, got %v", err)
	}
}

func TestNormalizeCyclicRefFails(t *testing.T) {
	root := mustFromMap(t, map[string]any{
		"$defs": map[string]any{
			"a": map[string]any{"$ref": "#/$defs/b"},
			"b": map[string]any{"$ref": "#/$defs/a"},
		},
		"type": "object",
		"properties": map[string]any{
			"loop": map[string]any{"$ref": "#/$defs/a"},
		},
	})
	_, err := Normalize(root.Properties["loop"], root)
	var refErr *RefError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected *RefError for cyclic chain, got %v", err)
	}
}

func TestNormalizePointerIntoProperties(t *testing.T) {
	root := mustFromMap(t, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"address": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"zip": map[string]any{"type": "string"},
				},
			},
			"shippingZip": map[string]any{"$ref": "#/properties/address/properties/zip"},
		},
	})
	node, err := Normalize(root.Properties["shippingZip"], root)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if node.Kind != KindString {
		t.Fatalf("kind = %q, want string", node.Kind)
	}
}
