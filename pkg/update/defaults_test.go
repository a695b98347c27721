package update

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formedit/pkg/schema"
)

func TestSynthesizeDefaultPriority(t *testing.T) {
	min := 5.0

	cases := []struct {
		name string
		node schema.Schema
		want any
	}{
		{
			name: "declared default wins over const and enum",
			node: schema.Schema{Kind: schema.KindString, Default: "dft", Const: "cst", Enum: []any{"enm"}},
			want: "dft",
		},
		{
			name: "const wins over enum",
			node: schema.Schema{Kind: schema.KindString, Const: "cst", Enum: []any{"enm"}},
			want: "cst",
		},
		{
			name: "first enum member",
			node: schema.Schema{Kind: schema.KindString, Enum: []any{"draft", "published"}},
			want: "draft",
		},
		{
			name: "string falls back to empty",
			node: schema.Schema{Kind: schema.KindString},
			want: "",
		},
		{
			name: "email format gets a valid placeholder",
			node: schema.Schema{Kind: schema.KindString, Format: "email"},
			want: "user@example.com",
		},
		{
			name: "number uses declared minimum",
			node: schema.Schema{Kind: schema.KindNumber, Minimum: &min},
			want: 5.0,
		},
		{
			name: "integer defaults to zero",
			node: schema.Schema{Kind: schema.KindInteger},
			want: float64(0),
		},
		{
			name: "boolean defaults to false",
			node: schema.Schema{Kind: schema.KindBoolean},
			want: false,
		},
		{
			name: "unresolvable kind yields nil",
			node: schema.Schema{},
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SynthesizeDefault(tc.node, tc.node); got != tc.want {
				t.Fatalf("SynthesizeDefault = %v (%T), want %v", got, got, tc.want)
			}
		})
	}
}

func TestSynthesizeDefaultMinLengthPlaceholder(t *testing.T) {
	one := 1
	node := schema.Schema{Kind: schema.KindString, MinLength: &one}
	got, ok := SynthesizeDefault(node, node).(string)
	if !ok || len(got) < 1 {
		t.Fatalf("minLength placeholder must be a non-empty string, got %v", got)
	}

	long := 24
	node = schema.Schema{Kind: schema.KindString, MinLength: &long}
	got, ok = SynthesizeDefault(node, node).(string)
	if !ok || len(got) < long {
		t.Fatalf("placeholder %q shorter than minLength %d", got, long)
	}
}

func TestSynthesizeDefaultObjectRecurses(t *testing.T) {
	root, err := schema.FromMap(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":   map[string]any{"type": "string"},
			"rating": map[string]any{"type": "integer", "minimum": float64(1)},
			"tags":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"nested": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"flag": map[string]any{"type": "boolean"},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}

	want := map[string]any{
		"name":   "",
		"rating": float64(1),
		"tags":   []any{},
		"nested": map[string]any{"flag": false},
	}
	if diff := cmp.Diff(any(want), SynthesizeDefault(root, root)); diff != "" {
		t.Fatalf("object synthesis mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesizeDefaultResolvesRefs(t *testing.T) {
	root, err := schema.FromMap(map[string]any{
		"$defs": map[string]any{
			"status": map[string]any{"type": "string", "enum": []any{"new", "done"}},
		},
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{"$ref": "#/$defs/status"},
		},
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	got := SynthesizeDefault(root, root)
	want := map[string]any{"status": "new"}
	if diff := cmp.Diff(any(want), got); diff != "" {
		t.Fatalf("ref synthesis mismatch (-want +got):\n%s", diff)
	}
}

// A schema that refers back to itself must terminate with nil placeholders
// instead of recursing without bound.
func TestSynthesizeDefaultSelfReferentialSchema(t *testing.T) {
	root, err := schema.FromMap(map[string]any{
		"$defs": map[string]any{
			"node": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"child": map[string]any{"$ref": "#/$defs/node"},
				},
			},
		},
		"type": "object",
		"properties": map[string]any{
			"tree": map[string]any{"$ref": "#/$defs/node"},
		},
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	value := SynthesizeDefault(root, root)
	if _, ok := value.(map[string]any); !ok {
		t.Fatalf("expected an object, got %T", value)
	}
}
