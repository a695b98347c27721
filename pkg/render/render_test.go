package render

import (
	"testing"

	"github.com/goliatone/go-formedit/pkg/formspec"
	"github.com/goliatone/go-formedit/pkg/schema"
)

func projectSpec(t *testing.T, options ...formspec.Option) *formspec.Spec {
	t.Helper()
	full, err := schema.FromMap(map[string]any{
		"type":  "object",
		"title": "Project",
		"properties": map[string]any{
			"name":   map[string]any{"type": "string"},
			"budget": map[string]any{"type": "number"},
			"owner": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"fullName": map[string]any{"type": "string"},
				},
			},
			"milestones": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"label": map[string]any{"type": "string"},
						"done":  map[string]any{"type": "boolean"},
					},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	spec, err := formspec.New("Project", full, formspec.Action{Method: "PUT", URL: "/api/projects/1"}, options...)
	if err != nil {
		t.Fatalf("formspec.New: %v", err)
	}
	return spec
}

func fieldPaths(fields []Field) []string {
	var out []string
	for _, field := range fields {
		out = append(out, field.Path.String())
		out = append(out, fieldPaths(field.Children)...)
	}
	return out
}

func TestResolveTraversalOrderMatchesDeriver(t *testing.T) {
	entity := map[string]any{
		"name":   "Apollo",
		"budget": float64(10),
		"owner":  map[string]any{"fullName": "Ada"},
		"milestones": []any{
			map[string]any{"label": "design", "done": true},
			map[string]any{"label": "build", "done": false},
		},
	}

	fields, err := Resolve(projectSpec(t), entity)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := []string{
		"budget",
		"milestones",
		"milestones[0]",
		"milestones[0].done",
		"milestones[0].label",
		"milestones[1]",
		"milestones[1].done",
		"milestones[1].label",
		"name",
		"owner",
		"owner.fullName",
	}
	got := fieldPaths(fields)
	if len(got) != len(want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("path[%d] = %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestResolveMarksEditability(t *testing.T) {
	update, err := schema.FromMap(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"milestones": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"done": map[string]any{"type": "boolean"},
					},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}

	entity := map[string]any{
		"name":       "Apollo",
		"milestones": []any{map[string]any{"label": "design", "done": false}},
	}
	fields, err := Resolve(projectSpec(t, formspec.WithUpdateSchema(update)), entity)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	editable := map[string]bool{}
	var walk func([]Field)
	walk = func(fields []Field) {
		for _, field := range fields {
			editable[field.Path.String()] = field.Editable
			walk(field.Children)
		}
	}
	walk(fields)

	if editable["budget"] {
		t.Fatal("budget must be read-only")
	}
	if !editable["name"] {
		t.Fatal("name must be editable")
	}
	if !editable["milestones"] {
		t.Fatal("milestones array must be editable")
	}
	if !editable["milestones[0].done"] {
		t.Fatal("milestones[0].done must be editable")
	}
	if editable["milestones[0].label"] {
		t.Fatal("milestones[0].label must be read-only")
	}
}

func TestResolveMissingValuesYieldNil(t *testing.T) {
	fields, err := Resolve(projectSpec(t), map[string]any{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for _, field := range fields {
		if field.Path.String() == "name" && field.Value != nil {
			t.Fatalf("missing name should resolve to nil, got %v", field.Value)
		}
	}
}
