// Package render resolves a form specification plus an entity snapshot
// into the (path, schema node, value, editable) fields a renderer consumes.
// The traversal order matches the allow-list deriver exactly so
// editability lines up positionally; the visual layer itself lives outside
// this module behind the Renderer interface.
package render

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formedit/pkg/fieldpath"
	"github.com/goliatone/go-formedit/pkg/formspec"
	"github.com/goliatone/go-formedit/pkg/schema"
)

// Field is a resolved form control or container. Containers (objects and
// arrays) carry their children; leaves carry the current value.
type Field struct {
	Path     fieldpath.Path
	Schema   schema.Schema
	Value    any
	Editable bool
	Children []Field
}

// Renderer turns resolved fields into a concrete UI payload. It is an
// external collaborator; this module ships no implementation.
type Renderer interface {
	Render(ctx context.Context, spec *formspec.Spec, fields []Field) ([]byte, error)
}

// Resolve walks the specification's schema alongside the entity snapshot
// and produces the resolved field tree for the whole form.
func Resolve(spec *formspec.Spec, entity any) ([]Field, error) {
	root, err := schema.Normalize(spec.Schema(), spec.Schema())
	if err != nil {
		return nil, err
	}
	return objectFields(root, spec.Schema(), entity, fieldpath.Path{}, spec.Allow())
}

func objectFields(node, root schema.Schema, value any, prefix fieldpath.Path, allow schema.AllowSet) ([]Field, error) {
	entity, _ := value.(map[string]any)
	names := node.PropertyNames()
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		child, err := schema.Normalize(node.Properties[name], root)
		if err != nil {
			return nil, err
		}
		var current any
		if entity != nil {
			current = entity[name]
		}
		field, err := resolveField(child, root, current, prefix.Child(name), allow)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func resolveField(node, root schema.Schema, value any, path fieldpath.Path, allow schema.AllowSet) (Field, error) {
	field := Field{
		Path:     path,
		Schema:   node,
		Editable: allow.Allows(path),
	}
	switch {
	case node.Kind == schema.KindObject || (node.Kind == "" && len(node.Properties) > 0):
		children, err := objectFields(node, root, value, path, allow)
		if err != nil {
			return Field{}, err
		}
		field.Children = children
	case node.Kind == schema.KindArray:
		children, err := arrayElements(node, root, value, path, allow)
		if err != nil {
			return Field{}, err
		}
		field.Children = children
	default:
		field.Value = value
	}
	return field, nil
}

// arrayElements expands the item schema once per current element, stamping
// concrete indices into the element paths.
func arrayElements(node, root schema.Schema, value any, path fieldpath.Path, allow schema.AllowSet) ([]Field, error) {
	if node.Items == nil {
		return nil, fmt.Errorf("render: array at %q has no item schema", path)
	}
	item, err := schema.Normalize(*node.Items, root)
	if err != nil {
		return nil, err
	}
	elements, _ := value.([]any)
	if len(elements) == 0 {
		return nil, nil
	}

	parent, last, err := path.Parent()
	if err != nil {
		return nil, err
	}

	fields := make([]Field, 0, len(elements))
	for idx, element := range elements {
		segments := append(parent.Segments(), fieldpath.Segment{Name: last.Name, Array: true, Index: idx})
		elementPath := fieldpath.FromSegments(segments...)
		field, err := resolveField(item, root, element, elementPath, allow)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}
