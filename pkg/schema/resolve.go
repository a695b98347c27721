package schema

import (
	"fmt"

	"github.com/goliatone/go-formedit/pkg/fieldpath"
)

// FieldError reports a path segment that names a property the schema does
// not declare.
type FieldError struct {
	Field string
	Path  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("schema: unknown field %q at %q", e.Field, e.Path)
}

// DepthError reports a path that descends past a primitive node.
type DepthError struct {
	Path string
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("schema: path %q descends below a primitive node", e.Path)
}

// Resolve walks root along the schema path and returns the normalized node
// describing the value at that location. It is the single source of truth
// for the type of a field; coercion and default synthesis both rely on it.
func Resolve(root Schema, path fieldpath.Path) (Schema, error) {
	current, err := Normalize(root, root)
	if err != nil {
		return Schema{}, err
	}

	segments := path.Segments()
	for i, segment := range segments {
		at := fieldpath.FromSegments(segments[:i]...).String()

		if !isObject(current) {
			return Schema{}, &DepthError{Path: path.String()}
		}
		child, ok := current.Properties[segment.Name]
		if !ok {
			return Schema{}, &FieldError{Field: segment.Name, Path: at}
		}
		current, err = Normalize(child, root)
		if err != nil {
			return Schema{}, err
		}

		if segment.Array {
			if current.Kind != KindArray {
				return Schema{}, fmt.Errorf("schema: field %q at %q is not an array", segment.Name, at)
			}
			if current.Items == nil {
				return Schema{}, fmt.Errorf("schema: array field %q at %q has no item schema", segment.Name, at)
			}
			current, err = Normalize(*current.Items, root)
			if err != nil {
				return Schema{}, err
			}
		}
	}
	return current, nil
}

// isObject treats an undeclared kind with properties as an object, the
// same leniency applied when parsing loosely written documents.
func isObject(node Schema) bool {
	if node.Kind == KindObject {
		return true
	}
	return node.Kind == "" && len(node.Properties) > 0
}
