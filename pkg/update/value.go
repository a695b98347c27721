// Package update implements the constrained edit pipeline: coercing raw
// form input into schema-typed values, merging allow-listed edits into a
// deep copy of the stored entity, and mutating array fields with
// schema-conformant defaults.
package update

import (
	"github.com/goliatone/go-formedit/pkg/fieldpath"
)

// cloneValue deep-copies the JSON-shaped entity trees the pipeline works
// on. Callers always receive a fresh copy; the input entity is never
// touched.
func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[key] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for idx, val := range typed {
			out[idx] = cloneValue(val)
		}
		return out
	default:
		return typed
	}
}

// locateParent descends to the object that directly holds the path's final
// segment. Missing intermediate objects are created when create is true;
// array elements are never created implicitly, so an index pointing at a
// hole fails the lookup.
func locateParent(root map[string]any, path fieldpath.Path, create bool) (map[string]any, fieldpath.Segment, bool) {
	segments := path.Segments()
	if len(segments) == 0 {
		return nil, fieldpath.Segment{}, false
	}
	current := root
	for _, segment := range segments[:len(segments)-1] {
		value, exists := current[segment.Name]
		if segment.Array {
			arr, ok := value.([]any)
			if !ok || segment.Index < 0 || segment.Index >= len(arr) {
				return nil, fieldpath.Segment{}, false
			}
			elem, ok := arr[segment.Index].(map[string]any)
			if !ok {
				if arr[segment.Index] != nil || !create {
					return nil, fieldpath.Segment{}, false
				}
				elem = make(map[string]any)
				arr[segment.Index] = elem
			}
			current = elem
			continue
		}
		child, ok := value.(map[string]any)
		if !ok {
			if (exists && value != nil) || !create {
				return nil, fieldpath.Segment{}, false
			}
			child = make(map[string]any)
			current[segment.Name] = child
		}
		current = child
	}
	return current, segments[len(segments)-1], true
}

// setValue writes the value at the final segment inside its parent
// container. Indexed writes land inside an existing array slot only.
func setValue(parent map[string]any, segment fieldpath.Segment, value any) bool {
	if !segment.Array || segment.Index == fieldpath.UnindexedArray {
		parent[segment.Name] = value
		return true
	}
	arr, ok := parent[segment.Name].([]any)
	if !ok || segment.Index < 0 || segment.Index >= len(arr) {
		return false
	}
	arr[segment.Index] = value
	return true
}
