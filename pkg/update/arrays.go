package update

import (
	"fmt"

	"github.com/goliatone/go-formedit/pkg/fieldpath"
	"github.com/goliatone/go-formedit/pkg/schema"
)

// IndexError reports an array removal aimed outside the array's current
// bounds. Unlike silent edit drops this is surfaced: it means the client's
// view of the array is stale.
type IndexError struct {
	Path  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("update: index %d out of range for array %q of length %d", e.Index, e.Path, e.Len)
}

// AppendDefault appends a schema-conformant default element to the array
// at the given schema path and returns a deep copy of the entity with the
// element in place. The array slot is created when the entity does not
// hold one yet. Both address forms the wire payload carries are accepted:
// "tags" and "tags[]" name the same array.
func AppendDefault(entity any, root schema.Schema, arrayPath fieldpath.Path) (any, error) {
	arrayPath = trimArrayMarker(arrayPath)
	node, err := schema.Resolve(root, arrayPath.SchemaPath())
	if err != nil {
		return nil, err
	}
	if node.Kind != schema.KindArray {
		return nil, fmt.Errorf("update: path %q does not address an array", arrayPath)
	}
	if node.Items == nil {
		return nil, fmt.Errorf("update: array at %q has no item schema", arrayPath)
	}
	element := SynthesizeDefault(*node.Items, root)

	copied := cloneValue(entity)
	target, ok := copied.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("update: entity is not an object")
	}
	parent, last, ok := locateParent(target, arrayPath, true)
	if !ok {
		return nil, fmt.Errorf("update: cannot reach array at %q", arrayPath)
	}
	arr, ok := parent[last.Name].([]any)
	if !ok && parent[last.Name] != nil {
		return nil, fmt.Errorf("update: value at %q is not an array", arrayPath)
	}
	parent[last.Name] = append(arr, element)
	return copied, nil
}

// trimArrayMarker strips a trailing unindexed marker so the path
// addresses the array node itself rather than its element type.
func trimArrayMarker(path fieldpath.Path) fieldpath.Path {
	segments := path.Segments()
	if len(segments) == 0 {
		return path
	}
	last := &segments[len(segments)-1]
	if !last.Array || last.Index != fieldpath.UnindexedArray {
		return path
	}
	last.Array = false
	last.Index = 0
	return fieldpath.FromSegments(segments...)
}

// RemoveAt splices the element at index out of the array addressed by the
// value path and returns a deep copy of the entity without it. The
// trailing unindexed marker is optional, as in AppendDefault.
func RemoveAt(entity any, arrayPath fieldpath.Path, index int) (any, error) {
	arrayPath = trimArrayMarker(arrayPath)
	copied := cloneValue(entity)
	target, ok := copied.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("update: entity is not an object")
	}
	parent, last, ok := locateParent(target, arrayPath, false)
	if !ok {
		return nil, fmt.Errorf("update: cannot reach array at %q", arrayPath)
	}
	arr, ok := parent[last.Name].([]any)
	if !ok {
		return nil, fmt.Errorf("update: value at %q is not an array", arrayPath)
	}
	if index < 0 || index >= len(arr) {
		return nil, &IndexError{Path: arrayPath.String(), Index: index, Len: len(arr)}
	}
	parent[last.Name] = append(arr[:index:index], arr[index+1:]...)
	return copied, nil
}
