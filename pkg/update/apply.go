package update

import (
	"fmt"

	"github.com/goliatone/go-formedit/pkg/fieldpath"
	"github.com/goliatone/go-formedit/pkg/schema"
)

// Edit pairs a value path with the raw string the form submitted for it.
type Edit struct {
	Path fieldpath.Path
	Raw  string
}

// EditSet is an ordered collection of edits. Order matters: later edits to
// the same location win.
type EditSet []Edit

// ParseEdits converts wire-form (name, raw value) pairs into an EditSet.
// Malformed paths are rejected eagerly; they indicate a broken client, not
// a permission or schema mismatch. Edit names are value paths, so an
// unindexed array marker is rejected the same way: it addresses an element
// type, not a stored element.
func ParseEdits(pairs [][2]string) (EditSet, error) {
	edits := make(EditSet, 0, len(pairs))
	for _, pair := range pairs {
		path, err := fieldpath.Parse(pair[0])
		if err != nil {
			return nil, err
		}
		if !path.IsConcrete() {
			return nil, fmt.Errorf("update: edit path %q must carry concrete array indices", pair[0])
		}
		edits = append(edits, Edit{Path: path, Raw: pair[1]})
	}
	return edits, nil
}

// ApplyEdits merges the edit set into a deep copy of the entity and
// returns the copy; the input entity is never mutated. Per edit, in
// submission order: paths with unindexed array markers are dropped (they
// address no stored value), the allow-list is consulted (a non-empty list
// that lacks the edit's schema path drops it silently), the schema walker
// resolves the field's type (resolution failure drops the edit, tolerating
// schema drift), the raw value is coerced, and the result lands in the
// copy with intermediate objects created as needed. Individual drops never
// fail the pipeline; a result is always produced.
func ApplyEdits(entity any, root schema.Schema, allow schema.AllowSet, edits EditSet) any {
	copied := cloneValue(entity)
	target, ok := copied.(map[string]any)
	if !ok {
		return copied
	}

	for _, edit := range edits {
		if !edit.Path.IsConcrete() {
			continue
		}
		schemaPath := edit.Path.SchemaPath()
		if !allow.Allows(schemaPath) {
			continue
		}
		node, err := schema.Resolve(root, schemaPath)
		if err != nil {
			continue
		}
		value := Coerce(node, edit.Raw)
		parent, last, ok := locateParent(target, edit.Path, true)
		if !ok {
			continue
		}
		setValue(parent, last, value)
	}
	return copied
}
