package schema

import (
	"fmt"

	"github.com/goliatone/go-formedit/pkg/fieldpath"
)

// AllowFields enumerates the editable schema paths declared by an update
// schema. Objects recurse into each property; arrays contribute their own
// path plus whatever their item schema declares under the unindexed
// marker; primitives and enums are leaves. The produced paths have the
// exact shape Resolve consumes, so when the update schema is a sub-tree of
// the full entity schema every derived path resolves against it.
func AllowFields(update Schema) ([]fieldpath.Path, error) {
	root, err := Normalize(update, update)
	if err != nil {
		return nil, err
	}
	if !isObject(root) {
		return nil, fmt.Errorf("schema: update schema must be an object")
	}

	var paths []fieldpath.Path
	if err := collectAllowFields(root, update, fieldpath.Path{}, &paths, 0); err != nil {
		return nil, err
	}
	return paths, nil
}

func collectAllowFields(node, root Schema, prefix fieldpath.Path, out *[]fieldpath.Path, depth int) error {
	if depth >= maxNormalizeDepth {
		return fmt.Errorf("schema: update schema nests too deeply at %q", prefix)
	}
	for _, name := range node.PropertyNames() {
		child, err := Normalize(node.Properties[name], root)
		if err != nil {
			return err
		}
		path := prefix.Child(name)
		switch {
		case isObject(child):
			if err := collectAllowFields(child, root, path, out, depth+1); err != nil {
				return err
			}
		case child.Kind == KindArray:
			*out = append(*out, path)
			if child.Items == nil {
				continue
			}
			item, err := Normalize(*child.Items, root)
			if err != nil {
				return err
			}
			segments := append(path.Segments()[:path.Len()-1], fieldpath.Segment{
				Name:  name,
				Array: true,
				Index: fieldpath.UnindexedArray,
			})
			itemPath := fieldpath.FromSegments(segments...)
			if isObject(item) || item.Kind == KindArray {
				if err := collectAllowFields(item, root, itemPath, out, depth+1); err != nil {
					return err
				}
			} else {
				*out = append(*out, itemPath)
			}
		default:
			*out = append(*out, path)
		}
	}
	return nil
}

// AllowSet answers membership questions about an allow-list. Membership is
// keyed by the canonical schema-path string, so value paths match after
// their indices collapse. The empty set is the distinguished permissive
// value: it allows every field.
type AllowSet struct {
	members map[string]struct{}
}

// NewAllowSet builds a set from schema paths. Value paths are accepted and
// collapsed.
func NewAllowSet(paths ...fieldpath.Path) AllowSet {
	if len(paths) == 0 {
		return AllowSet{}
	}
	members := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		members[path.SchemaPath().String()] = struct{}{}
	}
	return AllowSet{members: members}
}

// ParseAllowSet builds a set from wire-form path strings.
func ParseAllowSet(entries []string) (AllowSet, error) {
	paths := make([]fieldpath.Path, 0, len(entries))
	for _, entry := range entries {
		path, err := fieldpath.Parse(entry)
		if err != nil {
			return AllowSet{}, err
		}
		paths = append(paths, path)
	}
	return NewAllowSet(paths...), nil
}

// IsEmpty reports whether the set is the permissive distinguished value.
func (s AllowSet) IsEmpty() bool {
	return len(s.members) == 0
}

// Contains reports strict membership, ignoring the permissive rule.
func (s AllowSet) Contains(path fieldpath.Path) bool {
	_, ok := s.members[path.SchemaPath().String()]
	return ok
}

// Allows reports whether the path may be written: the empty set allows
// everything, otherwise the path's schema path must be a member.
func (s AllowSet) Allows(path fieldpath.Path) bool {
	if s.IsEmpty() {
		return true
	}
	return s.Contains(path)
}

// Len returns the number of members.
func (s AllowSet) Len() int {
	return len(s.members)
}
