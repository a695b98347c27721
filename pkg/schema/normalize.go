package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// maxNormalizeDepth caps indirection chains so a pathological cyclic $ref
// fails instead of looping.
const maxNormalizeDepth = 64

// RefError reports a $ref that could not be resolved against the root
// document, including chains that exceed the depth cap.
type RefError struct {
	Ref    string
	Reason string
}

func (e *RefError) Error() string {
	return fmt.Sprintf("schema: unresolvable reference %q: %s", e.Ref, e.Reason)
}

// UnionError reports an anyOf/oneOf whose branches are all null.
type UnionError struct {
	Keyword string
}

func (e *UnionError) Error() string {
	return fmt.Sprintf("schema: %s has no viable non-null branch", e.Keyword)
}

// Normalize collapses indirection until the node has a concrete shape:
// $ref pointers are resolved against root, anyOf/oneOf pick their first
// non-null branch, and allOf takes its first member (composing multiple
// allOf members is a documented limitation). Normalize is idempotent; a
// node without indirection passes through unchanged.
func Normalize(node, root Schema) (Schema, error) {
	current := node
	for depth := 0; ; depth++ {
		if depth >= maxNormalizeDepth {
			return Schema{}, &RefError{Ref: current.Ref, Reason: "indirection chain too deep"}
		}
		switch {
		case current.Ref != "":
			resolved, err := resolveRef(root, current.Ref)
			if err != nil {
				return Schema{}, err
			}
			current = resolved
		case len(current.AnyOf) > 0:
			branch, err := pickUnionBranch(current.AnyOf, "anyOf")
			if err != nil {
				return Schema{}, err
			}
			current = branch
		case len(current.OneOf) > 0:
			branch, err := pickUnionBranch(current.OneOf, "oneOf")
			if err != nil {
				return Schema{}, err
			}
			current = branch
		case len(current.AllOf) > 0:
			current = current.AllOf[0]
		default:
			return current, nil
		}
	}
}

// pickUnionBranch selects the first branch that is not declared as plain
// null. A branch counts as null only when its kind is exactly null.
func pickUnionBranch(branches []Schema, keyword string) (Schema, error) {
	for _, branch := range branches {
		if branch.Kind != KindNull {
			return branch, nil
		}
	}
	return Schema{}, &UnionError{Keyword: keyword}
}

// resolveRef walks a fragment pointer ("#/$defs/address") segment by
// segment through the typed root document.
func resolveRef(root Schema, ref string) (Schema, error) {
	fragment, ok := strings.CutPrefix(ref, "#")
	if !ok {
		return Schema{}, &RefError{Ref: ref, Reason: "only fragment references are supported"}
	}
	fragment = strings.TrimPrefix(fragment, "/")
	if fragment == "" {
		return root, nil
	}

	current := root
	segments := strings.Split(fragment, "/")
	for i := 0; i < len(segments); i++ {
		segment := decodePointerSegment(segments[i])
		switch segment {
		case "$defs", "definitions":
			if i+1 >= len(segments) {
				return Schema{}, &RefError{Ref: ref, Reason: "pointer ends at a container"}
			}
			i++
			name := decodePointerSegment(segments[i])
			child, ok := current.Defs[name]
			if !ok {
				return Schema{}, &RefError{Ref: ref, Reason: fmt.Sprintf("definition %q not found", name)}
			}
			current = child
		case "properties":
			if i+1 >= len(segments) {
				return Schema{}, &RefError{Ref: ref, Reason: "pointer ends at a container"}
			}
			i++
			name := decodePointerSegment(segments[i])
			child, ok := current.Properties[name]
			if !ok {
				return Schema{}, &RefError{Ref: ref, Reason: fmt.Sprintf("property %q not found", name)}
			}
			current = child
		case "items":
			if current.Items == nil {
				return Schema{}, &RefError{Ref: ref, Reason: "node has no items"}
			}
			current = *current.Items
		case "anyOf", "oneOf", "allOf":
			if i+1 >= len(segments) {
				return Schema{}, &RefError{Ref: ref, Reason: "pointer ends at a container"}
			}
			i++
			index, err := strconv.Atoi(segments[i])
			if err != nil {
				return Schema{}, &RefError{Ref: ref, Reason: "branch index is not numeric"}
			}
			branches := current.AnyOf
			switch segment {
			case "oneOf":
				branches = current.OneOf
			case "allOf":
				branches = current.AllOf
			}
			if index < 0 || index >= len(branches) {
				return Schema{}, &RefError{Ref: ref, Reason: "branch index out of range"}
			}
			current = branches[index]
		default:
			return Schema{}, &RefError{Ref: ref, Reason: fmt.Sprintf("segment %q not found", segment)}
		}
	}
	return current, nil
}

func decodePointerSegment(segment string) string {
	segment = strings.ReplaceAll(segment, "~1", "/")
	return strings.ReplaceAll(segment, "~0", "~")
}
