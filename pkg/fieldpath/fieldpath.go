// Package fieldpath implements the structured addressing scheme used to
// locate values inside nested entities and their schemas. Paths are parsed
// once into typed segments; the string form only appears at the wire
// boundary (form field names, allowFields entries).
package fieldpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// UnindexedArray marks an array segment that addresses the element type
// rather than a concrete element.
const UnindexedArray = -1

// ErrEmptyPath is returned when an operation needs at least one segment.
var ErrEmptyPath = errors.New("fieldpath: path is empty")

// ParseError reports a path string that does not follow the addressing
// grammar.
type ParseError struct {
	Input   string
	Segment string
	Reason  string
}

func (e *ParseError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("fieldpath: malformed path %q: segment %q %s", e.Input, e.Segment, e.Reason)
	}
	return fmt.Sprintf("fieldpath: malformed path %q: %s", e.Input, e.Reason)
}

// Segment is a single step in a path: a property name, optionally followed
// by an array marker. Index is UnindexedArray for schema paths and a
// concrete element position for value paths.
type Segment struct {
	Name  string
	Array bool
	Index int
}

// String renders the segment in wire syntax.
func (s Segment) String() string {
	if !s.Array {
		return s.Name
	}
	if s.Index == UnindexedArray {
		return s.Name + "[]"
	}
	return s.Name + "[" + strconv.Itoa(s.Index) + "]"
}

// Path is an ordered sequence of segments addressing a location in an
// entity (value path, concrete indices) or in a schema (schema path,
// unindexed array markers). The zero value is the root path.
type Path struct {
	segments []Segment
}

// Parse converts the wire form of a path into its typed representation. A
// leading "$" or "$." root marker is stripped. Segments are separated by
// "."; a segment ending in "[]" is an unindexed array marker and one ending
// in "[<digits>]" carries a concrete index.
func Parse(text string) (Path, error) {
	trimmed := strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(trimmed, "$"); ok {
		trimmed = strings.TrimPrefix(rest, ".")
	}
	if trimmed == "" {
		return Path{}, nil
	}

	parts := strings.Split(trimmed, ".")
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		segment, err := parseSegment(text, part)
		if err != nil {
			return Path{}, err
		}
		segments = append(segments, segment)
	}
	return Path{segments: segments}, nil
}

// MustParse panics on malformed input. Useful for fixtures and tests.
func MustParse(text string) Path {
	path, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return path
}

func parseSegment(input, part string) (Segment, error) {
	if part == "" {
		return Segment{}, &ParseError{Input: input, Reason: "contains an empty segment"}
	}
	if !strings.HasSuffix(part, "]") {
		if strings.ContainsAny(part, "[]") {
			return Segment{}, &ParseError{Input: input, Segment: part, Reason: "has an unterminated array marker"}
		}
		return Segment{Name: part}, nil
	}

	open := strings.Index(part, "[")
	if open <= 0 {
		return Segment{}, &ParseError{Input: input, Segment: part, Reason: "is missing a property name"}
	}
	name := part[:open]
	body := part[open+1 : len(part)-1]
	if strings.ContainsAny(name, "[]") || strings.ContainsAny(body, "[]") {
		return Segment{}, &ParseError{Input: input, Segment: part, Reason: "has a malformed array marker"}
	}
	if body == "" {
		return Segment{Name: name, Array: true, Index: UnindexedArray}, nil
	}
	index, err := strconv.Atoi(body)
	if err != nil || index < 0 {
		return Segment{}, &ParseError{Input: input, Segment: part, Reason: "has a non-numeric array index"}
	}
	return Segment{Name: name, Array: true, Index: index}, nil
}

// FromSegments builds a path from explicit segments, copying the slice.
func FromSegments(segments ...Segment) Path {
	if len(segments) == 0 {
		return Path{}
	}
	return Path{segments: append([]Segment(nil), segments...)}
}

// Segments returns a defensive copy of the path's segments.
func (p Path) Segments() []Segment {
	if len(p.segments) == 0 {
		return nil
	}
	return append([]Segment(nil), p.segments...)
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// IsRoot reports whether the path has no segments.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Child returns a new path with a property segment appended.
func (p Path) Child(name string) Path {
	segments := make([]Segment, 0, len(p.segments)+1)
	segments = append(segments, p.segments...)
	segments = append(segments, Segment{Name: name})
	return Path{segments: segments}
}

// SchemaPath maps a value path onto the schema path that types it by
// collapsing every concrete array index into the unindexed marker. The
// result is unchanged for paths that already are schema paths, so the
// operation is idempotent.
func (p Path) SchemaPath() Path {
	indexed := false
	for _, segment := range p.segments {
		if segment.Array && segment.Index != UnindexedArray {
			indexed = true
			break
		}
	}
	if !indexed {
		return p
	}
	segments := make([]Segment, len(p.segments))
	for i, segment := range p.segments {
		if segment.Array {
			segment.Index = UnindexedArray
		}
		segments[i] = segment
	}
	return Path{segments: segments}
}

// IsConcrete reports whether every array marker carries a concrete index.
// Value paths addressing stored data are concrete; schema paths with
// unindexed markers are not.
func (p Path) IsConcrete() bool {
	for _, segment := range p.segments {
		if segment.Array && segment.Index == UnindexedArray {
			return false
		}
	}
	return true
}

// Parent splits off the final segment. When the final segment carries an
// array marker the marker stays with the returned segment; the parent
// addresses the container that holds the array field.
func (p Path) Parent() (Path, Segment, error) {
	if len(p.segments) == 0 {
		return Path{}, Segment{}, ErrEmptyPath
	}
	last := p.segments[len(p.segments)-1]
	rest := p.segments[:len(p.segments)-1]
	if len(rest) == 0 {
		return Path{}, last, nil
	}
	return Path{segments: append([]Segment(nil), rest...)}, last, nil
}

// String renders the canonical wire form without the root marker.
func (p Path) String() string {
	if len(p.segments) == 0 {
		return ""
	}
	var b strings.Builder
	for i, segment := range p.segments {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(segment.String())
	}
	return b.String()
}

// Equal reports whether two paths address the same schema location:
// segment names and array markers must match while concrete indices are
// ignored.
func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i, segment := range p.segments {
		candidate := other.segments[i]
		if segment.Name != candidate.Name || segment.Array != candidate.Array {
			return false
		}
	}
	return true
}
