package fieldpath

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []Segment
	}{
		{
			name:  "simple property chain",
			input: "address.street1",
			want:  []Segment{{Name: "address"}, {Name: "street1"}},
		},
		{
			name:  "root marker stripped",
			input: "$.fullName",
			want:  []Segment{{Name: "fullName"}},
		},
		{
			name:  "bare root marker",
			input: "$",
			want:  nil,
		},
		{
			name:  "schema path array marker",
			input: "address.tags[]",
			want:  []Segment{{Name: "address"}, {Name: "tags", Array: true, Index: UnindexedArray}},
		},
		{
			name:  "value path with index",
			input: "$.employees[2].fullName",
			want: []Segment{
				{Name: "employees", Array: true, Index: 2},
				{Name: "fullName"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path, err := Parse(tc.input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.input, err)
			}
			if diff := cmp.Diff(tc.want, path.Segments()); diff != "" {
				t.Fatalf("Parse(%q) segments mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	inputs := []string{
		"a..b",
		"a.[2]",
		"a.b[x]",
		"a.b[-1]",
		"a.b[2",
		"a.b]",
		".",
	}
	for _, input := range inputs {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q): expected error, got nil", input)
		} else {
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("Parse(%q): expected *ParseError, got %T", input, err)
			}
		}
	}
}

func TestSchemaPathCollapsesIndices(t *testing.T) {
	a := MustParse("$.a[3].b")
	b := MustParse("$.a[7].b")
	want := "a[].b"

	if got := a.SchemaPath().String(); got != want {
		t.Fatalf("SchemaPath() = %q, want %q", got, want)
	}
	if got := b.SchemaPath().String(); got != want {
		t.Fatalf("SchemaPath() = %q, want %q", got, want)
	}
}

func TestSchemaPathIdempotent(t *testing.T) {
	path := MustParse("a[2].b[].c")
	once := path.SchemaPath()
	twice := once.SchemaPath()
	if !once.Equal(twice) || once.String() != twice.String() {
		t.Fatalf("SchemaPath not idempotent: %q vs %q", once, twice)
	}
}

func TestParent(t *testing.T) {
	path := MustParse("address.tags[2]")
	parent, last, err := path.Parent()
	if err != nil {
		t.Fatalf("Parent: %v", err)
	}
	if parent.String() != "address" {
		t.Fatalf("parent = %q, want %q", parent, "address")
	}
	want := Segment{Name: "tags", Array: true, Index: 2}
	if last != want {
		t.Fatalf("last segment = %+v, want %+v", last, want)
	}

	if _, _, err := (Path{}).Parent(); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("Parent on root: expected ErrEmptyPath, got %v", err)
	}
}

func TestIsConcrete(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"a.b", true},
		{"a[0].b", true},
		{"a[]", false},
		{"a[].b", false},
		{"a[2].b[]", false},
	}
	for _, tc := range cases {
		if got := MustParse(tc.input).IsConcrete(); got != tc.want {
			t.Errorf("IsConcrete(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestEqualIgnoresConcreteIndex(t *testing.T) {
	if !MustParse("a[1].b").Equal(MustParse("a[].b")) {
		t.Fatal("indexed and unindexed markers should compare equal")
	}
	if MustParse("a.b").Equal(MustParse("a.b[]")) {
		t.Fatal("property and array segments should not compare equal")
	}
	if MustParse("a.b").Equal(MustParse("a.c")) {
		t.Fatal("different names should not compare equal")
	}
}

func TestStringRoundTrip(t *testing.T) {
	inputs := []string{"a", "a.b", "a.b[]", "a.b[4].c"}
	for _, input := range inputs {
		path := MustParse(input)
		again := MustParse(path.String())
		if !path.Equal(again) {
			t.Errorf("round trip of %q lost information: %q", input, again)
		}
	}
}
