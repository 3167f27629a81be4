package design

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/backbone/pkg/errors"
)

func intp(v int) *int { return &v }

const jsonDoc = `{
  "uri": "https://example.org/circuit",
  "sequence_length": 12000,
  "children": [
    {"uri": "p", "kind": "sub-component", "definition": "def/p",
     "locations": [{"type": "range", "start": 0, "end": 40, "orientation": "inline"}]},
    {"uri": "g", "kind": "sub-component", "definition": "def/g"},
    {"name": "loose", "kind": "sequence-feature", "roles": ["SO:0000316"]}
  ],
  "constraints": [
    {"subject": "p", "object": "g", "restriction": "http://sbols.org/v3#precedes"}
  ],
  "definitions": [
    {"uri": "def/p", "roles": ["SO:0000167"], "sequence_length": 40},
    {"uri": "def/g", "sequence": "ATGATGATG"}
  ]
}`

func TestReadJSON(t *testing.T) {
	d, err := Read(strings.NewReader(jsonDoc), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, 12000, d.Length())
	require.Len(t, d.Children, 3)
	assert.Equal(t, "p/location/0", d.Children[0].Locations[0].URI)
	require.NotNil(t, d.Children[0].Locations[0].Start)
	assert.Equal(t, 0, *d.Children[0].Locations[0].Start)
	assert.True(t, strings.HasPrefix(d.Children[2].URI, "urn:uuid:"))
	assert.True(t, strings.HasPrefix(d.Constraints[0].URI, "urn:uuid:"))
	assert.True(t, d.Constraints[0].Precedes())
}

func TestReadAssignsStableURIs(t *testing.T) {
	a, err := Read(strings.NewReader(jsonDoc), FormatJSON)
	require.NoError(t, err)
	b, err := Read(strings.NewReader(jsonDoc), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, a.Children[2].URI, b.Children[2].URI)
	assert.Equal(t, a.Constraints[0].URI, b.Constraints[0].URI)
}

func TestReadYAML(t *testing.T) {
	doc := `
uri: circuit
children:
  - uri: a
    kind: sequence-feature
    locations:
      - type: range
        start: 0
        orientation: reverseComplement
  - uri: b
    kind: sub-component
constraints:
  - subject: a
    object: b
    restriction: precedes
`
	d, err := Read(strings.NewReader(doc), FormatYAML)
	require.NoError(t, err)
	require.Len(t, d.Children, 2)

	loc := d.Children[0].Locations[0]
	assert.True(t, loc.Fixed())
	require.NotNil(t, loc.Start)
	assert.Equal(t, 0, *loc.Start)
	assert.Nil(t, loc.End)
	assert.True(t, loc.Orientation.IsReverse())
}

func TestReadTOML(t *testing.T) {
	doc := `
uri = "circuit"
sequence_length = 500

[[children]]
uri = "a"
kind = "sequence-feature"

  [[children.locations]]
  type = "range"
  start = 10
  end = 20

[[children]]
uri = "b"
kind = "sub-component"
definition = "def/b"

[[constraints]]
subject = "a"
object = "b"
restriction = "precedes"

[[definitions]]
uri = "def/b"
sequence_length = 2500
`
	d, err := Read(strings.NewReader(doc), FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, 500, d.Length())
	require.Len(t, d.Children, 2)
	require.Len(t, d.Children[0].Locations, 1)
	assert.Equal(t, 20, *d.Children[0].Locations[0].End)
	require.Len(t, d.Definitions, 1)
	assert.Equal(t, 2500, d.Definitions[0].Length())
}

func TestReadMalformed(t *testing.T) {
	_, err := Read(strings.NewReader("{"), FormatJSON)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidDocument))

	_, err = Read(strings.NewReader("{}"), Format("xml"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestWriteRoundTrip(t *testing.T) {
	d, err := Read(strings.NewReader(jsonDoc), FormatJSON)
	require.NoError(t, err)

	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, d, f))
			back, err := Read(&buf, f)
			require.NoError(t, err)
			assert.Equal(t, d, back)
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"json", FormatJSON, true},
		{".yml", FormatYAML, true},
		{"YAML", FormatYAML, true},
		{"toml", FormatTOML, true},
		{"xml", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseFormat(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := FormatFromPath("circuit"); err == nil {
		t.Error("FormatFromPath without extension should fail")
	}
}

func TestSnapshot(t *testing.T) {
	d, err := Read(strings.NewReader(jsonDoc), FormatJSON)
	require.NoError(t, err)
	s, err := d.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, "https://example.org/circuit", s.URI())
	assert.Equal(t, 12000, s.SequenceLength())
	assert.Len(t, s.Children(), 3)
	assert.Len(t, s.Constraints(), 1)

	p, ok := s.Resolve("p")
	require.True(t, ok)
	assert.Equal(t, 40, PartLength(s, p))
	assert.Equal(t, []string{"SO:0000167"}, PartRoles(s, p))

	g, _ := s.Resolve("g")
	assert.Equal(t, 9, PartLength(s, g))
	assert.Empty(t, PartRoles(s, g))

	loose := s.Children()[2]
	assert.Equal(t, 0, PartLength(s, loose))
	assert.Equal(t, []string{"SO:0000316"}, PartRoles(s, loose))

	_, ok = s.Resolve("missing")
	assert.False(t, ok)
}

func TestSnapshotIsIndependent(t *testing.T) {
	d := &Design{Children: []*Part{{
		URI:       "a",
		Kind:      KindSequenceFeature,
		Locations: []Location{{Type: LocationRange, Start: intp(5)}},
	}}}
	s, err := d.Snapshot()
	require.NoError(t, err)

	*d.Children[0].Locations[0].Start = 99
	d.Children[0].URI = "changed"

	p, ok := s.Resolve("a")
	require.True(t, ok)
	assert.Equal(t, 5, *p.Locations[0].Start)
}

func TestSnapshotValidation(t *testing.T) {
	tests := []struct {
		name string
		d    *Design
	}{
		{"empty uri", &Design{Children: []*Part{{Kind: KindSequenceFeature}}}},
		{"duplicate uri", &Design{Children: []*Part{{URI: "a"}, {URI: "a"}}}},
		{"bad role", &Design{Children: []*Part{{URI: "a", Roles: []string{"SO:12"}}}}},
		{"null child", &Design{Children: []*Part{nil}}},
		{"half constraint", &Design{Constraints: []Constraint{{Subject: "a"}}}},
		{"bad definition", &Design{Definitions: []*Component{{URI: "has space"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.d.Snapshot()
			if !errors.Is(err, errors.ErrCodeInvalidDocument) {
				t.Errorf("Snapshot() err = %v, want %s", err, errors.ErrCodeInvalidDocument)
			}
		})
	}
}

func TestOrientationIsReverse(t *testing.T) {
	tests := []struct {
		o    Orientation
		want bool
	}{
		{OrientationInline, false},
		{"", false},
		{OrientationReverseComplement, true},
		{"http://sbols.org/v3#reverseComplement", true},
		{"https://identifiers.org/SO:0001031", false},
	}
	for _, tt := range tests {
		if got := tt.o.IsReverse(); got != tt.want {
			t.Errorf("%q.IsReverse() = %v, want %v", tt.o, got, tt.want)
		}
	}
}

func TestToDOT(t *testing.T) {
	d, err := Read(strings.NewReader(jsonDoc), FormatJSON)
	require.NoError(t, err)
	d.Constraints = append(d.Constraints, Constraint{Subject: "g", Object: "p", Restriction: "sameOrientationAs"})
	s, err := d.Snapshot()
	require.NoError(t, err)

	dot := ToDOT(s)
	assert.True(t, strings.HasPrefix(dot, "digraph G {"))
	assert.Contains(t, dot, `"p" -> "g";`)
	assert.Contains(t, dot, `"g" -> "p" [style=dashed, label="sameOrientationAs"];`)
	assert.Contains(t, dot, `fillcolor=lightblue`)
	assert.NotContains(t, dot, "loose")
}
