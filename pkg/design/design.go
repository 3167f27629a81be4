// Package design models the genetic-circuit documents that the backbone
// layout engine consumes.
//
// A [Design] is a container: it owns child parts (sequence features and
// sub-components), ordering constraints between those parts, optional part
// definitions carrying sequence lengths, and the container's own sequence.
// Designs are plain data decoded from JSON, YAML or TOML (see [ReadFile]).
//
// The layout engine never reads a Design directly. It consumes a
// [Snapshot], an immutable, indexed copy taken with [Design.Snapshot], so
// that a design being edited elsewhere cannot change under a layout run.
//
// # Locations
//
// Each part may carry zero or more [Location] sub-ranges. A location of type
// "range" is fixed: it must have an explicit start coordinate (0 is a valid
// start). Any other location is positioned by constraints only.
//
// # Example
//
//	d, err := design.ReadFile("circuit.yaml")
//	if err != nil {
//	    return err
//	}
//	snap, err := d.Snapshot()
//	if err != nil {
//	    return err
//	}
//	fmt.Println(len(snap.Children()), "parts")
package design

import (
	"strconv"
	"strings"
)

// Kind distinguishes the capabilities a child part exposes.
type Kind string

const (
	// KindSequenceFeature is an annotated region of the container's own sequence.
	KindSequenceFeature Kind = "sequence-feature"
	// KindSubComponent is an instance of another part definition.
	KindSubComponent Kind = "sub-component"
)

// Orientation is the reading direction of a location.
type Orientation string

const (
	OrientationInline            Orientation = "inline"
	OrientationReverseComplement Orientation = "reverseComplement"
)

// IsReverse reports whether o denotes the reverse strand. Both the bare
// term and SBOL-style URIs ending in it are accepted.
func (o Orientation) IsReverse() bool {
	return strings.EqualFold(lastSegment(string(o)), string(OrientationReverseComplement))
}

// LocationType classifies how a location is positioned.
type LocationType string

const (
	// LocationRange has explicit coordinates and is placed as-is.
	LocationRange LocationType = "range"
	// LocationFree has no usable coordinates.
	LocationFree LocationType = "free"
)

// RestrictionPrecedes is the only ordering restriction the engine places by.
const RestrictionPrecedes = "precedes"

// Location is a sub-range of the container sequence occupied by a part.
// Coordinates are in base pairs.
type Location struct {
	URI         string       `json:"uri,omitempty" yaml:"uri,omitempty" toml:"uri,omitempty"`
	Type        LocationType `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Start       *int         `json:"start,omitempty" yaml:"start,omitempty" toml:"start,omitempty"`
	End         *int         `json:"end,omitempty" yaml:"end,omitempty" toml:"end,omitempty"`
	Orientation Orientation  `json:"orientation,omitempty" yaml:"orientation,omitempty" toml:"orientation,omitempty"`
}

// Fixed reports whether the location claims explicit coordinates.
func (l Location) Fixed() bool { return l.Type == LocationRange }

// LocationURI names the j-th location of a part that carries no URI of
// its own.
func LocationURI(part string, j int) string {
	return part + "/location/" + strconv.Itoa(j)
}

// Part is a direct child of a design: a sequence feature or a sub-component.
type Part struct {
	URI        string     `json:"uri" yaml:"uri" toml:"uri"`
	Name       string     `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Kind       Kind       `json:"kind" yaml:"kind" toml:"kind"`
	Roles      []string   `json:"roles,omitempty" yaml:"roles,omitempty" toml:"roles,omitempty"`
	Locations  []Location `json:"locations,omitempty" yaml:"locations,omitempty" toml:"locations,omitempty"`
	Definition string     `json:"definition,omitempty" yaml:"definition,omitempty" toml:"definition,omitempty"`
}

// DisplayName returns the part name, falling back to its URI.
func (p *Part) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.URI
}

// Component is a part definition referenced by sub-components.
type Component struct {
	URI            string   `json:"uri" yaml:"uri" toml:"uri"`
	Name           string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Roles          []string `json:"roles,omitempty" yaml:"roles,omitempty" toml:"roles,omitempty"`
	SequenceLength int      `json:"sequence_length,omitempty" yaml:"sequence_length,omitempty" toml:"sequence_length,omitempty"`
	Sequence       string   `json:"sequence,omitempty" yaml:"sequence,omitempty" toml:"sequence,omitempty"`
}

// Length returns the definition's sequence length in base pairs, or 0 when
// unknown. An explicit SequenceLength wins over the sequence text.
func (c *Component) Length() int {
	if c.SequenceLength > 0 {
		return c.SequenceLength
	}
	return len(c.Sequence)
}

// Constraint is a binary ordering relation between two child parts.
type Constraint struct {
	URI         string `json:"uri,omitempty" yaml:"uri,omitempty" toml:"uri,omitempty"`
	Subject     string `json:"subject" yaml:"subject" toml:"subject"`
	Object      string `json:"object" yaml:"object" toml:"object"`
	Restriction string `json:"restriction" yaml:"restriction" toml:"restriction"`
}

// Precedes reports whether the constraint states that Subject comes
// immediately before Object.
func (c Constraint) Precedes() bool {
	return strings.EqualFold(lastSegment(c.Restriction), RestrictionPrecedes)
}

// Design is a container of parts, constraints and definitions.
type Design struct {
	URI            string       `json:"uri,omitempty" yaml:"uri,omitempty" toml:"uri,omitempty"`
	Name           string       `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	SequenceLength int          `json:"sequence_length,omitempty" yaml:"sequence_length,omitempty" toml:"sequence_length,omitempty"`
	Sequence       string       `json:"sequence,omitempty" yaml:"sequence,omitempty" toml:"sequence,omitempty"`
	Children       []*Part      `json:"children" yaml:"children" toml:"children"`
	Constraints    []Constraint `json:"constraints,omitempty" yaml:"constraints,omitempty" toml:"constraints,omitempty"`
	Definitions    []*Component `json:"definitions,omitempty" yaml:"definitions,omitempty" toml:"definitions,omitempty"`
}

// Length returns the container's own sequence length in base pairs.
func (d *Design) Length() int {
	if d.SequenceLength > 0 {
		return d.SequenceLength
	}
	return len(d.Sequence)
}

// lastSegment returns the text after the last '#' or '/' of an identifier,
// so "http://sbols.org/v3#precedes" and "precedes" compare equal.
func lastSegment(s string) string {
	if i := strings.LastIndexAny(s, "#/"); i >= 0 {
		return s[i+1:]
	}
	return s
}
