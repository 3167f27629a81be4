package design

import (
	"slices"

	"github.com/matzehuels/backbone/pkg/errors"
)

// Snapshot is an immutable, indexed copy of a [Design]. It is safe to share
// between goroutines; nothing in it changes after [Design.Snapshot] returns.
type Snapshot struct {
	uri         string
	length      int
	children    []*Part
	constraints []Constraint
	parts       map[string]*Part
	defs        map[string]*Component
}

// Snapshot validates d and returns a deep copy indexed by URI.
//
// It rejects documents with empty or malformed URIs, duplicate child URIs
// and malformed role terms. Dangling constraint endpoints and unknown part
// kinds are deliberately left for the layout engine to report, since they
// are structural failures of a layout run rather than decoding errors.
func (d *Design) Snapshot() (*Snapshot, error) {
	s := &Snapshot{
		uri:         d.URI,
		length:      d.Length(),
		children:    make([]*Part, 0, len(d.Children)),
		constraints: slices.Clone(d.Constraints),
		parts:       make(map[string]*Part, len(d.Children)),
		defs:        make(map[string]*Component, len(d.Definitions)),
	}

	for i, p := range d.Children {
		if p == nil {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "child %d is null", i)
		}
		if err := errors.ValidateURI(p.URI); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "child %d", i)
		}
		if _, dup := s.parts[p.URI]; dup {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "duplicate child uri %s", p.URI)
		}
		for _, r := range p.Roles {
			if err := errors.ValidateRole(r); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "child %s", p.URI)
			}
		}
		cp := clonePart(p)
		s.children = append(s.children, cp)
		s.parts[cp.URI] = cp
	}

	for i, c := range d.Definitions {
		if c == nil {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "definition %d is null", i)
		}
		if err := errors.ValidateURI(c.URI); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "definition %d", i)
		}
		cc := *c
		cc.Roles = slices.Clone(c.Roles)
		s.defs[cc.URI] = &cc
	}

	for i, c := range s.constraints {
		if c.Subject == "" || c.Object == "" {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "constraint %d needs both subject and object", i)
		}
	}

	return s, nil
}

func clonePart(p *Part) *Part {
	cp := *p
	cp.Roles = slices.Clone(p.Roles)
	cp.Locations = make([]Location, len(p.Locations))
	for i, l := range p.Locations {
		cl := l
		if l.Start != nil {
			v := *l.Start
			cl.Start = &v
		}
		if l.End != nil {
			v := *l.End
			cl.End = &v
		}
		cp.Locations[i] = cl
	}
	return &cp
}

// URI returns the identifier of the container the snapshot was taken from.
func (s *Snapshot) URI() string { return s.uri }

// Children returns the direct children in document order.
// The returned slice must not be modified.
func (s *Snapshot) Children() []*Part { return s.children }

// Constraints returns the container's ordering constraints in document order.
// The returned slice must not be modified.
func (s *Snapshot) Constraints() []Constraint { return s.constraints }

// SequenceLength returns the container's own sequence length in base pairs,
// or 0 when unknown.
func (s *Snapshot) SequenceLength() int { return s.length }

// Resolve looks up a child by URI.
func (s *Snapshot) Resolve(uri string) (*Part, bool) {
	p, ok := s.parts[uri]
	return p, ok
}

// Definition looks up a part definition by URI.
func (s *Snapshot) Definition(uri string) (*Component, bool) {
	c, ok := s.defs[uri]
	return c, ok
}

// DefinitionLookup resolves part definitions by URI. [*Snapshot]
// implements it.
type DefinitionLookup interface {
	Definition(uri string) (*Component, bool)
}

// PartLength returns the sequence length in base pairs of the definition a
// sub-component instantiates, or 0 when the part is a feature or the
// definition is unknown.
func PartLength(defs DefinitionLookup, p *Part) int {
	if p.Kind != KindSubComponent || p.Definition == "" {
		return 0
	}
	if c, ok := defs.Definition(p.Definition); ok {
		return c.Length()
	}
	return 0
}

// PartRoles returns the role terms that classify p. Features carry their
// own roles; sub-components take the roles of their definition and fall
// back to their own when the definition has none.
func PartRoles(defs DefinitionLookup, p *Part) []string {
	if p.Kind == KindSubComponent && p.Definition != "" {
		if c, ok := defs.Definition(p.Definition); ok && len(c.Roles) > 0 {
			return c.Roles
		}
	}
	return p.Roles
}
