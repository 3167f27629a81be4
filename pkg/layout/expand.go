package layout

import (
	"github.com/matzehuels/backbone/pkg/design"
	"github.com/matzehuels/backbone/pkg/errors"
)

// unit is one placement candidate: a whole part, or one location of it.
type unit struct {
	handle   Handle
	part     *design.Part
	loc      *design.Location // nil for whole-part units
	priority int
}

// expand turns group members into placement units, one per location, or
// one for the whole part when it has none.
func (b *builder) expand(members []int) ([]*unit, error) {
	children := b.doc.Children()
	var units []*unit
	for _, i := range members {
		p := children[i]
		switch p.Kind {
		case design.KindSequenceFeature, design.KindSubComponent:
		default:
			return nil, errors.New(errors.ErrCodeUnsupportedObject,
				"child %s has kind %q, want %s or %s", p.URI, p.Kind, design.KindSequenceFeature, design.KindSubComponent)
		}

		if len(p.Locations) == 0 {
			units = append(units, &unit{
				handle: Handle{Part: p.URI, LocationIndex: -1},
				part:   p,
			})
			continue
		}
		for j := range p.Locations {
			loc := &p.Locations[j]
			uri := loc.URI
			if uri == "" {
				uri = design.LocationURI(p.URI, j)
			}
			units = append(units, &unit{
				handle: Handle{Part: p.URI, Location: uri, LocationIndex: j},
				part:   p,
				loc:    loc,
			})
		}
	}
	return units, nil
}
