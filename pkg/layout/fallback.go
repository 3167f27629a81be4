package layout

import (
	"slices"

	"github.com/matzehuels/backbone/pkg/design"
	"github.com/matzehuels/backbone/pkg/geom"
)

// item is a run of units of one part that fallback ordering moves together.
type item struct {
	part  string
	units []*unit
}

// fallback lays out the units that neither fixed placement nor propagation
// reached. They are ordered so that each constraint's subject sits right
// before its object, then placed left to right from 0 on the forward
// strand, since nothing determines their orientation.
func (b *builder) fallback(units []*unit, precedes []design.Constraint) error {
	var order []*item
	seen := make(map[string]*item)
	for _, u := range units {
		if _, placed := b.group.Unit(u.handle.Key()); placed {
			continue
		}
		it, ok := seen[u.handle.Part]
		if !ok {
			it = &item{part: u.handle.Part}
			seen[u.handle.Part] = it
			order = append(order, it)
		}
		it.units = append(it.units, u)
	}
	if len(order) == 0 {
		return nil
	}

	order = b.reorder(order, precedes)

	cursor := 0.0
	for _, it := range order {
		for _, u := range it.units {
			w := b.width(u)
			placed, err := b.group.place(u.handle, geom.Interval{Start: cursor, End: cursor + w}, true)
			if err != nil {
				return err
			}
			b.logger.Debug("placed unconstrained unit", "key", u.handle.Key(), "range", placed.Range, "track", placed.Track)
			cursor += w
		}
	}
	return nil
}

// reorder moves each constraint's subject to immediately before its
// object. Cyclic constraints never settle, so passes are capped.
func (b *builder) reorder(order []*item, precedes []design.Constraint) []*item {
	indexOf := func(part string) int {
		return slices.IndexFunc(order, func(it *item) bool { return it.part == part })
	}

	for pass := 0; pass < b.opts.MaxReorderPasses; pass++ {
		moved := false
		for _, c := range precedes {
			if len(b.group.PartUnits(c.Subject)) > 0 || len(b.group.PartUnits(c.Object)) > 0 {
				continue
			}
			s, o := indexOf(c.Subject), indexOf(c.Object)
			if s < 0 || o < 0 {
				continue
			}
			target := o
			if s < o {
				target = o - 1
			}
			if s == target {
				continue
			}
			it := order[s]
			order = slices.Delete(order, s, s+1)
			order = slices.Insert(order, target, it)
			moved = true
		}
		if !moved {
			break
		}
	}
	return order
}
