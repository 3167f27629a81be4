package layout

import (
	"github.com/matzehuels/backbone/pkg/design"
	"github.com/matzehuels/backbone/pkg/errors"
	"github.com/matzehuels/backbone/pkg/geom"
)

// placeFixed places every unit whose location carries explicit coordinates.
func (b *builder) placeFixed(units []*unit) error {
	for _, u := range units {
		if u.loc == nil || !u.loc.Fixed() {
			continue
		}
		r, err := b.fixedRange(u)
		if err != nil {
			return err
		}
		forward := !u.loc.Orientation.IsReverse()
		placed, err := b.group.place(u.handle, r, forward)
		if err != nil {
			return err
		}
		b.logger.Debug("placed fixed unit", "key", u.handle.Key(), "range", placed.Range, "track", placed.Track)
	}
	return nil
}

// fixedRange converts a fixed location to grid units. A location with no
// end, or an end not past its start, gets a synthetic width.
func (b *builder) fixedRange(u *unit) (geom.Interval, error) {
	if u.loc.Start == nil {
		return geom.Interval{}, errors.New(errors.ErrCodeMissingStart,
			"fixed location %s of %s has no start", u.handle.Location, u.handle.Part)
	}
	start := float64(*u.loc.Start) * b.opts.Scale
	end := start + syntheticWidth
	if u.loc.End != nil {
		end = float64(*u.loc.End) * b.opts.Scale
	}
	r := geom.Interval{Start: start, End: end}.Normalize()
	if r.IsEmpty() {
		r.End = r.Start + syntheticWidth
	}
	return r, nil
}

// propagate places parts next to their placed constraint partners until a
// full pass over the constraints places nothing. A part counts as placed
// once any of its units is.
func (b *builder) propagate(units []*unit, precedes []design.Constraint) error {
	byPart := groupUnits(units)
	for pass := 0; pass <= len(precedes); pass++ {
		changed := false
		for _, c := range precedes {
			subj, subjForward, subjPlaced := b.group.anchor(c.Subject)
			obj, objForward, objPlaced := b.group.anchor(c.Object)
			var err error
			switch {
			case subjPlaced == objPlaced:
				continue
			case subjPlaced:
				// Object follows the subject along its strand.
				if subjForward {
					err = b.chain(byPart[c.Object], subj.End, 1, subjForward)
				} else {
					err = b.chain(byPart[c.Object], subj.Start, -1, subjForward)
				}
			default:
				// Subject precedes the object along its strand.
				if objForward {
					err = b.chain(byPart[c.Subject], obj.Start, -1, objForward)
				} else {
					err = b.chain(byPart[c.Subject], obj.End, 1, objForward)
				}
			}
			if err != nil {
				return err
			}
			changed = true
		}
		if !changed {
			return nil
		}
	}
	return nil
}

// chain places units one after another starting at from, walking right when
// dir is 1 and left when dir is -1.
func (b *builder) chain(units []*unit, from float64, dir int, forward bool) error {
	cursor := from
	for _, u := range units {
		w := b.width(u)
		r := geom.Interval{Start: cursor, End: cursor + w}
		if dir < 0 {
			r = geom.Interval{Start: cursor - w, End: cursor}
		}
		placed, err := b.group.place(u.handle, r, forward)
		if err != nil {
			return err
		}
		b.logger.Debug("placed constrained unit", "key", u.handle.Key(), "range", placed.Range, "track", placed.Track)
		cursor += float64(dir) * w
	}
	return nil
}

// groupUnits indexes units by owning part, keeping their order.
func groupUnits(units []*unit) map[string][]*unit {
	m := make(map[string][]*unit)
	for _, u := range units {
		m[u.handle.Part] = append(m[u.handle.Part], u)
	}
	return m
}
