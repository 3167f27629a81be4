package layout

import (
	"github.com/matzehuels/backbone/pkg/geom"
)

// forceMinWidth widens every used range shorter than minWidth. Each short
// range gets an insertion just inside its start, so the range grows by its
// deficit and everything after the insertion point shifts right by the
// same amount.
func (g *Group) forceMinWidth(minWidth float64) error {
	g.beginCompaction()
	// Insertions preserve order, so index i keeps pointing at the same range.
	for i := 0; i < len(g.Used); i++ {
		r := g.Used[i]
		deficit := minWidth - r.Len()
		if deficit <= widthTolerance {
			continue
		}
		p := r.Start + min(insertOffset, r.Len()/2)
		g.chop(geom.Interval{Start: p, End: p}, deficit)
	}
	return g.endCompaction()
}

// omitEmptySpace collapses every empty stretch of the backbone longer than
// minGap into a unit-length marker, recording the marker in Omitted and the
// original stretch in OmittedSpans. Gaps are processed left to right; each
// collapse shifts the gaps still queued.
func (g *Group) omitEmptySpace(minGap float64) error {
	g.beginCompaction()
	gaps := g.Used.Invert(g.bound).Filter(func(iv geom.Interval) bool {
		return iv.Len() > minGap+widthTolerance
	})
	for _, gap := range gaps {
		g.OmittedSpans.Add(gap)
	}
	for len(gaps) > 0 {
		gap := gaps[0]
		gaps = gaps[1:].Chop(gap, markerLength)
		g.chop(gap, markerLength)
		g.Omitted.Add(geom.Interval{Start: gap.Start, End: gap.Start + markerLength})
	}
	return g.endCompaction()
}

// beginCompaction fixes the bound interval the passes rewrite alongside the
// ranges: from 0, or the leftmost range if it lies before 0, to Length.
func (g *Group) beginCompaction() {
	g.bound = geom.Interval{Start: 0, End: g.Length}
	if b, ok := g.Used.Bounds(); ok && b.Start < 0 {
		g.bound.Start = b.Start
	}
}

// endCompaction takes the new length from the bound and rebuilds the track
// overlap indexes.
func (g *Group) endCompaction() error {
	g.Length = g.bound.End
	for _, t := range g.Tracks {
		if err := t.reindex(); err != nil {
			return err
		}
	}
	return nil
}

// chop resizes del to newLen in every range collection of the group.
func (g *Group) chop(del geom.Interval, newLen float64) {
	g.Used = g.Used.Chop(del, newLen)
	g.Omitted = g.Omitted.Chop(del, newLen)
	for _, t := range g.Tracks {
		t.Forward = t.Forward.Chop(del, newLen)
		t.Reverse = t.Reverse.Chop(del, newLen)
	}
	for _, u := range g.units {
		if r, ok := u.Range.Chop(del, newLen); ok {
			u.Range = r
		} else {
			u.Range = geom.Interval{Start: del.Start, End: del.Start + newLen}
		}
	}
	if b, ok := g.bound.Chop(del, newLen); ok {
		g.bound = b
	} else {
		g.bound = geom.Interval{Start: del.Start, End: del.Start + newLen}
	}
}
