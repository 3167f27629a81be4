// Package geom provides the one-dimensional interval primitives used by the
// backbone layout engine.
//
// Coordinates are grid units: base-pair offsets multiplied by a fixed scale
// factor. All intervals are half-open, [Start, End), and every operation in
// this package returns normalized intervals (Start <= End).
//
// # Chop
//
// [Interval.Chop] is the primitive behind range compaction. Given a deletion
// span and a target length it rewrites an interval as if the deletion span
// had been resized to the target length:
//
//   - coordinates before the span are unchanged
//   - coordinates after the span shift by (target - span length)
//   - coordinates inside the span are scaled linearly into the new length
//   - an interval lying entirely inside a non-empty span is removed
//
// A zero-length span is an insertion point. Intervals that start after the
// point shift right, intervals that end after it grow, and a degenerate
// interval sitting exactly on the point grows to the inserted length.
package geom

import "fmt"

// Interval is a half-open range [Start, End) in grid units.
type Interval struct {
	Start float64 `json:"start" bson:"start"`
	End   float64 `json:"end" bson:"end"`
}

// Len returns the length of the interval.
func (iv Interval) Len() float64 { return iv.End - iv.Start }

// IsEmpty reports whether the interval has zero length.
func (iv Interval) IsEmpty() bool { return iv.End <= iv.Start }

// Normalize returns the interval with Start and End swapped if needed so
// that Start <= End.
func (iv Interval) Normalize() Interval {
	if iv.Start > iv.End {
		return Interval{Start: iv.End, End: iv.Start}
	}
	return iv
}

// Intersects reports whether two half-open intervals share any coordinate.
// Intervals that merely touch ([0,5) and [5,9)) do not intersect.
func (iv Interval) Intersects(o Interval) bool {
	return iv.Start < o.End && o.Start < iv.End
}

// Contains reports whether o lies entirely within iv.
func (iv Interval) Contains(o Interval) bool {
	return o.Start >= iv.Start && o.End <= iv.End
}

// Shift returns the interval translated by d.
func (iv Interval) Shift(d float64) Interval {
	return Interval{Start: iv.Start + d, End: iv.End + d}
}

// Chop resizes the portion of iv covered by del to newLen and shifts
// everything after del by the length difference. It returns false when iv
// lies entirely inside a non-empty del and therefore vanishes.
func (iv Interval) Chop(del Interval, newLen float64) (Interval, bool) {
	iv = iv.Normalize()
	del = del.Normalize()
	if newLen < 0 {
		newLen = 0
	}
	delta := newLen - del.Len()

	if del.IsEmpty() {
		p := del.Start
		out := iv
		if iv.Start > p {
			out.Start += delta
		}
		if iv.End > p || (iv.End == p && iv.Start == p) {
			out.End += delta
		}
		return out.Normalize(), true
	}

	if del.Contains(iv) {
		return Interval{}, false
	}

	out := Interval{
		Start: chopPoint(iv.Start, del, newLen),
		End:   chopPoint(iv.End, del, newLen),
	}
	return out.Normalize(), true
}

func chopPoint(x float64, del Interval, newLen float64) float64 {
	switch {
	case x <= del.Start:
		return x
	case x >= del.End:
		return x + newLen - del.Len()
	default:
		return del.Start + (x-del.Start)*newLen/del.Len()
	}
}

// String formats the interval as "[start,end)".
func (iv Interval) String() string {
	return fmt.Sprintf("[%g,%g)", iv.Start, iv.End)
}
