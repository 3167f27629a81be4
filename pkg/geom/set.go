package geom

import (
	"cmp"
	"slices"
	"strings"
)

// Set is a sorted collection of intervals. Members may overlap; use
// [Set.Flatten] to obtain disjoint runs. The zero value is an empty set.
//
// Mutating methods take a pointer receiver. Bulk transforms (Flatten,
// Invert, Chop) are pure and return a new Set.
type Set []Interval

// compareIntervals orders by Start, then End.
func compareIntervals(a, b Interval) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	return cmp.Compare(a.End, b.End)
}

// Add inserts a normalized copy of iv, keeping the set sorted.
func (s *Set) Add(iv Interval) {
	iv = iv.Normalize()
	i, _ := slices.BinarySearchFunc(*s, iv, compareIntervals)
	*s = slices.Insert(*s, i, iv)
}

// Sort restores ordering after members were edited in place.
func (s Set) Sort() {
	slices.SortStableFunc(s, compareIntervals)
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// Intersects reports whether any member intersects q.
func (s Set) Intersects(q Interval) bool {
	q = q.Normalize()
	for _, iv := range s {
		if iv.Start >= q.End && !q.IsEmpty() {
			// Sorted by start: nothing further can intersect.
			break
		}
		if iv.Intersects(q) {
			return true
		}
	}
	return false
}

// Bounds returns the smallest interval covering every member, and false
// when the set is empty.
func (s Set) Bounds() (Interval, bool) {
	if len(s) == 0 {
		return Interval{}, false
	}
	b := s[0]
	for _, iv := range s[1:] {
		b.Start = min(b.Start, iv.Start)
		b.End = max(b.End, iv.End)
	}
	return b, true
}

// Flatten merges overlapping and touching members into disjoint runs.
func (s Set) Flatten() Set {
	if len(s) == 0 {
		return nil
	}
	sorted := s.Clone()
	sorted.Sort()

	out := Set{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &out[len(out)-1]
		if iv.Start <= last.End {
			last.End = max(last.End, iv.End)
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Invert returns the non-empty gaps of bound not covered by any member,
// including the leading and trailing gaps between the members and the
// edges of bound. An empty set inverts to bound itself.
func (s Set) Invert(bound Interval) Set {
	bound = bound.Normalize()
	var out Set
	cursor := bound.Start
	for _, run := range s.Flatten() {
		if run.Start > cursor {
			gap := Interval{Start: cursor, End: min(run.Start, bound.End)}
			if !gap.IsEmpty() {
				out = append(out, gap)
			}
		}
		cursor = max(cursor, run.End)
		if cursor >= bound.End {
			return out
		}
	}
	if cursor < bound.End {
		out = append(out, Interval{Start: cursor, End: bound.End})
	}
	return out
}

// Chop applies [Interval.Chop] to every member and returns the surviving
// intervals, still sorted. Chopping an empty set yields nil.
func (s Set) Chop(del Interval, newLen float64) Set {
	var out Set
	for _, iv := range s {
		if c, ok := iv.Chop(del, newLen); ok {
			out = append(out, c)
		}
	}
	out.Sort()
	return out
}

// Filter returns the members for which keep returns true.
func (s Set) Filter(keep func(Interval) bool) Set {
	var out Set
	for _, iv := range s {
		if keep(iv) {
			out = append(out, iv)
		}
	}
	return out
}

// String formats the set as a space-separated list of intervals.
func (s Set) String() string {
	parts := make([]string, len(s))
	for i, iv := range s {
		parts[i] = iv.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}
