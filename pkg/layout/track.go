package layout

import (
	"cmp"
	"maps"
	"slices"

	"github.com/biogo/store/interval"

	"github.com/matzehuels/backbone/pkg/errors"
	"github.com/matzehuels/backbone/pkg/geom"
)

// Handle identifies the source of a placed unit without owning it. The
// part and location live in the document the layout was computed from.
type Handle struct {
	// Part is the URI of the owning child.
	Part string `json:"part"`
	// Location is the URI of the location, empty for whole-part units.
	Location string `json:"location,omitempty"`
	// LocationIndex is the position of the location within the part, or -1.
	LocationIndex int `json:"location_index"`
}

// Key returns the identity under which a unit is placed.
func (h Handle) Key() string {
	if h.Location != "" {
		return h.Location
	}
	return h.Part
}

// Unit is a placed part or part location.
type Unit struct {
	Handle  Handle
	Range   geom.Interval
	Forward bool
	Track   int
}

// Track is one row of a placement group. Forward and Reverse record the
// ranges used on each strand; ranges on the same strand never overlap.
type Track struct {
	Index   int
	Units   []*Unit
	Forward geom.Set
	Reverse geom.Set

	fwd, rev *interval.Tree
	nextID   uintptr
}

func newTrack(index int) *Track {
	return &Track{Index: index, fwd: &interval.Tree{}, rev: &interval.Tree{}}
}

// Overlaps reports whether r intersects a range already used on the given
// strand of the track.
func (t *Track) Overlaps(r geom.Interval, forward bool) bool {
	r = r.Normalize()
	if r.IsEmpty() {
		return false
	}
	tree := t.rev
	if forward {
		tree = t.fwd
	}
	return len(tree.Get(newSpan(r, 0))) > 0
}

func (t *Track) add(u *Unit) error {
	t.Units = append(t.Units, u)
	if u.Forward {
		t.Forward.Add(u.Range)
		return t.insert(t.fwd, u.Range)
	}
	t.Reverse.Add(u.Range)
	return t.insert(t.rev, u.Range)
}

func (t *Track) insert(tree *interval.Tree, r geom.Interval) error {
	if r.IsEmpty() {
		return nil
	}
	t.nextID++
	if err := tree.Insert(newSpan(r, t.nextID), false); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "index range %s on track %d", r, t.Index)
	}
	return nil
}

// reindex rebuilds the overlap index from the usage sets.
func (t *Track) reindex() error {
	t.fwd, t.rev, t.nextID = &interval.Tree{}, &interval.Tree{}, 0
	for _, r := range t.Forward {
		if err := t.insert(t.fwd, r); err != nil {
			return err
		}
	}
	for _, r := range t.Reverse {
		if err := t.insert(t.rev, r); err != nil {
			return err
		}
	}
	return nil
}

// checkDisjoint reports the first pair of overlapping ranges in a sorted set.
func checkDisjoint(s geom.Set) (geom.Interval, geom.Interval, bool) {
	var furthest geom.Interval
	seen := false
	for _, iv := range s {
		if iv.IsEmpty() {
			continue
		}
		if seen && iv.Start < furthest.End {
			return furthest, iv, false
		}
		if !seen || iv.End > furthest.End {
			furthest, seen = iv, true
		}
	}
	return geom.Interval{}, geom.Interval{}, true
}

// =============================================================================
// Overlap index
// =============================================================================

// coord is a grid coordinate usable as an interval tree bound.
type coord float64

func (c coord) Compare(b interval.Comparable) int {
	return cmp.Compare(c, b.(coord))
}

// span is a half-open range stored in a track's interval tree.
type span struct {
	start, end coord
	id         uintptr
}

func newSpan(r geom.Interval, id uintptr) span {
	return span{start: coord(r.Start), end: coord(r.End), id: id}
}

func (s span) Overlap(b interval.Range) bool {
	return s.end > b.Start().(coord) && s.start < b.End().(coord)
}
func (s span) ID() uintptr                  { return s.id }
func (s span) Start() interval.Comparable   { return s.start }
func (s span) End() interval.Comparable     { return s.end }
func (s span) NewMutable() interval.Mutable { return &mutableSpan{s.start, s.end} }

type mutableSpan struct{ start, end coord }

func (m *mutableSpan) Start() interval.Comparable     { return m.start }
func (m *mutableSpan) End() interval.Comparable       { return m.end }
func (m *mutableSpan) SetStart(c interval.Comparable) { m.start = c.(coord) }
func (m *mutableSpan) SetEnd(c interval.Comparable)   { m.end = c.(coord) }

// =============================================================================
// Placement group
// =============================================================================

// Group is the layout of one connected component.
type Group struct {
	// Tracks maps track index to track. Index 0 is the main backbone.
	Tracks map[int]*Track

	// Length is the extent of the backbone: the furthest end of any placed
	// range, or the container's sequence length if that is longer.
	Length float64

	// Used holds every placed range.
	Used geom.Set

	// Omitted holds one unit-length marker per collapsed gap, in final
	// coordinates.
	Omitted geom.Set

	// OmittedSpans holds each collapsed gap as it was before collapsing.
	OmittedSpans geom.Set

	units  []*Unit
	byKey  map[string]*Unit
	byPart map[string][]*Unit
	bound  geom.Interval
}

func newGroup(length float64) *Group {
	return &Group{
		Tracks: make(map[int]*Track),
		Length: max(length, 0),
		byKey:  make(map[string]*Unit),
		byPart: make(map[string][]*Unit),
	}
}

// Units returns the placed units in placement order.
func (g *Group) Units() []*Unit { return g.units }

// Unit returns the unit placed under key (a location URI, or a part URI for
// parts without locations).
func (g *Group) Unit(key string) (*Unit, bool) {
	u, ok := g.byKey[key]
	return u, ok
}

// PartUnits returns the units placed for the part with the given URI.
func (g *Group) PartUnits(uri string) []*Unit { return g.byPart[uri] }

// TrackIndices returns the indices of all tracks in ascending order.
func (g *Group) TrackIndices() []int {
	return slices.Sorted(maps.Keys(g.Tracks))
}

// trackFor returns the first track, walking outward from 0, whose usage on
// the given strand does not overlap r. Forward ranges walk toward negative
// indices, reverse ranges toward positive ones. Tracks are created on demand.
func (g *Group) trackFor(r geom.Interval, forward bool) *Track {
	step := 1
	if forward {
		step = -1
	}
	for i := 0; ; i += step {
		t, ok := g.Tracks[i]
		if !ok {
			t = newTrack(i)
			g.Tracks[i] = t
			return t
		}
		if !t.Overlaps(r, forward) {
			return t
		}
	}
}

// place records a unit at r. Placing the same handle twice is fatal.
func (g *Group) place(h Handle, r geom.Interval, forward bool) (*Unit, error) {
	key := h.Key()
	if prev, dup := g.byKey[key]; dup {
		return nil, errors.New(errors.ErrCodeDuplicatePlacement,
			"%s is already placed at %s on track %d", key, prev.Range, prev.Track)
	}

	r = r.Normalize()
	t := g.trackFor(r, forward)
	u := &Unit{Handle: h, Range: r, Forward: forward, Track: t.Index}
	if err := t.add(u); err != nil {
		return nil, err
	}

	g.Used.Add(r)
	g.units = append(g.units, u)
	g.byKey[key] = u
	g.byPart[h.Part] = append(g.byPart[h.Part], u)
	g.Length = max(g.Length, r.End)
	return u, nil
}

// anchor returns the span covered by the placed units of a part and the
// strand of the first of them.
func (g *Group) anchor(part string) (geom.Interval, bool, bool) {
	units := g.byPart[part]
	if len(units) == 0 {
		return geom.Interval{}, false, false
	}
	var set geom.Set
	for _, u := range units {
		set = append(set, u.Range)
	}
	b, _ := set.Bounds()
	return b, units[0].Forward, true
}

// finish orders each track's units by position and checks that no two
// same-strand ranges share a track.
func (g *Group) finish() error {
	for _, t := range g.Tracks {
		slices.SortStableFunc(t.Units, func(a, b *Unit) int {
			return cmp.Compare(a.Range.Start, b.Range.Start)
		})
		for _, s := range []geom.Set{t.Forward, t.Reverse} {
			if a, b, ok := checkDisjoint(s); !ok {
				return errors.New(errors.ErrCodeInternal, "track %d: ranges %s and %s overlap", t.Index, a, b)
			}
		}
	}
	return nil
}
