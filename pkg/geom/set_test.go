package geom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetAddKeepsOrder(t *testing.T) {
	var s Set
	s.Add(Interval{5, 9})
	s.Add(Interval{1, 2})
	s.Add(Interval{3, 0})
	s.Add(Interval{5, 6})

	want := Set{{0, 3}, {1, 2}, {5, 6}, {5, 9}}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Add() mismatch (-want +got):\n%s", diff)
	}
}

func TestSetFlatten(t *testing.T) {
	tests := []struct {
		name string
		in   Set
		want Set
	}{
		{"empty", nil, nil},
		{"disjoint", Set{{0, 1}, {2, 3}}, Set{{0, 1}, {2, 3}}},
		{"overlapping", Set{{0, 5}, {3, 8}, {10, 12}}, Set{{0, 8}, {10, 12}}},
		{"touching", Set{{0, 5}, {5, 8}}, Set{{0, 8}}},
		{"nested unsorted", Set{{2, 3}, {0, 10}}, Set{{0, 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.in.Flatten()); diff != "" {
				t.Errorf("Flatten() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetInvert(t *testing.T) {
	tests := []struct {
		name  string
		in    Set
		bound Interval
		want  Set
	}{
		{"empty set", nil, Interval{0, 10}, Set{{0, 10}}},
		{"inner gap", Set{{0, 5}, {50, 55}}, Interval{0, 100}, Set{{5, 50}, {55, 100}}},
		{"leading gap", Set{{3, 5}}, Interval{0, 5}, Set{{0, 3}}},
		{"fully covered", Set{{0, 10}}, Interval{0, 10}, nil},
		{"member beyond bound", Set{{0, 2}, {8, 20}}, Interval{0, 10}, Set{{2, 8}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.in.Invert(tt.bound)); diff != "" {
				t.Errorf("Invert() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetIntersects(t *testing.T) {
	s := Set{{0, 5}, {10, 15}}
	tests := []struct {
		q    Interval
		want bool
	}{
		{Interval{5, 10}, false},
		{Interval{4, 6}, true},
		{Interval{14, 20}, true},
		{Interval{15, 20}, false},
		{Interval{-3, 0}, false},
	}

	for _, tt := range tests {
		if got := s.Intersects(tt.q); got != tt.want {
			t.Errorf("Intersects(%v) = %v, want %v", tt.q, got, tt.want)
		}
	}
}

func TestSetChop(t *testing.T) {
	s := Set{{0, 5}, {10, 20}, {50, 55}}
	got := s.Chop(Interval{5, 50}, 1)

	want := Set{{0, 5}, {6, 11}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Chop() mismatch (-want +got):\n%s", diff)
	}
	if len(s) != 3 || s[2] != (Interval{50, 55}) {
		t.Errorf("Chop() mutated its receiver: %v", s)
	}
}

func TestSetChopEmptyDeletionIsNoop(t *testing.T) {
	s := Set{{0, 5}, {2.5, 7}, {10, 20}}
	for _, at := range []float64{0, 2.5, 5, 12, 30} {
		got := s.Chop(Interval{at, at}, 0)
		if diff := cmp.Diff(s, got); diff != "" {
			t.Errorf("Chop at %v mismatch (-want +got):\n%s", at, diff)
		}
	}
}

func TestSetBounds(t *testing.T) {
	if _, ok := (Set{}).Bounds(); ok {
		t.Error("Bounds() of empty set should report false")
	}
	b, ok := Set{{4, 6}, {-1, 2}, {3, 9}}.Bounds()
	if !ok || b != (Interval{-1, 9}) {
		t.Errorf("Bounds() = %v, %v; want [-1,9), true", b, ok)
	}
}
