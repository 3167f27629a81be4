package geom

import "testing"

func TestIntervalNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Interval
		want Interval
	}{
		{"ordered", Interval{1, 4}, Interval{1, 4}},
		{"inverted", Interval{4, 1}, Interval{1, 4}},
		{"empty", Interval{3, 3}, Interval{3, 3}},
		{"negative", Interval{-2, -6}, Interval{-6, -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntervalIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"overlap", Interval{0, 5}, Interval{3, 8}, true},
		{"touching", Interval{0, 5}, Interval{5, 8}, false},
		{"disjoint", Interval{0, 2}, Interval{3, 4}, false},
		{"contained", Interval{0, 10}, Interval{2, 3}, true},
		{"point inside", Interval{0, 10}, Interval{4, 4}, true},
		{"point at edge", Interval{0, 10}, Interval{0, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("%v.Intersects(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("%v.Intersects(%v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestIntervalChop(t *testing.T) {
	tests := []struct {
		name   string
		iv     Interval
		del    Interval
		newLen float64
		want   Interval
		wantOK bool
	}{
		{"before deletion", Interval{0, 5}, Interval{5, 50}, 1, Interval{0, 5}, true},
		{"after deletion", Interval{50, 55}, Interval{5, 50}, 1, Interval{6, 11}, true},
		{"inside deletion removed", Interval{10, 20}, Interval{5, 50}, 1, Interval{}, false},
		{"deletion equals interval", Interval{5, 50}, Interval{5, 50}, 1, Interval{}, false},
		{"spans deletion", Interval{0, 100}, Interval{5, 50}, 1, Interval{0, 56}, true},
		{"overlaps start of deletion", Interval{0, 10}, Interval{5, 15}, 5, Interval{0, 7.5}, true},
		{"overlaps end of deletion", Interval{10, 20}, Interval{5, 15}, 5, Interval{7.5, 15}, true},
		{"insertion inside grows", Interval{10, 10.5}, Interval{10.0001, 10.0001}, 1.5, Interval{10, 12}, true},
		{"insertion before shifts", Interval{20, 25}, Interval{10, 10}, 1.5, Interval{21.5, 26.5}, true},
		{"insertion after untouched", Interval{0, 5}, Interval{10, 10}, 1.5, Interval{0, 5}, true},
		{"degenerate at insertion grows", Interval{10, 10}, Interval{10, 10}, 2, Interval{10, 12}, true},
		{"touching insertion untouched", Interval{5, 10}, Interval{10, 10}, 2, Interval{5, 10}, true},
		{"empty deletion zero length no-op", Interval{3, 7}, Interval{5, 5}, 0, Interval{3, 7}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.iv.Chop(tt.del, tt.newLen)
			if ok != tt.wantOK {
				t.Fatalf("Chop() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Chop() = %v, want %v", got, tt.want)
			}
			if ok && got.Start > got.End {
				t.Errorf("Chop() returned non-normalized interval %v", got)
			}
		})
	}
}

func TestIntervalString(t *testing.T) {
	if got := (Interval{Start: 1.5, End: 4}).String(); got != "[1.5,4)" {
		t.Errorf("String() = %q, want %q", got, "[1.5,4)")
	}
}
