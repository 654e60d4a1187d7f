package geometry

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPinPositionRightAngles(t *testing.T) {
	origin := Point{X: 10, Y: 10}
	rel := Point{X: 5, Y: 0}

	tests := []struct {
		rot  Rotation
		want Point
	}{
		{R0, Point{X: 15, Y: 10}},
		{R90, Point{X: 10, Y: 15}},
		{R180, Point{X: 5, Y: 10}},
		{R270, Point{X: 10, Y: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.rot.String(), func(t *testing.T) {
			if got := PinPosition(origin, tt.rot, rel); got != tt.want {
				t.Errorf("PinPosition(%v, %v, %v) = %v, want %v", origin, tt.rot, rel, got, tt.want)
			}
		})
	}
}

func TestPinPositionUnknownRotationTranslatesOnly(t *testing.T) {
	got := PinPosition(Point{X: 1, Y: 2}, Rotation(45), Point{X: 3, Y: 4})
	if want := (Point{X: 4, Y: 6}); got != want {
		t.Errorf("PinPosition with rotation 45 = %v, want %v", got, want)
	}
}

func TestTransformBox(t *testing.T) {
	box := BoxOf(0, 0, 4, 2)

	tests := []struct {
		name   string
		origin Point
		rot    Rotation
		want   Box
	}{
		{"identity", Point{}, R0, BoxOf(0, 0, 4, 2)},
		{"quarter turn", Point{}, R90, BoxOf(-2, 0, 0, 4)},
		{"translated half turn", Point{X: 10, Y: 10}, R180, BoxOf(6, 8, 10, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TransformBox(box, tt.origin, tt.rot)
			if !approx(got.Min.X, tt.want.Min.X) || !approx(got.Min.Y, tt.want.Min.Y) ||
				!approx(got.Max.X, tt.want.Max.X) || !approx(got.Max.Y, tt.want.Max.Y) {
				t.Errorf("TransformBox(%v, %v, %v) = %v, want %v", box, tt.origin, tt.rot, got, tt.want)
			}
		})
	}

	if !TransformBox(NewBox(), Point{X: 3}, R90).IsEmpty() {
		t.Error("transformed empty box should stay empty")
	}
}

func TestParseRotation(t *testing.T) {
	tests := []struct {
		in   string
		want Rotation
	}{
		{"", R0},
		{"R0", R0},
		{"R90", R90},
		{"MR180", R180},
		{"SR270", R270},
		{"45", Rotation(45)},
	}
	for _, tt := range tests {
		got, err := ParseRotation(tt.in)
		if err != nil {
			t.Errorf("ParseRotation(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRotation(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseRotation("Rx"); err == nil {
		t.Error("expected error for rotation \"Rx\"")
	}
}

func TestSegmentIntersectsBox(t *testing.T) {
	box := BoxOf(0, 0, 10, 10)

	tests := []struct {
		name string
		seg  Segment
		want bool
	}{
		{"endpoint inside", Seg(5, 5, 20, 5), true},
		{"crosses through", Seg(-5, 5, 15, 5), true},
		{"vertical through", Seg(5, -5, 5, 15), true},
		{"passes above", Seg(-5, 12, 15, 12), false},
		{"passes left", Seg(-1, -5, -1, 15), false},
		{"endpoint on edge", Seg(10, 5, 20, 5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentIntersectsBox(tt.seg, box); got != tt.want {
				t.Errorf("SegmentIntersectsBox(%v) = %v, want %v", tt.seg, got, tt.want)
			}
		})
	}

	if SegmentIntersectsBox(Seg(0, 0, 1, 1), NewBox()) {
		t.Error("no segment should intersect an empty box")
	}
}

func TestBoxExpand(t *testing.T) {
	b := NewBox()
	if !b.IsEmpty() {
		t.Fatal("NewBox should be empty")
	}

	b.Expand(Point{X: 1, Y: 2})
	b.Expand(Point{X: -3, Y: 4})
	if want := BoxOf(-3, 2, 1, 4); b != want {
		t.Errorf("expanded box = %v, want %v", b, want)
	}
	if b.Width() != 4 || b.Height() != 2 {
		t.Errorf("size = %vx%v, want 4x2", b.Width(), b.Height())
	}

	b.ExpandBox(NewBox())
	if want := BoxOf(-3, 2, 1, 4); b != want {
		t.Errorf("expanding by an empty box changed it to %v", b)
	}
}
