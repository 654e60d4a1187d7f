package router

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/OpenTraceLab/schwire/pkg/geometry"
)

func pt(x, y float64) geometry.Point { return geometry.Point{X: x, Y: y} }

func TestClassify(t *testing.T) {
	tests := []struct {
		end  geometry.Point
		want Quadrant
	}{
		{pt(1, 1), RightUp},
		{pt(1, -1), RightDown},
		{pt(1, 0), RightDown},
		{pt(-1, 1), LeftUp},
		{pt(0, 1), LeftUp},
		{pt(-1, -1), LeftDown},
	}
	for _, tt := range tests {
		if got := Classify(pt(0, 0), tt.end); got != tt.want {
			t.Errorf("Classify(origin, %v) = %v, want %v", tt.end, got, tt.want)
		}
	}
}

func TestRouteStraight(t *testing.T) {
	tests := []struct {
		name       string
		start, end geometry.Point
		offset     float64
		want       geometry.Segment
	}{
		{"horizontal", pt(0, 0), pt(10, 0), 2, geometry.Seg(0, 0, 10, 0)},
		{"vertical", pt(3, 0), pt(3, -8), 4, geometry.Seg(3, 0, 3, -8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := Route(tt.start, tt.end, nil, tt.offset)
			if len(segs) != 1 {
				t.Fatalf("expected 1 segment, got %d: %v", len(segs), segs)
			}
			if segs[0] != tt.want {
				t.Errorf("segment = %v, want %v", segs[0], tt.want)
			}
		})
	}
}

func TestRouteStaircases(t *testing.T) {
	tests := []struct {
		name       string
		start, end geometry.Point
		want       []geometry.Segment
	}{
		{
			name:  "right up",
			start: pt(0, 0), end: pt(10, 5),
			want: []geometry.Segment{
				geometry.Seg(0, 0, 0, 2),
				geometry.Seg(0, 2, 10, 2),
				geometry.Seg(10, 2, 10, 5),
			},
		},
		{
			name:  "right down",
			start: pt(0, 5), end: pt(10, 0),
			want: []geometry.Segment{
				geometry.Seg(0, 5, 0, 7),
				geometry.Seg(0, 7, 10, 7),
				geometry.Seg(10, 7, 10, 0),
			},
		},
		{
			name:  "left up",
			start: pt(10, 0), end: pt(0, 5),
			want: []geometry.Segment{
				geometry.Seg(10, 0, 10, 2),
				geometry.Seg(10, 2, 2, 2),
				geometry.Seg(2, 2, 2, 5),
				geometry.Seg(2, 5, 0, 5),
			},
		},
		{
			name:  "left down",
			start: pt(10, 5), end: pt(0, 0),
			want: []geometry.Segment{
				geometry.Seg(10, 5, 10, 7),
				geometry.Seg(10, 7, -2, 7),
				geometry.Seg(-2, 7, -2, 0),
				geometry.Seg(-2, 0, 0, 0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Route(tt.start, tt.end, nil, 2); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Route(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestRouteZeroOffsetDropsEmptySegments(t *testing.T) {
	got := Route(pt(0, 0), pt(4, 3), nil, 0)

	want := []geometry.Segment{
		geometry.Seg(0, 0, 4, 0),
		geometry.Seg(4, 0, 4, 3),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Route with zero offset = %v, want %v", got, want)
	}
}

func TestRouteDetoursAroundObstacle(t *testing.T) {
	obstacle := geometry.BoxOf(8, -1, 12, 1)

	segs := Route(pt(0, 0), pt(20, 0), []geometry.Box{obstacle}, 2)

	want := []geometry.Segment{
		geometry.Seg(0, 0, 0, -4),
		geometry.Seg(0, -4, 20, -4),
		geometry.Seg(20, -4, 20, 0),
	}
	if !reflect.DeepEqual(segs, want) {
		t.Errorf("detour = %v, want %v", segs, want)
	}
	if n := Collisions(segs, []geometry.Box{obstacle}); n != 0 {
		t.Errorf("detour still has %d collisions", n)
	}
}

func TestRouteSingleRetryKeepsGeometry(t *testing.T) {
	// Obstacle so tall neither the direct nor the detour path can avoid it.
	obstacle := geometry.BoxOf(8, -50, 12, 50)

	segs := Route(pt(0, 0), pt(20, 0), []geometry.Box{obstacle}, 2)

	if len(segs) == 0 {
		t.Fatal("expected a route")
	}
	if segs[0].A != pt(0, 0) || segs[len(segs)-1].B != pt(20, 0) {
		t.Errorf("route runs %v -> %v, want (0,0) -> (20,0)", segs[0].A, segs[len(segs)-1].B)
	}
	if Collisions(segs, []geometry.Box{obstacle}) == 0 {
		t.Error("expected the kept detour to collide")
	}
}

func TestRouteIsOrthogonalAndContinuous(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	obstacles := []geometry.Box{
		geometry.BoxOf(20, 20, 30, 30),
		geometry.BoxOf(-30, -10, -20, 0),
	}

	for i := 0; i < 200; i++ {
		start := pt(float64(rng.Intn(100)-50), float64(rng.Intn(100)-50))
		end := pt(float64(rng.Intn(100)-50), float64(rng.Intn(100)-50))
		if start == end {
			continue
		}
		offset := float64(rng.Intn(10))

		segs := Route(start, end, obstacles, offset)
		if len(segs) == 0 {
			t.Fatalf("Route(%v, %v, offset %v) returned no segments", start, end, offset)
		}
		if segs[0].A != start || segs[len(segs)-1].B != end {
			t.Errorf("Route(%v, %v) runs %v -> %v", start, end, segs[0].A, segs[len(segs)-1].B)
		}

		for j, s := range segs {
			if !s.IsHorizontal() && !s.IsVertical() {
				t.Errorf("diagonal segment %v", s)
			}
			if s.IsZero() {
				t.Errorf("zero-length segment in %v", segs)
			}
			if j > 0 && segs[j-1].B != s.A {
				t.Errorf("path breaks between %v and %v", segs[j-1], s)
			}
		}
	}
}

func TestRouterOffsetProgression(t *testing.T) {
	r := New(2, 1)
	if r.Offset() != 2 {
		t.Fatalf("initial offset = %v, want 2", r.Offset())
	}

	first := r.Next(pt(0, 0), pt(10, 5), nil)
	if want := geometry.Seg(0, 0, 0, 2); first[0] != want {
		t.Errorf("first route starts %v, want %v", first[0], want)
	}
	if r.Offset() != 3 {
		t.Errorf("offset after one route = %v, want 3", r.Offset())
	}

	second := r.Next(pt(0, 0), pt(10, 5), nil)
	if want := geometry.Seg(0, 0, 0, 3); second[0] != want {
		t.Errorf("second route starts %v, want %v", second[0], want)
	}

	r.Reset()
	if r.Offset() != 2 {
		t.Errorf("offset after Reset = %v, want 2", r.Offset())
	}
}
