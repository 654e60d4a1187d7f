// Package router synthesizes orthogonal (Manhattan) wire paths between two pin
// positions, detouring around obstacle boxes.
//
// The router is a deterministic staircase heuristic, not a shortest-path
// search: it leaves the start pin vertically by an offset, runs horizontally,
// then finishes on the remaining vertical leg. Each segment of that path is
// checked against the supplied obstacles and a colliding segment is replaced
// once by a staircase with a doubled, sign-flipped offset. The replacement is
// not checked again, so the result can still cross an obstacle.
package router

import "github.com/OpenTraceLab/schwire/pkg/geometry"

// Quadrant is the direction of the end point relative to the start point.
type Quadrant int

const (
	RightUp Quadrant = iota
	RightDown
	LeftUp
	LeftDown
)

func (q Quadrant) String() string {
	switch q {
	case RightUp:
		return "right_up"
	case RightDown:
		return "right_down"
	case LeftUp:
		return "left_up"
	case LeftDown:
		return "left_down"
	}
	return "unknown"
}

// Classify returns the quadrant of end relative to start. A zero dx counts as
// left and a zero dy counts as down.
func Classify(start, end geometry.Point) Quadrant {
	dx := end.X - start.X
	dy := end.Y - start.Y
	if dx > 0 {
		if dy > 0 {
			return RightUp
		}
		return RightDown
	}
	if dy > 0 {
		return LeftUp
	}
	return LeftDown
}

// staircase returns the vertices after start of the detour path to end.
func staircase(start, end geometry.Point, offset float64) []geometry.Point {
	y := start.Y + offset
	switch Classify(start, end) {
	case LeftUp:
		x := end.X + offset
		return []geometry.Point{{X: start.X, Y: y}, {X: x, Y: y}, {X: x, Y: end.Y}, end}
	case LeftDown:
		x := end.X - offset
		return []geometry.Point{{X: start.X, Y: y}, {X: x, Y: y}, {X: x, Y: end.Y}, end}
	default:
		return []geometry.Point{{X: start.X, Y: y}, {X: end.X, Y: y}, end}
	}
}

// Route returns the segments of an orthogonal path from start to end.
// Endpoints sharing an axis are joined by a single straight segment before
// obstacle checking; everything else takes the staircase for offset.
func Route(start, end geometry.Point, obstacles []geometry.Box, offset float64) []geometry.Segment {
	path := []geometry.Point{start, end}
	if start.X != end.X && start.Y != end.Y {
		path = append([]geometry.Point{start}, staircase(start, end, offset)...)
	}

	out := []geometry.Point{path[0]}
	for _, cur := range path[1:] {
		prev := out[len(out)-1]
		if collides(geometry.Segment{A: prev, B: cur}, obstacles) {
			out = append(out, staircase(prev, cur, -2*offset)...)
			continue
		}
		out = append(out, cur)
	}

	return segments(out)
}

// Collisions counts segments that still touch at least one obstacle.
func Collisions(segs []geometry.Segment, obstacles []geometry.Box) int {
	n := 0
	for _, s := range segs {
		if collides(s, obstacles) {
			n++
		}
	}
	return n
}

func collides(seg geometry.Segment, obstacles []geometry.Box) bool {
	for _, box := range obstacles {
		if geometry.SegmentIntersectsBox(seg, box) {
			return true
		}
	}
	return false
}

func segments(points []geometry.Point) []geometry.Segment {
	segs := make([]geometry.Segment, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		s := geometry.Segment{A: points[i-1], B: points[i]}
		if s.IsZero() {
			continue
		}
		segs = append(segs, s)
	}
	return segs
}

// Router routes connections one after another, handing each a larger detour
// offset than the last so unrelated wires spread apart.
type Router struct {
	initial float64
	step    float64
	offset  float64
}

// New creates a router whose first route uses initial and every following
// route adds step.
func New(initial, step float64) *Router {
	return &Router{initial: initial, step: step, offset: initial}
}

// Offset returns the offset the next route will use.
func (r *Router) Offset() float64 {
	return r.offset
}

// Next routes start to end with the current offset and advances it.
func (r *Router) Next(start, end geometry.Point, obstacles []geometry.Box) []geometry.Segment {
	segs := Route(start, end, obstacles, r.offset)
	r.offset += r.step
	return segs
}

// Reset rewinds the offset to its initial value.
func (r *Router) Reset() {
	r.offset = r.initial
}
