package geometry

// Segment is a straight line between two points.
type Segment struct {
	A Point
	B Point
}

// Seg is shorthand for building a segment from raw coordinates.
func Seg(x1, y1, x2, y2 float64) Segment {
	return Segment{A: Point{X: x1, Y: y1}, B: Point{X: x2, Y: y2}}
}

// IsHorizontal reports whether both endpoints share a y coordinate.
func (s Segment) IsHorizontal() bool { return s.A.Y == s.B.Y }

// IsVertical reports whether both endpoints share an x coordinate.
func (s Segment) IsVertical() bool { return s.A.X == s.B.X }

// IsZero reports whether the segment has no length.
func (s Segment) IsZero() bool { return s.A == s.B }

// Length returns the Manhattan length of the segment.
func (s Segment) Length() float64 {
	return abs(s.B.X-s.A.X) + abs(s.B.Y-s.A.Y)
}

// ccw reports whether a, b, c make a strict counter-clockwise turn.
func ccw(a, b, c Point) bool {
	return (c.Y-a.Y)*(b.X-a.X) > (b.Y-a.Y)*(c.X-a.X)
}

// SegmentsCross reports a proper crossing of p1p2 and p3p4. Collinear and
// touching configurations do not count.
func SegmentsCross(p1, p2, p3, p4 Point) bool {
	return ccw(p1, p3, p4) != ccw(p2, p3, p4) && ccw(p1, p2, p3) != ccw(p1, p2, p4)
}

// SegmentIntersectsBox reports whether seg touches box: either endpoint lies
// inside it, or the segment crosses one of its four edges.
func SegmentIntersectsBox(seg Segment, box Box) bool {
	if box.IsEmpty() {
		return false
	}
	if box.Contains(seg.A) || box.Contains(seg.B) {
		return true
	}

	c := [4]Point{
		{X: box.Min.X, Y: box.Min.Y},
		{X: box.Max.X, Y: box.Min.Y},
		{X: box.Max.X, Y: box.Max.Y},
		{X: box.Min.X, Y: box.Max.Y},
	}
	for i := 0; i < 4; i++ {
		if SegmentsCross(seg.A, seg.B, c[i], c[(i+1)%4]) {
			return true
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
