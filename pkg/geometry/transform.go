package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Rotation is an instance rotation in degrees, counter-clockwise.
type Rotation float64

// Right-angle rotations understood by PinPosition.
const (
	R0   Rotation = 0
	R90  Rotation = 90
	R180 Rotation = 180
	R270 Rotation = 270
)

// ParseRotation accepts EAGLE rotation attributes ("R90", "MR180", "SR0")
// and plain degree values ("90", "45.5"). Mirror and spin flags are ignored.
func ParseRotation(s string) (Rotation, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return R0, nil
	}
	v = strings.TrimLeft(strings.ToUpper(v), "SM")
	v = strings.TrimPrefix(v, "R")
	deg, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return R0, fmt.Errorf("geometry: invalid rotation %q", s)
	}
	return Rotation(deg), nil
}

// String renders the rotation in EAGLE notation.
func (r Rotation) String() string {
	return "R" + strconv.FormatFloat(float64(r), 'f', -1, 64)
}

// Radians returns the rotation angle in radians.
func (r Rotation) Radians() float64 {
	return float64(r) * math.Pi / 180.0
}

// IsRightAngle reports whether r is one of 0, 90, 180 or 270 degrees.
func (r Rotation) IsRightAngle() bool {
	switch r {
	case R0, R90, R180, R270:
		return true
	}
	return false
}

// PinPosition returns the absolute position of a symbol-relative offset on an
// instance placed at origin with rotation rot. Only right angles rotate the
// offset; any other value is treated as translation only.
func PinPosition(origin Point, rot Rotation, rel Point) Point {
	switch rot {
	case R90:
		return Point{X: origin.X - rel.Y, Y: origin.Y + rel.X}
	case R180:
		return Point{X: origin.X - rel.X, Y: origin.Y - rel.Y}
	case R270:
		return Point{X: origin.X + rel.Y, Y: origin.Y - rel.X}
	default:
		return Point{X: origin.X + rel.X, Y: origin.Y + rel.Y}
	}
}

// TransformBox rotates the four corners of box by rot around the symbol
// origin, translates them to origin and returns their axis-aligned envelope.
// Unlike PinPosition this accepts any angle.
func TransformBox(box Box, origin Point, rot Rotation) Box {
	if box.IsEmpty() {
		return NewBox()
	}

	rad := rot.Radians()
	cos, sin := math.Cos(rad), math.Sin(rad)
	rm := mat.NewDense(2, 2, []float64{
		cos, -sin,
		sin, cos,
	})

	corners := box.Corners()
	cm := mat.NewDense(2, 4, []float64{
		corners[0].X, corners[1].X, corners[2].X, corners[3].X,
		corners[0].Y, corners[1].Y, corners[2].Y, corners[3].Y,
	})

	var rotated mat.Dense
	rotated.Mul(rm, cm)

	out := NewBox()
	for j := 0; j < 4; j++ {
		out.Expand(Point{
			X: rotated.At(0, j) + origin.X,
			Y: rotated.At(1, j) + origin.Y,
		})
	}
	return out
}
