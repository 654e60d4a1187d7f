// Package symbol models schematic symbol geometry and loads it from component
// libraries (EAGLE .lbr, KiCad .kicad_sym, or the built-in set).
package symbol

import (
	"math"

	"github.com/OpenTraceLab/schwire/pkg/geometry"
)

// Wire is a drawn line of the symbol body.
type Wire struct {
	X1, Y1 float64
	X2, Y2 float64
	Width  float64
	Layer  int
}

// Rectangle is a filled rectangle of the symbol body.
type Rectangle struct {
	X1, Y1 float64
	X2, Y2 float64
	Layer  int
}

// Circle is a circle of the symbol body.
type Circle struct {
	X, Y   float64
	Radius float64
	Width  float64
	Layer  int
}

// Text is a text label placed on the symbol (e.g. ">NAME").
type Text struct {
	X, Y  float64
	Size  float64
	Layer int
	Value string
}

// Pin is a named terminal. X and Y locate the connection point relative to
// the symbol origin.
type Pin struct {
	Name      string
	X, Y      float64
	Direction string // in, out, io, oc, pwr, pas, hiz, sup, nc
	Length    string // point, short, middle, long
	Visible   string
	Rotation  geometry.Rotation
}

// Position returns the pin's connection point relative to the symbol origin.
func (p Pin) Position() geometry.Point {
	return geometry.Point{X: p.X, Y: p.Y}
}

// Symbol is the drawing of one device variant.
type Symbol struct {
	Name       string
	Wires      []Wire
	Rectangles []Rectangle
	Circles    []Circle
	Texts      []Text
	Pins       []Pin

	bounds *geometry.Box
}

// Bounds returns the bounding box of the drawn body. Only wires, rectangles
// and circles count; pins and texts may stick out of it. The box is computed
// on first use and cached. A symbol with no body returns an empty box.
func (s *Symbol) Bounds() geometry.Box {
	if s.bounds != nil {
		return *s.bounds
	}

	box := geometry.NewBox()
	for _, w := range s.Wires {
		box.Expand(geometry.Point{X: math.Min(w.X1, w.X2), Y: math.Min(w.Y1, w.Y2)})
		box.Expand(geometry.Point{X: math.Max(w.X1, w.X2), Y: math.Max(w.Y1, w.Y2)})
	}
	for _, r := range s.Rectangles {
		box.Expand(geometry.Point{X: r.X1, Y: r.Y1})
		box.Expand(geometry.Point{X: r.X2, Y: r.Y2})
	}
	for _, c := range s.Circles {
		box.Expand(geometry.Point{X: c.X - c.Radius, Y: c.Y - c.Radius})
		box.Expand(geometry.Point{X: c.X + c.Radius, Y: c.Y + c.Radius})
	}

	s.bounds = &box
	return box
}

// Pin looks up a pin by name.
func (s *Symbol) Pin(name string) (Pin, bool) {
	for _, p := range s.Pins {
		if p.Name == name {
			return p, true
		}
	}
	return Pin{}, false
}

// PinNames returns pin names in declaration order.
func (s *Symbol) PinNames() []string {
	names := make([]string, len(s.Pins))
	for i, p := range s.Pins {
		names[i] = p.Name
	}
	return names
}

// DeviceSet is a device set declared by a library, used to validate device
// and package names.
type DeviceSet struct {
	Name    string
	Prefix  string
	Gates   map[string]string // gate name -> symbol name
	Devices []Device
}

// Device is one package variant of a device set.
type Device struct {
	Name    string
	Package string
}

// Library is a loaded component library.
type Library struct {
	Name       string
	Path       string
	Symbols    []*Symbol
	DeviceSets []DeviceSet
	Packages   []string
}

// Symbol looks up a symbol by name.
func (l *Library) Symbol(name string) (*Symbol, error) {
	for _, s := range l.Symbols {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, &SymbolNotFoundError{Library: l.Name, Name: name}
}

// HasPackage reports whether the library declares a package of that name.
// Libraries that declare no packages accept any name.
func (l *Library) HasPackage(name string) bool {
	if len(l.Packages) == 0 {
		return true
	}
	for _, p := range l.Packages {
		if p == name {
			return true
		}
	}
	return false
}
