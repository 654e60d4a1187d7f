package symbol

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/OpenTraceLab/schwire/pkg/geometry"
)

// eagleLibrary mirrors the parts of an EAGLE .lbr document used here.
type eagleLibrary struct {
	XMLName    xml.Name         `xml:"eagle"`
	Packages   []eaglePackage   `xml:"drawing>library>packages>package"`
	Symbols    []eagleSymbol    `xml:"drawing>library>symbols>symbol"`
	DeviceSets []eagleDeviceSet `xml:"drawing>library>devicesets>deviceset"`
}

type eaglePackage struct {
	Name string `xml:"name,attr"`
}

type eagleSymbol struct {
	Name       string           `xml:"name,attr"`
	Wires      []eagleWire      `xml:"wire"`
	Texts      []eagleText      `xml:"text"`
	Pins       []eaglePin       `xml:"pin"`
	Rectangles []eagleRectangle `xml:"rectangle"`
	Circles    []eagleCircle    `xml:"circle"`
}

type eagleWire struct {
	X1    string `xml:"x1,attr"`
	Y1    string `xml:"y1,attr"`
	X2    string `xml:"x2,attr"`
	Y2    string `xml:"y2,attr"`
	Width string `xml:"width,attr"`
	Layer string `xml:"layer,attr"`
}

type eagleText struct {
	X     string `xml:"x,attr"`
	Y     string `xml:"y,attr"`
	Size  string `xml:"size,attr"`
	Layer string `xml:"layer,attr"`
	Value string `xml:",chardata"`
}

type eaglePin struct {
	Name      string `xml:"name,attr"`
	X         string `xml:"x,attr"`
	Y         string `xml:"y,attr"`
	Visible   string `xml:"visible,attr"`
	Length    string `xml:"length,attr"`
	Direction string `xml:"direction,attr"`
	Rot       string `xml:"rot,attr"`
}

type eagleRectangle struct {
	X1    string `xml:"x1,attr"`
	Y1    string `xml:"y1,attr"`
	X2    string `xml:"x2,attr"`
	Y2    string `xml:"y2,attr"`
	Layer string `xml:"layer,attr"`
}

type eagleCircle struct {
	X      string `xml:"x,attr"`
	Y      string `xml:"y,attr"`
	Radius string `xml:"radius,attr"`
	Width  string `xml:"width,attr"`
	Layer  string `xml:"layer,attr"`
}

type eagleDeviceSet struct {
	Name    string        `xml:"name,attr"`
	Prefix  string        `xml:"prefix,attr"`
	Gates   []eagleGate   `xml:"gates>gate"`
	Devices []eagleDevice `xml:"devices>device"`
}

type eagleGate struct {
	Name   string `xml:"name,attr"`
	Symbol string `xml:"symbol,attr"`
}

type eagleDevice struct {
	Name    string `xml:"name,attr"`
	Package string `xml:"package,attr"`
}

// attrReader converts string attributes, remembering the first failure so
// a whole element can be decoded before checking for errors.
type attrReader struct {
	elem string
	err  error
}

func (a *attrReader) float(name, v string) float64 {
	if a.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		a.err = fmt.Errorf("symbol: %s: invalid %s %q", a.elem, name, v)
	}
	return f
}

func (a *attrReader) floatOr(name, v string, def float64) float64 {
	if v == "" {
		return def
	}
	return a.float(name, v)
}

func (a *attrReader) int(name, v string) int {
	if a.err != nil || v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		a.err = fmt.Errorf("symbol: %s: invalid %s %q", a.elem, name, v)
	}
	return n
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// DecodeEagle reads an EAGLE XML library.
func DecodeEagle(r io.Reader) (*Library, error) {
	var doc eagleLibrary
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("symbol: failed to decode EAGLE library: %w", err)
	}

	lib := &Library{}
	for _, p := range doc.Packages {
		lib.Packages = append(lib.Packages, p.Name)
	}

	for _, es := range doc.Symbols {
		sym, err := convertEagleSymbol(es)
		if err != nil {
			return nil, err
		}
		lib.Symbols = append(lib.Symbols, sym)
	}

	for _, eds := range doc.DeviceSets {
		ds := DeviceSet{Name: eds.Name, Prefix: eds.Prefix, Gates: make(map[string]string)}
		for _, g := range eds.Gates {
			ds.Gates[g.Name] = g.Symbol
		}
		for _, d := range eds.Devices {
			ds.Devices = append(ds.Devices, Device{Name: d.Name, Package: d.Package})
		}
		lib.DeviceSets = append(lib.DeviceSets, ds)
	}

	return lib, nil
}

func convertEagleSymbol(es eagleSymbol) (*Symbol, error) {
	a := &attrReader{elem: "symbol " + es.Name}
	sym := &Symbol{Name: es.Name}

	for _, w := range es.Wires {
		sym.Wires = append(sym.Wires, Wire{
			X1:    a.float("x1", w.X1),
			Y1:    a.float("y1", w.Y1),
			X2:    a.float("x2", w.X2),
			Y2:    a.float("y2", w.Y2),
			Width: a.floatOr("width", w.Width, 0),
			Layer: a.int("layer", w.Layer),
		})
	}
	for _, t := range es.Texts {
		sym.Texts = append(sym.Texts, Text{
			X:     a.float("x", t.X),
			Y:     a.float("y", t.Y),
			Size:  a.floatOr("size", t.Size, 0),
			Layer: a.int("layer", t.Layer),
			Value: t.Value,
		})
	}
	for _, p := range es.Pins {
		rot, err := geometry.ParseRotation(orDefault(p.Rot, "R0"))
		if err != nil && a.err == nil {
			a.err = fmt.Errorf("symbol: pin %s: %w", p.Name, err)
		}
		sym.Pins = append(sym.Pins, Pin{
			Name:      p.Name,
			X:         a.float("x", p.X),
			Y:         a.float("y", p.Y),
			Visible:   orDefault(p.Visible, "off"),
			Length:    orDefault(p.Length, "short"),
			Direction: orDefault(p.Direction, "pas"),
			Rotation:  rot,
		})
	}
	for _, r := range es.Rectangles {
		sym.Rectangles = append(sym.Rectangles, Rectangle{
			X1:    a.float("x1", r.X1),
			Y1:    a.float("y1", r.Y1),
			X2:    a.float("x2", r.X2),
			Y2:    a.float("y2", r.Y2),
			Layer: a.int("layer", r.Layer),
		})
	}
	for _, c := range es.Circles {
		sym.Circles = append(sym.Circles, Circle{
			X:      a.float("x", c.X),
			Y:      a.float("y", c.Y),
			Radius: a.float("radius", c.Radius),
			Width:  a.floatOr("width", c.Width, 0.254),
			Layer:  a.int("layer", c.Layer),
		})
	}

	if a.err != nil {
		return nil, a.err
	}
	sym.Bounds()
	return sym, nil
}
