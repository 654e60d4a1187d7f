package schematic

import (
	"fmt"
	"io"

	"github.com/OpenTraceLab/schwire/pkg/geometry"
	"github.com/OpenTraceLab/schwire/pkg/symbol"
)

// Sheet is the drawing area enclosing every instance origin.
type Sheet struct {
	X, Y          float64
	Width, Height float64
}

// PinRef identifies a pin of a placed part for the writer.
type PinRef struct {
	Part string
	Gate string
	Pin  string
}

func (p PinRef) String() string {
	return fmt.Sprintf("%s.%s", p.Part, p.Pin)
}

// WireSegment is a routed, axis-aligned piece of wire.
type WireSegment struct {
	geometry.Segment
	Width float64
}

// Net is one named electrical node with its pins and wire geometry.
type Net struct {
	Name  string
	Pins  []PinRef
	Wires []WireSegment
}

// PlacedInstance is an instance as handed to the writer.
type PlacedInstance struct {
	Ref       string
	Prefix    string
	Library   string
	DeviceSet string
	Device    string
	Package   string
	Gate      string
	Symbol    *symbol.Symbol
	Position  geometry.Point
	Rotation  geometry.Rotation
}

// Document is the fully assembled schematic model.
type Document struct {
	Sheet      Sheet
	Libraries  []*symbol.Library
	DeviceSets []*DeviceSet
	Instances  []PlacedInstance
	Nets       []Net
}

// Net returns the net of the given name.
func (d *Document) Net(name string) (*Net, bool) {
	for i := range d.Nets {
		if d.Nets[i].Name == name {
			return &d.Nets[i], true
		}
	}
	return nil, false
}

// NetOf returns the net a pin belongs to.
func (d *Document) NetOf(part, pin string) (*Net, bool) {
	for i := range d.Nets {
		for _, p := range d.Nets[i].Pins {
			if p.Part == part && p.Pin == pin {
				return &d.Nets[i], true
			}
		}
	}
	return nil, false
}

// Writer serializes a document into a schematic file format.
type Writer interface {
	WriteDocument(w io.Writer, doc *Document) error
}
