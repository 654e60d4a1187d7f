// Package composite describes reusable sub-circuits: a set of component
// descriptors and the pin connections between them. Composites serialize to
// an XML container whose connection endpoints use the colon-delimited form
// identifier:device_set:part:prefix:pin.
package composite

import (
	"fmt"

	"github.com/OpenTraceLab/schwire/pkg/schematic"
)

// Descriptor is one component of a composite. Its identity is the whole
// tuple; the identifier is only unique per prefix.
type Descriptor struct {
	ID        int
	DeviceSet string
	Part      string
	Prefix    string
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s%d(%s/%s)", d.Prefix, d.ID, d.DeviceSet, d.Part)
}

// Endpoint is a pin of a descriptor.
type Endpoint struct {
	Descriptor Descriptor
	Pin        string
}

// Connection joins two descriptor pins.
type Connection struct {
	Source Endpoint
	Target Endpoint
}

// Symbol is a named composite.
type Symbol struct {
	Name        string
	Descriptors []Descriptor
	Connections []Connection
}

// New creates an empty composite.
func New(name string) *Symbol {
	return &Symbol{Name: name}
}

// AddDescriptor appends a descriptor numbered one past the highest
// identifier already used for prefix.
func (s *Symbol) AddDescriptor(deviceSet, part, prefix string) Descriptor {
	next := 1
	for _, d := range s.Descriptors {
		if d.Prefix == prefix && d.ID >= next {
			next = d.ID + 1
		}
	}
	d := Descriptor{ID: next, DeviceSet: deviceSet, Part: part, Prefix: prefix}
	s.Descriptors = append(s.Descriptors, d)
	return d
}

// Has reports whether d is one of the composite's descriptors.
func (s *Symbol) Has(d Descriptor) bool {
	for _, own := range s.Descriptors {
		if own == d {
			return true
		}
	}
	return false
}

// AddConnection joins pin of source to targetPin of target. Both descriptors
// must belong to the composite.
func (s *Symbol) AddConnection(source Descriptor, pin string, target Descriptor, targetPin string) error {
	for _, d := range []Descriptor{source, target} {
		if !s.Has(d) {
			return fmt.Errorf("%w: %s", ErrUnknownDescriptor, d)
		}
	}
	s.Connections = append(s.Connections, Connection{
		Source: Endpoint{Descriptor: source, Pin: pin},
		Target: Endpoint{Descriptor: target, Pin: targetPin},
	})
	return nil
}

// Instantiate adds one instance per descriptor to sch and declares every
// connection between them. The device sets named by the descriptors must
// already be registered.
func (s *Symbol) Instantiate(sch *schematic.Schematic) (map[Descriptor]schematic.Instance, error) {
	placed := make(map[Descriptor]schematic.Instance, len(s.Descriptors))
	for _, d := range s.Descriptors {
		inst, err := sch.AddInstance(d.DeviceSet, d.Part, d.Prefix)
		if err != nil {
			return nil, fmt.Errorf("composite %s: %s: %w", s.Name, d, err)
		}
		placed[d] = inst
	}
	for _, c := range s.Connections {
		src, ok := placed[c.Source.Descriptor]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDescriptor, c.Source.Descriptor)
		}
		dst, ok := placed[c.Target.Descriptor]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDescriptor, c.Target.Descriptor)
		}
		src.Wire(c.Source.Pin, dst, c.Target.Pin)
	}
	return placed, nil
}
