package schematic

import (
	"github.com/OpenTraceLab/schwire/pkg/geometry"
	"github.com/OpenTraceLab/schwire/pkg/netlist"
	"github.com/OpenTraceLab/schwire/pkg/router"
)

type resolvedConnection struct {
	start, end       netlist.PinKey
	startPos, endPos geometry.Point
	from, to         InstanceID
}

// WireUp resolves every declared connection into named nets with routed
// wires. It does not modify the schematic, so repeated calls on an unchanged
// schematic return identical documents.
func (s *Schematic) WireUp() (*Document, error) {
	if s.wireErr != nil {
		return nil, s.wireErr
	}

	positions := s.pinPositions()

	uf := netlist.New()
	var conns []resolvedConnection
	for i, rec := range s.instances {
		for _, c := range rec.connections {
			target := &s.instances[c.target]
			rc := resolvedConnection{
				start: netlist.PinKey{Ref: rec.ref, Pin: c.pin},
				end:   netlist.PinKey{Ref: target.ref, Pin: c.targetPin},
				from:  InstanceID(i),
				to:    c.target,
			}
			var ok bool
			if rc.startPos, ok = positions[rc.start]; !ok {
				return nil, &UnresolvedPinError{Ref: rc.start.Ref, Pin: rc.start.Pin}
			}
			if rc.endPos, ok = positions[rc.end]; !ok {
				return nil, &UnresolvedPinError{Ref: rc.end.Ref, Pin: rc.end.Pin}
			}
			uf.Union(rc.start, rc.end)
			conns = append(conns, rc)
		}
	}

	// Group connections by class, keeping the order of each class's first
	// connection.
	groups := make(map[netlist.PinKey][]resolvedConnection)
	var roots []netlist.PinKey
	for _, c := range conns {
		root := uf.Find(c.start)
		if _, ok := groups[root]; !ok {
			roots = append(roots, root)
		}
		groups[root] = append(groups[root], c)
	}

	obstacles := make([]geometry.Box, len(s.instances))
	for i := range s.instances {
		obstacles[i] = Instance{sch: s, id: InstanceID(i)}.BoundsWithPins()
	}

	rt := router.New(s.cfg.InitialOffset, s.cfg.OffsetStep)
	names := NewNameSet()

	doc := &Document{
		Sheet:     s.sheet,
		Instances: s.placedInstances(),
	}
	for _, name := range s.libraryOrder {
		doc.Libraries = append(doc.Libraries, s.libraries[name])
	}
	for _, name := range s.setOrder {
		doc.DeviceSets = append(doc.DeviceSets, s.deviceSets[name])
	}

	for _, root := range roots {
		group := groups[root]
		net := Net{Name: names.Assign(NetName(s.composition(uf.Members(root))))}

		seenPins := make(map[netlist.PinKey]bool)
		seenWires := make(map[WireSegment]bool)
		addPin := func(k netlist.PinKey) {
			if seenPins[k] {
				return
			}
			seenPins[k] = true
			gate := s.instances[s.refs[k.Ref]].deviceSet.Gate
			net.Pins = append(net.Pins, PinRef{Part: k.Ref, Gate: gate, Pin: k.Pin})
		}

		for _, c := range group {
			var blocking []geometry.Box
			for i, box := range obstacles {
				id := InstanceID(i)
				if id == c.from || id == c.to || box.IsEmpty() {
					continue
				}
				blocking = append(blocking, box)
			}

			for _, seg := range rt.Next(c.startPos, c.endPos, blocking) {
				ws := WireSegment{Segment: seg, Width: s.cfg.WireWidth}
				if !seenWires[ws] {
					seenWires[ws] = true
					net.Wires = append(net.Wires, ws)
				}
			}
			addPin(c.start)
			addPin(c.end)
		}

		s.logger.Printf("[WIRE] %s: %d pins, %d segments", net.Name, len(net.Pins), len(net.Wires))
		doc.Nets = append(doc.Nets, net)
	}

	s.logger.Printf("[WIRE] %d connections in %d nets", len(conns), len(doc.Nets))
	return doc, nil
}

// pinPositions maps every pin of every instance to its absolute position.
func (s *Schematic) pinPositions() map[netlist.PinKey]geometry.Point {
	positions := make(map[netlist.PinKey]geometry.Point)
	for _, rec := range s.instances {
		for _, pin := range rec.deviceSet.Symbol.Pins {
			key := netlist.PinKey{Ref: rec.ref, Pin: pin.Name}
			positions[key] = geometry.PinPosition(rec.position, rec.rotation, pin.Position())
		}
	}
	return positions
}

// composition counts distinct components per prefix among a class's pins.
func (s *Schematic) composition(members []netlist.PinKey) map[string]int {
	parts := make(map[string]bool)
	counts := make(map[string]int)
	for _, k := range members {
		if parts[k.Ref] {
			continue
		}
		parts[k.Ref] = true
		counts[s.instances[s.refs[k.Ref]].prefix]++
	}
	return counts
}

func (s *Schematic) placedInstances() []PlacedInstance {
	out := make([]PlacedInstance, len(s.instances))
	for i, rec := range s.instances {
		out[i] = PlacedInstance{
			Ref:       rec.ref,
			Prefix:    rec.prefix,
			Library:   rec.deviceSet.Library.Name,
			DeviceSet: rec.deviceSet.Name,
			Device:    rec.device.Name,
			Package:   rec.device.Package,
			Gate:      rec.deviceSet.Gate,
			Symbol:    rec.deviceSet.Symbol,
			Position:  rec.position,
			Rotation:  rec.rotation,
		}
	}
	return out
}
