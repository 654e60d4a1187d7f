package schematic

import (
	"github.com/OpenTraceLab/schwire/pkg/geometry"
)

// Instance is a handle to a placed component. The zero value is not usable.
type Instance struct {
	sch *Schematic
	id  InstanceID
}

// ID returns the instance's stable index in its schematic.
func (i Instance) ID() InstanceID { return i.id }

// Ref returns the reference designator, e.g. "R2".
func (i Instance) Ref() string { return i.rec().ref }

// Prefix returns the reference designator prefix.
func (i Instance) Prefix() string { return i.rec().prefix }

// DeviceSet returns the device template the instance was created from.
func (i Instance) DeviceSet() *DeviceSet { return i.rec().deviceSet }

// Position returns the instance origin on the sheet.
func (i Instance) Position() geometry.Point { return i.rec().position }

// Rotation returns the instance rotation.
func (i Instance) Rotation() geometry.Rotation { return i.rec().rotation }

// Placed reports whether the instance was positioned explicitly.
func (i Instance) Placed() bool { return i.rec().placed }

func (i Instance) rec() *instanceRecord {
	return i.sch.record(i.id)
}

// Wire declares a connection from one of this instance's pins to a pin of
// target. Pin names are checked by WireUp.
func (i Instance) Wire(pin string, target Instance, targetPin string) Instance {
	if target.sch != i.sch {
		if i.sch.wireErr == nil {
			i.sch.wireErr = ErrForeignInstance
		}
		return i
	}
	rec := i.rec()
	rec.connections = append(rec.connections, connection{pin: pin, target: target.id, targetPin: targetPin})
	return i
}

// Pin returns an opaque reference to one of the instance's pins.
func (i Instance) Pin(name string) PinRef {
	rec := i.rec()
	return PinRef{Part: rec.ref, Gate: rec.deviceSet.Gate, Pin: name}
}

// Place pins the instance at an explicit position and rotation. Placed
// instances are left alone by auto-arrangement.
func (i Instance) Place(x, y float64, rot geometry.Rotation) {
	rec := i.rec()
	rec.position = geometry.Point{X: x, Y: y}
	rec.rotation = rot
	rec.placed = true
	i.sch.arrange()
}

// PinPosition returns the absolute position of a pin.
func (i Instance) PinPosition(name string) (geometry.Point, error) {
	rec := i.rec()
	pin, ok := rec.deviceSet.Symbol.Pin(name)
	if !ok {
		return geometry.Point{}, &UnresolvedPinError{Ref: rec.ref, Pin: name}
	}
	return geometry.PinPosition(rec.position, rec.rotation, pin.Position()), nil
}

// Bounds returns the instance's drawn body on the sheet.
func (i Instance) Bounds() geometry.Box {
	rec := i.rec()
	return geometry.TransformBox(rec.deviceSet.Symbol.Bounds(), rec.position, rec.rotation)
}

// BoundsWithPins widens Bounds to cover every pin, for use as a routing
// obstacle.
func (i Instance) BoundsWithPins() geometry.Box {
	rec := i.rec()
	box := i.Bounds()
	for _, pin := range rec.deviceSet.Symbol.Pins {
		box.Expand(geometry.PinPosition(rec.position, rec.rotation, pin.Position()))
	}
	return box
}
