package design

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/OpenTraceLab/schwire/pkg/composite"
	"github.com/OpenTraceLab/schwire/pkg/geometry"
	"github.com/OpenTraceLab/schwire/pkg/schematic"
	"github.com/OpenTraceLab/schwire/pkg/symbol"
)

// Provider returns the symbol provider for the design: its explicit library
// paths, then its libraries.rc, then fallback. Nil parts are skipped.
func (d *Design) Provider(fallback symbol.Provider) (symbol.Provider, error) {
	var providers []symbol.Provider
	if len(d.LibraryPaths) > 0 {
		paths := make(symbol.MapResolver, len(d.LibraryPaths))
		for name, p := range d.LibraryPaths {
			paths[name] = d.Path(p)
		}
		providers = append(providers, symbol.NewFileProvider(paths))
	}
	if d.LibrariesRC != "" {
		rc, err := symbol.LoadRC(d.Path(d.LibrariesRC))
		if err != nil {
			return nil, fmt.Errorf("design: %w", err)
		}
		providers = append(providers, symbol.NewFileProvider(rc))
	}
	if fallback != nil {
		providers = append(providers, fallback)
	}
	return symbol.Chain(providers...), nil
}

// Build holds the named instances of an applied design.
type Build struct {
	Schematic *schematic.Schematic
	Instances map[string]schematic.Instance
}

// Instance looks up a design-level instance name.
func (b *Build) Instance(name string) (schematic.Instance, error) {
	inst, ok := b.Instances[name]
	if !ok {
		return schematic.Instance{}, fmt.Errorf("%w: %q", ErrUnknownInstance, name)
	}
	return inst, nil
}

// Apply replays the design against sch: libraries, device sets, composites,
// instances (with placement) and wires, in that order.
func (d *Design) Apply(sch *schematic.Schematic, logger *log.Logger) (*Build, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if err := sch.InitLibraries(d.Libraries...); err != nil {
		return nil, err
	}

	for _, def := range d.DeviceSets {
		var (
			ds  *schematic.DeviceSet
			err error
		)
		if def.Library != "" {
			ds, err = sch.DefineDeviceSet(def.Name, def.Prefix, schematic.Binding{Library: def.Library, Symbol: def.Symbol})
		} else {
			ds, err = sch.InitDeviceSet(def.Name, def.Prefix)
		}
		if err != nil {
			return nil, err
		}
		for _, dev := range def.Devices {
			if err := sch.InitDevice(ds, dev.Name, dev.Package); err != nil {
				return nil, err
			}
		}
		logger.Printf("[DESIGN] device set %s (%s, %d devices)", def.Name, def.Prefix, len(def.Devices))
	}

	b := &Build{Schematic: sch, Instances: make(map[string]schematic.Instance)}

	for _, c := range d.Composites {
		f, err := os.Open(d.Path(c.File))
		if err != nil {
			return nil, fmt.Errorf("design: composite %s: %w", c.Name, err)
		}
		sym, err := composite.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("design: composite %s: %w", c.Name, err)
		}
		placed, err := sym.Instantiate(sch)
		if err != nil {
			return nil, err
		}
		for _, desc := range sym.Descriptors {
			b.Instances[fmt.Sprintf("%s/%s%d", c.Name, desc.Prefix, desc.ID)] = placed[desc]
		}
		logger.Printf("[DESIGN] composite %s: %d parts, %d connections", c.Name, len(sym.Descriptors), len(sym.Connections))
	}

	for _, def := range d.Instances {
		inst, err := sch.AddInstance(def.DeviceSet, def.Device, def.Prefix)
		if err != nil {
			return nil, fmt.Errorf("design: instance %s: %w", def.Name, err)
		}
		if def.At != nil {
			rot, err := geometry.ParseRotation(def.At.Rot)
			if err != nil {
				return nil, fmt.Errorf("design: instance %s: %w", def.Name, err)
			}
			inst.Place(def.At.X, def.At.Y, rot)
		}
		b.Instances[def.Name] = inst
	}

	for _, w := range d.Wires {
		from, fromPin, err := b.endpoint(w.From)
		if err != nil {
			return nil, err
		}
		to, toPin, err := b.endpoint(w.To)
		if err != nil {
			return nil, err
		}
		from.Wire(fromPin, to, toPin)
	}
	logger.Printf("[DESIGN] %s: %d instances, %d wires", d.Name, len(b.Instances), len(d.Wires))

	return b, nil
}

func (b *Build) endpoint(s string) (schematic.Instance, string, error) {
	name, pin, err := SplitEndpoint(s)
	if err != nil {
		return schematic.Instance{}, "", err
	}
	inst, err := b.Instance(name)
	if err != nil {
		return schematic.Instance{}, "", err
	}
	return inst, pin, nil
}

// Composite converts the design's own instances and wires into a composite
// symbol. Wires touching composite parts are rejected.
func (d *Design) Composite() (*composite.Symbol, error) {
	sym := composite.New(d.Name)

	prefixes := make(map[string]string, len(d.DeviceSets))
	for _, ds := range d.DeviceSets {
		prefixes[ds.Name] = ds.Prefix
	}

	descs := make(map[string]composite.Descriptor, len(d.Instances))
	for _, inst := range d.Instances {
		prefix := inst.Prefix
		if prefix == "" {
			prefix = prefixes[inst.DeviceSet]
		}
		descs[inst.Name] = sym.AddDescriptor(inst.DeviceSet, inst.Device, prefix)
	}

	for _, w := range d.Wires {
		from, fromPin, err := SplitEndpoint(w.From)
		if err != nil {
			return nil, err
		}
		to, toPin, err := SplitEndpoint(w.To)
		if err != nil {
			return nil, err
		}
		src, ok := descs[from]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownInstance, from)
		}
		dst, ok := descs[to]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownInstance, to)
		}
		if err := sym.AddConnection(src, fromPin, dst, toPin); err != nil {
			return nil, err
		}
	}
	return sym, nil
}
