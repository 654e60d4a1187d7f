package schematic

import (
	"fmt"
	"io"
	"log"
	"math"
	"strconv"

	"github.com/OpenTraceLab/schwire/pkg/geometry"
	"github.com/OpenTraceLab/schwire/pkg/symbol"
)

// DeviceSet is a registered device template: a prefix and the symbol its
// single gate is drawn with.
type DeviceSet struct {
	Name    string
	Prefix  string
	Library *symbol.Library
	Symbol  *symbol.Symbol
	Gate    string
	Devices []Device
}

// Device is a package variant of a device set.
type Device struct {
	Name    string
	Package string
}

// Device looks up a device by name.
func (ds *DeviceSet) Device(name string) (Device, bool) {
	for _, d := range ds.Devices {
		if d.Name == name {
			return d, true
		}
	}
	return Device{}, false
}

// InstanceID addresses an instance within its schematic.
type InstanceID int

type connection struct {
	pin       string
	target    InstanceID
	targetPin string
}

type instanceRecord struct {
	ref         string
	prefix      string
	deviceSet   *DeviceSet
	device      Device
	position    geometry.Point
	rotation    geometry.Rotation
	placed      bool
	connections []connection
}

// Schematic is the instance and part registry.
type Schematic struct {
	cfg      *Config
	provider symbol.Provider
	logger   *log.Logger

	libraries    map[string]*symbol.Library
	libraryOrder []string
	deviceSets   map[string]*DeviceSet
	setOrder     []string

	instances   []instanceRecord
	refs        map[string]InstanceID
	counters    map[string]int
	prefixOrder []string
	sheet       Sheet

	// first error raised by a wiring call, reported by WireUp
	wireErr error
}

// New creates an empty schematic. A nil cfg uses DefaultConfig; the config is
// copied, so later changes by the caller have no effect.
func New(provider symbol.Provider, cfg *Config) *Schematic {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Schematic{
		cfg:        cfg.clone(),
		provider:   provider,
		logger:     log.New(io.Discard, "", 0),
		libraries:  make(map[string]*symbol.Library),
		deviceSets: make(map[string]*DeviceSet),
		refs:       make(map[string]InstanceID),
		counters:   make(map[string]int),
	}
}

// SetLogger directs progress messages to l. A nil logger silences them.
func (s *Schematic) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	s.logger = l
}

// Config returns the schematic's configuration.
func (s *Schematic) Config() Config {
	return *s.cfg
}

// InitLibraries loads the named libraries from the provider.
func (s *Schematic) InitLibraries(names ...string) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	for _, name := range names {
		if _, ok := s.libraries[name]; ok {
			continue
		}
		lib, err := s.provider.LoadLibrary(name)
		if err != nil {
			return fmt.Errorf("schematic: load library %s: %w", name, err)
		}
		s.libraries[name] = lib
		s.libraryOrder = append(s.libraryOrder, name)
		s.logger.Printf("[LIB] loaded %s (%d symbols)", name, len(lib.Symbols))
	}
	return nil
}

// InitDeviceSet registers a device set drawn with the symbol bound to prefix
// in the config.
func (s *Schematic) InitDeviceSet(name, prefix string) (*DeviceSet, error) {
	b, ok := s.cfg.Bindings[prefix]
	if !ok {
		return nil, &UnsupportedPrefixError{Prefix: prefix}
	}
	return s.DefineDeviceSet(name, prefix, b)
}

// DefineDeviceSet registers a device set drawn with an explicit library
// symbol, bypassing the prefix bindings.
func (s *Schematic) DefineDeviceSet(name, prefix string, b Binding) (*DeviceSet, error) {
	if prefix == "" {
		return nil, &UnsupportedPrefixError{Prefix: prefix}
	}
	if _, ok := s.deviceSets[name]; ok {
		return nil, fmt.Errorf("%w: device set %q", ErrDuplicate, name)
	}
	lib, ok := s.libraries[b.Library]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLibraryNotInitialized, b.Library)
	}
	sym, err := lib.Symbol(b.Symbol)
	if err != nil {
		return nil, fmt.Errorf("schematic: device set %s: %w", name, err)
	}

	ds := &DeviceSet{
		Name:    name,
		Prefix:  prefix,
		Library: lib,
		Symbol:  sym,
		Gate:    s.cfg.Gate,
	}
	s.deviceSets[name] = ds
	s.setOrder = append(s.setOrder, name)
	return ds, nil
}

// InitDevice adds a package variant to a device set. An empty package is
// accepted as is; otherwise the library must declare it.
func (s *Schematic) InitDevice(ds *DeviceSet, name, pkg string) error {
	if ds == nil || s.deviceSets[ds.Name] != ds {
		return &UnknownDeviceTemplateError{DeviceSet: deviceSetName(ds)}
	}
	if _, ok := ds.Device(name); ok {
		return fmt.Errorf("%w: device %q in %q", ErrDuplicate, name, ds.Name)
	}
	if pkg != "" && !ds.Library.HasPackage(pkg) {
		return fmt.Errorf("%w: %q in library %s", ErrUnknownPackage, pkg, ds.Library.Name)
	}
	ds.Devices = append(ds.Devices, Device{Name: name, Package: pkg})
	return nil
}

func deviceSetName(ds *DeviceSet) string {
	if ds == nil {
		return ""
	}
	return ds.Name
}

// DeviceSet returns a registered device set.
func (s *Schematic) DeviceSet(name string) (*DeviceSet, bool) {
	ds, ok := s.deviceSets[name]
	return ds, ok
}

// AddInstance places a new occurrence of a device and assigns it the next
// reference designator for prefix. An empty prefix uses the device set's.
func (s *Schematic) AddInstance(deviceSet, device, prefix string) (Instance, error) {
	ds, ok := s.deviceSets[deviceSet]
	if !ok {
		return Instance{}, &UnknownDeviceTemplateError{DeviceSet: deviceSet}
	}
	dev, ok := ds.Device(device)
	if !ok {
		return Instance{}, &UnknownDeviceTemplateError{DeviceSet: deviceSet, Device: device}
	}
	if prefix == "" {
		prefix = ds.Prefix
	}

	if _, seen := s.counters[prefix]; !seen {
		s.prefixOrder = append(s.prefixOrder, prefix)
	}
	s.counters[prefix]++
	ref := prefix + strconv.Itoa(s.counters[prefix])

	id := InstanceID(len(s.instances))
	s.instances = append(s.instances, instanceRecord{
		ref:       ref,
		prefix:    prefix,
		deviceSet: ds,
		device:    dev,
	})
	s.refs[ref] = id
	s.arrange()

	return Instance{sch: s, id: id}, nil
}

// Instance looks up an instance by reference designator.
func (s *Schematic) Instance(ref string) (Instance, bool) {
	id, ok := s.refs[ref]
	if !ok {
		return Instance{}, false
	}
	return Instance{sch: s, id: id}, true
}

// Instances returns every instance in insertion order.
func (s *Schematic) Instances() []Instance {
	out := make([]Instance, len(s.instances))
	for i := range s.instances {
		out[i] = Instance{sch: s, id: InstanceID(i)}
	}
	return out
}

// Sheet returns the current sheet bounds.
func (s *Schematic) Sheet() Sheet {
	return s.sheet
}

// arrange lays out unplaced instances in one horizontal band per prefix,
// bands ordered by first appearance, then recomputes the sheet bounds.
func (s *Schematic) arrange() {
	for band, prefix := range s.prefixOrder {
		x := s.cfg.Padding
		y := s.cfg.Padding + float64(band)*s.cfg.YSpacing*2
		for i := range s.instances {
			rec := &s.instances[i]
			if rec.prefix != prefix || rec.placed {
				continue
			}
			rec.position = geometry.Point{X: x, Y: y}
			x += s.cfg.XSpacing * 2
		}
	}
	s.updateSheet()
}

func (s *Schematic) updateSheet() {
	if len(s.instances) == 0 {
		s.sheet = Sheet{}
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, rec := range s.instances {
		minX = math.Min(minX, rec.position.X)
		minY = math.Min(minY, rec.position.Y)
		maxX = math.Max(maxX, rec.position.X)
		maxY = math.Max(maxY, rec.position.Y)
	}
	pad := s.cfg.Padding
	s.sheet = Sheet{
		X:      minX - pad,
		Y:      minY - pad,
		Width:  maxX - minX + pad*2,
		Height: maxY - minY + pad*2,
	}
}

func (s *Schematic) record(id InstanceID) *instanceRecord {
	return &s.instances[id]
}
