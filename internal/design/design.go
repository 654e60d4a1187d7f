// Package design loads schematic design files (YAML or TOML) and replays
// them against a schematic registry.
package design

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/schwire/pkg/schematic"
)

var (
	ErrUnknownFormat   = errors.New("design: unknown file format")
	ErrInvalidDesign   = errors.New("design: invalid design")
	ErrUnknownInstance = errors.New("design: unknown instance")
)

// Format is a design file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the encoding from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Design is the on-disk description of a schematic.
type Design struct {
	Name string `yaml:"name" toml:"name"`

	// Libraries are initialised in order before any device set.
	Libraries []string `yaml:"libraries" toml:"libraries"`
	// LibraryPaths maps library names to .lbr/.kicad_sym files, relative to
	// the design file.
	LibraryPaths map[string]string `yaml:"library_paths" toml:"library_paths"`
	// LibrariesRC points at an EAGLE libraries.rc file.
	LibrariesRC string `yaml:"libraries_rc" toml:"libraries_rc"`

	Config     *Overrides  `yaml:"config" toml:"config"`
	DeviceSets []DeviceSet `yaml:"device_sets" toml:"device_sets"`
	Composites []Composite `yaml:"composites" toml:"composites"`
	Instances  []Instance  `yaml:"instances" toml:"instances"`
	Wires      []Wire      `yaml:"wires" toml:"wires"`

	dir string
}

// Overrides replaces selected fields of the default schematic config.
type Overrides struct {
	XSpacing      *float64                     `yaml:"x_spacing" toml:"x_spacing"`
	YSpacing      *float64                     `yaml:"y_spacing" toml:"y_spacing"`
	Padding       *float64                     `yaml:"padding" toml:"padding"`
	WireWidth     *float64                     `yaml:"wire_width" toml:"wire_width"`
	InitialOffset *float64                     `yaml:"initial_offset" toml:"initial_offset"`
	OffsetStep    *float64                     `yaml:"offset_step" toml:"offset_step"`
	Gate          string                       `yaml:"gate" toml:"gate"`
	Bindings      map[string]schematic.Binding `yaml:"bindings" toml:"bindings"`
}

// DeviceSet declares a device template. Library and Symbol are optional;
// without them the prefix binding of the config applies.
type DeviceSet struct {
	Name    string   `yaml:"name" toml:"name"`
	Prefix  string   `yaml:"prefix" toml:"prefix"`
	Library string   `yaml:"library" toml:"library"`
	Symbol  string   `yaml:"symbol" toml:"symbol"`
	Devices []Device `yaml:"devices" toml:"devices"`
}

// Device is a package variant of a device set.
type Device struct {
	Name    string `yaml:"name" toml:"name"`
	Package string `yaml:"package" toml:"package"`
}

// Composite instantiates a composite symbol file. Its parts become
// addressable as "<name>/<ref prefix><identifier>", e.g. "ha1/Q2".
type Composite struct {
	Name string `yaml:"name" toml:"name"`
	File string `yaml:"file" toml:"file"`
}

// Instance adds one part. At pins it to an explicit position.
type Instance struct {
	Name      string     `yaml:"name" toml:"name"`
	DeviceSet string     `yaml:"device_set" toml:"device_set"`
	Device    string     `yaml:"device" toml:"device"`
	Prefix    string     `yaml:"prefix" toml:"prefix"`
	At        *Placement `yaml:"at" toml:"at"`
}

// Placement is an explicit instance position.
type Placement struct {
	X   float64 `yaml:"x" toml:"x"`
	Y   float64 `yaml:"y" toml:"y"`
	Rot string  `yaml:"rot" toml:"rot"`
}

// Wire connects two "<instance>.<pin>" endpoints.
type Wire struct {
	From string `yaml:"from" toml:"from"`
	To   string `yaml:"to" toml:"to"`
}

// Dir is the directory relative paths in the design resolve against.
func (d *Design) Dir() string {
	if d.dir == "" {
		return "."
	}
	return d.dir
}

// Path resolves p against the design directory.
func (d *Design) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.Dir(), p)
}

// Load reads a design file, choosing the decoder by extension.
func Load(path string) (*Design, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("design: %w", err)
	}
	defer f.Close()

	d, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d.dir = filepath.Dir(path)
	return d, nil
}

// Decode reads and validates a design. Unknown keys are rejected.
func Decode(r io.Reader, format Format) (*Design, error) {
	var d Design
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("design: %w", err)
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&d)
		if err != nil {
			return nil, fmt.Errorf("design: %w", err)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidDesign, keys[0].String())
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks names and references that can be checked without a
// registry.
func (d *Design) Validate() error {
	sets := make(map[string]bool)
	for _, ds := range d.DeviceSets {
		if ds.Name == "" || ds.Prefix == "" {
			return fmt.Errorf("%w: device set needs name and prefix", ErrInvalidDesign)
		}
		if (ds.Library == "") != (ds.Symbol == "") {
			return fmt.Errorf("%w: device set %s: library and symbol go together", ErrInvalidDesign, ds.Name)
		}
		if len(ds.Devices) == 0 {
			return fmt.Errorf("%w: device set %s has no devices", ErrInvalidDesign, ds.Name)
		}
		sets[ds.Name] = true
	}

	names := make(map[string]bool)
	claim := func(name string) error {
		if name == "" {
			return fmt.Errorf("%w: unnamed instance", ErrInvalidDesign)
		}
		if strings.Contains(name, ".") {
			return fmt.Errorf("%w: instance name %q contains '.'", ErrInvalidDesign, name)
		}
		if names[name] {
			return fmt.Errorf("%w: duplicate instance %q", ErrInvalidDesign, name)
		}
		names[name] = true
		return nil
	}

	for _, c := range d.Composites {
		if c.File == "" {
			return fmt.Errorf("%w: composite %s has no file", ErrInvalidDesign, c.Name)
		}
		if err := claim(c.Name); err != nil {
			return err
		}
	}
	for _, inst := range d.Instances {
		if err := claim(inst.Name); err != nil {
			return err
		}
		if !sets[inst.DeviceSet] {
			return fmt.Errorf("%w: instance %s uses undeclared device set %q", ErrInvalidDesign, inst.Name, inst.DeviceSet)
		}
	}
	for _, w := range d.Wires {
		for _, end := range []string{w.From, w.To} {
			if _, _, err := SplitEndpoint(end); err != nil {
				return err
			}
		}
	}
	return nil
}

// SplitEndpoint splits "<instance>.<pin>" at the last dot.
func SplitEndpoint(s string) (instance, pin string, err error) {
	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 {
		return "", "", fmt.Errorf("%w: endpoint %q is not <instance>.<pin>", ErrInvalidDesign, s)
	}
	return s[:i], s[i+1:], nil
}

// SchematicConfig returns base with the design's overrides applied.
func (d *Design) SchematicConfig(base *schematic.Config) *schematic.Config {
	if base == nil {
		base = schematic.DefaultConfig()
	}
	cfg := *base
	cfg.Bindings = make(map[string]schematic.Binding, len(base.Bindings))
	for k, v := range base.Bindings {
		cfg.Bindings[k] = v
	}

	o := d.Config
	if o == nil {
		return &cfg
	}
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.XSpacing, o.XSpacing)
	set(&cfg.YSpacing, o.YSpacing)
	set(&cfg.Padding, o.Padding)
	set(&cfg.WireWidth, o.WireWidth)
	set(&cfg.InitialOffset, o.InitialOffset)
	set(&cfg.OffsetStep, o.OffsetStep)
	if o.Gate != "" {
		cfg.Gate = o.Gate
	}
	for k, v := range o.Bindings {
		cfg.Bindings[k] = v
	}
	return &cfg
}
