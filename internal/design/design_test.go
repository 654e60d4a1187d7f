package design

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/schwire/pkg/geometry"
	"github.com/OpenTraceLab/schwire/pkg/schematic"
	"github.com/OpenTraceLab/schwire/pkg/symbol"
)

const inverterYAML = `
name: inverter
libraries: [transistor-npn, resistor-power]
config:
  wire_width: 0.15
  initial_offset: 3
device_sets:
  - name: BJT_
    prefix: Q
    devices:
      - {name: NPN, package: TO92}
  - name: R_
    prefix: R
    devices:
      - {name: RES, package: 0207/10}
instances:
  - {name: q1, device_set: BJT_, device: NPN}
  - {name: rc, device_set: R_, device: RES}
  - name: rb
    device_set: R_
    device: RES
    at: {x: 100, y: 40, rot: R90}
wires:
  - {from: q1.C, to: rc.1}
  - {from: rb.2, to: q1.B}
`

const inverterTOML = `
name = "inverter"
libraries = ["transistor-npn", "resistor-power"]

[config]
wire_width = 0.15

[[device_sets]]
name = "BJT_"
prefix = "Q"
devices = [{ name = "NPN", package = "TO92" }]

[[device_sets]]
name = "R_"
prefix = "R"
devices = [{ name = "RES", package = "0207/10" }]

[[instances]]
name = "q1"
device_set = "BJT_"
device = "NPN"

[[instances]]
name = "rc"
device_set = "R_"
device = "RES"

[[instances]]
name = "rb"
device_set = "R_"
device = "RES"
at = { x = 100.0, y = 40.0, rot = "R90" }

[[wires]]
from = "q1.C"
to = "rc.1"

[[wires]]
from = "rb.2"
to = "q1.B"
`

func applyDesign(t *testing.T, d *Design) (*Build, *schematic.Document) {
	t.Helper()
	provider, err := d.Provider(symbol.Builtin())
	require.NoError(t, err)
	sch := schematic.New(provider, d.SchematicConfig(nil))
	b, err := d.Apply(sch, nil)
	require.NoError(t, err)
	doc, err := sch.WireUp()
	require.NoError(t, err)
	return b, doc
}

func TestDecodeYAML(t *testing.T) {
	d, err := Decode(strings.NewReader(inverterYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "inverter", d.Name)
	assert.Len(t, d.DeviceSets, 2)
	require.Len(t, d.Instances, 3)
	require.NotNil(t, d.Instances[2].At)
	assert.Equal(t, "R90", d.Instances[2].At.Rot)
	assert.Equal(t, Wire{From: "rb.2", To: "q1.B"}, d.Wires[1])

	cfg := d.SchematicConfig(nil)
	assert.Equal(t, 0.15, cfg.WireWidth)
	assert.Equal(t, 3.0, cfg.InitialOffset)
	assert.Equal(t, 20.0, cfg.XSpacing)
}

func TestDecodeTOMLMatchesYAML(t *testing.T) {
	y, err := Decode(strings.NewReader(inverterYAML), FormatYAML)
	require.NoError(t, err)
	tm, err := Decode(strings.NewReader(inverterTOML), FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, y.DeviceSets, tm.DeviceSets)
	assert.Equal(t, y.Instances, tm.Instances)
	assert.Equal(t, y.Wires, tm.Wires)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("name: x\ncolour: red\n"), FormatYAML)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("name = \"x\"\ncolour = \"red\"\n"), FormatTOML)
	assert.ErrorIs(t, err, ErrInvalidDesign)
}

func TestDecodeEmpty(t *testing.T) {
	d, err := Decode(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, d.Instances)
}

func TestValidate(t *testing.T) {
	base := func() *Design {
		return &Design{
			DeviceSets: []DeviceSet{{Name: "R_", Prefix: "R", Devices: []Device{{Name: "RES"}}}},
			Instances:  []Instance{{Name: "r1", DeviceSet: "R_", Device: "RES"}},
		}
	}
	require.NoError(t, base().Validate())

	tests := []struct {
		name   string
		mutate func(d *Design)
	}{
		{"device set without prefix", func(d *Design) { d.DeviceSets[0].Prefix = "" }},
		{"device set without devices", func(d *Design) { d.DeviceSets[0].Devices = nil }},
		{"library without symbol", func(d *Design) { d.DeviceSets[0].Library = "lib" }},
		{"duplicate instance", func(d *Design) { d.Instances = append(d.Instances, d.Instances[0]) }},
		{"dotted instance name", func(d *Design) { d.Instances[0].Name = "r.1" }},
		{"undeclared device set", func(d *Design) { d.Instances[0].DeviceSet = "C_" }},
		{"malformed wire", func(d *Design) { d.Wires = []Wire{{From: "r1", To: "r1.2"}} }},
		{"composite without file", func(d *Design) { d.Composites = []Composite{{Name: "ha"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base()
			tt.mutate(d)
			assert.ErrorIs(t, d.Validate(), ErrInvalidDesign)
		})
	}
}

func TestSplitEndpoint(t *testing.T) {
	inst, pin, err := SplitEndpoint("ha1/Q2.C")
	require.NoError(t, err)
	assert.Equal(t, "ha1/Q2", inst)
	assert.Equal(t, "C", pin)

	for _, bad := range []string{"", "q1", ".C", "q1."} {
		_, _, err := SplitEndpoint(bad)
		assert.ErrorIs(t, err, ErrInvalidDesign, bad)
	}
}

func TestApply(t *testing.T) {
	d, err := Decode(strings.NewReader(inverterYAML), FormatYAML)
	require.NoError(t, err)

	b, doc := applyDesign(t, d)

	rb, err := b.Instance("rb")
	require.NoError(t, err)
	assert.Equal(t, "R2", rb.Ref())
	assert.True(t, rb.Placed())
	assert.Equal(t, geometry.Point{X: 100, Y: 40}, rb.Position())
	assert.Equal(t, geometry.R90, rb.Rotation())

	require.Len(t, doc.Nets, 2)
	assert.Equal(t, "net_Q1_R1", doc.Nets[0].Name)
	assert.Equal(t, "net_Q1_R1_1", doc.Nets[1].Name)
	for _, net := range doc.Nets {
		for _, w := range net.Wires {
			assert.Equal(t, 0.15, w.Width)
		}
	}

	_, err = b.Instance("nope")
	assert.ErrorIs(t, err, ErrUnknownInstance)
}

func TestApplyUnsupportedPrefix(t *testing.T) {
	d := &Design{
		Libraries:  []string{"resistor-power"},
		DeviceSets: []DeviceSet{{Name: "C_", Prefix: "C", Devices: []Device{{Name: "CAP"}}}},
	}
	sch := schematic.New(symbol.Builtin(), nil)
	_, err := d.Apply(sch, nil)
	assert.ErrorIs(t, err, schematic.ErrUnsupportedPrefix)
}

func TestApplyExplicitSymbol(t *testing.T) {
	d := &Design{
		Libraries: []string{"resistor-power"},
		DeviceSets: []DeviceSet{{
			Name: "PULL_", Prefix: "RP", Library: "resistor-power", Symbol: "R",
			Devices: []Device{{Name: "RES"}},
		}},
		Instances: []Instance{{Name: "p", DeviceSet: "PULL_", Device: "RES"}},
	}
	b, _ := applyDesign(t, d)
	p, err := b.Instance("p")
	require.NoError(t, err)
	assert.Equal(t, "RP1", p.Ref())
}

func TestCompositeRoundTrip(t *testing.T) {
	d, err := Decode(strings.NewReader(inverterYAML), FormatYAML)
	require.NoError(t, err)

	sym, err := d.Composite()
	require.NoError(t, err)
	assert.Equal(t, "inverter", sym.Name)
	require.Len(t, sym.Descriptors, 3)
	assert.Equal(t, "R", sym.Descriptors[2].Prefix)
	assert.Equal(t, 2, sym.Descriptors[2].ID)
	assert.Len(t, sym.Connections, 2)

	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, sym.Encode(&buf))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inverter.xml"), buf.Bytes(), 0o644))

	outer := `
name: pair
libraries: [transistor-npn, resistor-power]
device_sets:
  - name: BJT_
    prefix: Q
    devices: [{name: NPN, package: TO92}]
  - name: R_
    prefix: R
    devices: [{name: RES, package: 0207/10}]
composites:
  - {name: a, file: inverter.xml}
  - {name: b, file: inverter.xml}
wires:
  - {from: a/Q1.C, to: b/Q1.B}
`
	path := filepath.Join(dir, "pair.yaml")
	require.NoError(t, os.WriteFile(path, []byte(outer), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, loaded.Dir())

	b, doc := applyDesign(t, loaded)
	assert.Len(t, b.Instances, 6)

	bq, err := b.Instance("b/Q1")
	require.NoError(t, err)
	assert.Equal(t, "Q2", bq.Ref())

	net, ok := doc.NetOf("Q2", "B")
	require.True(t, ok)
	assert.Len(t, net.Pins, 4)
}

func TestLoadUnknownExtension(t *testing.T) {
	_, err := Load("design.json")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestProviderLibraryPaths(t *testing.T) {
	dir := t.TempDir()
	lbr := `<?xml version="1.0"?>
<eagle><drawing><library>
<symbols><symbol name="D">
<wire x1="-1" y1="-1" x2="1" y2="1" width="0.254" layer="94"/>
<pin name="A" x="-2.54" y="0" length="short"/>
<pin name="K" x="2.54" y="0" length="short" rot="R180"/>
</symbol></symbols>
</library></drawing></eagle>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "diode.lbr"), []byte(lbr), 0o644))

	d := &Design{LibraryPaths: map[string]string{"diodes": "diode.lbr"}, dir: dir}
	provider, err := d.Provider(symbol.Builtin())
	require.NoError(t, err)

	lib, err := provider.LoadLibrary("diodes")
	require.NoError(t, err)
	_, err = lib.Symbol("D")
	require.NoError(t, err)

	_, err = provider.LoadLibrary("resistor-power")
	require.NoError(t, err)
}
