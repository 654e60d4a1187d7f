package export

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/OpenTraceLab/schwire/pkg/geometry"
	"github.com/OpenTraceLab/schwire/pkg/kicad/sexp"
	"github.com/OpenTraceLab/schwire/pkg/kicad/sexp/kicadsexp"
	"github.com/OpenTraceLab/schwire/pkg/schematic"
	"github.com/OpenTraceLab/schwire/pkg/symbol"
)

func buildDocument(t *testing.T) *schematic.Document {
	t.Helper()
	sch := schematic.New(symbol.Builtin(), nil)
	require.NoError(t, sch.InitLibraries("transistor-npn", "resistor-power"))
	bjt, err := sch.InitDeviceSet("BJT_", "Q")
	require.NoError(t, err)
	require.NoError(t, sch.InitDevice(bjt, "TO92", "TO92"))
	res, err := sch.InitDeviceSet("RES_", "R")
	require.NoError(t, err)
	require.NoError(t, sch.InitDevice(res, "0207/10", "0207/10"))

	q1, err := sch.AddInstance("BJT_", "TO92", "Q")
	require.NoError(t, err)
	r1, err := sch.AddInstance("RES_", "0207/10", "R")
	require.NoError(t, err)
	r2, err := sch.AddInstance("RES_", "0207/10", "R")
	require.NoError(t, err)
	r2.Place(60, 60, geometry.R90)

	q1.Wire("C", r1, "1")
	r1.Wire("2", r2, "1")
	q1.Wire("E", r2, "2")

	doc, err := sch.WireUp()
	require.NoError(t, err)
	return doc
}

func countWires(doc *schematic.Document) int {
	n := 0
	for _, net := range doc.Nets {
		n += len(net.Wires)
	}
	return n
}

func TestSchematicWriter(t *testing.T) {
	doc := buildDocument(t)

	var buf bytes.Buffer
	require.NoError(t, SchematicWriter{}.WriteDocument(&buf, doc))

	exprs, err := kicadsexp.ParseString(buf.String())
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	root := exprs[0]

	name, err := sexp.GetNodeName(root)
	require.NoError(t, err)
	assert.Equal(t, "kicad_sch", name)

	paper, ok := sexp.FindNode(root, "paper")
	require.True(t, ok)
	v, _ := sexp.GetString(paper, 1)
	assert.Equal(t, "A4", v)

	libs, ok := sexp.FindNode(root, "lib_symbols")
	require.True(t, ok)
	assert.Len(t, sexp.FindAllNodes(libs, "symbol"), 2)

	assert.Len(t, sexp.FindAllNodes(root, "wire"), countWires(doc))
	assert.Len(t, sexp.FindAllNodes(root, "label"), len(doc.Nets))

	placed := sexp.FindAllNodes(root, "symbol")
	require.Len(t, placed, 3)
	var refs []string
	for _, p := range placed {
		for _, prop := range sexp.FindAllNodes(p, "property") {
			if key, _ := sexp.GetString(prop, 1); key == "Reference" {
				ref, _ := sexp.GetString(prop, 2)
				refs = append(refs, ref)
			}
		}
	}
	assert.Equal(t, []string{"Q1", "R1", "R2"}, refs)
}

func TestSchematicWriterDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, SchematicWriter{}.WriteDocument(&a, buildDocument(t)))
	require.NoError(t, SchematicWriter{}.WriteDocument(&b, buildDocument(t)))
	assert.Equal(t, a.String(), b.String())
}

func TestSchematicWriterFlipsY(t *testing.T) {
	doc := buildDocument(t)
	pg := newPage(doc.Sheet)

	top := geometry.Point{X: doc.Sheet.X, Y: doc.Sheet.Y + doc.Sheet.Height}
	x, y := pg.point(top)
	assert.InDelta(t, pageMargin, x, 1e-9)
	assert.InDelta(t, pageMargin, y, 1e-9)

	bottom := geometry.Point{X: doc.Sheet.X, Y: doc.Sheet.Y}
	_, y = pg.point(bottom)
	assert.InDelta(t, pageMargin+doc.Sheet.Height, y, 1e-9)
}

func TestPaperSize(t *testing.T) {
	assert.Equal(t, "A4", SchematicWriter{}.paper(schematic.Sheet{Width: 100, Height: 100}))
	assert.Equal(t, "A3", SchematicWriter{}.paper(schematic.Sheet{Width: 300, Height: 100}))
	assert.Equal(t, "A0", SchematicWriter{}.paper(schematic.Sheet{Width: 2000, Height: 100}))
	assert.Equal(t, "USLetter", SchematicWriter{Paper: "USLetter"}.paper(schematic.Sheet{}))
}

func TestPinLength(t *testing.T) {
	assert.Equal(t, 2.54, PinLength(symbol.Pin{Length: "short"}))
	assert.Equal(t, 7.62, PinLength(symbol.Pin{Length: "long"}))
	assert.Equal(t, 0.0, PinLength(symbol.Pin{Length: "point"}))
	assert.Equal(t, 3.81, PinLength(symbol.Pin{Length: "3.81"}))
}

func TestNetlistWriter(t *testing.T) {
	doc := buildDocument(t)

	var buf bytes.Buffer
	require.NoError(t, NetlistWriter{Source: "adder.yaml"}.WriteDocument(&buf, doc))

	exprs, err := kicadsexp.ParseString(buf.String())
	require.NoError(t, err)
	root := exprs[0]

	comps, ok := sexp.FindNode(root, "components")
	require.True(t, ok)
	assert.Len(t, sexp.FindAllNodes(comps, "comp"), 3)

	nets, ok := sexp.FindNode(root, "nets")
	require.True(t, ok)
	netNodes := sexp.FindAllNodes(nets, "net")
	require.Len(t, netNodes, len(doc.Nets))

	nameNode, ok := sexp.FindNode(netNodes[0], "name")
	require.True(t, ok)
	netName, _ := sexp.GetString(nameNode, 1)
	assert.Equal(t, doc.Nets[0].Name, netName)
	assert.Len(t, sexp.FindAllNodes(netNodes[0], "node"), len(doc.Nets[0].Pins))
}

func TestJSONWriter(t *testing.T) {
	doc := buildDocument(t)

	var buf bytes.Buffer
	require.NoError(t, JSONWriter{}.WriteDocument(&buf, doc))
	out := buf.String()

	require.True(t, gjson.Valid(out))
	assert.Equal(t, "schwire", gjson.Get(out, "generated_by").String())
	assert.Equal(t, int64(3), gjson.Get(out, "instances.#").Int())
	assert.Equal(t, "R2", gjson.Get(out, "instances.2.ref").String())
	assert.Equal(t, 90.0, gjson.Get(out, "instances.2.rotation").Float())
	assert.Equal(t, int64(len(doc.Nets)), gjson.Get(out, "nets.#").Int())
	assert.Equal(t, doc.Nets[0].Name, gjson.Get(out, "nets.0.name").String())
	assert.Equal(t, "Q1", gjson.Get(out, "nets.0.pins.0.part").String())
	assert.Equal(t, 0.2, gjson.Get(out, "nets.0.wires.0.width").Float())
}

func TestPreviewWriter(t *testing.T) {
	doc := buildDocument(t)

	var buf bytes.Buffer
	require.NoError(t, PreviewWriter{Scale: 4, Labels: true}.WriteDocument(&buf, doc))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	b := img.Bounds()
	assert.Greater(t, b.Dx(), int(doc.Sheet.Width*4))
	assert.Greater(t, b.Dy(), int(doc.Sheet.Height*4))

	found := false
	for y := b.Min.Y; y < b.Max.Y && !found; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if g > r && g > bl {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "expected wire pixels in preview")
}

// wideDocument lays hundreds of short wires along a long, narrow sheet.
func wideDocument() *schematic.Document {
	doc := &schematic.Document{Sheet: schematic.Sheet{Width: 3810, Height: 50}}
	var wires []schematic.WireSegment
	for i := 0; i < 300; i++ {
		x := float64(i * 12)
		wires = append(wires, schematic.WireSegment{
			Segment: geometry.Segment{A: geometry.Point{X: x, Y: 5}, B: geometry.Point{X: x + 10, Y: 5}},
			Width:   0.1524,
		})
	}
	for i := 0; i < 100; i++ {
		x := float64(i*38 + 5)
		wires = append(wires, schematic.WireSegment{
			Segment: geometry.Segment{A: geometry.Point{X: x, Y: 10}, B: geometry.Point{X: x, Y: 45}},
			Width:   0.1524,
		})
	}
	doc.Nets = []schematic.Net{{Name: "net_wide", Wires: wires}}
	return doc
}

func TestPreviewWriterWideSheet(t *testing.T) {
	doc := wideDocument()
	img := PreviewWriter{Scale: 2}.Render(doc)

	b := img.Bounds()
	require.Equal(t, 3810*2+1+2*previewMargin, b.Dx())
	require.Equal(t, 50*2+1+2*previewMargin, b.Dy())

	c := &canvas{img: img, origin: geometry.BoxOf(0, 0, 3810, 50), scale: 2}
	for _, i := range []int{0, 1, 150, 299} {
		x, y := c.px(geometry.Point{X: float64(i*12 + 5), Y: 5})
		assert.Equal(t, previewWire, img.RGBAAt(int(x), int(y)), "horizontal wire %d", i)
	}
	for _, i := range []int{0, 50, 99} {
		x, y := c.px(geometry.Point{X: float64(i*38 + 5), Y: 30})
		assert.Equal(t, previewWire, img.RGBAAt(int(x), int(y)), "vertical wire %d", i)
	}

	// Nothing is drawn above the vertical wires.
	_, top := c.px(geometry.Point{Y: 48})
	for x := b.Min.X; x < b.Max.X; x++ {
		if got := img.RGBAAt(x, int(top)); got != previewBackground {
			t.Fatalf("pixel (%d,%d) = %v, want background", x, int(top), got)
		}
	}
}

func TestCanvasDiagonalLine(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	draw.Draw(img, img.Bounds(), image.NewUniform(previewBackground), image.Point{}, draw.Src)
	c := &canvas{img: img, origin: geometry.BoxOf(0, 0, 10, 10), scale: 1}

	c.line(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 10}, 4, previewWire)

	mid := img.RGBAAt(9, 9)
	assert.True(t, mid.G > mid.R && mid.G > mid.B, "midpoint %v", mid)
	assert.Equal(t, previewBackground, img.RGBAAt(1, 1))
	assert.Equal(t, previewBackground, img.RGBAAt(18, 1))
}

func TestCanvasClipsAtImageEdge(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	c := &canvas{img: img, origin: geometry.BoxOf(0, 0, 2, 2), scale: 1}

	c.dot(geometry.Point{X: -20, Y: 0}, 2.5, previewPin)
	c.dot(geometry.Point{X: 0, Y: 0}, 2.5, previewPin)
	c.line(geometry.Point{X: -5, Y: 1}, geometry.Point{X: 50, Y: 1}, 1, previewWire)

	x, y := c.px(geometry.Point{X: 0, Y: 0})
	pin := img.RGBAAt(int(x), int(y))
	assert.True(t, pin.B > pin.R && pin.B > pin.G, "pin %v", pin)
}

func BenchmarkPreviewWriterWideSheet(b *testing.B) {
	doc := wideDocument()
	pw := PreviewWriter{Scale: 2, Labels: true}
	for i := 0; i < b.N; i++ {
		pw.Render(doc)
	}
}
