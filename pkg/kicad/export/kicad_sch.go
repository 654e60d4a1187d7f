package export

import (
	"crypto/sha1"
	"fmt"
	"io"
	"strconv"

	"github.com/OpenTraceLab/schwire/pkg/geometry"
	"github.com/OpenTraceLab/schwire/pkg/kicad/sexp/kicadsexp"
	"github.com/OpenTraceLab/schwire/pkg/schematic"
	"github.com/OpenTraceLab/schwire/pkg/symbol"
)

// KiCad file format versions written by this package.
const (
	SchematicVersion = 20231120
	Generator        = "schwire"
)

// pageMargin is the distance between the page corner and the drawing.
const pageMargin = 25.4

// SchematicWriter writes .kicad_sch files.
type SchematicWriter struct {
	// Paper overrides the page size ("A4", "A3", ...). Empty picks the
	// smallest ISO A size the drawing fits on.
	Paper string
}

// WriteDocument implements schematic.Writer.
func (sw SchematicWriter) WriteDocument(w io.Writer, doc *schematic.Document) error {
	page := newPage(doc.Sheet)
	ids := &uuidSource{}

	root := kicadsexp.Node("kicad_sch",
		kicadsexp.Node("version", kicadsexp.Int(SchematicVersion)),
		kicadsexp.Node("generator", kicadsexp.Quoted(Generator)),
		kicadsexp.Node("uuid", kicadsexp.Quoted(ids.next("sheet"))),
		kicadsexp.Node("paper", kicadsexp.Quoted(sw.paper(doc.Sheet))),
	)

	libSymbols := kicadsexp.Node("lib_symbols")
	seen := make(map[string]bool)
	for _, inst := range doc.Instances {
		id := libID(inst)
		if seen[id] {
			continue
		}
		seen[id] = true
		libSymbols.Append(libSymbolNode(id, inst))
	}
	root.Append(libSymbols)

	for _, net := range doc.Nets {
		for i, wire := range net.Wires {
			a, b := page.xy(wire.A), page.xy(wire.B)
			root.Append(kicadsexp.Node("wire",
				kicadsexp.Node("pts", a, b),
				stroke(wire.Width),
				kicadsexp.Node("uuid", kicadsexp.Quoted(ids.next(net.Name+"/wire/"+strconv.Itoa(i)))),
			))
		}
		if len(net.Wires) > 0 {
			x, y := page.point(net.Wires[0].A)
			root.Append(kicadsexp.Node("label", kicadsexp.Quoted(net.Name),
				kicadsexp.Node("at", kicadsexp.Num(x), kicadsexp.Num(y), kicadsexp.Int(0)),
				effects(kicadsexp.Node("justify", kicadsexp.Symbol("left"), kicadsexp.Symbol("bottom"))),
				kicadsexp.Node("uuid", kicadsexp.Quoted(ids.next(net.Name+"/label"))),
			))
		}
	}

	for _, inst := range doc.Instances {
		root.Append(instanceNode(inst, page, ids))
	}

	root.Append(kicadsexp.Node("sheet_instances",
		kicadsexp.Node("path", kicadsexp.Quoted("/"), kicadsexp.Node("page", kicadsexp.Quoted("1"))),
	))

	return kicadsexp.Write(w, root)
}

func (sw SchematicWriter) paper(sheet schematic.Sheet) string {
	if sw.Paper != "" {
		return sw.Paper
	}
	w, h := sheet.Width+2*pageMargin, sheet.Height+2*pageMargin
	for _, p := range []struct {
		name string
		w, h float64
	}{
		{"A4", 297, 210},
		{"A3", 420, 297},
		{"A2", 594, 420},
		{"A1", 841, 594},
	} {
		if w <= p.w && h <= p.h {
			return p.name
		}
	}
	return "A0"
}

// page maps document coordinates (Y up) onto a KiCad page (Y down).
type page struct {
	dx, top float64
}

func newPage(sheet schematic.Sheet) page {
	return page{
		dx:  pageMargin - sheet.X,
		top: pageMargin + sheet.Y + sheet.Height,
	}
}

func (p page) point(pt geometry.Point) (float64, float64) {
	return pt.X + p.dx, p.top - pt.Y
}

func (p page) xy(pt geometry.Point) *kicadsexp.List {
	x, y := p.point(pt)
	return kicadsexp.Node("xy", kicadsexp.Num(x), kicadsexp.Num(y))
}

func libID(inst schematic.PlacedInstance) string {
	return inst.Library + ":" + inst.Symbol.Name
}

func libSymbolNode(id string, inst schematic.PlacedInstance) *kicadsexp.List {
	sym := inst.Symbol
	node := kicadsexp.Node("symbol", kicadsexp.Quoted(id),
		kicadsexp.Node("in_bom", kicadsexp.Symbol("yes")),
		kicadsexp.Node("on_board", kicadsexp.Symbol("yes")),
		property("Reference", inst.Prefix, 0, 0, false),
		property("Value", sym.Name, 0, 0, false),
	)

	body := kicadsexp.Node("symbol", kicadsexp.Quoted(sym.Name+"_0_1"))
	for _, w := range sym.Wires {
		body.Append(kicadsexp.Node("polyline",
			kicadsexp.Node("pts",
				kicadsexp.Node("xy", kicadsexp.Num(w.X1), kicadsexp.Num(w.Y1)),
				kicadsexp.Node("xy", kicadsexp.Num(w.X2), kicadsexp.Num(w.Y2)),
			),
			stroke(w.Width),
			fill("none"),
		))
	}
	for _, r := range sym.Rectangles {
		body.Append(kicadsexp.Node("rectangle",
			kicadsexp.Node("start", kicadsexp.Num(r.X1), kicadsexp.Num(r.Y1)),
			kicadsexp.Node("end", kicadsexp.Num(r.X2), kicadsexp.Num(r.Y2)),
			stroke(0),
			fill("outline"),
		))
	}
	for _, c := range sym.Circles {
		body.Append(kicadsexp.Node("circle",
			kicadsexp.Node("center", kicadsexp.Num(c.X), kicadsexp.Num(c.Y)),
			kicadsexp.Node("radius", kicadsexp.Num(c.Radius)),
			stroke(c.Width),
			fill("none"),
		))
	}

	pins := kicadsexp.Node("symbol", kicadsexp.Quoted(sym.Name+"_1_1"))
	for _, p := range sym.Pins {
		pin := kicadsexp.Node("pin", kicadsexp.Symbol(pinType(p.Direction)), kicadsexp.Symbol("line"),
			kicadsexp.Node("at", kicadsexp.Num(p.X), kicadsexp.Num(p.Y), kicadsexp.Num(float64(p.Rotation))),
			kicadsexp.Node("length", kicadsexp.Num(PinLength(p))),
			kicadsexp.Node("name", kicadsexp.Quoted(p.Name), effects()),
			kicadsexp.Node("number", kicadsexp.Quoted(p.Name), effects()),
		)
		pins.Append(pin)
	}

	return node.Append(body, pins)
}

func instanceNode(inst schematic.PlacedInstance, pg page, ids *uuidSource) *kicadsexp.List {
	x, y := pg.point(inst.Position)
	node := kicadsexp.Node("symbol",
		kicadsexp.Node("lib_id", kicadsexp.Quoted(libID(inst))),
		kicadsexp.Node("at", kicadsexp.Num(x), kicadsexp.Num(y), kicadsexp.Num(float64(inst.Rotation))),
		kicadsexp.Node("unit", kicadsexp.Int(1)),
		kicadsexp.Node("in_bom", kicadsexp.Symbol("yes")),
		kicadsexp.Node("on_board", kicadsexp.Symbol("yes")),
		kicadsexp.Node("uuid", kicadsexp.Quoted(ids.next(inst.Ref))),
		property("Reference", inst.Ref, x, y-3.81, false),
		property("Value", inst.Device, x, y+3.81, false),
		property("Footprint", inst.Package, x, y, true),
	)
	for _, p := range inst.Symbol.Pins {
		node.Append(kicadsexp.Node("pin", kicadsexp.Quoted(p.Name),
			kicadsexp.Node("uuid", kicadsexp.Quoted(ids.next(inst.Ref+"/"+p.Name))),
		))
	}
	return node
}

func property(key, value string, x, y float64, hidden bool) *kicadsexp.List {
	var extra []kicadsexp.Sexp
	if hidden {
		extra = append(extra, kicadsexp.Node("hide", kicadsexp.Symbol("yes")))
	}
	return kicadsexp.Node("property", kicadsexp.Quoted(key), kicadsexp.Quoted(value),
		kicadsexp.Node("at", kicadsexp.Num(x), kicadsexp.Num(y), kicadsexp.Int(0)),
		effects(extra...),
	)
}

func effects(extra ...kicadsexp.Sexp) *kicadsexp.List {
	font := kicadsexp.Node("font", kicadsexp.Node("size", kicadsexp.Num(1.27), kicadsexp.Num(1.27)))
	return kicadsexp.Node("effects", append([]kicadsexp.Sexp{font}, extra...)...)
}

func stroke(width float64) *kicadsexp.List {
	return kicadsexp.Node("stroke",
		kicadsexp.Node("width", kicadsexp.Num(width)),
		kicadsexp.Node("type", kicadsexp.Symbol("default")),
	)
}

func fill(kind string) *kicadsexp.List {
	return kicadsexp.Node("fill", kicadsexp.Node("type", kicadsexp.Symbol(kind)))
}

var pinTypes = map[string]string{
	"in":  "input",
	"out": "output",
	"io":  "bidirectional",
	"oc":  "open_collector",
	"hiz": "tri_state",
	"pwr": "power_in",
	"sup": "power_out",
	"nc":  "no_connect",
}

func pinType(direction string) string {
	if t, ok := pinTypes[direction]; ok {
		return t
	}
	return "passive"
}

// PinLength converts a pin length to millimetres. EAGLE names its lengths;
// KiCad imports carry the number.
func PinLength(p symbol.Pin) float64 {
	switch p.Length {
	case "point":
		return 0
	case "short", "":
		return 2.54
	case "middle":
		return 5.08
	case "long":
		return 7.62
	}
	if v, err := strconv.ParseFloat(p.Length, 64); err == nil {
		return v
	}
	return 2.54
}

// uuidSource derives stable name-based UUIDs so identical documents produce
// identical files.
type uuidSource struct{}

func (uuidSource) next(name string) string {
	sum := sha1.Sum([]byte("schwire/" + name))
	sum[6] = (sum[6] & 0x0f) | 0x50
	sum[8] = (sum[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", sum[0:4], sum[4:6], sum[6:8], sum[8:10], sum[10:16])
}
