package symbol

import (
	"fmt"
	"io"
	"strconv"

	"github.com/OpenTraceLab/schwire/pkg/geometry"
	"github.com/OpenTraceLab/schwire/pkg/kicad/sexp"
	"github.com/OpenTraceLab/schwire/pkg/kicad/sexp/kicadsexp"
)

// SymbolLayer is the EAGLE layer number for symbol bodies. KiCad graphics
// carry no layer and are assigned to it on import.
const SymbolLayer = 94

var kicadPinDirections = map[string]string{
	"input":          "in",
	"output":         "out",
	"bidirectional":  "io",
	"tri_state":      "hiz",
	"passive":        "pas",
	"free":           "pas",
	"unspecified":    "pas",
	"power_in":       "pwr",
	"power_out":      "sup",
	"open_collector": "oc",
	"open_emitter":   "oc",
	"no_connect":     "nc",
}

// DecodeKiCad reads a KiCad .kicad_sym symbol library.
func DecodeKiCad(r io.Reader) (*Library, error) {
	exprs, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("symbol: failed to parse KiCad library: %w", err)
	}
	if len(exprs) == 0 {
		return nil, fmt.Errorf("symbol: empty KiCad library")
	}

	root := exprs[0]
	if name, err := sexp.GetNodeName(root); err != nil || name != "kicad_symbol_lib" {
		return nil, fmt.Errorf("symbol: not a KiCad symbol library")
	}

	lib := &Library{}
	for _, node := range sexp.FindAllNodes(root, "symbol") {
		sym, err := parseKiCadSymbol(node)
		if err != nil {
			return nil, err
		}
		lib.Symbols = append(lib.Symbols, sym)
	}
	return lib, nil
}

func parseKiCadSymbol(node kicadsexp.Sexp) (*Symbol, error) {
	name, err := sexp.GetString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("symbol: symbol without name: %w", err)
	}
	sym := &Symbol{Name: name}

	// Graphics may live directly on the symbol or in its unit sub-symbols.
	units := append([]kicadsexp.Sexp{node}, sexp.FindAllNodes(node, "symbol")...)
	for _, unit := range units {
		if err := parseKiCadUnit(sym, unit); err != nil {
			return nil, fmt.Errorf("symbol: %s: %w", name, err)
		}
	}

	sym.Bounds()
	return sym, nil
}

func parseKiCadUnit(sym *Symbol, unit kicadsexp.Sexp) error {
	for _, rn := range sexp.FindAllNodes(unit, "rectangle") {
		x1, y1, err := nodeXY(rn, "start")
		if err != nil {
			return err
		}
		x2, y2, err := nodeXY(rn, "end")
		if err != nil {
			return err
		}
		sym.Rectangles = append(sym.Rectangles, Rectangle{X1: x1, Y1: y1, X2: x2, Y2: y2, Layer: SymbolLayer})
	}

	for _, cn := range sexp.FindAllNodes(unit, "circle") {
		x, y, err := nodeXY(cn, "center")
		if err != nil {
			return err
		}
		rn, ok := sexp.FindNode(cn, "radius")
		if !ok {
			return fmt.Errorf("circle without radius")
		}
		radius, err := sexp.GetFloat(rn, 1)
		if err != nil {
			return err
		}
		sym.Circles = append(sym.Circles, Circle{X: x, Y: y, Radius: radius, Width: strokeWidth(cn), Layer: SymbolLayer})
	}

	for _, pn := range sexp.FindAllNodes(unit, "polyline") {
		pts, ok := sexp.FindNode(pn, "pts")
		if !ok {
			continue
		}
		if err := appendPath(sym, sexp.FindAllNodes(pts, "xy"), strokeWidth(pn)); err != nil {
			return err
		}
	}

	// Arcs are approximated by the chords through their midpoint.
	for _, an := range sexp.FindAllNodes(unit, "arc") {
		var path []kicadsexp.Sexp
		for _, key := range []string{"start", "mid", "end"} {
			if n, ok := sexp.FindNode(an, key); ok {
				path = append(path, n)
			}
		}
		if err := appendPath(sym, path, strokeWidth(an)); err != nil {
			return err
		}
	}

	for _, tn := range sexp.FindAllNodes(unit, "text") {
		value, _ := sexp.GetString(tn, 1)
		x, y, err := nodeXY(tn, "at")
		if err != nil {
			return err
		}
		sym.Texts = append(sym.Texts, Text{X: x, Y: y, Size: fontSize(tn), Layer: SymbolLayer, Value: value})
	}

	for _, pn := range sexp.FindAllNodes(unit, "pin") {
		pin, err := parseKiCadPin(pn)
		if err != nil {
			return err
		}
		sym.Pins = append(sym.Pins, pin)
	}
	return nil
}

func parseKiCadPin(node kicadsexp.Sexp) (Pin, error) {
	pin := Pin{Visible: "both", Length: "0", Direction: "pas"}

	if typ, err := sexp.GetString(node, 1); err == nil {
		if dir, ok := kicadPinDirections[typ]; ok {
			pin.Direction = dir
		}
	}

	atNode, ok := sexp.FindNode(node, "at")
	if !ok {
		return Pin{}, fmt.Errorf("pin without position")
	}
	x, y, err := sexp.GetXY(atNode)
	if err != nil {
		return Pin{}, fmt.Errorf("pin: %w", err)
	}
	pin.X, pin.Y = x, y
	if angle, err := sexp.GetFloat(atNode, 3); err == nil {
		pin.Rotation = geometry.Rotation(angle)
	}

	if lenNode, ok := sexp.FindNode(node, "length"); ok {
		if l, err := sexp.GetFloat(lenNode, 1); err == nil {
			pin.Length = strconv.FormatFloat(l, 'f', -1, 64)
		}
	}

	var number string
	if numNode, ok := sexp.FindNode(node, "number"); ok {
		number, _ = sexp.GetString(numNode, 1)
	}
	if nameNode, ok := sexp.FindNode(node, "name"); ok {
		pin.Name, _ = sexp.GetString(nameNode, 1)
	}
	// Unnamed pins ("~") are addressed by number.
	if pin.Name == "" || pin.Name == "~" {
		pin.Name = number
	}
	if pin.Name == "" {
		return Pin{}, fmt.Errorf("pin at (%g, %g) has neither name nor number", x, y)
	}

	if sexp.HasSymbol(node, "hide") {
		pin.Visible = "off"
	} else if hn, ok := sexp.FindNode(node, "hide"); ok {
		if v, _ := sexp.GetString(hn, 1); v == "yes" {
			pin.Visible = "off"
		}
	}
	return pin, nil
}

func appendPath(sym *Symbol, points []kicadsexp.Sexp, width float64) error {
	for i := 1; i < len(points); i++ {
		x1, y1, err := sexp.GetXY(points[i-1])
		if err != nil {
			return err
		}
		x2, y2, err := sexp.GetXY(points[i])
		if err != nil {
			return err
		}
		sym.Wires = append(sym.Wires, Wire{X1: x1, Y1: y1, X2: x2, Y2: y2, Width: width, Layer: SymbolLayer})
	}
	return nil
}

func nodeXY(node kicadsexp.Sexp, key string) (float64, float64, error) {
	n, ok := sexp.FindNode(node, key)
	if !ok {
		return 0, 0, fmt.Errorf("missing (%s ...)", key)
	}
	return sexp.GetXY(n)
}

func strokeWidth(node kicadsexp.Sexp) float64 {
	stroke, ok := sexp.FindNode(node, "stroke")
	if !ok {
		return 0
	}
	wn, ok := sexp.FindNode(stroke, "width")
	if !ok {
		return 0
	}
	w, _ := sexp.GetFloat(wn, 1)
	return w
}

func fontSize(node kicadsexp.Sexp) float64 {
	effects, ok := sexp.FindNode(node, "effects")
	if !ok {
		return 0
	}
	font, ok := sexp.FindNode(effects, "font")
	if !ok {
		return 0
	}
	size, ok := sexp.FindNode(font, "size")
	if !ok {
		return 0
	}
	h, _ := sexp.GetFloat(size, 1)
	return h
}
