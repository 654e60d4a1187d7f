package symbol

import "github.com/OpenTraceLab/schwire/pkg/geometry"

// Builtin returns a provider with the two libraries the default device
// bindings use: transistor-npn (symbol NPN) and resistor-power (symbol R).
// The geometry follows the stock EAGLE symbols.
func Builtin() *MemoryProvider {
	return NewMemoryProvider(builtinNPN(), builtinResistor())
}

func builtinNPN() *Library {
	sym := &Symbol{
		Name: "NPN",
		Wires: []Wire{
			{X1: 2.54, Y1: 2.54, X2: 0.508, Y2: 1.524, Width: 0.1524, Layer: SymbolLayer},
			{X1: 1.778, Y1: -1.524, X2: 2.54, Y2: -2.54, Width: 0.1524, Layer: SymbolLayer},
			{X1: 2.54, Y1: -2.54, X2: 1.27, Y2: -2.54, Width: 0.254, Layer: SymbolLayer},
			{X1: 2.54, Y1: -2.54, X2: 1.778, Y2: -1.524, Width: 0.254, Layer: SymbolLayer},
			{X1: 1.54, Y1: -2.04, X2: 0.308, Y2: -1.424, Width: 0.1524, Layer: SymbolLayer},
		},
		Rectangles: []Rectangle{
			{X1: -0.254, Y1: -2.54, X2: 0.508, Y2: 2.54, Layer: SymbolLayer},
		},
		Texts: []Text{
			{X: -10.16, Y: 7.62, Size: 1.778, Layer: 95, Value: ">NAME"},
			{X: -10.16, Y: 5.08, Size: 1.778, Layer: 96, Value: ">VALUE"},
		},
		Pins: []Pin{
			{Name: "B", X: -2.54, Y: 0, Direction: "pas", Length: "short", Visible: "off", Rotation: geometry.R0},
			{Name: "E", X: 2.54, Y: -5.08, Direction: "pas", Length: "short", Visible: "off", Rotation: geometry.R90},
			{Name: "C", X: 2.54, Y: 5.08, Direction: "pas", Length: "short", Visible: "off", Rotation: geometry.R270},
		},
	}
	return &Library{
		Name:    "transistor-npn",
		Symbols: []*Symbol{sym},
		DeviceSets: []DeviceSet{{
			Name:    "NPN",
			Prefix:  "Q",
			Gates:   map[string]string{"G$1": "NPN"},
			Devices: []Device{{Name: "TO92", Package: "TO92"}, {Name: "SOT23", Package: "SOT23"}},
		}},
		Packages: []string{"TO92", "SOT23"},
	}
}

func builtinResistor() *Library {
	sym := &Symbol{
		Name: "R",
		Wires: []Wire{
			{X1: -2.54, Y1: 0, X2: -2.159, Y2: 0.889, Width: 0.2032, Layer: SymbolLayer},
			{X1: -2.159, Y1: 0.889, X2: -1.524, Y2: -0.889, Width: 0.2032, Layer: SymbolLayer},
			{X1: -1.524, Y1: -0.889, X2: -0.889, Y2: 0.889, Width: 0.2032, Layer: SymbolLayer},
			{X1: -0.889, Y1: 0.889, X2: -0.254, Y2: -0.889, Width: 0.2032, Layer: SymbolLayer},
			{X1: -0.254, Y1: -0.889, X2: 0.381, Y2: 0.889, Width: 0.2032, Layer: SymbolLayer},
			{X1: 0.381, Y1: 0.889, X2: 1.016, Y2: -0.889, Width: 0.2032, Layer: SymbolLayer},
			{X1: 1.016, Y1: -0.889, X2: 1.651, Y2: 0.889, Width: 0.2032, Layer: SymbolLayer},
			{X1: 1.651, Y1: 0.889, X2: 2.286, Y2: -0.889, Width: 0.2032, Layer: SymbolLayer},
			{X1: 2.286, Y1: -0.889, X2: 2.54, Y2: 0, Width: 0.2032, Layer: SymbolLayer},
		},
		Texts: []Text{
			{X: -3.81, Y: 1.4986, Size: 1.778, Layer: 95, Value: ">NAME"},
			{X: -3.81, Y: -3.302, Size: 1.778, Layer: 96, Value: ">VALUE"},
		},
		Pins: []Pin{
			{Name: "1", X: -5.08, Y: 0, Direction: "pas", Length: "short", Visible: "off", Rotation: geometry.R0},
			{Name: "2", X: 5.08, Y: 0, Direction: "pas", Length: "short", Visible: "off", Rotation: geometry.R180},
		},
	}
	return &Library{
		Name:    "resistor-power",
		Symbols: []*Symbol{sym},
		DeviceSets: []DeviceSet{{
			Name:    "R",
			Prefix:  "R",
			Gates:   map[string]string{"G$1": "R"},
			Devices: []Device{{Name: "0207/10", Package: "0207/10"}, {Name: "0204/5", Package: "0204/5"}},
		}},
		Packages: []string{"0207/10", "0204/5"},
	}
}
