package export

import (
	"encoding/json"
	"io"

	"github.com/OpenTraceLab/schwire/pkg/schematic"
)

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type jsonSheet struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonInstance struct {
	Ref       string    `json:"ref"`
	Library   string    `json:"library"`
	Symbol    string    `json:"symbol"`
	DeviceSet string    `json:"device_set"`
	Device    string    `json:"device"`
	Package   string    `json:"package,omitempty"`
	At        jsonPoint `json:"at"`
	Rotation  float64   `json:"rotation"`
}

type jsonWire struct {
	From  jsonPoint `json:"from"`
	To    jsonPoint `json:"to"`
	Width float64   `json:"width"`
}

type jsonPin struct {
	Part string `json:"part"`
	Gate string `json:"gate"`
	Pin  string `json:"pin"`
}

type jsonNet struct {
	Name  string     `json:"name"`
	Pins  []jsonPin  `json:"pins"`
	Wires []jsonWire `json:"wires"`
}

// JSONWriter dumps the document model as indented JSON.
type JSONWriter struct{}

// WriteDocument implements schematic.Writer.
func (JSONWriter) WriteDocument(w io.Writer, doc *schematic.Document) error {
	output := struct {
		Version     string         `json:"version"`
		Sheet       jsonSheet      `json:"sheet"`
		Instances   []jsonInstance `json:"instances"`
		Nets        []jsonNet      `json:"nets"`
		GeneratedBy string         `json:"generated_by"`
	}{
		Version: "1.0",
		Sheet: jsonSheet{
			X:      doc.Sheet.X,
			Y:      doc.Sheet.Y,
			Width:  doc.Sheet.Width,
			Height: doc.Sheet.Height,
		},
		GeneratedBy: Generator,
	}

	for _, inst := range doc.Instances {
		output.Instances = append(output.Instances, jsonInstance{
			Ref:       inst.Ref,
			Library:   inst.Library,
			Symbol:    inst.Symbol.Name,
			DeviceSet: inst.DeviceSet,
			Device:    inst.Device,
			Package:   inst.Package,
			At:        jsonPoint{X: inst.Position.X, Y: inst.Position.Y},
			Rotation:  float64(inst.Rotation),
		})
	}
	for _, net := range doc.Nets {
		jn := jsonNet{Name: net.Name}
		for _, p := range net.Pins {
			jn.Pins = append(jn.Pins, jsonPin{Part: p.Part, Gate: p.Gate, Pin: p.Pin})
		}
		for _, wire := range net.Wires {
			jn.Wires = append(jn.Wires, jsonWire{
				From:  jsonPoint{X: wire.A.X, Y: wire.A.Y},
				To:    jsonPoint{X: wire.B.X, Y: wire.B.Y},
				Width: wire.Width,
			})
		}
		output.Nets = append(output.Nets, jn)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
