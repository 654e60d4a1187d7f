package export

import (
	"io"
	"strconv"

	"github.com/OpenTraceLab/schwire/pkg/kicad/sexp/kicadsexp"
	"github.com/OpenTraceLab/schwire/pkg/schematic"
)

// NetlistWriter writes the KiCad netlist exchange format: one component per
// instance and one net per document net.
type NetlistWriter struct {
	// Source is recorded in the design header, typically the input file.
	Source string
}

// WriteDocument implements schematic.Writer.
func (nw NetlistWriter) WriteDocument(w io.Writer, doc *schematic.Document) error {
	components := kicadsexp.Node("components")
	for _, inst := range doc.Instances {
		comp := kicadsexp.Node("comp",
			kicadsexp.Node("ref", kicadsexp.Quoted(inst.Ref)),
			kicadsexp.Node("value", kicadsexp.Quoted(inst.Device)),
		)
		if inst.Package != "" {
			comp.Append(kicadsexp.Node("footprint", kicadsexp.Quoted(inst.Package)))
		}
		comp.Append(kicadsexp.Node("libsource",
			kicadsexp.Node("lib", kicadsexp.Quoted(inst.Library)),
			kicadsexp.Node("part", kicadsexp.Quoted(inst.Symbol.Name)),
		))
		components.Append(comp)
	}

	nets := kicadsexp.Node("nets")
	for i, net := range doc.Nets {
		n := kicadsexp.Node("net",
			kicadsexp.Node("code", kicadsexp.Quoted(strconv.Itoa(i+1))),
			kicadsexp.Node("name", kicadsexp.Quoted(net.Name)),
		)
		for _, pin := range net.Pins {
			n.Append(kicadsexp.Node("node",
				kicadsexp.Node("ref", kicadsexp.Quoted(pin.Part)),
				kicadsexp.Node("pin", kicadsexp.Quoted(pin.Pin)),
			))
		}
		nets.Append(n)
	}

	root := kicadsexp.Node("export",
		kicadsexp.Node("version", kicadsexp.Quoted("E")),
		kicadsexp.Node("design",
			kicadsexp.Node("source", kicadsexp.Quoted(nw.Source)),
			kicadsexp.Node("tool", kicadsexp.Quoted(Generator)),
		),
		components,
		nets,
	)
	return kicadsexp.Write(w, root)
}
