package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/schwire/internal/design"
	"github.com/OpenTraceLab/schwire/pkg/kicad/export"
	"github.com/OpenTraceLab/schwire/pkg/schematic"
	"github.com/OpenTraceLab/schwire/pkg/symbol"
)

var (
	buildOutput  string
	buildNetlist string
	buildJSON    string
	buildPreview string
	buildPaper   string
	buildScale   float64
)

// Library lookup flags shared by build and symbol.
var (
	librariesRC string
	libraryDir  string
	useBuiltin  bool
)

var buildCmd = &cobra.Command{
	Use:   "build <design>",
	Short: "Place, wire up and export a design",
	Long: `Load a design file (.yaml, .yml or .toml), place its instances, resolve
and route every net, and write the result.

Libraries are looked up in the design's library_paths and libraries_rc first,
then --libraries-rc, then --library-dir, then the built-in set (--builtin).`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "KiCad schematic output (default: <design>.kicad_sch)")
	buildCmd.Flags().StringVar(&buildNetlist, "netlist", "", "also write a KiCad netlist")
	buildCmd.Flags().StringVar(&buildJSON, "json", "", "also write the document as JSON")
	buildCmd.Flags().StringVar(&buildPreview, "preview", "", "also render a PNG preview")
	buildCmd.Flags().StringVar(&buildPaper, "paper", "", "page size (default: smallest A size that fits)")
	buildCmd.Flags().Float64Var(&buildScale, "scale", 8, "preview pixels per millimetre")
	addLibraryFlags(buildCmd)
}

func addLibraryFlags(c *cobra.Command) {
	c.Flags().StringVar(&librariesRC, "libraries-rc", "", "EAGLE libraries.rc to resolve library names")
	c.Flags().StringVar(&libraryDir, "library-dir", "", "directory searched for <name>.lbr / <name>.kicad_sym")
	c.Flags().BoolVar(&useBuiltin, "builtin", false, "fall back to the built-in transistor and resistor libraries")
}

// libraryProvider assembles the provider chain selected by the library flags.
func libraryProvider() (symbol.Provider, error) {
	var providers []symbol.Provider
	if librariesRC != "" {
		rc, err := symbol.LoadRC(librariesRC)
		if err != nil {
			return nil, err
		}
		providers = append(providers, symbol.NewFileProvider(rc))
	}
	if libraryDir != "" {
		providers = append(providers, symbol.NewFileProvider(symbol.DirResolver{Root: libraryDir}))
	}
	if useBuiltin {
		providers = append(providers, symbol.Builtin())
	}
	return symbol.Chain(providers...), nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	log := logger()

	d, err := design.Load(args[0])
	if err != nil {
		return err
	}

	fallback, err := libraryProvider()
	if err != nil {
		return err
	}
	provider, err := d.Provider(fallback)
	if err != nil {
		return err
	}

	sch := schematic.New(provider, d.SchematicConfig(nil))
	sch.SetLogger(log)
	if _, err := d.Apply(sch, log); err != nil {
		return err
	}

	doc, err := sch.WireUp()
	if err != nil {
		return err
	}

	output := buildOutput
	if output == "" {
		output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".kicad_sch"
	}

	outputs := []struct {
		path   string
		writer schematic.Writer
	}{
		{output, export.SchematicWriter{Paper: buildPaper}},
		{buildNetlist, export.NetlistWriter{Source: args[0]}},
		{buildJSON, export.JSONWriter{}},
		{buildPreview, export.PreviewWriter{Scale: buildScale, Labels: true}},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := writeFile(o.path, doc, o.writer); err != nil {
			return err
		}
		log.Printf("[OUT] %s", o.path)
	}

	fmt.Printf("✓ %s: %d instances, %d nets → %s\n", d.Name, len(doc.Instances), len(doc.Nets), output)
	return nil
}

func writeFile(path string, doc *schematic.Document, w schematic.Writer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := w.WriteDocument(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
