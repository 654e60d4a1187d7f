package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/schwire/internal/design"
	"github.com/OpenTraceLab/schwire/pkg/composite"
)

var compositeOutput string

var compositeCmd = &cobra.Command{
	Use:   "composite",
	Short: "Composite symbol operations",
	Long:  `Commands for converting designs to and from composite symbol files (.xml)`,
}

var compositeEncodeCmd = &cobra.Command{
	Use:   "encode <design>",
	Short: "Convert a design's instances and wires into a composite symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompositeEncode,
}

var compositeDecodeCmd = &cobra.Command{
	Use:   "decode <composite_file>",
	Short: "Show the parts and connections of a composite symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompositeDecode,
}

func init() {
	rootCmd.AddCommand(compositeCmd)
	compositeCmd.AddCommand(compositeEncodeCmd)
	compositeCmd.AddCommand(compositeDecodeCmd)

	compositeEncodeCmd.Flags().StringVarP(&compositeOutput, "output", "o", "", "output file (default: stdout)")
}

func runCompositeEncode(cmd *cobra.Command, args []string) error {
	d, err := design.Load(args[0])
	if err != nil {
		return err
	}
	sym, err := d.Composite()
	if err != nil {
		return err
	}

	if compositeOutput == "" {
		return sym.Encode(os.Stdout)
	}
	f, err := os.Create(compositeOutput)
	if err != nil {
		return err
	}
	if err := sym.Encode(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("✓ %s: %d parts, %d connections → %s\n", sym.Name, len(sym.Descriptors), len(sym.Connections), compositeOutput)
	return nil
}

func runCompositeDecode(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	sym, err := composite.Decode(f)
	if err != nil {
		return fmt.Errorf("error decoding composite: %w", err)
	}

	fmt.Printf("Composite: %s\n", sym.Name)
	fmt.Println()
	fmt.Printf("Parts (%d):\n", len(sym.Descriptors))
	for _, d := range sym.Descriptors {
		fmt.Printf("  %s%-4d %s/%s\n", d.Prefix, d.ID, d.DeviceSet, d.Part)
	}
	fmt.Println()
	fmt.Printf("Connections (%d):\n", len(sym.Connections))
	for _, c := range sym.Connections {
		fmt.Printf("  %s%d.%s → %s%d.%s\n",
			c.Source.Descriptor.Prefix, c.Source.Descriptor.ID, c.Source.Pin,
			c.Target.Descriptor.Prefix, c.Target.Descriptor.ID, c.Target.Pin)
	}
	return nil
}
