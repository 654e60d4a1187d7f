package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "schwire",
	Short: "schwire - schematic generation from component netlists",
	Long: `schwire turns a design (component instances and pin-to-pin wires) into a
routed schematic:
  - places instances in bands per reference prefix
  - resolves nets and names them after their components
  - routes orthogonal wires around other parts
  - writes KiCad schematics, netlists, JSON and PNG previews

Examples:
  schwire build adder.yaml -o adder.kicad_sch --builtin
  schwire build adder.toml -o adder.kicad_sch --netlist adder.net
  schwire symbol info transistor-npn NPN --builtin
  schwire composite encode half_adder.yaml -o half_adder.xml`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// logger returns the progress logger selected by --verbose.
func logger() *log.Logger {
	if verbose {
		return log.New(os.Stderr, "", log.Ltime)
	}
	return log.New(io.Discard, "", 0)
}
