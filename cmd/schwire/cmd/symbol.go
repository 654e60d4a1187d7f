package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/schwire/pkg/kicad/export"
	"github.com/OpenTraceLab/schwire/pkg/symbol"
)

var symbolCmd = &cobra.Command{
	Use:   "symbol",
	Short: "Symbol library operations",
	Long:  `Commands for inspecting EAGLE (.lbr) and KiCad (.kicad_sym) symbol libraries`,
}

var symbolInfoCmd = &cobra.Command{
	Use:   "info <library> [symbol]",
	Short: "Show library or symbol information",
	Long: `Display information about a symbol library. <library> is either a file
path or a library name resolved through the library flags.

Without symbol argument: lists symbols and device sets
With symbol argument: shows bounds and pins of that symbol`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSymbolInfo,
}

func init() {
	rootCmd.AddCommand(symbolCmd)
	symbolCmd.AddCommand(symbolInfoCmd)
	addLibraryFlags(symbolInfoCmd)
}

func loadLibrary(name string) (*symbol.Library, error) {
	if _, err := os.Stat(name); err == nil {
		return symbol.LoadFile(name)
	}
	provider, err := libraryProvider()
	if err != nil {
		return nil, err
	}
	return provider.LoadLibrary(name)
}

func runSymbolInfo(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary(args[0])
	if err != nil {
		return fmt.Errorf("error loading library: %w", err)
	}

	if len(args) >= 2 {
		sym, err := lib.Symbol(args[1])
		if err != nil {
			return err
		}
		showSymbol(sym)
		return nil
	}

	fmt.Printf("Library: %s\n", lib.Name)
	if lib.Path != "" {
		fmt.Printf("Path: %s\n", lib.Path)
	}
	fmt.Println()

	fmt.Printf("Symbols (%d):\n", len(lib.Symbols))
	for _, sym := range lib.Symbols {
		fmt.Printf("  %-20s %d pins\n", sym.Name, len(sym.Pins))
	}

	if len(lib.DeviceSets) > 0 {
		fmt.Println()
		fmt.Printf("Device sets (%d):\n", len(lib.DeviceSets))
		for _, ds := range lib.DeviceSets {
			var devices []string
			for _, d := range ds.Devices {
				devices = append(devices, d.Name+"/"+d.Package)
			}
			fmt.Printf("  %-20s prefix %-4s %s\n", ds.Name, ds.Prefix, strings.Join(devices, ", "))
		}
	}

	if len(lib.Packages) > 0 {
		fmt.Println()
		fmt.Printf("Packages: %s\n", strings.Join(lib.Packages, ", "))
	}
	return nil
}

func showSymbol(sym *symbol.Symbol) {
	b := sym.Bounds()
	fmt.Printf("Symbol: %s\n", sym.Name)
	if b.IsEmpty() {
		fmt.Println("Bounds: (empty)")
	} else {
		fmt.Printf("Bounds: (%.3f, %.3f) - (%.3f, %.3f)  %.3f x %.3f mm\n",
			b.Min.X, b.Min.Y, b.Max.X, b.Max.Y, b.Width(), b.Height())
	}
	fmt.Printf("Graphics: %d wires, %d rectangles, %d circles, %d texts\n",
		len(sym.Wires), len(sym.Rectangles), len(sym.Circles), len(sym.Texts))
	fmt.Println()

	fmt.Printf("Pins (%d):\n", len(sym.Pins))
	for _, p := range sym.Pins {
		fmt.Printf("  %-8s at (%7.3f, %7.3f)  %-5s %-4s len %.2f\n",
			p.Name, p.X, p.Y, p.Rotation, p.Direction, export.PinLength(p))
	}
}
