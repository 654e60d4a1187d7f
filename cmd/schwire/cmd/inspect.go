package cmd

import (
	"fmt"
	"os"
	"sort"

	chewxy "github.com/chewxy/sexp"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/schwire/pkg/kicad/sexp"
	"github.com/OpenTraceLab/schwire/pkg/kicad/sexp/kicadsexp"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <kicad_file>",
	Short: "Check a written KiCad file with two independent parsers",
	Long: `Parse a .kicad_sch or netlist file with the built-in s-expression parser
and with github.com/chewxy/sexp, then summarise the top-level nodes.

Useful to confirm generated output is well formed before opening it in KiCad.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("File size: %d bytes\n", len(data))

	exprs, err := kicadsexp.ParseString(string(data))
	if err != nil {
		return fmt.Errorf("error parsing s-expression: %w", err)
	}
	if len(exprs) == 0 || exprs[0].IsLeaf() {
		return fmt.Errorf("%s: no top-level list", args[0])
	}
	root := exprs[0]
	name, _ := sexp.GetNodeName(root)
	fmt.Printf("Root: %s (%d elements)\n", name, root.LeafCount())

	counts := make(map[string]int)
	for _, item := range sexp.Items(root) {
		if item.IsLeaf() {
			continue
		}
		if n, err := sexp.GetNodeName(item); err == nil {
			counts[n]++
		}
	}
	var names []string
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %-16s %d\n", n, counts[n])
	}

	// Cross-check with the independent parser.
	others, err := chewxy.ParseString(string(data))
	if err != nil {
		return fmt.Errorf("chewxy/sexp rejected %s: %w", args[0], err)
	}
	if len(others) != len(exprs) {
		return fmt.Errorf("parsers disagree: %d vs %d top-level expressions", len(exprs), len(others))
	}
	if others[0].IsLeaf() {
		return fmt.Errorf("parsers disagree on the root list")
	}
	fmt.Println("✓ chewxy/sexp agrees")
	return nil
}
