package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artpar/chartschema/core/formatter"
	"github.com/artpar/chartschema/core/schema"
)

var (
	dumpPath    string
	dumpCompact bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump <schema>",
	Short: "Print a published schema",
	Long: `Print a schema, or the subtree at --path, with the configured defaults
applied.

Examples:
  chartschema dump polar
  chartschema dump polar --path radialaxis.title --format yaml
  chartschema dump polar --format markdown > polar.md`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().StringVarP(&dumpPath, "path", "p", "", "dotted attribute path to print")
	dumpCmd.Flags().BoolVar(&dumpCompact, "compact", false, "compact json output")
}

func runDump(cmd *cobra.Command, args []string) error {
	f, err := outputFormatter()
	if err != nil {
		return err
	}

	reg, p, err := loadRegistry()
	if err != nil {
		return err
	}
	g, err := reg.Get(args[0])
	if err != nil {
		return err
	}

	doc := formatter.SchemaDoc{Name: args[0], Revision: p.Revision, Node: g}
	if path := strings.Trim(dumpPath, "."); path != "" {
		n, ok := schema.Lookup(g, path)
		if !ok {
			return fmt.Errorf("no attribute %q in %s", path, args[0])
		}
		doc.Path = path
		doc.Node = n
	}

	return f.FormatSchema(cmd.OutOrStdout(), doc, formatter.FormatOptions{Compact: dumpCompact})
}
