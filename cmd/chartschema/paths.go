package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artpar/chartschema/core/schema"
)

var (
	pathsLeaves bool
)

var pathsCmd = &cobra.Command{
	Use:   "paths <schema>",
	Short: "List the attribute paths of a schema",
	Long: `List the dotted key-path of every attribute of a schema, one per line.

Examples:
  chartschema paths polar
  chartschema paths polar --leaves | grep tick`,
	Args: cobra.ExactArgs(1),
	RunE: runPaths,
}

func init() {
	rootCmd.AddCommand(pathsCmd)

	pathsCmd.Flags().BoolVar(&pathsLeaves, "leaves", false, "list attributes only, not groups")
}

func runPaths(cmd *cobra.Command, args []string) error {
	reg, _, err := loadRegistry()
	if err != nil {
		return err
	}
	g, err := reg.Get(args[0])
	if err != nil {
		return err
	}

	leaves := schema.Leaves(g)
	for _, path := range schema.Paths(g) {
		if _, isLeaf := leaves[path]; pathsLeaves && !isLeaf {
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}
