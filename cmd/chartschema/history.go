package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artpar/chartschema/adapters/sqlite"
	"github.com/artpar/chartschema/core/formatter"
)

var (
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history <schema>",
	Short: "List the recorded revisions of a schema",
	Long: `List the snapshots recorded each time the server published a new
revision of a schema, newest first. Requires the sqlite snapshot store.

Examples:
  chartschema history polar
  chartschema history polar --limit 5 --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of snapshots (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	f, err := outputFormatter()
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.Driver != "sqlite" {
		return fmt.Errorf("history requires the sqlite driver, config uses %q", cfg.Database.Driver)
	}

	db, err := sqlite.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	snaps, err := sqlite.NewSnapshotStore(db).List(cmd.Context(), args[0], historyLimit)
	if err != nil {
		return err
	}
	return f.FormatSnapshots(cmd.OutOrStdout(), snaps, formatter.FormatOptions{})
}
