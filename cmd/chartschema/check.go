package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/artpar/chartschema/adapters/clock"
	"github.com/artpar/chartschema/adapters/sqlite"
	"github.com/artpar/chartschema/bootstrap"
	"github.com/artpar/chartschema/config"
	"github.com/artpar/chartschema/core/schema"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check configuration and schema defaults before deployment",
	Long: `Load the configuration and build every schema with its configured
defaults, exactly as serve would at startup.

Checks:
  - Config syntax and values are valid
  - Every schema.defaults key names an existing attribute
  - Every overridden default satisfies its attribute's constraints

Examples:
  chartschema check
  chartschema check --config /etc/chartschema/config.yaml`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := bootstrap.ResolveConfigPath(cfgFile)
	fmt.Fprintf(out, "Checking %s...\n\n", path)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(out, "  %s Config valid\n", mark(false))
		return err
	}
	fmt.Fprintf(out, "  %s Config valid\n", mark(true))
	if err := checkStore(out, cfg.Database); err != nil {
		fmt.Fprintf(out, "  %s Snapshot store: %s\n", mark(false), cfg.Database.Driver)
		return err
	}
	fmt.Fprintf(out, "  %s Default overrides: %d\n", mark(true), len(cfg.Schema.Defaults))

	reg, err := bootstrap.NewRegistry(clock.Real{}, zerolog.Nop())
	if err != nil {
		return err
	}
	p, err := reg.Rebuild(cfg.Schema.Defaults)
	if err != nil {
		fmt.Fprintf(out, "  %s Schemas build\n", mark(false))
		return err
	}
	for _, name := range p.Names() {
		fmt.Fprintf(out, "  %s Schema %s: %d attributes\n", mark(true), name, len(schema.Leaves(p.Schemas[name])))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration is valid.")
	return nil
}

// checkStore reports the snapshot store without creating it.
func checkStore(out io.Writer, cfg config.DatabaseConfig) error {
	if cfg.Driver != "sqlite" {
		fmt.Fprintf(out, "  %s Snapshot store: %s\n", mark(true), cfg.Driver)
		return nil
	}
	if _, err := os.Stat(cfg.DSN); os.IsNotExist(err) {
		fmt.Fprintf(out, "  %s Snapshot store: %s (created on first serve)\n", mark(true), cfg.DSN)
		return nil
	}

	db, err := sqlite.Open(cfg.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	pending, err := db.Pending()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  %s Snapshot store: %s (%d pending migrations)\n", mark(true), cfg.DSN, len(pending))
	return nil
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)

func mark(ok bool) string {
	switch {
	case !isTerminal() && ok:
		return "ok"
	case !isTerminal():
		return "FAIL"
	case ok:
		return checkMark
	default:
		return crossMark
	}
}
