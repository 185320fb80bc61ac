package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/artpar/chartschema/adapters/clock"
	"github.com/artpar/chartschema/bootstrap"
	"github.com/artpar/chartschema/config"
	"github.com/artpar/chartschema/core/formatter"
	"github.com/artpar/chartschema/core/registry"
)

var (
	// Global flags
	cfgFile      string
	outputFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chartschema",
	Short: "Layout attribute schemas for chart subplots",
	Long: `chartschema publishes the attribute schema of chart layout containers
and validates layouts against it.

Quick start:
  chartschema serve                       # Serve schemas over HTTP
  chartschema dump polar                  # Print the polar schema
  chartschema validate polar 'layouts/**/*.yaml'

Schema defaults can be overridden in chartschema.yaml (or --config):

  schema:
    defaults:
      polar.hole: 0.1`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default $"+bootstrap.EnvConfigPath+" or "+bootstrap.DefaultConfigPath+")")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "output format: json, yaml, table, markdown (default table on a terminal, json otherwise)")
}

// isTerminal reports whether stdout is attached to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// outputFormatter resolves --format, defaulting by whether stdout is a
// terminal.
func outputFormatter() (formatter.Formatter, error) {
	name := outputFormat
	if name == "" {
		name = "json"
		if isTerminal() {
			name = "table"
		}
	}
	f, ok := formatter.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown format %q (available: %v)", name, formatter.List())
	}
	return f, nil
}

// loadConfig loads the config file, falling back to the environment when
// it does not exist.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFallback(bootstrap.ResolveConfigPath(cfgFile))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// loadRegistry publishes every schema with the configured defaults.
func loadRegistry() (*registry.Registry, *registry.Published, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	reg, err := bootstrap.NewRegistry(clock.Real{}, zerolog.Nop())
	if err != nil {
		return nil, nil, err
	}
	p, err := reg.Rebuild(cfg.Schema.Defaults)
	if err != nil {
		return nil, nil, err
	}
	return reg, p, nil
}
