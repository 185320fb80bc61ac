package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artpar/chartschema/bootstrap"
)

var (
	hotReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve schemas over HTTP",
	Long: `Start the chartschema HTTP server.

The server will:
  - Load configuration from chartschema.yaml (or --config)
  - Or load configuration from CHARTSCHEMA_* environment variables
  - Publish every schema with the configured defaults
  - Record each published revision in the snapshot store
  - Republish when the config file changes or on SIGHUP

Environment variables (for Docker deployments):
  CHARTSCHEMA_SERVER_PORT      - Server port (default: 8080)
  CHARTSCHEMA_DATABASE_DRIVER  - Snapshot store: sqlite or memory
  CHARTSCHEMA_DATABASE_DSN     - Database path (default: chartschema.db)
  CHARTSCHEMA_LOG_LEVEL        - Log level: debug, info, warn, error
  CHARTSCHEMA_METRICS_ENABLED  - Serve Prometheus metrics

Examples:
  chartschema serve
  chartschema serve --config /etc/chartschema/config.yaml
  chartschema serve --hot-reload=false`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "reload configuration on change")
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := bootstrap.New(bootstrap.Options{
		ConfigPath: cfgFile,
		Version:    version,
		Watch:      hotReload,
	})
	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run(cmd.Context())
}
