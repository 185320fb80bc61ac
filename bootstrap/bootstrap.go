// Package bootstrap wires all dependencies and starts the application.
// Configuration comes from a YAML file when one exists, otherwise from
// CHARTSCHEMA_* environment variables.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/artpar/chartschema/adapters/clock"
	apihttp "github.com/artpar/chartschema/adapters/http"
	"github.com/artpar/chartschema/adapters/idgen"
	"github.com/artpar/chartschema/adapters/memory"
	"github.com/artpar/chartschema/adapters/metrics"
	"github.com/artpar/chartschema/adapters/sqlite"
	"github.com/artpar/chartschema/config"
	"github.com/artpar/chartschema/core/history"
	"github.com/artpar/chartschema/core/registry"
	"github.com/artpar/chartschema/domain/polar"
	"github.com/artpar/chartschema/ports"
)

// EnvConfigPath names the config file when no path is given explicitly.
const EnvConfigPath = "CHARTSCHEMA_CONFIG"

// DefaultConfigPath is used when neither a path nor EnvConfigPath is set.
const DefaultConfigPath = "chartschema.yaml"

// App represents the running application.
type App struct {
	Logger zerolog.Logger
	// Config is the configuration the app started with. Reloads are
	// visible through Holder.
	Config     *config.Config
	Holder     *config.Holder
	Registry   *registry.Registry
	Metrics    *metrics.Collector
	Store      ports.SnapshotStore
	DB         *sqlite.DB
	Recorder   *history.Recorder
	HTTPServer *http.Server

	watch        bool
	addr         chan string
	shutdownOnce sync.Once
}

// Options provides optional configuration for application initialization.
type Options struct {
	// ConfigPath is the YAML config file. Empty means EnvConfigPath, then
	// DefaultConfigPath; a missing file falls back to the environment.
	ConfigPath string

	// Version is reported by /version.
	Version string

	// Watch reloads the config file on change and on SIGHUP.
	Watch bool

	// LogOutput receives log lines (default: stdout).
	LogOutput io.Writer

	// Clock and IDs default to the real clock and uuids.
	Clock ports.Clock
	IDs   ports.IDGenerator
}

// Schemas returns the builders of every published schema, by name.
func Schemas() map[string]registry.Builder {
	return map[string]registry.Builder{
		polar.Name: polar.LayoutAttributes,
	}
}

// NewRegistry creates a registry holding every schema of Schemas.
// Nothing is published until Rebuild is called.
func NewRegistry(clk ports.Clock, logger zerolog.Logger) (*registry.Registry, error) {
	reg := registry.New(clk, logger)
	for name, b := range Schemas() {
		if err := reg.Register(name, b); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// ResolveConfigPath applies the EnvConfigPath and DefaultConfigPath
// fallbacks to path.
func ResolveConfigPath(path string) string {
	if path != "" {
		return path
	}
	if v := os.Getenv(EnvConfigPath); v != "" {
		return v
	}
	return DefaultConfigPath
}

// NewLogger creates a logger from the logging configuration and sets the
// global level.
func NewLogger(cfg config.LoggingConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(w).With().Timestamp().Logger()
}

// New creates and initializes the application and publishes the first
// schema generation.
func New(opts Options) (*App, error) {
	path := ResolveConfigPath(opts.ConfigPath)

	cfg, err := config.LoadWithFallback(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := NewLogger(cfg.Logging, opts.LogOutput)
	logger.Info().Msg("initializing chartschema")

	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.IDs == nil {
		opts.IDs = idgen.UUID{}
	}

	a := &App{
		Logger: logger,
		Config: cfg,
		watch:  opts.Watch,
		addr:   make(chan string, 1),
	}

	if _, err := os.Stat(path); err == nil {
		holder, err := config.NewHolder(path, logger)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		a.Holder = holder
		a.Config = holder.Get()
	} else {
		logger.Info().Str("path", path).Msg("no config file, using environment")
	}

	if a.Config.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.Metrics = metrics.NewWithRegistry(reg)
		logger.Info().Str("path", a.Config.Metrics.Path).Msg("prometheus metrics enabled")
	}

	if err := a.initStore(); err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	if err := a.initRegistry(opts.Clock, opts.IDs); err != nil {
		a.closeStore()
		return nil, fmt.Errorf("init registry: %w", err)
	}

	if a.Holder != nil {
		a.Holder.OnChange(a.applyConfig)
		a.Holder.OnError(func(error) {
			if a.Metrics != nil {
				a.Metrics.ConfigReloadErrors.Inc()
			}
		})
	}

	router := apihttp.NewRouter(a.Registry, logger, apihttp.RouterConfig{
		Metrics:     a.Metrics,
		MetricsPath: a.Config.Metrics.Path,
		Store:       a.Store,
		Version:     opts.Version,
	})

	a.HTTPServer = &http.Server{
		Addr:         a.Config.Server.Addr(),
		Handler:      router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}

	return a, nil
}

func (a *App) initStore() error {
	switch a.Config.Database.Driver {
	case "memory":
		a.Store = memory.NewSnapshotStore()
		a.Logger.Info().Msg("using in-memory snapshot store")
		return nil
	case "sqlite":
		db, err := sqlite.Open(a.Config.Database.DSN)
		if err != nil {
			return err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return fmt.Errorf("migrate: %w", err)
		}
		a.DB = db
		a.Store = sqlite.NewSnapshotStore(db)
		a.Logger.Info().Str("dsn", a.Config.Database.DSN).Msg("database initialized")
		return nil
	default:
		return fmt.Errorf("unsupported database driver %q", a.Config.Database.Driver)
	}
}

func (a *App) initRegistry(clk ports.Clock, ids ports.IDGenerator) error {
	reg, err := NewRegistry(clk, a.Logger)
	if err != nil {
		return err
	}
	a.Registry = reg

	a.Recorder = history.NewRecorder(a.Store, ids, clk, a.Logger)
	if a.Metrics != nil {
		a.Recorder.OnRecorded = func(s ports.Snapshot) {
			a.Metrics.SnapshotsRecorded.WithLabelValues(s.Schema).Inc()
		}
		a.Recorder.OnError = func(string, error) {
			a.Metrics.SnapshotErrors.Inc()
		}
		reg.OnPublish(a.Metrics.ObservePublish)
	}
	reg.OnPublish(a.Recorder.Listener())

	return a.rebuild(a.Config.Schema.Defaults)
}

func (a *App) rebuild(overrides map[string]any) error {
	if _, err := a.Registry.Rebuild(overrides); err != nil {
		if a.Metrics != nil {
			a.Metrics.ObserveRebuildError()
		}
		return err
	}
	return nil
}

// applyConfig is the config.Holder listener. A rebuild that fails keeps
// the previously published schemas.
func (a *App) applyConfig(cfg *config.Config) {
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if a.Metrics != nil {
		a.Metrics.ConfigReloads.Inc()
		a.Metrics.ConfigLastReload.SetToCurrentTime()
	}

	if err := a.rebuild(cfg.Schema.Defaults); err != nil {
		a.Logger.Error().Err(err).Msg("schema rebuild after config reload failed, keeping published schemas")
	}
}

// Reload reloads the config file and republishes the schemas.
func (a *App) Reload() error {
	if a.Holder == nil {
		return errors.New("no config file to reload")
	}
	return a.Holder.Reload()
}

// Addr blocks until the server is listening and returns its address.
func (a *App) Addr(ctx context.Context) (string, error) {
	select {
	case addr := <-a.addr:
		a.addr <- addr
		return addr, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Run serves HTTP until ctx is cancelled, SIGINT or SIGTERM arrives, or
// the server fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	if a.Holder != nil && a.watch {
		if err := a.Holder.WatchFile(); err != nil {
			a.Logger.Warn().Err(err).Msg("config file watch disabled")
		}
		a.Holder.WatchSignals()
	}

	ln, err := net.Listen("tcp", a.HTTPServer.Addr)
	if err != nil {
		a.Shutdown()
		return fmt.Errorf("listen: %w", err)
	}
	a.addr <- ln.Addr().String()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", ln.Addr().String()).
			Msg("starting http server")
		if err := a.HTTPServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		a.Shutdown()
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
		a.Logger.Info().Msg("context done, shutting down")
	}

	return a.Shutdown()
}

// Shutdown stops the server and releases resources. It is safe to call
// more than once.
func (a *App) Shutdown() error {
	var err error
	a.shutdownOnce.Do(func() {
		timeout := a.Config.Server.ShutdownTimeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if a.Holder != nil {
			a.Holder.Stop()
		}

		if a.HTTPServer != nil {
			if shutdownErr := a.HTTPServer.Shutdown(ctx); shutdownErr != nil {
				a.Logger.Error().Err(shutdownErr).Msg("http server shutdown error")
				err = shutdownErr
			}
		}

		a.closeStore()
		a.Logger.Info().Msg("shutdown complete")
	})
	return err
}

func (a *App) closeStore() {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("database close error")
		}
	}
}
