// Package config provides configuration loading and hot reload.
package config

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long the file watcher waits for writes to settle
// before reloading.
const DefaultDebounce = 100 * time.Millisecond

// Holder provides thread-safe access to configuration with hot reload support.
// Every successful reload republishes the schemas, so the file watcher
// coalesces bursts of editor writes and ignores saves that leave the file
// bytes unchanged.
type Holder struct {
	mu       sync.RWMutex
	config   *Config
	raw      []byte
	path     string
	debounce time.Duration
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	onChange []func(*Config)
	onError  []func(error)
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewHolder creates a new config holder and loads the initial configuration.
func NewHolder(path string, logger zerolog.Logger) (*Holder, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	raw, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	h := &Holder{
		config:   cfg,
		raw:      raw,
		path:     absPath,
		debounce: DefaultDebounce,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}

	return h, nil
}

// Get returns the current configuration (thread-safe).
func (h *Holder) Get() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.config
}

// SetDebounce changes the file watcher's settle delay. Call it before
// WatchFile.
func (h *Holder) SetDebounce(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.debounce = d
}

// Reload reloads the configuration from disk.
// Returns error if loading fails (keeps old config).
func (h *Holder) Reload() error {
	h.logger.Info().Str("path", h.path).Msg("reloading configuration")

	raw, err := os.ReadFile(h.path)
	if err != nil {
		return h.reloadFailed(fmt.Errorf("read config: %w", err))
	}
	newCfg, err := Load(h.path)
	if err != nil {
		return h.reloadFailed(err)
	}

	h.mu.Lock()
	oldCfg := h.config
	h.config = newCfg
	h.raw = raw
	onChange := h.onChange
	h.mu.Unlock()

	h.logChanges(oldCfg, newCfg)

	for _, fn := range onChange {
		fn(newCfg)
	}

	h.logger.Info().Msg("configuration reloaded successfully")
	return nil
}

func (h *Holder) reloadFailed(err error) error {
	h.logger.Error().Err(err).Msg("config reload failed, keeping old config")
	h.mu.RLock()
	onError := h.onError
	h.mu.RUnlock()
	for _, fn := range onError {
		fn(err)
	}
	return fmt.Errorf("reload config: %w", err)
}

// OnChange registers a callback to be called when config changes.
func (h *Holder) OnChange(fn func(*Config)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// OnError registers a callback for reloads that failed and left the
// previous configuration in place.
func (h *Holder) OnError(fn func(error)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onError = append(h.onError, fn)
}

// Path returns the absolute path of the watched file.
func (h *Holder) Path() string {
	return h.path
}

// WatchFile starts watching the config file for changes.
// Changes trigger automatic reload.
func (h *Holder) WatchFile() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	// Watch the directory (more reliable for editors that do atomic saves)
	dir := filepath.Dir(h.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go h.watchLoop()

	h.logger.Info().Str("path", h.path).Msg("watching config file for changes")
	return nil
}

// WatchSignals starts listening for SIGHUP to trigger reload.
func (h *Holder) WatchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-sigCh:
				h.logger.Info().Msg("received SIGHUP, reloading config")
				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("SIGHUP reload failed")
				}
			case <-h.stopCh:
				signal.Stop(sigCh)
				return
			}
		}
	}()

	h.logger.Info().Msg("listening for SIGHUP to reload config")
}

// Stop stops watching for file changes and signals.
func (h *Holder) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		if h.watcher != nil {
			h.watcher.Close()
		}
	})
}

func (h *Holder) watchLoop() {
	filename := filepath.Base(h.path)

	h.mu.RLock()
	debounce := h.debounce
	h.mu.RUnlock()

	// Stopped timer whose channel fires once writes have settled.
	settle := time.NewTimer(time.Hour)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}

			// Only react to our config file
			if filepath.Base(event.Name) != filename {
				continue
			}

			// React to write or create (atomic save = create)
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("config file changed")
				settle.Reset(debounce)
			}

		case <-settle.C:
			h.reloadIfChanged()

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}

// reloadIfChanged reloads unless the file still holds the bytes of the
// current configuration.
func (h *Holder) reloadIfChanged() {
	raw, err := os.ReadFile(h.path)
	if err == nil {
		h.mu.RLock()
		same := bytes.Equal(raw, h.raw)
		h.mu.RUnlock()
		if same {
			h.logger.Debug().Str("path", h.path).Msg("config file unchanged, skipping reload")
			return
		}
	}

	if err := h.Reload(); err != nil {
		h.logger.Error().Err(err).Msg("file watch reload failed")
	}
}

func (h *Holder) logChanges(old, new *Config) {
	if old.Logging.Level != new.Logging.Level {
		h.logger.Info().
			Str("old", old.Logging.Level).
			Str("new", new.Logging.Level).
			Msg("log level changed")
	}

	for _, key := range new.Schema.DefaultKeys() {
		prev, existed := old.Schema.Defaults[key]
		switch {
		case !existed:
			h.logger.Info().Str("key", key).Interface("value", new.Schema.Defaults[key]).Msg("schema default added")
		case fmt.Sprint(prev) != fmt.Sprint(new.Schema.Defaults[key]):
			h.logger.Info().
				Str("key", key).
				Interface("old", prev).
				Interface("new", new.Schema.Defaults[key]).
				Msg("schema default changed")
		}
	}
	for _, key := range old.Schema.DefaultKeys() {
		if _, ok := new.Schema.Defaults[key]; !ok {
			h.logger.Info().Str("key", key).Msg("schema default removed")
		}
	}

	if old.Server.Addr() != new.Server.Addr() || old.Database != new.Database {
		h.logger.Warn().Msg("server and database settings take effect after restart")
	}
}

// ReloadableFields returns which fields can be changed without restart.
func ReloadableFields() []string {
	return []string{
		"schema.defaults",
		"logging.level",
	}
}

// NonReloadableFields returns which fields require a restart.
func NonReloadableFields() []string {
	return []string{
		"server.host",
		"server.port",
		"database.driver",
		"database.dsn",
		"metrics.enabled",
		"metrics.path",
		"logging.format",
	}
}
