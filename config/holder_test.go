package config_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/chartschema/config"
)

func TestHolder_Get(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	got := h.Get()
	if got == nil {
		t.Fatal("Get returned nil")
	}
	if got.Schema.Defaults["polar.hole"] != 0.1 {
		t.Errorf("Schema.Defaults[polar.hole] = %v, want 0.1", got.Schema.Defaults["polar.hole"])
	}
	if !filepath.IsAbs(h.Path()) {
		t.Errorf("Path() = %s, want absolute", h.Path())
	}
}

func TestHolder_NewHolderInvalid(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: loud\n")

	if _, err := config.NewHolder(path, zerolog.Nop()); err == nil {
		t.Fatal("NewHolder should fail for an invalid config")
	}
}

func TestHolder_ReloadNotifiesListeners(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var mu sync.Mutex
	var received *config.Config
	h.OnChange(func(cfg *config.Config) {
		mu.Lock()
		received = cfg
		mu.Unlock()
	})

	newContent := `
schema:
  defaults:
    polar.hole: 0.3
    polar.gridshape: "linear"
`
	if err := os.WriteFile(path, []byte(newContent), 0644); err != nil {
		t.Fatalf("write new config: %v", err)
	}

	if err := h.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if received == nil {
		t.Fatal("OnChange callback was not called")
	}
	if received.Schema.Defaults["polar.hole"] != 0.3 {
		t.Errorf("callback hole = %v, want 0.3", received.Schema.Defaults["polar.hole"])
	}
	if h.Get() != received {
		t.Error("Get() does not return the reloaded config")
	}
}

func TestHolder_ReloadInvalidConfig(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var changed bool
	var failures []error
	h.OnChange(func(*config.Config) { changed = true })
	h.OnError(func(err error) { failures = append(failures, err) })

	invalidContent := `
schema:
  defaults:
    hole: 0.5
`
	if err := os.WriteFile(path, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("write invalid config: %v", err)
	}

	if err := h.Reload(); err == nil {
		t.Error("Reload should fail for invalid config")
	}
	if changed {
		t.Error("OnChange must not run for a failed reload")
	}
	if len(failures) != 1 {
		t.Errorf("OnError called %d times, want 1", len(failures))
	}

	cfg := h.Get()
	if cfg.Schema.Defaults["polar.hole"] != 0.1 {
		t.Errorf("should keep old config, got hole = %v", cfg.Schema.Defaults["polar.hole"])
	}
}

func TestHolder_ReloadMissingFile(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var failures []error
	h.OnError(func(err error) { failures = append(failures, err) })

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove config: %v", err)
	}

	if err := h.Reload(); err == nil {
		t.Error("Reload should fail when the file is gone")
	}
	if len(failures) != 1 {
		t.Errorf("OnError called %d times, want 1", len(failures))
	}
	if got := h.Get().Schema.Defaults["polar.hole"]; got != 0.1 {
		t.Errorf("should keep old config, got hole = %v", got)
	}
}

func TestHolder_WatchFile(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	changed := make(chan *config.Config, 8)
	h.OnChange(func(cfg *config.Config) { changed <- cfg })

	if err := h.WatchFile(); err != nil {
		t.Fatalf("WatchFile error: %v", err)
	}

	newContent := `
schema:
  defaults:
    polar.hole: 0.5
`
	if err := os.WriteFile(path, []byte(newContent), 0644); err != nil {
		t.Fatalf("write new config: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case cfg := <-changed:
			if cfg.Schema.Defaults["polar.hole"] == 0.5 {
				return
			}
		case <-deadline:
			t.Fatal("file watcher did not trigger reload")
		}
	}
}

func TestHolder_WatchFileSkipsUnchanged(t *testing.T) {
	content := validConfig()
	path := writeConfig(t, content)

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()
	h.SetDebounce(50 * time.Millisecond)

	changed := make(chan *config.Config, 8)
	h.OnChange(func(cfg *config.Config) { changed <- cfg })

	if err := h.WatchFile(); err != nil {
		t.Fatalf("WatchFile error: %v", err)
	}

	// Same bytes: a save without edits must not republish.
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	select {
	case <-changed:
		t.Fatal("unchanged file should not trigger a reload")
	case <-time.After(300 * time.Millisecond):
	}

	// A burst of writes settles into the final content.
	for _, hole := range []string{"0.2", "0.3", "0.4"} {
		body := "schema:\n  defaults:\n    polar.hole: " + hole + "\n"
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case cfg := <-changed:
			if cfg.Schema.Defaults["polar.hole"] == 0.4 {
				return
			}
		case <-deadline:
			t.Fatal("file watcher did not reload the final content")
		}
	}
}

func TestHolder_StopTwice(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	h.WatchSignals()
	h.Stop()
	h.Stop()
}

func TestHolder_ConcurrentAccess(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if h.Get() == nil {
					t.Error("concurrent Get returned nil")
				}
			}
		}()
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Reload()
		}()
	}

	wg.Wait()
}

func TestReloadableFields(t *testing.T) {
	reloadable := config.ReloadableFields()
	restart := config.NonReloadableFields()

	if !contains(reloadable, "schema.defaults") {
		t.Error("schema.defaults not in ReloadableFields")
	}
	for _, f := range []string{"server.port", "database.dsn"} {
		if !contains(restart, f) {
			t.Errorf("%s not in NonReloadableFields", f)
		}
	}
	for _, f := range reloadable {
		if contains(restart, f) {
			t.Errorf("%s is both reloadable and non-reloadable", f)
		}
	}
}

// Helpers

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func validConfig() string {
	return `
database:
  driver: "memory"

schema:
  defaults:
    polar.hole: 0.1
`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
