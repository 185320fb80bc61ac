package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/artpar/chartschema/config"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 5s

database:
  driver: "memory"

logging:
  level: "debug"
  format: "console"

metrics:
  enabled: true
  path: "/internal/metrics"

schema:
  defaults:
    polar.hole: 0.25
    polar.bgcolor: "#eee"
`

	cfg := writeAndLoad(t, content)

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %s, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "127.0.0.1:9090" {
		t.Errorf("Addr() = %s, want 127.0.0.1:9090", cfg.Server.Addr())
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Database.Driver != "memory" || cfg.Database.DSN != "" {
		t.Errorf("Database = %+v, want memory with no DSN", cfg.Database)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %s, want console", cfg.Logging.Format)
	}
	if cfg.Metrics.Path != "/internal/metrics" {
		t.Errorf("Metrics.Path = %s, want /internal/metrics", cfg.Metrics.Path)
	}
	if got := cfg.Schema.Defaults["polar.hole"]; got != 0.25 {
		t.Errorf("Schema.Defaults[polar.hole] = %v, want 0.25", got)
	}
	keys := cfg.Schema.DefaultKeys()
	if len(keys) != 2 || keys[0] != "polar.bgcolor" || keys[1] != "polar.hole" {
		t.Errorf("DefaultKeys() = %v, want [polar.bgcolor polar.hole]", keys)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := writeAndLoad(t, "{}\n")

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("default Host = %s, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("default ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("default Database.Driver = %s, want sqlite", cfg.Database.Driver)
	}
	if cfg.Database.DSN != "chartschema.db" {
		t.Errorf("default Database.DSN = %s, want chartschema.db", cfg.Database.DSN)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("default Logging = %+v, want info/json", cfg.Logging)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("default Metrics.Path = %s, want /metrics", cfg.Metrics.Path)
	}
	if cfg.Schema.Defaults == nil || len(cfg.Schema.Defaults) != 0 {
		t.Errorf("default Schema.Defaults = %v, want empty map", cfg.Schema.Defaults)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_DB_PATH", "/var/lib/chartschema/history.db")

	content := `
database:
  dsn: "${TEST_DB_PATH}"
`

	cfg := writeAndLoad(t, content)

	if cfg.Database.DSN != "/var/lib/chartschema/history.db" {
		t.Errorf("Database.DSN = %s, want /var/lib/chartschema/history.db", cfg.Database.DSN)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad port", "server:\n  port: 70000\n", "server.port"},
		{"bad level", "logging:\n  level: loud\n", "logging.level"},
		{"bad format", "logging:\n  format: xml\n", "logging.format"},
		{"bad driver", "database:\n  driver: postgres\n", "database.driver"},
		{"bad metrics path", "metrics:\n  path: metrics\n", "metrics.path"},
		{"default key without path", "schema:\n  defaults:\n    polar: 1\n", "schema.defaults"},
		{"default key without schema", "schema:\n  defaults:\n    .hole: 1\n", "schema.defaults"},
		{"invalid yaml", "server: [\n", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := writeAndLoadErr(t, tt.content)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := config.Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CHARTSCHEMA_SERVER_PORT", "9999")
	t.Setenv("CHARTSCHEMA_DATABASE_DSN", "/tmp/env-test.db")
	t.Setenv("CHARTSCHEMA_LOG_LEVEL", "debug")
	t.Setenv("CHARTSCHEMA_LOG_FORMAT", "console")
	t.Setenv("CHARTSCHEMA_SERVER_WRITE_TIMEOUT", "2m")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv error: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Server.WriteTimeout != 2*time.Minute {
		t.Errorf("Server.WriteTimeout = %v, want 2m", cfg.Server.WriteTimeout)
	}
	if cfg.Database.DSN != "/tmp/env-test.db" {
		t.Errorf("Database.DSN = %s, want /tmp/env-test.db", cfg.Database.DSN)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v, want debug/console", cfg.Logging)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true by default")
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	t.Setenv("CHARTSCHEMA_DATABASE_DRIVER", "postgres")

	if _, err := config.LoadFromEnv(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("CHARTSCHEMA_SERVER_PORT", "7777")
	t.Setenv("CHARTSCHEMA_LOG_LEVEL", "error")

	content := `
server:
  host: "localhost"
  port: 8080
logging:
  level: "info"
`

	cfg := writeAndLoad(t, content)

	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d, want 7777 (env override)", cfg.Server.Port)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %s, want error (env override)", cfg.Logging.Level)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("Server.Host = %s, want localhost", cfg.Server.Host)
	}
}

func TestLoadWithFallback_FileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8181\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadWithFallback(path)
	if err != nil {
		t.Fatalf("LoadWithFallback error: %v", err)
	}
	if cfg.Server.Port != 8181 {
		t.Errorf("Server.Port = %d, want 8181", cfg.Server.Port)
	}
}

func TestLoadWithFallback_EnvOnly(t *testing.T) {
	t.Setenv("CHARTSCHEMA_SERVER_PORT", "8282")

	cfg, err := config.LoadWithFallback("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("LoadWithFallback error: %v", err)
	}
	if cfg.Server.Port != 8282 {
		t.Errorf("Server.Port = %d, want 8282", cfg.Server.Port)
	}
}

func TestParseBoolValues(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{" on ", true},
		{"false", false},
		{"0", false},
		{"off", false},
		{"invalid", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("CHARTSCHEMA_METRICS_ENABLED", tt.value)

			cfg, err := config.LoadFromEnv()
			if err != nil {
				t.Fatalf("LoadFromEnv error: %v", err)
			}
			if cfg.Metrics.Enabled != tt.expected {
				t.Errorf("value=%q: Metrics.Enabled = %v, want %v", tt.value, cfg.Metrics.Enabled, tt.expected)
			}
		})
	}
}

// Helpers

func writeAndLoad(t *testing.T, content string) *config.Config {
	t.Helper()
	cfg, err := writeAndLoadErr(t, content)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return cfg
}

func writeAndLoadErr(t *testing.T, content string) (*config.Config, error) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return config.Load(path)
}
