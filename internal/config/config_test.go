package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: sqlite
  path: ":memory:"
storage:
  type: minio
`)
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Catalog.CountCap != 100 || cfg.Catalog.DefaultPageSize != 20 {
		t.Fatalf("catalog defaults = %+v", cfg.Catalog)
	}
	if cfg.Import.BatchSize != 100 || cfg.Import.ReportPrefix != "import-reports" {
		t.Fatalf("import defaults = %+v", cfg.Import)
	}
	if cfg.RateLimit.Window().Minutes() != 1 {
		t.Fatalf("rate limit window = %v", cfg.RateLimit.Window())
	}
	if cfg.Database.Path != ":memory:" {
		t.Fatalf("database path = %q", cfg.Database.Path)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := writeConfig(t, "database:\n  driver: sqlite\nstorage:\n  type: minio\n")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("REDIS_ENABLED", "true")
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Driver != "postgres" || !cfg.Redis.Enabled {
		t.Fatalf("env not applied: %+v %+v", cfg.Database, cfg.Redis)
	}
}

func TestLoadConfigRejectsWeakReleaseSecret(t *testing.T) {
	dir := writeConfig(t, "server:\n  mode: release\njwt:\n  secret: short\ndatabase:\n  driver: sqlite\nstorage:\n  type: minio\n")
	_, err := LoadConfig(dir)
	if err == nil || !strings.Contains(err.Error(), "too short") {
		t.Fatalf("err = %v", err)
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{
		Database:  DatabaseConfig{Driver: "oracle"},
		Catalog:   CatalogConfig{CountCap: 100},
		Import:    ImportConfig{BatchSize: 100},
		RateLimit: RateLimitConfig{MaxRequests: 1, WindowMinutes: 1},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected driver error")
	}
	cfg.Database.Driver = "sqlite"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
