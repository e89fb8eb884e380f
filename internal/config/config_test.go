package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"APP_ENV", "LOG_LEVEL", "HTTP_ADDR", "SHUTDOWN_TIMEOUT_SECONDS", "CORS_ORIGINS",
	"STORAGE_DRIVER", "STORAGE_DIR", "DB_DSN", "CART_SLOT", "CATALOG_FILE",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg := FromEnv()

	if cfg.HTTPAddr != ":8080" || cfg.LogLevel != "info" || cfg.AppEnv != "dev" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.StorageDriver != StorageFile || cfg.StorageDir != "data" || cfg.CartSlot != "cart" {
		t.Fatalf("unexpected storage defaults: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected 10s shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("expected wildcard CORS, got %v", cfg.CORSOrigins)
	}
	if cfg.CatalogFile != "" {
		t.Fatalf("expected embedded catalog by default, got %q", cfg.CatalogFile)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://shop.example.com,")
	t.Setenv("CART_SLOT", "guitarla-cart")

	cfg := FromEnv()
	if cfg.HTTPAddr != ":9090" || cfg.StorageDriver != StoragePostgres || cfg.CartSlot != "guitarla-cart" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("expected 3s, got %s", cfg.ShutdownTimeout)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://shop.example.com" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
}

func TestFromEnvIgnoresBadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "soon")
	if got := FromEnv().ShutdownTimeout; got != 10*time.Second {
		t.Fatalf("expected default on bad value, got %s", got)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{StorageDriver: "redis", CartSlot: "cart"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
	cfg = Config{StorageDriver: StorageMemory, CartSlot: " "}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected empty slot error")
	}
	cfg = Config{StorageDriver: StorageMemory, CartSlot: "cart"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":7000")
	path := filepath.Join(t.TempDir(), ".env")
	content := "HTTP_ADDR=:6000\nSTORAGE_DRIVER=memory\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":7000" {
		t.Fatalf("environment should win over the file, got %q", cfg.HTTPAddr)
	}
	if cfg.StorageDriver != StorageMemory || cfg.LogLevel != "debug" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestLoadMissingFileUsesEnvironment(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageDriver != StorageFile {
		t.Fatalf("unexpected driver %q", cfg.StorageDriver)
	}
}

func TestLoadRejectsInvalidDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "redis")
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatalf("expected validation error")
	}
}
