package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"RIDEFLEET_CONFIG", "PORT", "DATABASE_URL", "SQLITE_PATH", "REDIS_URL", "DB_MIGRATE", "RATE_RPS", "RATE_BURST", "MAX_BODY_BYTES", "MAX_STEPS", "MAX_VEHICLES"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8080 || !cfg.DBMigrate || cfg.RateRPS != 20 || cfg.RateBurst != 40 || cfg.MaxBodyBytes != 8<<20 ||
		cfg.MaxSteps != 10_000_000 || cfg.MaxVehicles != 10_000 {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Addr() != ":8080" {
		t.Fatalf("addr = %s", cfg.Addr())
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	p := filepath.Join(t.TempDir(), "ridefleet.yaml")
	body := "port: 9090\nsqlitePath: /tmp/runs.db\ndbMigrate: false\nrateBurst: 5\nmaxSteps: 5000\nmaxVehicles: 40\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RIDEFLEET_CONFIG", p)
	t.Setenv("RATE_BURST", "7")
	t.Setenv("MAX_VEHICLES", "25")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9090 || cfg.SQLitePath != "/tmp/runs.db" || cfg.DBMigrate {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.RateBurst != 7 {
		t.Fatalf("env should override file, got burst %d", cfg.RateBurst)
	}
	if cfg.MaxSteps != 5000 || cfg.MaxVehicles != 25 {
		t.Fatalf("limits = steps %d vehicles %d", cfg.MaxSteps, cfg.MaxVehicles)
	}
	pub := cfg.Public()
	if pub["HAS_REDIS_URL"] != true || pub["HAS_DATABASE_URL"] != false {
		t.Fatalf("public = %v", pub)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("RIDEFLEET_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing file")
	}

	clearEnv(t)
	t.Setenv("PORT", "70000")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for bad port")
	}

	clearEnv(t)
	t.Setenv("MAX_STEPS", "-1")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative step limit")
	}
}
