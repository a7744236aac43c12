package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kjhansen/streamcapture/internal/config"
)

func TestDefault_isValid(t *testing.T) {
	if err := config.Default().Validate(); err != nil {
		t.Fatalf("Default() is invalid: %v", err)
	}
}

func TestLoad_appliesDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
strategy = "round-robin"
num_streams = 8

[cache]
backend = "redis"
redis_addr = "localhost:6379"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Strategy != "round-robin" || cfg.NumStreams != 8 {
		t.Fatalf("strategy/num_streams not applied: %+v", cfg)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Fatalf("cache not applied: %+v", cfg.Cache)
	}
	if cfg.Ledger.Backend != "memory" {
		t.Fatalf("ledger default not preserved: %+v", cfg.Ledger)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := config.Load("/nonexistent/path/config.toml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate_rejectsUnknownStrategy(t *testing.T) {
	cfg := config.Default()
	cfg.Strategy = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestValidate_rejectsRoundRobinWithoutStreams(t *testing.T) {
	cfg := config.Default()
	cfg.Strategy = "round-robin"
	cfg.NumStreams = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero num_streams")
	}
}

func TestValidate_rejectsRedisWithoutAddr(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = "redis"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing redis_addr")
	}
}

func TestValidate_rejectsMongoWithoutURI(t *testing.T) {
	cfg := config.Default()
	cfg.Ledger.Backend = "mongo"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing mongo settings")
	}
}
