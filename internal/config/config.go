// Package config loads streamcapture's TOML configuration file: which
// strategy to run by default, how many streams to fan out across, the
// simulated driver's latency, and which schedule-cache and run-ledger
// backends to wire up.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/kjhansen/streamcapture/pkg/errors"
)

// CacheConfig selects and configures the schedule cache backend.
type CacheConfig struct {
	// Backend is one of "none", "memory", or "redis".
	Backend   string `toml:"backend"`
	RedisAddr string `toml:"redis_addr"`
}

// LedgerConfig selects and configures the run ledger backend.
type LedgerConfig struct {
	// Backend is one of "memory" or "mongo".
	Backend       string `toml:"backend"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Config is streamcapture's top-level configuration.
type Config struct {
	// Strategy is one of "sequential" or "round-robin".
	Strategy string `toml:"strategy"`
	// NumStreams configures the round-robin strategy's fan-out width.
	// Ignored by the sequential strategy.
	NumStreams int `toml:"num_streams"`
	// DriverLatencyMS adds synthetic per-call latency to the simulated
	// driver, so demo runs have a non-trivial, inspectable duration.
	DriverLatencyMS int `toml:"driver_latency_ms"`

	Cache  CacheConfig  `toml:"cache"`
	Ledger LedgerConfig `toml:"ledger"`
}

// Default returns the configuration used when no file is loaded.
func Default() Config {
	return Config{
		Strategy:        "sequential",
		NumStreams:      4,
		DriverLatencyMS: 0,
		Cache:           CacheConfig{Backend: "none"},
		Ledger:          LedgerConfig{Backend: "memory"},
	}
}

// Load reads and decodes a TOML config file at path, applying Default
// for any field the file leaves unset, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every field holds a recognized value.
func (c Config) Validate() error {
	switch c.Strategy {
	case "sequential", "round-robin":
	default:
		return errors.New(errors.ErrCodeInvalidArgument, "unknown strategy %q", c.Strategy)
	}
	if c.Strategy == "round-robin" && c.NumStreams <= 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "num_streams must be positive for round-robin, got %d", c.NumStreams)
	}
	if c.DriverLatencyMS < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "driver_latency_ms must not be negative, got %d", c.DriverLatencyMS)
	}

	switch c.Cache.Backend {
	case "none", "memory", "redis":
	default:
		return errors.New(errors.ErrCodeInvalidArgument, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidArgument, "cache.redis_addr is required for the redis backend")
	}

	switch c.Ledger.Backend {
	case "memory", "mongo":
	default:
		return errors.New(errors.ErrCodeInvalidArgument, "unknown ledger backend %q", c.Ledger.Backend)
	}
	if c.Ledger.Backend == "mongo" && (c.Ledger.MongoURI == "" || c.Ledger.MongoDatabase == "") {
		return errors.New(errors.ErrCodeInvalidArgument, "ledger.mongo_uri and ledger.mongo_database are required for the mongo backend")
	}
	return nil
}
