// Package config loads engramd's TOML configuration, grouped by
// concern: API, store, review, queue, and observability.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// APIConfig controls the HTTP surface.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StoreConfig controls the SQLite-backed persistence layer.
type StoreConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
}

// ReviewConfig controls which scheduler each entity kind uses and the
// retention target the FSRS schedulers solve for.
type ReviewConfig struct {
	DocumentScheduler string  `toml:"document_scheduler"` // "fsrs" | "incremental"
	ExtractScheduler  string  `toml:"extract_scheduler"`  // "simplified" | "fsrs"
	TargetRetention   float64 `toml:"target_retention"`
}

// QueueConfig controls queue selection behaviour.
type QueueConfig struct {
	Randomness float64 `toml:"randomness"` // [0,1], 0 = deterministic top-k
}

// ObservabilityConfig controls tracing/metrics exposure.
type ObservabilityConfig struct {
	MetricsEnabled bool `toml:"metrics_enabled"`
}

// Config is the top-level engramd configuration.
type Config struct {
	API           APIConfig           `toml:"api"`
	Store         StoreConfig         `toml:"store"`
	Review        ReviewConfig        `toml:"review"`
	Queue         QueueConfig         `toml:"queue"`
	Observability ObservabilityConfig `toml:"observability"`
}

// DefaultConfig returns the configuration engramd starts with absent
// any config file: local API, a SQLite file under the working
// directory, FSRS documents, the simplified extract scheduler, a
// 90% retention target, and a moderate queue randomness.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Store: StoreConfig{
			Path:         "engramd.db",
			MaxOpenConns: 4,
		},
		Review: ReviewConfig{
			DocumentScheduler: "fsrs",
			ExtractScheduler:  "simplified",
			TargetRetention:   0.9,
		},
		Queue: QueueConfig{
			Randomness: 0.3,
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: false,
		},
	}
}

// Load reads a TOML config file at path, starting from DefaultConfig
// and overriding only the fields present in the file.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
