// Package config loads the core's configuration, per spec.md §6's
// enumerated option list. Precedence and TOML-plus-env layering follow
// emergent-company-specmcp/internal/config/config.go's Load.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds every recognized option from spec.md §6.
type Config struct {
	Remote    RemoteConfig    `toml:"remote"`
	Workers   WorkersConfig   `toml:"workers"`
	Cache     CacheConfig     `toml:"cache"`
	Streaming StreamingConfig `toml:"streaming"`
	Memory    MemoryConfig    `toml:"memory"`
	Store     StoreConfig     `toml:"store"`
	Training  TrainingConfig  `toml:"training"`
}

// RemoteConfig is the code-forge client's connection settings.
type RemoteConfig struct {
	Token     string `toml:"remote_token"`
	TimeoutMS int    `toml:"timeout_ms"`
}

// WorkersConfig bounds in-flight files and API calls.
type WorkersConfig struct {
	MaxConcurrentFiles int `toml:"max_concurrent_files"`
	MaxConcurrentAPI   int `toml:"max_concurrent_api"`
	BatchSizeOverride  int `toml:"batch_size"`
	FileLimitOverride  int `toml:"file_limit_override"` // GITHUB_SCANNER_FILE_LIMIT, when set, overrides the file value
}

// CacheConfig governs the C4 file cache.
type CacheConfig struct {
	Enabled    bool `toml:"cache_enabled"`
	TTLMS      int  `toml:"cache_ttl_ms"`
	MaxEntries int  `toml:"cache_max_entries"`
}

// StreamingConfig governs large-file chunked detection.
type StreamingConfig struct {
	Enabled        bool  `toml:"streaming_enabled"`
	ThresholdBytes int64 `toml:"streaming_threshold_bytes"`
}

// MemoryConfig governs the batch-size memory guard.
type MemoryConfig struct {
	ThresholdBytes uint64 `toml:"memory_threshold_bytes"`
}

// StoreConfig points at the SQLite database file.
type StoreConfig struct {
	DatabasePath string `toml:"database_path"`
}

// TrainingConfig points at the training-case directory.
type TrainingConfig struct {
	DataPath string `toml:"training_data_path"`
}

// defaults mirrors spec.md §6's default values exactly.
func defaults() *Config {
	return &Config{
		Workers: WorkersConfig{
			MaxConcurrentFiles: 8,
			MaxConcurrentAPI:   5,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLMS:      300_000,
			MaxEntries: 2000,
		},
		Streaming: StreamingConfig{
			Enabled:        true,
			ThresholdBytes: 1_048_576,
		},
		Memory: MemoryConfig{
			ThresholdBytes: 209_715_200,
		},
		Remote: RemoteConfig{
			TimeoutMS: 30_000,
		},
		Store: StoreConfig{
			DatabasePath: "coderadar.db",
		},
		Training: TrainingConfig{
			DataPath: "training-data",
		},
	}
}

// Load builds a Config by layering an optional TOML file over defaults,
// then the single honored environment variable on top, per spec.md §6's
// "only GITHUB_SCANNER_FILE_LIMIT is honored by the core" rule.
func Load(configPath string) (*Config, error) {
	cfg := defaults()

	if configPath != "" {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
		}
	}

	if v := os.Getenv("GITHUB_SCANNER_FILE_LIMIT"); v != "" {
		var limit int
		if _, err := fmt.Sscanf(v, "%d", &limit); err == nil && limit > 0 {
			cfg.Workers.FileLimitOverride = limit
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks internal consistency of recognized options.
func (c *Config) Validate() error {
	if c.Workers.MaxConcurrentFiles <= 0 {
		return fmt.Errorf("workers.max_concurrent_files must be positive, got %d", c.Workers.MaxConcurrentFiles)
	}
	if c.Workers.MaxConcurrentAPI <= 0 {
		return fmt.Errorf("workers.max_concurrent_api must be positive, got %d", c.Workers.MaxConcurrentAPI)
	}
	if c.Cache.TTLMS < 0 {
		return fmt.Errorf("cache.cache_ttl_ms must not be negative, got %d", c.Cache.TTLMS)
	}
	if c.Streaming.ThresholdBytes <= 0 {
		return fmt.Errorf("streaming.streaming_threshold_bytes must be positive, got %d", c.Streaming.ThresholdBytes)
	}
	if c.Store.DatabasePath == "" {
		return fmt.Errorf("store.database_path must not be empty")
	}
	if c.Training.DataPath == "" {
		return fmt.Errorf("training.training_data_path must not be empty")
	}
	return nil
}
