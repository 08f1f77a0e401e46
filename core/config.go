package core

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
	"xray/fingerprint"
	"xray/window"
)

type CacheConfig struct {
	Enabled    bool  `yaml:"enabled"`
	MaxEntries int64 `yaml:"max_entries"`
}

// Config holds the settings of a profiling runner.
type Config struct {
	// Parallelism caps the number of columns profiled at once.
	Parallelism int                `yaml:"parallelism"`
	Cache       CacheConfig        `yaml:"cache"`
	Budget      fingerprint.Budget `yaml:"budget"`
	Scale       window.Scale       `yaml:"scale"`
	// Timezone is an IANA zone name, used to read and bucket instants.
	Timezone    string    `yaml:"timezone"`
	Percentiles []float64 `yaml:"percentiles"`
}

func DefaultConfig() *Config {
	return &Config{
		Parallelism: runtime.NumCPU(),
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 1024,
		},
		Budget:      fingerprint.BudgetFullScan,
		Scale:       window.Raw,
		Timezone:    "UTC",
		Percentiles: fingerprint.DefaultPercentiles(),
	}
}

// ParseConfig reads YAML over the defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}

func (cfg *Config) Validate() error {
	var errs []error
	if cfg.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("parallelism %d: must be at least 1", cfg.Parallelism))
	}
	if cfg.Cache.Enabled && cfg.Cache.MaxEntries < 1 {
		errs = append(errs, fmt.Errorf("cache.max_entries %d: must be at least 1", cfg.Cache.MaxEntries))
	}
	for _, p := range cfg.Percentiles {
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Errorf("percentile %v: must be within [0, 1]", p))
		}
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	return errors.Join(errs...)
}

// Options are the fingerprint options the config describes.
func (cfg *Config) Options() (fingerprint.Options, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fingerprint.Options{}, fmt.Errorf("timezone: %w", err)
	}
	opts := fingerprint.DefaultOptions()
	opts.Budget = cfg.Budget
	opts.Scale = cfg.Scale
	opts.Location = loc
	if len(cfg.Percentiles) > 0 {
		opts.Percentiles = cfg.Percentiles
	}
	return opts, nil
}
