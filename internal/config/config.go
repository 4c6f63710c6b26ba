package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	API        APIConfig        `yaml:"api"`
	Conversion ConversionConfig `yaml:"conversion"`
	Prefetch   PrefetchConfig   `yaml:"prefetch"`
}

type StorageConfig struct {
	Dir string `yaml:"dir"`
}

type APIConfig struct {
	BaseURL    string `yaml:"base_url"`
	Key        string `yaml:"key"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

type ConversionConfig struct {
	PollIntervalMS int `yaml:"poll_interval_ms"`
}

type PrefetchConfig struct {
	Enabled     bool `yaml:"enabled"`
	CacheSizeMB int  `yaml:"cache_size_mb"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix CLIP2FIT_ and underscore-separated
// paths:
//
//	CLIP2FIT_STORAGE_DIR,
//	CLIP2FIT_API_BASE_URL, CLIP2FIT_API_KEY, CLIP2FIT_API_TIMEOUT_SEC,
//	CLIP2FIT_CONVERSION_POLL_INTERVAL_MS,
//	CLIP2FIT_PREFETCH_ENABLED, CLIP2FIT_PREFETCH_CACHE_SIZE_MB
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CLIP2FIT_STORAGE_DIR"); v != "" {
		cfg.Storage.Dir = v
	}
	if v := os.Getenv("CLIP2FIT_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("CLIP2FIT_API_KEY"); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv("CLIP2FIT_API_TIMEOUT_SEC"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			cfg.API.TimeoutSec = sec
		}
	}
	if v := os.Getenv("CLIP2FIT_CONVERSION_POLL_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.Conversion.PollIntervalMS = ms
		}
	}
	if v := os.Getenv("CLIP2FIT_PREFETCH_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Prefetch.Enabled = enabled
		}
	}
	if v := os.Getenv("CLIP2FIT_PREFETCH_CACHE_SIZE_MB"); v != "" {
		if mb, err := strconv.Atoi(v); err == nil {
			cfg.Prefetch.CacheSizeMB = mb
		}
	}
}

func (c *Config) applyDefaults() {
	if c.API.TimeoutSec == 0 {
		c.API.TimeoutSec = 30
	}
	if c.Conversion.PollIntervalMS == 0 {
		c.Conversion.PollIntervalMS = 2000
	}
	if c.Prefetch.CacheSizeMB == 0 {
		c.Prefetch.CacheSizeMB = 8
	}
}

func (c *Config) validate() error {
	if c.Storage.Dir == "" {
		return fmt.Errorf("storage.dir is required")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.Conversion.PollIntervalMS < 0 {
		return fmt.Errorf("conversion.poll_interval_ms must not be negative")
	}
	return nil
}
