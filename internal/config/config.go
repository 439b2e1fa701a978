package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the ambient settings shared by all CLIs. Per-run parameters
// (symbol list, date range, windows) come from command-line flags instead.
type Config struct {
	DataSource struct {
		// BaseURL points at a self-hosted history API. Yahoo Finance is
		// used when empty.
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Log struct {
		File  string `yaml:"file"`
		Debug bool   `yaml:"debug"`
	} `yaml:"log"`
	Ledger struct {
		// SQLitePath stores the run history. Empty disables the ledger.
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"ledger"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is not an error; defaults still apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TICKERVAULT_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("TICKERVAULT_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("TICKERVAULT_LOG"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("TICKERVAULT_LEDGER"); v != "" {
		cfg.Ledger.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Log.File == "" {
		cfg.Log.File = "tickervault.log"
	}
	if cfg.Ledger.SQLitePath == "" {
		cfg.Ledger.SQLitePath = "data/runs.db"
	}

	return cfg, nil
}

// Validate checks the config for inconsistent settings.
func (c *Config) Validate() error {
	if c.DataSource.APIKey != "" && c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.api_key is set but data_source.base_url is empty")
	}
	return nil
}
