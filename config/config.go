package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/perfdata/blockstore/core"
)

// StoreConfig holds block-store specific configurations.
type StoreConfig struct {
	DataDir     string `yaml:"data_dir"`
	Compression string `yaml:"compression"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // e.g., "debug", "info", "warn", "error"
	Output string `yaml:"output"` // e.g., "stdout", "stderr", "file"
	File   string `yaml:"file"`   // Path to the log file, used if output is "file"
}

// Config is the top-level configuration struct.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			DataDir:     "./data",
			Compression: "snappy",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
		},
	}
}

// Load reads configuration from an io.Reader. This is the core logic,
// separated for testability.
func Load(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads configuration from a YAML file. A missing path returns
// the defaults.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks field values that cannot be checked by the YAML decoder.
func (c *Config) Validate() error {
	if c.Store.DataDir == "" {
		return fmt.Errorf("store.data_dir must not be empty")
	}
	if _, ok := core.ParseCompressionType(c.Store.Compression); !ok {
		return fmt.Errorf("store.compression %q is not one of none, snappy, lz4, zstd", c.Store.Compression)
	}
	return nil
}

// CompressionType returns the parsed compression tag. Validate must have
// accepted the config first.
func (c *Config) CompressionType() core.CompressionType {
	ct, _ := core.ParseCompressionType(c.Store.Compression)
	return ct
}
