// =============================================================================
// fac2csv - Configuration
// =============================================================================

// Package config loads the application configuration from a YAML file and
// fills in sensible defaults for anything the file leaves out. A missing
// config file is not an error; the defaults describe a working local setup.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings.
type Config struct {
	// Directories
	UploadDir string `yaml:"upload_dir"`
	OutputDir string `yaml:"output_dir"`
	InputDir  string `yaml:"input_dir"`

	// Limits
	MaxFileSizeMB  int64 `yaml:"max_file_size_mb"`
	MaxFiles       int   `yaml:"max_files"`
	MaxConcurrency int   `yaml:"max_concurrency"`

	// Output
	ExportXLSX bool `yaml:"export_xlsx"`

	// Housekeeping
	CleanupMaxAgeMinutes int `yaml:"cleanup_max_age_minutes"`

	// Server
	Server ServerConfig `yaml:"server"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		UploadDir:            "uploads",
		OutputDir:            "output",
		InputDir:             "input",
		MaxFileSizeMB:        10,
		MaxFiles:             50,
		MaxConcurrency:       4,
		ExportXLSX:           false,
		CleanupMaxAgeMinutes: 60,
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			AllowedOrigins: []string{"*"},
		},
		LogLevel: "info",
	}
}

// Load reads the configuration from path, falling back to defaults when the
// file does not exist. Values present in the file override defaults
// field by field.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("max_file_size_mb must be positive, got %d", c.MaxFileSizeMB)
	}
	if c.MaxFiles <= 0 {
		return fmt.Errorf("max_files must be positive, got %d", c.MaxFiles)
	}
	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("max_concurrency must be positive, got %d", c.MaxConcurrency)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be in 1-65535, got %d", c.Server.Port)
	}
	return nil
}

// MaxFileSizeBytes returns the per-file size limit in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return c.MaxFileSizeMB * 1024 * 1024
}

// CleanupMaxAge returns the retention window for generated files.
func (c *Config) CleanupMaxAge() time.Duration {
	return time.Duration(c.CleanupMaxAgeMinutes) * time.Minute
}

// ServerAddr returns the host:port pair the HTTP server binds to.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// EnsureDirs creates every configured directory.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.UploadDir, c.OutputDir, c.InputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
