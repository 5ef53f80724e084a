// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "TASKTRACKER_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for real task lists.
	Production Environment = "production"
)

// Config is the master configuration for the task tracker.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Storage configures where and how the task list is persisted.
	Storage StorageConfig `yaml:"storage"`

	// UI configures the terminal dashboard.
	UI UIConfig `yaml:"ui"`

	// Logging configures slog output.
	Logging LoggingConfig `yaml:"logging"`

	// Export configures archive defaults for the export command.
	Export ExportConfig `yaml:"export"`

	// EnvironmentOverrides contains per-environment overrides.
	// These are applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per
// environment. Booleans are pointers so that an override can set them
// false without clobbering values it does not mention.
type ConfigOverrides struct {
	Storage *StorageOverrides `yaml:"storage,omitempty"`
	UI      *UIOverrides      `yaml:"ui,omitempty"`
	Logging *LoggingConfig    `yaml:"logging,omitempty"`
	Export  *ExportConfig     `yaml:"export,omitempty"`
}

// StorageConfig configures task list persistence.
type StorageConfig struct {
	// Directory holds one file per storage key.
	// Default: ${XDG_DATA_HOME:-${HOME}/.local/share}/tasktracker
	Directory string `yaml:"directory"`

	// Key names the file the task list is stored under.
	// Default: tasks
	Key string `yaml:"key"`

	// Format is the record encoding: json or cbor.
	// Default: json
	Format string `yaml:"format"`

	// SeedSamples plants the three sample tasks when the key is
	// absent or empty.
	// Default: true (development), false (production)
	SeedSamples bool `yaml:"seed_samples"`

	// Watch reloads the dashboard when another process writes the
	// task list.
	// Default: true
	Watch bool `yaml:"watch"`
}

// StorageOverrides is the override form of [StorageConfig].
type StorageOverrides struct {
	Directory   string `yaml:"directory,omitempty"`
	Key         string `yaml:"key,omitempty"`
	Format      string `yaml:"format,omitempty"`
	SeedSamples *bool  `yaml:"seed_samples,omitempty"`
	Watch       *bool  `yaml:"watch,omitempty"`
}

// UIConfig configures the dashboard.
type UIConfig struct {
	// SplitRatio is the fraction of the width given to the task list
	// when the preview pane is shown. Must be in [0.2, 0.9].
	// Default: 0.6
	SplitRatio float64 `yaml:"split_ratio"`

	// ShowDescriptions adds a description excerpt to each list row.
	// Default: true
	ShowDescriptions bool `yaml:"show_descriptions"`
}

// UIOverrides is the override form of [UIConfig].
type UIOverrides struct {
	SplitRatio       float64 `yaml:"split_ratio,omitempty"`
	ShowDescriptions *bool   `yaml:"show_descriptions,omitempty"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	// Level is debug, info, warn, or error.
	// Default: info
	Level string `yaml:"level"`

	// File, when set, receives every record as JSON in addition to
	// the normal destination. Relative paths are resolved against
	// the storage directory.
	File string `yaml:"file"`
}

// ExportConfig configures archive defaults.
type ExportConfig struct {
	// Compression is zstd, lz4, or none.
	// Default: zstd
	Compression string `yaml:"compression"`

	// Recipients are age X25519 public keys archives are encrypted
	// to when the export command is not given --recipient.
	Recipients []string `yaml:"recipients"`
}

// Default returns the default configuration. Unlike a service
// configuration, these defaults are a complete working setup: Load
// falls back to them when no file is named.
func Default() *Config {
	return &Config{
		Environment: Development,
		Storage: StorageConfig{
			Directory:   "${XDG_DATA_HOME:-${HOME}/.local/share}/tasktracker",
			Key:         "tasks",
			Format:      "json",
			SeedSamples: true,
			Watch:       true,
		},
		UI: UIConfig{
			SplitRatio:       0.6,
			ShowDescriptions: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Export: ExportConfig{
			Compression: "zstd",
		},
	}
}

// Resolve loads the configuration for a command. A non-empty flagPath
// (from --config) wins; otherwise [Load] decides.
func Resolve(flagPath string) (*Config, error) {
	if flagPath != "" {
		return LoadFile(flagPath)
	}
	return Load()
}

// Load loads configuration from the file named by TASKTRACKER_CONFIG,
// or returns the finished defaults when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		cfg := Default()
		cfg.finish()
		return cfg, nil
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables
// do not override config values. The only expansion performed is
// ${HOME} and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg.finish()
	return cfg, nil
}

func (c *Config) finish() {
	// Apply environment-specific overrides (development/staging/production sections in the file).
	c.applyEnvironmentOverrides()

	// Expand ${HOME} and similar variables in paths for portability.
	c.expandVariables()
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// A real list never gets sample tasks unless the production
		// section itself asks for them.
		c.Storage.SeedSamples = false
	}

	if overrides == nil {
		return
	}

	if overrides.Storage != nil {
		if overrides.Storage.Directory != "" {
			c.Storage.Directory = overrides.Storage.Directory
		}
		if overrides.Storage.Key != "" {
			c.Storage.Key = overrides.Storage.Key
		}
		if overrides.Storage.Format != "" {
			c.Storage.Format = overrides.Storage.Format
		}
		if overrides.Storage.SeedSamples != nil {
			c.Storage.SeedSamples = *overrides.Storage.SeedSamples
		}
		if overrides.Storage.Watch != nil {
			c.Storage.Watch = *overrides.Storage.Watch
		}
	}

	if overrides.UI != nil {
		if overrides.UI.SplitRatio != 0 {
			c.UI.SplitRatio = overrides.UI.SplitRatio
		}
		if overrides.UI.ShowDescriptions != nil {
			c.UI.ShowDescriptions = *overrides.UI.ShowDescriptions
		}
	}

	if overrides.Logging != nil {
		if overrides.Logging.Level != "" {
			c.Logging.Level = overrides.Logging.Level
		}
		if overrides.Logging.File != "" {
			c.Logging.File = overrides.Logging.File
		}
	}

	if overrides.Export != nil {
		if overrides.Export.Compression != "" {
			c.Export.Compression = overrides.Export.Compression
		}
		if len(overrides.Export.Recipients) > 0 {
			c.Export.Recipients = overrides.Export.Recipients
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME":          os.Getenv("HOME"),
		"XDG_DATA_HOME": os.Getenv("XDG_DATA_HOME"),
	}

	c.Storage.Directory = expandVars(c.Storage.Directory, vars)
	vars["TASKTRACKER_DATA"] = c.Storage.Directory // Update for dependent paths.

	c.Logging.File = expandVars(c.Logging.File, vars)
	if c.Logging.File != "" && !filepath.IsAbs(c.Logging.File) && c.Storage.Directory != "" {
		c.Logging.File = filepath.Join(c.Storage.Directory, c.Logging.File)
	}
}

// varPattern matches ${VAR} and ${VAR:-default}. The default may itself
// contain one nested ${VAR}, which is expanded after substitution.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-((?:[^}$]|\$\{[^}]*\})*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return expandVars(defaultValue, vars)
	})
}

// SlogLevel parses Logging.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Storage.Directory == "" {
		errs = append(errs, fmt.Errorf("storage.directory is required"))
	}

	if c.Storage.Key == "" {
		errs = append(errs, fmt.Errorf("storage.key is required"))
	}

	formats := []string{"json", "cbor"}
	if !slices.Contains(formats, c.Storage.Format) {
		errs = append(errs, fmt.Errorf("storage.format must be one of: %v", formats))
	}

	if c.UI.SplitRatio < 0.2 || c.UI.SplitRatio > 0.9 {
		errs = append(errs, fmt.Errorf("ui.split_ratio must be between 0.2 and 0.9, got %g", c.UI.SplitRatio))
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	compressions := []string{"zstd", "lz4", "none"}
	if !slices.Contains(compressions, c.Export.Compression) {
		errs = append(errs, fmt.Errorf("export.compression must be one of: %v", compressions))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsurePaths creates the storage directory and the log file's
// directory if they don't exist. Task data is private to the user, so
// the storage directory is created 0700.
func (c *Config) EnsurePaths() error {
	if c.Storage.Directory != "" {
		if err := os.MkdirAll(c.Storage.Directory, 0o700); err != nil {
			return fmt.Errorf("creating %s: %w", c.Storage.Directory, err)
		}
	}

	if c.Logging.File != "" {
		logDirectory := filepath.Dir(c.Logging.File)
		if err := os.MkdirAll(logDirectory, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", logDirectory, err)
		}
	}

	return nil
}
