// Package config defines the dataferry configuration model and the workspace
// directory layout derived from it. Configuration is resolved in layers:
// built-in defaults, then the YAML config file, then environment variables,
// then CLI flags. No package holds ambient mutable state; callers construct a
// Config once at startup and pass it down.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	// DefaultBatchSize is the default number of data rows written per
	// spreadsheet batch.
	DefaultBatchSize = 20000

	// DefaultPauseMillis is the default pause between chunked spreadsheet
	// writes, to stay under per-second API quotas.
	DefaultPauseMillis = 100

	// DefaultCacheTTLSeconds is the default TTL for cached query results.
	DefaultCacheTTLSeconds = 3600

	// DefaultSeed seeds the random number generator used by the stats
	// helpers when no seed is configured.
	DefaultSeed = 42
)

// configDirName is the dot-directory under $HOME holding the config file
// and the query result cache.
const configDirName = ".dataferry"

// WorkspaceConfig locates the data workspace and the credentials used for
// all Google API access.
type WorkspaceConfig struct {
	// Root is the workspace root directory; the data/models/queries layout
	// hangs off it.
	Root string `yaml:"root"`

	// Mode selects the active data subdirectory. See ParseMode for the
	// accepted values.
	Mode string `yaml:"mode"`

	// Credentials is the path to a service account JSON key file. Empty
	// falls back to GOOGLE_APPLICATION_CREDENTIALS.
	Credentials string `yaml:"credentials"`

	// Seed seeds deterministic sampling in the stats helpers.
	Seed int64 `yaml:"seed"`
}

// BigQueryConfig holds BigQuery connection settings.
type BigQueryConfig struct {
	Project  string `yaml:"project"`
	Location string `yaml:"location,omitempty"`
}

// SheetsConfig tunes the batched spreadsheet writer.
type SheetsConfig struct {
	// BatchSize is the maximum number of data rows per write call.
	BatchSize int `yaml:"batch_size"`

	// PauseMillis is the pause between chunk writes in milliseconds.
	PauseMillis int `yaml:"pause_millis"`
}

// LoggingConfig controls log level and optional file output.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// CacheConfig controls the BigQuery result cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Directory  string `yaml:"directory,omitempty"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// Config is the root configuration object.
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	BigQuery  BigQueryConfig  `yaml:"bigquery"`
	Sheets    SheetsConfig    `yaml:"sheets"`
	Logging   LoggingConfig   `yaml:"logging"`
	Cache     CacheConfig     `yaml:"cache"`

	// configPath is where Save writes and where Load read from.
	configPath string
}

// New returns a Config populated with defaults. The workspace root defaults
// to the current working directory so a checkout can be used without any
// configuration.
func New() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	return &Config{
		Workspace: WorkspaceConfig{
			Root: cwd,
			Mode: ModeLocal.String(),
			Seed: DefaultSeed,
		},
		Sheets: SheetsConfig{
			BatchSize:   DefaultBatchSize,
			PauseMillis: DefaultPauseMillis,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: DefaultCacheTTLSeconds,
		},
		configPath: DefaultConfigPath(),
	}
}

// DefaultConfigPath returns ~/.dataferry/config.yaml, or a relative path
// when the home directory cannot be determined.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(configDirName, "config.yaml")
	}
	return filepath.Join(home, configDirName, "config.yaml")
}

// Load builds the effective configuration: defaults, overlaid with the YAML
// file at path (when it exists), overlaid with environment variables.
// An empty path means the default config location.
func Load(path string) (*Config, error) {
	cfg := New()
	if path != "" {
		cfg.configPath = path
	}

	if _, err := os.Stat(cfg.configPath); err == nil {
		if mergeErr := ShallowMergeYAML(cfg, cfg.configPath); mergeErr != nil {
			return nil, mergeErr
		}
	} else if path != "" {
		// An explicitly named config file must exist.
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

// applyEnv overlays environment variables onto cfg. The lookup function is
// injected for testability.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("DATAFERRY_WORKSPACE"); v != "" {
		c.Workspace.Root = v
	}
	if v := getenv("DATAFERRY_MODE"); v != "" {
		c.Workspace.Mode = v
	}
	if v := getenv("DATAFERRY_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getenv("DATAFERRY_BQ_PROJECT"); v != "" {
		c.BigQuery.Project = v
	}
	if c.Workspace.Credentials == "" {
		c.Workspace.Credentials = getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
}

// ConfigPath returns the path the config was loaded from or will be saved to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath overrides the config file location.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// CacheDir returns the configured cache directory, defaulting to a cache/
// directory next to the config file.
func (c *Config) CacheDir() string {
	if c.Cache.Directory != "" {
		return c.Cache.Directory
	}
	return filepath.Join(filepath.Dir(c.configPath), "cache")
}

// Layout resolves the workspace directory layout from the configured root
// and mode. It fails when the mode is not a recognized value.
func (c *Config) Layout() (Layout, error) {
	mode, err := ParseMode(c.Workspace.Mode)
	if err != nil {
		return Layout{}, err
	}
	return NewLayout(c.Workspace.Root, mode), nil
}

// Save writes the configuration as YAML to its config path, creating parent
// directories as needed.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
