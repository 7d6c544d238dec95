package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/jamesainslie/fileprint/pkg/fileprint/record"
	"github.com/jamesainslie/fileprint/pkg/fileprint/types"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. FILEPRINT_LAYOUT=v1.
const EnvPrefix = "FILEPRINT"

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// CatalogConfig configures the persistent fingerprint catalog.
type CatalogConfig struct {
	// Path is the Badger directory. Empty uses DefaultCatalogPath.
	Path string `mapstructure:"path"`

	// ReuseMtime and ReuseCtime decide which timestamps must be unchanged
	// before stored digests are reused instead of reading the file again.
	// Reuse requires at least one of them.
	ReuseMtime bool `mapstructure:"reuse_mtime"`
	ReuseCtime bool `mapstructure:"reuse_ctime"`
}

// Config represents the application configuration.
type Config struct {
	Layout    string        `mapstructure:"layout"`
	Output    string        `mapstructure:"output"`
	BlockSize string        `mapstructure:"block_size"`
	Catalog   CatalogConfig `mapstructure:"catalog"`
	Logging   LoggingConfig `mapstructure:"logging"`
}

// RecordLayout parses Layout.
func (c *Config) RecordLayout() (record.Layout, error) {
	return record.ParseLayout(c.Layout)
}

// BlockBytes parses BlockSize into a positive byte count.
func (c *Config) BlockBytes() (int, error) {
	n, err := types.ParseSize(c.BlockSize)
	if err != nil {
		return 0, fmt.Errorf("block_size: %w", err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("block_size: %w: must be positive", types.ErrInvalidSize)
	}
	return int(n), nil
}

// CatalogPath returns the configured catalog directory with ~ expanded.
func (c *Config) CatalogPath() (string, error) {
	if c.Catalog.Path == "" {
		return DefaultCatalogPath(), nil
	}
	return ExpandPath(c.Catalog.Path)
}

// Validate checks the values that every command depends on.
func (c *Config) Validate() error {
	if _, err := c.RecordLayout(); err != nil {
		return err
	}
	if _, err := c.BlockBytes(); err != nil {
		return err
	}
	return nil
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("layout", DefaultLayout)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("block_size", DefaultBlockSize)

	v.SetDefault("catalog.path", "") // Empty means use DefaultCatalogPath
	v.SetDefault("catalog.reuse_mtime", true)
	v.SetDefault("catalog.reuse_ctime", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", DefaultLogMaxSize)
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", map[string]string{
		"engine":  "info",
		"catalog": "info",
	})
}

// Prepare points v at the config file locations and environment. An empty
// cfgFile searches, in order of precedence:
//   - $XDG_CONFIG_HOME/fileprint/config.yaml
//   - $HOME/.config/fileprint/config.yaml
func Prepare(v *viper.Viper, cfgFile string) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			v.AddConfigPath(filepath.Join(xdgConfigHome, "fileprint"))
		}
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", "fileprint"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
}

// Read loads the config file into v, if one exists, and decodes the result.
// Flags bound to v with BindPFlag take precedence over everything else.
func Read(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Load loads configuration from file and environment variables using a
// private viper instance.
func Load() (*Config, error) {
	v := viper.New()
	Prepare(v, "")
	return Read(v)
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "fileprint"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "fileprint"), nil
}

// ConfigPath returns the path of the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists and reports
// whether it created one.
func WriteDefault() (bool, error) {
	if err := EnsureConfigDir(); err != nil {
		return false, err
	}

	configPath, err := ConfigPath()
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# fileprint configuration

# Record layout: v2 (with atime/ctime/mtime) or v1
layout: %s

# Output format: record, json, jsonl, yaml, pretty
output: %s

# Read size per chunk
block_size: %s

# Persistent fingerprint catalog
catalog:
  # Badger directory (empty means use default: $XDG_DATA_HOME/fileprint/catalog)
  path: ""
  # Reuse stored digests when these timestamps are unchanged
  reuse_mtime: true
  reuse_ctime: true

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/fileprint/fileprint.log)
  path: ""
  rotation:
    max_size: %s
    max_age: 30       # days
    max_backups: 5
    daily: true
  # Per-component log levels
  components:
    engine: info
    catalog: info
`, DefaultLayout, DefaultOutput, DefaultBlockSize, DefaultLogMaxSize)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write default config: %w", err)
	}

	return true, nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// DataDir returns $XDG_DATA_HOME/fileprint/ for the catalog.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "fileprint")
}

// StateDir returns $XDG_STATE_HOME/fileprint/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "fileprint")
}

// DefaultCatalogPath returns the default Badger catalog directory.
func DefaultCatalogPath() string {
	return filepath.Join(DataDir(), "catalog")
}
