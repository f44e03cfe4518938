package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config is the repository configuration stored in config.toml
type Config struct {
	// StorePath locates the declarations file, relative to the data directory.
	StorePath string        `toml:"store_path"`
	Cascade   CascadeConfig `toml:"cascade"`
	Log       LogConfig     `toml:"log"`
	GitHub    GitHubConfig  `toml:"github"`

	dir string
}

// CascadeConfig holds defaults for cascade flags
type CascadeConfig struct {
	Autostash       bool `toml:"autostash"`
	ContinueOnError bool `toml:"continue_on_error"`
	MaxDepth        int  `toml:"max_depth"`
}

// LogConfig controls the rotated log file
type LogConfig struct {
	File       bool `toml:"file"`
	MaxSizeMB  int  `toml:"max_size_mb"`
	MaxBackups int  `toml:"max_backups"`
}

// GitHubConfig controls pull request lookups
type GitHubConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
}

// Default returns the configuration used when config.toml is absent.
func Default(dir string) *Config {
	return &Config{
		StorePath: DeclarationsFile,
		Log:       LogConfig{File: true, MaxSizeMB: 1, MaxBackups: 2},
		GitHub:    GitHubConfig{Enabled: true, Host: "github.com"},
		dir:       dir,
	}
}

// Load reads config.toml from the data directory dir. A missing file yields defaults;
// keys absent from the file keep their default values.
func Load(dir string) (*Config, error) {
	cfg := Default(dir)
	data, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Exists reports whether config.toml has been written, i.e. depstack init has run.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFile))
	return err == nil
}

// Save writes the configuration to disk
func (c *Config) Save() error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", c.dir, err)
	}
	data, err := c.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, ConfigFile), data, 0o644)
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Dir returns the data directory the config belongs to.
func (c *Config) Dir() string {
	return c.dir
}

// DeclarationsPath resolves StorePath against the data directory.
func (c *Config) DeclarationsPath() string {
	path := c.StorePath
	if path == "" {
		path = DeclarationsFile
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.dir, path)
}

// ContinuePath is where halted operations persist their state.
func (c *Config) ContinuePath() string {
	return filepath.Join(c.dir, ContinueFile)
}

// LogPath is the rotated log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.dir, LogFile)
}

// JournalPath is the run history database.
func (c *Config) JournalPath() string {
	return filepath.Join(c.dir, JournalFile)
}

type setting struct {
	get func(c *Config) string
	set func(c *Config, value string) error
}

func boolSetting(field func(c *Config) *bool) setting {
	return setting{
		get: func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, value string) error {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", value)
			}
			*field(c) = b
			return nil
		},
	}
}

func intSetting(field func(*Config) *int) setting {
	return setting{
		get: func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, value string) error {
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return fmt.Errorf("expected a non-negative integer, got %q", value)
			}
			*field(c) = n
			return nil
		},
	}
}

var settings = map[string]setting{
	"store_path": {
		get: func(c *Config) string { return c.StorePath },
		set: func(c *Config, value string) error {
			c.StorePath = value
			return nil
		},
	},
	"cascade.autostash":         boolSetting(func(c *Config) *bool { return &c.Cascade.Autostash }),
	"cascade.continue_on_error": boolSetting(func(c *Config) *bool { return &c.Cascade.ContinueOnError }),
	"cascade.max_depth":         intSetting(func(c *Config) *int { return &c.Cascade.MaxDepth }),
	"log.file":                  boolSetting(func(c *Config) *bool { return &c.Log.File }),
	"log.max_size_mb":           intSetting(func(c *Config) *int { return &c.Log.MaxSizeMB }),
	"log.max_backups":           intSetting(func(c *Config) *int { return &c.Log.MaxBackups }),
	"github.enabled":            boolSetting(func(c *Config) *bool { return &c.GitHub.Enabled }),
	"github.host": {
		get: func(c *Config) string { return c.GitHub.Host },
		set: func(c *Config, value string) error {
			c.GitHub.Host = value
			return nil
		},
	},
}

// Keys lists the settable configuration keys.
func Keys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a scalar key.
func (c *Config) Get(key string) (string, error) {
	s, ok := settings[key]
	if !ok {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	return s.get(c), nil
}

// Set parses value into a scalar key. It does not save.
func (c *Config) Set(key, value string) error {
	s, ok := settings[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := s.set(c, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}
