package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runnerr0/momentline/internal/coords"
	"github.com/runnerr0/momentline/internal/logging"
)

// Default config file path.
const DefaultConfigPath = "~/.config/momentline/config.yaml"

// EnvConfigPath names the environment variable that overrides DefaultConfigPath.
const EnvConfigPath = "MOMENTLINE_CONFIG"

// Config holds all Momentline configuration.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	View      ViewConfig      `yaml:"view"`
	Retention RetentionConfig `yaml:"retention"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type StorageConfig struct {
	Path        string `yaml:"path"`
	SQLiteFile  string `yaml:"sqlite_file"`
	JournalMode string `yaml:"journal_mode"`
}

type ViewConfig struct {
	Timezone      string  `yaml:"timezone"`
	ViewportWidth float64 `yaml:"viewport_width"`
	DefaultZoom   string  `yaml:"default_zoom"`
	AxisY         float64 `yaml:"axis_y"`
	// CellWidth is how many canvas pixels one terminal column stands for.
	CellWidth float64 `yaml:"cell_width"`
}

type RetentionConfig struct {
	Days int `yaml:"days"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read, contains invalid YAML or
// holds invalid values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail later and far from the
// config file.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.DefaultZoomLevel(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.View.ViewportWidth <= 0 {
		return fmt.Errorf("view.viewport_width must be positive, got %v", c.View.ViewportWidth)
	}
	if c.View.CellWidth <= 0 {
		return fmt.Errorf("view.cell_width must be positive, got %v", c.View.CellWidth)
	}
	if c.Retention.Days < 0 {
		return fmt.Errorf("retention.days must not be negative, got %d", c.Retention.Days)
	}
	return nil
}

// Location resolves view.timezone. "Local" and "" mean the system zone.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.View.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("view.timezone: %w", err)
	}
	return loc, nil
}

// DefaultZoomLevel resolves view.default_zoom to a zoom table index.
func (c *Config) DefaultZoomLevel() (int, error) {
	u, err := coords.ParseUnit(c.View.DefaultZoom)
	if err != nil {
		return 0, fmt.Errorf("view.default_zoom: %w", err)
	}
	return coords.LevelForUnit(u)
}

// DBPath is the SQLite file inside the storage directory.
func (c *Config) DBPath() (string, error) {
	dir, err := expandPath(c.Storage.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Storage.SQLiteFile), nil
}

// LogPath is the log file, relative names resolved against the storage
// directory. Empty means logging is discarded.
func (c *Config) LogPath() (string, error) {
	if c.Logging.File == "" {
		return "", nil
	}
	p, err := expandPath(c.Logging.File)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(p) {
		return p, nil
	}
	dir, err := expandPath(c.Storage.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, p), nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// ResolvePath picks the config file: an explicit path first, then
// $MOMENTLINE_CONFIG, then DefaultConfigPath.
func ResolvePath(explicit string) (string, error) {
	switch {
	case explicit != "":
		return expandPath(explicit)
	case os.Getenv(EnvConfigPath) != "":
		return expandPath(os.Getenv(EnvConfigPath))
	}
	return expandPath(DefaultConfigPath)
}

// LoadOrCreate loads the config from the resolved default path. If the file
// does not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ResolvePath("")
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
