// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo/internal/model"
)

// Default values.
const (
	DefaultDataFile = "tasks.json"
	DefaultTheme    = "classic"
	DefaultLogLevel = "info"
	DefaultFilter   = "all"
)

// Themes lists the accepted theme names.
var Themes = []string{"classic", "dark", "mono"}

// Config holds the full configuration for todo.
type Config struct {
	DataFile      string `toml:"data_file"`
	Theme         string `toml:"theme"`
	LogLevel      string `toml:"log_level"`
	LogFile       string `toml:"log_file"`
	DefaultFilter string `toml:"default_filter"`

	// Files that were read, lowest priority first.
	Sources []string `toml:"-"`
}

// Overrides carries flag values; empty fields leave the config alone.
type Overrides struct {
	DataFile string
	Theme    string
	LogLevel string
	LogFile  string
}

// Load builds the configuration in priority order:
// 1. Defaults
// 2. User config file (~/.config/todo/config.toml)
// 3. Project config file (todo.toml or .todo.toml in the working directory),
//    or explicitPath when given
// 4. Environment variables
func Load(explicitPath string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if p := findUserConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}

	if explicitPath != "" {
		if err := loadConfigFile(cfg, explicitPath); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", explicitPath, err)
		}
	} else if p := findProjectConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", p, err)
		}
	}

	loadFromEnv(cfg)
	return cfg, nil
}

// Apply layers flag values on top and validates the result.
func (c *Config) Apply(o Overrides) error {
	if o.DataFile != "" {
		c.DataFile = o.DataFile
	}
	if o.Theme != "" {
		c.Theme = o.Theme
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	return c.Validate()
}

// Validate rejects values the rest of the program cannot use.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DataFile) == "" {
		errs = append(errs, errors.New("data_file is empty"))
	}
	if !validTheme(c.Theme) {
		errs = append(errs, fmt.Errorf("unknown theme %q (want one of %s)", c.Theme, strings.Join(Themes, ", ")))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if _, err := model.ParseFilter(c.DefaultFilter); err != nil {
		errs = append(errs, fmt.Errorf("default_filter: %w", err))
	}
	return errors.Join(errs...)
}

// Filter returns the parsed default filter.
func (c *Config) Filter() model.Filter {
	f, _ := model.ParseFilter(c.DefaultFilter)
	return f
}

// DataPath resolves DataFile against the working directory.
func (c *Config) DataPath() (string, error) {
	p := expandPath(c.DataFile)
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, p), nil
}

func setDefaults(cfg *Config) {
	cfg.DataFile = DefaultDataFile
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.DefaultFilter = DefaultFilter
}

// loadConfigFile decodes TOML from path over cfg; keys absent from the file
// keep their current values.
func loadConfigFile(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return err
	}
	cfg.Sources = append(cfg.Sources, path)
	return nil
}

func validTheme(name string) bool {
	for _, t := range Themes {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}
