// Package config loads user defaults from a .env file, the environment and an
// optional YAML file. Command line flags take precedence over everything here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Balance report styles.
const (
	StyleTree = "tree"
	StyleFlat = "flat"
)

// DefaultFilename is looked up in the user's home directory when no config
// path is given.
const DefaultFilename = ".ledger.yaml"

// Config holds the report defaults.
type Config struct {
	// Files are read when no --file flag is given.
	Files []string `yaml:"files"`
	// Color forces colored output on or off. Nil means auto-detect.
	Color *bool `yaml:"color"`
	// BalanceStyle is the default layout of the balance and accounts reports.
	BalanceStyle string `yaml:"balance_style"`
	// AccountWidth is the minimum width of the account column.
	AccountWidth int `yaml:"account_width"`
	Debug        bool `yaml:"debug"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{BalanceStyle: StyleTree}
}

// LoadEnv loads variables from the given .env files into the process
// environment. Without arguments it loads .env from the working directory
// when present. Variables already set are never overridden.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
		return nil
	}

	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// Load reads the YAML file at path on top of the defaults and applies
// LEDGER_* environment overrides. An empty path falls back to LEDGER_CONFIG
// and then to ~/.ledger.yaml; a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("LEDGER_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, DefaultFilename)
		}
	}

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Relative ledger files are resolved against the config file.
	dir := filepath.Dir(path)
	for i, file := range c.Files {
		if !filepath.IsAbs(file) {
			c.Files[i] = filepath.Join(dir, file)
		}
	}

	return nil
}

func (c *Config) applyEnv() error {
	if value := os.Getenv("LEDGER_BALANCE_STYLE"); value != "" {
		c.BalanceStyle = value
	}

	if value := os.Getenv("LEDGER_ACCOUNT_WIDTH"); value != "" {
		width, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid LEDGER_ACCOUNT_WIDTH: %w", err)
		}
		c.AccountWidth = width
	}

	if value := os.Getenv("LEDGER_DEBUG"); value != "" {
		debug, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid LEDGER_DEBUG: %w", err)
		}
		c.Debug = debug
	}

	return nil
}

// Validate checks that all values are in range.
func (c *Config) Validate() error {
	switch c.BalanceStyle {
	case "", StyleTree, StyleFlat:
	default:
		return fmt.Errorf("invalid balance_style %q: expected %q or %q", c.BalanceStyle, StyleTree, StyleFlat)
	}

	if c.AccountWidth < 0 {
		return fmt.Errorf("invalid account_width %d: must not be negative", c.AccountWidth)
	}

	return nil
}

// Flat reports whether balance style defaults to a flat listing.
func (c *Config) Flat() bool {
	return c.BalanceStyle == StyleFlat
}
