// Package config loads wordbook settings from an optional YAML file, a .env
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/japaniel/wordbook/pkg/issueform"
)

const (
	// DefaultFile is read when no --config flag is given. It may be absent.
	DefaultFile = "wordbook.yaml"

	defaultJSONPath = "data/words.json"
	defaultCSVPath  = "data/words.csv"
)

// DataConfig holds the sink paths.
type DataConfig struct {
	JSON string `yaml:"json"`
	CSV  string `yaml:"csv"`
	// SQLite enables the SQLite mirror when non-empty.
	SQLite string `yaml:"sqlite,omitempty"`
}

// Config models wordbook.yaml plus the submission read from the environment.
type Config struct {
	Data DataConfig `yaml:"data"`
	// Reading fills meaning_reading in the SQLite mirror.
	Reading bool `yaml:"reading"`
	// Labels adds heading aliases per field, probed after the built-in ones.
	Labels map[string][]string `yaml:"labels,omitempty"`

	IssueBody   string `yaml:"-"`
	IssueNumber string `yaml:"-"`
	IssueURL    string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			JSON: defaultJSONPath,
			CSV:  defaultCSVPath,
		},
		Reading: true,
	}
}

// Load reads path over the defaults, then applies .env and environment
// overrides. A missing file is fine when optional is set.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && optional:
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	// Existing environment variables win over .env.
	_ = godotenv.Load()
	cfg.applyEnvOverrides()

	if cfg.Data.JSON == "" {
		cfg.Data.JSON = defaultJSONPath
	}
	if cfg.Data.CSV == "" {
		cfg.Data.CSV = defaultCSVPath
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("WORDBOOK_JSON"); v != "" {
		c.Data.JSON = v
	}
	if v := os.Getenv("WORDBOOK_CSV"); v != "" {
		c.Data.CSV = v
	}
	if v := os.Getenv("WORDBOOK_SQLITE"); v != "" {
		c.Data.SQLite = v
	}
	c.IssueBody = os.Getenv("ISSUE_BODY")
	c.IssueNumber = os.Getenv("ISSUE_NUMBER")
	c.IssueURL = os.Getenv("ISSUE_URL")
}

// FieldLabels returns the built-in labels extended with the configured aliases.
func (c *Config) FieldLabels() (issueform.Labels, error) {
	return issueform.DefaultLabels().Extend(c.Labels)
}
