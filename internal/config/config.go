// Package config loads export settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/fictags/internal/metadata"
)

// Environment variables that override the file.
const (
	EnvOutput = "FICTAGS_OUTPUT"
	EnvSheet  = "FICTAGS_SHEET"
)

// Config holds the settings of an export run.
type Config struct {
	// Roots are walked for .epub files when none are given on the command line.
	Roots             []string `yaml:"roots"`
	Output            string   `yaml:"output"`
	CSV               string   `yaml:"csv"`
	Parquet           string   `yaml:"parquet"`
	Sheet             string   `yaml:"sheet"`
	Verbose           bool     `yaml:"verbose"`
	DescriptionFormat string   `yaml:"description_format"`
}

// Default returns the settings used without a config file.
func Default() *Config {
	return &Config{
		Output:            "works.xlsx",
		Sheet:             "Works",
		DescriptionFormat: string(metadata.FormatText),
	}
}

// Load reads the YAML file at path over the defaults, then applies the
// environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// ApplyEnv overrides fields from non-empty environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvOutput); v != "" {
		c.Output = v
	}
	if v := getenv(EnvSheet); v != "" {
		c.Sheet = v
	}
}

// Validate checks that at least one output is configured, that the
// description format is known and that the worksheet name is usable.
func (c *Config) Validate() error {
	if c.Output == "" && c.CSV == "" && c.Parquet == "" {
		return errors.New("no output configured")
	}
	if _, err := metadata.ParseFormat(c.DescriptionFormat); err != nil {
		return err
	}
	if c.Output == "" {
		return nil
	}
	if c.Sheet == "" {
		return errors.New("sheet name is required")
	}
	if utf8.RuneCountInString(c.Sheet) > 31 {
		return fmt.Errorf("sheet name %q is longer than 31 characters", c.Sheet)
	}
	if strings.ContainsAny(c.Sheet, `:\/?*[]`) {
		return fmt.Errorf("sheet name %q contains a character Excel does not allow", c.Sheet)
	}
	return nil
}
