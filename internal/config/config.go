// Package config loads the optional .groundskeep/analysis.yaml file that
// tunes which analyzers run and how results are presented. A missing file
// means defaults; the scoring rules themselves are not configurable.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config controls an analysis run.
type Config struct {
	// Analyzers to run, by type tag. Empty means all registered analyzers.
	Analyzers []string `yaml:"analyzers"`

	// MaxCandidates caps how many candidates the CLI prints (0 = all).
	// Selection always considers the full list.
	MaxCandidates int `yaml:"max_candidates"`

	// Output preferences.
	Output OutputConfig `yaml:"output"`
}

// OutputConfig defines presentation preferences.
type OutputConfig struct {
	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		MaxCandidates: 0,
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Load reads .groundskeep/analysis.yaml under projectRoot. A missing file
// yields the defaults; a malformed file is an error.
func Load(projectRoot string) (*Config, error) {
	configPath := filepath.Join(projectRoot, ".groundskeep", "analysis.yaml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and enum values.
func (c *Config) Validate() error {
	if c.MaxCandidates < 0 {
		return fmt.Errorf("max_candidates cannot be negative (got %d)", c.MaxCandidates)
	}
	switch c.Output.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", c.Output.Format)
	}
	return nil
}
