// Package config loads and validates the .discovery.yml configuration,
// with DISCOVERY_* environment variable overrides on top.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is the conventional config file location.
const DefaultPath = ".discovery.yml"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DISCOVERY_BASE_URL, DISCOVERY_SERVER.PORT,
// and so on; a double underscore descends into a section).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: DISCOVERY_BASE_URL -> base_url,
	// DISCOVERY_SERVER__PORT -> server.port.
	if err := k.Load(env.Provider("DISCOVERY_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "DISCOVERY_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validGeneratorModes is the set of recognized generator modes.
var validGeneratorModes = map[GeneratorMode]bool{
	GeneratorCanned: true,
	GeneratorOpenAI: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base_url %q must be an http(s) URL", c.BaseURL)
	}

	if c.PollIntervalMS <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	if c.Generator.Mode != "" && !validGeneratorModes[c.Generator.Mode] {
		return fmt.Errorf("invalid generator.mode %q: must be one of canned, openai", c.Generator.Mode)
	}

	if c.Simulation.Speed <= 0 {
		return fmt.Errorf("simulation.speed must be positive")
	}

	return nil
}
