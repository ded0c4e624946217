package cmd

import (
	"fmt"
	"os"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/api"
	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/config"
	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/generator"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `discovery init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newAPIClient creates the backend client for the configured base URL.
func newAPIClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.BaseURL)
}

// newGeneratorFromConfig creates the answer provider selected in the config.
func newGeneratorFromConfig(cfg *config.Config) (generator.Provider, error) {
	switch cfg.Generator.Mode {
	case config.GeneratorOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for generator.mode openai")
		}
		return generator.NewOpenAIProvider(apiKey, cfg.Generator.Model), nil
	default:
		return generator.NewCannedProvider(), nil
	}
}

// parseObjective validates the --objective flag value.
func parseObjective(raw string) (api.Objective, error) {
	objective := api.Objective(raw)
	if !objective.Valid() {
		return "", fmt.Errorf("unknown objective %q: must be one of informative, hypothesis, benchmark, objectives", raw)
	}
	return objective, nil
}
