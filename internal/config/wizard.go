package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .discovery.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to discovery! Let's configure the demo.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Backend base URL.
	urlPrompt := promptui.Prompt{
		Label:   "Backend base URL",
		Default: cfg.BaseURL,
		Validate: func(s string) error {
			if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
				return fmt.Errorf("must start with http:// or https://")
			}
			return nil
		},
	}
	baseURL, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base URL: %w", err)
	}
	cfg.BaseURL = baseURL

	// 2. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("must be a port number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 3. Answer generator.
	modePrompt := promptui.Select{
		Label: "Answer generator",
		Items: []string{
			"canned — prepared demo answers, no API key needed",
			"openai — live generation (requires OPENAI_API_KEY)",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("generator selection: %w", err)
	}
	if modeIdx == 1 {
		cfg.Generator.Mode = GeneratorOpenAI

		modelPrompt := promptui.Prompt{
			Label:   "OpenAI model",
			Default: "gpt-4o",
		}
		model, err := modelPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("model: %w", err)
		}
		cfg.Generator.Model = model
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, err
	}
	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}
