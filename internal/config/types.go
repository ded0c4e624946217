package config

// GeneratorMode selects how /query answers are produced.
type GeneratorMode string

const (
	// GeneratorCanned serves the demo's prepared per-objective answers.
	GeneratorCanned GeneratorMode = "canned"
	// GeneratorOpenAI generates answers live with a chat completion.
	GeneratorOpenAI GeneratorMode = "openai"
)

// ServerConfig holds the backend HTTP server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// GeneratorConfig selects the answer generator.
type GeneratorConfig struct {
	Mode  GeneratorMode `yaml:"mode" koanf:"mode"`
	Model string        `yaml:"model" koanf:"model"`
}

// SimulationConfig tunes the flow simulation engine.
type SimulationConfig struct {
	// Speed divides every scripted step delay; 1.0 is real time.
	Speed float64 `yaml:"speed" koanf:"speed"`
}

// Config is the top-level configuration, corresponding to .discovery.yml.
type Config struct {
	// BaseURL is where the client commands reach the backend.
	BaseURL string `yaml:"base_url" koanf:"base_url"`
	// PollIntervalMS is the flow controller's poll cadence in milliseconds.
	PollIntervalMS int `yaml:"poll_interval_ms" koanf:"poll_interval_ms"`

	Server     ServerConfig     `yaml:"server" koanf:"server"`
	Generator  GeneratorConfig  `yaml:"generator" koanf:"generator"`
	Simulation SimulationConfig `yaml:"simulation" koanf:"simulation"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "http://localhost:8000",
		PollIntervalMS: 1000,
		Server: ServerConfig{
			Port:            8000,
			AllowAllOrigins: true,
		},
		Generator: GeneratorConfig{
			Mode: GeneratorCanned,
		},
		Simulation: SimulationConfig{
			Speed: 1.0,
		},
	}
}
