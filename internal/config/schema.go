package config

// Config holds extractor configuration.
type Config struct {
	OpenAI     OpenAICfg     `mapstructure:"openai" yaml:"openai"`
	Defaults   DefaultsCfg   `mapstructure:"defaults" yaml:"defaults"`
	Extraction ExtractionCfg `mapstructure:"extraction" yaml:"extraction"`
}

// OpenAICfg configures the model service client.
type OpenAICfg struct {
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`                 // API key (supports ${ENV_VAR} syntax)
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`               // API base URL
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // Transport timeout
}

// DefaultsCfg specifies default model selection.
type DefaultsCfg struct {
	Model string `mapstructure:"model" yaml:"model"` // Default model alias (env: EXTRACTOR_MODEL_ALIAS)
}

// ExtractionCfg holds pipeline defaults.
type ExtractionCfg struct {
	MaxPages          int  `mapstructure:"max_pages" yaml:"max_pages"`                   // Page limit per document
	ValidateStructure bool `mapstructure:"validate_structure" yaml:"validate_structure"` // Opt-in result shape validation
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OpenAI: OpenAICfg{
			APIKey:         "${OPENAI_API_KEY}",
			BaseURL:        "https://api.openai.com/v1",
			TimeoutSeconds: 120,
		},
		Defaults: DefaultsCfg{
			Model: "gpt-4.1-mini",
		},
		Extraction: ExtractionCfg{
			MaxPages:          10,
			ValidateStructure: false,
		},
	}
}
