package model

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the complete vocabcheck configuration.
// Field tags serve yaml.v3 (config show/init) and viper (mapstructure).
type Config struct {
	Tagger  TaggerConfig  `yaml:"tagger" mapstructure:"tagger"`
	Grammar GrammarConfig `yaml:"grammar" mapstructure:"grammar"`
	Engine  EngineConfig  `yaml:"engine" mapstructure:"engine"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	HTTP    HTTPConfig    `yaml:"http" mapstructure:"http"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// TaggerConfig selects and configures the POS tagger backend
type TaggerConfig struct {
	Provider     string        `yaml:"provider" mapstructure:"provider" validate:"omitempty,oneof=http openai"` // "" disables tagging
	Model        string        `yaml:"model" mapstructure:"model"`
	APIKey       string        `yaml:"-" mapstructure:"api_key"` // Never written by config show/init
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	ProbeOnStart bool          `yaml:"probe_on_start" mapstructure:"probe_on_start"` // Check the backend once at startup
}

// GrammarConfig selects and configures the grammaticality classifier backend
type GrammarConfig struct {
	Provider     string        `yaml:"provider" mapstructure:"provider" validate:"omitempty,oneof=huggingface openai anthropic ollama"`
	Model        string        `yaml:"model" mapstructure:"model"`
	APIKey       string        `yaml:"-" mapstructure:"api_key"`
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	ProbeOnStart bool          `yaml:"probe_on_start" mapstructure:"probe_on_start"`
	MaxTokens    int           `yaml:"max_tokens" mapstructure:"max_tokens" validate:"gte=0"`

	// Labels maps classifier output labels to grammaticality.
	// Exactly one label must be marked grammatical.
	Labels []LabelConfig `yaml:"labels" mapstructure:"labels" validate:"required,min=1,dive"`
}

// LabelConfig is one entry of the classifier label mapping
type LabelConfig struct {
	Name        string `yaml:"name" mapstructure:"name" validate:"required"`
	Grammatical bool   `yaml:"grammatical" mapstructure:"grammatical"`
}

// EngineConfig tunes the feedback engine
type EngineConfig struct {
	CapabilityTimeout time.Duration `yaml:"capability_timeout" mapstructure:"capability_timeout" validate:"gt=0"` // Bound on each tagger/classifier call
}

// ServerConfig configures the serve command
type ServerConfig struct {
	Addr              string        `yaml:"addr" mapstructure:"addr" validate:"required"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gt=0"` // Per client
	Burst             int           `yaml:"burst" mapstructure:"burst" validate:"gt=0"`
	ClientTTL         time.Duration `yaml:"client_ttl" mapstructure:"client_ttl" validate:"gt=0"` // Idle time before a client's limiter is dropped
}

// BatchConfig configures the batch command
type BatchConfig struct {
	Workers           int     `yaml:"workers" mapstructure:"workers" validate:"gt=0"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gt=0"` // Shared by all workers
	Burst             int     `yaml:"burst" mapstructure:"burst" validate:"gt=0"`
}

// HTTPConfig holds outbound proxy settings shared by all HTTP backends
type HTTPConfig struct {
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// LogConfig configures the structured logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=text json"`
}

// DefaultConfig returns sensible defaults.
// Model and base URL stay empty so each provider falls back to its own endpoint.
// The label defaults match the RoBERTa CoLA model, where LABEL_1 means acceptable.
func DefaultConfig() *Config {
	return &Config{
		Tagger: TaggerConfig{
			Provider:     "http",
			Timeout:      10 * time.Second,
			ProbeOnStart: true,
		},
		Grammar: GrammarConfig{
			Provider:     "huggingface",
			Timeout:      30 * time.Second,
			ProbeOnStart: true,
			MaxTokens:    100,
			Labels: []LabelConfig{
				{Name: "LABEL_1", Grammatical: true},
				{Name: "LABEL_0", Grammatical: false},
			},
		},
		Engine: EngineConfig{
			CapabilityTimeout: 30 * time.Second,
		},
		Server: ServerConfig{
			Addr:              "127.0.0.1:5000",
			RequestsPerSecond: 2,
			Burst:             5,
			ClientTTL:         10 * time.Minute,
		},
		Batch: BatchConfig{
			Workers:           4,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the label mapping
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	grammatical := 0
	for _, l := range c.Grammar.Labels {
		if l.Grammatical {
			grammatical++
		}
	}
	if grammatical != 1 {
		return fmt.Errorf("invalid config: grammar.labels must mark exactly one label as grammatical (got %d)", grammatical)
	}

	return nil
}
