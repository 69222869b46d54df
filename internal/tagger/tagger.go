package tagger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/vocabcheck/internal/model"
)

// Tagger defines the interface for tokenizer/POS-tagger backends
type Tagger interface {
	// Name returns the backend name
	Name() string

	// Tag splits a sentence into tokens in sentence order, each with a POS tag
	Tag(ctx context.Context, sentence string) ([]model.Token, error)

	// IsAvailable checks if the backend is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// Config holds tagger backend configuration
type Config struct {
	// Provider name: "http", "openai", ""
	Provider string

	// Model name (openai only)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL of the tagging service or API
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// Proxy settings
	HTTP model.HTTPConfig
}

// ConfigFromModel converts the model configuration into a tagger Config
func ConfigFromModel(t model.TaggerConfig, h model.HTTPConfig) Config {
	return Config{
		Provider: t.Provider,
		Model:    t.Model,
		APIKey:   t.APIKey,
		BaseURL:  t.BaseURL,
		Timeout:  t.Timeout,
		HTTP:     h,
	}
}

// NewTagger creates a tagger backend based on configuration.
// An empty provider returns nil: tagging is unavailable.
func NewTagger(config Config) (Tagger, error) {
	switch strings.ToLower(config.Provider) {
	case "http":
		return NewHTTPTagger(config)

	case "openai":
		return NewOpenAITagger(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown tagger provider: %s (supported: http, openai)", config.Provider)
	}
}

// checkTokens rejects tagger output that cannot be matched against
func checkTokens(tokens []model.Token) error {
	for i, tok := range tokens {
		if tok.Text == "" {
			return fmt.Errorf("token %d has no text", i)
		}
	}
	return nil
}
