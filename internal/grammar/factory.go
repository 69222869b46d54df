package grammar

import (
	"fmt"
	"strings"
)

// NewClassifier creates a classifier backend based on configuration.
// An empty provider returns nil: grammar checking is unavailable.
func NewClassifier(config Config) (Classifier, error) {
	provider := strings.ToLower(config.Provider)

	if provider != "" && config.Labels == nil {
		return nil, fmt.Errorf("label mapping is required for provider %s", config.Provider)
	}

	switch provider {
	case "huggingface", "hf":
		return NewHuggingFaceProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown grammar provider: %s (supported: huggingface, openai, anthropic, ollama)", config.Provider)
	}
}
