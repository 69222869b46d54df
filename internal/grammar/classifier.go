package grammar

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ppiankov/vocabcheck/internal/model"
)

// Classifier defines the interface for grammaticality classifier backends
type Classifier interface {
	// Name returns the provider name
	Name() string

	// Classify returns the top label and its score for a sentence
	Classify(ctx context.Context, sentence string) (*Classification, error)

	// IsAvailable checks if the backend is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// Classification is a single label prediction
type Classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"` // Confidence in [0,1]
}

// Config holds classifier backend configuration
type Config struct {
	// Provider name: "huggingface", "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// MaxTokens for LLM answers
	MaxTokens int

	// Labels maps output labels to grammaticality
	Labels *LabelMap

	// Proxy settings
	HTTP model.HTTPConfig
}

// ConfigFromModel converts the model configuration into a classifier Config
func ConfigFromModel(g model.GrammarConfig, h model.HTTPConfig) (Config, error) {
	labels, err := NewLabelMap(g.Labels)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Provider:  g.Provider,
		Model:     g.Model,
		APIKey:    g.APIKey,
		BaseURL:   g.BaseURL,
		Timeout:   g.Timeout,
		MaxTokens: g.MaxTokens,
		Labels:    labels,
		HTTP:      h,
	}, nil
}

const systemPrompt = "You are a strict English grammar checker. You judge grammatical acceptability only, never style or meaning."

// BuildPrompt asks an LLM to answer with one of the configured labels
func BuildPrompt(sentence string, labels *LabelMap) string {
	return fmt.Sprintf(`Classify the grammatical acceptability of the sentence below.

Respond with a single JSON object and nothing else:
{"label": "<label>", "score": <confidence between 0 and 1>}

Use the label %q if the sentence is grammatically acceptable and %q otherwise.

Sentence: %s`, labels.Grammatical(), labels.Ungrammatical(), sentence)
}

// parseAnswer extracts a Classification from an LLM reply, tolerating code fences and chatter
func parseAnswer(text string) (*Classification, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in answer: %q", truncate(text, 80))
	}

	var c Classification
	if err := json.Unmarshal([]byte(text[start:end+1]), &c); err != nil {
		return nil, fmt.Errorf("unmarshal answer: %w", err)
	}
	if c.Label == "" {
		return nil, fmt.Errorf("answer has no label")
	}
	if err := checkScore(c.Score); err != nil {
		return nil, err
	}

	return &c, nil
}

// checkScore rejects confidences outside [0,1]
func checkScore(score float64) error {
	if math.IsNaN(score) || score < 0 || score > 1 {
		return fmt.Errorf("invalid confidence score: %v", score)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
