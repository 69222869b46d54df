package tagger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ppiankov/vocabcheck/internal/model"
	"github.com/ppiankov/vocabcheck/internal/util"
	"github.com/sashabaranov/go-openai"
)

const tagPrompt = `Tokenize the sentence below and tag every token with its Universal Dependencies part of speech.
Use only these uppercase tags: ADJ, ADP, ADV, AUX, CCONJ, DET, INTJ, NOUN, NUM, PART, PRON, PROPN, PUNCT, SCONJ, SYM, VERB, X.
Keep tokens in sentence order and punctuation as separate tokens.

Respond with a single JSON object and nothing else:
{"tokens": [{"text": "<token>", "pos": "<TAG>"}]}

Sentence: %s`

// OpenAITagger tags sentences with an OpenAI chat model
type OpenAITagger struct {
	client *openai.Client
	config Config
}

// NewOpenAITagger creates a new OpenAI tagger
func NewOpenAITagger(config Config) (*OpenAITagger, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = util.NewHTTPClient(0, config.HTTP)

	return &OpenAITagger{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the backend name
func (t *OpenAITagger) Name() string {
	return "openai"
}

// IsAvailable checks if the API key works
func (t *OpenAITagger) IsAvailable(ctx context.Context) bool {
	_, err := t.client.ListModels(ctx)
	if err != nil {
		slog.Warn("OpenAI API check failed", "error", err)
		return false
	}
	return true
}

// Tag asks the chat model for a token list
func (t *OpenAITagger) Tag(ctx context.Context, sentence string) ([]model.Token, error) {
	modelName := t.config.Model
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	timeout := t.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := t.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(tagPrompt, sentence),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	var out tagResponse
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("unmarshal tokens: %w", err)
	}
	if err := checkTokens(out.Tokens); err != nil {
		return nil, err
	}

	return out.Tokens, nil
}
