package grammar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/vocabcheck/internal/util"
)

// HuggingFaceProvider calls a text-classification inference endpoint,
// e.g. a sequence classifier fine-tuned on CoLA
type HuggingFaceProvider struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

type hfRequest struct {
	Inputs string `json:"inputs"`
}

type hfLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type hfError struct {
	Error string `json:"error"`
}

// Hugging Face defaults: the hosted inference API and a CoLA acceptability model
const (
	DefaultHuggingFaceBaseURL = "https://api-inference.huggingface.co"
	DefaultHuggingFaceModel   = "textattack/roberta-base-CoLA"
)

// NewHuggingFaceProvider creates a new Hugging Face inference provider
func NewHuggingFaceProvider(config Config) (*HuggingFaceProvider, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultHuggingFaceBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultHuggingFaceModel
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HuggingFaceProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: util.NewHTTPClient(timeout, config.HTTP),
		config:     config,
	}, nil
}

// Name returns the provider name
func (p *HuggingFaceProvider) Name() string {
	return "huggingface"
}

// IsAvailable checks that the model endpoint answers
func (p *HuggingFaceProvider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.modelURL(), nil)
	if err != nil {
		slog.Warn("Hugging Face availability check failed", "stage", "request", "error", err)
		return false
	}
	p.setAuth(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		slog.Warn("Hugging Face availability check failed", "url", p.baseURL, "error", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Hugging Face availability check failed", "url", p.baseURL, "status", resp.StatusCode)
		return false
	}

	return true
}

// Classify returns the highest scoring label for the sentence
func (p *HuggingFaceProvider) Classify(ctx context.Context, sentence string) (*Classification, error) {
	body, err := json.Marshal(hfRequest{Inputs: sentence})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.modelURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	p.setAuth(httpReq)

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr hfError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	labels, err := decodeLabels(respBody)
	if err != nil {
		return nil, err
	}

	best := labels[0]
	for _, l := range labels[1:] {
		if l.Score > best.Score {
			best = l
		}
	}
	if err := checkScore(best.Score); err != nil {
		return nil, err
	}

	return &Classification{Label: best.Label, Score: best.Score}, nil
}

// decodeLabels accepts both the batched ([[...]]) and flat ([...]) response shapes
func decodeLabels(body []byte) ([]hfLabel, error) {
	var nested [][]hfLabel
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], nil
	}

	var flat []hfLabel
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(flat) == 0 {
		return nil, fmt.Errorf("no labels in response")
	}
	return flat, nil
}

func (p *HuggingFaceProvider) modelURL() string {
	return fmt.Sprintf("%s/models/%s", p.baseURL, p.config.Model)
}

func (p *HuggingFaceProvider) setAuth(req *http.Request) {
	if p.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	}
}
