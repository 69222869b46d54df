package tagger

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

	"github.com/ppiankov/vocabcheck/internal/model"
	"github.com/ppiankov/vocabcheck/internal/util"
)

// HTTPTagger calls a JSON tagging service such as a spaCy REST wrapper.
//
//	POST {base}/tag   {"text": "..."} -> {"tokens": [{"text": "...", "pos": "NOUN"}]}
//	GET  {base}/health
type HTTPTagger struct {
	baseURL    string
	httpClient *http.Client
}

type tagRequest struct {
	Text string `json:"text"`
}

type tagResponse struct {
	Tokens []model.Token `json:"tokens"`
}

type tagError struct {
	Error string `json:"error"`
}

// DefaultHTTPBaseURL is where a local tagging service listens by default
const DefaultHTTPBaseURL = "http://localhost:5005"

// NewHTTPTagger creates a new HTTP tagger
func NewHTTPTagger(config Config) (*HTTPTagger, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultHTTPBaseURL
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &HTTPTagger{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: util.NewHTTPClient(timeout, config.HTTP),
	}, nil
}

// Name returns the backend name
func (t *HTTPTagger) Name() string {
	return "http"
}

// IsAvailable checks the service health endpoint
func (t *HTTPTagger) IsAvailable(ctx context.Context) bool {
	url := fmt.Sprintf("%s/health", t.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Warn("Tagger availability check failed", "stage", "request", "error", err)
		return false
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		slog.Warn("Tagger availability check failed", "url", t.baseURL, "error", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Tagger availability check failed", "url", t.baseURL, "status", resp.StatusCode)
		return false
	}

	return true
}

// Tag sends the sentence to the tagging service
func (t *HTTPTagger) Tag(ctx context.Context, sentence string) ([]model.Token, error) {
	body, err := json.Marshal(tagRequest{Text: sentence})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/tag", t.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr tagError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("tagger error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("tagger error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp tagResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if err := checkTokens(resp.Tokens); err != nil {
		return nil, err
	}

	return resp.Tokens, nil
}
