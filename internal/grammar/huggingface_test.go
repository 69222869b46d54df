package grammar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHuggingFaceProvider_Classify(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantLabel string
		wantScore float64
	}{
		{
			name:      "batched response",
			body:      `[[{"label": "LABEL_1", "score": 0.94}, {"label": "LABEL_0", "score": 0.06}]]`,
			wantLabel: "LABEL_1",
			wantScore: 0.94,
		},
		{
			name:      "flat response",
			body:      `[{"label": "LABEL_0", "score": 0.81}]`,
			wantLabel: "LABEL_0",
			wantScore: 0.81,
		},
		{
			name:      "top score wins regardless of order",
			body:      `[[{"label": "LABEL_0", "score": 0.3}, {"label": "LABEL_1", "score": 0.7}]]`,
			wantLabel: "LABEL_1",
			wantScore: 0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("Expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/models/textattack/roberta-base-CoLA" {
					t.Errorf("Unexpected path %s", r.URL.Path)
				}
				if r.Header.Get("Authorization") != "Bearer hf-token" {
					t.Errorf("Unexpected Authorization header %q", r.Header.Get("Authorization"))
				}
				var req hfRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("decode request: %v", err)
				}
				if req.Inputs != "She quickly runs to the store." {
					t.Errorf("Unexpected inputs %q", req.Inputs)
				}
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider, err := NewHuggingFaceProvider(Config{
				BaseURL: server.URL + "/",
				APIKey:  "hf-token",
				Labels:  testLabels(t),
			})
			if err != nil {
				t.Fatalf("Failed to create provider: %v", err)
			}

			got, err := provider.Classify(context.Background(), "She quickly runs to the store.")
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if got.Label != tt.wantLabel || got.Score != tt.wantScore {
				t.Errorf("got %+v, want %s/%v", got, tt.wantLabel, tt.wantScore)
			}
		})
	}
}

func TestHuggingFaceProvider_Classify_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		substr string
	}{
		{"model loading", http.StatusServiceUnavailable, `{"error": "Model is currently loading"}`, "Model is currently loading"},
		{"plain error", http.StatusBadGateway, `upstream down`, "upstream down"},
		{"empty labels", http.StatusOK, `[]`, "no labels"},
		{"garbage", http.StatusOK, `{not json`, "unmarshal"},
		{"score out of range", http.StatusOK, `[{"label": "LABEL_1", "score": 1.5}]`, "invalid confidence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider, err := NewHuggingFaceProvider(Config{BaseURL: server.URL, Labels: testLabels(t)})
			if err != nil {
				t.Fatalf("Failed to create provider: %v", err)
			}

			_, err = provider.Classify(context.Background(), "x")
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("Expected error containing %q, got %v", tt.substr, err)
			}
		})
	}
}

func TestHuggingFaceProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/models/custom/model" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider, err := NewHuggingFaceProvider(Config{BaseURL: server.URL, Model: "custom/model"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	other, err := NewHuggingFaceProvider(Config{BaseURL: server.URL, Model: "missing/model"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if other.IsAvailable(context.Background()) {
		t.Error("Expected available to be false for unknown model")
	}
}
