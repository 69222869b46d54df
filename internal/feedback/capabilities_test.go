package feedback

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ppiankov/vocabcheck/internal/metrics"
	"github.com/ppiankov/vocabcheck/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadCapabilities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := model.DefaultConfig()
	cfg.Tagger.BaseURL = server.URL
	cfg.Grammar.BaseURL = server.URL

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	caps, err := LoadCapabilities(context.Background(), cfg, discardLogger(), m)
	if err != nil {
		t.Fatalf("LoadCapabilities: %v", err)
	}
	if !caps.TaggerAvailable() || !caps.ClassifierAvailable() {
		t.Errorf("expected both capabilities, got tagger=%v classifier=%v", caps.TaggerAvailable(), caps.ClassifierAvailable())
	}
	if caps.Tagger.Name() != "http" || caps.Classifier.Name() != "huggingface" {
		t.Errorf("unexpected backends %s / %s", caps.Tagger.Name(), caps.Classifier.Name())
	}
	if got := testutil.ToFloat64(m.CapabilityUp.WithLabelValues(metrics.CapabilityTagger)); got != 1 {
		t.Errorf("tagger up = %v", got)
	}
}

func TestLoadCapabilities_ProbeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := model.DefaultConfig()
	cfg.Tagger.BaseURL = server.URL
	cfg.Grammar.BaseURL = server.URL

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	caps, err := LoadCapabilities(context.Background(), cfg, discardLogger(), m)
	if err != nil {
		t.Fatalf("LoadCapabilities: %v", err)
	}
	if caps.TaggerAvailable() || caps.ClassifierAvailable() {
		t.Error("failed probes must leave capabilities unavailable")
	}
	if got := testutil.ToFloat64(m.CapabilityUp.WithLabelValues(metrics.CapabilityTagger)); got != 0 {
		t.Errorf("tagger up = %v", got)
	}
	if got := testutil.ToFloat64(m.CapabilityUp.WithLabelValues(metrics.CapabilityClassifier)); got != 0 {
		t.Errorf("classifier up = %v", got)
	}
}

func TestLoadCapabilities_NoProbe(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Tagger.BaseURL = "http://127.0.0.1:1"
	cfg.Tagger.ProbeOnStart = false
	cfg.Grammar.Provider = ""

	caps, err := LoadCapabilities(context.Background(), cfg, discardLogger(), nil)
	if err != nil {
		t.Fatalf("LoadCapabilities: %v", err)
	}
	if !caps.TaggerAvailable() {
		t.Error("tagger should load without probing")
	}
	if caps.ClassifierAvailable() {
		t.Error("no grammar provider means no classifier")
	}
}

func TestLoadCapabilities_ConstructionError(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Tagger.Provider = "openai"
	cfg.Tagger.APIKey = ""
	cfg.Grammar.Provider = "anthropic"
	cfg.Grammar.APIKey = ""

	caps, err := LoadCapabilities(context.Background(), cfg, discardLogger(), nil)
	if err != nil {
		t.Fatalf("LoadCapabilities: %v", err)
	}
	if caps.TaggerAvailable() || caps.ClassifierAvailable() {
		t.Error("backends without credentials must be unavailable")
	}
}

func TestLoadCapabilities_InvalidLabels(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Grammar.Labels = []model.LabelConfig{{Name: "A", Grammatical: true}, {Name: "B", Grammatical: true}}

	if _, err := LoadCapabilities(context.Background(), cfg, discardLogger(), nil); err == nil {
		t.Error("expected error for invalid label mapping")
	}
}
