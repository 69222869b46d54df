package feedback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ppiankov/vocabcheck/internal/grammar"
	"github.com/ppiankov/vocabcheck/internal/metrics"
	"github.com/ppiankov/vocabcheck/internal/model"
	"github.com/ppiankov/vocabcheck/internal/tagger"
)

// Capabilities is the outcome of loading the tagger and classifier.
// It is computed once at process start and never changes afterwards:
// a nil Tagger or Classifier means that capability is unavailable for the
// lifetime of the process.
type Capabilities struct {
	Tagger     tagger.Tagger
	Classifier grammar.Classifier
	Labels     *grammar.LabelMap
}

// TaggerAvailable reports whether a tagger was loaded
func (c *Capabilities) TaggerAvailable() bool {
	return c != nil && c.Tagger != nil
}

// ClassifierAvailable reports whether a classifier was loaded
func (c *Capabilities) ClassifierAvailable() bool {
	return c != nil && c.Classifier != nil && c.Labels != nil
}

// LoadCapabilities builds both capabilities from configuration. Backend
// construction or probe failures are logged and leave the capability
// unavailable; only an invalid label mapping is returned as an error.
func LoadCapabilities(ctx context.Context, cfg *model.Config, logger *slog.Logger, m *metrics.Metrics) (*Capabilities, error) {
	if logger == nil {
		logger = slog.Default()
	}

	grammarCfg, err := grammar.ConfigFromModel(cfg.Grammar, cfg.HTTP)
	if err != nil {
		return nil, fmt.Errorf("grammar labels: %w", err)
	}

	caps := &Capabilities{Labels: grammarCfg.Labels}
	caps.Tagger = loadTagger(ctx, cfg, logger)
	caps.Classifier = loadClassifier(ctx, cfg, grammarCfg, logger)

	m.SetCapabilityUp(metrics.CapabilityTagger, caps.TaggerAvailable())
	m.SetCapabilityUp(metrics.CapabilityClassifier, caps.ClassifierAvailable())

	return caps, nil
}

func loadTagger(ctx context.Context, cfg *model.Config, logger *slog.Logger) tagger.Tagger {
	if cfg.Tagger.Provider == "" {
		logger.Warn("No tagger configured; evaluations will fail")
		return nil
	}

	t, err := tagger.NewTagger(tagger.ConfigFromModel(cfg.Tagger, cfg.HTTP))
	if err != nil {
		logger.Error("Error loading tagger", "provider", cfg.Tagger.Provider, "error", err)
		return nil
	}

	if cfg.Tagger.ProbeOnStart && !t.IsAvailable(ctx) {
		logger.Error("Error loading tagger", "provider", t.Name(), "error", "availability probe failed")
		return nil
	}

	logger.Info("Tagger loaded successfully", "provider", t.Name())
	return t
}

func loadClassifier(ctx context.Context, cfg *model.Config, grammarCfg grammar.Config, logger *slog.Logger) grammar.Classifier {
	if cfg.Grammar.Provider == "" {
		logger.Warn("No grammar classifier configured; grammar checks will be skipped")
		return nil
	}

	c, err := grammar.NewClassifier(grammarCfg)
	if err != nil {
		logger.Error("Error loading grammar classifier", "provider", cfg.Grammar.Provider, "error", err)
		return nil
	}

	if cfg.Grammar.ProbeOnStart && !c.IsAvailable(ctx) {
		logger.Error("Error loading grammar classifier", "provider", c.Name(), "error", "availability probe failed")
		return nil
	}

	logger.Info("Grammar classifier loaded successfully", "provider", c.Name(), "model", cfg.Grammar.Model)
	return c
}
