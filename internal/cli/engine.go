package cli

import (
	"context"
	"log/slog"

	"github.com/ppiankov/vocabcheck/internal/feedback"
	"github.com/ppiankov/vocabcheck/internal/metrics"
	"github.com/ppiankov/vocabcheck/internal/model"
)

// buildEngine loads both capabilities once and wraps them in an engine
func buildEngine(ctx context.Context, cfg *model.Config, logger *slog.Logger, m *metrics.Metrics) (*feedback.Engine, *feedback.Capabilities, error) {
	caps, err := feedback.LoadCapabilities(ctx, cfg, logger, m)
	if err != nil {
		return nil, nil, err
	}

	engine := feedback.NewEngine(caps,
		feedback.WithTimeout(cfg.Engine.CapabilityTimeout),
		feedback.WithLogger(logger),
		feedback.WithMetrics(m),
	)
	return engine, caps, nil
}
