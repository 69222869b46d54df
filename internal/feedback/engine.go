// Package feedback combines tagging and grammaticality classification into a
// single deterministic verdict for one (sentence, word, expected POS) triple.
package feedback

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ppiankov/vocabcheck/internal/grammar"
	"github.com/ppiankov/vocabcheck/internal/metrics"
	"github.com/ppiankov/vocabcheck/internal/model"
	"github.com/ppiankov/vocabcheck/internal/render"
	"github.com/ppiankov/vocabcheck/internal/tagger"
)

// Engine evaluates requests against the loaded capabilities.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	tagger     tagger.Tagger
	classifier grammar.Classifier
	labels     *grammar.LabelMap
	timeout    time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures an Engine
type Option func(*Engine)

// WithTimeout bounds every tagger and classifier call. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithLogger sets the logger used for recovered capability errors
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics enables Prometheus instrumentation
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an engine over the given capabilities
func NewEngine(caps *Capabilities, opts ...Option) *Engine {
	e := &Engine{logger: slog.Default()}
	if caps != nil {
		e.tagger = caps.Tagger
		e.classifier = caps.Classifier
		e.labels = caps.Labels
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate produces a Verdict for the request.
//
// A *model.Failure is returned when input is incomplete (no capability is
// called) or when the tagger is unavailable (the classifier is not called).
// Classifier problems never fail the evaluation; they are reported in
// Verdict.Grammar.
func (e *Engine) Evaluate(ctx context.Context, req model.EvaluationRequest) (*model.Verdict, error) {
	start := time.Now()

	verdict, err := e.evaluate(ctx, req)

	outcome := metrics.OutcomeOK
	switch {
	case model.IsFailureKind(err, model.FailureValidation):
		outcome = metrics.OutcomeValidation
	case model.IsFailureKind(err, model.FailureTaggerUnavailable):
		outcome = metrics.OutcomeTaggerUnavailable
	}
	e.metrics.ObserveEvaluation(outcome, time.Since(start))

	return verdict, err
}

func (e *Engine) evaluate(ctx context.Context, req model.EvaluationRequest) (*model.Verdict, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.Normalize()

	if e.tagger == nil {
		e.metrics.CapabilityError(metrics.CapabilityTagger, "unavailable")
		return nil, model.NewFailure(model.FailureTaggerUnavailable, model.MsgTaggerUnavailable)
	}

	tokens, err := e.tag(ctx, req.Sentence)
	if err != nil {
		e.logger.Error("Tagging failed", "tagger", e.tagger.Name(), "error", err)
		e.metrics.CapabilityError(metrics.CapabilityTagger, "error")
		return nil, model.NewFailure(model.FailureTaggerUnavailable, model.MsgTaggerUnavailable)
	}

	verdict := &model.Verdict{
		Sentence:    req.Sentence,
		TargetWord:  req.TargetWord,
		ExpectedPOS: model.NormalizePOS(req.ExpectedPOS),
	}

	if match := model.MatchWord(tokens, req.TargetWord); match.Found {
		verdict.WordFound = true
		verdict.POSFound = match.Token.POS
		verdict.POSCorrect = match.Token.POS != "" && match.Token.POS == verdict.ExpectedPOS
	}

	verdict.Grammar = e.checkGrammar(ctx, req.Sentence)

	return verdict, nil
}

func (e *Engine) tag(ctx context.Context, sentence string) ([]model.Token, error) {
	ctx, cancel := e.bound(ctx)
	defer cancel()
	return e.tagger.Tag(ctx, sentence)
}

// checkGrammar never fails: unavailability and errors become the result's Error
func (e *Engine) checkGrammar(ctx context.Context, sentence string) model.GrammarResult {
	if e.classifier == nil || e.labels == nil {
		e.metrics.CapabilityError(metrics.CapabilityClassifier, "unavailable")
		return model.GrammarFailed(model.MsgGrammarUnavailable)
	}

	ctx, cancel := e.bound(ctx)
	defer cancel()

	result, err := e.classifier.Classify(ctx, sentence)
	if err == nil && result == nil {
		err = errors.New("classifier returned no result")
	}
	if err != nil {
		e.logger.Error("Grammar check error", "classifier", e.classifier.Name(), "error", err)
		e.metrics.CapabilityError(metrics.CapabilityClassifier, "error")
		message := err.Error()
		if message == "" {
			message = model.MsgGrammarFailed
		}
		return model.GrammarFailed(message)
	}

	if !e.labels.Known(result.Label) {
		e.logger.Warn("Unrecognized classifier label", "label", result.Label)
	}

	return model.GrammarClassified(e.labels.IsGrammatical(result.Label), result.Score)
}

func (e *Engine) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.timeout)
}

// Report evaluates the triple and renders the outcome as display text.
// Failures render as their message.
func (e *Engine) Report(ctx context.Context, sentence, targetWord, expectedPOS string) string {
	verdict, err := e.Evaluate(ctx, model.EvaluationRequest{
		Sentence:    sentence,
		TargetWord:  targetWord,
		ExpectedPOS: expectedPOS,
	})
	if err != nil {
		return render.Failure(err)
	}
	return render.Text(verdict)
}
