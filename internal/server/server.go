// Package server exposes the feedback engine over HTTP: an HTML form for
// people and a JSON endpoint for programs.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppiankov/vocabcheck/internal/metrics"
	"github.com/ppiankov/vocabcheck/internal/model"
	"github.com/ppiankov/vocabcheck/internal/worker"
)

const shutdownTimeout = 5 * time.Second

// Evaluator defines the interface for evaluating a single request
type Evaluator interface {
	Evaluate(ctx context.Context, req model.EvaluationRequest) (*model.Verdict, error)
}

// Status reports which capabilities loaded at startup
type Status interface {
	TaggerAvailable() bool
	ClassifierAvailable() bool
}

// Options holds the server dependencies
type Options struct {
	Config    model.ServerConfig
	Evaluator Evaluator
	Status    Status
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer // nil disables /metrics
	Logger    *slog.Logger
}

// Server serves the evaluation endpoints
type Server struct {
	cfg       model.ServerConfig
	evaluator Evaluator
	status    Status
	metrics   *metrics.Metrics
	limiter   *worker.Limiter
	logger    *slog.Logger
	router    *gin.Engine
}

// New creates a server and registers its routes
func New(opts Options) (*Server, error) {
	if opts.Evaluator == nil {
		return nil, fmt.Errorf("evaluator is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:       opts.Config,
		evaluator: opts.Evaluator,
		status:    opts.Status,
		metrics:   opts.Metrics,
		limiter:   worker.NewLimiter(opts.Config.RequestsPerSecond, opts.Config.Burst, opts.Config.ClientTTL),
		logger:    logger,
	}

	tmpl, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())
	router.SetHTMLTemplate(tmpl)

	limited := router.Group("/", s.rateLimit())
	router.GET("/", s.handleIndex)
	limited.POST("/", s.handleForm)
	limited.POST("/api/evaluate", s.handleEvaluate)
	router.GET("/healthz", s.handleHealth)

	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	s.router = router
	return s, nil
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("Server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
