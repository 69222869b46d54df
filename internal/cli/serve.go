package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/ppiankov/vocabcheck/internal/metrics"
	"github.com/ppiankov/vocabcheck/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the vocabulary checker over HTTP",
	Long: `Serve starts an HTTP server with:
- GET  /              HTML form
- POST /              form submission, renders the report in the page
- POST /api/evaluate  JSON API ({"sentence", "target_word", "expected_pos"})
- GET  /healthz       capability status
- GET  /metrics       Prometheus metrics

Example:
  vocabcheck serve
  vocabcheck serve --addr :8080 --grammar openai`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	engine, caps, err := buildEngine(ctx, cfg, logger, m)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{
		Config:    cfg.Server,
		Evaluator: engine,
		Status:    caps,
		Metrics:   m,
		Gatherer:  reg,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}
