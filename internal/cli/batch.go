package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/vocabcheck/internal/model"
	"github.com/ppiankov/vocabcheck/internal/render"
	"github.com/ppiankov/vocabcheck/internal/worker"
)

var (
	concurrency  int
	batchTimeout time.Duration
	batchJSON    bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Check many sentences from a file in parallel",
	Long: `Batch evaluates one request per input line concurrently:
- Read tab-separated lines: sentence<TAB>word<TAB>pos ("-" reads stdin)
- Skip blank lines and lines starting with #
- Evaluate lines in parallel with a shared rate limit on the backends
- Print reports in input order

Example:
  vocabcheck batch sentences.tsv
  vocabcheck batch sentences.tsv --concurrency 8 --json > verdicts.jsonl
  cat sentences.tsv | vocabcheck batch -`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: batch.workers)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "print one JSON object per line")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Batch.Workers = concurrency
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	items, err := worker.ReadRequestsFromFile(file)
	if err != nil {
		return fmt.Errorf("read requests: %w", err)
	}

	engine, _, err := buildEngine(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Vocabcheck Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Requests:     %d\n", len(items))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Batch.Workers)
	fmt.Fprintf(os.Stderr, "  Rate limit:   %.1f/s (burst %d)\n", cfg.Batch.RequestsPerSecond, cfg.Batch.Burst)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	limiter := worker.NewLimiter(cfg.Batch.RequestsPerSecond, cfg.Batch.Burst, batchTimeout)
	processor := worker.NewBatchProcessor(engine, cfg.Batch.Workers, limiter)

	results := processor.ProcessItems(ctx, items)

	summary, err := writeBatchResults(cmd.OutOrStdout(), results, batchJSON)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d\n", len(results))
	fmt.Fprintf(os.Stderr, "  Verdicts:  %d\n", summary.verdicts)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", summary.failures)
	fmt.Fprintf(os.Stderr, "\n")

	if summary.failures > 0 {
		return errFailed
	}
	return nil
}

type batchSummary struct {
	verdicts int
	failures int
}

// batchLine is one --json output record
type batchLine struct {
	Line    int                     `json:"line"`
	Request model.EvaluationRequest `json:"request"`
	Report  string                  `json:"report"`
	Verdict *model.Verdict          `json:"verdict,omitempty"`
	Failure *model.Failure          `json:"failure,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

func writeBatchResults(w io.Writer, results []*worker.EvaluateResult, asJSON bool) (batchSummary, error) {
	var summary batchSummary
	enc := json.NewEncoder(w)

	for i, r := range results {
		out := batchLine{Line: r.Line, Request: r.Request, Verdict: r.Verdict}
		if r.Error != nil {
			summary.failures++
			out.Report = render.Failure(r.Error)
			var failure *model.Failure
			if errors.As(r.Error, &failure) {
				out.Failure = failure
			} else {
				out.Error = r.Error.Error()
			}
		} else {
			summary.verdicts++
			out.Report = render.Text(r.Verdict)
		}

		if asJSON {
			if err := enc.Encode(out); err != nil {
				return summary, fmt.Errorf("encode result: %w", err)
			}
			continue
		}

		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return summary, err
			}
		}
		if _, err := fmt.Fprintf(w, "# line %d\n%s\n", r.Line, out.Report); err != nil {
			return summary, err
		}
	}

	return summary, nil
}
