package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/vocabcheck/internal/model"
)

// Evaluator defines the interface for evaluating a single request
type Evaluator interface {
	Evaluate(ctx context.Context, req model.EvaluationRequest) (*model.Verdict, error)
}

// limiterKey is shared by every batch job: the batch throttles calls into the
// capabilities as a whole, not per input line.
const limiterKey = "batch"

// BatchItem is one input line
type BatchItem struct {
	Line    int
	Request model.EvaluationRequest
}

// EvaluateJob represents one evaluation in a batch
type EvaluateJob struct {
	Index     int
	Item      BatchItem
	Evaluator Evaluator
	Limiter   *Limiter
}

// Execute executes the evaluation job
func (j *EvaluateJob) Execute(ctx context.Context) Result {
	result := &EvaluateResult{Index: j.Index, Line: j.Item.Line, Request: j.Item.Request}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, limiterKey); err != nil {
			result.Error = fmt.Errorf("rate limit: %w", err)
			return result
		}
	}

	result.Verdict, result.Error = j.Evaluator.Evaluate(ctx, j.Item.Request)
	return result
}

// EvaluateResult represents the result of an evaluation job
type EvaluateResult struct {
	Index   int
	Line    int
	Request model.EvaluationRequest
	Verdict *model.Verdict
	Error   error
}

// GetIndex returns the submission position
func (r *EvaluateResult) GetIndex() int {
	return r.Index
}

// GetError returns the error from the evaluation
func (r *EvaluateResult) GetError() error {
	return r.Error
}

// BatchProcessor evaluates many requests concurrently
type BatchProcessor struct {
	evaluator   Evaluator
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a new batch processor. limiter may be nil.
func NewBatchProcessor(evaluator Evaluator, concurrency int, limiter *Limiter) *BatchProcessor {
	return &BatchProcessor{
		evaluator:   evaluator,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessItems evaluates every item and returns one result per item in input order
func (b *BatchProcessor) ProcessItems(ctx context.Context, items []BatchItem) []*EvaluateResult {
	if len(items) == 0 {
		return []*EvaluateResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, item := range items {
		job := &EvaluateJob{
			Index:     i,
			Item:      item,
			Evaluator: b.evaluator,
			Limiter:   b.limiter,
		}
		if !pool.Submit(job) {
			break
		}
	}

	results := pool.Wait()

	out := make([]*EvaluateResult, len(items))
	for _, r := range results {
		er := r.(*EvaluateResult)
		out[er.Index] = er
	}

	// Jobs never submitted or dropped on cancellation
	for i, item := range items {
		if out[i] == nil {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("not evaluated")
			}
			out[i] = &EvaluateResult{Index: i, Line: item.Line, Request: item.Request, Error: err}
		}
	}

	return out
}

// ProcessFile reads requests from a file and evaluates them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*EvaluateResult, error) {
	items, err := ReadRequestsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read requests: %w", err)
	}

	return b.ProcessItems(ctx, items), nil
}

// ReadRequestsFromFile reads tab-separated requests from a file, or from
// stdin when filePath is "-"
func ReadRequestsFromFile(filePath string) ([]BatchItem, error) {
	if filePath == "-" {
		return ReadRequests(os.Stdin)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadRequests(file)
}

// ReadRequests parses "sentence<TAB>word<TAB>pos" lines.
// Blank lines and lines starting with # are skipped. Missing columns are
// left empty so the evaluation reports them as incomplete input.
func ReadRequests(r io.Reader) ([]BatchItem, error) {
	var items []BatchItem

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		fields := strings.SplitN(line, "\t", 3)
		for len(fields) < 3 {
			fields = append(fields, "")
		}

		items = append(items, BatchItem{
			Line: lineNo,
			Request: model.EvaluationRequest{
				Sentence:    fields[0],
				TargetWord:  fields[1],
				ExpectedPOS: fields[2],
			},
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return items, nil
}
