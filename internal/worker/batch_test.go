package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/vocabcheck/internal/model"
)

// mockEvaluator fails requests whose word is "fail" and validates input
type mockEvaluator struct {
	calls atomic.Int32
}

func (m *mockEvaluator) Evaluate(ctx context.Context, req model.EvaluationRequest) (*model.Verdict, error) {
	m.calls.Add(1)
	time.Sleep(time.Millisecond)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.TargetWord == "fail" {
		return nil, errors.New("evaluation error")
	}
	return &model.Verdict{
		Sentence:    req.Sentence,
		TargetWord:  req.TargetWord,
		ExpectedPOS: model.NormalizePOS(req.ExpectedPOS),
		WordFound:   true,
	}, nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "requests.tsv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestBatchProcessor_ProcessItems(t *testing.T) {
	evaluator := &mockEvaluator{}
	processor := NewBatchProcessor(evaluator, 3, nil)

	var items []BatchItem
	for i, word := range []string{"runs", "fail", "jumps", "", "sleeps"} {
		items = append(items, BatchItem{
			Line:    i + 1,
			Request: model.EvaluationRequest{Sentence: "The dog " + word + ".", TargetWord: word, ExpectedPOS: "VERB"},
		})
	}

	results := processor.ProcessItems(context.Background(), items)

	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}
	for i, r := range results {
		if r.Index != i || r.Line != items[i].Line {
			t.Errorf("result %d out of order: index=%d line=%d", i, r.Index, r.Line)
		}
	}
	if results[0].Error != nil || results[0].Verdict == nil {
		t.Errorf("expected success for line 1, got %v", results[0].Error)
	}
	if results[1].Error == nil {
		t.Error("expected error for line 2")
	}
	if !model.IsFailureKind(results[3].Error, model.FailureValidation) {
		t.Errorf("expected validation failure for line 4, got %v", results[3].Error)
	}
	if evaluator.calls.Load() != int32(len(items)) {
		t.Errorf("expected %d evaluations, got %d", len(items), evaluator.calls.Load())
	}
}

func TestBatchProcessor_ProcessItems_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockEvaluator{}, 2, nil)

	results := processor.ProcessItems(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessItems_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewBatchProcessor(&mockEvaluator{}, 1, nil)
	items := []BatchItem{
		{Line: 1, Request: model.EvaluationRequest{Sentence: "a", TargetWord: "a", ExpectedPOS: "X"}},
		{Line: 2, Request: model.EvaluationRequest{Sentence: "b", TargetWord: "b", ExpectedPOS: "X"}},
	}

	results := processor.ProcessItems(ctx, items)
	if len(results) != 2 {
		t.Fatalf("expected a result per item, got %d", len(results))
	}
	for _, r := range results {
		if r == nil {
			t.Fatal("nil result")
		}
	}
}

func TestBatchProcessor_RateLimited(t *testing.T) {
	limiter := NewLimiter(50, 1, time.Minute)
	processor := NewBatchProcessor(&mockEvaluator{}, 4, limiter)

	var items []BatchItem
	for i := 0; i < 5; i++ {
		items = append(items, BatchItem{Line: i + 1, Request: model.EvaluationRequest{Sentence: "a b", TargetWord: "a", ExpectedPOS: "X"}})
	}

	start := time.Now()
	results := processor.ProcessItems(context.Background(), items)
	elapsed := time.Since(start)

	for _, r := range results {
		if r.Error != nil {
			t.Errorf("line %d: %v", r.Line, r.Error)
		}
	}
	// burst 1 at 50/s: four waits of ~20ms
	if elapsed < 60*time.Millisecond {
		t.Errorf("expected rate limiting to slow the batch, took %v", elapsed)
	}
}

func TestReadRequests(t *testing.T) {
	input := strings.Join([]string{
		"# sentence\tword\tpos",
		"She quickly runs to the store.\truns\tVERB",
		"",
		"   ",
		"The cat sleeps.\tsleeps",
		"Dogs bark.\tbark\tverb\textra",
		"Windows line.\tline\tNOUN\r",
	}, "\n")

	items, err := ReadRequests(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadRequests: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}

	first := items[0]
	if first.Line != 2 || first.Request.Sentence != "She quickly runs to the store." ||
		first.Request.TargetWord != "runs" || first.Request.ExpectedPOS != "VERB" {
		t.Errorf("unexpected first item: %+v", first)
	}

	if items[1].Line != 5 || items[1].Request.ExpectedPOS != "" {
		t.Errorf("missing column should be empty: %+v", items[1])
	}
	if items[1].Request.Validate() == nil {
		t.Error("missing column should fail validation")
	}

	if items[2].Request.ExpectedPOS != "verb\textra" {
		t.Errorf("extra columns stay in the last field: %q", items[2].Request.ExpectedPOS)
	}

	if items[3].Request.ExpectedPOS != "NOUN" {
		t.Errorf("carriage return not stripped: %q", items[3].Request.ExpectedPOS)
	}
}

func TestReadRequestsFromFile(t *testing.T) {
	path := writeFile(t, "The dog runs.\truns\tVERB\n")

	items, err := ReadRequestsFromFile(path)
	if err != nil {
		t.Fatalf("ReadRequestsFromFile: %v", err)
	}
	if len(items) != 1 || items[0].Request.TargetWord != "runs" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestReadRequestsFromFile_NonExistent(t *testing.T) {
	if _, err := ReadRequestsFromFile("/non/existent/file.tsv"); err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeFile(t, "# header\nThe dog runs.\truns\tVERB\nThe dog runs.\tfail\tVERB\n")

	processor := NewBatchProcessor(&mockEvaluator{}, 2, nil)
	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Line != 2 || results[1].Line != 3 {
		t.Errorf("unexpected lines: %d, %d", results[0].Line, results[1].Line)
	}
	if results[0].GetError() != nil || results[1].GetError() == nil {
		t.Errorf("unexpected errors: %v, %v", results[0].GetError(), results[1].GetError())
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&mockEvaluator{}, 2, nil)
	if _, err := processor.ProcessFile(context.Background(), "/non/existent"); err == nil {
		t.Error("expected error for non-existent file")
	}
}
