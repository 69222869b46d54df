package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/vocabcheck/internal/model"
	"github.com/ppiankov/vocabcheck/internal/render"
)

var checkJSON bool

// errFailed signals a non-zero exit after the report was already printed
var errFailed = errors.New("evaluation failed")

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <sentence> <word> <pos>",
	Short: "Check how a word is used in one sentence",
	Long: `Check tags the sentence, looks for the target word, compares its part of
speech with the expected tag and asks the grammar classifier whether the
sentence is grammatical.

Example:
  vocabcheck check "She quickly runs to the store." runs VERB
  vocabcheck check "The dog barks." barks verb --json
  vocabcheck check "Him go store." go VERB --grammar openai`,
	Args: cobra.ExactArgs(3),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the structured verdict as JSON")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	ctx := context.Background()

	engine, _, err := buildEngine(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}

	req := model.EvaluationRequest{
		Sentence:    args[0],
		TargetWord:  args[1],
		ExpectedPOS: args[2],
	}

	verdict, evalErr := engine.Evaluate(ctx, req)
	if err := writeCheckResult(cmd.OutOrStdout(), verdict, evalErr, checkJSON); err != nil {
		return err
	}
	if evalErr != nil {
		return errFailed
	}
	return nil
}

// checkOutput is the --json document: either a verdict or a failure
type checkOutput struct {
	Report  string         `json:"report"`
	Verdict *model.Verdict `json:"verdict,omitempty"`
	Failure *model.Failure `json:"failure,omitempty"`
}

func writeCheckResult(w io.Writer, verdict *model.Verdict, evalErr error, asJSON bool) error {
	if !asJSON {
		var report string
		if evalErr != nil {
			report = render.Failure(evalErr)
		} else {
			report = render.Text(verdict)
		}
		_, err := fmt.Fprintln(w, report)
		return err
	}

	out := checkOutput{Verdict: verdict}
	if evalErr != nil {
		out.Report = render.Failure(evalErr)
		var failure *model.Failure
		if errors.As(evalErr, &failure) {
			out.Failure = failure
		}
	} else {
		out.Report = render.Text(verdict)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode verdict: %w", err)
	}
	return nil
}

// exitCode maps command errors to process exit codes
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFailed):
		return 2
	default:
		return 1
	}
}

// ExitCode returns the process exit code for an error from Execute and
// prints it unless the report already explained the failure
func ExitCode(err error) int {
	if err != nil && !errors.Is(err, errFailed) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}
