// Package render formats verdicts into fixed-structure, human-readable reports.
// Rendering is pure: the same Verdict always renders to the same output.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/vocabcheck/internal/model"
)

// line is one report line; label is emphasized in HTML output
type line struct {
	label string
	text  string
}

func (l line) String() string {
	if l.label == "" {
		return l.text
	}
	return l.label + " " + l.text
}

// lines builds the report lines in their fixed order
func lines(v *model.Verdict) []line {
	out := []line{
		{label: "Sentence:", text: quote(v.Sentence)},
		{label: "Target word:", text: quote(v.TargetWord)},
	}

	if v.WordFound {
		out = append(out, line{text: "Word found: Yes"})
		out = append(out, line{text: "Part of speech: " + v.POSFound})
		if v.POSCorrect {
			out = append(out, line{text: "POS usage: Correct"})
		} else {
			out = append(out, line{text: fmt.Sprintf("POS usage: Incorrect (found: %s)", v.POSFound)})
		}
	} else {
		out = append(out, line{text: "Word found: No"})
	}

	out = append(out, line{text: grammarLine(v.Grammar)})
	return out
}

func grammarLine(g model.GrammarResult) string {
	if g.HasError() {
		return "Grammar check: " + g.Error
	}

	verdict := "Incorrect"
	if g.IsGrammatical != nil && *g.IsGrammatical {
		verdict = "Correct"
	}
	confidence := 0.0
	if g.Confidence != nil {
		confidence = *g.Confidence
	}
	return fmt.Sprintf("Grammar: %s (confidence: %.2f)", verdict, confidence)
}

func quote(s string) string {
	return "'" + s + "'"
}

// Text renders a verdict as newline-separated plain text
func Text(v *model.Verdict) string {
	ls := lines(v)
	parts := make([]string, len(ls))
	for i, l := range ls {
		parts[i] = l.String()
	}
	return strings.Join(parts, "\n")
}

// Failure renders a failed evaluation: the failure message verbatim
func Failure(err error) string {
	var f *model.Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return err.Error()
}
