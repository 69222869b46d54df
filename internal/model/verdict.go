package model

import (
	"errors"
	"strings"
)

// Fixed user-facing messages
const (
	MsgMissingField       = "Please fill in all fields."
	MsgTaggerUnavailable  = "Error: NLP model unavailable."
	MsgGrammarUnavailable = "Grammar checker unavailable"
	MsgGrammarFailed      = "Grammar check failed" // Classifier error without a message
)

// Verdict is the structured result of one evaluation, prior to rendering
type Verdict struct {
	Sentence    string        `json:"sentence"`
	TargetWord  string        `json:"target_word"`
	ExpectedPOS string        `json:"expected_pos"`        // Upper-cased expected tag
	WordFound   bool          `json:"word_found"`
	POSFound    string        `json:"pos_found,omitempty"` // Tag of the matched token (empty if not found)
	POSCorrect  bool          `json:"pos_correct"`
	Grammar     GrammarResult `json:"grammar"`
}

// GrammarResult holds either a classification or an error message, never both
type GrammarResult struct {
	IsGrammatical *bool    `json:"is_grammatical,omitempty"`
	Confidence    *float64 `json:"confidence,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// GrammarClassified builds a result for a successful classification
func GrammarClassified(grammatical bool, confidence float64) GrammarResult {
	return GrammarResult{
		IsGrammatical: &grammatical,
		Confidence:    &confidence,
	}
}

// GrammarFailed builds a result for an unavailable or failing classifier
func GrammarFailed(message string) GrammarResult {
	return GrammarResult{Error: message}
}

// HasError reports whether the grammar check failed
func (g GrammarResult) HasError() bool {
	return g.Error != ""
}

// FailureKind classifies a failed evaluation
type FailureKind string

const (
	FailureValidation        FailureKind = "validation"         // Incomplete user input
	FailureTaggerUnavailable FailureKind = "tagger_unavailable" // Tagger could not analyze the sentence
)

// Failure is an evaluation that ended without a Verdict.
// Its message is shown to the user verbatim.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// NewFailure creates a new Failure
func NewFailure(kind FailureKind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

func (f *Failure) Error() string {
	return f.Message
}

// IsFailureKind reports whether err is a Failure of the given kind
func IsFailureKind(err error, kind FailureKind) bool {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind == kind
	}
	return false
}

// NormalizePOS upper-cases an expected POS tag for comparison with tagger output
func NormalizePOS(pos string) string {
	return strings.ToUpper(strings.TrimSpace(pos))
}
