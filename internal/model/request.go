package model

import "strings"

// EvaluationRequest is the user input for a single vocabulary check
type EvaluationRequest struct {
	Sentence    string `json:"sentence"`     // Sentence to analyze
	TargetWord  string `json:"target_word"`  // Vocabulary word expected in the sentence
	ExpectedPOS string `json:"expected_pos"` // Expected part-of-speech tag (e.g., "VERB")
}

// Normalize returns a copy with surrounding whitespace removed from every field
func (r EvaluationRequest) Normalize() EvaluationRequest {
	return EvaluationRequest{
		Sentence:    strings.TrimSpace(r.Sentence),
		TargetWord:  strings.TrimSpace(r.TargetWord),
		ExpectedPOS: strings.TrimSpace(r.ExpectedPOS),
	}
}

// Validate reports a validation failure if any field is empty after trimming
func (r EvaluationRequest) Validate() error {
	n := r.Normalize()
	if n.Sentence == "" || n.TargetWord == "" || n.ExpectedPOS == "" {
		return NewFailure(FailureValidation, MsgMissingField)
	}
	return nil
}
