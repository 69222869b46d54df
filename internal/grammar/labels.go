package grammar

import (
	"fmt"

	"github.com/ppiankov/vocabcheck/internal/model"
)

// LabelMap is the fixed two-way lookup from classifier labels to grammaticality.
// It is immutable after construction.
type LabelMap struct {
	grammatical   string
	ungrammatical string
	labels        map[string]bool
}

// NewLabelMap builds a label map. Exactly one label must be grammatical and
// at least one must not be.
func NewLabelMap(entries []model.LabelConfig) (*LabelMap, error) {
	m := &LabelMap{labels: make(map[string]bool, len(entries))}

	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("label name is required")
		}
		if _, dup := m.labels[e.Name]; dup {
			return nil, fmt.Errorf("duplicate label: %s", e.Name)
		}
		m.labels[e.Name] = e.Grammatical

		if e.Grammatical {
			if m.grammatical != "" {
				return nil, fmt.Errorf("more than one grammatical label: %s, %s", m.grammatical, e.Name)
			}
			m.grammatical = e.Name
		} else if m.ungrammatical == "" {
			m.ungrammatical = e.Name
		}
	}

	if m.grammatical == "" {
		return nil, fmt.Errorf("no grammatical label configured")
	}
	if m.ungrammatical == "" {
		return nil, fmt.Errorf("no ungrammatical label configured")
	}

	return m, nil
}

// IsGrammatical maps a label to grammaticality; unrecognized labels are ungrammatical
func (m *LabelMap) IsGrammatical(label string) bool {
	return m.labels[label]
}

// Known reports whether the label is part of the mapping
func (m *LabelMap) Known(label string) bool {
	_, ok := m.labels[label]
	return ok
}

// Grammatical returns the label that means "grammatical"
func (m *LabelMap) Grammatical() string {
	return m.grammatical
}

// Ungrammatical returns the first label that means "ungrammatical"
func (m *LabelMap) Ungrammatical() string {
	return m.ungrammatical
}
