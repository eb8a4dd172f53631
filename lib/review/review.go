// Package review defines the wire types shared by the classifier and the
// application layers: the two-value tone label, the "label|id|text" record
// format and the prediction result.
package review

import (
	"fmt"
	"strings"
)

// Label is a review tone label. The set is closed: "1" for negative reviews
// and "5" for positive ones.
type Label string

// enum of known labels
const (
	Negative Label = "1"
	Positive Label = "5"
)

// Labels returns all known labels in canonical order, negative first.
// The order matters: classification ties resolve to the earlier label.
func Labels() []Label { return []Label{Negative, Positive} }

// String implements Stringer interface
func (l Label) String() string { return string(l) }

// Tone returns the human name of the label, "negative" or "positive".
func (l Label) Tone() string {
	if l == Positive {
		return "positive"
	}
	return "negative"
}

// Validate checks if the label is one of the known values
func (l Label) Validate() error {
	switch l {
	case Negative, Positive:
		return nil
	}
	return fmt.Errorf("invalid label: %q", string(l))
}

// Record is a single sample in the "label|id|text" line form.
// ID is carried through for traceability but has no effect on training
// or classification.
type Record struct {
	Label Label  `json:"label"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

func (r *Record) String() string {
	return fmt.Sprintf("label:%s, id:%s, text:%q", r.Label, r.ID, r.Text)
}

// Line renders the record back to its line form, the exact input
// ParseRecord accepts.
func (r *Record) Line() string {
	return fmt.Sprintf("%s|%s|%s", r.Label, r.ID, r.Text)
}

// ParseRecord parses a training line. Returns ok=false for blank lines,
// lines without all three pipe-separated fields and lines with an unknown
// label. Extra '|' characters stay inside the text field.
func ParseRecord(line string) (rec Record, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Record{}, false
	}
	parts := strings.SplitN(trimmed, "|", 3)
	if len(parts) != 3 {
		return Record{}, false
	}
	rec = Record{Label: Label(parts[0]), ID: parts[1], Text: parts[2]}
	if err := rec.Label.Validate(); err != nil {
		return Record{}, false
	}
	return rec, true
}

// Text extracts the text part of a line for classification. Unlike
// ParseRecord it never rejects the input: anything that doesn't split into
// the full three-field record is treated as a record with empty text, so
// callers always produce exactly one result per input line.
func Text(line string) string {
	parts := strings.SplitN(strings.TrimSpace(line), "|", 3)
	if len(parts) != 3 {
		return ""
	}
	return parts[2]
}

// Prediction is a result of classifying a single text.
type Prediction struct {
	Label       Label   `json:"label"`             // winning label
	Probability float64 `json:"probability"`       // softmax certainty of the winning label, 0 for an untrained model
	Details     string  `json:"details,omitempty"` // raw per-label log scores, human readable
}

func (p *Prediction) String() string {
	return fmt.Sprintf("%s: %0.2f%%, %s", p.Label.Tone(), p.Probability*100, p.Details)
}

// PredictionsToString converts a slice of predictions to a string
func PredictionsToString(preds []Prediction) string {
	elems := []string{}
	for _, p := range preds {
		elems = append(elems, "{"+p.String()+"}")
	}
	return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
}
