package rater

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/forPelevin/gomoji"

	"github.com/umputun/rev-tone/lib/review"
	"github.com/umputun/rev-tone/lib/revtone"
)

// EvalResult is an aggregate of an evaluation run over labeled lines.
type EvalResult struct {
	Total     int       // lines seen, including skipped ones
	Skipped   int       // blank, malformed or unknown-label lines
	Correct   int       // graded lines where the prediction matched
	Accuracy  float64   // Correct over graded lines, 0 with nothing graded
	Confusion [2][2]int // actual x predicted, canonical label order
}

// Precision is the share of correct calls among all predictions of the label.
func (r EvalResult) Precision(label review.Label) float64 {
	i := labelIndex(label)
	predicted := r.Confusion[0][i] + r.Confusion[1][i]
	if predicted == 0 {
		return 0
	}
	return float64(r.Confusion[i][i]) / float64(predicted)
}

// Recall is the share of correctly predicted lines among all lines of the label.
func (r EvalResult) Recall(label review.Label) float64 {
	i := labelIndex(label)
	actual := r.Confusion[i][0] + r.Confusion[i][1]
	if actual == 0 {
		return 0
	}
	return float64(r.Confusion[i][i]) / float64(actual)
}

// String provides a short report of the evaluation run.
func (r EvalResult) String() string {
	return fmt.Sprintf("evaluated %d lines (%d skipped): accuracy %.2f%%, "+
		"negative precision %.2f%% recall %.2f%%, positive precision %.2f%% recall %.2f%%",
		r.Total, r.Skipped, r.Accuracy*100,
		r.Precision(review.Negative)*100, r.Recall(review.Negative)*100,
		r.Precision(review.Positive)*100, r.Recall(review.Positive)*100)
}

// Evaluate runs labeled "label|id|text" lines through the trained engine and
// aggregates the hit rate. Lines that don't parse are counted as skipped and
// never interrupt the run.
func (s *Rater) Evaluate(ctx context.Context, reader io.Reader) (EvalResult, error) {
	res := EvalResult{}
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("evaluation interrupted: %w", err)
		}
		res.Total++
		rec, ok := review.ParseRecord(scanner.Text())
		if !ok {
			res.Skipped++
			continue
		}
		pred := s.Predict(rec.Text)
		res.Confusion[labelIndex(rec.Label)][labelIndex(pred.Label)]++
		if pred.Label == rec.Label {
			res.Correct++
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("failed to read evaluation input: %w", err)
	}
	if graded := res.Total - res.Skipped; graded > 0 {
		res.Accuracy = float64(res.Correct) / float64(graded)
	}
	return res, nil
}

// DatasetStats is an aggregate of a labeled dataset scan.
type DatasetStats struct {
	Total     int // lines seen, including skipped ones
	Skipped   int // blank, malformed or unknown-label lines
	Negative  int // negative docs
	Positive  int // positive docs
	Tokens    int // tokens surviving the stopword and stemming pipeline
	Distinct  int // distinct tokens
	EmojiDocs int // docs carrying at least one emoji
}

// String provides a short report of the dataset scan.
func (d DatasetStats) String() string {
	return fmt.Sprintf("%d lines (%d skipped): negative %d, positive %d, tokens %d (%d distinct), docs with emoji %d",
		d.Total, d.Skipped, d.Negative, d.Positive, d.Tokens, d.Distinct, d.EmojiDocs)
}

// DatasetStats scans labeled "label|id|text" lines and aggregates dataset
// counters. The model is not involved and not changed.
func (s *Rater) DatasetStats(reader io.Reader) (DatasetStats, error) {
	res := DatasetStats{}
	distinct := map[string]struct{}{}
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		res.Total++
		rec, ok := review.ParseRecord(scanner.Text())
		if !ok {
			res.Skipped++
			continue
		}
		switch rec.Label {
		case review.Negative:
			res.Negative++
		case review.Positive:
			res.Positive++
		}
		if gomoji.ContainsEmoji(rec.Text) {
			res.EmojiDocs++
		}
		for _, tok := range revtone.Tokenize(rec.Text) {
			res.Tokens++
			distinct[tok] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("failed to read dataset: %w", err)
	}
	res.Distinct = len(distinct)
	return res, nil
}

// labelIndex maps a label to its confusion matrix index, canonical order.
func labelIndex(label review.Label) int {
	for i, l := range review.Labels() {
		if l == label {
			return i
		}
	}
	return 0
}
