// Package revtone implements a multinomial Naive Bayes classifier for review
// tone with two labels: "1" (negative) and "5" (positive). A Classifier is
// trained from "label|id|text" lines and answers with a label per text. The
// text pipeline is fixed: lowercase, keep [a-z0-9'] runes, drop stopwords,
// stem with an ordered suffix table, then score unigrams and adjacent
// bigrams with additive (Laplace) smoothing. Training replaces the model
// wholesale, so feeding the same samples always produces the same model.
//
// The Classifier is thread-safe and supports concurrent use.
package revtone

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"log"
	"math"
	"strings"
	"sync"

	"github.com/umputun/rev-tone/lib/review"
)

// DefaultAlpha is the smoothing value used when Config.Alpha is not set.
const DefaultAlpha = 1.0

// probFloor replaces non-positive probabilities before taking the log.
const probFloor = 1e-12

// Config is a set of parameters for Classifier.
type Config struct {
	Alpha     float64 // additive smoothing, values <= 0 coerced to DefaultAlpha
	NoBigrams bool    // unigram features only, adjacent pairs disabled
}

// Classifier is a Naive Bayes review tone classifier. Train builds a fresh
// model and swaps it in under the write lock; Predict and Classify read the
// last completed model, so classification stays available while retraining.
type Classifier struct {
	Config

	stopWords map[string]struct{}
	model     model

	lock sync.RWMutex
}

// model holds the counters of a single training pass.
type model struct {
	wordCounts      map[review.Label]map[string]int
	totalWordCounts map[review.Label]int
	docCounts       map[review.Label]int
	logPriors       map[review.Label]float64
	totalDocs       int
	vocab           map[string]struct{}
	vocabSize       int
}

// newModel makes an empty model: zero counters for both labels, -inf priors
// and vocabSize pinned to 1 so smoothing denominators stay positive.
func newModel() model {
	res := model{
		wordCounts:      map[review.Label]map[string]int{},
		totalWordCounts: map[review.Label]int{},
		docCounts:       map[review.Label]int{},
		logPriors:       map[review.Label]float64{},
		vocab:           map[string]struct{}{},
		vocabSize:       1,
	}
	for _, label := range review.Labels() {
		res.wordCounts[label] = map[string]int{}
		res.totalWordCounts[label] = 0
		res.docCounts[label] = 0
		res.logPriors[label] = math.Inf(-1)
	}
	return res
}

// NewClassifier makes a classifier with the given config.
func NewClassifier(p Config) *Classifier {
	if p.Alpha <= 0 {
		p.Alpha = DefaultAlpha
	}
	return &Classifier{Config: p, model: newModel(), stopWords: stopWords}
}

// WithStopWords extends the stopword set for this classifier instance.
// Words are lowercased and trimmed, the built-in set is never mutated.
func (c *Classifier) WithStopWords(words ...string) *Classifier {
	c.lock.Lock()
	defer c.lock.Unlock()

	extended := make(map[string]struct{}, len(c.stopWords)+len(words))
	for w := range c.stopWords {
		extended[w] = struct{}{}
	}
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			extended[w] = struct{}{}
		}
	}
	c.stopWords = extended
	return c
}

// TrainResult is a summary of a single training pass.
type TrainResult struct {
	Total    int // lines seen, including skipped ones
	Trained  int // records accepted for training
	Skipped  int // blank, malformed or unknown-label lines
	Positive int // accepted positive records
	Negative int // accepted negative records
	Vocab    int // distinct features in the trained model
}

// String provides a short summary of the training pass.
func (r TrainResult) String() string {
	return fmt.Sprintf("%d of %d lines trained (%d skipped): negative %d, positive %d, vocab %d",
		r.Trained, r.Total, r.Skipped, r.Negative, r.Positive, r.Vocab)
}

// Train rebuilds the model from "label|id|text" lines of the given readers.
// The previous model is discarded first, so training twice on the same input
// produces the same model. Lines that don't parse as records are counted as
// skipped and never interrupt the pass.
func (c *Classifier) Train(readers ...io.Reader) TrainResult {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.model = newModel()
	m := &c.model

	res := TrainResult{}
	for line := range lineIterator(readers...) {
		res.Total++
		rec, ok := review.ParseRecord(line)
		if !ok {
			res.Skipped++
			continue
		}
		res.Trained++
		switch rec.Label {
		case review.Negative:
			res.Negative++
		case review.Positive:
			res.Positive++
		}

		m.docCounts[rec.Label]++
		m.totalDocs++
		for _, feat := range features(tokenize(rec.Text, c.stopWords), !c.NoBigrams) {
			m.wordCounts[rec.Label][feat]++
			m.totalWordCounts[rec.Label]++
			m.vocab[feat] = struct{}{}
		}
	}

	if len(m.vocab) > 0 {
		m.vocabSize = len(m.vocab)
	}

	priorDenom := float64(m.totalDocs) + float64(len(review.Labels()))*c.Alpha
	if priorDenom == 0 {
		priorDenom = 1
	}
	for _, label := range review.Labels() {
		chance := (float64(m.docCounts[label]) + c.Alpha) / priorDenom
		if chance <= 0 {
			chance = probFloor
		}
		m.logPriors[label] = math.Log(chance)
	}

	res.Vocab = len(m.vocab)
	return res
}

// Classify reads "label|id|text" lines from the readers and returns exactly
// one prediction per line, in input order. Unlike Train it never skips a
// line, anything that doesn't parse is classified as an empty text.
func (c *Classifier) Classify(readers ...io.Reader) []review.Prediction {
	c.lock.RLock()
	defer c.lock.RUnlock()

	res := []review.Prediction{}
	for line := range lineIterator(readers...) {
		feats := features(tokenize(review.Text(line), c.stopWords), !c.NoBigrams)
		res = append(res, c.model.predict(feats, c.Alpha))
	}
	return res
}

// Predict classifies a bare review text and returns the winning label with
// its certainty. An untrained model always answers with the negative label
// at zero certainty.
func (c *Classifier) Predict(text string) review.Prediction {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.model.predict(features(tokenize(text, c.stopWords), !c.NoBigrams), c.Alpha)
}

// Vocab returns the number of distinct features seen by the last training
// pass, zero for an untrained classifier.
func (c *Classifier) Vocab() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.model.vocab)
}

// Trained reports whether the classifier has seen at least one valid sample.
func (c *Classifier) Trained() bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.model.totalDocs > 0
}

// predict scores the features for every label and picks the winner. Labels
// are walked in canonical order and only a strictly greater score replaces
// the current best, so a tie resolves to the negative label.
func (m *model) predict(feats []string, alpha float64) review.Prediction {
	denoms := make(map[review.Label]float64, len(review.Labels()))
	for _, label := range review.Labels() {
		denoms[label] = float64(m.totalWordCounts[label]) + alpha*float64(m.vocabSize)
	}

	scores := make(map[review.Label]float64, len(review.Labels()))
	for _, label := range review.Labels() {
		scores[label] = m.score(label, feats, denoms[label], alpha)
	}

	best := review.Negative
	for _, label := range review.Labels() {
		if scores[label] > scores[best] {
			best = label
		}
	}

	return review.Prediction{
		Label:       best,
		Probability: certainty(scores, best),
		Details: fmt.Sprintf("negative: %.4f, positive: %.4f",
			scores[review.Negative], scores[review.Positive]),
	}
}

// score computes the log joint score of the features for a label. A label
// with no training documents scores -inf and can never win over a label
// with at least one.
func (m *model) score(label review.Label, feats []string, denom, alpha float64) float64 {
	if m.docCounts[label] == 0 {
		return math.Inf(-1)
	}
	if denom == 0 {
		denom = 1
	}
	res := m.logPriors[label]
	for _, feat := range feats {
		value := (float64(m.wordCounts[label][feat]) + alpha) / denom
		if value <= 0 {
			value = probFloor
		}
		res += math.Log(value)
	}
	return res
}

// certainty is the softmax share of the winning score over all label scores,
// shifted by the maximum so long documents don't underflow the exponent.
// With every score at -inf (untrained model) certainty is zero.
func certainty(scores map[review.Label]float64, best review.Label) float64 {
	maxScore := scores[best]
	if math.IsInf(maxScore, -1) {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += math.Exp(s - maxScore)
	}
	return math.Exp(scores[best]-maxScore) / sum
}

// lineIterator parses readers and returns an iterator over their lines, in
// order. Lines are yielded verbatim so callers decide what to skip; a read
// failure is logged and stops that reader only.
func lineIterator(readers ...io.Reader) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, reader := range readers {
			scanner := bufio.NewScanner(reader)
			for scanner.Scan() {
				if !yield(scanner.Text()) {
					return
				}
			}
			if err := scanner.Err(); err != nil {
				log.Printf("[WARN] failed to read lines, error=%v", err)
			}
		}
	}
}
