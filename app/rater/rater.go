// Package rater wires the classifier engine to the sample files: initial
// training, watch-and-retrain on file changes, user-added dynamic samples
// and the parallel batch surface used by the server and the CLI.
package rater

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-pkgz/fileutils"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/rev-tone/lib/review"
	"github.com/umputun/rev-tone/lib/revtone"
)

//go:generate moq --out mocks/engine.go --pkg mocks --skip-ensure --with-resets . Engine

// Rater trains and queries the classifier engine over review sample files.
// Reloads samples on file change.
type Rater struct {
	Engine
	params Params
}

// Params is a full set of parameters for the rater.
type Params struct {
	SamplesFile string // preset samples, required
	DynamicFile string // user-added samples, optional

	WatchDelay time.Duration // debounce window for file change reloads, 0 disables watching
	Workers    int           // parallel batch classification width
}

// Engine is a review tone classifier interface.
type Engine interface {
	Train(readers ...io.Reader) revtone.TrainResult
	Classify(readers ...io.Reader) []review.Prediction
	Predict(text string) review.Prediction
	Vocab() int
	Trained() bool
}

// NewRater creates a rater on top of the engine. With a non-zero WatchDelay
// it also starts the file watcher reloading samples on changes.
func NewRater(ctx context.Context, engine Engine, params Params) *Rater {
	if params.Workers <= 0 {
		params.Workers = 1
	}
	res := &Rater{Engine: engine, params: params}
	if params.WatchDelay > 0 {
		go func() {
			if err := res.watch(ctx, params.WatchDelay); err != nil {
				log.Printf("[WARN] samples file watcher failed: %v", err)
			}
		}()
	}
	return res
}

// ReloadSamples retrains the engine from the samples file and the optional
// dynamic file. Fails only when the required samples file can't be read.
func (s *Rater) ReloadSamples() (err error) {
	log.Printf("[DEBUG] reloading samples")

	var samplesReader, dynamicReader io.ReadCloser

	// the preset samples file is mandatory
	if samplesReader, err = os.Open(s.params.SamplesFile); err != nil {
		return fmt.Errorf("failed to open samples file %q: %w", s.params.SamplesFile, err)
	}
	defer samplesReader.Close()

	// dynamic samples are optional
	if dynamicReader, err = os.Open(s.params.DynamicFile); err != nil {
		dynamicReader = io.NopCloser(bytes.NewReader([]byte("")))
	}
	defer dynamicReader.Close()

	res := s.Train(samplesReader, dynamicReader)
	log.Printf("[INFO] loaded samples - %s", res.String())
	return nil
}

// UpdatePositive appends a positive review to the dynamic samples file and retrains.
func (s *Rater) UpdatePositive(msg string) error {
	return s.updateSample(review.Positive, msg)
}

// UpdateNegative appends a negative review to the dynamic samples file and retrains.
func (s *Rater) UpdateNegative(msg string) error {
	return s.updateSample(review.Negative, msg)
}

// updateSample appends a labeled sample line to the dynamic file and reloads.
func (s *Rater) updateSample(label review.Label, msg string) error {
	cleanMsg := strings.ReplaceAll(msg, "\n", " ")
	log.Printf("[DEBUG] update %s samples with %q", label.Tone(), cleanMsg)
	rec := review.Record{Label: label, Text: cleanMsg}
	if err := newSampleUpdater(s.params.DynamicFile).append(rec.Line()); err != nil {
		return fmt.Errorf("can't update %s samples: %w", label.Tone(), err)
	}
	return s.ReloadSamples()
}

// DynamicSamples returns user-added positive and negative samples from the
// dynamic file. Both lists are optional, a missing file makes them empty.
func (s *Rater) DynamicSamples() (positive, negative []string, err error) {
	positive, negative = []string{}, []string{}

	fh, err := os.Open(s.params.DynamicFile)
	if err != nil {
		return positive, negative, nil
	}
	defer fh.Close()

	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		rec, ok := review.ParseRecord(scanner.Text())
		if !ok {
			continue
		}
		switch rec.Label {
		case review.Positive:
			positive = append(positive, rec.Text)
		case review.Negative:
			negative = append(negative, rec.Text)
		}
	}
	if err := scanner.Err(); err != nil {
		return positive, negative, fmt.Errorf("failed to read dynamic samples file: %w", err)
	}
	return positive, negative, nil
}

// RemoveDynamicSample removes a user-added sample from the dynamic samples
// file and reloads samples after this. Returns the number of removed lines.
func (s *Rater) RemoveDynamicSample(label review.Label, sample string) (int, error) {
	if err := label.Validate(); err != nil {
		return 0, err
	}
	count, err := s.removeDynamicSample(label, sample, s.params.DynamicFile)
	if err != nil {
		return 0, fmt.Errorf("failed to remove dynamic %s sample: %w", label.Tone(), err)
	}
	if err := s.ReloadSamples(); err != nil {
		return 0, fmt.Errorf("failed to reload samples after removing dynamic %s sample: %w", label.Tone(), err)
	}
	return count, nil
}

// removeDynamicSample removes all lines with the given label and text from
// the dynamic samples file, keeping a .bak copy of the previous state.
//
//nolint:gosec // potential inclusion is fine here
func (s *Rater) removeDynamicSample(label review.Label, msg, fileName string) (int, error) {
	fh, err := os.Open(fileName)
	if err != nil {
		return 0, fmt.Errorf("failed to open dynamic samples file %s: %w", fileName, err)
	}
	defer fh.Close()

	// read all samples, drop the matching ones and write the rest back
	scanner := bufio.NewScanner(fh)
	count := 0
	var kept []string
	for scanner.Scan() {
		line := scanner.Text()
		if rec, ok := review.ParseRecord(line); ok && rec.Label == label && rec.Text == msg {
			count++
			continue
		}
		kept = append(kept, line)
	}
	if err = scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read dynamic samples file: %w", err)
	}
	if count == 0 {
		return 0, fmt.Errorf("sample %q not found in %s", msg, fileName)
	}

	if err = fh.Close(); err != nil {
		return 0, fmt.Errorf("failed to close dynamic samples file: %w", err)
	}

	// the rewrite below is destructive, keep the previous state around
	if err = fileutils.CopyFile(fileName, fileName+".bak"); err != nil {
		return 0, fmt.Errorf("failed to backup dynamic samples file: %w", err)
	}

	fw, err := os.Create(fileName)
	if err != nil {
		return 0, fmt.Errorf("failed to open dynamic samples file for writing: %w", err)
	}
	defer fw.Close()
	for _, line := range kept {
		if _, err := fw.WriteString(line + "\n"); err != nil {
			return 0, fmt.Errorf("failed to write to dynamic samples file: %w", err)
		}
	}
	return count, nil
}

// ClassifyBatch classifies lines in parallel keeping the input order. Lines
// are in the same "label|id|text" form the classifier reads from files,
// anything that doesn't parse classifies as an empty text.
func (s *Rater) ClassifyBatch(ctx context.Context, lines []string) ([]review.Prediction, error) {
	res := make([]review.Prediction, len(lines))
	gr, ctx := errgroup.WithContext(ctx)
	gr.SetLimit(s.params.Workers)
	for i, line := range lines {
		gr.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res[i] = s.Predict(review.Text(line))
			return nil
		})
	}
	if err := gr.Wait(); err != nil {
		return nil, fmt.Errorf("failed to classify batch: %w", err)
	}
	return res, nil
}
