package revtone

import (
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/rev-tone/lib/review"
)

func TestNewClassifier(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantAlpha float64
	}{
		{name: "default alpha on zero", config: Config{}, wantAlpha: DefaultAlpha},
		{name: "default alpha on negative", config: Config{Alpha: -3}, wantAlpha: DefaultAlpha},
		{name: "custom alpha kept", config: Config{Alpha: 0.5}, wantAlpha: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(tt.config)
			assert.InDelta(t, tt.wantAlpha, c.Alpha, 1e-9)
			assert.False(t, c.Trained())
			assert.Equal(t, 0, c.Vocab())
		})
	}
}

func TestClassifier_Train(t *testing.T) {
	corpus := `1||this movie was terrible and boring
5||this movie was great and exciting`

	c := NewClassifier(Config{})
	res := c.Train(strings.NewReader(corpus))

	assert.Equal(t, TrainResult{Total: 2, Trained: 2, Skipped: 0, Positive: 1, Negative: 1, Vocab: 9}, res)
	assert.True(t, c.Trained())
	assert.Equal(t, 9, c.Vocab())
}

func TestClassifier_TrainSkipsBadLines(t *testing.T) {
	corpus := strings.Join([]string{
		"1||this movie was terrible and boring",
		"",                        // blank
		"no pipes at all",         // not a record
		"5|too few",               // two fields only
		"7|id1|unknown label",     // label outside the set
		"5||this movie was great", // valid
	}, "\n")

	c := NewClassifier(Config{})
	res := c.Train(strings.NewReader(corpus))

	assert.Equal(t, 6, res.Total)
	assert.Equal(t, 2, res.Trained)
	assert.Equal(t, 4, res.Skipped)
	assert.Equal(t, 1, res.Negative)
	assert.Equal(t, 1, res.Positive)
}

func TestClassifier_TrainReplacesModel(t *testing.T) {
	c := NewClassifier(Config{})
	res := c.Train(strings.NewReader("1||terrible mess\n5||wonderful gem"))
	require.Equal(t, 2, res.Trained)
	require.True(t, c.Trained())

	// retraining on garbage only drops the previous model entirely
	res = c.Train(strings.NewReader("not a record"))
	assert.Equal(t, TrainResult{Total: 1, Skipped: 1}, res)
	assert.False(t, c.Trained())
	assert.Equal(t, 0, c.Vocab())

	pred := c.Predict("terrible mess")
	assert.Equal(t, review.Negative, pred.Label)
	assert.Zero(t, pred.Probability)
}

func TestClassifier_TrainIdempotent(t *testing.T) {
	corpusA := "1||this movie was terrible and boring\n5||this movie was great and exciting"
	corpusB := "1||awful awful awful\n5||nice"

	c := NewClassifier(Config{})
	resFirst := c.Train(strings.NewReader(corpusA))
	predFirst := c.Predict("terrible and boring film")

	c.Train(strings.NewReader(corpusB)) // unrelated pass in between
	resAgain := c.Train(strings.NewReader(corpusA))
	predAgain := c.Predict("terrible and boring film")

	assert.Equal(t, resFirst, resAgain, "same input has to build the same model")
	assert.Equal(t, predFirst, predAgain)
}

func TestClassifier_TrainMultipleReaders(t *testing.T) {
	c := NewClassifier(Config{})
	res := c.Train(
		strings.NewReader("1||terrible mess"),
		strings.NewReader("5||great fun\n5||wonderful gem"),
	)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 3, res.Trained)
	assert.Equal(t, 1, res.Negative)
	assert.Equal(t, 2, res.Positive)
}

func TestClassifier_PriorsNormalized(t *testing.T) {
	tests := []struct {
		name   string
		alpha  float64
		corpus string
	}{
		{name: "balanced", alpha: 1.0, corpus: "1||terrible\n5||great"},
		{name: "skewed", alpha: 1.0, corpus: "1||terrible\n1||awful\n1||boring mess\n5||great"},
		{name: "half alpha", alpha: 0.5, corpus: "1||terrible\n5||great\n5||wonderful"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(Config{Alpha: tt.alpha})
			c.Train(strings.NewReader(tt.corpus))

			sum := 0.0
			for _, label := range review.Labels() {
				sum += math.Exp(c.model.logPriors[label])
			}
			assert.InDelta(t, 1.0, sum, 1e-9, "prior probabilities have to sum to one")
		})
	}
}

func TestClassifier_Untrained(t *testing.T) {
	c := NewClassifier(Config{})

	pred := c.Predict("the greatest movie ever made")
	assert.Equal(t, review.Negative, pred.Label)
	assert.Zero(t, pred.Probability)

	preds := c.Classify(strings.NewReader("1||terrible\n5||great"))
	require.Len(t, preds, 2)
	for _, p := range preds {
		assert.Equal(t, review.Negative, p.Label)
		assert.Zero(t, p.Probability)
	}
}

func TestClassifier_Classify(t *testing.T) {
	corpus := "1||this movie was terrible and boring\n5||this movie was great and exciting"
	input := "1||terrible and boring film\n5||great and exciting film"

	c := NewClassifier(Config{})
	c.Train(strings.NewReader(corpus))
	preds := c.Classify(strings.NewReader(input))

	require.Len(t, preds, 2)
	assert.Equal(t, review.Negative, preds[0].Label)
	assert.Equal(t, review.Positive, preds[1].Label)
	// three of five features hit the matching label, softmax gap is 3*ln(2)
	assert.InDelta(t, 8.0/9.0, preds[0].Probability, 1e-9)
	assert.InDelta(t, 8.0/9.0, preds[1].Probability, 1e-9)
	assert.Contains(t, preds[0].Details, "negative:")
	assert.Contains(t, preds[0].Details, "positive:")
}

func TestClassifier_ClassifyNeverSkips(t *testing.T) {
	c := NewClassifier(Config{})
	c.Train(strings.NewReader("1||terrible mess\n5||great fun"))

	input := "garbage line no pipes\n\n1||terrible and boring film"
	preds := c.Classify(strings.NewReader(input))

	require.Len(t, preds, 3, "one prediction per input line, no matter what")
	// unparseable lines classify as empty text, equal priors make it a tie
	assert.Equal(t, review.Negative, preds[0].Label)
	assert.InDelta(t, 0.5, preds[0].Probability, 1e-9)
	assert.Equal(t, review.Negative, preds[1].Label)
	assert.Equal(t, review.Negative, preds[2].Label)
}

func TestClassifier_ClassifyEmptyInput(t *testing.T) {
	c := NewClassifier(Config{})
	c.Train(strings.NewReader("1||terrible\n5||great"))

	preds := c.Classify(strings.NewReader(""))
	assert.NotNil(t, preds)
	assert.Empty(t, preds)
}

func TestClassifier_TieGoesNegative(t *testing.T) {
	// balanced corpus, equal priors, a text with no known features
	c := NewClassifier(Config{})
	c.Train(strings.NewReader("1||terrible mess\n5||great fun"))

	pred := c.Predict("zebra")
	assert.Equal(t, review.Negative, pred.Label)
	assert.InDelta(t, 0.5, pred.Probability, 1e-9)
}

func TestClassifier_UnseenLabelNeverWins(t *testing.T) {
	// no positive samples at all, the positive score stays -inf
	c := NewClassifier(Config{})
	c.Train(strings.NewReader("1||terrible boring mess"))

	pred := c.Predict("wonderful amazing gem")
	assert.Equal(t, review.Negative, pred.Label)
	assert.InDelta(t, 1.0, pred.Probability, 1e-9)
}

func TestClassifier_NoBigrams(t *testing.T) {
	corpus := "1||this movie was terrible and boring\n5||this movie was great and exciting"

	withBigrams := NewClassifier(Config{})
	res := withBigrams.Train(strings.NewReader(corpus))
	assert.Equal(t, 9, res.Vocab, "5 distinct unigrams plus 4 distinct bigrams")

	unigramsOnly := NewClassifier(Config{NoBigrams: true})
	res = unigramsOnly.Train(strings.NewReader(corpus))
	assert.Equal(t, 5, res.Vocab)
}

func TestClassifier_WithStopWords(t *testing.T) {
	corpus := "1||terrible boring mess\n5||film film wonderful"

	c := NewClassifier(Config{})
	c.Train(strings.NewReader(corpus))

	pred := c.Predict("film")
	require.Equal(t, review.Positive, pred.Label)
	assert.InDelta(t, 0.75, pred.Probability, 1e-9)

	// stopwords are normalized, the word stops scoring right away
	c.WithStopWords(" FiLm ")
	pred = c.Predict("film")
	assert.Equal(t, review.Negative, pred.Label)
	assert.InDelta(t, 0.5, pred.Probability, 1e-9)

	// and the next training pass won't see it either
	res := c.Train(strings.NewReader(corpus))
	assert.Equal(t, 6, res.Vocab, "film unigrams and bigrams gone from the vocabulary")
}

func TestClassifier_TrainResultString(t *testing.T) {
	res := TrainResult{Total: 3, Trained: 2, Skipped: 1, Positive: 1, Negative: 1, Vocab: 9}
	assert.Equal(t, "2 of 3 lines trained (1 skipped): negative 1, positive 1, vocab 9", res.String())
}

func TestClassifier_Concurrent(t *testing.T) {
	corpus := "1||this movie was terrible and boring\n5||this movie was great and exciting"
	c := NewClassifier(Config{})
	c.Train(strings.NewReader(corpus))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				pred := c.Predict("terrible and boring film")
				assert.NotEmpty(t, pred.Label)
			}
		}()
	}
	for i := 0; i < 10; i++ {
		c.Train(strings.NewReader(corpus))
	}
	wg.Wait()

	assert.Equal(t, review.Negative, c.Predict("terrible and boring film").Label)
}
