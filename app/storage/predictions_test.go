package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/rev-tone/app/storage/engine"
	"github.com/umputun/rev-tone/lib/review"
)

func TestNewPredictions(t *testing.T) {
	ctx := context.Background()
	for name, provider := range providers {
		t.Run(name, func(t *testing.T) {
			db, teardown := provider(t, ctx)
			defer teardown()
			defer db.Exec("DROP TABLE predictions")

			tests := []struct {
				name    string
				db      *engine.SQL
				wantErr bool
			}{
				{name: "valid db connection", db: db, wantErr: false},
				{name: "nil db connection", db: nil, wantErr: true},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					predictions, err := NewPredictions(ctx, tt.db)
					if tt.wantErr {
						assert.Error(t, err)
						assert.Nil(t, predictions)
						return
					}
					assert.NoError(t, err)
					assert.NotNil(t, predictions)
				})
			}
		})
	}
}

func TestPredictions_Write(t *testing.T) {
	ctx := context.Background()
	for name, provider := range providers {
		t.Run(name, func(t *testing.T) {
			db, teardown := provider(t, ctx)
			defer teardown()
			predictions, err := NewPredictions(ctx, db)
			require.NoError(t, err)
			defer db.Exec("DROP TABLE predictions")

			t.Run("generated id", func(t *testing.T) {
				id, err := predictions.Write(ctx, PredictionEntry{
					Text:        "flimsy and overpriced",
					Label:       review.Negative,
					Probability: 0.93,
					Details:     "negative: -8.21, positive: -11.03",
					Source:      "api",
				})
				require.NoError(t, err)
				assert.Len(t, id, 26) // ULID string form

				var count int
				err = db.Get(&count, db.Adopt("SELECT COUNT(*) FROM predictions WHERE id = ?"), id)
				require.NoError(t, err)
				assert.Equal(t, 1, count)
			})

			t.Run("explicit id kept", func(t *testing.T) {
				id, err := predictions.Write(ctx, PredictionEntry{
					ID:    "01JD0000000000000000000009",
					Text:  "does the job",
					Label: review.Positive,
				})
				require.NoError(t, err)
				assert.Equal(t, "01JD0000000000000000000009", id)
			})

			t.Run("invalid label", func(t *testing.T) {
				_, err := predictions.Write(ctx, PredictionEntry{Text: "whatever", Label: "4"})
				assert.Error(t, err)
			})

			t.Run("empty text", func(t *testing.T) {
				_, err := predictions.Write(ctx, PredictionEntry{Label: review.Negative})
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "text can't be empty")
			})
		})
	}
}

func TestPredictions_Read(t *testing.T) {
	ctx := context.Background()
	for name, provider := range providers {
		t.Run(name, func(t *testing.T) {
			db, teardown := provider(t, ctx)
			defer teardown()
			predictions, err := NewPredictions(ctx, db)
			require.NoError(t, err)
			defer db.Exec("DROP TABLE predictions")

			// write entries with distinct timestamps to get deterministic ordering
			base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
			for i, text := range []string{"oldest entry", "middle entry", "newest entry"} {
				_, err := predictions.Write(ctx, PredictionEntry{
					Text:        text,
					Label:       review.Positive,
					Probability: 0.5 + float64(i)*0.1,
					Source:      "cli",
					Timestamp:   base.Add(time.Duration(i) * time.Minute),
				})
				require.NoError(t, err)
			}

			t.Run("newest first with limit", func(t *testing.T) {
				entries, err := predictions.Read(ctx, 2)
				require.NoError(t, err)
				require.Len(t, entries, 2)
				assert.Equal(t, "newest entry", entries[0].Text)
				assert.Equal(t, "middle entry", entries[1].Text)

				assert.Equal(t, review.Positive, entries[0].Label)
				assert.InDelta(t, 0.7, entries[0].Probability, 0.0001)
				assert.Equal(t, "cli", entries[0].Source)
				assert.Equal(t, "gr1", entries[0].GID)
				assert.False(t, entries[0].Timestamp.IsZero())
			})

			t.Run("default limit returns all", func(t *testing.T) {
				entries, err := predictions.Read(ctx, 0)
				require.NoError(t, err)
				assert.Len(t, entries, 3)
			})
		})
	}
}

func TestPredictions_Count(t *testing.T) {
	ctx := context.Background()
	for name, provider := range providers {
		t.Run(name, func(t *testing.T) {
			db, teardown := provider(t, ctx)
			defer teardown()
			predictions, err := NewPredictions(ctx, db)
			require.NoError(t, err)
			defer db.Exec("DROP TABLE predictions")

			count, err := predictions.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, count)

			for i := 0; i < 3; i++ {
				_, err := predictions.Write(ctx, PredictionEntry{
					Text:  fmt.Sprintf("entry %d", i),
					Label: review.Negative,
				})
				require.NoError(t, err)
			}

			count, err = predictions.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, count)
		})
	}
}

func TestPredictions_Cleanup(t *testing.T) {
	ctx := context.Background()
	for name, provider := range providers {
		t.Run(name, func(t *testing.T) {
			db, teardown := provider(t, ctx)
			defer teardown()
			predictions, err := NewPredictions(ctx, db)
			require.NoError(t, err)
			defer db.Exec("DROP TABLE predictions")

			base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
			for i := 0; i < 5; i++ {
				_, err := predictions.Write(ctx, PredictionEntry{
					Text:      fmt.Sprintf("entry %d", i),
					Label:     review.Negative,
					Timestamp: base.Add(time.Duration(i) * time.Minute),
				})
				require.NoError(t, err)
			}

			t.Run("keeps most recent", func(t *testing.T) {
				err := predictions.Cleanup(ctx, 2)
				require.NoError(t, err)

				count, err := predictions.Count(ctx)
				require.NoError(t, err)
				assert.Equal(t, 2, count)

				entries, err := predictions.Read(ctx, 10)
				require.NoError(t, err)
				require.Len(t, entries, 2)
				assert.Equal(t, "entry 4", entries[0].Text)
				assert.Equal(t, "entry 3", entries[1].Text)
			})

			t.Run("cleanup below current count is a no-op error free", func(t *testing.T) {
				err := predictions.Cleanup(ctx, 10)
				require.NoError(t, err)
				count, err := predictions.Count(ctx)
				require.NoError(t, err)
				assert.Equal(t, 2, count)
			})

			t.Run("invalid maxKeep", func(t *testing.T) {
				err := predictions.Cleanup(ctx, 0)
				assert.Error(t, err)
			})
		})
	}
}
