package storage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver loaded here

	"github.com/umputun/rev-tone/app/storage/engine"
	"github.com/umputun/rev-tone/lib/review"
)

// Reviews is a storage for labeled review samples. It supports both negative and positive labels,
// as well as preset samples and user's samples
type Reviews struct {
	*engine.SQL
	engine.RWLocker
}

// ReviewOrigin represents the origin of the review sample
type ReviewOrigin string

// enum for review origins
const (
	ReviewOriginPreset ReviewOrigin = "preset"
	ReviewOriginUser   ReviewOrigin = "user"
	ReviewOriginAny    ReviewOrigin = "any"
)

// reviews-related command constants
const (
	CmdCreateReviewsTable engine.DBCmd = iota + 500
	CmdCreateReviewsIndexes
	CmdAddReview
	CmdImportReview
)

// queries holds all reviews-related queries
var reviewsQueries = engine.NewQueryMap().
	Add(CmdCreateReviewsTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS reviews (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            gid TEXT NOT NULL DEFAULT '',
            timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
            label TEXT CHECK (label IN ('1', '5')),
            origin TEXT CHECK (origin IN ('preset', 'user')),
            text TEXT NOT NULL,
            UNIQUE(gid, text)
        )`,
		Postgres: `CREATE TABLE IF NOT EXISTS reviews (
            id SERIAL PRIMARY KEY,
            gid TEXT NOT NULL DEFAULT '',
            timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            label TEXT CHECK (label IN ('1', '5')),
            origin TEXT CHECK (origin IN ('preset', 'user')),
            text TEXT NOT NULL,
            text_hash TEXT GENERATED ALWAYS AS (encode(sha256(text::bytea), 'hex')) STORED,
            UNIQUE(gid, text_hash)
        )`,
	}).
	Add(CmdAddReview, engine.Query{
		Sqlite: `INSERT OR REPLACE INTO reviews (gid, label, origin, text) VALUES (?, ?, ?, ?)`,
		Postgres: `INSERT INTO reviews (gid, label, origin, text) VALUES ($1, $2, $3, $4)
                  ON CONFLICT (gid, text_hash) DO UPDATE SET label = EXCLUDED.label, origin = EXCLUDED.origin`,
	}).
	Add(CmdImportReview, engine.Query{
		Sqlite: `INSERT OR REPLACE INTO reviews (gid, label, origin, text) VALUES (?, ?, ?, ?)`,
		Postgres: `INSERT INTO reviews (gid, label, origin, text)
                  VALUES ($1, $2, $3, $4)
                  ON CONFLICT (gid, text_hash) DO UPDATE
                  SET label = EXCLUDED.label, origin = EXCLUDED.origin`,
	}).
	Add(CmdCreateReviewsIndexes, engine.Query{
		Sqlite: `
			CREATE INDEX IF NOT EXISTS idx_reviews_gid ON reviews(gid);
			CREATE INDEX IF NOT EXISTS idx_reviews_timestamp ON reviews(timestamp);
			CREATE INDEX IF NOT EXISTS idx_reviews_label ON reviews(label);
			CREATE INDEX IF NOT EXISTS idx_reviews_origin ON reviews(origin);
			CREATE INDEX IF NOT EXISTS idx_reviews_lookup ON reviews(gid, label, origin);
			CREATE INDEX IF NOT EXISTS idx_reviews_text ON reviews(text)`,
		Postgres: `
			CREATE INDEX IF NOT EXISTS idx_reviews_lookup ON reviews(gid, label, origin);
            CREATE INDEX IF NOT EXISTS idx_reviews_gid_label_origin_ts ON reviews(gid, label, origin, timestamp DESC);
			CREATE INDEX IF NOT EXISTS idx_reviews_gid ON reviews(gid);
			CREATE INDEX IF NOT EXISTS idx_reviews_origin ON reviews(gid,origin);
			CREATE INDEX IF NOT EXISTS idx_reviews_text_hash ON reviews(text_hash);`,
	})

// NewReviews creates a new Reviews storage
func NewReviews(ctx context.Context, db *engine.SQL) (*Reviews, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is nil")
	}
	res := &Reviews{SQL: db, RWLocker: db.MakeLock()}
	cfg := engine.TableConfig{
		Name:          "reviews",
		CreateTable:   CmdCreateReviewsTable,
		CreateIndexes: CmdCreateReviewsIndexes,
		MigrateFunc:   res.migrate,
		QueriesMap:    reviewsQueries,
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init reviews storage: %w", err)
	}
	return res, nil
}

// Add adds a review sample to the storage. A duplicate text replaces the stored label and origin.
func (s *Reviews) Add(ctx context.Context, label review.Label, origin ReviewOrigin, text string) error {
	dbgText := text
	if len(dbgText) > 1024 {
		dbgText = dbgText[:1024] + "..."
	}
	log.Printf("[DEBUG] adding review: %s, %s, %q", label, origin, dbgText)
	if err := label.Validate(); err != nil {
		return err
	}
	if err := origin.Validate(); err != nil {
		return err
	}

	if origin == ReviewOriginAny {
		return fmt.Errorf("can't add review with origin 'any'")
	}
	if text == "" {
		return fmt.Errorf("text can't be empty")
	}

	s.Lock()
	defer s.Unlock()

	query, err := reviewsQueries.Pick(s.Type(), CmdAddReview)
	if err != nil {
		return fmt.Errorf("failed to get query: %w", err)
	}
	if _, err := s.ExecContext(ctx, query, s.GID(), label, origin, text); err != nil {
		return fmt.Errorf("failed to add review: %w", err)
	}

	return nil
}

// Delete removes a review sample from the storage by its ID
func (s *Reviews) Delete(ctx context.Context, id int64) error {
	log.Printf("[DEBUG] deleting review: %d", id)
	s.Lock()
	defer s.Unlock()

	result, err := s.ExecContext(ctx, s.Adopt(`DELETE FROM reviews WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to remove review: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("review %d not found", id)
	}
	return nil
}

// DeleteText removes a review sample from the storage by its text
func (s *Reviews) DeleteText(ctx context.Context, text string) error {
	log.Printf("[DEBUG] deleting review: %q", text)
	s.Lock()
	defer s.Unlock()

	// first verify the text exists in this group
	var count int
	gid := s.GID()
	query := s.Adopt(`SELECT COUNT(*) FROM reviews WHERE gid = ? AND text = ?`)
	if err := s.GetContext(ctx, &count, query, gid, text); err != nil {
		return fmt.Errorf("failed to check review existence: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("review not found: gid=%s, text=%s", gid, text)
	}

	result, err := s.ExecContext(ctx, s.Adopt(`DELETE FROM reviews WHERE gid = ? AND text = ?`), gid, text)
	if err != nil {
		return fmt.Errorf("failed to remove review: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("failed to delete review: gid=%s, text=%s not found", gid, text)
	}
	return nil
}

// Read reads review texts from storage by label and origin
func (s *Reviews) Read(ctx context.Context, label review.Label, origin ReviewOrigin) ([]string, error) {
	s.RLock()
	defer s.RUnlock()

	if err := label.Validate(); err != nil {
		return nil, err
	}
	if err := origin.Validate(); err != nil {
		return nil, err
	}

	var (
		query string
		args  []any
		texts []string
	)
	gid := s.GID()
	if origin == ReviewOriginAny {
		query = `SELECT text FROM reviews WHERE gid = ? AND label = ?`
		args = []any{gid, label}
	} else {
		query = `SELECT text FROM reviews WHERE gid = ? AND label = ? AND origin = ?`
		args = []any{gid, label, origin}
	}
	query = s.Adopt(query)

	if err := s.SelectContext(ctx, &texts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	log.Printf("[DEBUG] read %d reviews: gid=%s, label=%s, origin=%s", len(texts), gid, label, origin)
	return texts, nil
}

// Reader returns a reader streaming stored samples as "label||text" lines, directly consumable
// by the classifier training. Sorts by timestamp in descending order, i.e. from the newest to the oldest.
func (s *Reviews) Reader(ctx context.Context, label review.Label, origin ReviewOrigin) (io.ReadCloser, error) {
	if err := label.Validate(); err != nil {
		return nil, err
	}
	if err := origin.Validate(); err != nil {
		return nil, err
	}

	var query string
	var args []any
	gid := s.GID()

	if origin == ReviewOriginAny {
		query = `SELECT label, text FROM reviews WHERE gid = ? AND label = ? ORDER BY timestamp DESC`
		args = []any{gid, label}
	} else {
		query = `SELECT label, text FROM reviews WHERE gid = ? AND label = ? AND origin = ? ORDER BY timestamp DESC`
		args = []any{gid, label, origin}
	}
	query = s.Adopt(query)

	s.RLock()
	defer s.RUnlock()
	rows, err := s.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}

	return &reviewReader{rows: rows}, nil
}

// Iterator returns an iterator over stored samples as "label||text" lines, by label and origin.
// Sorts by timestamp in descending order, i.e. from the newest to the oldest.
// The iterator respects context cancellation.
func (s *Reviews) Iterator(ctx context.Context, label review.Label, origin ReviewOrigin) (iter.Seq[string], error) {
	if err := label.Validate(); err != nil {
		return nil, err
	}
	if err := origin.Validate(); err != nil {
		return nil, err
	}

	var query string
	var args []any
	gid := s.GID()

	if origin == ReviewOriginAny {
		query = `SELECT label, text FROM reviews WHERE gid = ? AND label = ? ORDER BY timestamp DESC`
		args = []any{gid, label}
	} else {
		query = `SELECT label, text FROM reviews WHERE gid = ? AND label = ? AND origin = ? ORDER BY timestamp DESC`
		args = []any{gid, label, origin}
	}
	query = s.Adopt(query)

	s.RLock()
	rows, err := s.QueryxContext(ctx, query, args...)
	s.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}

	return func(yield func(string) bool) {
		defer rows.Close()
		for rows.Next() {
			// check context before each row
			select {
			case <-ctx.Done():
				return
			default:
			}

			var rec review.Record
			if err := rows.Scan(&rec.Label, &rec.Text); err != nil {
				log.Printf("[ERROR] scan failed: %v", err)
				return
			}

			// check context after scan but before yield
			select {
			case <-ctx.Done():
				return
			default:
			}

			if !yield(rec.Line()) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			log.Printf("[ERROR] rows iteration failed: %v", err)
			return
		}
	}, nil
}

// Import reads review samples from the reader and imports them into the storage.
// Lines are expected in the "label|id|text" form, each line carries its own label;
// malformed lines are skipped. Returns statistics about stored samples.
// If withCleanup is true removes all samples with the same origin before import.
func (s *Reviews) Import(ctx context.Context, origin ReviewOrigin, r io.Reader, withCleanup bool) (*ReviewsStats, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	if origin == ReviewOriginAny {
		return nil, fmt.Errorf("can't import reviews with origin 'any'")
	}
	if r == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}
	gid := s.GID()

	s.Lock()
	defer s.Unlock()

	// start transaction
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// remove all samples with the same origin if requested
	if withCleanup {
		query := s.Adopt(`DELETE FROM reviews WHERE gid = ? AND origin = ?`)
		result, errDel := tx.ExecContext(ctx, query, gid, origin)
		if errDel != nil {
			return nil, fmt.Errorf("failed to remove old reviews: %w", errDel)
		}
		affected, errCount := result.RowsAffected()
		if errCount != nil {
			return nil, fmt.Errorf("failed to get affected rows: %w", errCount)
		}
		log.Printf("[DEBUG] removed %d old reviews: gid=%s, origin=%s", affected, gid, origin)
	}

	// add samples
	query, err := reviewsQueries.Pick(s.Type(), CmdImportReview)
	if err != nil {
		return nil, fmt.Errorf("failed to get import query: %w", err)
	}
	scanner := bufio.NewScanner(r)
	// set custom buffer size and max token size for large lines
	const maxScanTokenSize = 64 * 1024 // 64KB max line length
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	added, skipped := 0, 0
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" { // skip empty lines
			continue
		}
		rec, ok := review.ParseRecord(line)
		if !ok {
			skipped++
			continue
		}
		if rec.Text == "" { // records with no text have nothing to train on
			skipped++
			continue
		}
		if _, err = tx.ExecContext(ctx, query, gid, rec.Label, origin, rec.Text); err != nil {
			return nil, fmt.Errorf("failed to add review: %w", err)
		}
		added++
	}

	// check for scanner errors after the scan is complete
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Printf("[DEBUG] imported %d reviews (%d skipped): gid=%s, origin=%s", added, skipped, gid, origin)
	return s.stats(ctx)
}

// String implements Stringer interface
func (o ReviewOrigin) String() string { return string(o) }

// Validate checks if the review origin is valid
func (o ReviewOrigin) Validate() error {
	switch o {
	case ReviewOriginPreset, ReviewOriginUser, ReviewOriginAny:
		return nil
	}
	return fmt.Errorf("invalid review origin: %s", o)
}

// ReviewsStats returns statistics about stored review samples
type ReviewsStats struct {
	TotalNegative  int `db:"negative_count"`
	TotalPositive  int `db:"positive_count"`
	PresetNegative int `db:"preset_negative_count"`
	PresetPositive int `db:"preset_positive_count"`
	UserNegative   int `db:"user_negative_count"`
	UserPositive   int `db:"user_positive_count"`
}

// String provides a string representation of the statistics
func (st *ReviewsStats) String() string {
	return fmt.Sprintf("negative: %d, positive: %d, preset negative: %d, preset positive: %d, user negative: %d, user positive: %d",
		st.TotalNegative, st.TotalPositive, st.PresetNegative, st.PresetPositive, st.UserNegative, st.UserPositive)
}

// Stats returns statistics about stored review samples
func (s *Reviews) Stats(ctx context.Context) (*ReviewsStats, error) {
	s.RLock()
	defer s.RUnlock()
	return s.stats(ctx)
}

// stats returns statistics about stored review samples without locking
func (s *Reviews) stats(ctx context.Context) (*ReviewsStats, error) {
	query := s.Adopt(`
        SELECT
            COUNT(CASE WHEN label = '1' THEN 1 END) as negative_count,
            COUNT(CASE WHEN label = '5' THEN 1 END) as positive_count,
            COUNT(CASE WHEN label = '1' AND origin = 'preset' THEN 1 END) as preset_negative_count,
            COUNT(CASE WHEN label = '5' AND origin = 'preset' THEN 1 END) as preset_positive_count,
            COUNT(CASE WHEN label = '1' AND origin = 'user' THEN 1 END) as user_negative_count,
            COUNT(CASE WHEN label = '5' AND origin = 'user' THEN 1 END) as user_positive_count
        FROM reviews
        WHERE gid = ?`)

	var stats ReviewsStats
	if err := s.GetContext(ctx, &stats, query, s.GID()); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &stats, nil
}

func (s *Reviews) migrate(_ context.Context, _ *sqlx.Tx, _ string) error {
	// no migration needed for now
	return nil
}

// reviewReader implements io.Reader for database rows and handles partial reads with buffering.
type reviewReader struct {
	rows    *sqlx.Rows    // database rows iterator
	buffer  []byte        // partial read buffer for cases when p is smaller than the line size
	current review.Record // current record from the database
	closed  bool          // indicates if the reader has been closed
}

// Read implements io.Reader interface. It reads samples from database rows one by one and
// handles partial reads by maintaining an internal buffer. If the provided buffer p is smaller
// than the line size, it will take multiple Read calls to get the complete line.
// Each sample is rendered as a "label||text" line followed by a newline for proper scanning.
func (r *reviewReader) Read(p []byte) (n int, err error) {
	if r.closed {
		return 0, io.ErrClosedPipe
	}

	// if buffer is empty, try to get next record from database
	if len(r.buffer) == 0 {
		if r.rows == nil || !r.rows.Next() {
			if r.rows != nil && r.rows.Err() != nil {
				return 0, fmt.Errorf("rows iteration failed: %w", r.rows.Err())
			}
			return 0, io.EOF
		}

		if err := r.rows.Scan(&r.current.Label, &r.current.Text); err != nil {
			return 0, fmt.Errorf("scan failed: %w", err)
		}
		// append newline to the line for proper scanning
		r.buffer = []byte(r.current.Line() + "\n")
	}

	// copy as much as we can to the provided buffer
	n = copy(p, r.buffer)
	// keep the rest for the next read
	r.buffer = r.buffer[n:]
	return n, nil
}

// Close implements io.Closer interface. Can be called multiple times safely.
func (r *reviewReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.rows != nil {
		if err := r.rows.Close(); err != nil {
			return fmt.Errorf("failed to close rows: %w", err)
		}
		r.rows = nil // prevent double-close
	}
	return nil
}
