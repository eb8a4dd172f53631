package storage

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oklog/ulid/v2"

	"github.com/umputun/rev-tone/app/storage/engine"
	"github.com/umputun/rev-tone/lib/review"
)

// Predictions is a storage for classification results, a capped log of what the model decided and why
type Predictions struct {
	*engine.SQL
	engine.RWLocker
	entropy *ulid.LockedMonotonicReader // id generation, safe for concurrent writers
}

// PredictionEntry represents a single stored classification result
type PredictionEntry struct {
	ID          string       `db:"id" json:"id"`
	GID         string       `db:"gid" json:"gid"`
	Timestamp   time.Time    `db:"timestamp" json:"timestamp"`
	Text        string       `db:"text" json:"text"`
	Label       review.Label `db:"label" json:"label"`
	Probability float64      `db:"probability" json:"probability"`
	Details     string       `db:"details" json:"details,omitempty"`
	Source      string       `db:"source" json:"source"`
}

// predictions-related command constants
const (
	CmdCreatePredictionsTable engine.DBCmd = iota + 600
	CmdCreatePredictionsIndexes
)

// queries holds all predictions-related queries
var predictionsQueries = engine.NewQueryMap().
	Add(CmdCreatePredictionsTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS predictions (
            id TEXT PRIMARY KEY,
            gid TEXT NOT NULL DEFAULT '',
            timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
            text TEXT NOT NULL,
            label TEXT CHECK (label IN ('1', '5')),
            probability REAL,
            details TEXT,
            source TEXT NOT NULL DEFAULT ''
        )`,
		Postgres: `CREATE TABLE IF NOT EXISTS predictions (
            id TEXT PRIMARY KEY,
            gid TEXT NOT NULL DEFAULT '',
            timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            text TEXT NOT NULL,
            label TEXT CHECK (label IN ('1', '5')),
            probability REAL,
            details TEXT,
            source TEXT NOT NULL DEFAULT ''
        )`,
	}).
	AddSame(CmdCreatePredictionsIndexes, `
		CREATE INDEX IF NOT EXISTS idx_predictions_gid ON predictions(gid);
		CREATE INDEX IF NOT EXISTS idx_predictions_timestamp ON predictions(timestamp);
		CREATE INDEX IF NOT EXISTS idx_predictions_gid_ts ON predictions(gid, timestamp DESC)`)

// NewPredictions creates a new Predictions storage
func NewPredictions(ctx context.Context, db *engine.SQL) (*Predictions, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is nil")
	}
	res := &Predictions{
		SQL:      db,
		RWLocker: db.MakeLock(),
		entropy:  &ulid.LockedMonotonicReader{MonotonicReader: ulid.Monotonic(rand.Reader, 0)},
	}
	cfg := engine.TableConfig{
		Name:          "predictions",
		CreateTable:   CmdCreatePredictionsTable,
		CreateIndexes: CmdCreatePredictionsIndexes,
		MigrateFunc:   res.migrate,
		QueriesMap:    predictionsQueries,
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init predictions storage: %w", err)
	}
	return res, nil
}

// Write adds a new prediction entry. Missing ID is generated (ULID, naturally time-ordered),
// missing timestamp set to now. Returns the ID of the stored entry.
func (p *Predictions) Write(ctx context.Context, entry PredictionEntry) (string, error) {
	if err := entry.Label.Validate(); err != nil {
		return "", err
	}
	if entry.Text == "" {
		return "", fmt.Errorf("text can't be empty")
	}
	if entry.ID == "" {
		entry.ID = ulid.MustNew(ulid.Now(), p.entropy).String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	p.Lock()
	defer p.Unlock()

	query := p.Adopt(`INSERT INTO predictions (id, gid, timestamp, text, label, probability, details, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := p.ExecContext(ctx, query, entry.ID, p.GID(), entry.Timestamp, entry.Text,
		entry.Label, entry.Probability, entry.Details, entry.Source)
	if err != nil {
		return "", fmt.Errorf("failed to insert prediction entry: %w", err)
	}

	log.Printf("[DEBUG] prediction saved: id=%s, label=%s, source=%s", entry.ID, entry.Label, entry.Source)
	return entry.ID, nil
}

// Read returns the most recent prediction entries, newest first. Limit <= 0 defaults to 100.
func (p *Predictions) Read(ctx context.Context, limit int) ([]PredictionEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	p.RLock()
	defer p.RUnlock()

	query := p.Adopt(`SELECT id, gid, timestamp, text, label, probability, details, source
		FROM predictions WHERE gid = ? ORDER BY timestamp DESC, id DESC LIMIT ?`)
	var entries []PredictionEntry
	if err := p.SelectContext(ctx, &entries, query, p.GID(), limit); err != nil {
		return nil, fmt.Errorf("failed to get prediction entries: %w", err)
	}

	for i, entry := range entries {
		entries[i].Timestamp = entry.Timestamp.Local()
	}
	return entries, nil
}

// Count returns the number of stored prediction entries
func (p *Predictions) Count(ctx context.Context) (int, error) {
	p.RLock()
	defer p.RUnlock()

	var count int
	query := p.Adopt(`SELECT COUNT(*) FROM predictions WHERE gid = ?`)
	if err := p.GetContext(ctx, &count, query, p.GID()); err != nil {
		return 0, fmt.Errorf("failed to count prediction entries: %w", err)
	}
	return count, nil
}

// Cleanup removes the oldest entries leaving up to maxKeep most recent ones
func (p *Predictions) Cleanup(ctx context.Context, maxKeep int) error {
	if maxKeep <= 0 {
		return fmt.Errorf("maxKeep must be positive, got %d", maxKeep)
	}

	p.Lock()
	defer p.Unlock()

	gid := p.GID()
	query := p.Adopt(`DELETE FROM predictions WHERE gid = ? AND id NOT IN
		(SELECT id FROM predictions WHERE gid = ? ORDER BY timestamp DESC, id DESC LIMIT ?)`)
	result, err := p.ExecContext(ctx, query, gid, gid, maxKeep)
	if err != nil {
		return fmt.Errorf("failed to cleanup prediction entries: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected > 0 {
		log.Printf("[DEBUG] cleaned up %d prediction entries, kept up to %d", affected, maxKeep)
	}
	return nil
}

func (p *Predictions) migrate(_ context.Context, _ *sqlx.Tx, _ string) error {
	// no migration needed for now
	return nil
}
