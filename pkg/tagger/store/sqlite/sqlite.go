package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/tagger/pkg/tagger/internalerr"
	"github.com/cognicore/tagger/pkg/tagger/store"
)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection: writers queue in database/sql instead of failing
	// with SQLITE_BUSY, and the pragmas below hold for every statement.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS batches (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
	batch_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	input TEXT NOT NULL,
	score REAL NOT NULL,
	name TEXT NOT NULL,
	unit TEXT NOT NULL,
	qty REAL NOT NULL,
	PRIMARY KEY(batch_id, position),
	FOREIGN KEY(batch_id) REFERENCES batches(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_batches_created ON batches(created_at);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveBatch inserts or replaces a batch and all of its records
func (s *sqliteStore) SaveBatch(ctx context.Context, b store.Batch) error {
	if b.ID == "" {
		return fmt.Errorf("save batch: empty id: %w", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const upsert = `
INSERT INTO batches (id, created_at)
VALUES (?, ?)
ON CONFLICT(id) DO UPDATE SET created_at=excluded.created_at;
`
	if _, err := tx.ExecContext(ctx, upsert, b.ID, b.CreatedAt.UTC().Format(timeLayout)); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE batch_id = ?`, b.ID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (batch_id, position, input, score, name, unit, qty)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range b.Records {
		if _, err := stmt.ExecContext(ctx, b.ID, r.Position, r.Input, r.Score, r.Name, r.Unit, r.Qty); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetBatch loads a batch and its records ordered by position
func (s *sqliteStore) GetBatch(ctx context.Context, id string) (store.Batch, error) {
	var created string
	err := s.db.QueryRowContext(ctx, `SELECT created_at FROM batches WHERE id = ?`, id).Scan(&created)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Batch{}, fmt.Errorf("batch %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Batch{}, err
	}

	b := store.Batch{ID: id, CreatedAt: parseTime(created)}

	rows, err := s.db.QueryContext(ctx, `
SELECT position, input, score, name, unit, qty
FROM records
WHERE batch_id = ?
ORDER BY position`, id)
	if err != nil {
		return store.Batch{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var r store.Record
		if err := rows.Scan(&r.Position, &r.Input, &r.Score, &r.Name, &r.Unit, &r.Qty); err != nil {
			return store.Batch{}, err
		}
		b.Records = append(b.Records, r)
	}
	return b, rows.Err()
}

// ListBatches returns up to limit batch summaries, newest first
func (s *sqliteStore) ListBatches(ctx context.Context, limit int) ([]store.BatchSummary, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT b.id, b.created_at, COUNT(r.position)
FROM batches b
LEFT JOIN records r ON r.batch_id = b.id
GROUP BY b.id, b.created_at
ORDER BY b.created_at DESC, b.id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.BatchSummary
	for rows.Next() {
		var (
			sum     store.BatchSummary
			created string
		)
		if err := rows.Scan(&sum.ID, &created, &sum.RecordCount); err != nil {
			return nil, err
		}
		sum.CreatedAt = parseTime(created)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
