package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `
CREATE TABLE IF NOT EXISTS progress (
	exercise   TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	cursor     INTEGER NOT NULL,
	committed  INTEGER NOT NULL DEFAULT 0,
	correct    INTEGER NOT NULL DEFAULT 0,
	incorrect  INTEGER NOT NULL DEFAULT 0,
	complete   INTEGER NOT NULL DEFAULT 0,
	updated_at INTEGER NOT NULL
);`

// Record is the saved state of one exercise.
type Record struct {
	Exercise  string
	Title     string
	Offset    int
	Committed int
	Correct   int
	Incorrect int
	Complete  bool
	UpdatedAt time.Time
}

// Store is a SQLite-backed progress store.
//
// Thread-safety: All methods are safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path. The parent directory is
// created if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("progress dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open progress db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate progress db: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Load returns the record for exercise. The bool is false if none exists.
func (s *Store) Load(ctx context.Context, exercise string) (Record, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT exercise, title, cursor, committed, correct, incorrect, complete, updated_at
		FROM progress WHERE exercise = ?`, exercise)

	r, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("load progress %s: %w", exercise, err)
	}
	return r, true, nil
}

// Save inserts or replaces the record for r.Exercise.
func (s *Store) Save(ctx context.Context, r Record) error {
	if r.Exercise == "" {
		return errors.New("save progress: empty exercise id")
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress (exercise, title, cursor, committed, correct, incorrect, complete, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(exercise) DO UPDATE SET
			title = excluded.title,
			cursor = excluded.cursor,
			committed = excluded.committed,
			correct = excluded.correct,
			incorrect = excluded.incorrect,
			complete = excluded.complete,
			updated_at = excluded.updated_at`,
		r.Exercise, r.Title, r.Offset, r.Committed, r.Correct, r.Incorrect, r.Complete, r.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save progress %s: %w", r.Exercise, err)
	}
	return nil
}

// Delete forgets the record for exercise.
func (s *Store) Delete(ctx context.Context, exercise string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM progress WHERE exercise = ?`, exercise); err != nil {
		return fmt.Errorf("delete progress %s: %w", exercise, err)
	}
	return nil
}

// List returns all records, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT exercise, title, cursor, committed, correct, incorrect, complete, updated_at
		FROM progress ORDER BY updated_at DESC, exercise`)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("list progress: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (Record, error) {
	var r Record
	var updated int64
	err := row.Scan(&r.Exercise, &r.Title, &r.Offset, &r.Committed, &r.Correct, &r.Incorrect, &r.Complete, &updated)
	if err != nil {
		return Record{}, err
	}
	r.UpdatedAt = time.UnixMilli(updated)
	return r, nil
}
