// Package store keeps a history of simulate and search runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"lineup/store/migrations"
)

var ErrNotFound = errors.New("run not found")

type Kind string

const (
	KindSimulate Kind = "simulate"
	KindSearch   Kind = "search"
)

// Run is one recorded request and its result, both stored as JSON.
type Run struct {
	ID        int64           `json:"id"`
	Kind      Kind            `json:"kind"`
	Seed      *uint32         `json:"seed,omitempty"`
	Request   json.RawMessage `json:"request"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewRun marshals request and result into a Run.
func NewRun(kind Kind, seed *uint32, request, result any) (Run, error) {
	req, err := json.Marshal(request)
	if err != nil {
		return Run{}, fmt.Errorf("marshal request: %w", err)
	}
	res, err := json.Marshal(result)
	if err != nil {
		return Run{}, fmt.Errorf("marshal result: %w", err)
	}
	return Run{Kind: kind, Seed: seed, Request: req, Result: res}, nil
}

type Store struct {
	sqlDB *sql.DB
}

// Open opens the SQLite database at path and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveRun inserts run and returns its id. A zero CreatedAt is set to now.
func (s *Store) SaveRun(ctx context.Context, run Run) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if run.Kind != KindSimulate && run.Kind != KindSearch {
		return 0, fmt.Errorf("unknown run kind %q", run.Kind)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	var seed sql.NullInt64
	if run.Seed != nil {
		seed = sql.NullInt64{Int64: int64(*run.Seed), Valid: true}
	}

	res, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO runs (kind, seed, request, result, created_at)
VALUES (?, ?, ?, ?, ?)
`,
		string(run.Kind),
		seed,
		string(run.Request),
		string(run.Result),
		run.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("save run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save run: %w", err)
	}
	return id, nil
}

func (s *Store) GetRun(ctx context.Context, id int64) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, kind, seed, request, result, created_at
FROM runs
WHERE id = ?
`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %d: %w", id, err)
	}
	return run, nil
}

// ListRuns lists newest-first runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, kind, seed, request, result, created_at
FROM runs
ORDER BY created_at DESC, id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run       Run
		kind      string
		seed      sql.NullInt64
		request   string
		result    string
		createdAt int64
	)
	if err := row.Scan(&run.ID, &kind, &seed, &request, &result, &createdAt); err != nil {
		return Run{}, err
	}

	run.Kind = Kind(kind)
	if seed.Valid {
		v := uint32(seed.Int64)
		run.Seed = &v
	}
	run.Request = json.RawMessage(request)
	run.Result = json.RawMessage(result)
	run.CreatedAt = time.UnixMilli(createdAt).UTC()
	return run, nil
}
