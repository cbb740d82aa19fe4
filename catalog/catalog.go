package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/viant/annbench/engine"
)

// ErrNotFound is returned by Get for unknown run ids.
var ErrNotFound = errors.New("catalog: run not found")

// Catalog stores runs in a SQLite database.
type Catalog struct {
	db    *sql.DB
	table string
	owned bool
}

// Open opens (or creates) the catalog database at path.
func Open(ctx context.Context, path string) (*Catalog, error) {
	db, err := engine.Open(path)
	if err != nil {
		return nil, err
	}
	c, err := New(ctx, db, DefaultRunsTable)
	if err != nil {
		db.Close()
		return nil, err
	}
	c.owned = true
	return c, nil
}

// New creates a catalog over an open database, creating table if needed.
func New(ctx context.Context, db *sql.DB, table string) (*Catalog, error) {
	if db == nil {
		return nil, fmt.Errorf("catalog: db is nil")
	}
	if table == "" {
		table = DefaultRunsTable
	}
	for _, ddl := range []string{RunsTableDDL(table), RunsIndexDDL(table)} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("catalog: ensure schema: %w", err)
		}
	}
	return &Catalog{db: db, table: table}, nil
}

// Insert stores run, assigning an ID and creation time when unset, and
// returns the run id.
func (c *Catalog) Insert(ctx context.Context, run *Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	} else if _, err := uuid.Parse(run.ID); err != nil {
		return "", fmt.Errorf("catalog: invalid run id %q: %w", run.ID, err)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	params := run.Params
	if params == nil {
		params = map[string]string{}
	}
	encoded, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("catalog: encode params: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `INSERT INTO `+c.table+` (
    run_id, dataset, algorithm, metric, params, k, queries,
    build_seconds, search_seconds, average_seconds, index_bytes,
    result_path, index_path, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Dataset, run.Algorithm, run.Metric, string(encoded), run.K, run.Queries,
		run.BuildSeconds, run.SearchSeconds, run.AverageSeconds, run.IndexBytes,
		run.ResultPath, run.IndexPath, run.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("catalog: insert run %s: %w", run.ID, err)
	}
	return run.ID, nil
}

const selectColumns = `run_id, dataset, algorithm, metric, params, k, queries,
    build_seconds, search_seconds, average_seconds, index_bytes,
    result_path, COALESCE(index_path, ''), created_at`

// Get returns the run with id.
func (c *Catalog) Get(ctx context.Context, id string) (*Run, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM `+c.table+` WHERE run_id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// List returns runs matching filter, newest first.
func (c *Catalog) List(ctx context.Context, filter Filter) ([]*Run, error) {
	var where []string
	var args []interface{}
	if filter.Dataset != "" {
		where = append(where, "dataset = ?")
		args = append(args, filter.Dataset)
	}
	if filter.Algorithm != "" {
		where = append(where, "algorithm = ?")
		args = append(args, filter.Algorithm)
	}
	query := `SELECT ` + selectColumns + ` FROM ` + c.table
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, run_id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()
	var out []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (*Run, error) {
	var run Run
	var params, created string
	if err := s.Scan(&run.ID, &run.Dataset, &run.Algorithm, &run.Metric, &params, &run.K, &run.Queries,
		&run.BuildSeconds, &run.SearchSeconds, &run.AverageSeconds, &run.IndexBytes,
		&run.ResultPath, &run.IndexPath, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(params), &run.Params); err != nil {
		return nil, fmt.Errorf("catalog: run %s params: %w", run.ID, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("catalog: run %s created_at: %w", run.ID, err)
	}
	run.CreatedAt = ts
	return &run, nil
}

// Close closes the database when the catalog opened it.
func (c *Catalog) Close() error {
	if c.owned {
		return c.db.Close()
	}
	return nil
}
