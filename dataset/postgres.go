package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultColumn is the Postgres column read when Config.Column is empty.
const DefaultColumn = "embedding"

func postgresQuery(cfg Config) (string, []any, error) {
	if cfg.Table == "" {
		return "", nil, fmt.Errorf("dataset: postgres source requires a table")
	}
	column := cfg.Column
	if column == "" {
		column = DefaultColumn
	}
	query := fmt.Sprintf("SELECT id, %s FROM %s ORDER BY id",
		pgx.Identifier{column}.Sanitize(), pgx.Identifier(splitQualified(cfg.Table)).Sanitize())
	var args []any
	if cfg.Limit > 0 {
		query += " LIMIT $1"
		args = append(args, cfg.Limit)
	}
	return query, args, nil
}

func splitQualified(name string) []string {
	if schema, table, ok := strings.Cut(name, "."); ok {
		return []string{schema, table}
	}
	return []string{name}
}

func loadPostgres(ctx context.Context, cfg Config) (*Dataset, error) {
	query, args, err := postgresQuery(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dataset: postgres source requires a dsn")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("dataset: failed to create connection pool: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("dataset: failed to ping DB: %w", err)
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dataset: query %s: %w", cfg.Table, err)
	}
	defer rows.Close()
	ds := &Dataset{Name: cfg.Table}
	for rows.Next() {
		var id int64
		var vec []float32
		if err := rows.Scan(&id, &vec); err != nil {
			return nil, fmt.Errorf("dataset: scan %s: %w", cfg.Table, err)
		}
		ds.IDs = append(ds.IDs, id)
		ds.Vectors = append(ds.Vectors, vec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", cfg.Table, err)
	}
	return ds, nil
}
