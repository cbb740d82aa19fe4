package vector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/viant/annbench/index"
)

// SQLiteStore is a Store backed by the vectors table. Nearest relies on the
// vec_* scalar functions, so the database must be opened with engine.Open.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite-backed Store and ensures its schema.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("vector: db is nil")
	}
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// AddVectors upserts vectors of dataset in one transaction.
func (s *SQLiteStore) AddVectors(ctx context.Context, dataset string, ids []int64, vectors [][]float32) error {
	if dataset == "" {
		return fmt.Errorf("vector: dataset name is empty")
	}
	if len(ids) != len(vectors) {
		return fmt.Errorf("vector: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO vectors(dataset, id, embedding) VALUES(?, ?, ?)
ON CONFLICT(dataset, id) DO UPDATE SET embedding = excluded.embedding`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	var emb []byte
	for i, id := range ids {
		if len(vectors[i]) == 0 {
			return fmt.Errorf("vector: empty vector for id %d", id)
		}
		emb = AppendEmbedding(emb[:0], vectors[i])
		if _, err := stmt.ExecContext(ctx, dataset, id, emb); err != nil {
			return fmt.Errorf("vector: insert id %d: %w", id, err)
		}
	}
	return tx.Commit()
}

// LoadVectors returns the vectors of dataset in id order.
func (s *SQLiteStore) LoadVectors(ctx context.Context, dataset string, limit int) ([]int64, [][]float32, error) {
	query := `SELECT id, embedding FROM vectors WHERE dataset = ? ORDER BY id`
	args := []interface{}{dataset}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var ids []int64
	var vecs [][]float32
	for rows.Next() {
		var id int64
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, nil, err
		}
		vec, err := DecodeEmbedding(blob)
		if err != nil {
			return nil, nil, fmt.Errorf("vector: id %d: %w", id, err)
		}
		if len(vecs) > 0 && len(vec) != len(vecs[0]) {
			return nil, nil, fmt.Errorf("vector: id %d has dim %d, dataset %s has dim %d", id, len(vec), dataset, len(vecs[0]))
		}
		ids = append(ids, id)
		vecs = append(vecs, vec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return ids, vecs, nil
}

// Count returns the number of vectors stored for dataset.
func (s *SQLiteStore) Count(ctx context.Context, dataset string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vectors WHERE dataset = ?`, dataset).Scan(&n)
	return n, err
}

// Nearest ranks the vectors of dataset by distance to query in SQL.
func (s *SQLiteStore) Nearest(ctx context.Context, dataset string, query []float32, k int, metric index.Metric) ([]Neighbor, error) {
	if k <= 0 {
		return nil, nil
	}
	fn, err := sqlFunction(metric)
	if err != nil {
		return nil, err
	}
	q, err := EncodeEmbedding(query)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, `+fn+`(embedding, ?) AS d FROM vectors WHERE dataset = ? ORDER BY d, id LIMIT ?`,
		q, dataset, k)
	if err != nil {
		return nil, fmt.Errorf("vector: nearest: %w", err)
	}
	defer rows.Close()

	var out []Neighbor
	for rows.Next() {
		var n Neighbor
		if err := rows.Scan(&n.ID, &n.Distance); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vector: nearest: %w", err)
	}
	return out, nil
}

func sqlFunction(metric index.Metric) (string, error) {
	switch metric {
	case index.L2:
		return "vec_l2sq", nil
	case index.Euclidean:
		return "vec_l2", nil
	case index.Cosine:
		return "vec_cosine_distance", nil
	default:
		return "", fmt.Errorf("vector: unsupported metric %q", metric)
	}
}

// Remove deletes every vector of dataset.
func (s *SQLiteStore) Remove(ctx context.Context, dataset string) error {
	if dataset == "" {
		return fmt.Errorf("vector: Remove called with empty dataset")
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM vectors WHERE dataset = ?`, dataset)
	return err
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
