package dataset

import (
	"context"
	"fmt"

	"github.com/viant/annbench/engine"
	"github.com/viant/annbench/vector"
)

func loadSQLite(ctx context.Context, cfg Config) (*Dataset, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("dataset: sqlite source requires a database path")
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("dataset: sqlite source requires a dataset name")
	}
	db, err := engine.Open(cfg.Path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	store, err := vector.NewSQLiteStore(db)
	if err != nil {
		return nil, err
	}
	return FromStore(ctx, store, cfg.Name, cfg.Limit)
}

// FromStore loads a named dataset from a vector store.
func FromStore(ctx context.Context, store vector.Store, name string, limit int) (*Dataset, error) {
	ids, vecs, err := store.LoadVectors(ctx, name, limit)
	if err != nil {
		return nil, fmt.Errorf("dataset: load %q: %w", name, err)
	}
	return &Dataset{Name: name, IDs: ids, Vectors: vecs}, nil
}

// Import stores ds in store under ds.Name in batches of batch vectors and
// returns the number of vectors written.
func Import(ctx context.Context, store vector.Store, ds *Dataset, batch int) (int, error) {
	if err := ds.Validate(); err != nil {
		return 0, err
	}
	if batch <= 0 {
		batch = 1000
	}
	written := 0
	for start := 0; start < ds.Len(); start += batch {
		end := start + batch
		if end > ds.Len() {
			end = ds.Len()
		}
		if err := store.AddVectors(ctx, ds.Name, ds.IDs[start:end], ds.Vectors[start:end]); err != nil {
			return written, fmt.Errorf("dataset: import %q: %w", ds.Name, err)
		}
		written = end
	}
	return written, nil
}
