package vector

import (
	"context"

	"github.com/viant/annbench/index"
)

// Neighbor is a stored vector ranked by distance to a query.
type Neighbor struct {
	ID       int64
	Distance float64
}

// Store keeps named datasets of id/vector pairs.
type Store interface {
	// AddVectors inserts or replaces vectors of dataset.
	AddVectors(ctx context.Context, dataset string, ids []int64, vectors [][]float32) error

	// LoadVectors returns the vectors of dataset in id order. A positive
	// limit keeps only the first limit vectors.
	LoadVectors(ctx context.Context, dataset string, limit int) ([]int64, [][]float32, error)

	// Count returns the number of vectors in dataset.
	Count(ctx context.Context, dataset string) (int, error)

	// Nearest performs an exact k-nearest-neighbor search of query within
	// dataset, nearest first, ties broken by id.
	Nearest(ctx context.Context, dataset string, query []float32, k int, metric index.Metric) ([]Neighbor, error)

	// Remove deletes every vector of dataset.
	Remove(ctx context.Context, dataset string) error
}
