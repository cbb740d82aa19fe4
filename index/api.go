package index

// Index is a nearest-neighbor index over float32 vectors.
type Index interface {
	// Build constructs the index from the given ids and vectors.
	// ids and vectors must have the same length and vectors a common dimension.
	Build(ids []int64, vectors [][]float32) error

	// Search returns up to k neighbors of query as parallel slices of ids
	// and distances, nearest first. Search must be safe for concurrent use
	// once Build has returned.
	Search(query []float32, k int) (ids []int64, distances []float32, err error)
}

// Saver is implemented by indexes that can persist their built state.
type Saver interface {
	// Save writes the index artifact to path. The artifact may be a single
	// file or a directory of files.
	Save(path string) error
}

// Loader is implemented by indexes that can restore a persisted artifact.
type Loader interface {
	Load(path string) error
}
