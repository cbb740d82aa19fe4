package dataset

import (
	"context"
	"fmt"
	"math/rand"
)

// Synthetic returns n standard-normal vectors of dimension dim drawn from a
// generator seeded with seed.
func Synthetic(name string, n, dim int, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))
	vecs := make([][]float32, n)
	for i := range vecs {
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = float32(rng.NormFloat64())
		}
		vecs[i] = vec
	}
	return Positional(name, vecs)
}

func loadSynthetic(_ context.Context, cfg Config) (*Dataset, error) {
	if cfg.Count <= 0 || cfg.Dim <= 0 {
		return nil, fmt.Errorf("dataset: synthetic source requires positive count and dim, got %d and %d", cfg.Count, cfg.Dim)
	}
	return Synthetic(cfg.Name, cfg.Count, cfg.Dim, cfg.Seed), nil
}
