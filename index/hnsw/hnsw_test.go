package hnsw

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/annbench/index"
	"github.com/viant/annbench/index/flat"
)

func vectors(n, dim int) ([]int64, [][]float32) {
	rng := rand.New(rand.NewSource(5))
	ids := make([]int64, n)
	vecs := make([][]float32, n)
	for i := range vecs {
		ids[i] = int64(i)
		vecs[i] = make([]float32, dim)
		for j := range vecs[i] {
			vecs[i][j] = float32(rng.NormFloat64())
		}
	}
	return ids, vecs
}

func TestIndex_Recall(t *testing.T) {
	ids, vecs := vectors(500, 8)
	idx, err := New(index.L2, Options{M: 16, EfSearch: 64, Ml: 0.25, Seed: 1})
	require.NoError(t, err)
	require.NoError(t, idx.Build(ids, vecs))
	assert.Equal(t, 500, idx.Len())

	exact := flat.New(index.L2)
	require.NoError(t, exact.Build(ids, vecs))

	hits, total := 0, 0
	for q := 0; q < len(vecs); q += 10 {
		want, _, err := exact.Search(vecs[q], 10)
		require.NoError(t, err)
		got, dists, err := idx.Search(vecs[q], 10)
		require.NoError(t, err)
		for n := 1; n < len(dists); n++ {
			require.LessOrEqual(t, dists[n-1], dists[n])
		}
		seen := map[int64]bool{}
		for _, id := range got {
			seen[id] = true
		}
		for _, id := range want {
			if seen[id] {
				hits++
			}
			total++
		}
	}
	assert.Greater(t, float64(hits)/float64(total), 0.8)
}

func TestIndex_SaveLoad(t *testing.T) {
	ids, vecs := vectors(100, 4)
	idx, err := New(index.Cosine, Options{M: 8, EfSearch: 32, Ml: 0.25})
	require.NoError(t, err)
	require.NoError(t, idx.Build(ids, vecs))

	path := filepath.Join(t.TempDir(), "saves", "graph.index")
	require.NoError(t, idx.Save(path))

	restored, err := New(index.Cosine, Options{M: 8, EfSearch: 32, Ml: 0.25})
	require.NoError(t, err)
	require.NoError(t, restored.Load(path))
	assert.Equal(t, 100, restored.Len())

	got, _, err := restored.Search(vecs[3], 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, got)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(index.L2, Options{M: 0, EfSearch: 10, Ml: 0.25})
	assert.Error(t, err)
	_, err = New(index.L2, Options{M: 4, EfSearch: 0, Ml: 0.25})
	assert.Error(t, err)
	_, err = New(index.L2, Options{M: 4, EfSearch: 4, Ml: 2})
	assert.Error(t, err)

	b, err := index.Lookup("hnsw")
	require.NoError(t, err)
	assert.Equal(t, []string{"M", "efSearch", "ml", "seed"}, b.ParamNames)
	_, err = b.New(index.L2, 4, b.Resolve(index.Params{"M": "x"}))
	assert.Error(t, err)
}

func TestIndex_Empty(t *testing.T) {
	idx, err := New(index.L2, Options{M: 4, EfSearch: 4, Ml: 0.25})
	require.NoError(t, err)
	got, _, err := idx.Search([]float32{1, 2}, 3)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Error(t, idx.Save(filepath.Join(t.TempDir(), "x")))
}
