package vptree

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/viant/annbench/index"
	"github.com/viant/annbench/index/flat"
)

func randomVectors(rng *rand.Rand, n, dim int) ([]int64, [][]float32) {
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

func TestIndex_MatchesFlat(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids, vecs := randomVectors(rng, 300, 8)
	for _, metric := range []index.Metric{index.L2, index.Euclidean} {
		for _, seed := range []int64{0, 42} {
			exact := flat.New(metric)
			if err := exact.Build(ids, vecs); err != nil {
				t.Fatalf("flat Build failed: %v", err)
			}
			tree := New(metric, seed)
			if err := tree.Build(ids, vecs); err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			for q := 0; q < 20; q++ {
				query := vecs[rng.Intn(len(vecs))]
				wantIDs, wantDists, _ := exact.Search(query, 5)
				gotIDs, gotDists, err := tree.Search(query, 5)
				if err != nil {
					t.Fatalf("Search failed: %v", err)
				}
				if len(gotIDs) != len(wantIDs) {
					t.Fatalf("%s seed=%d: got %d ids, want %d", metric, seed, len(gotIDs), len(wantIDs))
				}
				for n := range wantIDs {
					if diff := gotDists[n] - wantDists[n]; diff > 1e-3 || diff < -1e-3 {
						t.Fatalf("%s seed=%d: distance[%d] = %v, want %v", metric, seed, n, gotDists[n], wantDists[n])
					}
				}
				if gotIDs[0] != wantIDs[0] {
					t.Fatalf("%s seed=%d: nearest = %d, want %d", metric, seed, gotIDs[0], wantIDs[0])
				}
			}
		}
	}
}

func TestIndex_EdgeCases(t *testing.T) {
	idx := New(index.Euclidean, 0)
	ids, dists, err := idx.Search([]float32{1}, 3)
	if err != nil || ids != nil || dists != nil {
		t.Fatalf("empty Search = %v, %v, %v", ids, dists, err)
	}
	if err := idx.Build([]int64{1, 2}, [][]float32{{1}}); err == nil {
		t.Fatalf("expected length mismatch error")
	}
	if err := idx.Build([]int64{5}, [][]float32{{1, 1}}); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, _, err := idx.Search([]float32{1}, 1); err == nil {
		t.Fatalf("expected query dimension error")
	}
	ids, _, err = idx.Search([]float32{0, 0}, 10)
	if err != nil || len(ids) != 1 || ids[0] != 5 {
		t.Fatalf("single point Search = %v, %v", ids, err)
	}
}

func TestIndex_SaveLoad(t *testing.T) {
	ids, vecs := randomVectors(rand.New(rand.NewSource(1)), 50, 4)
	idx := New(index.L2, 0)
	if err := idx.Build(ids, vecs); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "vp.index")
	if err := idx.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	restored := New(index.L2, 0)
	if err := restored.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, _, err := restored.Search(vecs[10], 1)
	if err != nil || len(got) != 1 || got[0] != 10 {
		t.Fatalf("restored Search = %v, %v; want [10]", got, err)
	}
}
