package vector_test

import (
	"context"
	"testing"

	"github.com/viant/annbench/engine"
	"github.com/viant/annbench/index"
	"github.com/viant/annbench/vector"
)

func newStore(t *testing.T) *vector.SQLiteStore {
	t.Helper()
	db, err := engine.Open(":memory:")
	if err != nil {
		t.Fatalf("engine.Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	store, err := vector.NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	return store
}

// TestSQLiteStore_AddLoadRemove exercises inserting, loading, upserting and
// removing a dataset.
func TestSQLiteStore_AddLoadRemove(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	ids := []int64{3, 1, 2}
	vecs := [][]float32{{3, 3}, {1, 1}, {2, 2}}
	if err := store.AddVectors(ctx, "toy", ids, vecs); err != nil {
		t.Fatalf("AddVectors failed: %v", err)
	}
	if err := store.AddVectors(ctx, "other", []int64{1}, [][]float32{{9, 9}}); err != nil {
		t.Fatalf("AddVectors(other) failed: %v", err)
	}

	gotIDs, gotVecs, err := store.LoadVectors(ctx, "toy", 0)
	if err != nil {
		t.Fatalf("LoadVectors failed: %v", err)
	}
	if len(gotIDs) != 3 || gotIDs[0] != 1 || gotIDs[2] != 3 {
		t.Fatalf("LoadVectors ids = %v, want [1 2 3]", gotIDs)
	}
	if gotVecs[1][0] != 2 {
		t.Fatalf("LoadVectors vec[1] = %v, want [2 2]", gotVecs[1])
	}

	limited, _, err := store.LoadVectors(ctx, "toy", 2)
	if err != nil || len(limited) != 2 {
		t.Fatalf("LoadVectors(limit=2) = %v, %v", limited, err)
	}

	// upsert replaces the stored embedding
	if err := store.AddVectors(ctx, "toy", []int64{1}, [][]float32{{5, 5}}); err != nil {
		t.Fatalf("AddVectors(upsert) failed: %v", err)
	}
	if n, err := store.Count(ctx, "toy"); err != nil || n != 3 {
		t.Fatalf("Count = %d, %v; want 3", n, err)
	}
	_, gotVecs, _ = store.LoadVectors(ctx, "toy", 1)
	if gotVecs[0][0] != 5 {
		t.Fatalf("upserted vector = %v, want [5 5]", gotVecs[0])
	}

	if err := store.Remove(ctx, "toy"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if n, _ := store.Count(ctx, "toy"); n != 0 {
		t.Fatalf("Count after Remove = %d, want 0", n)
	}
	if n, _ := store.Count(ctx, "other"); n != 1 {
		t.Fatalf("Remove touched another dataset: Count(other) = %d", n)
	}
}

func TestSQLiteStore_AddErrors(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	if err := store.AddVectors(ctx, "", []int64{1}, [][]float32{{1}}); err == nil {
		t.Fatalf("expected empty dataset error")
	}
	if err := store.AddVectors(ctx, "x", []int64{1, 2}, [][]float32{{1}}); err == nil {
		t.Fatalf("expected length mismatch error")
	}
	if err := store.AddVectors(ctx, "x", []int64{1}, [][]float32{nil}); err == nil {
		t.Fatalf("expected empty vector error")
	}
	if n, _ := store.Count(ctx, "x"); n != 0 {
		t.Fatalf("failed insert left %d rows", n)
	}
}

func TestSQLiteStore_LoadMixedDims(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	if err := store.AddVectors(ctx, "mixed", []int64{1, 2}, [][]float32{{1, 2, 3}, {4, 5}}); err != nil {
		t.Fatalf("AddVectors failed: %v", err)
	}
	if _, _, err := store.LoadVectors(ctx, "mixed", 0); err == nil {
		t.Fatalf("expected an error for vectors of different dimensions")
	}
	ids, vecs, err := store.LoadVectors(ctx, "mixed", 1)
	if err != nil || len(ids) != 1 || len(vecs[0]) != 3 {
		t.Fatalf("LoadVectors(limit=1) = %v, %v, %v", ids, vecs, err)
	}
}

// TestSQLiteStore_Nearest validates that the vec_* SQL functions rank the
// stored vectors for every supported metric.
func TestSQLiteStore_Nearest(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	if err := store.AddVectors(ctx, "toy", []int64{0, 1, 2, 3}, [][]float32{{0, 0.1}, {1, 0}, {0, 1}, {3, 4}}); err != nil {
		t.Fatalf("AddVectors failed: %v", err)
	}

	got, err := store.Nearest(ctx, "toy", []float32{0, 0}, 2, index.L2)
	if err != nil {
		t.Fatalf("Nearest(l2) failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != 0 || got[1].ID != 1 {
		t.Fatalf("Nearest(l2) = %+v, want ids [0 1]", got)
	}

	got, err = store.Nearest(ctx, "toy", []float32{0, 0}, 1, index.Euclidean)
	if err != nil || len(got) != 1 {
		t.Fatalf("Nearest(euclidean) = %+v, %v", got, err)
	}

	got, err = store.Nearest(ctx, "toy", []float32{3, 4}, 4, index.L2)
	if err != nil {
		t.Fatalf("Nearest(l2) failed: %v", err)
	}
	if got[0].ID != 3 || got[0].Distance != 0 {
		t.Fatalf("Nearest(self) = %+v, want id 3 at 0", got[0])
	}
	if len(got) != 4 || got[3].ID != 0 {
		t.Fatalf("Nearest(l2) farthest = %+v, want id 0", got)
	}

	got, err = store.Nearest(ctx, "toy", []float32{1, 0.01}, 1, index.Cosine)
	if err != nil || len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("Nearest(cosine) = %+v, %v; want id 1", got, err)
	}

	if _, err := store.Nearest(ctx, "toy", []float32{1, 0}, 1, index.Metric("hamming")); err == nil {
		t.Fatalf("expected unsupported metric error")
	}
}
