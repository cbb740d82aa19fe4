// Package evaluate measures result quality: recall of an approximate result
// record against an exact one, with exact ground truth computed in SQLite.
package evaluate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/viant/annbench/index"
	"github.com/viant/annbench/record"
	"github.com/viant/annbench/vector"
)

// ErrMismatch is returned when two records cover different queries.
var ErrMismatch = errors.New("evaluate: records cover different queries")

// Report summarizes recall@K.
type Report struct {
	K        int
	Queries  int
	Mean     float64
	Min      float64
	PerQuery []float64
}

// Recall computes, per query, the share of the first k truth neighbors that
// appear among the first k candidate neighbors. k <= 0 uses each truth row's
// full length. Queries with no truth neighbors count as fully recalled.
func Recall(truth, candidate *record.Record, k int) (*Report, error) {
	if truth == nil || candidate == nil {
		return nil, fmt.Errorf("evaluate: nil record")
	}
	if truth.Queries() != candidate.Queries() {
		return nil, fmt.Errorf("%w: %d vs %d", ErrMismatch, truth.Queries(), candidate.Queries())
	}
	if truth.Queries() == 0 {
		return nil, record.ErrEmptyBatch
	}
	report := &Report{K: k, Queries: truth.Queries(), Min: 1, PerQuery: make([]float64, truth.Queries())}
	var sum float64
	for q, want := range truth.Results {
		n := k
		if n <= 0 {
			n = len(want)
		}
		want = head(want, n)
		got := head(candidate.Results[q], n)
		r := 1.0
		if len(want) > 0 {
			ids := make(map[int64]struct{}, len(got))
			for _, c := range got {
				ids[c.NeighborID] = struct{}{}
			}
			hits := 0
			for _, t := range want {
				if _, ok := ids[t.NeighborID]; ok {
					hits++
				}
			}
			r = float64(hits) / float64(len(want))
		}
		report.PerQuery[q] = r
		sum += r
		if r < report.Min {
			report.Min = r
		}
	}
	report.Mean = sum / float64(report.Queries)
	return report, nil
}

func head(rows []record.QueryResult, k int) []record.QueryResult {
	if k > 0 && len(rows) > k {
		return rows[:k]
	}
	return rows
}

// Subset returns a record holding only the rows at positions, in order.
// Timing and size metadata are carried over unchanged.
func Subset(r *record.Record, positions []int) (*record.Record, error) {
	out := *r
	out.Results = make([][]record.QueryResult, len(positions))
	for i, p := range positions {
		if p < 0 || p >= len(r.Results) {
			return nil, fmt.Errorf("evaluate: position %d out of range [0, %d)", p, len(r.Results))
		}
		out.Results[i] = r.Results[p]
	}
	return &out, nil
}

// SamplePositions draws count distinct positions from [0, n), sorted.
// count >= n returns every position.
func SamplePositions(n, count int, seed int64) []int {
	if count <= 0 || count >= n {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)[:count]
	sort.Ints(perm)
	return perm
}

// SQLiteTruth computes exact neighbors inside the store for the dataset
// vectors at positions (in id order), excluding each query's own id. Row i
// of the returned record belongs to positions[i] and holds up to k neighbors.
func SQLiteTruth(ctx context.Context, store vector.Store, dataset string, metric index.Metric, positions []int, k int) (*record.Record, error) {
	if k <= 0 {
		return nil, fmt.Errorf("evaluate: k must be positive, got %d", k)
	}
	ids, vecs, err := store.LoadVectors(ctx, dataset, 0)
	if err != nil {
		return nil, err
	}
	self := make([]int64, len(positions))
	dists := make([][]float64, len(positions))
	neighbors := make([][]int64, len(positions))
	for i, p := range positions {
		if p < 0 || p >= len(ids) {
			return nil, fmt.Errorf("evaluate: position %d out of range [0, %d)", p, len(ids))
		}
		self[i] = ids[p]
		found, err := store.Nearest(ctx, dataset, vecs[p], k+1, metric)
		if err != nil {
			return nil, err
		}
		for _, n := range found {
			neighbors[i] = append(neighbors[i], n.ID)
			dists[i] = append(dists[i], n.Distance)
		}
	}
	rec, err := record.Build(dists, neighbors, record.Meta{}, record.WithSelfIDs(self))
	if err != nil {
		return nil, err
	}
	for i := range rec.Results {
		rec.Results[i] = head(rec.Results[i], k)
	}
	return rec, nil
}
