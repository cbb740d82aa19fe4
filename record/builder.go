package record

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports distances and identifiers that do not describe
	// the same candidate lists.
	ErrInvalidInput = errors.New("record: invalid input")
	// ErrEmptyBatch reports a search batch without queries; the average
	// search time is undefined for it.
	ErrEmptyBatch = errors.New("record: empty query batch")
)

// Float is the set of distance types returned by index backends.
type Float interface {
	~float32 | ~float64
}

// Integer is the set of identifier types returned by index backends.
type Integer interface {
	~int | ~int32 | ~int64
}

// ExclusionFunc reports whether candidate id must be dropped from the
// neighbor list of the query at position query.
type ExclusionFunc func(query int, id int64) bool

type options struct {
	exclude ExclusionFunc
	selfIDs []int64
	// bySelfIDs is set when exclusion indexes selfIDs by query position.
	bySelfIDs bool
}

// Option configures Build.
type Option func(*options)

// PositionalSelfMatch drops candidates whose identifier equals the query
// position. This is the all-kNN default where query p is database vector p.
func PositionalSelfMatch() Option {
	return func(o *options) {
		o.selfIDs, o.bySelfIDs = nil, false
		o.exclude = func(query int, id int64) bool { return id == int64(query) }
	}
}

// WithSelfIDs drops, for query p, the candidate whose identifier is ids[p].
// Use it when database identifiers are not positional.
func WithSelfIDs(ids []int64) Option {
	return func(o *options) {
		o.selfIDs = ids
		o.bySelfIDs = true
		o.exclude = func(query int, id int64) bool { return id == ids[query] }
	}
}

// WithExclusion drops candidates for which fn returns true.
func WithExclusion(fn ExclusionFunc) Option {
	return func(o *options) {
		o.selfIDs, o.bySelfIDs = nil, false
		o.exclude = fn
	}
}

// WithoutExclusion keeps every candidate.
func WithoutExclusion() Option {
	return func(o *options) {
		o.selfIDs, o.bySelfIDs = nil, false
		o.exclude = nil
	}
}

// Build assembles a Record from the raw batched search output. distances
// and ids are parallel: ids[p][j] is the j-th candidate returned for query p
// and distances[p][j] its distance. Candidate order is preserved.
func Build[D Float, I Integer](distances [][]D, ids [][]I, meta Meta, opts ...Option) (*Record, error) {
	o := &options{}
	PositionalSelfMatch()(o)
	for _, opt := range opts {
		opt(o)
	}
	if len(distances) != len(ids) {
		return nil, fmt.Errorf("%w: %d distance rows vs %d id rows", ErrInvalidInput, len(distances), len(ids))
	}
	if len(distances) == 0 {
		return nil, ErrEmptyBatch
	}
	if o.bySelfIDs && len(o.selfIDs) != len(distances) {
		return nil, fmt.Errorf("%w: %d self ids for %d queries", ErrInvalidInput, len(o.selfIDs), len(distances))
	}
	results := make([][]QueryResult, len(distances))
	for p := range distances {
		row, rowIDs := distances[p], ids[p]
		if len(row) != len(rowIDs) {
			return nil, fmt.Errorf("%w: query %d has %d distances and %d ids", ErrInvalidInput, p, len(row), len(rowIDs))
		}
		out := make([]QueryResult, 0, len(row))
		for j := range row {
			id := int64(rowIDs[j])
			if o.exclude != nil && o.exclude(p, id) {
				continue
			}
			out = append(out, QueryResult{NeighborID: id, Distance: float64(row[j])})
		}
		results[p] = out
	}
	return &Record{
		TotalSearchTimeSeconds:   meta.TotalSearchTimeSeconds,
		AverageSearchTimeSeconds: meta.TotalSearchTimeSeconds / float64(len(distances)),
		BuildTimeSeconds:         meta.BuildTimeSeconds,
		Results:                  results,
		IndexFileSizeBytes:       meta.IndexFileSizeBytes,
	}, nil
}
