package record

import (
	"encoding/json"
	"fmt"
)

// QueryResult is a single surviving neighbor of a query.
// It serializes as a two element array: [id, distance].
type QueryResult struct {
	NeighborID int64
	Distance   float64
}

// MarshalJSON encodes the result as [id, distance].
func (q QueryResult) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{q.NeighborID, q.Distance})
}

// UnmarshalJSON decodes the [id, distance] form.
func (q *QueryResult) UnmarshalJSON(data []byte) error {
	var pair []json.Number
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("record: query result: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("record: query result: want [id, distance], got %d elements", len(pair))
	}
	id, err := pair[0].Int64()
	if err != nil {
		return fmt.Errorf("record: query result id: %w", err)
	}
	dist, err := pair[1].Float64()
	if err != nil {
		return fmt.Errorf("record: query result distance: %w", err)
	}
	q.NeighborID, q.Distance = id, dist
	return nil
}

// Record is the normalized summary of one benchmark run.
type Record struct {
	TotalSearchTimeSeconds   float64         `json:"searchall"`
	AverageSearchTimeSeconds float64         `json:"searchtime"`
	BuildTimeSeconds         float64         `json:"buildtime"`
	Results                  [][]QueryResult `json:"results"`
	IndexFileSizeBytes       int64           `json:"filesize"`
}

// Queries returns the number of queries in the record.
func (r *Record) Queries() int { return len(r.Results) }

// Meta carries the run measurements taken by the caller around the index
// library calls.
type Meta struct {
	TotalSearchTimeSeconds float64
	BuildTimeSeconds       float64
	IndexFileSizeBytes     int64
}
