package catalog

import "time"

// Run mirrors a single row of the bench_runs table.
type Run struct {
	ID             string
	Dataset        string
	Algorithm      string
	Metric         string
	Params         map[string]string
	K              int
	Queries        int
	BuildSeconds   float64
	SearchSeconds  float64
	AverageSeconds float64
	IndexBytes     int64
	ResultPath     string
	IndexPath      string
	CreatedAt      time.Time
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Dataset   string
	Algorithm string
	// Limit caps the number of runs returned; 0 means no limit.
	Limit int
}
