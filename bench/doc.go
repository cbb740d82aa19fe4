// Package bench runs all-kNN benchmarks: it builds an index over a dataset,
// queries every dataset vector against it, persists the index and writes a
// result record named after the configuration.
package bench
