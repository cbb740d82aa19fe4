// Package catalog records benchmark runs in a SQLite table so results from
// many runs can be listed and compared. Each run is identified by a UUID and
// points at its result JSON and persisted index.
package catalog
