// Package record assembles the per-run benchmark record: search and build
// timings, the persisted index size, and every query's neighbor list with
// self-matches removed. Records serialize to the JSON layout consumed by the
// result analysis tooling (searchall, searchtime, buildtime, results,
// filesize).
package record
