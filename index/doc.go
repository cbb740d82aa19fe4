// Package index defines the abstraction shared by the nearest-neighbor
// backends under benchmark: build from (id, vector) pairs, kNN search
// returning ids and distances in ascending distance order, and optional
// persistence of the built structure. Backends register themselves with
// Register from their init functions, the way database/sql drivers do.
package index
