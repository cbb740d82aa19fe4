// Package engine opens SQLite databases through the modernc.org/sqlite driver
// and registers the vector scalar functions used by the store and the
// benchmark catalog.
package engine
