// Package vector stores benchmark vectors in SQLite and provides the
// encoding and distance helpers shared with the SQL functions:
//   - Store interface and SQLiteStore over the vectors table
//   - schema helpers
//   - embedding encoding (BLOB) and distance functions
package vector
