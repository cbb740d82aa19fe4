package vector

import (
	"database/sql"
	"fmt"
)

// Table is the name of the vector table.
const Table = "vectors"

const vectorsSchema = `
CREATE TABLE IF NOT EXISTS vectors (
    dataset TEXT NOT NULL,
    id INTEGER NOT NULL,
    embedding BLOB NOT NULL,
    PRIMARY KEY (dataset, id)
);
`

// EnsureSchema creates the vectors table if it does not already exist.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(vectorsSchema); err != nil {
		return fmt.Errorf("vector: ensure schema: %w", err)
	}
	return nil
}
