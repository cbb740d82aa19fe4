package catalog

import "strings"

// DefaultRunsTable is the table holding one row per benchmark run.
const DefaultRunsTable = "bench_runs"

// RunsTableDDL returns the DDL for the runs table.
func RunsTableDDL(table string) string {
	if table == "" {
		table = DefaultRunsTable
	}
	return `CREATE TABLE IF NOT EXISTS ` + table + ` (
    run_id          TEXT PRIMARY KEY,
    dataset         TEXT NOT NULL,
    algorithm       TEXT NOT NULL,
    metric          TEXT NOT NULL,
    params          TEXT NOT NULL DEFAULT '{}',
    k               INTEGER NOT NULL,
    queries         INTEGER NOT NULL,
    build_seconds   REAL NOT NULL,
    search_seconds  REAL NOT NULL,
    average_seconds REAL NOT NULL,
    index_bytes     INTEGER NOT NULL DEFAULT 0,
    result_path     TEXT NOT NULL,
    index_path      TEXT,
    created_at      TEXT NOT NULL
);`
}

// RunsIndexDDL returns the DDL for the lookup index by dataset and algorithm.
func RunsIndexDDL(table string) string {
	if table == "" {
		table = DefaultRunsTable
	}
	return `CREATE INDEX IF NOT EXISTS ` + sanitizeIdentifier(table) + `_dataset_algo ON ` + table + `(dataset, algorithm, created_at);`
}

func sanitizeIdentifier(name string) string {
	if name == "" {
		return ""
	}
	replacer := strings.NewReplacer(".", "_", "-", "_")
	return replacer.Replace(name)
}
