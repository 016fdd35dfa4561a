// Package ledger archives splice runs and their restore logs in DuckDB so a
// genome can be rebuilt without the per-contig CSV files.
package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// schema is applied on every Open.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS splice_runs (
		run_id VARCHAR,
		seq_id VARCHAR,
		source_path VARCHAR,
		source_size BIGINT,
		source_modtime TIMESTAMP,
		original_len BIGINT,
		cleaned_len BIGINT,
		record_count INTEGER,
		created_at TIMESTAMP,
		PRIMARY KEY (run_id, seq_id)
	)`,
	`CREATE TABLE IF NOT EXISTS restore_records (
		run_id VARCHAR,
		seq_id VARCHAR,
		ordinal INTEGER,
		reinsertion_index BIGINT,
		content VARCHAR,
		delta BIGINT,
		score VARCHAR,
		strand VARCHAR,
		PRIMARY KEY (run_id, seq_id, ordinal)
	)`,
}

// Store is a splice run ledger backed by one DuckDB database.
type Store struct {
	db *sql.DB
}

// Open opens the ledger at path, creating the file, its parent directory
// and the tables as needed. An empty path opens a private in-memory ledger.
func Open(path string) (*Store, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %q: %w", path, err)
	}
	for _, ddl := range schema {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("create ledger tables: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the database for ad hoc queries.
func (s *Store) DB() *sql.DB {
	return s.db
}
