// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus indexes generated datasets in a SQLite database so that
// several runs can be searched, deduplicated and merged into one training
// file.
package corpus

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/qaextract/internal/dataset"
	"github.com/pdiddy/qaextract/pkg/types"
)

const dbFile = "corpus.db"

// Store manages the corpus SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates dir/corpus.db and its schema.
func NewStore(cfg types.CorpusConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating corpus directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			path TEXT PRIMARY KEY,
			source TEXT,
			preset TEXT,
			grammar TEXT,
			input TEXT,
			file_mod_time TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			source TEXT,
			score REAL,
			dataset TEXT NOT NULL REFERENCES datasets(path)
		)`,
		`CREATE TABLE IF NOT EXISTS dataset_records (
			dataset TEXT NOT NULL REFERENCES datasets(path),
			id TEXT NOT NULL,
			source TEXT,
			score REAL,
			PRIMARY KEY (dataset, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_dataset_records_id ON dataset_records(id)`,
		`CREATE INDEX IF NOT EXISTS idx_records_source ON records(source)`,
		`CREATE INDEX IF NOT EXISTS idx_records_dataset ON records(dataset)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from one ingestion run.
type IngestSummary struct {
	Indexed    int
	Updated    int
	Skipped    int
	Failed     int
	Duplicates int
}

// Total returns the number of dataset files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest indexes the given JSONL datasets. Files unchanged since their
// last ingestion are skipped; changed files replace their earlier
// records. A record whose question and answer are already indexed from
// any dataset counts as a duplicate and is not stored again. Every
// dataset containing a record is remembered, so when a changed file drops
// a record it owned, ownership passes to the next dataset that still
// contains it. Per-file status lines go to w.
func (s *Store) Ingest(ctx context.Context, paths []string, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}

		info, err := os.Stat(abs)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM datasets WHERE path = ?`, abs,
		).Scan(&storedModTime)
		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", path)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		lines, err := dataset.ReadFile(abs)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}

		manifest, err := dataset.ReadManifest(dataset.ManifestPath(abs))
		if err != nil {
			fmt.Fprintf(w, "warning: %s: %v\n", path, err)
		}

		added, dups, err := s.ingestDataset(ctx, abs, modTime, lines, manifest, isUpdate)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}
		summary.Duplicates += dups

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d records, %d duplicates)\n", path, added, dups)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d records, %d duplicates)\n", path, added, dups)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d, duplicates: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed, summary.Duplicates)
	return summary, nil
}

func (s *Store) ingestDataset(ctx context.Context, path, modTime string, lines []types.DatasetLine, m *dataset.Manifest, isUpdate bool) (added, dups int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if err := releaseRecords(ctx, tx, path); err != nil {
			return 0, 0, err
		}
	}

	var source, preset, grammar, input string
	if m != nil {
		source, preset, grammar, input = m.Source, m.Preset, string(m.Grammar), m.Input
	} else if len(lines) > 0 {
		source = lines[0].Source
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO datasets (path, source, preset, grammar, input, file_mod_time)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			source=excluded.source, preset=excluded.preset, grammar=excluded.grammar,
			input=excluded.input, file_mod_time=excluded.file_mod_time`,
		path, source, preset, grammar, input, modTime,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("upserting dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO records (id, question, answer, source, score, dataset)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	member, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO dataset_records (dataset, id, source, score)
		 VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing membership insert: %w", err)
	}
	defer member.Close()

	for _, l := range lines {
		r, ok := l.Record()
		if !ok {
			continue
		}
		id := RecordID(r)
		if _, err := member.ExecContext(ctx, path, id, l.Source, float64(l.Score)); err != nil {
			return 0, 0, fmt.Errorf("recording membership: %w", err)
		}
		res, err := stmt.ExecContext(ctx, id, r.Question, r.Answer, l.Source, float64(l.Score), path)
		if err != nil {
			return 0, 0, fmt.Errorf("inserting record: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			dups++
			continue
		}
		added++
	}

	return added, dups, tx.Commit()
}

// releaseRecords forgets which records path contains. Records path owned
// move to the earliest other dataset that also contains them, taking that
// dataset's source tag and score; the rest are deleted.
func releaseRecords(ctx context.Context, tx *sql.Tx, path string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM dataset_records WHERE dataset = ?`, path); err != nil {
		return fmt.Errorf("deleting old memberships: %w", err)
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE records SET (dataset, source, score) = (
			SELECT m.dataset, m.source, m.score FROM dataset_records m
			WHERE m.id = records.id ORDER BY m.rowid LIMIT 1
		 )
		 WHERE dataset = ? AND EXISTS (SELECT 1 FROM dataset_records m WHERE m.id = records.id)`,
		path,
	)
	if err != nil {
		return fmt.Errorf("reassigning shared records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE dataset = ?`, path); err != nil {
		return fmt.Errorf("deleting old records: %w", err)
	}
	return nil
}

// RecordID derives a stable identifier from a record's question and
// answer: the first 16 hex characters of their SHA-256.
func RecordID(r types.Record) string {
	h := sha256.New()
	h.Write([]byte(r.Question))
	h.Write([]byte{0})
	h.Write([]byte(r.Answer))
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
