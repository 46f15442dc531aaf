// Package store persists canonical paper documents and extracted feature
// records in SQLite.
//
// Each paper is stored as one JSON document keyed by its canonical ID, with
// a few columns lifted out for status queries. Upsert is a full-document
// replace: a rerun of the pipeline overwrites the stored record wholesale
// rather than patching fields.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/danielcoblentz/academic-language-analysis/internal/paper"
)

// ErrNotFound is returned when a paper or feature record does not exist.
var ErrNotFound = errors.New("not found")

// ErrTerminalStatus is returned when a status transition is requested for a
// paper whose status never progresses (no_pdf_available).
var ErrTerminalStatus = errors.New("paper status is terminal")

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- Canonical paper documents, one JSON doc per canonical ID
		CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			processing_status TEXT NOT NULL,
			pub_year INTEGER,
			has_abstract INTEGER NOT NULL,
			doc TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_papers_status ON papers(processing_status);

		-- Derived data points per paper and extraction-stage version
		CREATE TABLE IF NOT EXISTS extracted_features (
			paper_id TEXT NOT NULL,
			script_version TEXT NOT NULL,
			doc TEXT NOT NULL,
			PRIMARY KEY (paper_id, script_version)
		);
	`

	_, err := db.Exec(schema)
	return err
}

// UpsertPaper inserts the record if its ID is unseen, or fully replaces the
// stored document otherwise. It reports whether a new row was inserted.
func (d *DB) UpsertPaper(rec paper.Record) (bool, error) {
	if rec.ID == "" {
		return false, errors.New("record has no ID")
	}

	doc, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("marshaling paper %s: %w", rec.ID, err)
	}

	var exists bool
	err = d.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM papers WHERE id = ?)`, rec.ID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking paper %s: %w", rec.ID, err)
	}

	_, err = d.db.Exec(`
		INSERT INTO papers (id, processing_status, pub_year, has_abstract, doc)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			processing_status = excluded.processing_status,
			pub_year = excluded.pub_year,
			has_abstract = excluded.has_abstract,
			doc = excluded.doc
	`, rec.ID, string(rec.ProcessingStatus), nullableYear(rec.Year), boolInt(rec.Content.Abstract != ""), string(doc))
	if err != nil {
		return false, fmt.Errorf("upserting paper %s: %w", rec.ID, err)
	}

	return !exists, nil
}

// GetPaper retrieves a paper by its canonical ID.
func (d *DB) GetPaper(id string) (*paper.Record, error) {
	var doc string
	err := d.db.QueryRow(`SELECT doc FROM papers WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading paper %s: %w", id, err)
	}

	var rec paper.Record
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("parsing paper %s: %w", id, err)
	}
	return &rec, nil
}

// CountPapers returns the total number of stored papers.
func (d *DB) CountPapers() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

// CountWithAbstract returns the number of papers with a non-empty abstract.
func (d *DB) CountWithAbstract() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM papers WHERE has_abstract = 1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers with abstracts: %w", err)
	}
	return n, nil
}

// CountByStatus returns the number of papers in each processing status.
func (d *DB) CountByStatus() (map[paper.Status]int, error) {
	rows, err := d.db.Query(`SELECT processing_status, COUNT(*) FROM papers GROUP BY processing_status`)
	if err != nil {
		return nil, fmt.Errorf("counting papers by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[paper.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		counts[paper.Status(status)] = n
	}
	return counts, rows.Err()
}

// PapersByStatus returns up to limit papers in the given processing status.
// A limit of 0 or less returns all of them.
func (d *DB) PapersByStatus(status paper.Status, limit int) ([]paper.Record, error) {
	query := `SELECT doc FROM papers WHERE processing_status = ? ORDER BY id`
	args := []any{string(status)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers by status: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// SetStatus transitions a paper's processing status, optionally recording
// the local path of a downloaded artifact. Papers in a terminal status are
// never transitioned; only a fresh pipeline run can replace them.
func (d *DB) SetStatus(id string, status paper.Status, localPath string) error {
	rec, err := d.GetPaper(id)
	if err != nil {
		return err
	}
	if rec.ProcessingStatus.Terminal() {
		return fmt.Errorf("paper %s: %w", id, ErrTerminalStatus)
	}

	rec.ProcessingStatus = status
	if localPath != "" {
		rec.Content.LocalPath = localPath
	}
	return d.replacePaper(*rec)
}

// MarkFullText records that a paper's full text has been extracted and
// moves it to the parsed status.
func (d *DB) MarkFullText(id string) error {
	rec, err := d.GetPaper(id)
	if err != nil {
		return err
	}
	if rec.ProcessingStatus.Terminal() {
		return fmt.Errorf("paper %s: %w", id, ErrTerminalStatus)
	}

	rec.Content.FullTextExtracted = true
	rec.ProcessingStatus = paper.StatusParsed
	return d.replacePaper(*rec)
}

// replacePaper writes back a mutated record without insert/update
// accounting.
func (d *DB) replacePaper(rec paper.Record) error {
	if _, err := d.UpsertPaper(rec); err != nil {
		return err
	}
	return nil
}

func scanPapers(rows *sql.Rows) ([]paper.Record, error) {
	var papers []paper.Record
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		var rec paper.Record
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return nil, fmt.Errorf("parsing paper: %w", err)
		}
		papers = append(papers, rec)
	}
	return papers, rows.Err()
}

func nullableYear(year *int) any {
	if year == nil {
		return nil
	}
	return *year
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
