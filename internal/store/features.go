package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielcoblentz/academic-language-analysis/internal/paper"
)

// UpsertFeatures inserts or fully replaces the feature record for its
// (paper, script version) key.
func (d *DB) UpsertFeatures(rec paper.FeatureRecord) error {
	if rec.PaperID == "" {
		return errors.New("feature record has no paper ID")
	}

	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling features for %s: %w", rec.PaperID, err)
	}

	_, err = d.db.Exec(`
		INSERT INTO extracted_features (paper_id, script_version, doc)
		VALUES (?, ?, ?)
		ON CONFLICT(paper_id, script_version) DO UPDATE SET doc = excluded.doc
	`, rec.PaperID, rec.ScriptVersion, string(doc))
	if err != nil {
		return fmt.Errorf("upserting features for %s: %w", rec.PaperID, err)
	}
	return nil
}

// GetFeatures retrieves the feature record for one paper and stage version.
func (d *DB) GetFeatures(paperID, scriptVersion string) (*paper.FeatureRecord, error) {
	var doc string
	err := d.db.QueryRow(`
		SELECT doc FROM extracted_features WHERE paper_id = ? AND script_version = ?
	`, paperID, scriptVersion).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading features for %s: %w", paperID, err)
	}

	var rec paper.FeatureRecord
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("parsing features for %s: %w", paperID, err)
	}
	return &rec, nil
}

// FeatureRecords returns every feature record for one stage version.
func (d *DB) FeatureRecords(scriptVersion string) ([]paper.FeatureRecord, error) {
	rows, err := d.db.Query(`
		SELECT doc FROM extracted_features WHERE script_version = ? ORDER BY paper_id
	`, scriptVersion)
	if err != nil {
		return nil, fmt.Errorf("querying features: %w", err)
	}
	defer rows.Close()

	var records []paper.FeatureRecord
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning features: %w", err)
		}
		var rec paper.FeatureRecord
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return nil, fmt.Errorf("parsing features: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountFeatures returns the total number of stored feature records.
func (d *DB) CountFeatures() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM extracted_features`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting features: %w", err)
	}
	return n, nil
}

// FeatureCandidates returns papers with abstracts that have no feature
// record for the given stage version yet. With reprocess set, already
// extracted papers are included too. A limit of 0 or less means no limit.
func (d *DB) FeatureCandidates(scriptVersion string, limit int, reprocess bool) ([]paper.Record, error) {
	query := `
		SELECT doc FROM papers
		WHERE has_abstract = 1`
	args := []any{}
	if !reprocess {
		query += `
		AND id NOT IN (SELECT paper_id FROM extracted_features WHERE script_version = ?)`
		args = append(args, scriptVersion)
	}
	query += `
		ORDER BY id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying feature candidates: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}
