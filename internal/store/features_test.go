package store

import (
	"errors"
	"testing"

	"github.com/danielcoblentz/academic-language-analysis/internal/paper"
)

func testFeatures(paperID string) paper.FeatureRecord {
	return paper.FeatureRecord{
		PaperID:       paperID,
		ScriptVersion: "v1.0",
		DataPoints:    map[string]any{"score": 0.42, "total_words": float64(100)},
	}
}

func TestUpsertFeatures_Roundtrip(t *testing.T) {
	db := testDB(t)

	if err := db.UpsertFeatures(testFeatures("10.1/a")); err != nil {
		t.Fatalf("UpsertFeatures() error = %v", err)
	}

	got, err := db.GetFeatures("10.1/a", "v1.0")
	if err != nil {
		t.Fatalf("GetFeatures() error = %v", err)
	}
	if got.PaperID != "10.1/a" || got.ScriptVersion != "v1.0" {
		t.Errorf("GetFeatures() = %+v", got)
	}
	if got.DataPoints["score"] != 0.42 {
		t.Errorf("score = %v, want 0.42", got.DataPoints["score"])
	}
}

func TestUpsertFeatures_ReplacesByVersionKey(t *testing.T) {
	db := testDB(t)

	rec := testFeatures("10.1/b")
	if err := db.UpsertFeatures(rec); err != nil {
		t.Fatalf("UpsertFeatures() error = %v", err)
	}
	rec.DataPoints = map[string]any{"score": 0.9}
	if err := db.UpsertFeatures(rec); err != nil {
		t.Fatalf("second UpsertFeatures() error = %v", err)
	}

	// Same (paper, version) key: replaced, not duplicated
	count, err := db.CountFeatures()
	if err != nil {
		t.Fatalf("CountFeatures() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountFeatures() = %d, want 1", count)
	}

	// A new stage version is additive
	rec.ScriptVersion = "v2.0"
	if err := db.UpsertFeatures(rec); err != nil {
		t.Fatalf("v2 UpsertFeatures() error = %v", err)
	}
	count, _ = db.CountFeatures()
	if count != 2 {
		t.Errorf("CountFeatures() = %d, want 2", count)
	}
}

func TestGetFeatures_NotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetFeatures("nope", "v1.0"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetFeatures() error = %v, want ErrNotFound", err)
	}
}

func TestFeatureCandidates(t *testing.T) {
	db := testDB(t)

	scored := testRecord("10.1/scored")
	unscored := testRecord("10.1/unscored")
	noAbstract := testRecord("10.1/noabs")
	noAbstract.Content.Abstract = ""

	for _, rec := range []paper.Record{scored, unscored, noAbstract} {
		if _, err := db.UpsertPaper(rec); err != nil {
			t.Fatalf("UpsertPaper() error = %v", err)
		}
	}
	fr := testFeatures("10.1/scored")
	if err := db.UpsertFeatures(fr); err != nil {
		t.Fatalf("UpsertFeatures() error = %v", err)
	}

	candidates, err := db.FeatureCandidates("v1.0", 0, false)
	if err != nil {
		t.Fatalf("FeatureCandidates() error = %v", err)
	}
	if len(candidates) != 1 || candidates[0].ID != "10.1/unscored" {
		t.Errorf("FeatureCandidates() = %+v, want only the unscored paper with an abstract", candidates)
	}

	reprocess, err := db.FeatureCandidates("v1.0", 0, true)
	if err != nil {
		t.Fatalf("FeatureCandidates(reprocess) error = %v", err)
	}
	if len(reprocess) != 2 {
		t.Errorf("FeatureCandidates(reprocess) len = %d, want 2", len(reprocess))
	}
}
