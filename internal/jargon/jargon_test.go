package jargon

import (
	"os"
	"path/filepath"
	"testing"
)

func dict(words ...string) Dictionary {
	d := make(Dictionary)
	for _, w := range words {
		d[w] = struct{}{}
	}
	return d
}

func TestScore(t *testing.T) {
	d := dict("the", "soil", "and", "water")

	result, ok := Score("The soil and the spectrophotometry", d)
	if !ok {
		t.Fatal("Score() ok = false")
	}

	// Counted words: the, soil, and, the, spectrophotometry (5).
	// Jargon: spectrophotometry (1).
	if result.TotalWords != 5 {
		t.Errorf("TotalWords = %d, want 5", result.TotalWords)
	}
	if result.JargonCount != 1 {
		t.Errorf("JargonCount = %d, want 1", result.JargonCount)
	}
	if result.Score != 0.2 {
		t.Errorf("Score = %v, want 0.2", result.Score)
	}
	if len(result.TopJargon) != 1 || result.TopJargon[0].Term != "spectrophotometry" {
		t.Errorf("TopJargon = %+v", result.TopJargon)
	}
}

func TestScore_ShortWordsIgnored(t *testing.T) {
	result, ok := Score("ab cd ee zz xyz", dict())
	if !ok {
		t.Fatal("Score() ok = false")
	}
	if result.TotalWords != 1 {
		t.Errorf("TotalWords = %d, want 1 (only xyz is 3+ letters)", result.TotalWords)
	}
}

func TestScore_NoWords(t *testing.T) {
	for _, text := range []string{"", "   ", "12 34 ??"} {
		if _, ok := Score(text, dict()); ok {
			t.Errorf("Score(%q) ok = true, want false", text)
		}
	}
}

func TestScore_TopJargonOrder(t *testing.T) {
	result, ok := Score("zebra zebra apple apple banana", dict())
	if !ok {
		t.Fatal("Score() ok = false")
	}

	want := []TermCount{
		{Term: "apple", Count: 2}, // count ties break alphabetically
		{Term: "zebra", Count: 2},
		{Term: "banana", Count: 1},
	}
	if len(result.TopJargon) != len(want) {
		t.Fatalf("TopJargon = %+v", result.TopJargon)
	}
	for i, w := range want {
		if result.TopJargon[i] != w {
			t.Errorf("TopJargon[%d] = %+v, want %+v", i, result.TopJargon[i], w)
		}
	}
}

func TestScore_Rounding(t *testing.T) {
	// 1 jargon word of 3: 0.3333 after rounding to 4 places
	result, ok := Score("the and jargonword", dict("the", "and"))
	if !ok {
		t.Fatal("Score() ok = false")
	}
	if result.Score != 0.3333 {
		t.Errorf("Score = %v, want 0.3333", result.Score)
	}
}

func TestLoadDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "The\nsoil\n\n  water  \n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	d, err := LoadDictionary(path)
	if err != nil {
		t.Fatalf("LoadDictionary() error = %v", err)
	}
	if len(d) != 3 {
		t.Errorf("len = %d, want 3", len(d))
	}
	for _, w := range []string{"the", "soil", "water"} {
		if _, ok := d[w]; !ok {
			t.Errorf("dictionary missing %q", w)
		}
	}
}

func TestLoadDictionary_Missing(t *testing.T) {
	if _, err := LoadDictionary(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("LoadDictionary() on missing file should fail")
	}
}

func TestFeatureRecord(t *testing.T) {
	r := Result{Score: 0.5, TotalWords: 10, JargonCount: 5}
	fr := FeatureRecord("10.1/x", r)

	if fr.PaperID != "10.1/x" || fr.ScriptVersion != Version {
		t.Errorf("FeatureRecord = %+v", fr)
	}
	if fr.DataPoints["score"] != 0.5 {
		t.Errorf("score data point = %v", fr.DataPoints["score"])
	}
}
