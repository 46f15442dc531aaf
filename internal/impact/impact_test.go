package impact

import (
	"testing"

	"github.com/danielcoblentz/academic-language-analysis/internal/paper"
)

const testYear = 2026

func TestScoreAt(t *testing.T) {
	tests := []struct {
		name      string
		citations any
		year      any
		want      float64
	}{
		{"published this year", 10, testYear, 10},
		{"five year old paper", 50, testYear - 4, 10},
		{"zero citations", 0, 2020, 0},
		{"missing year", 12, nil, 12},
		{"future year treated as age one", 12, testYear + 2, 12},
		{"zero year treated as missing", 12, 0, 12},
		{"string year", 20, "2025", 10},
		{"non-numeric year", 8, "n/a", 8},
		{"string citations", "14", testYear - 1, 7},
		{"non-numeric citations", "lots", 2020, 0},
		{"negative citations clamp to zero", -5, 2020, 0},
		{"nil citations", nil, 2020, 0},
		{"float citations", 3.5, testYear, 3.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreAt(tt.citations, tt.year, testYear); got != tt.want {
				t.Errorf("ScoreAt(%v, %v, %d) = %v, want %v", tt.citations, tt.year, testYear, got, tt.want)
			}
		})
	}
}

func TestScoreAt_NeverPanics(t *testing.T) {
	// Every combination of malformed input must degrade, not fail.
	values := []any{nil, -1, "x", "", 3.14, []any{1}, map[string]any{"a": 1}, true}
	for _, citations := range values {
		for _, year := range values {
			_ = ScoreAt(citations, year, testYear)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  paper.Classification
	}{
		{"zero is low", 0, paper.ClassificationLow},
		{"boundary one is low", 1.0, paper.ClassificationLow},
		{"just above one is moderate", 1.01, paper.ClassificationModerate},
		{"boundary five is moderate", 5.0, paper.ClassificationModerate},
		{"just above five is high", 5.01, paper.ClassificationHigh},
		{"large score is high", 120, paper.ClassificationHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.score); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.score, got, tt.want)
			}
		})
	}
}
