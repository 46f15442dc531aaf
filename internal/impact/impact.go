// Package impact computes citation-rate scores and impact classifications.
//
// Everything here is total: malformed citation counts coerce to zero,
// malformed or future publication years coerce to an age of one year, and
// no input combination can divide by zero or panic.
package impact

import (
	"time"

	"github.com/danielcoblentz/academic-language-analysis/internal/paper"
	"github.com/danielcoblentz/academic-language-analysis/internal/payload"
)

// Classification thresholds, applied in order. Boundary values fall to the
// lower tier.
const (
	highThreshold     = 5.0
	moderateThreshold = 1.0
)

// Score computes citations per year since publication, relative to the
// current wall-clock year.
func Score(citations, year any) float64 {
	return ScoreAt(citations, year, time.Now().Year())
}

// ScoreAt computes citations per year relative to an explicit current year.
// A missing, malformed, zero, or future year gives the paper an age of
// exactly 1; otherwise age is at least 1, so freshly published work scores
// its full citation count.
func ScoreAt(citations, year any, currentYear int) float64 {
	age := 1
	if y, ok := payload.CoerceInt(year); ok && y != 0 && y <= currentYear {
		age = max(1, currentYear-y+1)
	}

	count, ok := payload.CoerceFloat(citations)
	if !ok || count < 0 {
		count = 0
	}

	return count / float64(age)
}

// Classify maps a citations-per-year score to a three-tier classification.
func Classify(score float64) paper.Classification {
	switch {
	case score > highThreshold:
		return paper.ClassificationHigh
	case score > moderateThreshold:
		return paper.ClassificationModerate
	default:
		return paper.ClassificationLow
	}
}
