// Package jargon scores text for jargon density against a common-words
// dictionary. Any word of three or more letters that is not in the
// dictionary counts as jargon; the score is the jargon fraction of all
// counted words.
package jargon

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/danielcoblentz/academic-language-analysis/internal/paper"
)

// Version tags feature records produced by this scorer. Bump it when the
// scoring rules change so papers get re-extracted.
const Version = "jargon-v1.0"

// topJargonCount is how many of the most frequent jargon terms a result keeps.
const topJargonCount = 10

var wordPattern = regexp.MustCompile(`\b[a-z]{3,}\b`)

// Minimal fallback used when no dictionary file is configured. Real runs
// should point at a 10k common-words list.
var fallbackWords = []string{
	"the", "and", "for", "with", "that", "this", "from", "are", "was", "were",
}

// TermCount is one jargon term with its occurrence count.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Result is the jargon analysis of one text.
type Result struct {
	Score       float64     `json:"score"`
	TotalWords  int         `json:"total_words"`
	JargonCount int         `json:"jargon_count"`
	TopJargon   []TermCount `json:"top_jargon"`
}

// Dictionary is a set of common lowercase words.
type Dictionary map[string]struct{}

// LoadDictionary reads a one-word-per-line dictionary file.
func LoadDictionary(path string) (Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dictionary: %w", err)
	}
	defer f.Close()

	dict := make(Dictionary)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word != "" {
			dict[word] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	return dict, nil
}

// FallbackDictionary returns the tiny built-in word set.
func FallbackDictionary() Dictionary {
	dict := make(Dictionary, len(fallbackWords))
	for _, w := range fallbackWords {
		dict[w] = struct{}{}
	}
	return dict
}

// Score analyzes text against the dictionary. The second result is false
// when the text contains no countable words.
func Score(text string, dict Dictionary) (Result, bool) {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return Result{}, false
	}

	counts := make(map[string]int)
	jargonTotal := 0
	for _, w := range words {
		if _, common := dict[w]; !common {
			counts[w]++
			jargonTotal++
		}
	}

	return Result{
		Score:       math.Round(float64(jargonTotal)/float64(len(words))*10000) / 10000,
		TotalWords:  len(words),
		JargonCount: jargonTotal,
		TopJargon:   topTerms(counts),
	}, true
}

// topTerms returns the most frequent jargon terms, ties broken
// alphabetically for deterministic output.
func topTerms(counts map[string]int) []TermCount {
	terms := make([]TermCount, 0, len(counts))
	for term, count := range counts {
		terms = append(terms, TermCount{Term: term, Count: count})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})
	if len(terms) > topJargonCount {
		terms = terms[:topJargonCount]
	}
	return terms
}

// FeatureRecord packages a result as the versioned feature record stored
// for the paper.
func FeatureRecord(paperID string, r Result) paper.FeatureRecord {
	return paper.FeatureRecord{
		PaperID:       paperID,
		ScriptVersion: Version,
		DataPoints: map[string]any{
			"score":        r.Score,
			"total_words":  r.TotalWords,
			"jargon_count": r.JargonCount,
			"top_jargon":   r.TopJargon,
		},
	}
}
