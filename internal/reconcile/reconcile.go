// Package reconcile merges a primary OpenAlex work with Crossref and
// Unpaywall enrichment payloads into one canonical paper record.
//
// Each field is resolved through an explicit ordered chain of extractors;
// the first extractor that produces a value wins. Secondary payloads are
// only ever used to fill gaps the primary leaves, and an empty payload is
// the uniform signal that a source had nothing to contribute.
package reconcile

import (
	"sort"
	"time"

	"github.com/danielcoblentz/academic-language-analysis/internal/doi"
	"github.com/danielcoblentz/academic-language-analysis/internal/impact"
	"github.com/danielcoblentz/academic-language-analysis/internal/paper"
	"github.com/danielcoblentz/academic-language-analysis/internal/payload"
)

const (
	// PlaceholderTitle stands in for works the catalog returns untitled.
	PlaceholderTitle = "<no title>"

	// autoIDPrefix marks canonical IDs synthesized from a title excerpt
	// when a work has neither a native catalog ID nor a DOI.
	autoIDPrefix = "auto:"

	// autoIDTitleRunes bounds the title excerpt used in synthesized IDs.
	autoIDTitleRunes = 80
)

// extractor produces an optional value for one step of a fallback chain.
type extractor func() (string, bool)

// firstOf returns the first non-empty value produced by the extractors,
// or "" when the whole chain comes up empty.
func firstOf(extractors ...extractor) string {
	for _, extract := range extractors {
		if v, ok := extract(); ok && v != "" {
			return v
		}
	}
	return ""
}

// field adapts a payload string lookup into an extractor.
func field(p payload.Payload, path ...string) extractor {
	return func() (string, bool) {
		v := p.String(path...)
		return v, v != ""
	}
}

// listField adapts a lookup of the first element of a string array
// (Crossref stores container-title and ISSN this way) into an extractor.
func listField(p payload.Payload, path ...string) extractor {
	return func() (string, bool) {
		list := p.List(path...)
		if len(list) == 0 {
			return "", false
		}
		s, _ := list[0].(string)
		return s, s != ""
	}
}

// Build assembles one canonical record from a primary work payload plus
// Crossref and Unpaywall payloads, relative to the current wall-clock year.
func Build(work, crossref, unpaywall payload.Payload) paper.Record {
	return BuildAt(work, crossref, unpaywall, time.Now().Year())
}

// BuildAt is Build with an explicit current year for the impact score.
func BuildAt(work, crossref, unpaywall payload.Payload, currentYear int) paper.Record {
	title := work.String("title")
	if title == "" {
		title = PlaceholderTitle
	}

	citations, _ := work.Dig("cited_by_count")
	rawYear, _ := work.Dig("publication_year")
	normalizedDOI := doi.Normalize(work.String("doi"))

	journalName := firstOf(
		field(work, "host_venue", "display_name"),
		field(work, "primary_location", "source", "display_name"),
		listField(crossref, "container-title"),
	)
	issn := firstOf(
		field(work, "host_venue", "issn_l"),
		field(work, "primary_location", "source", "issn_l"),
		listField(crossref, "ISSN"),
	)

	pdfURL := firstOf(
		field(work, "best_oa_location", "url_for_pdf"),
		field(work, "primary_location", "pdf_url"),
		field(unpaywall, "best_oa_location", "url_for_pdf"),
		field(unpaywall, "url"),
	)
	oaStatus := firstOf(
		field(work, "best_oa_location", "license"),
		field(unpaywall, "best_oa_location", "license"),
	)

	abstract := firstOf(
		field(work, "abstract"),
		func() (string, bool) {
			text := ReconstructAbstract(work.Map("abstract_inverted_index"))
			return text, text != ""
		},
		field(crossref, "abstract"),
	)

	score := impact.ScoreAt(citations, rawYear, currentYear)
	citationCount, _ := payload.CoerceInt(citations)
	if citationCount < 0 {
		citationCount = 0
	}

	return paper.Record{
		ID:      canonicalID(work.String("id"), normalizedDOI, title),
		Title:   title,
		Year:    yearValue(rawYear),
		Authors: extractAuthors(work, crossref),
		Journal: paper.Journal{Name: journalName, ISSN: issn},
		Impact: paper.Impact{
			CitationCount:        citationCount,
			CitationsPerYear:     score,
			Classification:       impact.Classify(score),
			InfluentialCitations: influentialCitations(work),
		},
		OpenAccess: paper.OpenAccess{
			IsOA:   work.Bool("is_oa") || unpaywall.Bool("is_oa"),
			PDFURL: pdfURL,
			Status: oaStatus,
		},
		Content:          paper.Content{Abstract: abstract},
		ProcessingStatus: paper.InitialStatus(pdfURL),
		Tags:             extractTags(work),
	}
}

// canonicalID picks the identity used for upsert: the catalog's native ID,
// else the normalized DOI, else a synthetic ID from the title. Every record
// gets some ID.
func canonicalID(nativeID, normalizedDOI, title string) string {
	if nativeID != "" {
		return nativeID
	}
	if normalizedDOI != "" {
		return normalizedDOI
	}
	excerpt := []rune(title)
	if len(excerpt) > autoIDTitleRunes {
		excerpt = excerpt[:autoIDTitleRunes]
	}
	return autoIDPrefix + string(excerpt)
}

// yearValue coerces the raw publication year to an optional integer.
// Zero and malformed years are treated as absent.
func yearValue(raw any) *int {
	y, ok := payload.CoerceInt(raw)
	if !ok || y == 0 {
		return nil
	}
	return &y
}

// extractAuthors pulls the structured author list from the work's
// authorships, falling back to Crossref's given/family name parts when the
// primary list is empty. In both cases the affiliation is the first listed
// institution, or "".
func extractAuthors(work, crossref payload.Payload) []paper.Author {
	var authors []paper.Author

	for _, entry := range work.List("authorships") {
		authorship, _ := entry.(map[string]any)
		if authorship == nil {
			continue
		}
		p := payload.Payload(authorship)
		name := p.String("author", "display_name")
		if name == "" {
			continue
		}
		affiliation := ""
		if institutions := p.List("institutions"); len(institutions) > 0 {
			if inst, _ := institutions[0].(map[string]any); inst != nil {
				affiliation = payload.Payload(inst).String("display_name")
			}
		}
		authors = append(authors, paper.Author{Name: name, Affiliation: affiliation})
	}

	if len(authors) > 0 {
		return authors
	}

	for _, entry := range crossref.List("author") {
		a, _ := entry.(map[string]any)
		if a == nil {
			continue
		}
		p := payload.Payload(a)
		name := joinName(p.String("given"), p.String("family"))
		if name == "" {
			continue
		}
		affiliation := ""
		if affs := p.List("affiliation"); len(affs) > 0 {
			if aff, _ := affs[0].(map[string]any); aff != nil {
				affiliation = payload.Payload(aff).String("name")
			}
		}
		authors = append(authors, paper.Author{Name: name, Affiliation: affiliation})
	}

	return authors
}

func joinName(given, family string) string {
	switch {
	case given == "":
		return family
	case family == "":
		return given
	}
	return given + " " + family
}

// ReconstructAbstract rebuilds abstract text from an inverted word index:
// one (position, word) pair per occurrence, sorted ascending by position,
// joined with single spaces. For well-formed input this reproduces the
// original word order exactly. Position collisions are undefined upstream;
// the stable sort keeps them deterministic per payload without promising
// any particular winner.
func ReconstructAbstract(inverted payload.Payload) string {
	if len(inverted) == 0 {
		return ""
	}

	type placed struct {
		pos  int
		word string
	}
	var words []placed
	for word, v := range inverted {
		positions, _ := v.([]any)
		for _, rawPos := range positions {
			if pos, ok := payload.CoerceInt(rawPos); ok {
				words = append(words, placed{pos: pos, word: word})
			}
		}
	}
	if len(words) == 0 {
		return ""
	}

	sort.SliceStable(words, func(i, j int) bool { return words[i].pos < words[j].pos })

	out := make([]byte, 0, len(words)*8)
	for i, w := range words {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, w.word...)
	}
	return string(out)
}

// influentialCitations returns the citation count recorded in the final
// entry of the per-year counts series, or 0 if the series is absent or
// empty.
func influentialCitations(work payload.Payload) int {
	series := work.List("counts_by_year")
	if len(series) == 0 {
		return 0
	}
	last, _ := series[len(series)-1].(map[string]any)
	if last == nil {
		return 0
	}
	return payload.Payload(last).Int("cited_by_count")
}

// extractTags collects the display names of the work's concept tags,
// preserving the catalog's order.
func extractTags(work payload.Payload) []string {
	var tags []string
	for _, entry := range work.List("concepts") {
		concept, _ := entry.(map[string]any)
		if concept == nil {
			continue
		}
		if name := payload.Payload(concept).String("display_name"); name != "" {
			tags = append(tags, name)
		}
	}
	return tags
}
