// Package paper defines the canonical document types produced by the
// reconciliation pipeline and stored in the papers database.
package paper

// Classification is the three-tier impact classification derived from a
// paper's citations-per-year score.
type Classification string

const (
	ClassificationHigh     Classification = "HIGH"
	ClassificationModerate Classification = "MODERATE"
	ClassificationLow      Classification = "LOW"
)

// Status is the processing workflow state of a paper.
type Status string

const (
	StatusPendingDownload Status = "pending_download"
	StatusDownloaded      Status = "downloaded"
	StatusPendingParse    Status = "pending_parse"
	StatusParsed          Status = "parsed"
	StatusFailed          Status = "failed"
	StatusNoPDF           Status = "no_pdf_available"
)

// Statuses lists every workflow state, in pipeline order. Used for status
// breakdown reporting.
var Statuses = []Status{
	StatusPendingDownload,
	StatusDownloaded,
	StatusPendingParse,
	StatusParsed,
	StatusFailed,
	StatusNoPDF,
}

// Terminal reports whether a status never transitions further. A paper with
// no resolvable PDF stays that way until a fresh pipeline run re-resolves
// the whole record.
func (s Status) Terminal() bool {
	return s == StatusNoPDF
}

// InitialStatus derives the starting workflow state from the resolved PDF
// URL: papers with a link wait for download, the rest are terminal.
func InitialStatus(pdfURL string) Status {
	if pdfURL != "" {
		return StatusPendingDownload
	}
	return StatusNoPDF
}

// Author is one author of a paper with their first listed affiliation.
type Author struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
}

// Journal identifies the publication venue.
type Journal struct {
	Name string `json:"name"`
	ISSN string `json:"issn"`
}

// Impact carries raw and derived citation metrics. Classification is always
// consistent with CitationsPerYear; the two are computed together and never
// stored independently.
type Impact struct {
	CitationCount        int            `json:"citation_count"`
	CitationsPerYear     float64        `json:"citations_per_year"`
	Classification       Classification `json:"classification"`
	InfluentialCitations int            `json:"influential_citations"`
}

// OpenAccess records whether and where a paper is freely readable.
type OpenAccess struct {
	IsOA   bool   `json:"is_oa"`
	PDFURL string `json:"pdf_url"`
	Status string `json:"status"`
}

// Content holds the paper's text artifacts as they move through the
// download and extraction stages.
type Content struct {
	Abstract          string `json:"abstract"`
	FullTextExtracted bool   `json:"full_text_extracted"`
	LocalPath         string `json:"local_path,omitempty"`
}

// Record is the canonical reconciled paper document. ID is the sole
// identity used for upsert and never changes once assigned.
type Record struct {
	ID               string     `json:"_id"`
	Title            string     `json:"title"`
	Year             *int       `json:"year"`
	Authors          []Author   `json:"authors"`
	Journal          Journal    `json:"journal"`
	Impact           Impact     `json:"impact"`
	OpenAccess       OpenAccess `json:"open_access"`
	Content          Content    `json:"content"`
	ProcessingStatus Status     `json:"processing_status"`
	Tags             []string   `json:"tags"`
}

// FeatureRecord associates a paper with derived data points from one
// versioned extraction stage. It is keyed by (PaperID, ScriptVersion) and
// independent of the paper document itself.
type FeatureRecord struct {
	PaperID       string         `json:"paper_id"`
	ScriptVersion string         `json:"script_version"`
	DataPoints    map[string]any `json:"data_points"`
}
