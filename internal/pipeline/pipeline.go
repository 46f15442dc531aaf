// Package pipeline orchestrates the ingest stage: for each primary catalog
// payload it normalizes the DOI, gathers enrichment payloads, reconciles
// the canonical record, and upserts it into the store.
//
// Processing is sequential over the batch. A secondary-source failure
// degrades field resolution for that record only, and a store failure on
// one record is recorded and the batch continues; re-running the same
// source data converges to the same stored state.
package pipeline

import (
	"context"

	"github.com/danielcoblentz/academic-language-analysis/internal/doi"
	"github.com/danielcoblentz/academic-language-analysis/internal/paper"
	"github.com/danielcoblentz/academic-language-analysis/internal/payload"
	"github.com/danielcoblentz/academic-language-analysis/internal/reconcile"
)

// Enricher looks up a secondary metadata payload for a normalized DOI.
// Implementations return an empty payload on any failure.
type Enricher interface {
	Lookup(ctx context.Context, doi string) payload.Payload
}

// Store is the document store the pipeline writes to.
type Store interface {
	UpsertPaper(rec paper.Record) (inserted bool, err error)
}

// Failure records one paper that could not be persisted.
type Failure struct {
	ID  string `json:"id"`
	Err string `json:"error"`
}

// Report summarizes one batch run.
type Report struct {
	Processed     int       `json:"processed"`
	WithAbstracts int       `json:"with_abstracts"`
	Inserted      int       `json:"inserted"`
	Updated       int       `json:"updated"`
	Failures      []Failure `json:"failures,omitempty"`
	// Sample holds the first few reconciled records for summary output.
	Sample []paper.Record `json:"-"`
}

// sampleSize is how many reconciled records a report keeps for display.
const sampleSize = 3

// Pipeline wires the enrichment sources and the store for a batch run.
type Pipeline struct {
	Crossref  Enricher
	Unpaywall Enricher
	Store     Store

	// OnRecord, if set, is called after each record is reconciled,
	// before it is persisted. Used for progress reporting.
	OnRecord func(rec paper.Record)
}

// Run reconciles and persists one batch of primary work payloads,
// sequentially and in order. It always runs the batch to completion;
// per-record persistence failures are collected in the report.
func (p *Pipeline) Run(ctx context.Context, works []payload.Payload) Report {
	var report Report

	for _, work := range works {
		normalized := doi.Normalize(work.String("doi"))

		crossref := payload.Payload{}
		unpaywall := payload.Payload{}
		if normalized != "" {
			crossref = p.Crossref.Lookup(ctx, normalized)
			unpaywall = p.Unpaywall.Lookup(ctx, normalized)
		}

		rec := reconcile.Build(work, crossref, unpaywall)
		if p.OnRecord != nil {
			p.OnRecord(rec)
		}

		report.Processed++
		if rec.Content.Abstract != "" {
			report.WithAbstracts++
		}
		if len(report.Sample) < sampleSize {
			report.Sample = append(report.Sample, rec)
		}

		inserted, err := p.Store.UpsertPaper(rec)
		if err != nil {
			report.Failures = append(report.Failures, Failure{ID: rec.ID, Err: err.Error()})
			continue
		}
		if inserted {
			report.Inserted++
		} else {
			report.Updated++
		}
	}

	return report
}

// Failed returns the number of records that could not be persisted.
func (r Report) Failed() int {
	return len(r.Failures)
}
