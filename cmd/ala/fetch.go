package main

import (
	"context"
	"errors"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/danielcoblentz/academic-language-analysis/internal/config"
	"github.com/danielcoblentz/academic-language-analysis/internal/crossref"
	"github.com/danielcoblentz/academic-language-analysis/internal/openalex"
	"github.com/danielcoblentz/academic-language-analysis/internal/paper"
	"github.com/danielcoblentz/academic-language-analysis/internal/pipeline"
	"github.com/danielcoblentz/academic-language-analysis/internal/unpaywall"
)

var fetchPerPage int

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch, enrich, reconcile, and upsert a batch of papers",
	Long: `Fetch queries the catalog for open-access works with abstracts under
the configured topic, enriches each work from Crossref and Unpaywall,
reconciles the three payloads into one canonical record, and upserts it
into the papers database keyed by canonical ID. Re-running converges to
the same stored state.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVarP(&fetchPerPage, "per-page", "n", 0, "Batch size (default from config)")
	rootCmd.AddCommand(fetchCmd)
}

// FetchResponse is the JSON summary of one fetch run.
type FetchResponse struct {
	TotalMatches int `json:"total_matches"`
	pipeline.Report
	Failed int           `json:"failed"`
	Sample []SamplePaper `json:"sample,omitempty"`
}

// SamplePaper is the abbreviated record shown in fetch summaries.
type SamplePaper struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Classification paper.Classification `json:"classification"`
	Citations      int                  `json:"citations"`
	Abstract       string               `json:"abstract,omitempty"`
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingTopic) {
			exitWithError(ExitConfigError, "%v", err)
		}
		exitWithError(ExitConfigError, "invalid configuration: %v", err)
	}

	db := mustOpenStore(cfg)
	defer db.Close()

	catalog := openalex.NewClient(
		openalex.WithBaseURL(cfg.BaseURL),
		openalex.WithMailto(cfg.Email),
	)

	perPage := cfg.PerPage
	if fetchPerPage > 0 {
		perPage = fetchPerPage
	}

	ctx := context.Background()
	page, err := catalog.ListWorks(ctx, openalex.Query{
		TopicID:  cfg.TopicID,
		FromYear: cfg.FromYear,
		ToYear:   cfg.ToYear,
		PerPage:  perPage,
	})
	if err != nil {
		exitWithError(ExitError, "fetching works: %v", err)
	}

	var bar *progressbar.ProgressBar
	if humanOutput {
		outputHuman("Found %d total matches, processing %d...\n", page.Count, len(page.Results))
		bar = progressbar.NewOptions(len(page.Results),
			progressbar.OptionSetDescription("enriching"),
			progressbar.OptionShowCount(),
		)
	}

	pipe := &pipeline.Pipeline{
		Crossref:  crossref.NewClient(),
		Unpaywall: unpaywall.NewClient(unpaywall.WithEmail(cfg.Email)),
		Store:     db,
		OnRecord: func(rec paper.Record) {
			if bar != nil {
				bar.Describe(truncateString(rec.Title, ProgressTitleMaxLen))
				bar.Add(1)
			}
		},
	}

	report := pipe.Run(ctx, page.Results)

	resp := FetchResponse{
		TotalMatches: page.Count,
		Report:       report,
		Failed:       report.Failed(),
	}
	for _, rec := range report.Sample {
		resp.Sample = append(resp.Sample, SamplePaper{
			ID:             rec.ID,
			Title:          truncateString(rec.Title, SampleTitleMaxLen),
			Classification: rec.Impact.Classification,
			Citations:      rec.Impact.CitationCount,
			Abstract:       truncateString(rec.Content.Abstract, 100),
		})
	}

	if humanOutput {
		printFetchHuman(resp)
		return nil
	}
	return outputJSON(resp)
}

func printFetchHuman(resp FetchResponse) {
	outputHuman("\nStage 1 complete\n")
	outputHuman("  Total processed: %d\n", resp.Processed)
	outputHuman("  With abstracts:  %d\n", resp.WithAbstracts)
	outputHuman("  New in DB:       %d\n", resp.Inserted)
	outputHuman("  Updated:         %d\n", resp.Updated)
	if resp.Failed > 0 {
		outputHuman("  Failed:          %d\n", resp.Failed)
		for _, f := range resp.Failures {
			outputHuman("    %s: %s\n", f.ID, f.Err)
		}
	}

	if len(resp.Sample) > 0 {
		outputHuman("\nSample papers:\n")
		for _, s := range resp.Sample {
			outputHuman("  [%s] %s (%d citations)\n", s.Classification, s.Title, s.Citations)
		}
	}
	outputHuman("\nNext: ala download\n")
}
