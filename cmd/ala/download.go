package main

import (
	"context"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/danielcoblentz/academic-language-analysis/internal/download"
	"github.com/danielcoblentz/academic-language-analysis/internal/paper"
)

var downloadLimit int

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download open-access PDFs for pending papers",
	Long: `Download fetches the PDF for each paper in pending_download status,
saving it under the configured PDF root partitioned by year. Successful
downloads move to downloaded; failures move to failed and can be retried
after the next fetch re-resolves the record.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().IntVarP(&downloadLimit, "limit", "n", 10, "Max PDFs to download")
	rootCmd.AddCommand(downloadCmd)
}

// DownloadResponse is the JSON summary of one download run.
type DownloadResponse struct {
	Attempted int               `json:"attempted"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Errors    map[string]string `json:"errors,omitempty"`
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenStore(cfg)
	defer db.Close()

	pending, err := db.PapersByStatus(paper.StatusPendingDownload, downloadLimit)
	if err != nil {
		exitWithError(ExitError, "querying pending papers: %v", err)
	}
	if len(pending) == 0 {
		if humanOutput {
			outputHuman("No papers to download.\n")
			return nil
		}
		return outputJSON(DownloadResponse{})
	}

	var bar *progressbar.ProgressBar
	if humanOutput {
		bar = progressbar.NewOptions(len(pending),
			progressbar.OptionSetDescription("downloading"),
			progressbar.OptionShowCount(),
		)
	}

	dl := download.New(cfg.PDFRoot)
	ctx := context.Background()

	resp := DownloadResponse{Errors: make(map[string]string)}
	for _, rec := range pending {
		if bar != nil {
			bar.Describe(truncateString(rec.Title, ProgressTitleMaxLen))
		}

		resp.Attempted++
		path, err := dl.Fetch(ctx, rec)
		if err != nil {
			resp.Failed++
			resp.Errors[rec.ID] = err.Error()
			if statusErr := db.SetStatus(rec.ID, paper.StatusFailed, ""); statusErr != nil {
				resp.Errors[rec.ID] += "; " + statusErr.Error()
			}
		} else {
			resp.Succeeded++
			if statusErr := db.SetStatus(rec.ID, paper.StatusDownloaded, path); statusErr != nil {
				resp.Errors[rec.ID] = statusErr.Error()
			}
		}

		if bar != nil {
			bar.Add(1)
		}
	}

	if len(resp.Errors) == 0 {
		resp.Errors = nil
	}

	if humanOutput {
		outputHuman("\nSuccess: %d, Failed: %d\n", resp.Succeeded, resp.Failed)
		for id, msg := range resp.Errors {
			outputHuman("  %s: %s\n", id, msg)
		}
		return nil
	}
	return outputJSON(resp)
}
