package main

import (
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/danielcoblentz/academic-language-analysis/internal/paper"
	"github.com/danielcoblentz/academic-language-analysis/internal/pdftext"
)

var extractLimit int

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract full text from downloaded PDFs",
	Long: `Extract pulls plain text out of each downloaded PDF, writes it to a
.txt sidecar next to the PDF, marks the paper's full text as extracted,
and moves it to parsed status.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().IntVarP(&extractLimit, "limit", "n", 0, "Max papers to extract (0 = all)")
	rootCmd.AddCommand(extractCmd)
}

// ExtractResponse is the JSON summary of one extraction run.
type ExtractResponse struct {
	Attempted int               `json:"attempted"`
	Parsed    int               `json:"parsed"`
	Failed    int               `json:"failed"`
	Errors    map[string]string `json:"errors,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenStore(cfg)
	defer db.Close()

	downloaded, err := db.PapersByStatus(paper.StatusDownloaded, extractLimit)
	if err != nil {
		exitWithError(ExitError, "querying downloaded papers: %v", err)
	}
	if len(downloaded) == 0 {
		if humanOutput {
			outputHuman("No downloaded papers to extract. Run 'ala download' first.\n")
			return nil
		}
		return outputJSON(ExtractResponse{})
	}

	var bar *progressbar.ProgressBar
	if humanOutput {
		bar = progressbar.NewOptions(len(downloaded),
			progressbar.OptionSetDescription("extracting"),
			progressbar.OptionShowCount(),
		)
	}

	resp := ExtractResponse{Errors: make(map[string]string)}
	for _, rec := range downloaded {
		if bar != nil {
			bar.Describe(truncateString(rec.Title, ProgressTitleMaxLen))
		}

		resp.Attempted++
		_, _, err := pdftext.ExtractToSidecar(rec.Content.LocalPath)
		if err != nil {
			resp.Failed++
			resp.Errors[rec.ID] = err.Error()
			if statusErr := db.SetStatus(rec.ID, paper.StatusFailed, ""); statusErr != nil {
				resp.Errors[rec.ID] += "; " + statusErr.Error()
			}
		} else if err := db.MarkFullText(rec.ID); err != nil {
			resp.Failed++
			resp.Errors[rec.ID] = err.Error()
		} else {
			resp.Parsed++
		}

		if bar != nil {
			bar.Add(1)
		}
	}

	if len(resp.Errors) == 0 {
		resp.Errors = nil
	}

	if humanOutput {
		outputHuman("\nParsed: %d, Failed: %d\n", resp.Parsed, resp.Failed)
		for id, msg := range resp.Errors {
			outputHuman("  %s: %s\n", id, msg)
		}
		return nil
	}
	return outputJSON(resp)
}
