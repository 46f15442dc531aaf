package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danielcoblentz/academic-language-analysis/internal/paper"
	"github.com/danielcoblentz/academic-language-analysis/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pipeline status and suggested next step",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// StatusResponse is the JSON pipeline status report.
type StatusResponse struct {
	Papers        int                  `json:"papers"`
	WithAbstracts int                  `json:"with_abstracts"`
	ByStatus      map[paper.Status]int `json:"by_status"`
	Features      int                  `json:"extracted_features"`
	NextStep      string               `json:"next_step"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenStore(cfg)
	defer db.Close()

	resp, err := buildStatus(db)
	if err != nil {
		exitWithError(ExitError, "reading status: %v", err)
	}

	if humanOutput {
		printStatusHuman(resp)
		return nil
	}
	return outputJSON(resp)
}

func buildStatus(db *store.DB) (StatusResponse, error) {
	var resp StatusResponse
	var err error

	if resp.Papers, err = db.CountPapers(); err != nil {
		return resp, err
	}
	if resp.WithAbstracts, err = db.CountWithAbstract(); err != nil {
		return resp, err
	}
	if resp.ByStatus, err = db.CountByStatus(); err != nil {
		return resp, err
	}
	if resp.Features, err = db.CountFeatures(); err != nil {
		return resp, err
	}

	resp.NextStep = nextStep(resp)
	return resp, nil
}

// nextStep suggests the stage that would make progress given the counts.
func nextStep(s StatusResponse) string {
	switch {
	case s.Papers == 0:
		return "ala fetch"
	case s.ByStatus[paper.StatusPendingDownload] > 0:
		return "ala download"
	case s.ByStatus[paper.StatusDownloaded] > 0:
		return "ala extract"
	case s.Features < s.WithAbstracts:
		return "ala jargon"
	}
	return "ala jargon --stats"
}

func printStatusHuman(resp StatusResponse) {
	outputHuman("PIPELINE STATUS\n\n")

	rows := [][]string{
		{"papers", strconv.Itoa(resp.Papers)},
		{"with abstracts", strconv.Itoa(resp.WithAbstracts)},
	}
	for _, status := range paper.Statuses {
		if n := resp.ByStatus[status]; n > 0 {
			rows = append(rows, []string{string(status), strconv.Itoa(n)})
		}
	}
	rows = append(rows, []string{"extracted features", strconv.Itoa(resp.Features)})

	outputHuman("%s\n", renderTable(
		[]string{"Metric", "Count"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))

	outputHuman("\nNext: %s\n", resp.NextStep)
}
