package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/danielcoblentz/academic-language-analysis/internal/jargon"
	"github.com/danielcoblentz/academic-language-analysis/internal/paper"
	"github.com/danielcoblentz/academic-language-analysis/internal/payload"
	"github.com/danielcoblentz/academic-language-analysis/internal/store"
)

var (
	jargonLimit     int
	jargonReprocess bool
	jargonStats     bool
)

var jargonCmd = &cobra.Command{
	Use:   "jargon",
	Short: "Score paper abstracts for jargon density",
	Long: `Jargon scores each paper's abstract against a common-words dictionary
and stores the result as a versioned feature record. Papers already scored
under the current version are skipped unless --reprocess is given.

With --stats, prints the average jargon score per impact classification
instead of scoring anything.`,
	RunE: runJargon,
}

func init() {
	jargonCmd.Flags().IntVarP(&jargonLimit, "limit", "n", 0, "Max papers to score (0 = all)")
	jargonCmd.Flags().BoolVar(&jargonReprocess, "reprocess", false, "Re-score already scored papers")
	jargonCmd.Flags().BoolVar(&jargonStats, "stats", false, "Show jargon-by-classification averages only")
	rootCmd.AddCommand(jargonCmd)
}

// JargonResponse is the JSON summary of one scoring run.
type JargonResponse struct {
	Scored  int `json:"scored"`
	Skipped int `json:"skipped"`
}

func runJargon(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenStore(cfg)
	defer db.Close()

	if jargonStats {
		return printJargonStats(db)
	}

	dict := jargon.FallbackDictionary()
	if cfg.DictionaryPath != "" {
		loaded, err := jargon.LoadDictionary(cfg.DictionaryPath)
		if err != nil {
			exitWithError(ExitConfigError, "loading dictionary: %v", err)
		}
		dict = loaded
	} else if humanOutput {
		outputHuman("warning: no dictionary configured, using tiny fallback list\n")
	}

	candidates, err := db.FeatureCandidates(jargon.Version, jargonLimit, jargonReprocess)
	if err != nil {
		exitWithError(ExitError, "querying papers: %v", err)
	}
	if len(candidates) == 0 {
		if humanOutput {
			outputHuman("All papers already scored. Use --reprocess to re-run.\n")
			return nil
		}
		return outputJSON(JargonResponse{})
	}

	var bar *progressbar.ProgressBar
	if humanOutput {
		bar = progressbar.NewOptions(len(candidates),
			progressbar.OptionSetDescription("scoring"),
			progressbar.OptionShowCount(),
		)
	}

	var resp JargonResponse
	for _, rec := range candidates {
		result, ok := jargon.Score(rec.Content.Abstract, dict)
		if !ok {
			resp.Skipped++
		} else if err := db.UpsertFeatures(jargon.FeatureRecord(rec.ID, result)); err != nil {
			exitWithError(ExitError, "saving features for %s: %v", rec.ID, err)
		} else {
			resp.Scored++
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	if humanOutput {
		outputHuman("\nScored %d papers (%d skipped)\n", resp.Scored, resp.Skipped)
		return printJargonStats(db)
	}
	return outputJSON(resp)
}

// JargonStats is the average jargon score for one impact classification.
type JargonStats struct {
	Classification paper.Classification `json:"classification"`
	Papers         int                  `json:"papers"`
	AverageScore   float64              `json:"average_score"`
}

// printJargonStats reports average jargon density per impact tier across
// every scored paper.
func printJargonStats(db *store.DB) error {
	records, err := db.FeatureRecords(jargon.Version)
	if err != nil {
		exitWithError(ExitError, "reading features: %v", err)
	}
	if len(records) < 5 {
		if humanOutput {
			outputHuman("Not enough scored papers for analysis yet.\n")
			return nil
		}
		return outputJSON([]JargonStats{})
	}

	sums := make(map[paper.Classification]float64)
	counts := make(map[paper.Classification]int)
	for _, fr := range records {
		rec, err := db.GetPaper(fr.PaperID)
		if err != nil {
			continue // paper replaced or removed since scoring
		}
		score, ok := payload.CoerceFloat(fr.DataPoints["score"])
		if !ok {
			continue
		}
		cls := rec.Impact.Classification
		sums[cls] += score
		counts[cls]++
	}

	var stats []JargonStats
	for _, cls := range []paper.Classification{
		paper.ClassificationHigh, paper.ClassificationModerate, paper.ClassificationLow,
	} {
		if counts[cls] == 0 {
			continue
		}
		stats = append(stats, JargonStats{
			Classification: cls,
			Papers:         counts[cls],
			AverageScore:   sums[cls] / float64(counts[cls]),
		})
	}

	if humanOutput {
		outputHuman("\nJargon by impact level:\n")
		for _, s := range stats {
			outputHuman("  %s: %.1f%% avg jargon (%d papers)\n",
				s.Classification, s.AverageScore*100, s.Papers)
		}
		fmt.Println()
		return nil
	}
	return outputJSON(stats)
}
