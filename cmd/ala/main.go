// Package main provides the ala CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielcoblentz/academic-language-analysis/internal/config"
	"github.com/danielcoblentz/academic-language-analysis/internal/store"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ala",
	Short: "Academic language analysis pipeline",
	Long: `ala builds a longitudinal dataset of research papers and derived
text features.

Pipeline stages:
  fetch     Pull works from the scholarly catalog, enrich from secondary
            sources, reconcile, and upsert into the papers database
  download  Download open-access PDFs for pending papers
  extract   Extract full text from downloaded PDFs
  jargon    Score abstracts for jargon density
  status    Show what is in the database and what to run next

All commands output JSON by default for scripting; pass --human for
readable summaries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustOpenStore opens the papers database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenStore(cfg *config.Config) *store.DB {
	db, err := store.OpenDB(cfg.DatabasePath)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}
