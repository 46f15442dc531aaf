package main

import (
	"github.com/spf13/cobra"

	"github.com/danielcoblentz/academic-language-analysis/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long: `Config prints the configuration the pipeline would run with, after
layering the global config file, .env, environment variables, and
defaults.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// ConfigResponse is the resolved configuration, plus where the global
// config file is looked for.
type ConfigResponse struct {
	ConfigFile     string `json:"config_file"`
	TopicID        string `json:"topic_id"`
	Email          string `json:"email,omitempty"`
	BaseURL        string `json:"base_url"`
	DatabasePath   string `json:"database_path"`
	PDFRoot        string `json:"pdf_root"`
	DictionaryPath string `json:"dictionary_path,omitempty"`
	FromYear       int    `json:"from_year"`
	ToYear         int    `json:"to_year"`
	PerPage        int    `json:"per_page"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	resp := ConfigResponse{
		ConfigFile:     config.GlobalConfigPath(),
		TopicID:        cfg.TopicID,
		Email:          cfg.Email,
		BaseURL:        cfg.BaseURL,
		DatabasePath:   cfg.DatabasePath,
		PDFRoot:        cfg.PDFRoot,
		DictionaryPath: cfg.DictionaryPath,
		FromYear:       cfg.FromYear,
		ToYear:         cfg.ToYear,
		PerPage:        cfg.PerPage,
	}

	if humanOutput {
		outputHuman("Config file:  %s\n", resp.ConfigFile)
		outputHuman("Topic ID:     %s\n", orUnset(resp.TopicID))
		outputHuman("Email:        %s\n", orUnset(resp.Email))
		outputHuman("Base URL:     %s\n", resp.BaseURL)
		outputHuman("Database:     %s\n", resp.DatabasePath)
		outputHuman("PDF root:     %s\n", resp.PDFRoot)
		outputHuman("Dictionary:   %s\n", orUnset(resp.DictionaryPath))
		outputHuman("Years:        %d-%d\n", resp.FromYear, resp.ToYear)
		outputHuman("Per page:     %d\n", resp.PerPage)
		return nil
	}
	return outputJSON(resp)
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
