// Package config builds the pipeline configuration once at process start
// from an optional global config file, an optional .env file, and
// environment variables. Nothing else in the repository reads the
// environment; collaborators receive this value explicitly.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "ala"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// DefaultBaseURL is the catalog endpoint used when none is configured.
	DefaultBaseURL = "https://api.openalex.org/works"
	// DefaultDatabaseFile is the SQLite file used when none is configured.
	DefaultDatabaseFile = "papers.db"
	// DefaultPDFDir is where downloaded PDFs land when none is configured.
	DefaultPDFDir = "data/pdfs"

	defaultFromYear = 2020
	defaultToYear   = 2025
	defaultPerPage  = 50
)

// ErrMissingTopic is the fatal configuration error: without a topic filter
// no catalog query can be built, so the run aborts before processing.
var ErrMissingTopic = errors.New("TOPIC_ID not set (env, .env, or topic_id in config.yml)")

// Config holds every externally-sourced setting the pipeline needs.
type Config struct {
	TopicID        string `yaml:"topic_id"`
	Email          string `yaml:"email"`
	BaseURL        string `yaml:"base_url"`
	DatabasePath   string `yaml:"database_path"`
	PDFRoot        string `yaml:"pdf_root"`
	DictionaryPath string `yaml:"dictionary_path"`
	FromYear       int    `yaml:"from_year"`
	ToYear         int    `yaml:"to_year"`
	PerPage        int    `yaml:"per_page"`
}

// GlobalConfigPath returns the path to the global config file, respecting
// XDG_CONFIG_HOME and defaulting to ~/.config/ala/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// Load builds the configuration: global config file first, .env layered on
// top, then process environment variables, then defaults for whatever is
// still unset. A missing config file or .env is not an error.
func Load() (*Config, error) {
	cfg := &Config{}

	if path := GlobalConfigPath(); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	// .env entries become process env vars without clobbering real ones
	_ = godotenv.Load()

	applyEnv(cfg)
	cfg.applyDefaults()
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setIfPresent := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setIfPresent(&cfg.TopicID, "TOPIC_ID")
	setIfPresent(&cfg.Email, "EMAIL")
	setIfPresent(&cfg.BaseURL, "BASE_URL")
	setIfPresent(&cfg.DatabasePath, "ALA_DB_PATH")
	setIfPresent(&cfg.PDFRoot, "ALA_PDF_ROOT")
	setIfPresent(&cfg.DictionaryPath, "ALA_DICTIONARY")
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.DatabasePath == "" {
		c.DatabasePath = DefaultDatabaseFile
	}
	if c.PDFRoot == "" {
		c.PDFRoot = DefaultPDFDir
	}
	if c.FromYear == 0 {
		c.FromYear = defaultFromYear
	}
	if c.ToYear == 0 {
		c.ToYear = defaultToYear
	}
	if c.PerPage == 0 {
		c.PerPage = defaultPerPage
	}
}

// Validate checks for fatal configuration errors. These are the only
// errors that abort a run before any record is processed.
func (c *Config) Validate() error {
	if c.TopicID == "" {
		return ErrMissingTopic
	}
	return nil
}
