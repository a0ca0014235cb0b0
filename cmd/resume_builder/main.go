// Package main provides the resume_builder CLI: render, compile and enhance résumé records,
// and serve the same operations over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "resume_builder",
	Short: "Build ATS-friendly LaTeX résumés from structured records",
	Long: "resume_builder turns a résumé record (JSON or YAML) into an escaped, single-column LaTeX document,\n" +
		"compiles it to PDF, and can draft missing summaries, bullet points and keywords with an LLM.",
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

var (
	configFile string
	logLevel   string
	logFormat  string
	verbose    bool

	// settings is the merged configuration: file, then environment, then flags
	settings config.Config
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Path to a JSON or YAML config file")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "", "Log format: json or pretty")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print formatted summaries of each step")
}

// loadSettings merges configuration sources and initializes logging
func loadSettings(_ *cobra.Command, _ []string) error {
	cfg := &config.Config{}
	if configFile != "" {
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			return errors.Wrap(err, "loading config")
		}
		cfg = loaded
	}

	cfg.ApplyEnv(os.Getenv)
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	settings = cfg.MergeWithDefaults(config.Defaults())

	logger.Init(logger.Config{
		Level:  settings.LogLevel,
		Format: settings.LogFormat,
	})
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
