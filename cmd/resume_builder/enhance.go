package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/pipeline"
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance <record.json|record.yaml|->",
	Short: "Fill missing summary, keywords and bullets with an LLM",
	Long: "Generates content only where the record has none: a summary and keywords when a target role and job\n" +
		"description are set, and bullets for positions and projects that have a description but no bullets.\n" +
		"A failed generation leaves that entry unchanged. Writes the enhanced record to --out or stdout.",
	Args: cobra.ExactArgs(1),
	RunE: runEnhance,
}

var (
	enhanceOutputFile  string
	enhanceOnly        string
	enhanceConcurrency int
)

func init() {
	enhanceCmd.Flags().StringVarP(&enhanceOutputFile, "out", "o", "", "Path to output record; .yaml/.yml writes YAML (default JSON on stdout)")
	enhanceCmd.Flags().StringVar(&enhanceOnly, "only", "", "Comma-separated subset: summary,keywords,bullets,project-bullets")
	enhanceCmd.Flags().IntVar(&enhanceConcurrency, "concurrency", 0, "Parallel generation calls (overrides config)")
	rootCmd.AddCommand(enhanceCmd)
}

// enhanceOptions builds pipeline options from flags and settings
func enhanceOptions() (pipeline.EnhanceOptions, error) {
	opts := pipeline.DefaultEnhanceOptions()
	opts.Concurrency = settings.Concurrency
	if enhanceConcurrency > 0 {
		opts.Concurrency = enhanceConcurrency
	}

	if enhanceOnly == "" {
		return opts, nil
	}
	opts.Summary, opts.Keywords, opts.Bullets, opts.ProjectBullets = false, false, false, false
	for _, part := range splitList(enhanceOnly) {
		switch strings.ToLower(part) {
		case "summary":
			opts.Summary = true
		case "keywords":
			opts.Keywords = true
		case "bullets":
			opts.Bullets = true
		case "project-bullets":
			opts.ProjectBullets = true
		default:
			return opts, errors.Errorf("unknown --only value %q", part)
		}
	}
	return opts, nil
}

func runEnhance(cmd *cobra.Command, args []string) error {
	opts, err := enhanceOptions()
	if err != nil {
		return err
	}

	record, err := readRecord(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	if err := record.Validate(); err != nil {
		return errors.Wrap(err, "record validation failed")
	}

	gen, closeGen, err := generatorFactory(cmd.Context(), settings)
	if err != nil {
		return err
	}
	defer closeGen()

	var events []pipeline.ProgressEvent
	opts.OnProgress = func(event pipeline.ProgressEvent) {
		events = append(events, event)
	}

	enhanced, err := pipeline.Enhance(cmd.Context(), gen, record, opts)
	if err != nil {
		return errors.Wrap(err, "enhancing record")
	}
	if settings.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintProgress(events)
	}

	var data []byte
	if strings.HasSuffix(enhanceOutputFile, ".yaml") || strings.HasSuffix(enhanceOutputFile, ".yml") {
		data, err = yaml.Marshal(enhanced)
	} else {
		data, err = json.MarshalIndent(enhanced, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.Wrap(err, "encoding record")
	}

	if err := writeOutput(enhanceOutputFile, data, cmd.OutOrStdout()); err != nil {
		return err
	}
	if enhanceOutputFile != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Enhanced record written to %s\n", enhanceOutputFile)
	}
	return nil
}
