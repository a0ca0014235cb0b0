package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/pipeline"
)

var renderCmd = &cobra.Command{
	Use:   "render <record.json|record.yaml|->",
	Short: "Render a résumé record to LaTeX",
	Long:  "Validates a résumé record and writes the generated LaTeX document to --out or stdout.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var renderOutputFile string

func init() {
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Path to output .tex file (default stdout)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	record, err := readRecord(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	if settings.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintRecord(record)
	}

	result, err := pipeline.Build(cmd.Context(), record, pipeline.BuildOptions{Layout: layoutOptions(settings)})
	if err != nil {
		return errors.Wrap(err, "rendering record")
	}

	if err := writeOutput(renderOutputFile, []byte(result.LaTeX), cmd.OutOrStdout()); err != nil {
		return err
	}
	if renderOutputFile != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully rendered LaTeX resume\nOutput: %s\n", renderOutputFile)
	}
	return nil
}
