package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/compile"
	"github.com/jonathan/resume-builder/internal/logger"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/pipeline"
)

var compileCmd = &cobra.Command{
	Use:   "compile <record.json|record.yaml|resume.tex>",
	Short: "Compile a résumé record or LaTeX file to PDF",
	Long: "Renders the record (or reads an existing .tex file) and compiles it with the configured compiler.\n" +
		"When compilation fails the LaTeX source is still written next to the PDF path for manual compilation.",
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

var (
	compileOutputFile string
	compileTexFile    string
	compileMode       string
)

func init() {
	compileCmd.Flags().StringVarP(&compileOutputFile, "out", "o", "resume.pdf", "Path to output PDF")
	compileCmd.Flags().StringVar(&compileTexFile, "tex", "", "Also write the LaTeX source here (default: next to the PDF on failure)")
	compileCmd.Flags().StringVar(&compileMode, "mode", "", "Compiler: remote, local or auto (overrides config)")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg := settings
	if compileMode != "" {
		cfg.CompileMode = compileMode
	}
	compiler, err := newCompiler(cfg)
	if err != nil {
		return err
	}

	result, buildErr := buildOrReadTex(cmd, args[0], compiler)
	if result == nil {
		return buildErr
	}

	texPath := compileTexFile
	if texPath == "" && buildErr != nil {
		texPath = strings.TrimSuffix(compileOutputFile, ".pdf") + ".tex"
	}
	if texPath != "" {
		if err := writeOutput(texPath, []byte(result.LaTeX), nil); err != nil {
			return err
		}
	}

	if buildErr != nil {
		if texPath != "" {
			logger.Warn().Str("tex", texPath).Msg("compilation failed; LaTeX source saved for manual compilation")
		}
		return errors.Wrapf(buildErr, "compiling with %s (LaTeX saved to %s)", compiler.Name(), texPath)
	}

	if err := writeOutput(compileOutputFile, result.Artifact.PDF, nil); err != nil {
		return err
	}

	if settings.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintArtifact(result.Artifact, compileOutputFile)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully compiled resume (%d bytes)\nOutput: %s\n", len(result.Artifact.PDF), compileOutputFile)
	return nil
}

// buildOrReadTex compiles a .tex file as-is, or builds a record.
// A non-nil result carries the LaTeX even when compilation failed.
func buildOrReadTex(cmd *cobra.Command, path string, compiler compile.Compiler) (*pipeline.BuildResult, error) {
	if strings.HasSuffix(strings.ToLower(path), ".tex") {
		latex, err := readFile(path)
		if err != nil {
			return nil, err
		}
		result := &pipeline.BuildResult{LaTeX: latex}
		result.Artifact, err = compiler.Compile(cmd.Context(), latex)
		return result, err
	}

	record, err := readRecord(path, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	return pipeline.Build(cmd.Context(), record, pipeline.BuildOptions{
		Layout:   layoutOptions(settings),
		Compiler: compiler,
	})
}
