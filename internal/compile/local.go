package compile

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	// CompilationTimeout is the maximum time to wait for LaTeX compilation
	CompilationTimeout = 30 * time.Second
)

// LocalCompiler runs pdflatex in a temporary directory
type LocalCompiler struct {
	Binary  string
	Timeout time.Duration
}

// NewLocalCompiler creates a LocalCompiler; an empty binary selects pdflatex from PATH
func NewLocalCompiler(binary string, timeout time.Duration) *LocalCompiler {
	if binary == "" {
		binary = "pdflatex"
	}
	if timeout <= 0 {
		timeout = CompilationTimeout
	}
	return &LocalCompiler{Binary: binary, Timeout: timeout}
}

// Name identifies the compiler in logs
func (c *LocalCompiler) Name() string {
	return "local"
}

// Available reports whether the pdflatex binary can be found
func (c *LocalCompiler) Available() bool {
	_, err := exec.LookPath(c.Binary)
	return err == nil
}

// Compile writes tex to a temporary resume.tex, runs pdflatex and returns the PDF.
// The working directory is removed afterwards.
func (c *LocalCompiler) Compile(ctx context.Context, tex string) (*Artifact, error) {
	binary, err := exec.LookPath(c.Binary)
	if err != nil {
		return nil, &UnavailableError{Compiler: c.Name(), Cause: err}
	}

	workDir, err := os.MkdirTemp("", "latex-compile-*")
	if err != nil {
		return nil, &CompilationError{Message: "failed to create temporary working directory", Cause: err}
	}
	defer os.RemoveAll(workDir)

	texPath := filepath.Join(workDir, "resume.tex")
	if err := os.WriteFile(texPath, []byte(tex), 0644); err != nil {
		return nil, &CompilationError{Message: "failed to write LaTeX file to working directory", Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	// -interaction=nonstopmode prevents interactive prompts on errors
	cmd := exec.CommandContext(ctx, binary, "-interaction=nonstopmode", "-halt-on-error", "-output-directory", workDir, texPath)
	cmd.Dir = workDir

	var output strings.Builder
	cmd.Stdout = &output
	cmd.Stderr = &output

	runErr := cmd.Run()
	logOutput := output.String()

	if ctx.Err() == context.DeadlineExceeded {
		return nil, &CompilationError{Message: "LaTeX compilation timed out", LogOutput: logOutput, Cause: ctx.Err()}
	}

	data, err := os.ReadFile(filepath.Join(workDir, "resume.pdf"))
	if err != nil {
		return nil, &CompilationError{
			Message:   "LaTeX compilation failed: PDF was not generated",
			LogOutput: logOutput,
			Cause:     runErr,
		}
	}

	if runErr != nil {
		return nil, &CompilationError{
			Message:   "LaTeX compilation completed with errors (PDF may be incomplete)",
			LogOutput: logOutput,
			Cause:     runErr,
		}
	}

	return newArtifact(data)
}
