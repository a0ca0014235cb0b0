package pipeline

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-builder/internal/compile"
	"github.com/jonathan/resume-builder/internal/logger"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

// BuildOptions controls Build
type BuildOptions struct {
	Layout   rendering.Options
	Compiler compile.Compiler // nil skips compilation
}

// BuildResult holds the outputs of Build
type BuildResult struct {
	LaTeX    string
	Artifact *compile.Artifact // nil when compilation was skipped
}

// Build validates the record, renders it and, when a compiler is configured, compiles it.
// The LaTeX source is returned alongside a compilation error so callers can
// still offer it for manual compilation.
func Build(ctx context.Context, record *types.ResumeRecord, opts BuildOptions) (*BuildResult, error) {
	if record == nil {
		return nil, &rendering.PreconditionError{Field: "record", Message: "record is nil"}
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid record: %w", err)
	}

	latex, err := rendering.Render(record, opts.Layout)
	if err != nil {
		return nil, fmt.Errorf("rendering latex failed: %w", err)
	}
	result := &BuildResult{LaTeX: latex}

	if opts.Compiler == nil {
		return result, nil
	}

	artifact, err := opts.Compiler.Compile(ctx, latex)
	if err != nil {
		return result, fmt.Errorf("compiling latex failed: %w", err)
	}
	result.Artifact = artifact

	logger.Info().
		Str("compiler", opts.Compiler.Name()).
		Int("pages", artifact.Pages).
		Int("bytes", len(artifact.PDF)).
		Msg("compiled resume")
	return result, nil
}
