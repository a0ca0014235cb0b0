package compile

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalCompiler_Unavailable(t *testing.T) {
	compiler := NewLocalCompiler("/nonexistent/pdflatex", time.Second)
	assert.False(t, compiler.Available())

	_, err := compiler.Compile(context.Background(), "tex")
	var unavailable *UnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestLocalCompiler_ValidLaTeX(t *testing.T) {
	// Skip if pdflatex is not available
	if _, err := exec.LookPath("pdflatex"); err != nil {
		t.Skip("pdflatex not available, skipping compilation test")
	}

	content := `\documentclass{article}
\begin{document}
Hello, World!
\end{document}`

	artifact, err := NewLocalCompiler("", 0).Compile(context.Background(), content)
	require.NoError(t, err)
	assert.True(t, IsPDF(artifact.PDF))
	assert.Equal(t, 1, artifact.Pages)
}

func TestLocalCompiler_InvalidLaTeX(t *testing.T) {
	// Skip if pdflatex is not available
	if _, err := exec.LookPath("pdflatex"); err != nil {
		t.Skip("pdflatex not available, skipping compilation test")
	}

	content := `\documentclass{article}
\begin{document}
\undefinedcommand{this will fail}
\end{document}`

	_, err := NewLocalCompiler("", 0).Compile(context.Background(), content)
	var compErr *CompilationError
	require.ErrorAs(t, err, &compErr)
	assert.NotEmpty(t, compErr.LogOutput)
}
