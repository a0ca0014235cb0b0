package compile

import "fmt"

// CompilationError represents a LaTeX compilation failure
type CompilationError struct {
	Message   string
	LogOutput string
	Cause     error
}

func (e *CompilationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("LaTeX compilation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("LaTeX compilation error: %s", e.Message)
}

func (e *CompilationError) Unwrap() error {
	return e.Cause
}

// InvalidArtifactError is returned when a compiler produced bytes that are not a PDF
type InvalidArtifactError struct {
	Size    int
	Snippet string
}

func (e *InvalidArtifactError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("compiler output is not a PDF (%d bytes): %s", e.Size, e.Snippet)
	}
	return fmt.Sprintf("compiler output is not a PDF (%d bytes)", e.Size)
}

// UnavailableError is returned when a compiler cannot run in this environment
type UnavailableError struct {
	Compiler string
	Cause    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s compiler unavailable: %v", e.Compiler, e.Cause)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}
