// Package rendering turns a résumé record into a self-contained LaTeX document.
package rendering

import "fmt"

// PreconditionError reports a record the renderer refuses to work with.
// It indicates a caller bug: the record must be validated before rendering.
type PreconditionError struct {
	Field   string
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("render precondition failed: %s: %s", e.Field, e.Message)
}

// TemplateError represents an error executing the LaTeX preamble template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}
