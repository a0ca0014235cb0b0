package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-builder/internal/compile"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/rendering"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotConfigured indicates a feature whose backing service was not configured
type ErrNotConfigured struct {
	Feature string
}

func (e *ErrNotConfigured) Error() string {
	return fmt.Sprintf("%s is not configured on this server", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr   *ErrValidation
		notConfigured   *ErrNotConfigured
		inputErr        *llm.InputError
		generationErr   *llm.GenerationError
		preconditionErr *rendering.PreconditionError
		fieldErrs       validator.ValidationErrors
		compilationErr  *compile.CompilationError
		artifactErr     *compile.InvalidArtifactError
		unavailableErr  *compile.UnavailableError
	)

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &validationErr),
		errors.As(err, &inputErr),
		errors.As(err, &preconditionErr),
		errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.As(err, &notConfigured), errors.As(err, &unavailableErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &compilationErr), errors.As(err, &artifactErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &generationErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
