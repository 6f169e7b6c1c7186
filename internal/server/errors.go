// Package server provides the HTTP REST API for the course navigator.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/course-navigator/internal/catalog"
	"github.com/jonathan/course-navigator/internal/rewrite"
	"github.com/jonathan/course-navigator/internal/scorm"
)

// ErrNoDatabase indicates a history endpoint was called without a configured database
var ErrNoDatabase = errors.New("parse history requires a database")

// ErrNoCoursesDir indicates a catalog endpoint was called without a courses directory
var ErrNoCoursesDir = errors.New("no courses directory configured")

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		notFoundErr   *ErrNotFound
		manifestErr   *scorm.ManifestParsingError
	)

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &validationErr), errors.Is(err, rewrite.ErrInvalidCoursePath):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &manifestErr), errors.Is(err, rewrite.ErrUnsupportedCourseType):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNoDatabase), errors.Is(err, ErrNoCoursesDir), errors.Is(err, catalog.ErrNotDirectory):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
