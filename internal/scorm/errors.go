package scorm

import "fmt"

// Stage identifies where a manifest parse failed.
type Stage string

const (
	// StageLoad covers retrieval failures: I/O errors and non-success HTTP statuses.
	StageLoad Stage = "load"
	// StageParse covers XML syntax and well-formedness errors.
	StageParse Stage = "parse"
)

// ManifestParsingError is the only error a parse returns. No partial result accompanies it.
type ManifestParsingError struct {
	Location string
	Stage    Stage
	Message  string
	Cause    error
}

func (e *ManifestParsingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("manifest %s error for %s: %s: %v", e.Stage, e.Location, e.Message, e.Cause)
	}
	return fmt.Sprintf("manifest %s error for %s: %s", e.Stage, e.Location, e.Message)
}

func (e *ManifestParsingError) Unwrap() error {
	return e.Cause
}
