package platform

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRunning is an error returned when run can't be started because previous run is not finished yet.
	ErrAlreadyRunning = errors.New("import already running for this source")
	// ErrNoRuns is returned when source has never been imported.
	ErrNoRuns = errors.New("no runs for this source")
)

// Error kinds.
var (
	// ErrConnection is transport-level connect or login failure.
	ErrConnection = errors.New("connection error")
	// ErrFetch is returned when remote resource returned no usable data.
	ErrFetch = errors.New("fetch error")
	// ErrParse is returned for malformed payloads.
	ErrParse = errors.New("parse error")
	// ErrNormalization is returned when required canonical field is missing.
	ErrNormalization = errors.New("normalization error")
	// ErrRecord is returned when single record can't be reconciled.
	ErrRecord = errors.New("record error")
	// ErrAuth is credential or token failure.
	ErrAuth = errors.New("authentication error")
)

var (
	// ErrUnknownAttribute is returned for attribute slugs without registered taxonomy.
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrUnknownSource is returned for source ids missing in configuration.
	ErrUnknownSource = errors.New("unknown source")
	// ErrSourceDisabled is returned for disabled sources.
	ErrSourceDisabled = errors.New("source disabled")
	// ErrSourceFailed is returned by connectors after unrecoverable failure.
	ErrSourceFailed = errors.New("source in failed state")
)

// Error is source-attributed error.
type Error struct {
	Source string
	Op     string
	Kind   error
	Err    error
}

// NewError returns new Error.
func NewError(source, op string, kind, err error) *Error {
	return &Error{
		Source: source,
		Op:     op,
		Kind:   kind,
		Err:    err,
	}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s: %s", e.Source, e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Op, e.Err)
}

// Unwrap returns error kind and its cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
