package model

import (
	"errors"
	"fmt"
)

// Failure taxonomy for the lyrics sources and the assessment service.
// Adapter-level errors stop at the orchestrator boundary and mean
// "try the next adapter"; only ErrInternal propagates as a pipeline fault.
var (
	ErrNetwork        = errors.New("network error")
	ErrNotFound       = errors.New("content not found")
	ErrParse          = errors.New("unrecognized page structure")
	ErrInvalidSession = errors.New("session cookies rejected")
	ErrRateLimit      = errors.New("rate limited by remote")
	ErrSchema         = errors.New("response does not match expected schema")
	ErrInternal       = errors.New("internal error")
)

// SourceError annotates a taxonomy error with the adapter that produced it
type SourceError struct {
	Source SourceKind
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError wraps err with the adapter identity
func NewSourceError(source SourceKind, err error) *SourceError {
	return &SourceError{Source: source, Err: err}
}
