package domain

import (
	"errors"
	"fmt"
)

// Failure taxonomy. Every error crossing a component boundary wraps one
// of these sentinels so callers can classify it with errors.Is.
var (
	ErrUnsupportedFormat = errors.New("docqa: unsupported file format")
	ErrEmptyInput        = errors.New("docqa: empty input")
	ErrEmptyContent      = errors.New("docqa: empty content")
	ErrEmptyQuestion     = errors.New("docqa: empty question")
	ErrEmbeddingBackend  = errors.New("docqa: embedding backend failure")
	ErrGeneration        = errors.New("docqa: answer generation failure")
	ErrTimeout           = errors.New("docqa: external call timed out")
	ErrIndex             = errors.New("docqa: vector store failure")
	ErrNotReady          = errors.New("docqa: service not initialized")
)

// Error wraps errors with operation context.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("docqa.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with operation context.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
