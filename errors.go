package gqlc

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for runtime lookups.
var (
	// ErrUnknownDocument is returned when a registry lookup is asked for a
	// source text that no generated document matches.
	ErrUnknownDocument = errors.New("gqlc: unknown document")
)

// UnknownDocumentError reports a failed registry lookup.
type UnknownDocumentError struct {
	source string
}

// Error returns the error string.
func (e *UnknownDocumentError) Error() string {
	return fmt.Sprintf("gqlc: no generated document matches source %q", truncate(e.source, 60))
}

// Is reports whether the target error matches UnknownDocumentError.
// This allows errors.Is(err, ErrUnknownDocument) to return true.
func (e *UnknownDocumentError) Is(err error) bool {
	return err == ErrUnknownDocument
}

// Source returns the source text that was looked up.
func (e *UnknownDocumentError) Source() string {
	return e.source
}

// NewUnknownDocumentError returns a new UnknownDocumentError for the given
// source text.
func NewUnknownDocumentError(source string) *UnknownDocumentError {
	return &UnknownDocumentError{source: source}
}

// IsUnknownDocument returns true if the error is an UnknownDocumentError.
func IsUnknownDocument(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownDocumentError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownDocument)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
