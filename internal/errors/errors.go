// Package errors defines the error taxonomy shared across the client
// core: resolution failures, unsupported call modes, and formatting of
// remote RPC statuses for diagnostics.
package errors

import "errors"

// ErrClientStreaming rejects client-streaming methods before any
// network activity.
var ErrClientStreaming = errors.New("client streaming is not supported")

// NotFoundError reports a service or method name that did not resolve
// against the descriptor pool. Name carries the unresolved token exactly
// as the caller supplied it.
type NotFoundError struct {
	Kind string // "service" or "method"
	Name string
}

func (e *NotFoundError) Error() string {
	return "unknown " + e.Kind + " " + e.Name
}

// NotFound builds a NotFoundError for the given kind and token.
func NotFound(kind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}

// IsNotFound reports whether err is (or wraps) a resolution failure.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
