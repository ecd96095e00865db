// Package errors defines the classified failure taxonomy shared by all
// catalog provider calls.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// Kind classifies a provider call failure.
type Kind int

const (
	// KindUnknown is the catch-all for unclassifiable failures.
	KindUnknown Kind = iota
	// KindNetwork covers connectivity and transport failures.
	KindNetwork
	// KindHTTPStatus covers non-2xx provider responses.
	KindHTTPStatus
	// KindNotFound means the provider reported no matching resource.
	KindNotFound
	// KindMalformed means the payload was structurally invalid.
	KindMalformed
	// KindCancelled means the request was superseded by a newer one.
	// Never surfaced to a presenter as an error, simply dropped.
	KindCancelled
)

// Label returns the human-readable classification prefix.
func (k Kind) Label() string {
	switch k {
	case KindNetwork:
		return "Network error"
	case KindHTTPStatus:
		return "Server error"
	case KindNotFound:
		return "Not found"
	case KindMalformed:
		return "Malformed response"
	case KindCancelled:
		return "Cancelled"
	default:
		return "Unexpected error"
	}
}

// APIError is a classified provider failure.
type APIError struct {
	Kind    Kind
	Code    int // HTTP status code, set for KindHTTPStatus
	Message string
	Err     error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Kind == KindHTTPStatus && e.Code != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Kind.Label(), e.Code, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Label(), msg)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewNetwork wraps a transport failure.
func NewNetwork(err error) *APIError {
	return &APIError{Kind: KindNetwork, Err: err}
}

// NewHTTPStatus wraps a non-2xx response.
func NewHTTPStatus(code int, message string) *APIError {
	return &APIError{Kind: KindHTTPStatus, Code: code, Message: message}
}

// NewNotFound reports a missing resource.
func NewNotFound(message string) *APIError {
	return &APIError{Kind: KindNotFound, Message: message}
}

// NewMalformed reports a structurally invalid payload.
func NewMalformed(message string) *APIError {
	return &APIError{Kind: KindMalformed, Message: message}
}

// Classify maps an arbitrary error onto the taxonomy. Already-classified
// errors pass through unchanged, context cancellation becomes KindCancelled
// and url.Error transport failures become KindNetwork.
func Classify(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Kind: KindCancelled, Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &APIError{Kind: KindNetwork, Err: err}
	}

	return &APIError{Kind: KindUnknown, Err: err}
}

// KindOf returns the classification of err, KindUnknown for unclassified errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	return Classify(err).Kind
}

// IsNotFound reports whether err is a NotFound classification (even when wrapped).
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}

// IsCancelled reports whether err represents a superseded request.
func IsCancelled(err error) bool {
	return KindOf(err) == KindCancelled
}
