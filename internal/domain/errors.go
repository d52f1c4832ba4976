package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNetwork is returned when no response was received at all.
	// Connectivity failures are surfaced to the caller and never retried here.
	ErrNetwork = errors.New("network unreachable")
	// ErrValidation maps 400 responses. Field-level detail travels on APIError.Fields.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized maps 401. The transport clears the stored credential as a side effect.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("resource not found")
	// ErrConflict maps 409: duplicate unique fields on create, or a delete
	// blocked by referential constraints.
	ErrConflict = errors.New("conflict")
	ErrServer   = errors.New("server error")
)

// APIError is the normalized shape every non-2xx response (and every
// connectivity failure) is reduced to before it leaves the transport layer.
// Message is safe to show to a user verbatim; Fields carries per-field
// validation messages when the server provided them.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string

	kind  error
	cause error
}

func NewAPIError(statusCode int, message string, kind, cause error) *APIError {
	return &APIError{StatusCode: statusCode, Message: message, kind: kind, cause: cause}
}

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes both the taxonomy sentinel and the underlying transport
// error, so errors.Is works against either.
func (e *APIError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.kind != nil {
		out = append(out, e.kind)
	}
	if e.cause != nil {
		out = append(out, e.cause)
	}
	return out
}

// FlattenFields renders a field-error map as "field: msg1, msg2; field2: msg3".
// Field names are sorted so the rendering is deterministic.
func FlattenFields(fields map[string][]string) string {
	if len(fields) == 0 {
		return ""
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(fields[name], ", "))
	}
	return strings.Join(parts, "; ")
}
