package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrUnreachable indicates that the Tally server did not answer the connectivity check
// (refused, timed out, blocked or returned a non-success status).
var ErrUnreachable = errors.New("tally server unreachable")

// ErrTransport indicates that a data request to the Tally server failed at the HTTP level.
var ErrTransport = errors.New("tally transport error")

// ErrMalformedResponse indicates that a response body could not be parsed as XML.
var ErrMalformedResponse = errors.New("malformed tally response")

// ErrMappingGap marks a live report that has no field mapping yet. It is logged, never returned.
var ErrMappingGap = errors.New("report mapping not implemented")

// ErrAdvisoryService indicates that the insight generator failed. Callers recover with a fallback.
var ErrAdvisoryService = errors.New("advisory service error")

// ErrSuperseded is returned by an acquisition that was cancelled by a newer one.
var ErrSuperseded = errors.New("acquisition superseded by a newer request")

// TransportError carries the HTTP status of a failed Tally request.
type TransportError struct {
	StatusCode int
	Status     string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: unexpected status %s", ErrTransport.Error(), e.Status)
}

// Unwrap lets errors.Is(err, ErrTransport) match.
func (e *TransportError) Unwrap() error {
	return ErrTransport
}
