package marketplace

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an API failure. Callers match on the kind to
// decide whether to skip a record, a batch, a stage, or the whole
// cabinet run; the client itself never retries anything except 429.
type ErrorKind int

const (
	// KindRemote is any unexpected status or an empty body
	KindRemote ErrorKind = iota
	// KindRateLimitExceeded means the 429 retry budget was exhausted
	KindRateLimitExceeded
	// KindAuthScope means the token lacks a specific capability; the
	// gated stage is skipped, the credential itself is still usable
	KindAuthScope
	// KindValidationRejected means the API refused one sub-resource
	// (HTTP 422), e.g. an auto-generated promotion
	KindValidationRejected
)

// String returns the kind name for logs
func (k ErrorKind) String() string {
	switch k {
	case KindRateLimitExceeded:
		return "rate_limit_exceeded"
	case KindAuthScope:
		return "auth_scope"
	case KindValidationRejected:
		return "validation_rejected"
	default:
		return "remote"
	}
}

// APIError is the tagged failure returned by every client call. Callers
// inspect Kind with errors.As instead of matching on message text.
type APIError struct {
	Kind   ErrorKind
	Status int
	// Missing names the capability the token lacks (KindAuthScope only)
	Missing string
	// Body carries the raw response body for diagnostics
	Body string
}

// Error implements the error interface
func (e *APIError) Error() string {
	switch e.Kind {
	case KindRateLimitExceeded:
		return fmt.Sprintf("marketplace: rate limit retries exhausted (HTTP %d)", e.Status)
	case KindAuthScope:
		return fmt.Sprintf("marketplace: token lacks capability %q (HTTP %d)", e.Missing, e.Status)
	case KindValidationRejected:
		return fmt.Sprintf("marketplace: request rejected (HTTP %d): %s", e.Status, e.Body)
	default:
		return fmt.Sprintf("marketplace: unexpected response (HTTP %d): %s", e.Status, e.Body)
	}
}

// AsAPIError unwraps err into an *APIError if it is one
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an APIError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}

// ErrCursorMissing indicates the listing endpoint reported more pages
// but returned no cursor to continue from. This is a configuration or
// contract error and halts the cabinet run instead of looping.
var ErrCursorMissing = errors.New("marketplace: pagination cursor missing with more pages reported")
