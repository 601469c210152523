// ABOUTME: Upstream error taxonomy: auth, rate limit, malformed request, unknown
// ABOUTME: Sentinels work with errors.Is; HTTP status codes map onto kinds via KindForStatus

package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed text-generation call.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindAuth
	KindRateLimit
	KindMalformedRequest
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate_limit"
	case KindMalformedRequest:
		return "malformed_request"
	default:
		return "unknown"
	}
}

// UpstreamError is returned by every TextGenerator on failure.
type UpstreamError struct {
	Kind    ErrorKind
	Status  int    // HTTP status from the provider; 0 for transport failures
	Message string // provider-supplied or transport error text
	Err     error
}

// Sentinels for errors.Is. They only compare by Kind.
var (
	ErrUpstreamAuth             = &UpstreamError{Kind: KindAuth}
	ErrUpstreamRateLimit        = &UpstreamError{Kind: KindRateLimit}
	ErrUpstreamMalformedRequest = &UpstreamError{Kind: KindMalformedRequest}
	ErrUpstreamUnknown          = &UpstreamError{Kind: KindUnknown}
)

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s error (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("upstream %s error: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is matches sentinels of the same kind.
func (e *UpstreamError) Is(target error) bool {
	t, ok := target.(*UpstreamError)
	if !ok {
		return false
	}
	return t.Status == 0 && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// KindForStatus maps an HTTP status to an error kind.
func KindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusTooManyRequests:
		return KindRateLimit
	case http.StatusBadRequest, http.StatusNotFound, http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity:
		return KindMalformedRequest
	default:
		return KindUnknown
	}
}

// NewStatusError builds an UpstreamError from an HTTP status and message.
func NewStatusError(status int, message string) *UpstreamError {
	return &UpstreamError{Kind: KindForStatus(status), Status: status, Message: message}
}

// AsUpstream returns err as an *UpstreamError, wrapping anything else as unknown.
func AsUpstream(err error) *UpstreamError {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue
	}
	return &UpstreamError{Kind: KindUnknown, Message: err.Error(), Err: err}
}
