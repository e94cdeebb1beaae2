package usecase

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConfigurationMissing  = errors.New("configuration missing")
	ErrMalformedResponse     = errors.New("malformed upstream response")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// UpstreamError is a non-success answer from an external service.
// StatusCode is zero when no HTTP response was received.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
	Cause      error
}

func (e *UpstreamError) Error() string {
	service := strings.TrimSpace(e.Service)
	if service == "" {
		service = "upstream"
	}
	if e.StatusCode == 0 {
		if e.Cause != nil {
			return fmt.Sprintf("%s error: %v", service, e.Cause)
		}
		return service + " error: request failed"
	}
	return fmt.Sprintf("%s error: status=%d body=%s", service, e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// HTTPStatus is the status worth proxying to the caller, or 500.
func (e *UpstreamError) HTTPStatus() int {
	if e.StatusCode >= http.StatusBadRequest && e.StatusCode <= 599 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// AsUpstreamError unwraps err into an *UpstreamError when it carries one.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream, true
	}
	return nil, false
}
