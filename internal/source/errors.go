package source

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/jonesrussell/cardfeed/internal/logger"
)

// ErrorType classifies source fetch failures.
type ErrorType string

const (
	ErrTypeNetwork     ErrorType = "network"
	ErrTypeTimeout     ErrorType = "timeout"
	ErrTypeRateLimited ErrorType = "rate_limited"
	ErrTypeForbidden   ErrorType = "forbidden"
	ErrTypeNotFound    ErrorType = "not_found"
	ErrTypeUpstream    ErrorType = "upstream"
	ErrTypeParse       ErrorType = "parse_error"
	ErrTypeUnexpected  ErrorType = "unexpected"
)

// FetchError is a classified source failure.
type FetchError struct {
	Type       ErrorType
	StatusCode int
	URL        string
	Cause      error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: HTTP %d for %s", e.Type, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("fetch %s: %v for %s", e.Type, e.Cause, e.URL)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// Transient reports whether trying again may succeed.
func (e *FetchError) Transient() bool {
	switch e.Type {
	case ErrTypeNetwork, ErrTypeTimeout, ErrTypeUpstream:
		return true
	default:
		return false
	}
}

// ClassifyHTTPStatus builds a FetchError for a non-2xx status.
func ClassifyHTTPStatus(statusCode int, url string) *FetchError {
	e := &FetchError{StatusCode: statusCode, URL: url, Cause: fmt.Errorf("HTTP %d", statusCode)}

	switch {
	case statusCode == http.StatusTooManyRequests:
		e.Type = ErrTypeRateLimited
	case statusCode == http.StatusForbidden || statusCode == http.StatusUnauthorized:
		e.Type = ErrTypeForbidden
	case statusCode == http.StatusNotFound || statusCode == http.StatusGone:
		e.Type = ErrTypeNotFound
	case statusCode >= http.StatusInternalServerError && statusCode <= 599:
		e.Type = ErrTypeUpstream
	default:
		e.Type = ErrTypeUnexpected
	}

	return e
}

// ClassifyNetworkError builds a FetchError for a transport failure.
func ClassifyNetworkError(cause error, url string) *FetchError {
	var netErr net.Error
	if errors.Is(cause, context.DeadlineExceeded) || (errors.As(cause, &netErr) && netErr.Timeout()) {
		return &FetchError{Type: ErrTypeTimeout, URL: url, Cause: cause}
	}
	return &FetchError{Type: ErrTypeNetwork, URL: url, Cause: cause}
}

// ClassifyParseError builds a FetchError for an unparseable body.
func ClassifyParseError(cause error, url string) *FetchError {
	return &FetchError{Type: ErrTypeParse, URL: url, Cause: cause}
}

// IsTransient reports whether err carries a transient FetchError.
func IsTransient(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Transient()
}

// logFetchError logs classified fetch failures at WARN and anything
// unexpected at ERROR.
func logFetchError(log logger.Logger, msg string, err error, fields ...logger.Field) {
	fields = append(fields, logger.Error(err))

	var fe *FetchError
	if errors.As(err, &fe) {
		fields = append(fields, logger.String("error_type", string(fe.Type)))
		if fe.Type == ErrTypeUnexpected {
			log.Error(msg, fields...)
			return
		}
	}
	log.Warn(msg, fields...)
}
