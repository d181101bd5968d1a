package openf1

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a non-2xx upstream response
type StatusError struct {
	StatusCode int
	Endpoint   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openf1 %s responded with status %d", e.Endpoint, e.StatusCode)
}

// transportError is a failure to reach the upstream at all
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return "openf1 request failed: " + e.err.Error()
}

func (e *transportError) Unwrap() error {
	return e.err
}

// isRetryable accepts connectivity failures and gateway-style 5xx responses only
func isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	var transportErr *transportError
	return errors.As(err, &transportErr)
}
