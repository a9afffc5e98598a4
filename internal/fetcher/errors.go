package fetcher

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidProxyAddress is returned when the proxy address is not "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrBodyTooLarge is wrapped in a *FetchError when a response body exceeds
	// the client's maximum body size. A cut-off page would lose its pager link.
	ErrBodyTooLarge = errors.New("response body exceeds the maximum size")
)

// FetchError is returned when the transport could not produce a response,
// for example on DNS failures, refused connections or timeouts.
type FetchError struct {
	// URL is the requested URL.
	URL string

	// Err is the underlying transport error.
	Err error
}

// Error implements error.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusError is returned when the server answered with a status other than 200.
// It is treated exactly like a transport error for retry purposes.
type StatusError struct {
	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP status code of the response.
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: invalid status: %d", e.URL, e.StatusCode)
}

// IsTransportError reports whether err is a FetchError or a StatusError.
func IsTransportError(err error) bool {
	var fetchErr *FetchError
	var statusErr *StatusError
	return errors.As(err, &fetchErr) || errors.As(err, &statusErr)
}
