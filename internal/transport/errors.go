package transport

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrStatusNotOK is returned when http response had non-2xx status.
	ErrStatusNotOK = errors.New("response status is not 2xx")
	// ErrContentTypeNotSupported is returned when response content type is not supported.
	ErrContentTypeNotSupported = errors.New("response content type not supported")
	// ErrEmptyBody is returned when fetched resource is empty.
	ErrEmptyBody = errors.New("empty response body")
	// ErrNotSupported is returned by operations transport can't perform.
	ErrNotSupported = errors.New("operation not supported by transport")
	// ErrNotConnected is returned when transport is used before Connect.
	ErrNotConnected = errors.New("transport not connected")
)

// StatusError is returned for non-2xx http responses.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrStatusNotOK, e.Code, http.StatusText(e.Code))
}

// Unwrap returns ErrStatusNotOK.
func (e *StatusError) Unwrap() error {
	return ErrStatusNotOK
}

// IsUnauthorized reports whether err was caused by 401 response.
func IsUnauthorized(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusUnauthorized
}
