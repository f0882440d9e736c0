package httpclient

import (
	goerrors "errors"
	"fmt"

	"github.com/invixio/invixio/internal/errors"
)

// Error is returned when an upstream responds with a 4xx or 5xx status. The
// raw body is kept so callers can inspect the upstream payload.
type Error struct {
	*errors.InternalError
	StatusCode int
	Response   []byte
}

func (e *Error) Unwrap() error {
	return e.InternalError.Unwrap()
}

func (e *Error) Error() string {
	return e.InternalError.Error()
}

// NewError creates an Error carrying the upstream status and body.
func NewError(statusCode int, response []byte) *Error {
	return &Error{
		InternalError: errors.New(errors.ErrCodeHTTPClient, fmt.Sprintf("upstream responded with status %d", statusCode)),
		StatusCode:    statusCode,
		Response:      response,
	}
}

// IsHTTPError reports whether err wraps an upstream status failure.
func IsHTTPError(err error) (*Error, bool) {
	var httpErr *Error
	if goerrors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
