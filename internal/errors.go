package internal

import (
	"errors"
	"log/slog"
	"net/http"
)

// HTTPError is an error that carries an HTTP status code.
// Handlers return it to control the status of the error response.
type HTTPError struct {
	// Err is the underlying cause, logged but never shown to the client.
	Err error

	// Message is safe to show to the client.
	Message string

	// Detail is an optional longer explanation shown to the client.
	Detail string

	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int {
	return e.Code
}

// StatusText returns the standard text for the status code.
func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates an HTTPError. An empty message uses the status text.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	e := &HTTPError{
		Code:    code,
		Message: message,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithDetail sets the detail text.
func WithDetail(detail string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Detail = detail
	}
}

// WithError attaches the underlying cause.
func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrMethodNotAllowed(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusMethodNotAllowed, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, message, opts...)
}

// IsHTTPError reports whether err or anything it wraps is an *HTTPError.
func IsHTTPError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}

// AsHTTPError extracts the first *HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// DefaultErrorHandler renders errors as plain text or JSON, depending on the
// Accept header. Non-HTTP errors become 500 responses without leaking their text.
// Server errors are logged with the underlying cause.
func DefaultErrorHandler(c Context, err error) error {
	httpErr := AsHTTPError(err)
	if httpErr == nil {
		httpErr = ErrInternal("", WithError(err))
	}

	if httpErr.Code >= http.StatusInternalServerError {
		c.LogError("request failed",
			slog.Int("status", httpErr.Code),
			slog.String("method", c.Request().Method),
			slog.String("path", c.Request().URL.Path),
			slog.Any("error", err),
		)
	}

	if wantsJSON(c.Request()) {
		body := map[string]string{"error": httpErr.Message}
		if httpErr.Detail != "" {
			body["detail"] = httpErr.Detail
		}
		return c.JSON(httpErr.Code, body)
	}

	text := httpErr.Message
	if httpErr.Detail != "" {
		text += ": " + httpErr.Detail
	}
	return c.String(httpErr.Code, text)
}

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json"
}
