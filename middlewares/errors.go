package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/pdfmail/internal"
)

// PanicError is returned by Recover when a handler panics.
type PanicError struct {
	Value any    // The panic value
	Stack []byte // Stack trace (nil if disabled)
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// TimeoutError is returned by Timeout when the deadline passes.
type TimeoutError struct {
	Duration time.Duration // The timeout that was exceeded
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

func IsPanicError(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// ErrorHandler wraps next so timeouts render as 503 and panics as a plain 500.
// Everything else goes to next.
func ErrorHandler(next internal.ErrorHandler) internal.ErrorHandler {
	return func(c internal.Context, err error) error {
		switch {
		case IsTimeoutError(err):
			return next(c, internal.ErrServiceUnavailable("", internal.WithError(err)))
		case IsPanicError(err):
			return next(c, internal.NewHTTPError(http.StatusInternalServerError, "", internal.WithError(err)))
		default:
			return next(c, err)
		}
	}
}
