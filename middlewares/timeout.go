package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/pdfmail/internal"
)

// DefaultTimeout applies when Timeout is given a non-positive duration.
const DefaultTimeout = 30 * time.Second

// Timeout puts a deadline on the request context. Downstream calls that
// honour the context (PDF rendering, mail delivery, queries) stop at the
// deadline; if the handler then returns without writing a response,
// the request fails with a *TimeoutError.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), timeout)
			defer cancel()
			c.SetContext(ctx)

			err := next(c)
			if c.Written() || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return err
			}

			c.LogWarn("request timeout", "timeout", timeout.String())
			return errors.Join(&TimeoutError{Duration: timeout}, err)
		}
	}
}
