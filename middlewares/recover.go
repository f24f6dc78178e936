package middlewares

import (
	"log/slog"
	"runtime"

	"github.com/dmitrymomot/pdfmail/internal"
)

// DefaultStackSize is the default maximum size of a captured stack trace.
const DefaultStackSize = 4096

type RecoverConfig struct {
	StackSize         int  // Max stack trace size (default: 4096)
	DisablePrintStack bool // Disable stack trace in logs
}

type RecoverOption func(*RecoverConfig)

func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		if size > 0 {
			cfg.StackSize = size
		}
	}
}

func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// Recover turns a panic in a downstream handler into a *PanicError,
// which the error handler renders as a 500.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &RecoverConfig{
		StackSize: DefaultStackSize,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				attrs := []any{slog.Any("panic", r), slog.String("path", c.Request().URL.Path)}
				var stack []byte
				if !cfg.DisablePrintStack {
					stack = make([]byte, cfg.StackSize)
					stack = stack[:runtime.Stack(stack, false)]
					attrs = append(attrs, slog.String("stack", string(stack)))
				}
				c.LogError("panic recovered", attrs...)

				err = &PanicError{Value: r, Stack: stack}
			}()

			return next(c)
		}
	}
}
