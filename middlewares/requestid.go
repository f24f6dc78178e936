package middlewares

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/pdfmail/internal"
	"github.com/dmitrymomot/pdfmail/pkg/logger"
)

type requestIDKey struct{}

// DefaultRequestIDHeaders are checked in order for an incoming request ID.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

// maxRequestIDLength bounds IDs accepted from clients.
const maxRequestIDLength = 128

// RequestIDConfig configures the RequestID middleware.
type RequestIDConfig struct {
	Generator      func() string // ID generator function
	ResponseHeader string        // Response header name
	Headers        []string      // Headers to check for existing ID (in order)
}

// RequestIDOption configures RequestID.
type RequestIDOption func(*RequestIDConfig)

func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Headers = headers
	}
}

func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		if gen != nil {
			cfg.Generator = gen
		}
	}
}

func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.ResponseHeader = header
	}
}

// RequestID reuses a client supplied request ID or generates a UUID,
// stores it in the request context and echoes it in the response.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	cfg := &RequestIDConfig{
		Headers:        DefaultRequestIDHeaders,
		Generator:      uuid.NewString,
		ResponseHeader: "X-Request-ID",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			var reqID string
			for _, header := range cfg.Headers {
				if v := c.Header(header); v != "" && len(v) <= maxRequestIDLength {
					reqID = v
					break
				}
			}

			if reqID == "" {
				reqID = cfg.Generator()
			}

			c.Set(requestIDKey{}, reqID)
			if cfg.ResponseHeader != "" {
				c.SetHeader(cfg.ResponseHeader, reqID)
			}

			return next(c)
		}
	}
}

// GetRequestID returns the request ID set by RequestID.
func GetRequestID(c internal.Context) string {
	return internal.ContextValue[string](c, requestIDKey{})
}

// RequestIDExtractor adds request_id to every log record written with the request context.
func RequestIDExtractor() logger.ContextExtractor {
	return logger.FromContext(requestIDKey{}, "request_id")
}
