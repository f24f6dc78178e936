// Package internal provides the HTTP runtime of the pdfmail service.
//
// # Core Types
//
//   - App: owns the chi router, health endpoints, and graceful shutdown
//   - Context: request/response access, flash status messages, and render helpers
//   - Router: interface handlers use to declare routes with HTTP methods and grouping
//   - Handler: implemented by types that declare routes on a router
//   - HandlerFunc: signature for route handlers that return errors
//   - Middleware: wraps handlers to add cross-cutting concerns
//   - ErrorHandler: turns handler errors into responses
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any function
// that expects a standard library context:
//
//	func (h *Handler) view(c internal.Context) error {
//	    item, err := h.store.Get(c, id)
//	    ...
//	}
//
// # Errors
//
// Handlers return errors instead of writing failure responses themselves.
// A returned *HTTPError carries the status code; any other error becomes a 500.
// The ErrorHandler configured with WithErrorHandler decides how the error is
// rendered. DefaultErrorHandler writes the status text and logs 5xx responses.
//
// # Running
//
// App.Run starts the HTTP server, runs startup hooks (job workers, for example),
// and on SIGINT or SIGTERM shuts the server down before running shutdown hooks
// in registration order.
package internal
