// Package middlewares provides HTTP middleware for the pdfmail runtime.
//
// RequestID tags each request with an ID (client supplied or a fresh UUID).
// Pass RequestIDExtractor to logger.New so every record written with the
// request context carries request_id.
//
// Recover converts panics into *PanicError and Timeout puts a deadline on the
// request context, failing with *TimeoutError when the handler ran out of time.
// ErrorHandler maps both onto HTTP errors before delegating:
//
//	app := internal.New(
//	    internal.WithMiddleware(middlewares.RequestID(), middlewares.Recover(), middlewares.Timeout(time.Minute)),
//	    internal.WithErrorHandler(middlewares.ErrorHandler(internal.DefaultErrorHandler)),
//	)
package middlewares
