package internal

import (
	"bufio"
	"net"
	"net/http"
	"sync"
)

// ResponseWriter wraps http.ResponseWriter to track the status code and
// to run hooks right before the header is written.
// Flash cookies are set from such a hook, so they land in the same response
// regardless of which helper writes it.
type ResponseWriter struct {
	http.ResponseWriter
	status      int
	size        int64
	written     bool
	beforeWrite []func()
	mu          sync.Mutex
}

// NewResponseWriter wraps w.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{
		ResponseWriter: w,
		status:         http.StatusOK,
	}
}

// OnBeforeWrite registers fn to run once before the header is written.
func (w *ResponseWriter) OnBeforeWrite(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.beforeWrite = append(w.beforeWrite, fn)
}

// takeHooks marks the response as written and returns the pending hooks.
// Callers hold w.mu.
func (w *ResponseWriter) takeHooks() []func() {
	w.written = true
	hooks := w.beforeWrite
	w.beforeWrite = nil
	return hooks
}

func (w *ResponseWriter) WriteHeader(code int) {
	w.mu.Lock()
	if w.written {
		w.mu.Unlock()
		return
	}
	w.status = code
	hooks := w.takeHooks()
	w.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	if !w.written {
		hooks := w.takeHooks()
		w.mu.Unlock()

		for _, fn := range hooks {
			fn()
		}

		w.ResponseWriter.WriteHeader(w.status)
	} else {
		w.mu.Unlock()
	}

	n, err := w.ResponseWriter.Write(b)
	w.size += int64(n)
	return n, err
}

// Status returns the status code written, or 200.
func (w *ResponseWriter) Status() int {
	return w.status
}

// Size returns the number of body bytes written.
func (w *ResponseWriter) Size() int64 {
	return w.size
}

// Written reports whether the header has been written.
func (w *ResponseWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

func (w *ResponseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
