package internal

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
)

// Router is the route registration surface handed to Handler.Routes.
type Router interface {
	// GET registers a handler for GET requests.
	GET(path string, h HandlerFunc, mw ...Middleware)

	// POST registers a handler for POST requests.
	POST(path string, h HandlerFunc, mw ...Middleware)

	// PUT registers a handler for PUT requests.
	PUT(path string, h HandlerFunc, mw ...Middleware)

	// DELETE registers a handler for DELETE requests.
	DELETE(path string, h HandlerFunc, mw ...Middleware)

	// Group creates an inline group sharing middleware.
	Group(fn func(r Router))

	// Route mounts a sub-router under pattern.
	Route(pattern string, fn func(r Router))

	// Use appends middleware to the current router.
	Use(mw ...Middleware)

	// Mount attaches a plain http.Handler under pattern.
	Mount(pattern string, h http.Handler)
}

// routerAdapter registers routes on chi. Middleware added with Use is
// composed as HandlerFuncs, so errors returned by a handler pass through
// every middleware before reaching the error handler.
type routerAdapter struct {
	router     chi.Router
	app        *App
	middleware []Middleware
}

func (r *routerAdapter) GET(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Get(path, r.wrap(h, mw...))
}

func (r *routerAdapter) POST(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Post(path, r.wrap(h, mw...))
}

func (r *routerAdapter) PUT(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Put(path, r.wrap(h, mw...))
}

func (r *routerAdapter) DELETE(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Delete(path, r.wrap(h, mw...))
}

func (r *routerAdapter) Group(fn func(Router)) {
	r.router.Group(func(cr chi.Router) {
		fn(r.child(cr))
	})
}

func (r *routerAdapter) Route(pattern string, fn func(Router)) {
	r.router.Route(pattern, func(cr chi.Router) {
		fn(r.child(cr))
	})
}

// Use applies mw to routes registered afterwards on this router and its children.
func (r *routerAdapter) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

func (r *routerAdapter) Mount(pattern string, h http.Handler) {
	r.router.Mount(pattern, h)
}

func (r *routerAdapter) child(cr chi.Router) *routerAdapter {
	return &routerAdapter{
		router:     cr,
		app:        r.app,
		middleware: slices.Clone(r.middleware),
	}
}

// wrap applies middleware so the first one registered runs first.
func (r *routerAdapter) wrap(h HandlerFunc, mw ...Middleware) http.HandlerFunc {
	for _, m := range slices.Backward(mw) {
		h = m(h)
	}
	for _, m := range slices.Backward(r.middleware) {
		h = m(h)
	}
	return r.app.wrapHandler(h)
}
