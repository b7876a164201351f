package server

import (
	"net/http"
)

// Middleware decorates a handler. Applied in registration order, outermost first.
type Middleware func(http.Handler) http.Handler

// Handler is a group of endpoints mounted on a [Router] as one unit.
type Handler interface {
	http.Handler
	// Routes lists the mux patterns ("POST /api/compare") the handler answers.
	Routes() []string
}

// Router registers endpoints behind a middleware chain and serves them.
type Router interface {
	http.Handler
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	// Patterns reports everything registered so far, sorted.
	Patterns() []string
}

var (
	_ Router  = (*BasicRouter)(nil)
	_ Handler = (*StubHandler)(nil)
)
