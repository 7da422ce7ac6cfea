// Package module mounts prefixed sub-routers, each behind its own
// middleware chain, onto a single top-level handler.
package module

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

var (
	ErrInvalidPrefix   = errors.New("invalid module prefix")
	ErrDuplicatePrefix = errors.New("module prefix already mounted")
)

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// Module serves a router under a single-level prefix. The middleware chain
// is composed once in New; the first middleware given is the outermost.
type Module struct {
	prefix  string
	handler http.Handler
}

// New returns a Module for prefix (e.g. "/api").
func New(prefix string, router http.Handler, chain ...Middleware) (*Module, error) {
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}

	handler := router
	for i := len(chain) - 1; i >= 0; i-- {
		handler = chain[i](handler)
	}
	return &Module{prefix: prefix, handler: handler}, nil
}

func (m *Module) Prefix() string {
	return m.prefix
}

// ServeHTTP strips the prefix and dispatches to the wrapped router.
func (m *Module) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, m.prefix)
	if path == "" {
		path = "/"
	}

	inner := new(http.Request)
	*inner = *req
	inner.URL = new(url.URL)
	*inner.URL = *req.URL
	inner.URL.Path = path
	inner.URL.RawPath = ""

	m.handler.ServeHTTP(w, inner)
}

// Router dispatches on the first path segment to a mounted Module and
// falls back to a plain ServeMux for everything else.
type Router struct {
	modules map[string]*Module
	native  *http.ServeMux
}

func NewRouter() *Router {
	return &Router{
		modules: make(map[string]*Module),
		native:  http.NewServeMux(),
	}
}

// Mount registers m under its prefix.
func (r *Router) Mount(m *Module) error {
	if _, ok := r.modules[m.prefix]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePrefix, m.prefix)
	}
	r.modules[m.prefix] = m
	return nil
}

// HandleNative registers a handler on the fallback mux.
func (r *Router) HandleNative(pattern string, handler http.Handler) {
	r.native.Handle(pattern, handler)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
		req.URL.Path = path
	}

	first, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if m, ok := r.modules["/"+first]; ok {
		m.ServeHTTP(w, req)
		return
	}
	r.native.ServeHTTP(w, req)
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("%w: empty", ErrInvalidPrefix)
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("%w: %s must start with /", ErrInvalidPrefix, prefix)
	case strings.Count(prefix, "/") != 1 || prefix == "/":
		return fmt.Errorf("%w: %s must be a single path segment", ErrInvalidPrefix, prefix)
	}
	return nil
}
