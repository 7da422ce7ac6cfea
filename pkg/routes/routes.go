// Package routes declares handlers as nested prefix groups and registers
// them on a ServeMux.
package routes

import (
	"net/http"
	"strings"
)

// Route binds an HTTP method and a pattern, relative to its group, to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group shares a path prefix across its routes and child groups.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Flatten returns every route in g and its children with the patterns
// resolved against the accumulated prefixes.
func (g Group) Flatten() []Route {
	return g.flatten("")
}

func (g Group) flatten(parent string) []Route {
	prefix := parent + g.Prefix
	out := make([]Route, 0, len(g.Routes))
	for _, r := range g.Routes {
		r.Pattern = prefix + r.Pattern
		out = append(out, r)
	}
	for _, child := range g.Children {
		out = append(out, child.flatten(prefix)...)
	}
	return out
}

// String renders the route as a ServeMux pattern, e.g. "POST /analysis/batch".
func (r Route) String() string {
	return strings.TrimSpace(r.Method + " " + r.Pattern)
}

// Register adds every route in groups to mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		for _, r := range g.Flatten() {
			mux.HandleFunc(r.String(), r.Handler)
		}
	}
}
