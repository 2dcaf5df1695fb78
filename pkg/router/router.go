package router

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

// Router is a small ServeMux wrapper with method-aware routing,
// single-segment and trailing wildcards, and request logging.
type Router struct {
	mux    *http.ServeMux
	routes map[string]HandlerFunc // key = METHOD:PATH
	paths  map[string]bool        // track registered paths
	log    *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		routes: make(map[string]HandlerFunc),
		paths:  make(map[string]bool),
		log:    log,
	}

	// Catch-all handler so unknown paths and wildcard routes share the
	// same dispatch and logging.
	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		key := req.Method + ":" + req.URL.Path
		if h, ok := r.routes[key]; ok {
			h(lrw, req)
		} else {
			// Pick the most specific wildcard match so e.g.
			// /syncs/*/errors wins over /syncs/* regardless of map order.
			best := ""
			for routePath := range r.paths {
				if !strings.Contains(routePath, "/*") || !matchWildcardRoute(req.URL.Path, routePath) {
					continue
				}
				if _, ok := r.routes[req.Method+":"+routePath]; !ok {
					continue
				}
				if moreSpecific(routePath, best) {
					best = routePath
				}
			}

			if best != "" {
				r.routes[req.Method+":"+best](lrw, req)
			} else {
				if _, pathExists := r.paths[req.URL.Path]; pathExists {
					http.Error(lrw, "Method Not Allowed", http.StatusMethodNotAllowed)
				} else {
					http.Error(lrw, "Not Found", http.StatusNotFound)
				}
			}
		}

		r.log.Infow("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", lrw.statusCode,
			"duration", time.Since(start))
	})

	return r
}

// moreSpecific ranks wildcard patterns: more segments first, then
// fewer wildcards, then lexicographic for determinism.
func moreSpecific(a, b string) bool {
	if b == "" {
		return true
	}
	aSegs := strings.Count(a, "/")
	bSegs := strings.Count(b, "/")
	if aSegs != bSegs {
		return aSegs > bSegs
	}
	aWild := strings.Count(a, "*")
	bWild := strings.Count(b, "*")
	if aWild != bWild {
		return aWild < bWild
	}
	return a < b
}

// matchWildcardRoute checks if a request path matches a wildcard route
// pattern. A trailing "*" matches any number of remaining segments; a
// "*" in the middle matches exactly one segment.
func matchWildcardRoute(requestPath, routePattern string) bool {
	requestSegments := strings.Split(strings.Trim(requestPath, "/"), "/")
	routeSegments := strings.Split(strings.Trim(routePattern, "/"), "/")

	if len(routeSegments) > 0 && routeSegments[len(routeSegments)-1] == "*" {
		if len(requestSegments) < len(routeSegments)-1 {
			return false
		}
		for i := 0; i < len(routeSegments)-1; i++ {
			if routeSegments[i] != "*" && requestSegments[i] != routeSegments[i] {
				return false
			}
		}
		return true
	}

	if len(requestSegments) != len(routeSegments) {
		return false
	}
	for i, routeSegment := range routeSegments {
		if routeSegment == "*" {
			continue
		}
		if requestSegments[i] != routeSegment {
			return false
		}
	}
	return true
}

func (r *Router) register(method, path string, handler HandlerFunc) {
	key := method + ":" + path
	r.routes[key] = handler
	r.paths[path] = true
}

func (r *Router) GET(path string, handler HandlerFunc)   { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc)  { r.register(http.MethodPost, path, handler) }
func (r *Router) PUT(path string, handler HandlerFunc)   { r.register(http.MethodPut, path, handler) }
func (r *Router) PATCH(path string, handler HandlerFunc) { r.register(http.MethodPatch, path, handler) }
func (r *Router) DELETE(path string, handler HandlerFunc) {
	r.register(http.MethodDelete, path, handler)
}

// Getter methods for testing
func (r *Router) Routes() map[string]HandlerFunc { return r.routes }
func (r *Router) Paths() map[string]bool         { return r.paths }

// Handler exposes the underlying mux, e.g. for httptest servers.
func (r *Router) Handler() http.Handler { return r.mux }

// Start runs the HTTP server until it fails or the listener closes.
func (r *Router) Start(addr string) error {
	r.log.Infow("server started", "addr", addr)
	return http.ListenAndServe(addr, r.mux)
}

// loggingResponseWriter captures the status code for request logging.
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}
