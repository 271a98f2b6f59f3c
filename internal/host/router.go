package host

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"unicode"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ErrDuplicateRoute is returned when two routes share a name or a path.
	ErrDuplicateRoute = errors.New("host: duplicate route")
	// ErrUnknownRoute is returned by URL for an unbound name.
	ErrUnknownRoute = errors.New("host: unknown route")
	// ErrBadAction is returned for malformed or unresolvable action references.
	ErrBadAction = errors.New("host: bad controller action")
	// ErrBadRoute is returned for paths that are not literal URL paths.
	ErrBadRoute = errors.New("host: bad route path")
)

// Controller exposes named actions. Action references take the form
// "<container key>::<action>".
type Controller interface {
	Action(name string) (http.HandlerFunc, bool)
}

// Route is a single binding inside a RouteCollection.
type Route struct {
	Path   string
	Action string
	Name   string
	HTTPS  bool
}

// Bind sets the route's symbolic name.
func (r *Route) Bind(name string) *Route {
	r.Name = name
	return r
}

// RouteCollection is an isolated set of routes built before being mounted.
type RouteCollection struct {
	routes []*Route
	https  bool
}

// NewRouteCollection returns an empty collection.
func NewRouteCollection() *RouteCollection {
	return &RouteCollection{}
}

// RequireHTTPS marks every route of the collection, including routes
// added afterwards, as HTTPS only.
func (rc *RouteCollection) RequireHTTPS() {
	rc.https = true
	for _, r := range rc.routes {
		r.HTTPS = true
	}
}

// Match binds path to action for any HTTP method.
func (rc *RouteCollection) Match(path, action string) *Route {
	r := &Route{Path: path, Action: action, HTTPS: rc.https}
	rc.routes = append(rc.routes, r)
	return r
}

// Routes returns the bindings in insertion order.
func (rc *RouteCollection) Routes() []*Route {
	return rc.routes
}

// Router is the global route table.
type Router struct {
	c *Container

	mu     sync.Mutex
	routes []Route
}

// NewRouter returns a route table whose actions are resolved through c.
func NewRouter(c *Container) *Router {
	return &Router{c: c}
}

// Mount copies the collection's routes under prefix. Prefix and route path
// are joined with exactly one slash.
func (rt *Router) Mount(prefix string, rc *RouteCollection) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	for _, r := range rc.routes {
		m := *r
		m.Path = joinPath(prefix, r.Path)
		rt.routes = append(rt.routes, m)
	}
}

// Routes returns a copy of the mounted routes.
func (rt *Router) Routes() []Route {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return append([]Route(nil), rt.routes...)
}

// Lookup returns the route bound to name.
func (rt *Router) Lookup(name string) (Route, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	for _, r := range rt.routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// URL generates the path of the named route with an optional query.
func (rt *Router) URL(name string, query url.Values) (string, error) {
	r, ok := rt.Lookup(name)
	if !ok {
		return "", fmt.Errorf("url %q: %w", name, ErrUnknownRoute)
	}
	if len(query) == 0 {
		return r.Path, nil
	}
	return r.Path + "?" + query.Encode(), nil
}

// Handler builds the dispatcher for every mounted route. Name and path
// collisions are reported here. reg may be nil to skip metrics.
func (rt *Router) Handler(reg prometheus.Registerer) (http.Handler, error) {
	routes := rt.Routes()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "host_route_requests_total",
		Help: "Requests dispatched per named route.",
	}, []string{"route"})
	if reg != nil {
		if err := reg.Register(requests); err != nil {
			return nil, fmt.Errorf("register route metrics: %w", err)
		}
	}

	mux := http.NewServeMux()
	names := make(map[string]string, len(routes))
	paths := make(map[string]bool, len(routes))
	for _, r := range routes {
		if err := ValidatePath(r.Path); err != nil {
			return nil, err
		}
		if r.Name != "" {
			if other, ok := names[r.Name]; ok {
				return nil, fmt.Errorf("route name %q (%s, %s): %w", r.Name, other, r.Path, ErrDuplicateRoute)
			}
			names[r.Name] = r.Path
		}
		if paths[r.Path] {
			return nil, fmt.Errorf("route path %q: %w", r.Path, ErrDuplicateRoute)
		}
		paths[r.Path] = true

		key, action, err := splitAction(r.Action)
		if err != nil {
			return nil, err
		}
		label := r.Name
		if label == "" {
			label = r.Path
		}
		mux.Handle(r.Path, rt.dispatch(r, key, action, requests.WithLabelValues(label)))
	}
	return mux, nil
}

func (rt *Router) dispatch(r Route, key, action string, hits prometheus.Counter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits.Inc()
		if r.HTTPS && !isSecure(req) {
			target := "https://" + req.Host + req.URL.RequestURI()
			http.Redirect(w, req, target, http.StatusMovedPermanently)
			return
		}
		ctrl, err := Resolve[Controller](rt.c, key)
		if err != nil {
			Logger(rt.c).Error("host: controller unavailable", "route", r.Name, "action", r.Action, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		h, ok := ctrl.Action(action)
		if !ok {
			Logger(rt.c).Error("host: action not found", "route", r.Name, "action", r.Action)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		h(w, req)
	})
}

func splitAction(ref string) (key, action string, err error) {
	key, action, ok := strings.Cut(ref, "::")
	if !ok || key == "" || action == "" {
		return "", "", fmt.Errorf("action %q: %w", ref, ErrBadAction)
	}
	return key, action, nil
}

func isSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// ValidatePath checks that p is an absolute literal path. Whitespace and
// braces are rejected since the mux would read them as a method or a
// wildcard.
func ValidatePath(p string) error {
	if !strings.HasPrefix(p, "/") {
		return fmt.Errorf("route path %q: not absolute: %w", p, ErrBadRoute)
	}
	if i := strings.IndexFunc(p, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r) || r == '{' || r == '}'
	}); i >= 0 {
		return fmt.Errorf("route path %q: invalid character at %d: %w", p, i, ErrBadRoute)
	}
	return nil
}

func joinPath(prefix, p string) string {
	prefix = strings.TrimRight(prefix, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return prefix + p
}

