package router

import (
	"fmt"
	"strings"

	"github.com/vyrodovalexey/avaroute/internal/observability"
	"github.com/vyrodovalexey/avaroute/internal/util"
)

// Registry collects route registrations and freezes them into a Matcher.
// It is not safe for concurrent use; registration happens during startup.
type Registry struct {
	opts     Options
	settings settings
	table    *table
	frozen   bool

	// active group scope
	prefix   string
	params   map[string]string
	defaults map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options, options ...Option) *Registry {
	s := defaultSettings()
	for _, o := range options {
		o(&s)
	}

	if opts.DefaultAction == "" {
		opts.DefaultAction = DefaultAction
	}

	return &Registry{
		opts:     opts,
		settings: s,
		table:    newTable(),
		params:   opts.GlobalParams,
	}
}

// Register adds an HTTP route. methods may hold ANY or comma separated lists.
func (r *Registry) Register(methods []string, pattern string, handler HandlerRef, opts RouteOptions) (*Route, error) {
	if r.frozen {
		return nil, util.NewRoutingFrozenError("register route " + pattern)
	}
	if handler == nil {
		return nil, util.NewMalformedRouteError(pattern, "route handler is required")
	}

	set, err := ParseMethods(methods...)
	if err != nil {
		return nil, err
	}

	path := r.normalizePattern(joinPath(r.prefix, pattern))
	params := mergeMaps(r.params, opts.Params)

	cp, err := Compile(path, params)
	if err != nil {
		return nil, err
	}

	route := &Route{
		Name:     opts.Name,
		Methods:  set,
		Handler:  handler,
		Defaults: mergeMaps(r.defaults, opts.Defaults),
		Pattern:  cp,
	}

	if !r.table.insert(route) {
		r.settings.logger.Warn("static route shadowed by earlier registration",
			observability.String("path", path),
			observability.String("methods", set.String()),
		)
		return route, nil
	}

	r.settings.logger.Debug("route registered",
		observability.String("path", path),
		observability.String("methods", set.String()),
		observability.String("tier", route.Tier.String()),
		observability.String("handler", handler.String()),
	)

	return route, nil
}

// Get registers a GET route.
func (r *Registry) Get(pattern string, handler HandlerRef) (*Route, error) {
	return r.Register([]string{"GET"}, pattern, handler, RouteOptions{})
}

// Post registers a POST route.
func (r *Registry) Post(pattern string, handler HandlerRef) (*Route, error) {
	return r.Register([]string{"POST"}, pattern, handler, RouteOptions{})
}

// Any registers a route for every supported method.
func (r *Registry) Any(pattern string, handler HandlerRef) (*Route, error) {
	return r.Register([]string{AnyMethod}, pattern, handler, RouteOptions{})
}

// Group registers the routes added by body under a path prefix. Group options
// apply to every route in the scope; route options override them. Groups nest.
func (r *Registry) Group(prefix string, opts RouteOptions, body func(*Registry) error) error {
	if r.frozen {
		return util.NewRoutingFrozenError("register group " + prefix)
	}

	savedPrefix, savedParams, savedDefaults := r.prefix, r.params, r.defaults
	defer func() {
		r.prefix, r.params, r.defaults = savedPrefix, savedParams, savedDefaults
	}()

	r.prefix = joinPath(savedPrefix, "/"+strings.Trim(prefix, "/"))
	r.params = mergeMaps(savedParams, opts.Params)
	r.defaults = mergeMaps(savedDefaults, opts.Defaults)

	if err := body(r); err != nil {
		return fmt.Errorf("group %s: %w", r.prefix, err)
	}

	return nil
}

// Freeze ends the registration phase and returns the read-only Matcher.
// Further Register or Group calls fail with a RoutingFrozenError.
func (r *Registry) Freeze() *Matcher {
	r.frozen = true

	return newMatcher(r.table, r.opts, r.settings)
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// normalizePattern ensures a leading slash and applies IgnoreLastSlash.
func (r *Registry) normalizePattern(path string) string {
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if r.opts.IgnoreLastSlash && path != "/" {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

// joinPath appends a pattern to a group prefix.
func joinPath(prefix, pattern string) string {
	switch {
	case prefix == "":
		return pattern
	case pattern == "", strings.HasPrefix(pattern, "["):
		return prefix + pattern
	default:
		return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(pattern, "/")
	}
}
