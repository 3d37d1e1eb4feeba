package router

import (
	"net/url"
	"strings"

	"github.com/vyrodovalexey/avaroute/internal/util"
)

// Status is the terminal outcome of a lookup.
type Status int

// Lookup outcomes.
const (
	NotFound Status = iota
	Found
	MethodNotAllowed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case MethodNotAllowed:
		return "method_not_allowed"
	default:
		return "not_found"
	}
}

// Result is the outcome of Matcher.Match. Params must be treated as read-only:
// cached results share the map between lookups.
type Result struct {
	Status  Status
	Method  string
	Path    string
	Route   *Route
	Handler HandlerRef
	Params  map[string]string
	Allowed []string
	Tier    Tier
	Cached  bool
}

// Err converts NotFound and MethodNotAllowed outcomes into typed errors.
func (r Result) Err() error {
	switch r.Status {
	case Found:
		return nil
	case MethodNotAllowed:
		return util.NewMethodNotAllowedError(r.Method, r.Path, r.Allowed)
	default:
		return util.NewRouteNotFoundError(r.Method, r.Path)
	}
}

// Pattern returns the matched route pattern, or the path for auto routes.
func (r Result) Pattern() string {
	if r.Route != nil {
		return r.Route.Path()
	}
	return r.Path
}

// Matcher resolves requests against a frozen route table. It is safe for
// concurrent use; the resolved cache is the only state it mutates.
type Matcher struct {
	table    *table
	cache    *resolvedCache
	opts     Options
	recorder MatchRecorder
}

func newMatcher(t *table, opts Options, s settings) *Matcher {
	m := &Matcher{
		table:    t,
		cache:    newResolvedCache(opts.TmpCacheNumber),
		opts:     opts,
		recorder: s.recorder,
	}
	m.recorder.RoutesLoaded(t.counts())
	return m
}

// Match resolves method and path. First hit wins in the order: resolved
// cache, static, regular, vague, auto route.
func (m *Matcher) Match(method, path string) Result {
	method = strings.ToUpper(method)
	path = normalizePath(path, m.opts.IgnoreLastSlash)

	key := cacheKey(method, path)
	if m.cache != nil {
		if cached, ok := m.cache.get(key); ok {
			m.recorder.CacheHit()
			res := *cached
			res.Cached = true
			m.recorder.Matched(res.Status, res.Tier)
			return res
		}
		m.recorder.CacheMiss()
	}

	// A literal path is never also matched by a dynamic pattern with a
	// different literal path, so a static miss on method ends the lookup.
	if byMethod, ok := m.table.static[path]; ok {
		if route, ok := byMethod[method]; ok {
			return m.finish(Result{
				Status:  Found,
				Method:  method,
				Path:    path,
				Route:   route,
				Handler: route.Handler,
				Params:  route.copyDefaults(),
				Tier:    TierStatic,
			})
		}
		var allowed MethodSet
		for _, route := range byMethod {
			allowed |= route.Methods
		}
		return m.notAllowed(method, path, allowed)
	}

	var allowed MethodSet

	if res, ok := m.matchRegular(method, path, &allowed); ok {
		return m.finishDynamic(key, res)
	}

	if res, ok := m.matchVague(method, path); ok {
		return m.finishDynamic(key, res)
	}

	if m.opts.AutoRoute {
		if handler, ok := resolveAutoRoute(path, m.opts.ControllerNamespace, m.opts.ControllerSuffix, m.opts.Controllers); ok {
			return m.finishDynamic(key, Result{
				Status:  Found,
				Method:  method,
				Path:    path,
				Handler: handler,
				Tier:    TierAuto,
			})
		}
	}

	allowed |= m.vagueAllowed(method, path)
	if allowed != 0 {
		return m.notAllowed(method, path, allowed)
	}

	return m.finish(Result{Status: NotFound, Method: method, Path: path})
}

// matchRegular scans routes partitioned under the first path segment.
// Candidates matching the path under other methods are folded into allowed.
func (m *Matcher) matchRegular(method, path string, allowed *MethodSet) (Result, bool) {
	routes := m.table.regular[firstFromPath(path)]

	for _, route := range routes {
		if !route.Methods.Has(method) {
			m.recorder.RegexEvaluated(TierRegular)
			if route.Pattern.MatchString(path) {
				*allowed |= route.Methods
			}
			continue
		}

		m.recorder.RegexEvaluated(TierRegular)
		if params, ok := route.Pattern.Extract(path, route.Defaults); ok {
			return Result{
				Status:  Found,
				Method:  method,
				Path:    path,
				Route:   route,
				Handler: route.Handler,
				Params:  params,
				Tier:    TierRegular,
			}, true
		}
	}

	return Result{}, false
}

// matchVague scans the method's vague routes, using the include hint to
// skip the regex when its literal is absent.
func (m *Matcher) matchVague(method, path string) (Result, bool) {
	for _, route := range m.table.vague[method] {
		if inc := route.Pattern.Include; inc != "" && !strings.Contains(path, inc) {
			continue
		}

		m.recorder.RegexEvaluated(TierVague)
		if params, ok := route.Pattern.Extract(path, route.Defaults); ok {
			return Result{
				Status:  Found,
				Method:  method,
				Path:    path,
				Route:   route,
				Handler: route.Handler,
				Params:  params,
				Tier:    TierVague,
			}, true
		}
	}

	return Result{}, false
}

// vagueAllowed collects methods of vague routes registered for other methods
// that match the path.
func (m *Matcher) vagueAllowed(method, path string) MethodSet {
	var allowed MethodSet
	for _, route := range m.table.vagueAll {
		if route.Methods.Has(method) || allowed&route.Methods == route.Methods {
			continue
		}
		if inc := route.Pattern.Include; inc != "" && !strings.Contains(path, inc) {
			continue
		}
		m.recorder.RegexEvaluated(TierVague)
		if route.Pattern.MatchString(path) {
			allowed |= route.Methods
		}
	}
	return allowed
}

func (m *Matcher) notAllowed(method, path string, allowed MethodSet) Result {
	res := Result{
		Status:  MethodNotAllowed,
		Method:  method,
		Path:    path,
		Allowed: allowed.Methods(),
	}
	if m.opts.NotAllowedAsNotFound {
		res.Status = NotFound
		res.Allowed = nil
	}
	return m.finish(res)
}

func (m *Matcher) finishDynamic(key string, res Result) Result {
	if m.cache != nil {
		stored := res
		if m.cache.put(key, &stored) {
			m.recorder.CacheStored(m.cache.len())
		}
	}
	return m.finish(res)
}

func (m *Matcher) finish(res Result) Result {
	m.recorder.Matched(res.Status, res.Tier)
	return res
}

// Routes returns every registered route in registration order.
func (m *Matcher) Routes() []*Route {
	out := make([]*Route, len(m.table.all))
	copy(out, m.table.all)
	return out
}

// Options returns the options the matcher was built with.
func (m *Matcher) Options() Options {
	return m.opts
}

// CacheLen returns the number of cached resolutions.
func (m *Matcher) CacheLen() int {
	if m.cache == nil {
		return 0
	}
	return m.cache.len()
}

// normalizePath collapses repeated slashes, percent-decodes, and optionally
// strips the trailing slash.
func normalizePath(path string, ignoreLastSlash bool) string {
	if strings.Contains(path, "//") {
		var sb strings.Builder
		sb.Grow(len(path))
		prevSlash := false
		for i := 0; i < len(path); i++ {
			c := path[i]
			if c == '/' && prevSlash {
				continue
			}
			prevSlash = c == '/'
			sb.WriteByte(c)
		}
		path = sb.String()
	}

	if strings.IndexByte(path, '%') >= 0 {
		if decoded, err := url.PathUnescape(path); err == nil {
			path = decoded
		}
	}

	if path == "" || path[0] != '/' {
		path = "/" + path
	}

	if ignoreLastSlash && path != "/" {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}

	return path
}

// firstFromPath returns the first path node: '/article/12' -> 'article',
// '/about.html' -> 'about'.
func firstFromPath(path string) string {
	tmp := strings.Trim(path, "/")

	if i := strings.IndexByte(tmp, '/'); i > 0 {
		return tmp[:i]
	}
	if i := strings.IndexByte(tmp, '.'); i > 0 {
		return tmp[:i]
	}
	return tmp
}
