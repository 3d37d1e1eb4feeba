package router

import (
	"fmt"
	"sync/atomic"

	"github.com/vyrodovalexey/avaroute/internal/observability"
	"github.com/vyrodovalexey/avaroute/internal/util"
)

// RegisterFunc populates a registry during Load.
type RegisterFunc func(r *Registry) error

// Router owns the active routing snapshot. Lookups read the current Matcher
// through an atomic pointer; Load builds a replacement aside and swaps it in.
type Router struct {
	current  atomic.Pointer[Matcher]
	settings settings
	options  []Option
}

// New creates a Router with an empty snapshot built from DefaultOptions.
func New(options ...Option) *Router {
	s := defaultSettings()
	for _, o := range options {
		o(&s)
	}

	r := &Router{settings: s, options: options}
	r.current.Store(NewRegistry(DefaultOptions(), options...).Freeze())
	return r
}

// Load builds a new snapshot from opts and register and makes it active.
// On error the previous snapshot stays in place.
func (r *Router) Load(opts Options, register RegisterFunc) error {
	reg := NewRegistry(opts, r.options...)

	if register != nil {
		if err := register(reg); err != nil {
			r.reloaded(err)
			return fmt.Errorf("failed to load routes: %w", err)
		}
	}

	m := reg.Freeze()
	r.current.Store(m)
	r.reloaded(nil)

	counts := m.table.counts()
	r.settings.logger.Info("routing table loaded",
		observability.Int("static", counts[TierStatic]),
		observability.Int("regular", counts[TierRegular]),
		observability.Int("vague", counts[TierVague]),
		observability.Bool("auto_route", opts.AutoRoute),
		observability.Int("cache_capacity", opts.TmpCacheNumber),
	)

	return nil
}

func (r *Router) reloaded(err error) {
	if m, ok := r.settings.recorder.(interface{ Reloaded(error) }); ok {
		m.Reloaded(err)
	}
	if err != nil {
		// Load returns err to the caller, which reports it.
		r.settings.logger.Debug("routing table rejected", observability.Error(err))
	}
}

// Match resolves method and path against the active snapshot.
func (r *Router) Match(method, path string) Result {
	return r.current.Load().Match(method, path)
}

// MatchErr is Match returning a typed error for non-found outcomes.
func (r *Router) MatchErr(method, path string) (Result, error) {
	res := r.Match(method, path)
	if err := res.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// Matcher returns the active snapshot.
func (r *Router) Matcher() *Matcher {
	return r.current.Load()
}

// Routes returns the registered routes of the active snapshot.
func (r *Router) Routes() []*Route {
	return r.current.Load().Routes()
}

// ResolveAction fills in the action of a Named handler that has none, taking
// it from the "action" capture or falling back to the default action.
func ResolveAction(res Result, defaultAction string) (Named, error) {
	named, ok := res.Handler.(Named)
	if !ok {
		return Named{}, util.WrapError(util.ErrInvalidInput, "handler is not a named controller reference")
	}
	if named.Action != "" {
		return named, nil
	}
	if action := res.Params["action"]; action != "" {
		named.Action = DashToCamel(action)
		return named, nil
	}
	if defaultAction == "" {
		defaultAction = DefaultAction
	}
	named.Action = defaultAction
	return named, nil
}
