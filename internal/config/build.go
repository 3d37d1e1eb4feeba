package config

import (
	"github.com/vyrodovalexey/avaroute/internal/observability"
	"github.com/vyrodovalexey/avaroute/internal/router"
	"github.com/vyrodovalexey/avaroute/internal/service"
)

// GlobalParams returns the named parameter aliases of the document:
// router.DefaultGlobalParams when useDefaultParams is set, overlaid with
// spec.params. Nil when neither is present.
func (s *RouteSpec) GlobalParams() map[string]string {
	if !s.UseDefaultParams && len(s.Params) == 0 {
		return nil
	}

	out := make(map[string]string)
	if s.UseDefaultParams {
		for k, v := range router.DefaultGlobalParams() {
			out[k] = v
		}
	}
	for k, v := range s.Params {
		out[k] = v
	}
	return out
}

// RouterOptions converts the document options into router.Options.
// Auto-route class lookups consult spec.controllers and then extra.
func (d *RouteDocument) RouterOptions(extra ...router.ControllerLookup) router.Options {
	o := d.Spec.Options
	opts := router.DefaultOptions()

	if o.IgnoreLastSlash != nil {
		opts.IgnoreLastSlash = *o.IgnoreLastSlash
	}
	if o.TmpCacheNumber != nil {
		opts.TmpCacheNumber = *o.TmpCacheNumber
	}
	if o.DefaultAction != "" {
		opts.DefaultAction = o.DefaultAction
	}
	opts.NotAllowedAsNotFound = o.NotAllowedAsNotFound
	opts.AutoRoute = o.AutoRoute
	opts.ControllerNamespace = o.ControllerNamespace
	opts.ControllerSuffix = o.ControllerSuffix
	opts.GlobalParams = d.Spec.GlobalParams()

	lookups := make(controllerLookups, 0, len(extra)+1)
	if len(d.Spec.Controllers) > 0 {
		lookups = append(lookups, router.NewControllerSet(d.Spec.Controllers...))
	}
	for _, l := range extra {
		if l != nil {
			lookups = append(lookups, l)
		}
	}
	if len(lookups) > 0 {
		opts.Controllers = lookups
	}

	return opts
}

// controllerLookups answers true when any member does.
type controllerLookups []router.ControllerLookup

func (ls controllerLookups) HasController(class string) bool {
	for _, l := range ls {
		if l.HasController(class) {
			return true
		}
	}
	return false
}

// RegisterFunc returns a function registering the document's routes and
// groups. At every level the routes are registered first, in list order, and
// then the groups, in list order, regardless of where the two lists appear in
// the YAML.
func (d *RouteDocument) RegisterFunc() router.RegisterFunc {
	return func(r *router.Registry) error {
		return registerAll(r, d.Spec.Routes, d.Spec.Groups)
	}
}

func registerAll(r *router.Registry, routes []Route, groups []Group) error {
	for i := range routes {
		if err := registerRoute(r, &routes[i]); err != nil {
			return err
		}
	}

	for i := range groups {
		g := &groups[i]
		opts := router.RouteOptions{Params: g.Params, Defaults: g.Defaults}
		if err := r.Group(g.Prefix, opts, func(r *router.Registry) error {
			return registerAll(r, g.Routes, g.Groups)
		}); err != nil {
			return err
		}
	}

	return nil
}

func registerRoute(r *router.Registry, rt *Route) error {
	methods := rt.Methods
	if len(methods) == 0 {
		methods = []string{"GET"}
	}

	_, err := r.Register(methods, rt.Path, router.ParseHandler(rt.Handler), router.RouteOptions{
		Name:     rt.Name,
		Params:   rt.Params,
		Defaults: rt.Defaults,
	})
	return err
}

// ServiceTable builds and freezes the RPC service table of the document.
func (d *RouteDocument) ServiceTable(logger observability.Logger) (*service.Table, error) {
	t := service.NewTable(
		service.WithSuffix(d.Spec.Options.ServiceSuffix),
		service.WithLogger(logger),
	)

	for _, svc := range d.Spec.Services {
		mappings := make([]service.Mapping, 0, len(svc.Methods))
		for _, m := range svc.Methods {
			mappings = append(mappings, service.Mapping{MappedName: m.Mapped, MethodName: m.Method})
		}
		if err := t.Register(svc.Class, svc.Name, mappings); err != nil {
			return nil, err
		}
	}

	return t.Freeze(), nil
}
