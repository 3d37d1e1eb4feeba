package router

// Tier identifies the partition a route was placed in or matched from.
type Tier int

// Route tiers, in lookup priority order.
const (
	TierStatic Tier = iota
	TierRegular
	TierVague
	TierAuto
)

// String implements fmt.Stringer.
func (t Tier) String() string {
	switch t {
	case TierStatic:
		return "static"
	case TierRegular:
		return "regular"
	case TierVague:
		return "vague"
	case TierAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// RouteOptions carries per-route (or per-group) registration options.
type RouteOptions struct {
	// Name is an optional identifier used in logs and introspection.
	Name string

	// Params overrides placeholder regexes by name.
	Params map[string]string

	// Defaults supplies values for placeholders that did not match.
	Defaults map[string]string
}

// Route is a compiled, registered route. Routes are immutable after registration.
type Route struct {
	Name     string
	Methods  MethodSet
	Handler  HandlerRef
	Defaults map[string]string
	Pattern  *CompiledPattern
	Tier     Tier
}

// Path returns the pattern the route was registered with.
func (r *Route) Path() string {
	return r.Pattern.Path
}

// copyDefaults returns a private copy of the route defaults, or nil.
func (r *Route) copyDefaults() map[string]string {
	if len(r.Defaults) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.Defaults))
	for k, v := range r.Defaults {
		out[k] = v
	}
	return out
}

// mergeMaps returns base overlaid with override. Nil when both are empty.
func mergeMaps(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
