package router

// table holds the three route partitions. It is mutated only by a Registry
// before freeze and read concurrently afterwards.
type table struct {
	// static maps an exact path to its per-method routes.
	static map[string]map[string]*Route

	// regular maps a literal first segment to routes in registration order.
	regular map[string][]*Route

	// vague maps a method to routes whose first node is not literal.
	vague map[string][]*Route

	// vagueAll lists every vague route once, in registration order.
	vagueAll []*Route

	// all lists every route in registration order.
	all []*Route
}

func newTable() *table {
	return &table{
		static:  make(map[string]map[string]*Route),
		regular: make(map[string][]*Route),
		vague:   make(map[string][]*Route),
	}
}

// insert places route in its partition and reports whether it was added.
// A static (path, method) pair already taken keeps its first registration.
func (t *table) insert(route *Route) bool {
	cp := route.Pattern

	switch {
	case cp.Static:
		route.Tier = TierStatic
		byMethod, ok := t.static[cp.Path]
		if !ok {
			byMethod = make(map[string]*Route)
			t.static[cp.Path] = byMethod
		}
		added := false
		for _, m := range route.Methods.Methods() {
			if _, exists := byMethod[m]; exists {
				continue
			}
			byMethod[m] = route
			added = true
		}
		if !added {
			return false
		}

	case cp.FirstSegment != "":
		route.Tier = TierRegular
		t.regular[cp.FirstSegment] = append(t.regular[cp.FirstSegment], route)

	default:
		route.Tier = TierVague
		for _, m := range route.Methods.Methods() {
			t.vague[m] = append(t.vague[m], route)
		}
		t.vagueAll = append(t.vagueAll, route)
	}

	t.all = append(t.all, route)
	return true
}

// counts returns the number of routes per tier.
func (t *table) counts() map[Tier]int {
	out := map[Tier]int{TierStatic: 0, TierRegular: 0, TierVague: 0}
	for _, r := range t.all {
		out[r.Tier]++
	}
	return out
}
