package router

import (
	"strings"
)

// maxAutoRouteNodes bounds the path depth considered by auto routing.
const maxAutoRouteNodes = 5

// ControllerLookup reports whether a controller class is known.
type ControllerLookup interface {
	HasController(class string) bool
}

// ControllerSet is a ControllerLookup over a fixed set of class names.
type ControllerSet map[string]struct{}

// NewControllerSet creates a ControllerSet.
func NewControllerSet(classes ...string) ControllerSet {
	s := make(ControllerSet, len(classes))
	for _, c := range classes {
		s[c] = struct{}{}
	}
	return s
}

// HasController implements ControllerLookup.
func (s ControllerSet) HasController(class string) bool {
	_, ok := s[class]
	return ok
}

// resolveAutoRoute derives a controller (and maybe action) from the path shape:
//
//	/home            -> ns.Home<sfx>
//	/admin/user      -> ns.admin.User<sfx>, else ns.Admin<sfx>@user
//	/a/b/c (..5)     -> ns.a.b.C<sfx>,      else ns.a.B<sfx>@c
func resolveAutoRoute(path, namespace, suffix string, lookup ControllerLookup) (Named, bool) {
	if lookup == nil {
		return Named{}, false
	}

	ns := strings.TrimSpace(namespace)
	sfx := strings.TrimSpace(suffix)
	tmp := strings.Trim(path, "/- ")
	if tmp == "" {
		return Named{}, false
	}

	nodes := strings.Split(tmp, "/")
	if len(nodes) > maxAutoRouteNodes {
		return Named{}, false
	}
	for i, n := range nodes {
		nodes[i] = DashToCamel(n)
		if nodes[i] == "" {
			return Named{}, false
		}
	}

	last := nodes[len(nodes)-1]
	class := className(ns, nodes[:len(nodes)-1], UpperFirst(last)+sfx)
	if lookup.HasController(class) {
		return Named{Class: class}, true
	}

	if len(nodes) == 1 {
		return Named{}, false
	}

	owner := nodes[len(nodes)-2]
	class = className(ns, nodes[:len(nodes)-2], UpperFirst(owner)+sfx)
	if lookup.HasController(class) {
		return Named{Class: class, Action: last}, true
	}

	return Named{}, false
}

// className joins namespace, package nodes and the class with dots.
func className(namespace string, pkgs []string, class string) string {
	parts := make([]string, 0, len(pkgs)+2)
	if namespace != "" {
		parts = append(parts, namespace)
	}
	parts = append(parts, pkgs...)
	parts = append(parts, class)
	return strings.Join(parts, ".")
}
