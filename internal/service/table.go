// Package service provides the RPC routing table.
//
// RPC calls are addressed by a function name of the form "Prefix::method".
// The prefix is the declared service name, or is derived from the class name
// when it ends with the service suffix: "app.services.UserService" registers
// under "User".
package service

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vyrodovalexey/avaroute/internal/observability"
	"github.com/vyrodovalexey/avaroute/internal/router"
	"github.com/vyrodovalexey/avaroute/internal/util"
)

// DefaultSuffix is the class name suffix used to derive a service prefix.
const DefaultSuffix = "Service"

// KeySeparator joins a service prefix and a method name.
const KeySeparator = "::"

// Mapping exposes one class method. An empty MappedName exposes the method
// under its own name.
type Mapping struct {
	MappedName string
	MethodName string
}

// Entry is a resolved RPC route.
type Entry struct {
	ServiceKey string
	ClassName  string
	MethodName string
}

// Table maps service keys to class methods. Register calls must complete
// before Freeze; Match is safe for concurrent use afterwards.
type Table struct {
	suffix   string
	suffixRe *regexp.Regexp
	routes   map[string]Entry
	frozen   bool
	logger   observability.Logger
}

// Option configures a Table.
type Option func(*Table)

// WithSuffix overrides DefaultSuffix.
func WithSuffix(suffix string) Option {
	return func(t *Table) {
		if suffix != "" {
			t.suffix = suffix
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(t *Table) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTable creates an empty table.
func NewTable(opts ...Option) *Table {
	t := &Table{
		suffix: DefaultSuffix,
		routes: make(map[string]Entry),
		logger: observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.suffixRe = regexp.MustCompile(`^(?:.*[./\\])?(\w+)` + regexp.QuoteMeta(t.suffix) + `$`)
	return t
}

// Key builds a service key.
func Key(prefix, method string) string {
	return prefix + KeySeparator + method
}

// Prefix returns the service prefix for class: name when set, otherwise the
// upper-cased class base name without the suffix, or "" if class does not
// carry the suffix.
func (t *Table) Prefix(name, class string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}

	m := t.suffixRe.FindStringSubmatch(class)
	if m == nil {
		return ""
	}
	return router.UpperFirst(m[1])
}

// Register adds the mappings of one service class. A key registered twice
// keeps the later registration.
func (t *Table) Register(class, name string, mappings []Mapping) error {
	if t.frozen {
		return util.NewRoutingFrozenError("register service " + class)
	}
	if strings.TrimSpace(class) == "" {
		return util.WrapError(util.ErrInvalidInput, "service class is required")
	}

	prefix := t.Prefix(name, class)
	if prefix == "" {
		return util.WrapError(util.ErrInvalidInput,
			fmt.Sprintf("service %s has no name and does not end with %q", class, t.suffix))
	}

	for i, m := range mappings {
		if m.MethodName == "" {
			return util.WrapError(util.ErrInvalidInput,
				fmt.Sprintf("service %s: mapping %d has no method", class, i))
		}

		mapped := m.MappedName
		if mapped == "" {
			mapped = m.MethodName
		}

		key := Key(prefix, mapped)
		if prev, exists := t.routes[key]; exists {
			t.logger.Warn("service route overridden",
				observability.String("key", key),
				observability.String("previous", prev.ClassName+"."+prev.MethodName),
			)
		}

		t.routes[key] = Entry{ServiceKey: key, ClassName: class, MethodName: m.MethodName}
		t.logger.Debug("service route registered",
			observability.String("key", key),
			observability.String("class", class),
			observability.String("method", m.MethodName),
		)
	}

	return nil
}

// Freeze ends registration.
func (t *Table) Freeze() *Table {
	t.frozen = true
	return t
}

// Frozen reports whether Freeze was called.
func (t *Table) Frozen() bool {
	return t.frozen
}

// Match resolves a "Prefix::method" function name.
func (t *Table) Match(fn string) (Entry, error) {
	entry, ok := t.routes[fn]
	if !ok {
		return Entry{}, util.NewServiceNotFoundError(fn)
	}
	return entry, nil
}

// Len returns the number of registered keys.
func (t *Table) Len() int {
	return len(t.routes)
}

// Entries returns all entries sorted by key.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.routes))
	for _, e := range t.routes {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ServiceKey < out[j].ServiceKey })
	return out
}
