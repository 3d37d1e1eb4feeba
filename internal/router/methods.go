package router

import (
	"strings"

	"github.com/vyrodovalexey/avaroute/internal/util"
)

// MethodSet is a bit set of supported HTTP methods.
type MethodSet uint16

// Supported methods.
const (
	MethodGet MethodSet = 1 << iota
	MethodPost
	MethodPut
	MethodPatch
	MethodDelete
	MethodOptions
	MethodHead
	MethodSearch
	MethodConnect
	MethodTrace

	// MethodAny is the expansion of the ANY wildcard.
	MethodAny = MethodGet | MethodPost | MethodPut | MethodPatch | MethodDelete |
		MethodOptions | MethodHead | MethodSearch | MethodConnect | MethodTrace
)

// AnyMethod is the wildcard accepted at registration.
const AnyMethod = "ANY"

// methodNames lists methods in canonical order; index i is bit 1<<i.
var methodNames = [...]string{
	"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD", "SEARCH", "CONNECT", "TRACE",
}

// SupportedMethods returns the methods accepted by Register, wildcard first.
func SupportedMethods() []string {
	out := make([]string, 0, len(methodNames)+1)
	out = append(out, AnyMethod)
	out = append(out, methodNames[:]...)
	return out
}

// methodBit returns the bit for an upper-case method name.
func methodBit(method string) MethodSet {
	for i, name := range methodNames {
		if name == method {
			return 1 << i
		}
	}
	return 0
}

// ParseMethods validates method names and folds them into a set.
// Entries may be comma separated ("GET,POST") and are case-insensitive.
// ANY expands to every supported method.
func ParseMethods(methods ...string) (MethodSet, error) {
	var set MethodSet

	for _, entry := range methods {
		for _, m := range strings.Split(entry, ",") {
			m = strings.ToUpper(strings.TrimSpace(m))
			if m == "" {
				continue
			}
			if m == AnyMethod {
				set |= MethodAny
				continue
			}
			bit := methodBit(m)
			if bit == 0 {
				return 0, util.NewUnsupportedMethodError(m, SupportedMethods())
			}
			set |= bit
		}
	}

	if set == 0 {
		return 0, util.NewUnsupportedMethodError("", SupportedMethods())
	}

	return set, nil
}

// Has reports whether the set contains the (upper-case) method.
func (s MethodSet) Has(method string) bool {
	bit := methodBit(method)
	return bit != 0 && s&bit != 0
}

// Methods returns the method names in canonical order.
func (s MethodSet) Methods() []string {
	out := make([]string, 0, len(methodNames))
	for i, name := range methodNames {
		if s&(1<<i) != 0 {
			out = append(out, name)
		}
	}
	return out
}

// String implements fmt.Stringer.
func (s MethodSet) String() string {
	if s == MethodAny {
		return AnyMethod
	}
	return strings.Join(s.Methods(), ",")
}
