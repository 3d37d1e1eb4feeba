// Package binding maps route captures onto handler arguments.
//
// A handler declares its parameters as a Descriptor. Bind walks the
// descriptor in order and produces one argument per parameter: the request
// and response writer are injected by kind, scalar kinds are coerced from the
// capture of the same name, and missing captures fall back to the zero value
// of the kind. Binding never fails.
package binding

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/vyrodovalexey/avaroute/internal/util"
)

// Kind is the declared type of a handler parameter.
type Kind int

// Parameter kinds.
const (
	Untyped Kind = iota
	String
	Int
	Bool
	Float
	Request
	Response
	Other
)

var kindNames = map[Kind]string{
	Untyped:  "",
	String:   "string",
	Int:      "int",
	Bool:     "bool",
	Float:    "float",
	Request:  "request",
	Response: "response",
	Other:    "other",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		if name == "" {
			return "untyped"
		}
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a type name to a Kind. Unknown names are Other.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Untyped
	case "string", "str":
		return String
	case "int", "integer", "int64":
		return Int
	case "bool", "boolean":
		return Bool
	case "float", "double", "float64":
		return Float
	case "request", "*http.request":
		return Request
	case "response", "http.responsewriter":
		return Response
	default:
		return Other
	}
}

// Param is one declared handler parameter.
type Param struct {
	Name string
	Kind Kind
}

// Descriptor is the ordered parameter list of a handler.
type Descriptor []Param

// Parse builds a Descriptor from "name" or "name:type" entries.
func Parse(specs ...string) (Descriptor, error) {
	desc := make(Descriptor, 0, len(specs))
	seen := make(map[string]struct{}, len(specs))

	for i, spec := range specs {
		name, typ, _ := strings.Cut(spec, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, util.WrapError(util.ErrInvalidInput, fmt.Sprintf("parameter %d has no name", i))
		}
		if _, dup := seen[name]; dup {
			return nil, util.WrapError(util.ErrInvalidInput, "duplicate parameter "+name)
		}
		seen[name] = struct{}{}

		desc = append(desc, Param{Name: name, Kind: ParseKind(typ)})
	}

	return desc, nil
}

// MustParse is Parse that panics on error. It is meant for static declarations.
func MustParse(specs ...string) Descriptor {
	desc, err := Parse(specs...)
	if err != nil {
		panic(err)
	}
	return desc
}

// String renders the descriptor in Parse syntax.
func (d Descriptor) String() string {
	parts := make([]string, len(d))
	for i, p := range d {
		if p.Kind == Untyped {
			parts[i] = p.Name
			continue
		}
		parts[i] = p.Name + ":" + p.Kind.String()
	}
	return strings.Join(parts, ", ")
}

// Bind produces the argument list for desc.
//
//   - Request and Response receive req and w regardless of captures.
//   - Untyped and Other receive the capture as a string, or nil.
//   - Scalar kinds receive the coerced capture, or the kind's zero value.
func Bind(desc Descriptor, params map[string]string, req *http.Request, w http.ResponseWriter) []any {
	args := make([]any, len(desc))

	for i, p := range desc {
		switch p.Kind {
		case Request:
			args[i] = req
			continue
		case Response:
			args[i] = w
			continue
		}

		value, ok := params[p.Name]
		if !ok {
			args[i] = zeroValue(p.Kind)
			continue
		}
		args[i] = coerce(p.Kind, value)
	}

	return args
}

func zeroValue(k Kind) any {
	switch k {
	case String:
		return ""
	case Int:
		return int64(0)
	case Bool:
		return false
	case Float:
		return float64(0)
	default:
		return nil
	}
}

func coerce(k Kind, value string) any {
	switch k {
	case String:
		return value
	case Int:
		return toInt(value)
	case Bool:
		return toBool(value)
	case Float:
		return toFloat(value)
	default:
		return value
	}
}
