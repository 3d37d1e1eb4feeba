package router

import (
	"regexp"
	"strings"

	"github.com/vyrodovalexey/avaroute/internal/util"
)

// DefaultParamRegex matches any non-slash sequence.
const DefaultParamRegex = `[^/]+`

// DefaultGlobalParams returns the classic named parameter aliases.
// A route placeholder such as {num} picks up the alias when the route
// itself does not override it.
func DefaultGlobalParams() map[string]string {
	return map[string]string{
		"any": `[^/]+`,
		"num": `[0-9]+`,
		"id":  `[1-9][0-9]*`,
		"act": `[a-zA-Z][\w-]+`,
		"all": `.*`,
	}
}

var (
	// paramToken matches a {name} placeholder.
	paramToken = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

	// leadingLiteral matches a literal first node followed by another node.
	leadingLiteral = regexp.MustCompile(`^/([\w-]+)/[\w-]*`)

	// literalRun matches the first literal node anywhere in a pattern.
	literalRun = regexp.MustCompile(`/([\w-]+)/?[\w-]*`)
)

// CompiledPattern is the output of Compile.
type CompiledPattern struct {
	// Path is the pattern as registered.
	Path string

	// Static is true when the pattern has no placeholders or optional segments.
	Static bool

	// FirstSegment is the literal leading node of a dynamic pattern, or "".
	FirstSegment string

	// Include is a literal guaranteed to occur in any matching path when
	// FirstSegment is empty, or "" when no such literal exists.
	Include string

	// Regex is nil for static patterns.
	Regex *regexp.Regexp

	// ParamNames lists placeholder names in pattern order.
	ParamNames []string
}

// Compile turns a route pattern into a CompiledPattern.
// params maps placeholder names to regex overrides; missing names use
// DefaultParamRegex. Compile has no shared state.
func Compile(pattern string, params map[string]string) (*CompiledPattern, error) {
	route := pattern

	// '/hello[/{name}]'      match: /hello/tom   /hello
	// '/my[/{name}[/{age}]]' match: /my/tom/78  /my/tom
	if strings.Contains(route, "]") {
		withoutClosing := strings.TrimRight(route, "]")
		optionalNum := len(route) - len(withoutClosing)
		if optionalNum != strings.Count(withoutClosing, "[") {
			return nil, util.NewMalformedRouteError(pattern, "optional segments can only occur at the end of a route")
		}
		route = strings.NewReplacer("[", "(?:", "]", ")?").Replace(route)
	} else if strings.Contains(route, "[") {
		return nil, util.NewMalformedRouteError(pattern, "unclosed optional segment")
	}

	if !strings.ContainsAny(pattern, "{[") {
		if strings.Contains(pattern, "}") {
			return nil, util.NewMalformedRouteError(pattern, "unbalanced parameter placeholder")
		}
		return &CompiledPattern{Path: pattern, Static: true}, nil
	}

	route = strings.ReplaceAll(route, ".", `\.`)

	tokens := paramToken.FindAllStringSubmatch(pattern, -1)
	if len(tokens) != strings.Count(pattern, "{") || len(tokens) != strings.Count(pattern, "}") {
		return nil, util.NewMalformedRouteError(pattern, "invalid parameter placeholder")
	}

	names := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	pairs := make([]string, 0, 2*len(tokens))
	for _, tok := range tokens {
		name := tok[1]
		if seen[name] {
			return nil, util.NewMalformedRouteError(pattern, "duplicate parameter "+name)
		}
		seen[name] = true
		names = append(names, name)

		regex, ok := params[name]
		if !ok || regex == "" {
			regex = DefaultParamRegex
		}
		pairs = append(pairs, tok[0], "(?P<"+name+">"+regex+")")
	}
	route = strings.NewReplacer(pairs...).Replace(route)

	compiled, err := regexp.Compile("^" + route + "$")
	if err != nil {
		return nil, util.NewMalformedRouteErrorWithCause(pattern, "invalid regex", err)
	}

	cp := &CompiledPattern{
		Path:       pattern,
		Regex:      compiled,
		ParamNames: names,
	}

	// e.g '/user/{id}' first: 'user', '/a/{post}' first: 'a'
	if m := leadingLiteral.FindStringSubmatch(pattern); m != nil {
		cp.FirstSegment = m[1]
		return cp, nil
	}

	// Optional segments may be absent, so only the mandatory part is searched.
	mandatory := pattern
	if i := strings.IndexByte(mandatory, '['); i >= 0 {
		mandatory = mandatory[:i]
	}
	cp.Include = literalRun.FindString(mandatory)

	return cp, nil
}

// Extract runs the compiled regex against path and returns the named captures
// merged over defaults. Groups of absent optional segments are left to defaults.
func (cp *CompiledPattern) Extract(path string, defaults map[string]string) (map[string]string, bool) {
	idx := cp.Regex.FindStringSubmatchIndex(path)
	if idx == nil {
		return nil, false
	}

	params := make(map[string]string, len(cp.ParamNames)+len(defaults))
	for k, v := range defaults {
		params[k] = v
	}

	for i, name := range cp.Regex.SubexpNames() {
		if i == 0 || name == "" || idx[2*i] < 0 {
			continue
		}
		params[name] = path[idx[2*i]:idx[2*i+1]]
	}

	return params, true
}

// MatchString reports whether path matches, without extracting captures.
func (cp *CompiledPattern) MatchString(path string) bool {
	if cp.Static {
		return cp.Path == path
	}
	return cp.Regex.MatchString(path)
}
