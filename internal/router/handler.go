package router

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HandlerRef identifies the target of a route. It is one of Named or Closure.
// The dispatch layer resolves it into something invokable.
type HandlerRef interface {
	String() string
	handlerRef()
}

// Named references a controller class and an optional action.
type Named struct {
	Class  string
	Action string
}

func (Named) handlerRef() {}

// String implements fmt.Stringer using the Class@action notation.
func (n Named) String() string {
	if n.Action == "" {
		return n.Class
	}
	return n.Class + "@" + n.Action
}

// Closure references an in-process function registered directly.
type Closure struct {
	Name string
	Fn   any
}

func (Closure) handlerRef() {}

// String implements fmt.Stringer.
func (c Closure) String() string {
	if c.Name == "" {
		return "closure"
	}
	return "closure:" + c.Name
}

// ParseHandler parses "Class@action" or "Class" into a Named reference.
func ParseHandler(s string) Named {
	class, action, _ := strings.Cut(strings.TrimSpace(s), "@")
	return Named{Class: class, Action: action}
}

// dashRun matches a dash run followed by a lower-case letter.
var dashRun = regexp.MustCompile(`-+([a-z])`)

// DashToCamel converts a dash-case path node to camel case: "first-second" -> "firstSecond".
func DashToCamel(s string) string {
	s = strings.Trim(s, "-")
	if !strings.Contains(s, "-") {
		return s
	}

	return dashRun.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ToUpper(m[len(m)-1:])
	})
}

// UpperFirst upper-cases the first letter of an identifier.
func UpperFirst(s string) string {
	// Casers are stateful, so one is created per call.
	return cases.Title(language.Und, cases.NoLower).String(s)
}
