package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vyrodovalexey/avaroute/internal/router"
	"github.com/vyrodovalexey/avaroute/internal/util"
)

// paramName matches a valid placeholder name.
var paramName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"json": true, "console": true}
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, e[i].Error())
	}
	return sb.String()
}

// Is lets errors.Is(err, util.ErrConfigInvalid) match.
func (e ValidationErrors) Is(target error) bool {
	return target == util.ErrConfigInvalid
}

// Validate checks a route document and reports every problem found.
// Patterns are compiled, so a document that validates registers cleanly
// apart from duplicate static routes, which only warn.
func Validate(doc *RouteDocument) error {
	v := &validator{}

	if doc == nil {
		v.add("", "route document is nil")
		return v.errors
	}

	v.validateRoot(doc)
	v.validateOptions(&doc.Spec)

	params := doc.Spec.GlobalParams()
	names := make(map[string]string)
	v.validateRoutes("spec.routes", doc.Spec.Routes, params, names)
	v.validateGroups("spec.groups", doc.Spec.Groups, params, names)

	v.validateControllers(doc.Spec.Controllers)
	v.validateServices(doc)
	v.validateServer(&doc.Spec)
	v.validateObservability(doc.Spec.Observability)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

type validator struct {
	errors ValidationErrors
}

func (v *validator) add(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *validator) validateRoot(doc *RouteDocument) {
	switch {
	case doc.APIVersion == "":
		v.add("apiVersion", "apiVersion is required")
	case !strings.HasPrefix(doc.APIVersion, APIVersionPrefix):
		v.add("apiVersion", fmt.Sprintf("apiVersion must start with %q", APIVersionPrefix))
	}

	switch {
	case doc.Kind == "":
		v.add("kind", "kind is required")
	case doc.Kind != KindRouteTable:
		v.add("kind", fmt.Sprintf("kind must be %q", KindRouteTable))
	}

	if err := util.ValidateNonEmpty(doc.Metadata.Name, "name"); err != nil {
		v.add("metadata.name", err.Error())
	}
}

func (v *validator) validateOptions(spec *RouteSpec) {
	o := spec.Options
	if o.TmpCacheNumber != nil && *o.TmpCacheNumber < 0 {
		v.add("spec.options.tmpCacheNumber", "must not be negative")
	}
	if o.DefaultAction != "" && !paramName.MatchString(o.DefaultAction) {
		v.add("spec.options.defaultAction", fmt.Sprintf("invalid action name %q", o.DefaultAction))
	}
	v.validateParams("spec.params", spec.Params)
}

func (v *validator) validateParams(path string, params map[string]string) {
	for name, expr := range params {
		p := path + "." + name
		if !paramName.MatchString(name) {
			v.add(p, "invalid parameter name")
			continue
		}
		if expr == "" {
			v.add(p, "regex is required")
			continue
		}
		if err := util.ValidateRegex(expr); err != nil {
			v.add(p, err.Error())
		}
	}
}

func (v *validator) validateRoutes(path string, routes []Route, params map[string]string, names map[string]string) {
	for i := range routes {
		rt := &routes[i]
		p := fmt.Sprintf("%s[%d]", path, i)

		if rt.Name != "" {
			if prev, ok := names[rt.Name]; ok {
				v.add(p+".name", fmt.Sprintf("duplicate route name %q (first at %s)", rt.Name, prev))
			} else {
				names[rt.Name] = p
			}
		}

		if strings.TrimSpace(rt.Handler) == "" {
			v.add(p+".handler", "handler is required")
		} else if h := router.ParseHandler(rt.Handler); h.Class == "" {
			v.add(p+".handler", fmt.Sprintf("handler %q has no class", rt.Handler))
		}

		if len(rt.Methods) > 0 {
			if _, err := router.ParseMethods(rt.Methods...); err != nil {
				v.add(p+".methods", err.Error())
			}
		}

		v.validateParams(p+".params", rt.Params)

		if strings.TrimSpace(rt.Path) == "" {
			v.add(p+".path", "path is required")
			continue
		}
		if _, err := router.Compile(rt.Path, overlay(params, rt.Params)); err != nil {
			v.add(p+".path", err.Error())
		}
	}
}

func (v *validator) validateGroups(path string, groups []Group, params map[string]string, names map[string]string) {
	for i := range groups {
		g := &groups[i]
		p := fmt.Sprintf("%s[%d]", path, i)

		if strings.Trim(g.Prefix, "/ ") == "" {
			v.add(p+".prefix", "prefix is required")
		} else if strings.ContainsAny(g.Prefix, "[]") {
			v.add(p+".prefix", "prefix must not contain optional segments")
		}

		v.validateParams(p+".params", g.Params)

		scoped := overlay(params, g.Params)
		v.validateRoutes(p+".routes", g.Routes, scoped, names)
		v.validateGroups(p+".groups", g.Groups, scoped, names)
	}
}

func (v *validator) validateControllers(controllers []string) {
	seen := make(map[string]bool, len(controllers))
	for i, c := range controllers {
		p := fmt.Sprintf("spec.controllers[%d]", i)
		switch {
		case strings.TrimSpace(c) == "":
			v.add(p, "controller class is required")
		case seen[c]:
			v.add(p, fmt.Sprintf("duplicate controller %q", c))
		}
		seen[c] = true
	}
}

// validateServices registers the services into a scratch table, which applies
// the prefix derivation rules.
func (v *validator) validateServices(doc *RouteDocument) {
	ok := true
	for i, svc := range doc.Spec.Services {
		if len(svc.Methods) == 0 {
			v.add(fmt.Sprintf("spec.services[%d].methods", i), "at least one method is required")
			ok = false
		}
	}
	if !ok {
		return
	}

	if _, err := doc.ServiceTable(nil); err != nil {
		v.add("spec.services", err.Error())
	}
}

func (v *validator) validateServer(spec *RouteSpec) {
	s := spec.Server
	if s == nil {
		return
	}

	if s.RPCPath != "" && !strings.HasPrefix(s.RPCPath, "/") {
		v.add("spec.server.rpcPath", "must start with '/'")
	}
	if reservedPaths[s.RPCPath] {
		v.add("spec.server.rpcPath", fmt.Sprintf("%q is reserved", s.RPCPath))
	}
	if s.MaxBodyBytes < 0 {
		v.add("spec.server.maxBodyBytes", "must not be negative")
	}
	if s.Address != "" {
		if err := util.ValidateListenAddress(s.Address); err != nil {
			v.add("spec.server.address", err.Error())
		}
	}
	timeouts := []struct {
		field string
		value Duration
	}{
		{"readTimeout", s.ReadTimeout},
		{"writeTimeout", s.WriteTimeout},
		{"shutdownTimeout", s.ShutdownTimeout},
	}
	for _, t := range timeouts {
		if err := util.ValidateDuration(t.value.Duration()); err != nil {
			v.add("spec.server."+t.field, err.Error())
		}
	}

	if m := spec.ObservabilityOrDefault().Metrics; m.Enabled && m.Path == spec.ServerOrDefault().RPCPath {
		v.add("spec.server.rpcPath", "conflicts with the metrics path")
	}
}

func (v *validator) validateObservability(o *ObservabilityConfig) {
	if o == nil {
		return
	}

	if l := o.Logging; l != nil {
		if l.Level != "" && !validLogLevels[strings.ToLower(l.Level)] {
			v.add("spec.observability.logging.level", fmt.Sprintf("invalid log level %q", l.Level))
		}
		if l.Format != "" && !validLogFormats[strings.ToLower(l.Format)] {
			v.add("spec.observability.logging.format", fmt.Sprintf("invalid log format %q", l.Format))
		}
	}

	if m := o.Metrics; m != nil && m.Path != "" {
		if !strings.HasPrefix(m.Path, "/") {
			v.add("spec.observability.metrics.path", "must start with '/'")
		}
		if reservedPaths[m.Path] {
			v.add("spec.observability.metrics.path", fmt.Sprintf("%q is reserved", m.Path))
		}
	}

	if t := o.Tracing; t != nil {
		if err := util.ValidateRatio(t.SamplingRate); err != nil {
			v.add("spec.observability.tracing.samplingRate", err.Error())
		}
	}
}

func overlay(base, override map[string]string) map[string]string {
	if len(override) == 0 {
		return base
	}
	out := make(map[string]string, len(base)+len(override))
	for k, val := range base {
		out[k] = val
	}
	for k, val := range override {
		out[k] = val
	}
	return out
}
