package dispatch

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/avaroute/internal/binding"
	"github.com/vyrodovalexey/avaroute/internal/observability"
	"github.com/vyrodovalexey/avaroute/internal/router"
	"github.com/vyrodovalexey/avaroute/internal/util"
)

// autoRoutePrefix labels auto-resolved requests, whose path is not a pattern.
const autoRoutePrefix = "auto:"

// Handler dispatches HTTP requests through a router.Router.
type Handler struct {
	router      *router.Router
	controllers *Controllers
	fallback    FallbackFunc
	logger      observability.Logger
}

// FallbackFunc answers a resolved Named reference that has no registered action.
type FallbackFunc func(w http.ResponseWriter, r *http.Request, named router.Named, res router.Result)

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithFallback sets the action used when a Named reference has no registered
// action. Without one such requests answer 404.
func WithFallback(fn FallbackFunc) HandlerOption {
	return func(h *Handler) {
		h.fallback = fn
	}
}

// WithHandlerLogger sets the logger.
func WithHandlerLogger(logger observability.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler creates a dispatching handler.
func NewHandler(r *router.Router, controllers *Controllers, opts ...HandlerOption) *Handler {
	if controllers == nil {
		controllers = NewControllers()
	}

	h := &Handler{
		router:      r,
		controllers: controllers,
		logger:      observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// ServeHTTP implements http.Handler. The router receives the escaped path and
// performs the only percent-decoding step.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := h.router.Match(r.Method, r.URL.EscapedPath())
	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(observability.AttrRouteStatus.String(res.Status.String()))

	if res.Status != router.Found {
		WriteError(w, res.Err())
		return
	}

	route := res.Pattern()
	if res.Tier == router.TierAuto {
		route = autoRoutePrefix + res.Handler.String()
	}

	ctx := util.RecordRoute(r.Context(), route)
	ctx = util.ContextWithPathParams(ctx, res.Params)
	r = r.WithContext(ctx)

	span.SetAttributes(
		observability.AttrRoutePattern.String(route),
		observability.AttrRouteTier.String(res.Tier.String()),
		observability.AttrRouteHandler.String(res.Handler.String()),
		observability.AttrRouteCached.Bool(res.Cached),
	)

	switch ref := res.Handler.(type) {
	case router.Named:
		h.serveNamed(w, r, res, span)
	case router.Closure:
		h.serveClosure(w, r, ref, res)
	default:
		h.logger.WithContext(ctx).Error("unsupported handler reference",
			observability.String("route", route),
			observability.String("handler", res.Handler.String()),
		)
		WriteError(w, util.WrapError(util.ErrInvalidInput, "unsupported handler reference"))
	}
}

func (h *Handler) serveNamed(w http.ResponseWriter, r *http.Request, res router.Result, span trace.Span) {
	named, err := router.ResolveAction(res, h.router.Matcher().Options().DefaultAction)
	if err != nil {
		WriteError(w, err)
		return
	}
	span.SetAttributes(attribute.String("avaroute.controller.action", named.String()))

	action, ok := h.controllers.Lookup(named.Class, named.Action)
	if !ok {
		if h.fallback == nil {
			h.logger.WithContext(r.Context()).Debug("controller action not registered",
				observability.String("handler", named.String()),
			)
			WriteError(w, util.NewRouteNotFoundError(r.Method, r.URL.Path))
			return
		}
		h.fallback(w, r, named, res)
		return
	}

	action.Fn(w, r, binding.Bind(action.Params, res.Params, r, w))
}

func (h *Handler) serveClosure(w http.ResponseWriter, r *http.Request, ref router.Closure, res router.Result) {
	switch fn := ref.Fn.(type) {
	case Action:
		fn.Fn(w, r, binding.Bind(fn.Params, res.Params, r, w))
	case ActionFunc:
		fn(w, r, nil)
	case http.Handler:
		fn.ServeHTTP(w, r)
	case func(http.ResponseWriter, *http.Request):
		fn(w, r)
	default:
		h.logger.WithContext(r.Context()).Error("closure is not callable",
			observability.String("handler", ref.String()),
		)
		WriteError(w, util.WrapError(util.ErrInvalidInput, "closure "+ref.String()+" is not callable"))
	}
}

// routeDescription is the body written by Describe.
type routeDescription struct {
	Handler string            `json:"handler"`
	Params  map[string]string `json:"params"`
	Path    string            `json:"path"`
	Route   string            `json:"route"`
	Tier    string            `json:"tier"`
}

// Describe is a fallback action that answers with a description of the
// resolved route instead of running a controller.
func Describe(w http.ResponseWriter, r *http.Request, named router.Named, res router.Result) {
	params := util.PathParamsFromContext(r.Context())
	if params == nil {
		params = map[string]string{}
	}

	WriteJSON(w, routeDescription{
		Handler: named.String(),
		Params:  params,
		Path:    r.URL.Path,
		Route:   util.RouteFromContext(r.Context()),
		Tier:    res.Tier.String(),
	})
}
