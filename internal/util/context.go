package util

import (
	"context"
	"sync"
	"time"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey int

const (
	ctxKeyStartTime contextKey = iota
	ctxKeyRoute
	ctxKeyPathParams
	ctxKeyRouteHolder
)

// ContextWithStartTime adds a start time to the context.
func ContextWithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ctxKeyStartTime, t)
}

// StartTimeFromContext extracts the start time from context.
func StartTimeFromContext(ctx context.Context) time.Time {
	if v, ok := ctx.Value(ctxKeyStartTime).(time.Time); ok {
		return v
	}
	return time.Time{}
}

// ContextWithRoute adds the matched route pattern to the context.
func ContextWithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, ctxKeyRoute, route)
}

// RouteFromContext extracts the matched route pattern from context.
func RouteFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRoute).(string); ok {
		return v
	}
	return ""
}

// ContextWithPathParams adds path parameters to the context.
func ContextWithPathParams(ctx context.Context, params map[string]string) context.Context {
	return context.WithValue(ctx, ctxKeyPathParams, params)
}

// PathParamsFromContext extracts path parameters from context.
func PathParamsFromContext(ctx context.Context) map[string]string {
	if v, ok := ctx.Value(ctxKeyPathParams).(map[string]string); ok {
		return v
	}
	return nil
}

// ElapsedTime returns the time elapsed since the start time stored in context.
func ElapsedTime(ctx context.Context) time.Duration {
	start := StartTimeFromContext(ctx)
	if start.IsZero() {
		return 0
	}
	return time.Since(start)
}

// RouteHolder lets outer middleware read the route pattern chosen by an inner
// handler, since values added to a derived context are not visible upstream.
type RouteHolder struct {
	mu    sync.Mutex
	route string
}

// Set records the matched route pattern.
func (h *RouteHolder) Set(route string) {
	h.mu.Lock()
	h.route = route
	h.mu.Unlock()
}

// Get returns the recorded route pattern, or "".
func (h *RouteHolder) Get() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.route
}

// ContextWithRouteHolder adds a RouteHolder to the context.
func ContextWithRouteHolder(ctx context.Context, h *RouteHolder) context.Context {
	return context.WithValue(ctx, ctxKeyRouteHolder, h)
}

// EnsureRouteHolder returns ctx with a RouteHolder, reusing one installed by
// an outer middleware.
func EnsureRouteHolder(ctx context.Context) (context.Context, *RouteHolder) {
	if h, ok := ctx.Value(ctxKeyRouteHolder).(*RouteHolder); ok {
		return ctx, h
	}
	h := &RouteHolder{}
	return ContextWithRouteHolder(ctx, h), h
}

// RecordRoute stores route in the context and in the enclosing RouteHolder,
// if any.
func RecordRoute(ctx context.Context, route string) context.Context {
	if h, ok := ctx.Value(ctxKeyRouteHolder).(*RouteHolder); ok {
		h.Set(route)
	}
	return ContextWithRoute(ctx, route)
}
