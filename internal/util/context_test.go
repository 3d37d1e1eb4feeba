package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.True(t, StartTimeFromContext(ctx).IsZero())
	assert.Empty(t, RouteFromContext(ctx))
	assert.Nil(t, PathParamsFromContext(ctx))
	assert.Zero(t, ElapsedTime(ctx))

	start := time.Now().Add(-time.Second)
	ctx = ContextWithStartTime(ctx, start)
	ctx = ContextWithRoute(ctx, "/user/{id}")
	ctx = ContextWithPathParams(ctx, map[string]string{"id": "42"})

	assert.Equal(t, start, StartTimeFromContext(ctx))
	assert.Equal(t, "/user/{id}", RouteFromContext(ctx))
	assert.Equal(t, "42", PathParamsFromContext(ctx)["id"])
	assert.GreaterOrEqual(t, ElapsedTime(ctx), time.Second)
}

func TestRecordRoute(t *testing.T) {
	t.Parallel()

	holder := &RouteHolder{}
	outer := ContextWithRouteHolder(context.Background(), holder)

	inner := RecordRoute(outer, "/item/{id}")
	assert.Equal(t, "/item/{id}", RouteFromContext(inner))
	assert.Empty(t, RouteFromContext(outer))
	assert.Equal(t, "/item/{id}", holder.Get())

	plain := RecordRoute(context.Background(), "/x")
	assert.Equal(t, "/x", RouteFromContext(plain))
}

func TestEnsureRouteHolder(t *testing.T) {
	t.Parallel()

	ctx, outer := EnsureRouteHolder(context.Background())
	again, inner := EnsureRouteHolder(ctx)

	assert.Same(t, outer, inner)
	assert.Equal(t, ctx, again)

	RecordRoute(again, "/a/{b}")
	assert.Equal(t, "/a/{b}", outer.Get())
}
