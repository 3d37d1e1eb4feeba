package dispatch

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avaroute/internal/config"
)

func TestServer_StartStop(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultServerConfig()
	cfg.Address = "127.0.0.1:0"

	srv := NewServer(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	}))

	require.NoError(t, srv.Start(context.Background()))
	assert.True(t, srv.IsRunning())
	assert.Error(t, srv.Start(context.Background()))

	resp, err := http.Get("http://" + srv.Addr() + "/ping")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	assert.False(t, srv.IsRunning())
	require.NoError(t, srv.Stop(ctx))
}

func TestServer_ListenError(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultServerConfig()
	cfg.Address = "256.0.0.1:bad"

	srv := NewServer(cfg, http.NotFoundHandler())
	err := srv.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
	assert.False(t, srv.IsRunning())
}
