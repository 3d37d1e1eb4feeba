package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartWatcher_Reloads(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDocument), 0o600))

	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := startWatcher(ctx, app, path)
	require.NotNil(t, watcher)
	defer func() { _ = watcher.Stop() }()
	assert.Equal(t, float64(1), testutil.ToFloat64(app.reload.watcherStatus))

	updated := strings.Replace(testDocument, "/about", "/contact", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	require.Eventually(t, func() bool {
		rec, _ := do(t, app.handler, http.MethodGet, "/contact", "")
		return rec.Code == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
}

func TestStartWatcher_InvalidChangeKeepsRoutes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDocument), 0o600))

	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := startWatcher(ctx, app, path)
	require.NotNil(t, watcher)
	defer func() { _ = watcher.Stop() }()

	require.NoError(t, os.WriteFile(path, []byte("kind: [\n"), 0o600))

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(app.reload.reloadTotal.WithLabelValues("error")) >= 1
	}, 5*time.Second, 20*time.Millisecond)

	rec, _ := do(t, app.handler, http.MethodGet, "/about", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStartWatcher_MissingFile(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	watcher := startWatcher(context.Background(), app, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Nil(t, watcher)
	assert.Equal(t, float64(0), testutil.ToFloat64(app.reload.watcherStatus))
}
