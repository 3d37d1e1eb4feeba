package router

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avaroute/internal/observability"
	"github.com/vyrodovalexey/avaroute/internal/util"
)

func TestRouter_NewIsEmpty(t *testing.T) {
	t.Parallel()

	r := New()
	assert.Empty(t, r.Routes())
	assert.Equal(t, NotFound, r.Match("GET", "/").Status)
	assert.NotNil(t, r.Matcher())
}

func TestRouter_Load(t *testing.T) {
	t.Parallel()

	r := New()
	err := r.Load(DefaultOptions(), func(reg *Registry) error {
		_, err := reg.Get("/user/{id}", ParseHandler("User@view"))
		return err
	})
	require.NoError(t, err)

	res, err := r.MatchErr("GET", "/user/5")
	require.NoError(t, err)
	assert.Equal(t, "5", res.Params["id"])
	assert.Equal(t, "/user/{id}", res.Pattern())

	_, err = r.MatchErr("GET", "/nope")
	assert.True(t, errors.Is(err, util.ErrNotFound))
}

func TestRouter_LoadFailureLogsAtDebug(t *testing.T) {
	t.Parallel()

	failing := func(reg *Registry) error {
		_, err := reg.Get("/bad[/x]/y", ParseHandler("Bad"))
		return err
	}

	tests := []struct {
		level   string
		wantLog bool
	}{
		{level: "info", wantLog: false},
		{level: "debug", wantLog: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger, err := observability.NewLoggerWithWriter(observability.LogConfig{Level: tt.level, Format: "json"}, &buf)
			require.NoError(t, err)

			r := New(WithLogger(logger))
			require.Error(t, r.Load(DefaultOptions(), failing))

			assert.NotContains(t, buf.String(), `"level":"error"`)
			assert.Equal(t, tt.wantLog, strings.Contains(buf.String(), "routing table rejected"))
		})
	}
}

func TestRouter_LoadFailureKeepsSnapshot(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics := NewMetrics("test", reg)
	r := New(WithRecorder(metrics))

	require.NoError(t, r.Load(DefaultOptions(), func(reg *Registry) error {
		_, err := reg.Get("/ok", ParseHandler("Ok"))
		return err
	}))
	before := r.Matcher()

	err := r.Load(DefaultOptions(), func(reg *Registry) error {
		if _, err := reg.Get("/new", ParseHandler("New")); err != nil {
			return err
		}
		_, err := reg.Get("/bad[/x]/y", ParseHandler("Bad"))
		return err
	})
	require.Error(t, err)
	assert.True(t, util.IsRegistrationError(err))

	assert.Same(t, before, r.Matcher())
	assert.Equal(t, Found, r.Match("GET", "/ok").Status)
	assert.Equal(t, NotFound, r.Match("GET", "/new").Status)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.reloads.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.reloads.WithLabelValues("error")))
}

func TestRouter_ReloadResetsCache(t *testing.T) {
	t.Parallel()

	r := New()
	load := func(handler string) {
		require.NoError(t, r.Load(DefaultOptions(), func(reg *Registry) error {
			_, err := reg.Get("/item/{id}", ParseHandler(handler))
			return err
		}))
	}

	load("V1")
	assert.Equal(t, "V1", r.Match("GET", "/item/1").Handler.String())
	assert.True(t, r.Match("GET", "/item/1").Cached)

	load("V2")
	res := r.Match("GET", "/item/1")
	assert.False(t, res.Cached)
	assert.Equal(t, "V2", res.Handler.String())
}

func TestRouter_ConcurrentReload(t *testing.T) {
	t.Parallel()

	r := New()
	register := func(reg *Registry) error {
		if _, err := reg.Get("/static", ParseHandler("Static")); err != nil {
			return err
		}
		_, err := reg.Get("/item/{id}", ParseHandler("Item"))
		return err
	}
	require.NoError(t, r.Load(DefaultOptions(), register))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if r.Match("GET", "/static").Status != Found || r.Match("GET", "/item/9").Status != Found {
					t.Error("lookup observed an incomplete table")
					return
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		require.NoError(t, r.Load(DefaultOptions(), register))
	}
	close(stop)
	wg.Wait()
}

func TestResolveAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		res     Result
		def     string
		want    Named
		wantErr bool
	}{
		{
			name: "explicit action",
			res:  Result{Handler: Named{Class: "User", Action: "view"}, Params: map[string]string{"action": "edit"}},
			want: Named{Class: "User", Action: "view"},
		},
		{
			name: "action capture",
			res:  Result{Handler: Named{Class: "User"}, Params: map[string]string{"action": "change-password"}},
			want: Named{Class: "User", Action: "changePassword"},
		},
		{
			name: "configured default",
			res:  Result{Handler: Named{Class: "User"}},
			def:  "list",
			want: Named{Class: "User", Action: "list"},
		},
		{
			name: "package default",
			res:  Result{Handler: Named{Class: "User"}},
			want: Named{Class: "User", Action: DefaultAction},
		},
		{
			name:    "closure handler",
			res:     Result{Handler: Closure{Name: "fn"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveAction(tt.res, tt.def)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, util.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
