package dispatch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vyrodovalexey/avaroute/internal/binding"
	"github.com/vyrodovalexey/avaroute/internal/observability"
	"github.com/vyrodovalexey/avaroute/internal/router"
	"github.com/vyrodovalexey/avaroute/internal/util"
)

func newTestRouter(t *testing.T, opts router.Options, register router.RegisterFunc) *router.Router {
	t.Helper()

	r := router.New()
	require.NoError(t, r.Load(opts, register))
	return r
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHandler_NamedAction(t *testing.T) {
	t.Parallel()

	controllers := NewControllers()
	require.NoError(t, controllers.Register("User", "view", binding.MustParse("id:int", "format", "w:response"),
		func(w http.ResponseWriter, r *http.Request, args []any) {
			rw, _ := args[2].(http.ResponseWriter)
			WriteJSON(rw, map[string]any{"id": args[0], "format": args[1], "route": util.RouteFromContext(r.Context())})
		}))
	require.NoError(t, controllers.Register("User", "changePassword", nil,
		func(w http.ResponseWriter, r *http.Request, args []any) {
			WriteJSON(w, "changed")
		}))

	r := newTestRouter(t, router.DefaultOptions(), func(reg *router.Registry) error {
		if _, err := reg.Register([]string{"GET"}, "/user/{id}", router.ParseHandler("User@view"),
			router.RouteOptions{Defaults: map[string]string{"format": "json"}}); err != nil {
			return err
		}
		_, err := reg.Post("/user/{action}", router.ParseHandler("User"))
		return err
	})
	h := NewHandler(r, controllers)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user/42", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 42, data["id"], 0)
	assert.Equal(t, "json", data["format"])
	assert.Equal(t, "/user/{id}", data["route"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/user/change-password", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "changed", decodeEnvelope(t, rec).Data)
}

func TestHandler_Outcomes(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, router.DefaultOptions(), func(reg *router.Registry) error {
		if _, err := reg.Get("/about", router.ParseHandler("Page@about")); err != nil {
			return err
		}
		_, err := reg.Register([]string{"GET", "PUT"}, "/item/{id}", router.ParseHandler("Item"), router.RouteOptions{})
		return err
	})

	tests := []struct {
		name      string
		method    string
		path      string
		fallback  bool
		wantCode  int
		wantAllow string
	}{
		{name: "not found", method: "GET", path: "/missing", wantCode: http.StatusNotFound},
		{name: "method not allowed", method: "DELETE", path: "/item/1", wantCode: http.StatusMethodNotAllowed, wantAllow: "GET, PUT"},
		{name: "static wrong method", method: "POST", path: "/about", wantCode: http.StatusMethodNotAllowed, wantAllow: "GET"},
		{name: "unregistered action", method: "GET", path: "/about", wantCode: http.StatusNotFound},
		{name: "describe fallback", method: "GET", path: "/item/7", fallback: true, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var opts []HandlerOption
			if tt.fallback {
				opts = append(opts, WithFallback(Describe))
			}
			h := NewHandler(r, nil, opts...)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantAllow, rec.Header().Get("Allow"))
			env := decodeEnvelope(t, rec)
			assert.Equal(t, tt.wantCode, env.Status)
		})
	}
}

func TestHandler_Describe(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, router.DefaultOptions(), func(reg *router.Registry) error {
		_, err := reg.Get("/blog/{slug}", router.ParseHandler("Blog"))
		return err
	})
	h := NewHandler(r, nil, WithFallback(Describe))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog/hello", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data routeDescription `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Blog@index", body.Data.Handler)
	assert.Equal(t, "hello", body.Data.Params["slug"])
	assert.Equal(t, "/blog/hello", body.Data.Path)
	assert.Equal(t, "/blog/{slug}", body.Data.Route)
	assert.Equal(t, "regular", body.Data.Tier)
}

func TestHandler_DecodesPathOnce(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, router.DefaultOptions(), func(reg *router.Registry) error {
		_, err := reg.Get("/file/{name}", router.ParseHandler("File@show"))
		return err
	})
	h := NewHandler(r, nil, WithFallback(Describe))

	tests := []struct {
		name     string
		target   string
		wantName string
	}{
		{name: "encoded percent", target: "/file/a%2541", wantName: "a%41"},
		{name: "encoded space", target: "/file/a%20b", wantName: "a b"},
		{name: "plain", target: "/file/report", wantName: "report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				Data routeDescription `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantName, body.Data.Params["name"])
			assert.Equal(t, "/file/{name}", body.Data.Route)
		})
	}
}

func TestHandler_Closures(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, router.DefaultOptions(), func(reg *router.Registry) error {
		closures := map[string]any{
			"/handler": http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("handler")) }),
			"/func":    func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("func")) },
			"/action/{n}": Action{
				Params: binding.MustParse("n:int"),
				Fn: func(w http.ResponseWriter, r *http.Request, args []any) {
					_, _ = fmt.Fprintf(w, "action %d", args[0])
				},
			},
			"/bad": 42,
		}
		for path, fn := range closures {
			if _, err := reg.Get(path, router.Closure{Name: path, Fn: fn}); err != nil {
				return err
			}
		}
		return nil
	})
	h := NewHandler(r, nil)

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{path: "/handler", wantCode: http.StatusOK, wantBody: "handler"},
		{path: "/func", wantCode: http.StatusOK, wantBody: "func"},
		{path: "/action/5", wantCode: http.StatusOK, wantBody: "action 5"},
		{path: "/bad", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_AutoRouteLabel(t *testing.T) {
	t.Parallel()

	controllers := NewControllers()
	require.NoError(t, controllers.Register("app.HomeController", "index", nil,
		func(w http.ResponseWriter, r *http.Request, _ []any) {
			WriteJSON(w, util.RouteFromContext(r.Context()))
		}))

	opts := router.DefaultOptions()
	opts.AutoRoute = true
	opts.ControllerNamespace = "app"
	opts.ControllerSuffix = "Controller"
	opts.Controllers = controllers
	r := newTestRouter(t, opts, func(*router.Registry) error { return nil })

	rec := httptest.NewRecorder()
	NewHandler(r, controllers).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/home", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "auto:app.HomeController", decodeEnvelope(t, rec).Data)
}

func TestHandler_SpanAttributes(t *testing.T) {
	t.Parallel()

	sr := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tracer := observability.NewTracerWithProvider(provider, observability.TracerConfig{ServiceName: "test"})

	r := newTestRouter(t, router.DefaultOptions(), func(reg *router.Registry) error {
		_, err := reg.Get("/user/{id}", router.ParseHandler("User@view"))
		return err
	})
	h := observability.TracingMiddleware(tracer)(NewHandler(r, nil, WithFallback(Describe)))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/user/9", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /user/{id}", spans[0].Name())

	attrs := make(map[string]string)
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "found", attrs[string(observability.AttrRouteStatus)])
	assert.Equal(t, "regular", attrs[string(observability.AttrRouteTier)])
	assert.Equal(t, "User@view", attrs[string(observability.AttrRouteHandler)])
	assert.Equal(t, "false", attrs[string(observability.AttrRouteCached)])
}

func TestStatusFromError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusOK, StatusFromError(nil))
	assert.Equal(t, http.StatusNotFound, StatusFromError(util.NewServiceNotFoundError("X::y")))
	assert.Equal(t, http.StatusMethodNotAllowed, StatusFromError(util.NewMethodNotAllowedError("GET", "/", nil)))
	assert.Equal(t, http.StatusBadRequest, StatusFromError(util.WrapError(util.ErrInvalidInput, "x")))
	assert.Equal(t, http.StatusInternalServerError, StatusFromError(fmt.Errorf("boom")))

	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("secret detail"))
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), decodeEnvelope(t, rec).Msg)
}
