package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avaroute/internal/util"
)

func validDocument() *RouteDocument {
	return &RouteDocument{
		APIVersion: DefaultAPIVersion,
		Kind:       KindRouteTable,
		Metadata:   Metadata{Name: "test"},
		Spec: RouteSpec{
			Routes: []Route{
				{Path: "/user/{id}", Handler: "User@view"},
			},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	neg := -1

	tests := []struct {
		name     string
		mutate   func(d *RouteDocument)
		wantPath string
	}{
		{name: "valid", mutate: func(*RouteDocument) {}},
		{name: "missing apiVersion", mutate: func(d *RouteDocument) { d.APIVersion = "" }, wantPath: "apiVersion"},
		{name: "foreign apiVersion", mutate: func(d *RouteDocument) { d.APIVersion = "x/v1" }, wantPath: "apiVersion"},
		{name: "wrong kind", mutate: func(d *RouteDocument) { d.Kind = "Gateway" }, wantPath: "kind"},
		{name: "missing name", mutate: func(d *RouteDocument) { d.Metadata.Name = "" }, wantPath: "metadata.name"},
		{
			name:     "negative cache",
			mutate:   func(d *RouteDocument) { d.Spec.Options.TmpCacheNumber = &neg },
			wantPath: "spec.options.tmpCacheNumber",
		},
		{
			name:     "bad global param regex",
			mutate:   func(d *RouteDocument) { d.Spec.Params = map[string]string{"num": "[0-9"} },
			wantPath: "spec.params.num",
		},
		{
			name:     "bad param name",
			mutate:   func(d *RouteDocument) { d.Spec.Params = map[string]string{"9x": ".*"} },
			wantPath: "spec.params.9x",
		},
		{
			name:     "malformed pattern",
			mutate:   func(d *RouteDocument) { d.Spec.Routes[0].Path = "/bad[/x]/y" },
			wantPath: "spec.routes[0].path",
		},
		{
			name:     "missing handler",
			mutate:   func(d *RouteDocument) { d.Spec.Routes[0].Handler = " " },
			wantPath: "spec.routes[0].handler",
		},
		{
			name:     "handler without class",
			mutate:   func(d *RouteDocument) { d.Spec.Routes[0].Handler = "@view" },
			wantPath: "spec.routes[0].handler",
		},
		{
			name:     "unsupported method",
			mutate:   func(d *RouteDocument) { d.Spec.Routes[0].Methods = []string{"FETCH"} },
			wantPath: "spec.routes[0].methods",
		},
		{
			name: "duplicate route name",
			mutate: func(d *RouteDocument) {
				d.Spec.Routes[0].Name = "user"
				d.Spec.Groups = []Group{{Prefix: "/v2", Routes: []Route{{Name: "user", Path: "/u", Handler: "U"}}}}
			},
			wantPath: "spec.groups[0].routes[0].name",
		},
		{
			name:     "empty group prefix",
			mutate:   func(d *RouteDocument) { d.Spec.Groups = []Group{{Prefix: "/"}} },
			wantPath: "spec.groups[0].prefix",
		},
		{
			name: "nested group route",
			mutate: func(d *RouteDocument) {
				d.Spec.Groups = []Group{{Prefix: "/a", Groups: []Group{{Prefix: "/b", Routes: []Route{{Path: "/{x", Handler: "X"}}}}}}
			},
			wantPath: "spec.groups[0].groups[0].routes[0].path",
		},
		{
			name:     "duplicate controller",
			mutate:   func(d *RouteDocument) { d.Spec.Controllers = []string{"Home", "Home"} },
			wantPath: "spec.controllers[1]",
		},
		{
			name: "service without methods",
			mutate: func(d *RouteDocument) {
				d.Spec.Services = []Service{{Class: "UserService"}}
			},
			wantPath: "spec.services[0].methods",
		},
		{
			name: "service without prefix",
			mutate: func(d *RouteDocument) {
				d.Spec.Services = []Service{{Class: "UserRepo", Methods: []ServiceMethod{{Method: "find"}}}}
			},
			wantPath: "spec.services",
		},
		{
			name:     "relative rpc path",
			mutate:   func(d *RouteDocument) { d.Spec.Server = &ServerConfig{RPCPath: "rpc"} },
			wantPath: "spec.server.rpcPath",
		},
		{
			name:     "reserved rpc path",
			mutate:   func(d *RouteDocument) { d.Spec.Server = &ServerConfig{RPCPath: LivenessPath} },
			wantPath: "spec.server.rpcPath",
		},
		{
			name: "reserved metrics path",
			mutate: func(d *RouteDocument) {
				d.Spec.Observability = &ObservabilityConfig{Metrics: &MetricsConfig{Enabled: true, Path: "/"}}
			},
			wantPath: "spec.observability.metrics.path",
		},
		{
			name:     "listen address without port",
			mutate:   func(d *RouteDocument) { d.Spec.Server = &ServerConfig{Address: "localhost"} },
			wantPath: "spec.server.address",
		},
		{
			name: "negative write timeout",
			mutate: func(d *RouteDocument) {
				d.Spec.Server = &ServerConfig{WriteTimeout: Duration(-time.Second)}
			},
			wantPath: "spec.server.writeTimeout",
		},
		{
			name:     "rpc path equals metrics path",
			mutate:   func(d *RouteDocument) { d.Spec.Server = &ServerConfig{RPCPath: DefaultMetricsPath} },
			wantPath: "spec.server.rpcPath",
		},
		{
			name: "bad log level",
			mutate: func(d *RouteDocument) {
				d.Spec.Observability = &ObservabilityConfig{Logging: &LoggingConfig{Level: "loud"}}
			},
			wantPath: "spec.observability.logging.level",
		},
		{
			name: "sampling rate out of range",
			mutate: func(d *RouteDocument) {
				d.Spec.Observability = &ObservabilityConfig{Tracing: &TracingConfig{SamplingRate: 2}}
			},
			wantPath: "spec.observability.tracing.samplingRate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := validDocument()
			tt.mutate(doc)

			err := Validate(doc)
			if tt.wantPath == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, util.ErrConfigInvalid))

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			paths := make([]string, 0, len(verrs))
			for _, e := range verrs {
				paths = append(paths, e.Path)
			}
			assert.Contains(t, paths, tt.wantPath)
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	t.Parallel()

	err := Validate(&RouteDocument{})
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 3)
	assert.Contains(t, err.Error(), "3 validation errors")

	assert.Error(t, Validate(nil))
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a.b: bad", (&ValidationError{Path: "a.b", Message: "bad"}).Error())
	assert.Equal(t, "bad", (&ValidationError{Message: "bad"}).Error())
	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())
}
