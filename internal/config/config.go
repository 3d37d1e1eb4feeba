package config

import "time"

// Document envelope constants.
const (
	// APIVersionPrefix is the required apiVersion prefix.
	APIVersionPrefix = "avaroute.io/"

	// DefaultAPIVersion is the current document version.
	DefaultAPIVersion = APIVersionPrefix + "v1"

	// KindRouteTable is the only accepted document kind.
	KindRouteTable = "RouteTable"
)

// Server defaults.
const (
	DefaultAddress         = ":8080"
	DefaultRPCPath         = "/rpc"
	DefaultMetricsPath     = "/metrics"
	DefaultMaxBodyBytes    = 1 << 20
	DefaultReadTimeout     = Duration(30 * time.Second)
	DefaultWriteTimeout    = Duration(30 * time.Second)
	DefaultShutdownTimeout = Duration(15 * time.Second)
)

// Paths served by the daemon itself.
const (
	LivenessPath  = "/healthz"
	ReadinessPath = "/readyz"
)

// reservedPaths cannot be used for the RPC or metrics endpoints.
var reservedPaths = map[string]bool{"/": true, LivenessPath: true, ReadinessPath: true}

// RouteDocument is the root of a route table file.
type RouteDocument struct {
	APIVersion string    `yaml:"apiVersion" json:"apiVersion"`
	Kind       string    `yaml:"kind" json:"kind"`
	Metadata   Metadata  `yaml:"metadata" json:"metadata"`
	Spec       RouteSpec `yaml:"spec" json:"spec"`
}

// Metadata identifies a document.
type Metadata struct {
	Name   string            `yaml:"name" json:"name"`
	Labels map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// RouteSpec holds the routing table definition.
type RouteSpec struct {
	Options          RouterOptions        `yaml:"options,omitempty" json:"options,omitempty"`
	UseDefaultParams bool                 `yaml:"useDefaultParams,omitempty" json:"useDefaultParams,omitempty"`
	Params           map[string]string    `yaml:"params,omitempty" json:"params,omitempty"`
	// Routes take precedence over Groups: they are registered first.
	Routes           []Route              `yaml:"routes,omitempty" json:"routes,omitempty"`
	Groups           []Group              `yaml:"groups,omitempty" json:"groups,omitempty"`
	Controllers      []string             `yaml:"controllers,omitempty" json:"controllers,omitempty"`
	Services         []Service            `yaml:"services,omitempty" json:"services,omitempty"`
	Server           *ServerConfig        `yaml:"server,omitempty" json:"server,omitempty"`
	Observability    *ObservabilityConfig `yaml:"observability,omitempty" json:"observability,omitempty"`
}

// RouterOptions mirrors router.Options. Nil pointers keep the router default.
type RouterOptions struct {
	IgnoreLastSlash      *bool  `yaml:"ignoreLastSlash,omitempty" json:"ignoreLastSlash,omitempty"`
	NotAllowedAsNotFound bool   `yaml:"notAllowedAsNotFound,omitempty" json:"notAllowedAsNotFound,omitempty"`
	AutoRoute            bool   `yaml:"autoRoute,omitempty" json:"autoRoute,omitempty"`
	ControllerNamespace  string `yaml:"controllerNamespace,omitempty" json:"controllerNamespace,omitempty"`
	ControllerSuffix     string `yaml:"controllerSuffix,omitempty" json:"controllerSuffix,omitempty"`
	DefaultAction        string `yaml:"defaultAction,omitempty" json:"defaultAction,omitempty"`
	TmpCacheNumber       *int   `yaml:"tmpCacheNumber,omitempty" json:"tmpCacheNumber,omitempty"`
	ServiceSuffix        string `yaml:"serviceSuffix,omitempty" json:"serviceSuffix,omitempty"`
}

// Route declares one HTTP route. Methods may hold ANY; empty means GET.
type Route struct {
	Name     string            `yaml:"name,omitempty" json:"name,omitempty"`
	Path     string            `yaml:"path" json:"path"`
	Methods  []string          `yaml:"methods,omitempty" json:"methods,omitempty"`
	Handler  string            `yaml:"handler" json:"handler"`
	Params   map[string]string `yaml:"params,omitempty" json:"params,omitempty"`
	Defaults map[string]string `yaml:"defaults,omitempty" json:"defaults,omitempty"`
}

// Group applies a prefix, params and defaults to nested routes and groups.
// Its routes are registered before its nested groups.
type Group struct {
	Prefix   string            `yaml:"prefix" json:"prefix"`
	Params   map[string]string `yaml:"params,omitempty" json:"params,omitempty"`
	Defaults map[string]string `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	Routes   []Route           `yaml:"routes,omitempty" json:"routes,omitempty"`
	Groups   []Group           `yaml:"groups,omitempty" json:"groups,omitempty"`
}

// Service declares the RPC methods of one service class.
type Service struct {
	Class   string          `yaml:"class" json:"class"`
	Name    string          `yaml:"name,omitempty" json:"name,omitempty"`
	Methods []ServiceMethod `yaml:"methods" json:"methods"`
}

// ServiceMethod exposes Method under Mapped (or under its own name).
type ServiceMethod struct {
	Method string `yaml:"method" json:"method"`
	Mapped string `yaml:"mapped,omitempty" json:"mapped,omitempty"`
}

// ServerConfig configures the daemon HTTP server.
type ServerConfig struct {
	Address         string   `yaml:"address,omitempty" json:"address,omitempty"`
	RPCPath         string   `yaml:"rpcPath,omitempty" json:"rpcPath,omitempty"`
	MaxBodyBytes    int64    `yaml:"maxBodyBytes,omitempty" json:"maxBodyBytes,omitempty"`
	ReadTimeout     Duration `yaml:"readTimeout,omitempty" json:"readTimeout,omitempty"`
	WriteTimeout    Duration `yaml:"writeTimeout,omitempty" json:"writeTimeout,omitempty"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout,omitempty" json:"shutdownTimeout,omitempty"`
}

// DefaultServerConfig returns server defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:         DefaultAddress,
		RPCPath:         DefaultRPCPath,
		MaxBodyBytes:    DefaultMaxBodyBytes,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// ServerOrDefault returns the server config with zero fields defaulted.
func (s *RouteSpec) ServerOrDefault() *ServerConfig {
	out := DefaultServerConfig()
	if s.Server == nil {
		return out
	}

	if s.Server.Address != "" {
		out.Address = s.Server.Address
	}
	if s.Server.RPCPath != "" {
		out.RPCPath = s.Server.RPCPath
	}
	if s.Server.MaxBodyBytes > 0 {
		out.MaxBodyBytes = s.Server.MaxBodyBytes
	}
	if s.Server.ReadTimeout > 0 {
		out.ReadTimeout = s.Server.ReadTimeout
	}
	if s.Server.WriteTimeout > 0 {
		out.WriteTimeout = s.Server.WriteTimeout
	}
	if s.Server.ShutdownTimeout > 0 {
		out.ShutdownTimeout = s.Server.ShutdownTimeout
	}

	return out
}
