package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vyrodovalexey/avaroute/internal/config"
	"github.com/vyrodovalexey/avaroute/internal/dispatch"
	"github.com/vyrodovalexey/avaroute/internal/health"
	"github.com/vyrodovalexey/avaroute/internal/middleware"
	"github.com/vyrodovalexey/avaroute/internal/observability"
	"github.com/vyrodovalexey/avaroute/internal/router"
)

const metricsNamespace = "avaroute"

// application holds the daemon's long-lived components.
type application struct {
	logger  observability.Logger
	metrics *observability.Metrics
	tracer  *observability.Tracer
	reload  *reloadMetrics
	health  *health.Checker

	router      *router.Router
	controllers *dispatch.Controllers
	services    *dispatch.Services
	rpc         *dispatch.RPCHandler
	server      *dispatch.Server
	handler     http.Handler

	mu      sync.RWMutex
	doc     *config.RouteDocument
	loaded  atomic.Bool
	lastErr atomic.Pointer[string]

	watcher *config.Watcher
}

// initApplication builds all components from doc and activates its routes.
func initApplication(doc *config.RouteDocument, logger observability.Logger) (*application, error) {
	obs := doc.Spec.ObservabilityOrDefault()

	metrics := observability.NewMetrics(metricsNamespace)
	metrics.SetBuildInfo(version, gitCommit, buildTime)

	tracer, err := initTracer(obs.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	app := &application{
		logger:      logger,
		metrics:     metrics,
		tracer:      tracer,
		reload:      newReloadMetrics(metrics),
		controllers: dispatch.NewControllers(),
		services:    dispatch.NewServices(),
		doc:         doc,
	}

	app.router = router.New(
		router.WithLogger(logger.Named("router")),
		router.WithRecorder(router.NewMetrics(metricsNamespace, metrics.Registry())),
	)
	_ = metrics.RegisterCollector(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metrics.Namespace(),
		Name:      "resolved_route_cache_entries",
		Help:      "Number of resolutions held by the active matcher's cache",
	}, func() float64 {
		return float64(app.router.Matcher().CacheLen())
	}))
	app.rpc = dispatch.NewRPCHandler(nil, app.services,
		dispatch.WithServiceFallback(dispatch.DescribeService),
		dispatch.WithRPCRecorder(metrics),
		dispatch.WithRPCLogger(logger.Named("rpc")),
	)

	if err := app.apply(doc); err != nil {
		return nil, err
	}
	logger.Info("routing table loaded",
		observability.String("name", doc.Metadata.Name),
		observability.Int("routes", len(app.router.Routes())),
		observability.Strings("controllers", app.controllers.Classes()),
		observability.Bool("tracing", tracer.Enabled()),
	)

	app.health = app.initHealth()
	app.handler = app.buildHandler(doc.Spec.ServerOrDefault(), obs)
	app.server = dispatch.NewServer(doc.Spec.ServerOrDefault(), app.handler,
		dispatch.WithServerLogger(logger.Named("server")),
	)

	return app, nil
}

// initTracer creates the tracer from the document's tracing section.
func initTracer(cfg *config.TracingConfig) (*observability.Tracer, error) {
	tc := observability.TracerConfig{
		ServiceName:    "avaroute",
		ServiceVersion: version,
	}
	if cfg != nil {
		tc.Enabled = cfg.Enabled
		tc.OTLPEndpoint = cfg.OTLPEndpoint
		tc.SamplingRate = cfg.SamplingRate
		if cfg.ServiceName != "" {
			tc.ServiceName = cfg.ServiceName
		}
	}
	return observability.NewTracer(tc)
}

// apply builds the service table and routing snapshot of doc and activates
// both. Nothing is swapped unless both build.
func (app *application) apply(doc *config.RouteDocument) error {
	table, err := doc.ServiceTable(app.logger.Named("service"))
	if err != nil {
		return fmt.Errorf("failed to build service table: %w", err)
	}

	if err := app.router.Load(doc.RouterOptions(app.controllers), doc.RegisterFunc()); err != nil {
		return err
	}
	app.rpc.SetTable(table)

	app.mu.Lock()
	app.doc = doc
	app.mu.Unlock()
	app.loaded.Store(true)

	return nil
}

// document returns the active route document.
func (app *application) document() *config.RouteDocument {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.doc
}

// initHealth registers the readiness checks.
func (app *application) initHealth() *health.Checker {
	checker := health.NewChecker(version, app.logger.Named("health"))

	checker.AddCheck(health.NewCheckFunc("routes", func(context.Context) error {
		if !app.loaded.Load() {
			return errors.New("routing table not loaded")
		}
		return nil
	}))
	checker.AddCheck(health.NewCheckFunc("reload", func(context.Context) error {
		if msg := app.lastErr.Load(); msg != nil {
			return fmt.Errorf("%w: last reload failed: %s", health.ErrDegraded, *msg)
		}
		return nil
	}))

	return checker
}

// buildHandler assembles the HTTP surface. Route dispatch and RPC share the
// instrumentation chain; health and metrics endpoints are served bare.
func (app *application) buildHandler(
	srv *config.ServerConfig,
	obs *config.ObservabilityConfig,
) http.Handler {
	routes := app.instrument(dispatch.NewHandler(app.router, app.controllers,
		dispatch.WithFallback(dispatch.Describe),
		dispatch.WithHandlerLogger(app.logger.Named("dispatch")),
	))

	endpoints := map[string]http.Handler{
		srv.RPCPath: app.instrument(
			middleware.BodyLimit(srv.MaxBodyBytes, app.logger)(app.rpc),
		),
		config.LivenessPath:  app.health.LivenessHandler(),
		config.ReadinessPath: app.health.ReadinessHandler(),
	}
	if obs.Metrics != nil && obs.Metrics.Enabled {
		endpoints[obs.Metrics.Path] = app.metrics.Handler()
	}

	return newEndpointSwitch(endpoints, routes)
}

// endpointSwitch serves the daemon's own endpoints by exact path and hands
// every other request, uncleaned, to the router.
type endpointSwitch struct {
	endpoints map[string]http.Handler
	routes    http.Handler
}

func newEndpointSwitch(endpoints map[string]http.Handler, routes http.Handler) *endpointSwitch {
	return &endpointSwitch{endpoints: endpoints, routes: routes}
}

func (s *endpointSwitch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := s.endpoints[r.URL.Path]; ok {
		h.ServeHTTP(w, r)
		return
	}
	s.routes.ServeHTTP(w, r)
}

// instrument wraps h with the request middleware chain, outermost first.
func (app *application) instrument(h http.Handler) http.Handler {
	return middleware.Chain(h,
		middleware.Recovery(app.logger),
		middleware.RequestID(),
		observability.MetricsMiddleware(app.metrics),
		observability.TracingMiddleware(app.tracer),
		middleware.Logging(app.logger),
	)
}
