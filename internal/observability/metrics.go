package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vyrodovalexey/avaroute/internal/util"
)

// unmatchedRoute labels requests the dispatcher did not resolve, keeping the
// route label bounded by the routing table.
const unmatchedRoute = "unmatched"

// latencyBuckets favors the sub-millisecond range a route lookup lives in.
var latencyBuckets = []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}

// Metrics owns the daemon's Prometheus registry. Router and reload metrics
// join it through RegisterCollector so a single endpoint serves them all.
type Metrics struct {
	namespace string
	registry  *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	responseSize    *prometheus.HistogramVec
	activeRequests  *prometheus.GaugeVec
	rpcCalls        *prometheus.CounterVec
	buildInfo       *prometheus.GaugeVec
}

// NewMetrics creates the registry with HTTP, RPC, build, Go runtime and
// process collectors. An empty namespace defaults to "avaroute".
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "avaroute"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	m := &Metrics{
		namespace: namespace,
		registry:  reg,
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, matched route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method, matched route and status",
			Buckets:   latencyBuckets,
		}, []string{"method", "route", "status"}),
		responseSize: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "HTTP response body size by method and matched route",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
		}, []string{"method", "route"}),
		activeRequests: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "active_requests",
			Help:      "In-flight HTTP requests",
		}, []string{"method"}),
		rpcCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "calls_total",
			Help:      "RPC calls by service key and status",
		}, []string{"func", "status"}),
		buildInfo: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information of the routing daemon",
		}, []string{"version", "commit", "build_time"}),
	}

	f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "start_time_seconds",
		Help:      "Start time of the routing daemon in unix seconds",
	}).SetToCurrentTime()

	return m
}

// Namespace returns the metric namespace.
func (m *Metrics) Namespace() string {
	return m.namespace
}

// RecordRequest records a finished HTTP request. route is the matched pattern
// or unmatchedRoute, never the raw path.
func (m *Metrics) RecordRequest(method, route string, status int, duration time.Duration, size int64) {
	code := strconv.Itoa(status)
	m.requestsTotal.WithLabelValues(method, route, code).Inc()
	m.requestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	m.responseSize.WithLabelValues(method, route).Observe(float64(size))
}

// RecordRPC records an RPC call outcome. fn must be a registered service
// key or "unknown".
func (m *Metrics) RecordRPC(fn string, status int) {
	m.rpcCalls.WithLabelValues(fn, strconv.Itoa(status)).Inc()
}

// SetBuildInfo sets the build information metric.
func (m *Metrics) SetBuildInfo(version, commit, buildTime string) {
	m.buildInfo.WithLabelValues(version, commit, buildTime).Set(1)
}

// Handler serves the registry in Prometheus or OpenMetrics format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterCollector adds c to the registry.
func (m *Metrics) RegisterCollector(c prometheus.Collector) error {
	return m.registry.Register(c)
}

// MetricsMiddleware records one observation per request. The route label is
// read after the handler ran, once the dispatcher has recorded the match.
func MetricsMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			active := metrics.activeRequests.WithLabelValues(r.Method)
			active.Inc()
			defer active.Dec()

			ctx, holder := util.EnsureRouteHolder(r.Context())
			rw := util.WrapResponseWriter(w)

			next.ServeHTTP(rw, r.WithContext(ctx))

			route := holder.Get()
			if route == "" {
				route = unmatchedRoute
			}
			metrics.RecordRequest(r.Method, route, rw.Status, time.Since(start), int64(rw.Bytes))
		})
	}
}
