// Package observability provides logging, metrics, and tracing for the
// routing daemon.
//
// # Logging
//
// Logger is a thin interface over zap:
//
//	logger, err := observability.NewLogger(observability.LogConfig{Level: "info", Format: "json"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer func() { _ = logger.Sync() }()
//
//	logger.Info("routing table loaded", observability.Int("routes", 12))
//
// Library packages default to NopLogger and accept a Logger through options.
//
// # Metrics
//
// Metrics owns a private Prometheus registry. Router metrics are registered
// on the same registry so one handler serves everything:
//
//	metrics := observability.NewMetrics("avaroute")
//	routerMetrics := router.NewMetrics("avaroute", metrics.Registry())
//	mux.Handle("/metrics", metrics.Handler())
//
// # Tracing
//
// Tracer wraps an OpenTelemetry provider with OTLP gRPC export. The
// dispatcher records the matched route pattern, which TracingMiddleware uses
// as the span name.
package observability
