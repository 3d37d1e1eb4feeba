// Package health provides liveness and readiness endpoints for the routing
// daemon.
//
// Readiness runs every registered check concurrently under a timeout. The
// daemon registers a "routes" check that fails until the first route table
// has been loaded and a "reload" check that degrades after a failed reload.
//
//	checker := health.NewChecker(version, logger)
//	checker.AddCheck(health.NewCheckFunc("routes", func(ctx context.Context) error { ... }))
//	mux.Handle("/healthz", checker.LivenessHandler())
//	mux.Handle("/readyz", checker.ReadinessHandler())
package health
