package main

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"reflect"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vyrodovalexey/avaroute/internal/config"
	"github.com/vyrodovalexey/avaroute/internal/observability"
	"github.com/vyrodovalexey/avaroute/internal/util"
)

// reloadMetrics holds Prometheus metrics for route document reloads.
type reloadMetrics struct {
	reloadTotal       *prometheus.CounterVec
	reloadDuration    prometheus.Histogram
	reloadLastSuccess prometheus.Gauge
	watcherStatus     prometheus.Gauge
}

// newReloadMetrics creates reload metrics on the daemon's registry.
func newReloadMetrics(m *observability.Metrics) *reloadMetrics {
	rm := &reloadMetrics{
		reloadTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "config_reload_total",
				Help:      "Total number of route document reloads",
			},
			[]string{"result"},
		),
		reloadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "config_reload_duration_seconds",
				Help:      "Duration of route document reloads",
				Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1},
			},
		),
		reloadLastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "config_reload_last_success_timestamp",
				Help:      "Timestamp of the last successful route document reload",
			},
		),
		watcherStatus: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "config_watcher_running",
				Help: "Whether the route document " +
					"watcher is running (1=running, 0=stopped)",
			},
		),
	}

	for _, c := range []prometheus.Collector{
		rm.reloadTotal,
		rm.reloadDuration,
		rm.reloadLastSuccess,
		rm.watcherStatus,
	} {
		_ = m.RegisterCollector(c)
	}

	return rm
}

// startWatcher starts watching the route document. A watcher that cannot
// start is logged and the daemon keeps serving the loaded snapshot.
func startWatcher(ctx context.Context, app *application, path string) *config.Watcher {
	logger := app.logger.Named("watcher")

	watcher, err := config.NewWatcher(path,
		func(doc *config.RouteDocument) { app.reloadDocument(doc) },
		config.WithLogger(logger),
		config.WithErrorCallback(app.reloadFailed),
	)
	if err != nil {
		logger.Warn("failed to create route document watcher", observability.Error(err))
		app.reload.watcherStatus.Set(0)
		return nil
	}

	if err := watcher.Start(ctx); err != nil {
		logger.Warn("failed to start route document watcher", observability.Error(err))
		app.reload.watcherStatus.Set(0)
		_ = watcher.Stop()
		return nil
	}

	app.reload.watcherStatus.Set(1)
	return watcher
}

// reloadDocument swaps in the routes and services of doc. On failure the
// active snapshot keeps serving and readiness reports degraded.
func (app *application) reloadDocument(doc *config.RouteDocument) {
	start := time.Now()
	defer func() {
		app.reload.reloadDuration.Observe(time.Since(start).Seconds())
	}()

	old := app.document()

	if err := app.apply(doc); err != nil {
		app.reloadFailed(err)
		return
	}

	if serverConfigChanged(old, doc) {
		app.logger.Warn("server configuration has changed but the listener is NOT reloaded; " +
			"restart the daemon to apply server changes")
	}
	if observabilityConfigChanged(old, doc) {
		app.logger.Warn("observability configuration has changed but is NOT reloaded; " +
			"restart the daemon to apply observability changes")
	}

	app.lastErr.Store(nil)
	app.reload.reloadTotal.WithLabelValues("success").Inc()
	app.reload.reloadLastSuccess.SetToCurrentTime()

	app.logger.Info("route document reloaded",
		observability.String("document", doc.Metadata.Name),
		observability.Int("routes", len(app.router.Routes())),
		observability.Int("services", app.rpc.Table().Len()),
	)
}

// reloadFailed records a reload that left the active snapshot in place.
func (app *application) reloadFailed(err error) {
	msg := err.Error()
	app.lastErr.Store(&msg)
	app.reload.reloadTotal.WithLabelValues("error").Inc()
	app.logger.Error("route document reload failed, keeping active routes",
		observability.Error(err),
		observability.Bool("registration", util.IsRegistrationError(err)),
	)
}

// configSectionHash computes a SHA-256 hash of a document section.
func configSectionHash(v any) ([sha256.Size]byte, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return [sha256.Size]byte{}, false
	}
	return sha256.Sum256(data), true
}

// configSectionChanged compares two document sections by hash, falling back
// to reflect.DeepEqual when either cannot be marshaled.
func configSectionChanged(oldSection, newSection any) bool {
	oldHash, oldOK := configSectionHash(oldSection)
	newHash, newOK := configSectionHash(newSection)
	if oldOK && newOK {
		return oldHash != newHash
	}
	return !reflect.DeepEqual(oldSection, newSection)
}

func serverConfigChanged(oldDoc, newDoc *config.RouteDocument) bool {
	if oldDoc == nil || newDoc == nil {
		return oldDoc != newDoc
	}
	return configSectionChanged(oldDoc.Spec.ServerOrDefault(), newDoc.Spec.ServerOrDefault())
}

func observabilityConfigChanged(oldDoc, newDoc *config.RouteDocument) bool {
	if oldDoc == nil || newDoc == nil {
		return oldDoc != newDoc
	}
	return configSectionChanged(oldDoc.Spec.ObservabilityOrDefault(), newDoc.Spec.ObservabilityOrDefault())
}
