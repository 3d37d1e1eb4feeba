package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MatchRecorder observes lookups. Implementations must be safe for
// concurrent use.
type MatchRecorder interface {
	CacheHit()
	CacheMiss()
	CacheStored(size int)
	RegexEvaluated(tier Tier)
	Matched(status Status, tier Tier)
	RoutesLoaded(counts map[Tier]int)
}

type nopRecorder struct{}

func (nopRecorder) CacheHit()                {}
func (nopRecorder) CacheMiss()               {}
func (nopRecorder) CacheStored(int)          {}
func (nopRecorder) RegexEvaluated(Tier)      {}
func (nopRecorder) Matched(Status, Tier)     {}
func (nopRecorder) RoutesLoaded(map[Tier]int) {}

// Metrics is a Prometheus backed MatchRecorder.
type Metrics struct {
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheSize      prometheus.Gauge
	regexEvaluated *prometheus.CounterVec
	matches        *prometheus.CounterVec
	routes         *prometheus.GaugeVec
	reloads        *prometheus.CounterVec
}

// NewMetrics registers router metrics with reg under namespace.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "avaroute"
	}
	factory := promauto.With(reg)

	return &Metrics{
		cacheHits: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "router",
				Name:      "resolved_cache_hits_total",
				Help:      "Total number of lookups served from the resolved route cache",
			},
		),
		cacheMisses: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "router",
				Name:      "resolved_cache_misses_total",
				Help:      "Total number of lookups not found in the resolved route cache",
			},
		),
		cacheSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "router",
				Name:      "resolved_cache_size",
				Help:      "Current number of entries in the resolved route cache",
			},
		),
		regexEvaluated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "router",
				Name:      "regex_evaluations_total",
				Help:      "Total number of compiled route patterns evaluated",
			},
			[]string{"tier"},
		),
		matches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "router",
				Name:      "matches_total",
				Help:      "Total number of lookups by outcome",
			},
			[]string{"status", "tier"},
		),
		routes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "router",
				Name:      "routes",
				Help:      "Number of registered routes per tier",
			},
			[]string{"tier"},
		),
		reloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "router",
				Name:      "reloads_total",
				Help:      "Total number of routing table reloads",
			},
			[]string{"result"},
		),
	}
}

// CacheHit implements MatchRecorder.
func (m *Metrics) CacheHit() { m.cacheHits.Inc() }

// CacheMiss implements MatchRecorder.
func (m *Metrics) CacheMiss() { m.cacheMisses.Inc() }

// CacheStored implements MatchRecorder.
func (m *Metrics) CacheStored(size int) { m.cacheSize.Set(float64(size)) }

// RegexEvaluated implements MatchRecorder.
func (m *Metrics) RegexEvaluated(tier Tier) {
	m.regexEvaluated.WithLabelValues(tier.String()).Inc()
}

// Matched implements MatchRecorder.
func (m *Metrics) Matched(status Status, tier Tier) {
	label := tier.String()
	if status != Found {
		label = "none"
	}
	m.matches.WithLabelValues(status.String(), label).Inc()
}

// RoutesLoaded implements MatchRecorder. It also resets the cache size
// since a new snapshot starts with an empty cache.
func (m *Metrics) RoutesLoaded(counts map[Tier]int) {
	for _, tier := range []Tier{TierStatic, TierRegular, TierVague} {
		m.routes.WithLabelValues(tier.String()).Set(float64(counts[tier]))
	}
	m.cacheSize.Set(0)
}

// Reloaded records a reload attempt.
func (m *Metrics) Reloaded(err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.reloads.WithLabelValues(result).Inc()
}
