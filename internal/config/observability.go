package config

// ObservabilityConfig groups the daemon's telemetry settings. None of them
// are hot reloaded.
type ObservabilityConfig struct {
	Logging *LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty"`
	Tracing *TracingConfig `yaml:"tracing,omitempty" json:"tracing,omitempty"`
}

// LoggingConfig is overridden by the daemon's command-line flags.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path,omitempty" json:"path,omitempty"`
}

// TracingConfig controls OTLP span export.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	OTLPEndpoint string  `yaml:"otlpEndpoint,omitempty" json:"otlpEndpoint,omitempty"`
	SamplingRate float64 `yaml:"samplingRate,omitempty" json:"samplingRate,omitempty"`
	ServiceName  string  `yaml:"serviceName,omitempty" json:"serviceName,omitempty"`
}

// ObservabilityOrDefault returns a copy of the observability section with
// every subsection present. Metrics default to enabled on DefaultMetricsPath.
func (s *RouteSpec) ObservabilityOrDefault() *ObservabilityConfig {
	out := &ObservabilityConfig{
		Logging: &LoggingConfig{Level: "info", Format: "json"},
		Metrics: &MetricsConfig{Enabled: true, Path: DefaultMetricsPath},
		Tracing: &TracingConfig{},
	}
	if s.Observability == nil {
		return out
	}

	if l := s.Observability.Logging; l != nil {
		out.Logging.Output = l.Output
		if l.Level != "" {
			out.Logging.Level = l.Level
		}
		if l.Format != "" {
			out.Logging.Format = l.Format
		}
	}
	if m := s.Observability.Metrics; m != nil {
		out.Metrics.Enabled = m.Enabled
		if m.Path != "" {
			out.Metrics.Path = m.Path
		}
	}
	if t := s.Observability.Tracing; t != nil {
		tracing := *t
		out.Tracing = &tracing
	}

	return out
}
