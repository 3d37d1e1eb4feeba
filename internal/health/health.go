package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/vyrodovalexey/avaroute/internal/observability"
)

// DefaultReadinessProbeTimeout bounds a readiness probe.
const DefaultReadinessProbeTimeout = 5 * time.Second

// Status represents the health status.
type Status string

const (
	// StatusHealthy indicates the service is healthy.
	StatusHealthy Status = "healthy"
	// StatusUnhealthy indicates the service is unhealthy.
	StatusUnhealthy Status = "unhealthy"
	// StatusDegraded indicates the service is degraded but operational.
	StatusDegraded Status = "degraded"
)

// ErrDegraded marks a check failure that should degrade, not fail, readiness.
var ErrDegraded = errors.New("degraded")

// Check defines a named health check.
type Check interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckFunc adapts a function to Check.
type CheckFunc struct {
	name string
	fn   func(ctx context.Context) error
}

// NewCheckFunc creates a named check from fn.
func NewCheckFunc(name string, fn func(ctx context.Context) error) *CheckFunc {
	return &CheckFunc{name: name, fn: fn}
}

// Name implements Check.
func (f *CheckFunc) Name() string { return f.name }

// Check implements Check.
func (f *CheckFunc) Check(ctx context.Context) error { return f.fn(ctx) }

// CheckResult is the outcome of one check.
type CheckResult struct {
	Status   Status `json:"status"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// Response is the body of the health endpoints.
type Response struct {
	Status    Status                  `json:"status"`
	Version   string                  `json:"version,omitempty"`
	Uptime    string                  `json:"uptime,omitempty"`
	Timestamp time.Time               `json:"timestamp"`
	Checks    map[string]*CheckResult `json:"checks,omitempty"`
}

// Checker runs health checks.
type Checker struct {
	version   string
	startTime time.Time
	timeout   time.Duration
	logger    observability.Logger

	mu     sync.RWMutex
	checks []Check
}

// NewChecker creates a checker.
func NewChecker(version string, logger observability.Logger) *Checker {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Checker{
		version:   version,
		startTime: time.Now(),
		timeout:   DefaultReadinessProbeTimeout,
		logger:    logger,
	}
}

// SetTimeout overrides the readiness probe timeout.
func (c *Checker) SetTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.timeout = d
	c.mu.Unlock()
}

// AddCheck registers a check.
func (c *Checker) AddCheck(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, check)
}

// Readiness runs all checks concurrently and aggregates the result.
func (c *Checker) Readiness(ctx context.Context) Response {
	c.mu.RLock()
	checks := make([]Check, len(c.checks))
	copy(checks, c.checks)
	timeout := c.timeout
	c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp := Response{
		Status:    StatusHealthy,
		Version:   c.version,
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]*CheckResult, len(checks)),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, check := range checks {
		wg.Add(1)
		go func(ch Check) {
			defer wg.Done()

			start := time.Now()
			err := ch.Check(ctx)
			result := &CheckResult{Status: StatusHealthy, Duration: time.Since(start).String()}

			if err != nil {
				result.Error = err.Error()
				result.Status = StatusUnhealthy
				if errors.Is(err, ErrDegraded) {
					result.Status = StatusDegraded
				}
				c.logger.Warn("health check failed",
					observability.String("check", ch.Name()),
					observability.Error(err),
				)
			}

			mu.Lock()
			resp.Checks[ch.Name()] = result
			mu.Unlock()
		}(check)
	}
	wg.Wait()

	for _, r := range resp.Checks {
		switch {
		case r.Status == StatusUnhealthy:
			resp.Status = StatusUnhealthy
		case r.Status == StatusDegraded && resp.Status == StatusHealthy:
			resp.Status = StatusDegraded
		}
	}

	return resp
}

// LivenessHandler answers 200 while the process runs.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Response{
			Status:    StatusHealthy,
			Version:   c.version,
			Uptime:    time.Since(c.startTime).Round(time.Second).String(),
			Timestamp: time.Now().UTC(),
		})
	}
}

// ReadinessHandler answers 503 when any check is unhealthy.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := c.Readiness(r.Context())

		code := http.StatusOK
		if resp.Status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, resp)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
