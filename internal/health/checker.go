package health

import (
	"context"
	"sync"
	"time"

	"github.com/agencykit/cms/pkg/interfaces"
)

// Status classifies the aggregate condition of the backend platform.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

const (
	// DefaultProbeTimeout bounds each probe so one stuck subsystem cannot
	// hang the whole aggregate. A timed-out probe counts as failed.
	DefaultProbeTimeout = 5 * time.Second
	// DefaultPingFunction is the serverless function invoked by the
	// functions probe.
	DefaultPingFunction = "ping"

	degradedThreshold = 0.75
)

// ProbeResult records the outcome of a single subsystem probe.
type ProbeResult struct {
	Name    string        `json:"name"`
	Healthy bool          `json:"healthy"`
	Latency time.Duration `json:"latency"`
	Error   string        `json:"error,omitempty"`
}

// Report aggregates one full check cycle.
type Report struct {
	Status    Status        `json:"status"`
	Probes    []ProbeResult `json:"probes"`
	CheckedAt time.Time     `json:"checked_at"`
}

// Checker runs the four platform probes and classifies the result.
type Checker struct {
	backend      interfaces.Backend
	probeTimeout time.Duration
	pingFunction string
	now          func() time.Time
}

// CheckerOption configures the checker at construction time.
type CheckerOption func(*Checker)

// WithProbeTimeout overrides the per-probe deadline.
func WithProbeTimeout(timeout time.Duration) CheckerOption {
	return func(c *Checker) {
		if timeout > 0 {
			c.probeTimeout = timeout
		}
	}
}

// WithPingFunction overrides the function name used by the functions probe.
func WithPingFunction(name string) CheckerOption {
	return func(c *Checker) {
		if name != "" {
			c.pingFunction = name
		}
	}
}

// WithCheckerClock overrides the clock used to stamp reports.
func WithCheckerClock(clock func() time.Time) CheckerOption {
	return func(c *Checker) {
		if clock != nil {
			c.now = clock
		}
	}
}

// NewChecker constructs a checker over the supplied backend boundary.
func NewChecker(backend interfaces.Backend, opts ...CheckerOption) *Checker {
	c := &Checker{
		backend:      backend,
		probeTimeout: DefaultProbeTimeout,
		pingFunction: DefaultPingFunction,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type probe struct {
	name string
	run  func(ctx context.Context) error
}

// Check runs all probes concurrently and aggregates their outcomes. There is
// no retry or backoff: a failed or timed-out probe simply counts as failed
// for this cycle.
func (c *Checker) Check(ctx context.Context) Report {
	probes := []probe{
		{name: "database", run: func(ctx context.Context) error {
			return c.backend.Database().Ping(ctx)
		}},
		{name: "auth", run: func(ctx context.Context) error {
			return c.backend.Auth().CheckSession(ctx)
		}},
		{name: "storage", run: func(ctx context.Context) error {
			_, err := c.backend.Storage().ListBuckets(ctx)
			return err
		}},
		{name: "functions", run: func(ctx context.Context) error {
			_, err := c.backend.Functions().Invoke(ctx, c.pingFunction, nil)
			return err
		}},
	}

	results := make([]ProbeResult, len(probes))

	var wg sync.WaitGroup
	for i, p := range probes {
		wg.Add(1)
		go func(i int, p probe) {
			defer wg.Done()
			results[i] = c.runProbe(ctx, p)
		}(i, p)
	}
	wg.Wait()

	passed := 0
	for _, r := range results {
		if r.Healthy {
			passed++
		}
	}

	return Report{
		Status:    classify(passed, len(results)),
		Probes:    results,
		CheckedAt: c.now(),
	}
}

func (c *Checker) runProbe(ctx context.Context, p probe) ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	start := time.Now()
	err := p.run(ctx)
	result := ProbeResult{
		Name:    p.name,
		Healthy: err == nil,
		Latency: time.Since(start),
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

func classify(passed, total int) Status {
	switch {
	case total == 0 || passed == total:
		return StatusHealthy
	case float64(passed)/float64(total) >= degradedThreshold:
		return StatusDegraded
	default:
		return StatusUnhealthy
	}
}
