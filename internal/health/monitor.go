package health

import (
	"context"
	"sync"
	"time"

	"github.com/agencykit/cms/internal/logging"
	"github.com/agencykit/cms/pkg/interfaces"
)

const (
	// DefaultPollInterval spaces monitor cycles five minutes apart, matching
	// the 288-sample history to roughly one day of retention.
	DefaultPollInterval = 5 * time.Minute
	// MaxHistorySamples bounds the rolling report history.
	MaxHistorySamples = 288
)

// Monitor polls the checker on an interval and retains a bounded history of
// reports. It is an explicit service object: construct one, pass it by
// reference, and stop it when the process shuts down.
type Monitor struct {
	checker  *Checker
	interval time.Duration
	logger   interfaces.Logger

	mu      sync.RWMutex
	history []Report
	started bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// MonitorOption configures the monitor at construction time.
type MonitorOption func(*Monitor)

// WithPollInterval overrides the polling cadence.
func WithPollInterval(interval time.Duration) MonitorOption {
	return func(m *Monitor) {
		if interval > 0 {
			m.interval = interval
		}
	}
}

// WithMonitorLogger attaches a logger for non-healthy cycle reporting.
func WithMonitorLogger(logger interfaces.Logger) MonitorOption {
	return func(m *Monitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMonitor constructs a monitor over the supplied checker. The monitor does
// not poll until Start is called.
func NewMonitor(checker *Checker, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		checker:  checker,
		interval: DefaultPollInterval,
		logger:   logging.NoOp(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins polling until Stop is called or ctx is cancelled. It runs an
// immediate first check so Last is populated right away. Calling Start more
// than once is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	go func() {
		defer close(m.done)

		m.record(m.checker.Check(ctx))

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.record(m.checker.Check(ctx))
			case <-ctx.Done():
				return
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop halts polling and waits for the loop to exit. It returns immediately
// when the monitor was never started.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})

	m.mu.RLock()
	started := m.started
	m.mu.RUnlock()
	if started {
		<-m.done
	}
}

// Check runs one cycle on demand and records it in the history.
func (m *Monitor) Check(ctx context.Context) Report {
	report := m.checker.Check(ctx)
	m.record(report)
	return report
}

// Last returns the most recent report, or false when none has been taken.
func (m *Monitor) Last() (Report, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.history) == 0 {
		return Report{}, false
	}
	return m.history[len(m.history)-1], true
}

// History returns a copy of the retained reports, oldest first.
func (m *Monitor) History() []Report {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Report, len(m.history))
	copy(out, m.history)
	return out
}

func (m *Monitor) record(report Report) {
	m.mu.Lock()
	m.history = append(m.history, report)
	if len(m.history) > MaxHistorySamples {
		m.history = m.history[len(m.history)-MaxHistorySamples:]
	}
	m.mu.Unlock()

	if report.Status != StatusHealthy {
		failed := make([]string, 0, len(report.Probes))
		for _, p := range report.Probes {
			if !p.Healthy {
				failed = append(failed, p.Name)
			}
		}
		m.logger.Warn("health check non-healthy", "status", string(report.Status), "failed_probes", failed)
	}
}
