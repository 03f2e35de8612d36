package querycache

import (
	"context"
	"sync"
	"time"

	"github.com/agencykit/cms/internal/logging"
	"github.com/agencykit/cms/pkg/interfaces"
)

const (
	// DefaultTTL applies when a caller enables caching without a TTL.
	DefaultTTL = time.Minute
	// DefaultCleanupInterval drives the background eviction sweep.
	DefaultCleanupInterval = 5 * time.Minute
)

// Options controls how a single query execution is wrapped.
type Options struct {
	// EnableCaching stores the result under CacheKey and serves it back until
	// the TTL elapses.
	EnableCaching bool
	// CacheKey identifies the query for caching and in-flight de-duplication.
	// Concurrent calls sharing a key execute the underlying query once.
	CacheKey string
	// CacheTTL bounds how long a cached result stays valid. Zero means
	// DefaultTTL.
	CacheTTL time.Duration
	// EnableTiming logs the query duration at debug level.
	EnableTiming bool
}

// Stats reports cumulative cache behaviour.
type Stats struct {
	Hits          int64
	Misses        int64
	InflightJoins int64
	Evictions     int64
}

type entry struct {
	data      any
	timestamp time.Time
	ttl       time.Duration
}

func (e entry) expired(now time.Time) bool {
	return now.Sub(e.timestamp) >= e.ttl
}

type call struct {
	done chan struct{}
	data any
	err  error
}

// Cache wraps query functions with TTL caching, timing, and in-flight request
// de-duplication. A zero Cache is not usable; construct with New.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]entry
	inflight map[string]*call
	stats    Stats

	logger interfaces.Logger
	now    func() time.Time

	sweepInterval time.Duration
	stopOnce      sync.Once
	stop          chan struct{}
}

// Option configures the cache at construction time.
type Option func(*Cache)

// WithLogger attaches a logger for timing and failure entries.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the clock used for TTL bookkeeping.
func WithClock(clock func() time.Time) Option {
	return func(c *Cache) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithCleanupInterval overrides the eviction sweep cadence.
func WithCleanupInterval(interval time.Duration) Option {
	return func(c *Cache) {
		if interval > 0 {
			c.sweepInterval = interval
		}
	}
}

// New constructs a query cache and starts its background eviction sweep.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:       make(map[string]entry),
		inflight:      make(map[string]*call),
		logger:        logging.NoOp(),
		now:           time.Now,
		sweepInterval: DefaultCleanupInterval,
		stop:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.sweepLoop()

	return c
}

// Stop halts the eviction sweep. Safe to call more than once.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

// Stats returns a snapshot of cumulative counters.
func (c *Cache) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Invalidate drops the cached entry for key, if any.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Flush drops every cached entry.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len reports the number of cached entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Do executes fn under the supplied options: a valid cached value is returned
// without invoking fn; concurrent calls sharing a cache key join the same
// in-flight execution; errors from fn propagate after being logged with the
// elapsed time.
func Do[T any](ctx context.Context, c *Cache, opts Options, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	key := opts.CacheKey
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if key == "" {
		data, err := c.execute(ctx, key, opts.EnableTiming, wrapFn(fn))
		if err != nil {
			return zero, err
		}
		return data.(T), nil
	}

	c.mu.Lock()

	if opts.EnableCaching {
		if e, ok := c.entries[key]; ok && !e.expired(c.now()) {
			c.stats.Hits++
			c.mu.Unlock()
			return e.data.(T), nil
		}
		c.stats.Misses++
	}

	if inflight, ok := c.inflight[key]; ok {
		c.stats.InflightJoins++
		c.mu.Unlock()
		select {
		case <-inflight.done:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
		if inflight.err != nil {
			return zero, inflight.err
		}
		return inflight.data.(T), nil
	}

	current := &call{done: make(chan struct{})}
	c.inflight[key] = current
	c.mu.Unlock()

	data, err := c.execute(ctx, key, opts.EnableTiming, wrapFn(fn))

	current.data = data
	current.err = err

	c.mu.Lock()
	delete(c.inflight, key)
	if err == nil && opts.EnableCaching {
		c.entries[key] = entry{data: data, timestamp: c.now(), ttl: ttl}
	}
	c.mu.Unlock()

	close(current.done)

	if err != nil {
		return zero, err
	}
	return data.(T), nil
}

func wrapFn[T any](fn func(context.Context) (T, error)) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		return fn(ctx)
	}
}

func (c *Cache) execute(ctx context.Context, key string, timed bool, fn func(context.Context) (any, error)) (any, error) {
	start := time.Now()
	data, err := fn(ctx)
	elapsed := time.Since(start)

	if err != nil {
		c.logger.Error("query failed", "cache_key", key, "elapsed_ms", elapsed.Milliseconds(), "error", err)
		return nil, err
	}
	if timed {
		c.logger.Debug("query timed", "cache_key", key, "elapsed_ms", elapsed.Milliseconds())
	}
	return data, nil
}

func (c *Cache) sweepLoop() {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
			c.stats.Evictions++
		}
	}
}
