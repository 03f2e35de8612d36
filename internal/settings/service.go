package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/agencykit/cms/internal/logging"
	"github.com/agencykit/cms/internal/querycache"
	"github.com/agencykit/cms/pkg/interfaces"
)

// DefaultTTL bounds how long a configuration blob is served from cache.
const DefaultTTL = 5 * time.Minute

// ErrUnknownKey rejects writes to keys with no registered schema.
var ErrUnknownKey = errors.New("settings: unknown configuration key")

// Service reads typed configuration with caching and default fallbacks.
type Service interface {
	ContactInfo(ctx context.Context) ContactInfo
	SEODefaults(ctx context.Context) SEODefaults
	PaymentSettings(ctx context.Context) PaymentSettings
	Raw(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Invalidate(key string)
}

type service struct {
	store  Store
	cache  *querycache.Cache
	ttl    time.Duration
	logger interfaces.Logger
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithTTL overrides the cache TTL.
func WithTTL(ttl time.Duration) ServiceOption {
	return func(s *service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger overrides the module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a settings service over the given store. The cache
// is shared infrastructure owned by the caller.
func NewService(store Store, cache *querycache.Cache, opts ...ServiceOption) Service {
	s := &service{
		store:  store,
		cache:  cache,
		ttl:    DefaultTTL,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func cacheKey(key string) string {
	return "settings:" + key
}

func (s *service) raw(ctx context.Context, key string) (json.RawMessage, error) {
	return querycache.Do(ctx, s.cache, querycache.Options{
		EnableCaching: true,
		CacheKey:      cacheKey(key),
		CacheTTL:      s.ttl,
		EnableTiming:  true,
	}, func(ctx context.Context) (json.RawMessage, error) {
		return s.store.Get(ctx, key)
	})
}

// decode fills dst (pre-populated with defaults) from the stored blob.
// Store failures fall back to the defaults already in dst.
func (s *service) decode(ctx context.Context, key string, dst any) {
	value, err := s.raw(ctx, key)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			s.logger.Warn("settings read failed, serving defaults", "key", key, "error", err)
		}
		return
	}
	if err := json.Unmarshal(value, dst); err != nil {
		s.logger.Warn("settings blob malformed, serving defaults", "key", key, "error", err)
	}
}

func (s *service) ContactInfo(ctx context.Context) ContactInfo {
	out := DefaultContactInfo()
	s.decode(ctx, KeyContactInfo, &out)
	return out
}

func (s *service) SEODefaults(ctx context.Context) SEODefaults {
	out := DefaultSEODefaults()
	s.decode(ctx, KeySEODefaults, &out)
	return out
}

func (s *service) PaymentSettings(ctx context.Context) PaymentSettings {
	out := DefaultPaymentSettings()
	s.decode(ctx, KeyPaymentSettings, &out)
	return out
}

func (s *service) Raw(ctx context.Context, key string) (json.RawMessage, error) {
	return s.raw(ctx, key)
}

func (s *service) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := validateValue(key, value); err != nil {
		return err
	}
	if err := s.store.Set(ctx, key, value); err != nil {
		return err
	}
	s.Invalidate(key)
	return nil
}

func (s *service) Invalidate(key string) {
	s.cache.Invalidate(cacheKey(key))
}
