package runtimeconfig

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(false); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Server.Addr == cfg.Server.EdgeAddr {
		t.Fatalf("public and edge listeners must not share an address, both %q", cfg.Server.Addr)
	}
}

func TestValidateRequiresBackendCredentials(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(true); !errors.Is(err, ErrBackendURLRequired) {
		t.Fatalf("expected ErrBackendURLRequired, got %v", err)
	}

	cfg.Backend.URL = "https://backend.agency.test"
	if err := cfg.Validate(true); !errors.Is(err, ErrServiceKeyRequired) {
		t.Fatalf("expected ErrServiceKeyRequired, got %v", err)
	}

	cfg.Backend.ServiceKey = "service-key"
	if err := cfg.Validate(true); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"negative cache ttl", func(c *Config) { c.Cache.DefaultTTL = -time.Second }, ErrCacheTTLInvalid},
		{"negative settings ttl", func(c *Config) { c.Settings.TTL = -time.Second }, ErrCacheTTLInvalid},
		{"negative poll interval", func(c *Config) { c.Health.PollInterval = -time.Second }, ErrHealthIntervalInvalid},
		{"unknown log provider", func(c *Config) { c.Logging.Provider = "syslog" }, ErrLoggingProviderUnknown},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, ErrLoggingLevelInvalid},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, ErrLoggingFormatInvalid},
		{"unknown payment provider", func(c *Config) { c.Payments.Provider = "paypal" }, ErrPaymentProviderUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(false); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
