package runtimeconfig

import (
	"errors"
	"strings"
	"time"
)

var ErrBackendURLRequired = errors.New("agency config: backend URL is required")
var ErrServiceKeyRequired = errors.New("agency config: backend service key is required")
var ErrLoggingProviderUnknown = errors.New("agency config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("agency config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("agency config: logging format is invalid")
var ErrCacheTTLInvalid = errors.New("agency config: cache TTL must be zero or positive")
var ErrHealthIntervalInvalid = errors.New("agency config: health poll interval must be zero or positive")
var ErrPaymentProviderUnknown = errors.New("agency config: payment provider is invalid")

// Config aggregates adapter bindings and tunables for the agency module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Backend  BackendConfig
	Cache    CacheConfig
	Settings SettingsConfig
	Health   HealthConfig
	Payments PaymentsConfig
	Server   ServerConfig
	Logging  LoggingConfig
}

// BackendConfig points the module at the hosted platform.
type BackendConfig struct {
	URL        string
	ServiceKey string
}

// CacheConfig tunes the shared query cache.
type CacheConfig struct {
	Enabled         bool
	DefaultTTL      time.Duration
	CleanupInterval time.Duration
}

// SettingsConfig tunes the settings cache layer.
type SettingsConfig struct {
	TTL time.Duration
}

// HealthConfig tunes the background health monitor.
type HealthConfig struct {
	PollInterval time.Duration
	ProbeTimeout time.Duration
}

// PaymentsConfig selects the default checkout provider.
type PaymentsConfig struct {
	Provider string
	Currency string
}

// ServerConfig controls the HTTP listeners: Addr serves the public read
// API, EdgeAddr serves the module edge handler (functions, contact, health).
type ServerConfig struct {
	Addr     string
	EdgeAddr string
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the baseline configuration used by hosts that only
// set backend credentials.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Enabled:         true,
			DefaultTTL:      time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Settings: SettingsConfig{
			TTL: 5 * time.Minute,
		},
		Health: HealthConfig{
			PollInterval: 5 * time.Minute,
			ProbeTimeout: 5 * time.Second,
		},
		Payments: PaymentsConfig{
			Provider: "hosted",
			Currency: "USD",
		},
		Server: ServerConfig{
			Addr:     ":8080",
			EdgeAddr: ":8081",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

var validLogLevels = map[string]bool{
	"": true, "trace": true, "debug": true, "info": true,
	"warn": true, "warning": true, "error": true, "fatal": true,
}

var validLogFormats = map[string]bool{
	"": true, "json": true, "console": true, "pretty": true,
}

var validLogProviders = map[string]bool{
	"": true, "console": true, "gologger": true, "noop": true,
}

var validPaymentProviders = map[string]bool{
	"": true, "hosted": true, "bank_transfer": true,
}

// Validate checks cross-field consistency. RequireBackend additionally
// demands platform credentials; in-memory hosts skip that.
func (c Config) Validate(requireBackend bool) error {
	if requireBackend {
		if strings.TrimSpace(c.Backend.URL) == "" {
			return ErrBackendURLRequired
		}
		if strings.TrimSpace(c.Backend.ServiceKey) == "" {
			return ErrServiceKeyRequired
		}
	}
	if c.Cache.DefaultTTL < 0 || c.Settings.TTL < 0 {
		return ErrCacheTTLInvalid
	}
	if c.Health.PollInterval < 0 || c.Health.ProbeTimeout < 0 {
		return ErrHealthIntervalInvalid
	}
	if !validLogProviders[strings.ToLower(strings.TrimSpace(c.Logging.Provider))] {
		return ErrLoggingProviderUnknown
	}
	if !validLogLevels[strings.ToLower(strings.TrimSpace(c.Logging.Level))] {
		return ErrLoggingLevelInvalid
	}
	if !validLogFormats[strings.ToLower(strings.TrimSpace(c.Logging.Format))] {
		return ErrLoggingFormatInvalid
	}
	if !validPaymentProviders[strings.ToLower(strings.TrimSpace(c.Payments.Provider))] {
		return ErrPaymentProviderUnknown
	}
	return nil
}
