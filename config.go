package cms

import "github.com/agencykit/cms/internal/runtimeconfig"

var (
	ErrBackendURLRequired     = runtimeconfig.ErrBackendURLRequired
	ErrServiceKeyRequired     = runtimeconfig.ErrServiceKeyRequired
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrCacheTTLInvalid        = runtimeconfig.ErrCacheTTLInvalid
	ErrHealthIntervalInvalid  = runtimeconfig.ErrHealthIntervalInvalid
	ErrPaymentProviderUnknown = runtimeconfig.ErrPaymentProviderUnknown
)

type (
	Config         = runtimeconfig.Config
	BackendConfig  = runtimeconfig.BackendConfig
	CacheConfig    = runtimeconfig.CacheConfig
	SettingsConfig = runtimeconfig.SettingsConfig
	HealthConfig   = runtimeconfig.HealthConfig
	PaymentsConfig = runtimeconfig.PaymentsConfig
	ServerConfig   = runtimeconfig.ServerConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
