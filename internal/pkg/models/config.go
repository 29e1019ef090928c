package models

import "time"

// Config represents application configuration
type Config struct {
	App         AppConfig
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	NATS        NATSConfig
	NewRelic    NewRelicConfig
	Logger      LoggerConfig
	Providers   ProvidersConfig
	Idempotency IdempotencyConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// NewRelicConfig contains New Relic agent configuration
type NewRelicConfig struct {
	LicenseKey  string
	AppName     string
	Enabled     bool
	LogsEnabled bool
	ForwardLogs bool
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
	Type     string
}

// ProviderEndpoint is the outbound configuration for one payment provider.
type ProviderEndpoint struct {
	URL string
}

// ProvidersConfig holds provider endpoints keyed by provider identifier
// together with the shared outbound client policy.
type ProvidersConfig struct {
	Endpoints  map[Provider]ProviderEndpoint
	Timeout    time.Duration
	MaxRetries int
	// Consecutive failures before a provider circuit opens.
	BreakerFailureThreshold uint32
	BreakerOpenTimeout      time.Duration
}

// IdempotencyConfig controls Idempotency-Key handling on payment initiation
type IdempotencyConfig struct {
	Enabled       bool
	InProgressTTL time.Duration
	CompletedTTL  time.Duration
}

// Endpoint returns the configured URL for a provider, or "" when unset.
func (c ProvidersConfig) Endpoint(p Provider) string {
	if c.Endpoints == nil {
		return ""
	}
	return c.Endpoints[p].URL
}
