package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/piresc/paygate/internal/pkg/models"
	"github.com/spf13/viper"
)

// InitConfig loads the env file when running locally and resolves the
// application configuration from the environment.
func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" {
		// Load config from file
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}
	return loadConfigFromEnv(newEnvReader())
}

func newEnvReader() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "payment-gateway")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "development")

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30)

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_TYPE", "stdout")

	v.SetDefault("PROVIDER_EASYMONEY_URL", "http://localhost:3000/process")
	v.SetDefault("PROVIDER_SUPERWALLETZ_URL", "http://localhost:3003/pay")
	v.SetDefault("PROVIDER_TIMEOUT", "10s")
	v.SetDefault("PROVIDER_MAX_RETRIES", 2)
	v.SetDefault("PROVIDER_BREAKER_FAILURE_THRESHOLD", 5)
	v.SetDefault("PROVIDER_BREAKER_OPEN_TIMEOUT", "30s")

	v.SetDefault("IDEMPOTENCY_ENABLED", true)
	v.SetDefault("IDEMPOTENCY_IN_PROGRESS_TTL", "30s")
	v.SetDefault("IDEMPOTENCY_COMPLETED_TTL", "24h")
}

func loadConfigFromEnv(v *viper.Viper) *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = v.GetString("APP_NAME")
	configs.App.Environment = v.GetString("APP_ENV")
	configs.App.Debug = v.GetBool("APP_DEBUG")
	configs.App.Version = v.GetString("APP_VERSION")

	// Server config
	configs.Server.Host = v.GetString("SERVER_HOST")
	configs.Server.Port = v.GetInt("SERVER_PORT")
	configs.Server.ReadTimeout = v.GetInt("SERVER_READ_TIMEOUT")
	configs.Server.WriteTimeout = v.GetInt("SERVER_WRITE_TIMEOUT")
	configs.Server.ShutdownTimeout = v.GetInt("SERVER_SHUTDOWN_TIMEOUT")

	// Database config
	configs.Database.Driver = v.GetString("DB_DRIVER")
	configs.Database.Host = v.GetString("DB_HOST")
	configs.Database.Port = v.GetInt("DB_PORT")
	configs.Database.Username = v.GetString("DB_USERNAME")
	configs.Database.Password = v.GetString("DB_PASSWORD")
	configs.Database.Database = v.GetString("DB_DATABASE")
	configs.Database.SSLMode = v.GetString("DB_SSL_MODE")
	configs.Database.MaxConns = v.GetInt("DB_MAX_CONNS")
	configs.Database.IdleConns = v.GetInt("DB_IDLE_CONNS")

	// Redis config
	configs.Redis.Host = v.GetString("REDIS_HOST")
	configs.Redis.Port = v.GetInt("REDIS_PORT")
	configs.Redis.Password = v.GetString("REDIS_PASSWORD")
	configs.Redis.DB = v.GetInt("REDIS_DB")
	configs.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")

	// NATS config
	configs.NATS.URL = v.GetString("NATS_URL")

	// NewRelic config
	configs.NewRelic.LicenseKey = v.GetString("NEW_RELIC_LICENSE_KEY")
	configs.NewRelic.AppName = v.GetString("NEW_RELIC_APP_NAME")
	configs.NewRelic.Enabled = v.GetBool("NEW_RELIC_ENABLED")
	configs.NewRelic.LogsEnabled = v.GetBool("NEW_RELIC_LOGS_ENABLED")
	configs.NewRelic.ForwardLogs = v.GetBool("NEW_RELIC_FORWARD_LOGS")

	// Logger config
	configs.Logger.Level = v.GetString("LOG_LEVEL")
	configs.Logger.FilePath = v.GetString("LOG_FILE_PATH")
	configs.Logger.Type = v.GetString("LOG_TYPE")

	// Provider endpoints are keyed by provider identifier,
	// e.g. PROVIDER_EASYMONEY_URL for models.ProviderEasyMoney.
	configs.Providers.Endpoints = make(map[models.Provider]models.ProviderEndpoint, len(models.Providers))
	for _, p := range models.Providers {
		configs.Providers.Endpoints[p] = models.ProviderEndpoint{
			URL: v.GetString(providerEnvKey(p, "URL")),
		}
	}
	configs.Providers.Timeout = durationOr(v, "PROVIDER_TIMEOUT", 10*time.Second)
	configs.Providers.MaxRetries = v.GetInt("PROVIDER_MAX_RETRIES")
	configs.Providers.BreakerFailureThreshold = v.GetUint32("PROVIDER_BREAKER_FAILURE_THRESHOLD")
	configs.Providers.BreakerOpenTimeout = durationOr(v, "PROVIDER_BREAKER_OPEN_TIMEOUT", 30*time.Second)

	// Idempotency config
	configs.Idempotency.Enabled = v.GetBool("IDEMPOTENCY_ENABLED")
	configs.Idempotency.InProgressTTL = durationOr(v, "IDEMPOTENCY_IN_PROGRESS_TTL", 30*time.Second)
	configs.Idempotency.CompletedTTL = durationOr(v, "IDEMPOTENCY_COMPLETED_TTL", 24*time.Hour)

	return configs
}

func providerEnvKey(p models.Provider, suffix string) string {
	return "PROVIDER_" + strings.ToUpper(string(p)) + "_" + suffix
}

// durationOr falls back to def when the value is missing or unparsable.
func durationOr(v *viper.Viper, key string, def time.Duration) time.Duration {
	d := v.GetDuration(key)
	if d <= 0 {
		log.Printf("Warning: Invalid duration value for %s, using default: %s", key, def)
		return def
	}
	return d
}

// GetEnv reads a single environment variable with a fallback
func GetEnv(key, defaultValue string) string {
	v := viper.New()
	v.AutomaticEnv()
	value := v.GetString(key)
	if value == "" {
		return defaultValue
	}
	return value
}
