package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/piresc/paygate/internal/pkg/circuitbreaker"
	"github.com/piresc/paygate/internal/pkg/config"
	"github.com/piresc/paygate/internal/pkg/database"
	"github.com/piresc/paygate/internal/pkg/health"
	httpclient "github.com/piresc/paygate/internal/pkg/http"
	"github.com/piresc/paygate/internal/pkg/logger"
	"github.com/piresc/paygate/internal/pkg/middleware"
	"github.com/piresc/paygate/internal/pkg/nats"
	nrpkg "github.com/piresc/paygate/internal/pkg/newrelic"
	"github.com/piresc/paygate/internal/pkg/server"
	"github.com/piresc/paygate/services/payment"
	"github.com/piresc/paygate/services/payment/gateway"
	"github.com/piresc/paygate/services/payment/handler"
	"github.com/piresc/paygate/services/payment/repository"
	"github.com/piresc/paygate/services/payment/usecase"
)

func main() {
	configPath := "config/gateway.env"
	configs := config.InitConfig(configPath)
	appName := configs.App.Name

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()

	// Set global logger for application-wide access
	logger.SetGlobalLogger(zapLogger)

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
	)

	shutdownManager := server.NewShutdownManager(zapLogger)

	// Initialize PostgreSQL database connection
	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}
	shutdownManager.Register("postgres", func(ctx context.Context) error {
		return postgresClient.Close()
	})

	// Initialize Redis client
	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", logger.Err(err))
	}
	shutdownManager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	// NATS is optional; without it transaction events are not published
	var publisher gateway.NATSPublisher
	var natsClient *nats.Client
	if configs.NATS.URL != "" {
		natsClient, err = nats.NewClient(configs.NATS.URL, appName)
		if err != nil {
			zapLogger.Warn("NATS unavailable, transaction events disabled", logger.Err(err))
			natsClient = nil
		} else {
			publisher = natsClient
			shutdownManager.Register("nats", func(ctx context.Context) error {
				natsClient.Close()
				return nil
			})
		}
	}

	// Outbound provider client
	breakerCfg := circuitbreaker.DefaultConfig()
	if configs.Providers.BreakerFailureThreshold > 0 {
		breakerCfg.FailureThreshold = configs.Providers.BreakerFailureThreshold
	}
	breakerCfg.Timeout = configs.Providers.BreakerOpenTimeout
	providerClient := httpclient.NewEnhancedClient(httpclient.Config{
		Timeout:    configs.Providers.Timeout,
		MaxRetries: configs.Providers.MaxRetries,
		Breaker:    breakerCfg,
	}, zapLogger)

	// Initialize repositories
	transactionRepo := repository.NewTransactionRepo(postgresClient.GetDB())
	var idempotencyRepo payment.IdempotencyStore
	if configs.Idempotency.Enabled {
		idempotencyRepo = repository.NewIdempotencyRepo(redisClient, configs.Idempotency)
	}

	// Initialize gateways
	eventGW := gateway.NewNATSGateway(publisher)
	adapters := gateway.NewProviderAdapters(providerClient, configs.Providers)

	// Initialize usecases
	paymentUC, err := usecase.NewPaymentUC(configs, transactionRepo, idempotencyRepo, eventGW, adapters...)
	if err != nil {
		zapLogger.Fatal("Failed to initialize payment use case", logger.Err(err))
	}
	webhookUC, err := usecase.NewWebhookUC(configs, transactionRepo, eventGW)
	if err != nil {
		zapLogger.Fatal("Failed to initialize webhook use case", logger.Err(err))
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	if nrApp != nil {
		e.Use(nrecho.Middleware(nrApp))
	}
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.PanicRecoveryMiddleware(zapLogger))
	e.Use(logger.ZapEchoMiddleware(zapLogger))
	e.Use(echomw.BodyLimit("1M"))

	// Health endpoints
	healthService := health.NewHealthService(zapLogger)
	healthService.AddChecker("postgres", health.NewPostgresHealthChecker(postgresClient))
	healthService.AddChecker("redis", health.NewRedisHealthChecker(redisClient))
	if natsClient != nil {
		healthService.AddChecker("nats", health.NewNATSHealthChecker(natsClient))
	}
	healthService.AddStats("provider_circuit_breakers", func() interface{} {
		return providerClient.CircuitBreakerStats()
	})
	health.RegisterHealthEndpoints(e, appName, configs.App.Version, healthService)

	// Register service routes
	handler.NewHandler(paymentUC, webhookUC).RegisterRoutes(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewGracefulServer(e, zapLogger, configs.Server)
	if err := srv.Run(ctx); err != nil {
		zapLogger.Error("Server stopped with error", logger.Err(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdownManager.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Component shutdown finished with errors", logger.Err(err))
	}

	// Shutdown New Relic
	if nrApp != nil {
		zapLogger.Info("Shutting down New Relic...")
		nrApp.Shutdown(10 * time.Second)
	}

	zapLogger.Info("Server exiting gracefully")
	_ = zapLogger.Sync()
}
