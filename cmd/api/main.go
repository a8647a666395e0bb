package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sport-shop/internal/auth"
	"sport-shop/internal/config"
	"sport-shop/internal/database"
	"sport-shop/internal/delivery"
	"sport-shop/internal/handler"
	"sport-shop/internal/messaging"
	"sport-shop/internal/notification"
	"sport-shop/internal/payment"
	"sport-shop/internal/repository"
	"sport-shop/internal/router"
	"sport-shop/internal/service"
	"sport-shop/internal/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("version", version).Msg("starting sport-shop API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.OTelEnabled {
		shutdownTracing, err := telemetry.InitTracerProvider(ctx, cfg.Telemetry.OTelEndpoint, cfg.Telemetry.ServiceName, version)
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := shutdownTracing(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("failed to flush traces")
			}
		}()
		logger.Info().Str("endpoint", cfg.Telemetry.OTelEndpoint).Msg("tracing enabled")
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	metrics := telemetry.NewMetrics()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration)

	// Repositories
	productRepo := repository.NewProductRepository(pool, logger)
	customerRepo := repository.NewCustomerRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	deliveryResolver := delivery.NewResolver()
	paymentResolver := payment.NewResolver(logger)

	notifiers := notification.Defaults(logger)
	if cfg.Kafka.Enabled() {
		producer := messaging.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close kafka producer")
			}
		}()
		notifiers = append(notifiers, producer)
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.OrderTopic).
			Msg("publishing order events to kafka")
	}
	dispatcher := notification.NewDispatcher(cfg.Notify.Timeout, metrics.NotificationFailures, logger, notifiers...)
	logger.Info().Strs("notifiers", dispatcher.Notifiers()).Msg("order notifiers registered")

	// Services
	productService := service.NewProductService(productRepo, logger)
	customerService := service.NewCustomerService(customerRepo, logger)
	authService := service.NewAuthService(userRepo, tokens, logger)
	orderService := service.NewOrderService(service.OrderDeps{
		Orders:        orderRepo,
		Products:      productRepo,
		Customers:     customerRepo,
		Users:         userRepo,
		Delivery:      deliveryResolver,
		Payment:       paymentResolver,
		Notifier:      dispatcher,
		OrdersCreated: metrics.OrdersCreated,
	}, logger)

	mux := router.New(router.Handlers{
		Health:   handler.NewHealthHandler(pool, logger),
		Auth:     handler.NewAuthHandler(authService, logger),
		Product:  handler.NewProductHandler(productService, logger),
		Customer: handler.NewCustomerHandler(customerService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Delivery: handler.NewDeliveryHandler(deliveryResolver, logger),
		Payment:  handler.NewPaymentHandler(paymentResolver, metrics.PaymentDecisions, logger),
	}, router.Options{
		Tokens:             tokens,
		Metrics:            metrics,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Tracing:            cfg.Telemetry.OTelEnabled,
		ServiceName:        cfg.Telemetry.ServiceName,
	}, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
