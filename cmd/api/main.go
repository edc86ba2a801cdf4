package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/serenatasalon/booking-api/internal/accounts"
	"github.com/serenatasalon/booking-api/internal/api/router"
	"github.com/serenatasalon/booking-api/internal/app/bootstrap"
	"github.com/serenatasalon/booking-api/internal/appointments"
	"github.com/serenatasalon/booking-api/internal/booking"
	"github.com/serenatasalon/booking-api/internal/catalog"
	"github.com/serenatasalon/booking-api/internal/changefeed"
	appconfig "github.com/serenatasalon/booking-api/internal/config"
	"github.com/serenatasalon/booking-api/internal/notifications"
	"github.com/serenatasalon/booking-api/internal/notify"
	"github.com/serenatasalon/booking-api/internal/observability/metrics"
	"github.com/serenatasalon/booking-api/internal/scheduling"
	"github.com/serenatasalon/booking-api/pkg/logging"
)

func main() {
	// Local development convenience; the file is absent in production.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel, cfg.Env)
	logger.Info("starting booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.BuildPool(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	bookingMetrics := metrics.NewBookingMetrics(registry)

	// Repositories
	apptRepo := appointments.NewPostgresRepository(pool)
	userRepo := accounts.NewPostgresRepository(pool)
	notifRepo := notifications.NewPostgresRepository(pool)
	catalogRepo := catalog.NewPostgresRepository(pool)
	catalogCache := bootstrap.BuildCatalogCache(catalogRepo, redisClient, cfg, logger)

	// Change feed: database notifications fan out to websocket clients and
	// drive catalog cache invalidation.
	hub, listener := bootstrap.BuildChangeFeed(cfg, bookingMetrics, logger)
	go func() {
		if err := listener.Run(ctx); err != nil {
			logger.Error("change feed listener stopped", "error", err)
		}
	}()
	go changefeed.RunCatalogInvalidation(ctx, hub, catalogCache, logger)

	// Services
	accountsService := accounts.NewService(userRepo, cfg.AuthJWTSecret, cfg.AuthTokenTTL, logger)
	engine := scheduling.NewEngine(apptRepo, logger, bookingMetrics)
	emailSender := notify.EmailSender(notify.NewStubEmailSender(logger))
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	}
	notifier := notify.NewService(emailSender, notifRepo, cfg.SalonOwnerEmail, logger)
	bookingService := booking.NewService(apptRepo, catalogCache, engine, userRepo, notifier, bookingMetrics, logger)

	// Router
	r := router.New(&router.Config{
		Logger:               logger,
		AccountsHandler:      accounts.NewHandler(accountsService, logger),
		BookingHandler:       booking.NewHandler(bookingService, logger),
		CatalogHandler:       catalog.NewHandler(catalogCache, logger),
		NotificationsHandler: notifications.NewHandler(notifRepo, logger),
		FeedHandler:          changefeed.NewWSHandler(hub, cfg.CORSAllowedOrigins, logger),
		MetricsHandler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		JWTSecret:            cfg.AuthJWTSecret,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
