package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"housecleaning-backend/config"
	"housecleaning-backend/controllers"
	"housecleaning-backend/logging"
	"housecleaning-backend/metrics"
	"housecleaning-backend/routes"
	"housecleaning-backend/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "housecleaning-backend: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	log, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDatabase(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Left as a nil interface when Redis is off or unreachable.
	var cache services.BookingCache
	if cfg.Redis.Address != "" {
		client := services.NewRedisClient(cfg.Redis)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		pingErr := client.Ping(pingCtx).Err()
		cancel()
		if pingErr != nil {
			log.Warn().Err(pingErr).Str("addr", cfg.Redis.Address).Msg("redis unavailable, booking cache disabled")
			_ = client.Close()
		} else {
			defer client.Close()
			cache = services.NewRedisBookingCache(client, cfg.Redis.BookingTTL)
			log.Info().Str("addr", cfg.Redis.Address).Msg("booking cache enabled")
		}
	}

	metrics.Register()

	authService := services.NewAuthService(db, cfg.Auth.BcryptCost, log)
	bookingService := services.NewBookingService(db, cache, log)
	exportService := services.NewExportService(bookingService, log)

	if err := authService.EnsureDefaultPassword(ctx, cfg.Auth.DefaultPassword); err != nil {
		return fmt.Errorf("seed admin password: %w", err)
	}

	authController := controllers.NewAuthController(authService)
	bookingController := controllers.NewBookingController(bookingService, exportService)

	router := routes.SetupRouter(authController, bookingController, db, cfg.CORS, log)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		metricsSrv = newMetricsServer(cfg.Metrics.Port)
		go func() {
			log.Info().Str("addr", metricsSrv.Addr).Msg("metrics server starting")
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed")
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("metrics server forced to shutdown")
		}
	}

	log.Info().Msg("server stopped gracefully")
	return nil
}

func newMetricsServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
