package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dadasys/parkovaci-app/internal/app"
	"github.com/dadasys/parkovaci-app/internal/booking"
	"github.com/dadasys/parkovaci-app/internal/config"
	"github.com/dadasys/parkovaci-app/internal/logging"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.IsProduction)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	// Connect storage
	backend, err := app.OpenBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to open storage", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	container, err := app.NewContainer(app.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		Store:          backend.Store,
		Users:          backend.Users,
		JWTSecret:      cfg.JWTSecret,
		JWTTTL:         cfg.JWTAccessTokenTTL,
		WindowDays:     cfg.BookingWindowDays,
		Places:         cfg.ParkingPlaces,
		Location:       cfg.Location,
		Clock:          booking.SystemClock,
		Logger:         logger,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	if err != nil {
		logger.Error(ctx, "failed to init application", "error", err)
		os.Exit(1)
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		logger.Info(ctx, "server running",
			"addr", cfg.HTTPAddr,
			"store", cfg.StoreDriver,
			"booking_window_days", cfg.BookingWindowDays,
			"timezone", cfg.Location.String(),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "server error", "error", err)
			stop()
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	logger.Info(context.Background(), "shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn(shutdownCtx, "server forced to shutdown", "error", err)
	}

	logger.Info(shutdownCtx, "server exited gracefully")
}
