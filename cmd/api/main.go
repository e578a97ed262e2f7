package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thuso-software/veriface/internal/api"
	"github.com/thuso-software/veriface/internal/cache"
	"github.com/thuso-software/veriface/internal/config"
	"github.com/thuso-software/veriface/internal/database"
	"github.com/thuso-software/veriface/internal/face"
	"github.com/thuso-software/veriface/internal/photo"
	"github.com/thuso-software/veriface/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Veriface API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("extractor", cfg.ExtractorType),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database pool
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Repositories
	var profileRepo repository.ProfileRepositoryInterface = repository.NewProfileRepository(pool)
	verificationRepo := repository.NewVerificationRepository(pool)

	// Optional Redis-backed profile cache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid redis url: %w", err)
		}
		client := redis.NewClient(opts)
		defer func() {
			_ = client.Close()
		}()

		profileRepo = cache.NewCachedProfiles(profileRepo, cache.NewRedisKV(client), cfg.ProfileCacheTTL, logger)
		logger.Info("profile cache enabled", slog.Duration("ttl", cfg.ProfileCacheTTL))
	}

	// Embedding extractor
	extractor, err := face.NewExtractor(cfg)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		ProfileRepo:      profileRepo,
		VerificationRepo: verificationRepo,
		Extractor:        extractor,
		Photos:           photo.NewLoader(cfg.PhotoBaseDir),
		DB:               pool,
		Config:           cfg,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
