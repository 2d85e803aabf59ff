package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/bashbay-events/internal/config"
	"github.com/joshua-takyi/bashbay-events/internal/connect"
	"github.com/joshua-takyi/bashbay-events/internal/container"
	"github.com/joshua-takyi/bashbay-events/internal/helpers"
	"github.com/joshua-takyi/bashbay-events/internal/models"
	"github.com/joshua-takyi/bashbay-events/internal/routes"
	"github.com/joshua-takyi/bashbay-events/internal/store"
	"github.com/joshua-takyi/bashbay-events/internal/uploader"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("Starting Bashbay events server", "environment", cfg.Environment)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize database connections
	supaClient, err := connect.InitSupabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to Supabase", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to Supabase successfully")

	mongoClient, err := connect.MongoDBConnect(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to MongoDB successfully")

	mongoRepo := models.MongodbNewRepo(mongoClient, "")
	if err := mongoRepo.EnsureIndexes(ctx); err != nil {
		logger.Warn("Failed to ensure MongoDB indexes", "error", err)
	}

	images, err := newImageUploader(cfg)
	if err != nil {
		logger.Error("Failed to set up image uploads", "backend", cfg.ImageBackend, "error", err)
		os.Exit(1)
	}

	tokens, err := helpers.NewTokenValidator(ctx, cfg.SupabaseURL, cfg.SupabaseJWTSecret, cfg.IsProduction(), logger)
	if err != nil {
		logger.Error("Failed to set up token validation", "error", err)
		os.Exit(1)
	}

	// Initialize dependency container
	appContainer := container.NewContainer(cfg, logger, container.Deps{
		Store:  store.NewSupabaseStore(supaClient, cfg.SupabaseURL, cfg.SupabaseAnonKey),
		Auth:   models.NewSupabaseAuth(supaClient),
		Saved:  mongoRepo,
		Views:  mongoRepo,
		Images: images,
		Tokens: tokens,
	})

	// Setup routes
	router := routes.SetupRoutes(appContainer)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Cancelling the base context ends open join-tab streams.
	stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if closer, ok := tokens.(interface{ Close() }); ok {
		closer.Close()
	}
	if err := connect.MongoDBDisconnect(mongoClient); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}

	logger.Info("Server exited")
}

func newImageUploader(cfg *config.Config) (uploader.ImageUploader, error) {
	if cfg.ImageBackend == config.ImageBackendCloudinary {
		cld, err := connect.CloudinaryCredentials(cfg)
		if err != nil {
			return nil, err
		}
		return uploader.NewCloudinaryUploader(cld), nil
	}
	return uploader.NewFunctionUploader(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.UploadFunction), nil
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
