package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agentlift/agentlift/internal/analysis"
	"github.com/agentlift/agentlift/internal/api"
	"github.com/agentlift/agentlift/internal/catalog"
	"github.com/agentlift/agentlift/internal/config"
	"github.com/agentlift/agentlift/internal/observability"
	"github.com/agentlift/agentlift/internal/repository/postgres"
	rediscache "github.com/agentlift/agentlift/internal/repository/redis"
	"github.com/agentlift/agentlift/internal/services/delta"
	"github.com/agentlift/agentlift/internal/storage"
)

func main() {
	// Load .env if present, ignore if missing
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(string(cfg.Env), cfg.GetLogLevel())
	defer logger.Sync()

	logger.Info("Starting AgentLift API",
		zap.String("version", cfg.App.Version),
		zap.String("environment", string(cfg.Env)),
	)

	// Connect to PostgreSQL
	db, err := postgres.New(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
	)

	// Connect to Redis (optional)
	cache, err := rediscache.New(cfg.Redis)
	if err != nil {
		logger.Warn("Failed to connect to Redis, caching disabled", zap.Error(err))
		cache = nil
	} else {
		defer cache.Close()
		logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr()))
	}

	// Connect to object storage (optional)
	store, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Warn("Failed to connect to object storage, export archiving disabled", zap.Error(err))
		store = nil
	} else {
		if err := store.EnsureBucket(context.Background()); err != nil {
			logger.Warn("Failed to ensure storage bucket, export archiving disabled", zap.Error(err))
			store = nil
		} else {
			logger.Info("Connected to object storage",
				zap.String("endpoint", cfg.Storage.Endpoint),
				zap.String("bucket", cfg.Storage.Bucket),
			)
		}
	}

	// Load the opportunity catalog
	cat, err := catalog.Load()
	if err != nil {
		logger.Fatal("Failed to load opportunity catalog", zap.Error(err))
	}

	params := analysis.Defaults()
	params.HighImpactROIThreshold = cfg.Analysis.HighImpactROIThreshold
	params.QuickWinLimit = cfg.Analysis.QuickWinLimit
	params.VolumeMultiplier = cfg.Analysis.VolumeMultiplier
	params.VolumeIntentThreshold = cfg.Analysis.VolumeIntentThreshold

	metrics := observability.NewMetrics(cfg.App.Name)

	engine := analysis.NewEngine(cat, params, logger)
	repos := postgres.NewRepositories(db.DB)
	service := delta.NewService(engine, repos.AnalysisRuns, cache, store, metrics, logger)

	router := api.NewRouter(api.RouterConfig{
		Service:    service,
		DB:         db,
		Cache:      cache,
		Store:      store,
		Metrics:    metrics,
		Logger:     logger,
		EnableCORS: cfg.Security.CORSEnabled,
		RateLimit:  cfg.RateLimits.RequestsPerMin,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", zap.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatal("Server error", zap.Error(err))

	case sig := <-shutdown:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed, forcing close", zap.Error(err))
			server.Close()
		}

		logger.Info("Server stopped gracefully")
	}
}

// initLogger creates a configured zap logger
func initLogger(env, level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := config.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	return logger
}
