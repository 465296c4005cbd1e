package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spendlens/spendlens/pkg/config"
	"github.com/spendlens/spendlens/pkg/database"
	"github.com/spendlens/spendlens/pkg/handlers"
	"github.com/spendlens/spendlens/pkg/llm"
	"github.com/spendlens/spendlens/pkg/logging"
	"github.com/spendlens/spendlens/pkg/middleware"
	"github.com/spendlens/spendlens/pkg/repositories"
	"github.com/spendlens/spendlens/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(cfg.Database.ConnectionString(), cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Generated SQL runs on a separate pool when a read-only role DSN is
	// configured; the read-only transaction mode applies either way.
	chatPool := db.Pool
	if cfg.ChatDatabaseURL != "" {
		chatDB, err := database.ConnectDSN(ctx, cfg.ChatDatabaseURL, cfg.Database.MaxConnections)
		if err != nil {
			logger.Fatal("Failed to connect chat database", zap.Error(err))
		}
		defer chatDB.Close()
		chatPool = chatDB.Pool
	}

	llmClient, err := llm.NewFromConfig(&cfg.LLM, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	analyticsRepo := repositories.NewAnalyticsRepository(db)
	chatExecutor := repositories.NewChatQueryExecutor(chatPool, repositories.DefaultChatRowLimit, logger)

	analyticsService := services.NewAnalyticsService(analyticsRepo, logger)
	chatService := services.NewChatService(llmClient, chatExecutor, cfg.LLM.Temperature, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAnalyticsHandler(analyticsService, logger).RegisterRoutes(mux)
	handlers.NewChatHandler(chatService, logger).RegisterRoutes(mux)
	if cfg.Metrics.Enabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	var handler http.Handler = mux
	handler = middleware.Metrics(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.CORS(handler)

	server := &http.Server{
		Addr:              cfg.BindAddr + ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting spendlens",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
