package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwishbag/tariffbox/internal/config"
	"github.com/iwishbag/tariffbox/internal/customs"
	"github.com/iwishbag/tariffbox/internal/database"
	"github.com/iwishbag/tariffbox/internal/logging"
	"github.com/iwishbag/tariffbox/internal/notification"
	"github.com/iwishbag/tariffbox/internal/workers"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dbpool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer dbpool.Close()
	if err := dbpool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Database connection pool established")

	dbQueries := database.New(dbpool)

	logLevel := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: logLevel}
	baseHandler := slog.NewJSONHandler(os.Stdout, opts)
	contextHandler := logging.NewContextHandler(baseHandler)
	logger := slog.New(contextHandler)
	slog.SetDefault(logger)

	slog.Info("Logging initialized", "level", logLevel.String())

	// --- Initialize Services ---
	resolver := customs.NewResolver(customs.NewPGRuleSource(dbQueries))
	notifier := notification.NewLogNotifier()
	workerManager := workers.NewManager(dbQueries, notifier, resolver.Cache(), cfg.WorkerConfig)

	// --- Start Components ---
	go workerManager.StartEmailDispatcher(ctx)
	go workerManager.StartCacheRefresher(ctx)

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received, shutting down gracefully...")
	cancel()

	_, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	log.Println("Closing database pool...")
	dbpool.Close()
	log.Println("Engine gracefully stopped")
}
