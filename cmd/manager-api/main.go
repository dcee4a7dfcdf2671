package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	cfg "github.com/iwishbag/tariffbox/internal/config"
	"github.com/iwishbag/tariffbox/internal/customs"
	"github.com/iwishbag/tariffbox/internal/database"
	"github.com/iwishbag/tariffbox/internal/logging"
	apihandlers "github.com/iwishbag/tariffbox/internal/managerapi/handlers"
	"github.com/iwishbag/tariffbox/internal/payments"
	"github.com/iwishbag/tariffbox/internal/quotes"
)

func main() {
	appCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	config, err := cfg.Load()
	if err != nil {
		log.Fatalf("Config load error: %v", err)
	}
	setupLogging(config.LogLevel)

	slog.Info("Connecting to database...")
	dbpool, err := database.NewPool(appCtx, config.DatabaseURL)
	if err != nil {
		slog.Error("DB connect error", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()
	if err := dbpool.Ping(appCtx); err != nil {
		slog.Error("DB ping error", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Database connection established")
	dbQueries := database.New(dbpool)

	// --- Services ---
	resolver := customs.NewResolver(customs.NewPGRuleSource(dbQueries))
	feeCalc := payments.NewFeeCalculator(dbQueries)
	pricer := quotes.NewPricer(dbQueries, resolver, feeCalc)
	reconciler := payments.NewReconciler(dbpool, dbQueries)

	// --- Gin Router Setup ---
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		if err := dbpool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "db": "error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	apiV1 := router.Group("/api/v1")
	apihandlers.SetupRoutes(apiV1, dbQueries, resolver, pricer, reconciler)

	srv := &http.Server{
		Addr:         config.ManagerAPI.Addr,
		Handler:      router,
		ReadTimeout:  config.ManagerAPI.ReadTimeout,
		WriteTimeout: config.ManagerAPI.WriteTimeout,
		IdleTimeout:  config.ManagerAPI.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
	}

	go func() {
		slog.Info("Starting Management API Server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Management API ListenAndServe error", slog.Any("error", err))
			rootCancel()
		}
	}()

	<-appCtx.Done()
	slog.Info("Shutdown signal received for Management API server.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Management API server forced to shutdown", slog.Any("error", err))
	}

	slog.Info("Management API server stopped.")
}

func setupLogging(logLevelStr string) {
	logLevel := slog.LevelInfo
	if logLevelStr == "debug" {
		logLevel = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: logLevel, AddSource: logLevel <= slog.LevelDebug}
	baseHandler := slog.NewJSONHandler(os.Stdout, opts)
	contextHandler := logging.NewContextHandler(baseHandler)
	logger := slog.New(contextHandler)
	slog.SetDefault(logger)
}
