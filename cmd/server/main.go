package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shiv060600/Tuttle-Tools/internal/config"
	"github.com/shiv060600/Tuttle-Tools/internal/handlers"
	"github.com/shiv060600/Tuttle-Tools/internal/repository"
	"github.com/shiv060600/Tuttle-Tools/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func Run(ctx context.Context) error {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Setup Logger
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 3. Initialize Database
	db, err := repository.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := repository.Close(db); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	// 4. Run Migrations
	switch {
	case cfg.IsPostgres() && cfg.AutoMigrate:
		logger.Info("Running database migrations...")
		if err := repository.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	case strings.HasPrefix(cfg.DatabaseURL, "sqlite://") && cfg.AutoMigrate:
		if err := repository.AutoMigrate(db, cfg); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	// 5. Initialize Redis. The book cache is optional.
	var cache repository.Cache
	if cfg.RedisURL != "" {
		rdb, err := repository.InitRedis(cfg.RedisURL, cfg.RedisPassword, 0)
		if err != nil {
			logger.Warn("Failed to connect to Redis, book cache disabled", "error", err)
		} else {
			defer rdb.Close()
			cache = repository.NewRedisCache(rdb)
		}
	}

	// 6. Initialize Services
	gw := repository.NewGateway(db, logger)
	types := services.DefaultMappingTypes(cfg)
	mappingService := services.NewMappingService(gw, services.NewBusinessHoursGate(), cfg.CustomerTable, logger)
	auditService := services.NewAuditService(gw, logger)
	bookService := services.NewBookService(gw, cache, cfg.BookCacheTTL, cfg.BookTable, cfg.BackorderTable, logger)
	reportService := services.NewReportService(gw, cfg.InventoryTable, cfg.ItemTable, logger)
	admin := services.NewAdminAuthenticator(cfg.AdminUser, cfg.AdminPass, cfg.AdminPassHash)
	if !admin.Enabled() {
		logger.Warn("No admin password configured, admin login disabled")
	}
	retention := services.NewRetentionWorker(auditService, types, cfg.LogRetentionDays, cfg.LogRetentionInterval, logger)
	loginLimiter := services.NewIPRateLimiter(rate.Every(2*time.Second), 5, logger)

	// 7. Initialize Handler
	h := handlers.NewHandler(cfg, logger, gw, types, mappingService, auditService, bookService, reportService, admin)

	// 8. Setup Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := h.SetupRouter(loginLimiter, handlers.NewSessionStore(cfg))

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Background Context for workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	workersDone := make(chan struct{})
	go func() {
		retention.Start(workerCtx)
		close(workersDone)
	}()
	loginLimiter.StartCleanup(workerCtx, 10*time.Minute, time.Hour)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for context cancellation or server error
	select {
	case err := <-serverErr:
		workerCancel()
		<-workersDone
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	workerCancel()
	<-workersDone

	logger.Info("Server exiting")
	return nil
}
