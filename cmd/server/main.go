package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kipko3ch/link-seav1/internal/config"
	"github.com/kipko3ch/link-seav1/internal/handlers"
	"github.com/kipko3ch/link-seav1/internal/repository"
	"github.com/kipko3ch/link-seav1/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(handler)
}

func Run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := repository.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if repository.IsPostgres(cfg.DatabaseURL) {
		logger.Info("Running database migrations...")
		if err := repository.RunMigrations(cfg.DatabaseURL, ""); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	} else if err := repository.AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	mailer := services.NewSMTPMailer(cfg, logger)
	auditService := services.NewAuditService(db, logger, cfg.AuditBuffer)
	geoIPService := services.NewGeoIPService(cfg, logger)
	qrService := services.NewQRService()

	h := handlers.NewHandler(
		cfg,
		logger,
		tokens,
		services.NewAccountService(db, logger, tokens, mailer, cfg.OTPTTL),
		services.NewLinkService(db, logger),
		services.NewThemeService(db, logger),
		services.NewPublicService(db, logger, qrService, cfg.PublicBaseURL),
		services.NewClickService(db, logger, geoIPService, cfg.StatsOwnerOnly),
		auditService,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	geoIPService.Init()
	defer geoIPService.Close()

	var workers sync.WaitGroup
	workers.Add(2)
	go func() {
		defer workers.Done()
		auditService.Start(workerCtx)
	}()
	go func() {
		defer workers.Done()
		geoIPService.StartReloader(workerCtx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "base_path", cfg.APIBasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// the audit worker drains its buffer before returning
	workerCancel()
	workers.Wait()

	logger.Info("Server exiting")
	return runErr
}
