// Command server runs the document management API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	docapp "github.com/cabinet/backend/internal/application/document"
	identityapp "github.com/cabinet/backend/internal/application/identity"
	"github.com/cabinet/backend/internal/infrastructure/auth"
	"github.com/cabinet/backend/internal/infrastructure/config"
	"github.com/cabinet/backend/internal/infrastructure/logger"
	"github.com/cabinet/backend/internal/infrastructure/persistence"
	"github.com/cabinet/backend/internal/infrastructure/seed"
	"github.com/cabinet/backend/internal/infrastructure/storage"
	"github.com/cabinet/backend/internal/interfaces/http/handler"
	"github.com/cabinet/backend/internal/interfaces/http/router"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	defer func() { _ = log.Sync() }()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	if err := run(cfg, log); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	fileStorage, err := newFileStorage(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize file storage: %w", err)
	}

	userRepo := persistence.NewGormUserRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	docRepo := persistence.NewGormDocumentRepository(db.DB)

	jwtService := auth.NewJWTService(cfg.JWT)

	authService := identityapp.NewAuthService(userRepo, tenantRepo, jwtService, log)
	userService := identityapp.NewUserService(userRepo, tenantRepo, log)
	tenantService := identityapp.NewTenantService(tenantRepo, log)
	docService := docapp.NewDocumentService(docRepo, tenantRepo, fileStorage, log)

	if cfg.App.SeedDemoData {
		seeder := seed.NewSeeder(userRepo, tenantRepo, log)
		if err := seeder.Run(context.Background()); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	engine := router.New(cfg, log, jwtService, authService, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, log),
		Documents: handler.NewDocumentHandler(docService, log),
		Review:    handler.NewReviewHandler(docService, log),
		Tenants:   handler.NewTenantHandler(tenantService, log),
		Users:     handler.NewUserHandler(userService, log),
		System:    handler.NewSystemHandler(db),
	})

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// newFileStorage builds the configured storage backend
func newFileStorage(cfg *config.Config, log *zap.Logger) (docapp.FileStorage, error) {
	switch cfg.Storage.Backend {
	case "s3":
		s3Storage, err := storage.NewS3FileStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s3Storage, nil
	default:
		return storage.NewLocalFileStorage(cfg.Storage.LocalDir, log)
	}
}
