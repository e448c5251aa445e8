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

	"github.com/SAP-F-2025/grade-service/internal/cache"
	"github.com/SAP-F-2025/grade-service/internal/catalog"
	"github.com/SAP-F-2025/grade-service/internal/config"
	"github.com/SAP-F-2025/grade-service/internal/handlers"
	"github.com/SAP-F-2025/grade-service/internal/repositories"
	"github.com/SAP-F-2025/grade-service/internal/repositories/memory"
	"github.com/SAP-F-2025/grade-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/grade-service/internal/services"
	"github.com/SAP-F-2025/grade-service/internal/utils"
	"github.com/SAP-F-2025/grade-service/internal/validator"
	"github.com/SAP-F-2025/grade-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewLogger("development", "info").LogError(err, "Failed to load config")
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment, cfg.LogLevel)
	if err := run(cfg, logger); err != nil {
		logger.LogError(err, "Grade service stopped")
		os.Exit(1)
	}
}

// run serves until SIGINT or SIGTERM. Everything it opens is released before
// it returns.
func run(cfg *config.Config, logger utils.Logger) error {
	slogLogger := utils.ToSlogLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open catalog storage: %w", err)
	}
	defer closeRepo()

	cacheService := cache.NewNoopCache()
	if cfg.RedisURL != "" {
		client, err := pkg.NewRedisClient(ctx, cfg)
		if err != nil {
			logger.LogError(err, "Redis unavailable, grade cache disabled")
		} else {
			defer client.Close()
			cacheService = cache.NewRedisCache(client, slogLogger, "grade-service:")
		}
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogLogger)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	defer publisher.Close()

	v := validator.New()
	gradeService := services.NewGradeService(repo, cacheService, publisher, slogLogger, v, services.GradeSettings{
		Options:  cfg.Grading.Options(),
		CacheTTL: cfg.CacheTTL,
	})
	catalogService := services.NewCatalogService(repo, cacheService, publisher, slogLogger, v)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	corsMiddleware, err := handlers.CORSMiddleware(cfg.CORSOrigins)
	if err != nil {
		return err
	}

	router := gin.New()
	router.Use(gin.Recovery(), corsMiddleware, utils.LoggerMiddleware(logger), utils.ContextLogger(logger))
	handlers.NewHandlerManager(gradeService, catalogService, logger).SetupRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Grade service listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// openCatalog picks postgres when DATABASE_URL is set and the in-memory
// store otherwise. Built-in terms are seeded into either when missing.
func openCatalog(ctx context.Context, cfg *config.Config, logger utils.Logger) (repositories.CatalogRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("DATABASE_URL not set, using in-memory catalog")
		return memory.NewCatalogMemory(catalog.Builtin()...), func() {}, nil
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	repo := postgres.NewCatalogPostgreSQL(db)
	for _, term := range catalog.Builtin() {
		exists, err := repo.ExistsByCode(ctx, nil, term.Code)
		if err != nil {
			closeDB()
			return nil, nil, err
		}
		if exists {
			continue
		}
		if err := repo.Create(ctx, nil, term); err != nil {
			closeDB()
			return nil, nil, err
		}
		logger.Info("Seeded built-in term", "term_code", term.Code, "items", len(term.Items))
	}
	return repo, closeDB, nil
}
