package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/supportdesk/internal/api/http"
	"github.com/spec-kit/supportdesk/internal/api/http/handlers"
	"github.com/spec-kit/supportdesk/internal/auth"
	"github.com/spec-kit/supportdesk/internal/cache"
	"github.com/spec-kit/supportdesk/internal/config"
	"github.com/spec-kit/supportdesk/internal/events"
	"github.com/spec-kit/supportdesk/internal/observability"
	"github.com/spec-kit/supportdesk/internal/persistence"
	"github.com/spec-kit/supportdesk/internal/repository"
	"github.com/spec-kit/supportdesk/internal/service"
	"github.com/spec-kit/supportdesk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Auth.UsingInsecureSecret() {
		logger.Warn("AUTH_JWT_SECRET not set; using the insecure development secret. Do not run this configuration in production.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	taskCache := cache.NewTaskCache(redis, cfg.Cache.TaskListTTL(), logger)
	taskCache.RegisterHandlers(dispatcher)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
	}, logger)
	taskService := service.NewTaskService(service.TaskDependencies{
		TaskRepo:     taskRepo,
		CategoryRepo: categoryRepo,
		Dispatcher:   dispatcher,
		Cache:        taskCache,
	})
	categoryService := service.NewCategoryService(categoryRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	if pool != nil {
		if err := categoryService.Seed(ctx); err != nil {
			logger.Warn("failed to seed categories", zap.Error(err))
		}
		if err := authService.SeedDefaultUsers(ctx); err != nil {
			logger.Warn("failed to seed default users", zap.Error(err))
		}
	}

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo, logger)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		Tasks:          handlers.NewTasksHandler(taskService),
		Metrics:        handlers.NewMetricsHandler(metrics),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
