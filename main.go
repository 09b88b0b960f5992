package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hanghae99-6-d/backend/app/comment"
	"github.com/hanghae99-6-d/backend/infra/postgres"
	"github.com/hanghae99-6-d/backend/infra/rabbitmq"
	"github.com/hanghae99-6-d/backend/internal/handler"
	"github.com/hanghae99-6-d/backend/internal/middleware"
	"github.com/hanghae99-6-d/backend/pkg/config"
	"github.com/hanghae99-6-d/backend/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()

	log, err := logger.New(appConfig.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zap.L().Info("Comment service starting...",
		zap.String("serviceName", appConfig.ServiceName),
		zap.String("port", appConfig.Port),
		zap.Int("pageSize", appConfig.CommentPageSize),
	)

	pgRepository, err := postgres.NewPgRepository(appConfig.PostgresDSN())
	if err != nil {
		zap.L().Fatal("Failed to connect to postgres", zap.Error(err))
	}
	defer pgRepository.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := pgRepository.Migrate(migrateCtx); err != nil {
		cancel()
		zap.L().Fatal("Failed to migrate comments schema", zap.Error(err))
	}
	cancel()

	opts := []comment.Option{comment.WithPageSize(appConfig.CommentPageSize)}
	if appConfig.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
		if err != nil {
			zap.L().Fatal("Failed to create event publisher", zap.Error(err))
		}
		defer publisher.Close()
		opts = append(opts, comment.WithPublisher(publisher, appConfig.ServiceName))
	} else {
		zap.L().Warn("RABBITMQ_URL not set, comment events are disabled")
	}

	commentService := comment.NewService(pgRepository, opts...)

	app := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
	})

	app.Get("/health", handler.Health(pgRepository))

	api := app.Group("/api/v1", middleware.NewIdentityMiddleware())
	comment.RegisterRoutes(api, commentService)

	go func() {
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	gracefulShutdown(app)
}

func gracefulShutdown(app *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}
