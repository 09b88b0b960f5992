package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hanghae99-6-d/backend/infra/grpc"
	"github.com/hanghae99-6-d/backend/infra/postgres"
	"github.com/hanghae99-6-d/backend/pkg/config"
	"github.com/hanghae99-6-d/backend/pkg/logger"
	"go.uber.org/zap"
)

const healthInterval = 10 * time.Second

func main() {
	appConfig := config.Read()

	log, err := logger.New(appConfig.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zap.L().Info("Comment gRPC Service starting...")

	grpcServer, err := grpc.NewServer(appConfig)
	if err != nil {
		zap.L().Fatal("Failed to create grpc server", zap.Error(err))
	}

	pgRepository, err := postgres.NewPgRepository(appConfig.PostgresDSN())
	if err != nil {
		zap.L().Fatal("Failed to connect to postgres", zap.Error(err))
	}
	defer pgRepository.Close()

	grpc.RegisterCommentServiceServer(grpcServer.GetGRPCServer(), grpc.NewCommentService(pgRepository))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go grpcServer.MonitorHealth(ctx, pgRepository, healthInterval)

	zap.L().Info("Starting gRPC server...", zap.String("port", appConfig.GRPCPort))
	go func() {
		if err := grpcServer.Start(); err != nil {
			zap.L().Error("Failed to start grpc server", zap.Error(err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")
	cancel()
	grpcServer.GracefulStop()
	zap.L().Info("Server gracefully stopped")
}
