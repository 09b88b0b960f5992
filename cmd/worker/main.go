package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hanghae99-6-d/backend/infra/postgres"
	"github.com/hanghae99-6-d/backend/infra/rabbitmq"
	"github.com/hanghae99-6-d/backend/internal/consumers"
	"github.com/hanghae99-6-d/backend/pkg/config"
	"github.com/hanghae99-6-d/backend/pkg/events"
	"github.com/hanghae99-6-d/backend/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const poolStatsInterval = 30 * time.Second

func main() {
	appConfig := config.Read()

	log, err := logger.New(appConfig.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zap.L().Info("Comment Worker Service starting...",
		zap.String("serviceName", appConfig.ServiceName),
		zap.Duration("reconcileInterval", appConfig.ReconcileInterval),
	)

	if appConfig.RabbitMQURL == "" {
		zap.L().Fatal("RABBITMQ_URL is required for worker service")
	}

	pgRepository, err := postgres.NewPgRepository(appConfig.PostgresDSN())
	if err != nil {
		zap.L().Fatal("Failed to connect to postgres", zap.Error(err))
	}
	defer pgRepository.Close()

	groupHandler := consumers.NewGroupEventHandler(pgRepository, zap.L())

	// Queue name: {service}.{domain}.{event}.{version}
	groupDeletedKey := events.GroupDeletedEvent + "." + events.EventVersionV1
	groupConsumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, rabbitmq.ConsumerConfig{
		Exchange:      events.GroupExchange,
		QueueName:     appConfig.ServiceName + "." + groupDeletedKey,
		RoutingKeys:   []string{groupDeletedKey},
		ServiceName:   appConfig.ServiceName,
		PrefetchCount: 10,
	})
	if err != nil {
		zap.L().Fatal("Failed to create group consumer", zap.Error(err))
	}
	defer groupConsumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.L().Info("Starting group event consumer...")
		return groupConsumer.Consume(ctx, groupHandler.HandleEvent)
	})

	g.Go(func() error {
		return runReconciler(ctx, pgRepository, appConfig.ReconcileInterval)
	})

	g.Go(func() error {
		return monitorPool(ctx, pgRepository)
	})

	zap.L().Info("Worker service started successfully. Waiting for events...",
		zap.String("groupExchange", events.GroupExchange),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		zap.L().Error("Worker stopped with error", zap.Error(err))
		return
	}
	zap.L().Info("Worker service stopped gracefully")
}

type reconciler interface {
	ReconcileChildCounts(ctx context.Context) ([]int64, error)
}

// runReconciler repairs drifted reply counters on every tick. A failed pass is
// logged and retried on the next tick.
func runReconciler(ctx context.Context, r reconciler, interval time.Duration) error {
	if interval <= 0 {
		zap.L().Info("Reply counter reconciliation disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			repaired, err := r.ReconcileChildCounts(ctx)
			if err != nil {
				zap.L().Error("Reply counter reconciliation failed", zap.Error(err))
				continue
			}
			if len(repaired) > 0 {
				zap.L().Warn("Repaired drifted reply counters", zap.Int64s("commentIds", repaired))
			}
		}
	}
}

func monitorPool(ctx context.Context, repo *postgres.PgRepository) error {
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			stats := repo.GetPoolStats()
			zap.L().Info("Connection pool stats",
				zap.Int("max_open", stats["max_open_connections"].(int)),
				zap.Int("open", stats["open_connections"].(int)),
				zap.Int("in_use", stats["in_use"].(int)),
				zap.Int("idle", stats["idle"].(int)),
				zap.Int64("wait_count", stats["wait_count"].(int64)),
				zap.Int64("wait_duration_ms", stats["wait_duration_ms"].(int64)),
			)
		}
	}
}
