package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/hanghae99-6-d/backend/pkg/config"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// Pinger reports whether the comment store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	server   *grpc.Server
	health   *health.Server
	listener net.Listener
}

func (s *Server) GetGRPCServer() grpc.ServiceRegistrar {
	return s.server
}

func NewServer(cfg *config.AppConfig) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}
	return newServer(lis), nil
}

func newServer(lis net.Listener) *Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			loggingInterceptor,
			recoveryInterceptor,
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		server:   grpcServer,
		health:   healthServer,
		listener: lis,
	}
}

// MonitorHealth flips the serving status with the result of pinger until ctx
// is done.
func (s *Server) MonitorHealth(ctx context.Context, pinger Pinger, interval time.Duration) {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()

		status := grpc_health_v1.HealthCheckResponse_SERVING
		if err := pinger.Ping(pingCtx); err != nil {
			zap.L().Warn("Comment store unreachable", zap.Error(err))
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
		s.health.SetServingStatus("", status)
		s.health.SetServingStatus(CommentServiceName, status)
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

func (s *Server) Start() error {
	zap.L().Info("gRPC server started successfully",
		zap.String("address", s.listener.Addr().String()))
	return s.server.Serve(s.listener)
}

func (s *Server) GetListener() net.Listener {
	return s.listener
}

// GracefulStop drains in-flight calls. Serve closes the listener on return.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
