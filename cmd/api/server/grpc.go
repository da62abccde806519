package server

import (
	grpcadapter "social-network-service/internal/adapter/grpc"
	"social-network-service/internal/adapter/grpc/middleware"
	"social-network-service/pkg/logger"

	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// SetupGRPC creates and configures the gRPC server
func SetupGRPC(health *grpcadapter.HealthService, l *zap.Logger, rateLimiter *middleware.RateLimiter) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			rateLimiter.UnaryInterceptor(),
		),
	)
	health.Register(grpcServer)

	l.Info("gRPC server configured", zap.Strings("services", serviceNames(grpcServer)))

	return grpcServer
}

func serviceNames(s *grpc.Server) []string {
	info := s.GetServiceInfo()
	names := make([]string, 0, len(info))
	for name := range info {
		names = append(names, name)
	}
	return names
}
