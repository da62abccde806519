package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// checkTimeout bounds each dependency ping during a health check.
const checkTimeout = 2 * time.Second

// Pinger is a dependency whose reachability decides the serving status.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping implements Pinger.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthService serves grpc.health.v1.Health. Every Check pings the registered
// dependencies first, so the reported status is never stale.
// Each dependency is also exposed as its own service name.
type HealthService struct {
	*health.Server
	checks map[string]Pinger
	log    *zap.Logger
}

// NewHealthService creates a health service over the named dependencies.
func NewHealthService(checks map[string]Pinger, log *zap.Logger) *HealthService {
	return &HealthService{
		Server: health.NewServer(),
		checks: checks,
		log:    log,
	}
}

// Register attaches the service to a gRPC server.
func (h *HealthService) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h)
}

// Check refreshes dependency status, then answers from the underlying server.
func (h *HealthService) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	h.Refresh(ctx)
	return h.Server.Check(ctx, req)
}

// Refresh pings every dependency and records the result.
// The overall ("") status is SERVING only when all of them answer.
func (h *HealthService) Refresh(ctx context.Context) bool {
	healthy := true

	for name, check := range h.checks {
		pingCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := check.Ping(pingCtx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			healthy = false
			status = healthpb.HealthCheckResponse_NOT_SERVING
			h.log.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
		}
		h.SetServingStatus(name, status)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.SetServingStatus("", overall)

	return healthy
}
