package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"social-network-service/cmd/api/di"
	ginrouter "social-network-service/internal/adapter/gin/router"
	"social-network-service/internal/config"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

// Server holds the gRPC server, the HTTP gateway and the Gin REST API
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	GRPC   *grpc.Server
	HTTP   *http.Server
	Gin    *http.Server

	gatewayConn *grpc.ClientConn
}

// New creates a new server instance from the wired container
func New(cfg *config.Config, l *zap.Logger, c *di.Container) (*Server, error) {
	s := &Server{
		Config: cfg,
		Logger: l,
		GRPC:   SetupGRPC(c.Health, l, c.RateLimiter),
	}

	httpServer, conn, err := SetupHTTPGateway(s.grpcDialAddress(), s.httpAddress(), l)
	if err != nil {
		return nil, err
	}
	s.HTTP = httpServer
	s.gatewayConn = conn

	s.Gin = SetupGinServer(c.SocialHandler, c.PostHandler, c.RateLimiter, ginrouter.Config{
		JWTSecret:      []byte(cfg.Auth.JWTSecret),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, s.ginAddress(), l)

	return s, nil
}

// Start serves gRPC, the HTTP gateway and Gin until one of them fails.
// Listeners are opened before serving so port conflicts surface immediately.
func (s *Server) Start() error {
	lc := net.ListenConfig{}
	ctx := context.Background()

	grpcLis, err := lc.Listen(ctx, "tcp", s.grpcAddress())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.grpcAddress(), err)
	}
	httpLis, err := lc.Listen(ctx, "tcp", s.httpAddress())
	if err != nil {
		_ = grpcLis.Close()
		return fmt.Errorf("failed to listen on %s: %w", s.httpAddress(), err)
	}
	ginLis, err := lc.Listen(ctx, "tcp", s.ginAddress())
	if err != nil {
		_ = grpcLis.Close()
		_ = httpLis.Close()
		return fmt.Errorf("failed to listen on %s: %w", s.ginAddress(), err)
	}

	var g errgroup.Group

	// One server failing takes the others down so Start returns
	g.Go(func() error {
		s.Logger.Info("gRPC server running", zap.String("address", s.grpcAddress()))
		if err := s.GRPC.Serve(grpcLis); err != nil {
			s.stopAll()
			return fmt.Errorf("gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.Logger.Info("REST gateway running", zap.String("address", s.httpAddress()))
		return s.serveHTTP(s.HTTP, httpLis, "HTTP gateway")
	})

	g.Go(func() error {
		s.Logger.Info("Gin REST API running", zap.String("address", s.ginAddress()))
		return s.serveHTTP(s.Gin, ginLis, "Gin server")
	})

	return g.Wait()
}

func (s *Server) stopAll() {
	s.GRPC.Stop()
	_ = s.HTTP.Close()
	_ = s.Gin.Close()
}

// Close releases the gateway's connection to the gRPC server
func (s *Server) Close() error {
	if s.gatewayConn == nil {
		return nil
	}
	return s.gatewayConn.Close()
}

func (s *Server) serveHTTP(srv *http.Server, lis net.Listener, name string) error {
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.stopAll()
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// grpcAddress returns the gRPC server address
func (s *Server) grpcAddress() string {
	return ":" + s.Config.App.GRPCPort
}

// grpcDialAddress is where the gateway reaches the gRPC server
func (s *Server) grpcDialAddress() string {
	return "localhost:" + s.Config.App.GRPCPort
}

// httpAddress returns the HTTP gateway address
func (s *Server) httpAddress() string {
	return ":" + s.Config.App.HTTPPort
}

// ginAddress returns the Gin REST API address
func (s *Server) ginAddress() string {
	return ":" + s.Config.App.GinPort
}
