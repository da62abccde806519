package server

import (
	"net/http"
	"time"

	ginhandler "social-network-service/internal/adapter/gin/handler"
	ginrouter "social-network-service/internal/adapter/gin/router"
	grpcmiddleware "social-network-service/internal/adapter/grpc/middleware"

	"go.uber.org/zap"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	socialHandler *ginhandler.SocialHandler,
	postHandler *ginhandler.PostHandler,
	rateLimiter *grpcmiddleware.RateLimiter,
	routerCfg ginrouter.Config,
	ginAddr string,
	l *zap.Logger,
) *http.Server {
	router := ginrouter.SetupRouter(socialHandler, postHandler, rateLimiter, routerCfg, l)

	l.Info("Gin REST API configured", zap.String("address", ginAddr))

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
