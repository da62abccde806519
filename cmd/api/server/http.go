package server

import (
	"fmt"
	"net/http"
	"time"

	"social-network-service/api"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const swaggerPath = "/swagger/social.swagger.json"

// SetupHTTPGateway creates the HTTP gateway server. /healthz is answered by the
// gRPC health service at grpcAddr; /swagger/ serves the REST API document.
// The returned connection must be closed on shutdown.
func SetupHTTPGateway(grpcAddr string, httpAddr string, l *zap.Logger) (*http.Server, *grpc.ClientConn, error) {
	conn, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create gRPC client: %w", err)
	}

	mux := runtime.NewServeMux(
		runtime.WithHealthzEndpoint(healthpb.NewHealthClient(conn)),
	)

	httpMux := http.NewServeMux()

	httpMux.HandleFunc(swaggerPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(api.SwaggerJSON)
	})
	httpMux.HandleFunc("/swagger/", httpSwagger.Handler(
		httpSwagger.URL(swaggerPath),
	))

	// Everything else goes to the gateway mux
	httpMux.Handle("/", mux)

	l.Info("REST gateway configured", zap.String("address", httpAddr))
	l.Info("Swagger UI available at", zap.String("url", "http://localhost"+httpAddr+"/swagger/"))

	return &http.Server{
		Addr:              httpAddr,
		Handler:           httpMux,
		ReadHeaderTimeout: 2 * time.Second,
	}, conn, nil
}
