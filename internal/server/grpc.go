package server

import (
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewGRPCServer builds a server with the contact service, the logging
// interceptor and the standard health service already registered.
func NewGRPCServer(svc ContactServiceServer, maxRecvBytes int, logger *slog.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = slog.Default()
	}
	base := []grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryLoggingInterceptor(logger))}
	if maxRecvBytes > 0 {
		// leave room for framing around the largest accepted upload
		base = append(base, grpc.MaxRecvMsgSize(maxRecvBytes+64<<10))
	}
	s := grpc.NewServer(append(base, opts...)...)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	RegisterContactServiceServer(s, svc)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ContactServiceName, healthpb.HealthCheckResponse_SERVING)
	return s, hs
}
