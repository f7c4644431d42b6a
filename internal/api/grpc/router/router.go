package router

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/dtroode/flower-server/internal/api/grpc/middleware"
	"github.com/dtroode/flower-server/internal/logger"
)

// Router builds the gRPC server that exposes the health service.
type Router struct {
	healthServer *health.Server
	reflection   bool
	logger       *logger.Logger
}

func New(healthServer *health.Server, enableReflection bool, logger *logger.Logger) *Router {
	return &Router{
		healthServer: healthServer,
		reflection:   enableReflection,
		logger:       logger,
	}
}

// Register returns a server with logging and panic recovery interceptors and
// the health service registered.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	recoveryOpt := recovery.WithRecoveryHandlerContext(r.recover)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recoveryOpt),
		),
		grpc.ChainStreamInterceptor(
			logging.HandleGRPCStream,
			recovery.StreamServerInterceptor(recoveryOpt),
		),
	)

	healthpb.RegisterHealthServer(s, r.healthServer)
	if r.reflection {
		reflection.Register(s)
	}

	return s
}

func (r *Router) recover(_ context.Context, p any) error {
	r.logger.Error("gRPC handler panicked",
		"panic", fmt.Sprint(p))
	return status.Error(codes.Internal, "internal server error")
}
