// Package health reports document store reachability through the standard
// gRPC health service.
package health

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/flower-server/internal/logger"
)

// ServiceName is the health service name clients query for the HTTP API.
const ServiceName = "flower.v1.API"

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker pings the store and publishes the result for ServiceName and the
// overall server.
type Checker struct {
	pinger  Pinger
	server  *health.Server
	timeout time.Duration
	logger  *logger.Logger
}

func NewChecker(pinger Pinger, server *health.Server, timeout time.Duration, logger *logger.Logger) *Checker {
	return &Checker{pinger: pinger, server: server, timeout: timeout, logger: logger}
}

// Check pings once and updates the serving status.
func (c *Checker) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := c.pinger.Ping(pingCtx); err != nil {
		c.logger.Warn("Health checker: store unreachable",
			"error", err.Error())
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	c.server.SetServingStatus("", status)
	c.server.SetServingStatus(ServiceName, status)

	return status
}

// Run checks every period until ctx is done, then marks the server as
// shutting down.
func (c *Checker) Run(ctx context.Context, period time.Duration) {
	c.Check(ctx)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}
