package server

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/flower-server/internal/model"
)

// HTTPServer serves a fiber application on a configured address.
type HTTPServer struct {
	app  *fiber.App
	addr string
}

func NewHTTPServer(app *fiber.App, addr string) *HTTPServer {
	return &HTTPServer{app: app, addr: addr}
}

// Start listens through securityLayer and serves until Stop is called.
func (s *HTTPServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.app.Listener(listener)
}

// Stop waits for in-flight requests until ctx is done.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *HTTPServer) Address() string {
	return s.addr
}
