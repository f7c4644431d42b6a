package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dtroode/flower-server/internal/api/http/handler"
	"github.com/dtroode/flower-server/internal/api/http/middleware"
	"github.com/dtroode/flower-server/internal/logger"
	"github.com/dtroode/flower-server/internal/metrics"
	"github.com/dtroode/flower-server/internal/model"
	"github.com/dtroode/flower-server/internal/service"
)

// RateLimitKeyParam is the query parameter that keys the limited route.
const RateLimitKeyParam = "user_id"

// Timeouts bound connection reads, writes and keep-alive idling.
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

// Router builds the fiber application with every route and middleware.
type Router struct {
	authService       *service.Auth
	parametersService *service.Parameters
	rateLimit         *service.RateLimit
	metrics           *metrics.Metrics
	contextManager    model.ContextManager
	timeouts          Timeouts
	logger            *logger.Logger
}

func New(
	authService *service.Auth,
	parametersService *service.Parameters,
	rateLimit *service.RateLimit,
	metrics *metrics.Metrics,
	contextManager model.ContextManager,
	timeouts Timeouts,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:       authService,
		parametersService: parametersService,
		rateLimit:         rateLimit,
		metrics:           metrics,
		contextManager:    contextManager,
		timeouts:          timeouts,
		logger:            logger,
	}
}

// Register returns the configured application.
func (r *Router) Register() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "flower-server",
		ErrorHandler:          handler.ErrorHandler(r.logger),
		DisableStartupMessage: true,
		ReadTimeout:           r.timeouts.Read,
		WriteTimeout:          r.timeouts.Write,
		IdleTimeout:           r.timeouts.Idle,
	})

	app.Use(
		middleware.NewLogging(r.logger).HandleHTTP,
		middleware.NewMetrics(r.metrics).HandleHTTP,
		recover.New(),
	)

	app.Get("/metrics", adaptor.HTTPHandler(r.metrics.Handler()))

	v1 := app.Group("/v1")
	r.registerAuthRoutes(v1)
	r.registerParametersRoutes(v1)
	r.registerLimitedRoutes(v1)

	return app
}

func (r *Router) authenticate() *middleware.Authenticate {
	return middleware.NewAuthenticate(r.authService, r.contextManager, r.metrics, r.logger)
}

func (r *Router) registerAuthRoutes(group fiber.Router) {
	authenticate := r.authenticate()
	authHandler := handler.NewAuth(r.authService, r.contextManager, r.metrics, r.logger)

	group.Post("/register", authHandler.Register)
	group.Post("/login", authHandler.Login)
	// not behind authenticate: a revoked token must reach the handler
	group.Post("/logout", authHandler.Logout)
	group.Get("/users", authenticate.Role(model.RoleAdmin), authHandler.Users)
	group.Get("/me", authenticate.Any(), authHandler.Me)
}

func (r *Router) registerParametersRoutes(group fiber.Router) {
	authenticate := r.authenticate()
	parametersHandler := handler.NewParameters(r.parametersService, r.logger)

	group.Post("/parameters", authenticate.Role(model.RoleAdmin), parametersHandler.Create)
	group.Get("/parameters", authenticate.Any(), parametersHandler.Get)
	group.Put("/parameters", authenticate.Role(model.RoleAdmin), parametersHandler.Update)
}

func (r *Router) registerLimitedRoutes(group fiber.Router) {
	rateLimit := middleware.NewRateLimit(r.rateLimit, r.metrics, middleware.QueryKey(RateLimitKeyParam), r.logger)

	group.Get("/limited", rateLimit.Handle, handler.Limited)
}
