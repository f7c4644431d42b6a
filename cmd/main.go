package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"google.golang.org/grpc/health"

	grpchealth "github.com/dtroode/flower-server/internal/api/grpc/health"
	grpcrouter "github.com/dtroode/flower-server/internal/api/grpc/router"
	grpcserver "github.com/dtroode/flower-server/internal/api/grpc/server"
	httpctx "github.com/dtroode/flower-server/internal/api/http/context"
	httprouter "github.com/dtroode/flower-server/internal/api/http/router"
	httpserver "github.com/dtroode/flower-server/internal/api/http/server"
	"github.com/dtroode/flower-server/internal/config"
	"github.com/dtroode/flower-server/internal/logger"
	"github.com/dtroode/flower-server/internal/metrics"
	"github.com/dtroode/flower-server/internal/model"
	"github.com/dtroode/flower-server/internal/password"
	"github.com/dtroode/flower-server/internal/ratelimit"
	"github.com/dtroode/flower-server/internal/repository/document"
	"github.com/dtroode/flower-server/internal/repository/memory"
	"github.com/dtroode/flower-server/internal/repository/postgres"
	"github.com/dtroode/flower-server/internal/revocation"
	"github.com/dtroode/flower-server/internal/server"
	"github.com/dtroode/flower-server/internal/service"
	storage "github.com/dtroode/flower-server/internal/storage/minio"
	"github.com/dtroode/flower-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	store, closeStore, err := openDocumentStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize document store", "backend", cfg.Store.Backend, "error", err)
	}
	defer closeStore()

	var registry model.RevocationRegistry
	if cfg.Store.Revocation == config.RevocationMemory || cfg.Store.Backend == config.BackendMemory {
		registry = revocation.NewMemory()
	} else {
		registry = revocation.NewStore(store)
	}

	codec, err := token.New(cfg.Token.Codec, cfg.Token.Secret)
	if err != nil {
		logger.Fatal("failed to initialize token codec", "error", err)
	}

	userRepo := document.NewUserRepository(store)
	parametersRepo := document.NewParametersRepository(store)

	authService := service.NewAuth(userRepo, codec, registry, password.NewBcrypt(cfg.Password.Cost), logger)
	parametersService := service.NewParameters(parametersRepo, logger)

	limiter := ratelimit.New(ratelimit.WithMaxKeys(cfg.RateLimit.MaxKeys))
	go limiter.Run(ctx, cfg.RateLimit.SweepPeriod)
	rateLimitService := service.NewRateLimit(limiter, cfg.RateLimit.Limit, cfg.RateLimit.Interval, logger)

	m := metrics.New()

	app := httprouter.New(
		authService,
		parametersService,
		rateLimitService,
		m,
		httpctx.NewManager(),
		httprouter.Timeouts{
			Read:  cfg.HTTP.ReadTimeout,
			Write: cfg.HTTP.WriteTimeout,
			Idle:  cfg.HTTP.IdleTimeout,
		},
		logger,
	).Register()
	httpSrv := httpserver.NewHTTPServer(app, fmt.Sprintf(":%s", cfg.HTTP.Port))

	healthServer := health.NewServer()
	checker := grpchealth.NewChecker(store, healthServer, cfg.GRPC.HealthTimeout, logger)
	go checker.Run(ctx, cfg.GRPC.HealthInterval)

	grpcSrv := grpcserver.NewGRPCServer(
		grpcrouter.New(healthServer, cfg.GRPC.Reflection, logger).Register(),
		fmt.Sprintf(":%s", cfg.GRPC.Port),
	)

	httpSL, err := securityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	if err != nil {
		logger.Fatal("failed to configure http security layer", "error", err)
	}
	grpcSL, err := securityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	if err != nil {
		logger.Fatal("failed to configure grpc security layer", "error", err)
	}

	var wg sync.WaitGroup
	start := func(s model.Server, sl model.SecurityLayer) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}()
	}
	start(httpSrv, httpSL)
	start(grpcSrv, grpcSL)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	for _, s := range []model.Server{httpSrv, grpcSrv} {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func securityLayer(enableHTTPS bool, certFileName, privateKeyFileName string) (model.SecurityLayer, error) {
	if !enableHTTPS {
		return server.NewPlainListener(), nil
	}
	return server.NewSecurityLayer(certFileName, privateKeyFileName)
}

// openDocumentStore returns the configured backend and a function releasing it.
func openDocumentStore(ctx context.Context, cfg *config.Config) (model.DocumentStore, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return memory.NewDocumentStore(), func() {}, nil
	case config.BackendMinio:
		minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
			Secure: cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		client, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	default:
		conn, err := postgres.NewConnection(ctx, cfg.Database.DSN, postgres.PoolConfig{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewDocumentStore(conn.DB), func() { conn.Close() }, nil
	}
}
