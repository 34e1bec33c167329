package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"workforce/internal/auth"
	"workforce/internal/authz"
	"workforce/internal/cache"
	"workforce/internal/config"
	"workforce/internal/db"
	"workforce/internal/events"
	"workforce/internal/handler"
	"workforce/internal/logging"
	"workforce/internal/metrics"
	"workforce/internal/repository"
	"workforce/internal/router"
	"workforce/internal/service"
)

// @title Workforce API
// @version 1.0
// @description Multi-tenant HR backend: companies, departments and employees moving through a hiring pipeline.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DSN(), logger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(gormDB) }()

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		db.Reset(gormDB, logger)
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, logger)
	defer func() { _ = cacheClient.Close() }()
	if !cacheClient.Enabled() {
		logger.Warn("redis disabled; refresh tokens and logout will not work")
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	defer publisher.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	policy, err := authz.NewPolicy(authz.DefaultPolicies, logger)
	if err != nil {
		return err
	}

	// Initialize repositories
	store := repository.NewStore(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	stats := service.NewStatisticsService(store, policy)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, cacheClient)
	companyService := service.NewCompanyService(store, policy, stats, publisher, m, logger)
	departmentService := service.NewDepartmentService(store, policy, stats, logger)
	employeeService := service.NewEmployeeService(store, policy, publisher, m, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, router.Options{
		Logger:     logger,
		JWT:        jwtService,
		TokenStore: tokenStore,
		Metrics:    m,
		Gatherer:   reg,
	}, router.Handlers{
		Auth:       handler.NewAuthHandler(authService, logger),
		User:       handler.NewUserHandler(userService, logger),
		Company:    handler.NewCompanyHandler(companyService, logger),
		Department: handler.NewDepartmentHandler(departmentService, logger),
		Employee:   handler.NewEmployeeHandler(employeeService, logger),
	})

	logger.Info("swagger documentation available", zap.String("url", swaggerURL(cfg)))

	addr := ":" + cfg.ServerPort
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", addr), zap.String("db_driver", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
