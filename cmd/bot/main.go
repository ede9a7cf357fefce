package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"confbot/internal/core/domain"
	"confbot/internal/core/services"
	httphandlers "confbot/internal/handlers/http"
	"confbot/internal/infrastructure/chat"
	"confbot/internal/infrastructure/middleware"
	"confbot/internal/infrastructure/monitoring"
	"confbot/internal/infrastructure/repositories"
	"confbot/pkg/config"
	"confbot/pkg/logger"
	"confbot/pkg/retry"
	"confbot/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	configPath := os.Getenv("CONFBOT_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()

	log := zapLogger.Sugar()

	tracerProvider, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		JaegerURL:   cfg.Tracing.JaegerURL,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Fatalw("failed to initialize tracing", "error", err)
	}

	repoFactory, err := repositories.NewFactory(cfg, log)
	if err != nil {
		log.Fatalw("failed to open the store", "error", err)
	}
	defer repoFactory.Close()

	userRepo := repoFactory.CreateUserRepository()
	groupRepo := repoFactory.CreateGroupRepository()
	membershipRepo := repoFactory.CreateMembershipRepository()
	conferenceRepo := repoFactory.CreateConferenceRepository()
	sessionStore := repoFactory.CreateSessionStore()

	collector := monitoring.NewPrometheusCollector(prometheus.DefaultRegisterer)

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.Store.RetryAttempts
	retryCfg.InitialDelay = cfg.Store.RetryInitialDelay
	// Services only retry busy rejections, so every scheduled retry is one.
	retryCfg.OnRetry = func(int, error) { collector.RecordStoreBusyRetry() }

	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	groupService := services.NewGroupService(groupRepo, membershipRepo, authService, retryCfg)
	conferenceService := services.NewConferenceService(conferenceRepo, domain.GroupID(cfg.Conference.DefaultGroupID), retryCfg)
	dialogService := services.NewDialogService(sessionStore, authService, conferenceService, log)
	routerService := services.NewRouterService(authService, groupService, dialogService, collector, log)

	authHandler := httphandlers.NewAuthHandler(authService, cfg.Auth.TokenTTL)
	messageHandler := httphandlers.NewMessageHandler(routerService)
	chatGateway := chat.NewWebSocketGateway(routerService, authService, log)

	healthChecker := monitoring.NewHealthChecker()
	healthChecker.AddProbe("store", 2*time.Second, repoFactory.HealthCheck)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.RecoveryMiddleware(log))
	engine.Use(middleware.ErrorHandlerMiddleware(log))
	if cfg.Tracing.Enabled {
		engine.Use(middleware.TracingMiddleware())
	}

	authHandler.SetupRoutes(engine)
	messageHandler.SetupRoutes(engine,
		middleware.AuthMiddleware(authService),
		middleware.NewRateLimitMiddleware(cfg),
	)

	engine.GET("/ws", gin.WrapF(chatGateway.HandleWebSocket))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"uptime":    time.Since(startTime).String(),
		})
	})

	engine.GET("/ready", func(c *gin.Context) {
		status := healthChecker.CheckAll(c.Request.Context())
		if status.Status != "healthy" {
			c.JSON(503, status)
			return
		}
		c.JSON(200, status)
	})

	if cfg.Monitoring.PrometheusEnabled {
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Info("Prometheus metrics enabled")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting confbot gateway on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("Server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("Received shutdown signal", "signal", sig)
	}

	log.Info("Shutting down confbot gateway...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error during server shutdown", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("Error force closing server", "error", closeErr)
		}
	} else {
		log.Info("Server shutdown gracefully")
	}

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error shutting down tracer", "error", err)
	}

	if err := repoFactory.Close(); err != nil {
		log.Errorw("Error closing the store", "error", err)
	}

	log.Info("confbot gateway stopped")
}
