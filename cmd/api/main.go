package main

import (
	"context"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	sentry "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tasafe/tasafe-api/internal/auth"
	"github.com/tasafe/tasafe-api/internal/notifications"
	"github.com/tasafe/tasafe-api/internal/requests"
	"github.com/tasafe/tasafe-api/internal/rides"
	"github.com/tasafe/tasafe-api/internal/users"
	"github.com/tasafe/tasafe-api/pkg/common"
	"github.com/tasafe/tasafe-api/pkg/config"
	"github.com/tasafe/tasafe-api/pkg/database"
	"github.com/tasafe/tasafe-api/pkg/eventbus"
	"github.com/tasafe/tasafe-api/pkg/logger"
	"github.com/tasafe/tasafe-api/pkg/middleware"
	"github.com/tasafe/tasafe-api/pkg/ratelimit"
	"github.com/tasafe/tasafe-api/pkg/redis"
	"github.com/tasafe/tasafe-api/pkg/tracing"
	"github.com/tasafe/tasafe-api/pkg/validation"
)

const (
	serviceName = "tasafe-api"
	version     = "1.0.0"
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Server.Environment,
			Release:     serviceName + "@" + version,
		}); err != nil {
			logger.Fatal("failed to initialize sentry", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing, err := tracing.Init(&cfg.Tracing, serviceName, cfg.Server.Environment)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}

	if err := database.Migrate(&cfg.Database); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}

	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)
	logger.Info("connected to postgres", zap.String("database", cfg.Database.DBName))

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		limiter = ratelimit.NewLimiter(redisClient.Client, cfg.RateLimit)
		logger.Info("rate limiting enabled", zap.String("redis", cfg.Redis.RedisAddr()))
	}

	var bus *eventbus.Bus
	if cfg.NATS.Enabled {
		bus, err = eventbus.Connect(cfg.NATS.URL)
		if err != nil {
			logger.Fatal("failed to connect to nats", zap.Error(err))
		}
		defer bus.Close()
		logger.Info("connected to nats", zap.String("url", cfg.NATS.URL))
	}

	// Repositories
	authRepo := auth.NewRepository(pool)
	userRepo := users.NewRepository(pool)
	rideRepo := rides.NewRepository(pool)
	requestRepo := requests.NewRepository(pool)
	notificationRepo := notifications.NewRepository(pool)

	// Services
	notificationService := notifications.NewService(notificationRepo, bus)
	authService := auth.NewService(authRepo, cfg.JWT.Secret, time.Duration(cfg.JWT.Expiration)*time.Hour, cfg.App.AllowedEmailDomain)
	userService := users.NewService(userRepo)
	rideService := rides.NewService(rideRepo)
	requestService := requests.NewService(requestRepo, notificationService)

	// Handlers
	authHandler := auth.NewHandler(authService)
	userHandler := users.NewHandler(userService)
	rideHandler := rides.NewHandler(rideService)
	requestHandler := requests.NewHandler(requestService)
	notificationHandler := notifications.NewHandler(notificationService)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterCustomValidators(v)
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(serviceName))
	router.Use(middleware.SecurityHeaders())
	router.Use(corsMiddleware(cfg.Server.CORSOrigins))
	router.Use(timeoutMiddleware(cfg.Server.RequestTimeout))

	if cfg.Sentry.Enabled {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if limiter != nil {
		router.Use(ratelimit.Middleware(limiter, cfg.JWT.Secret))
	}

	router.GET("/healthz", common.HealthCheck(serviceName, version, map[string]common.Check{
		"postgres": pool.Ping,
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler.RegisterRoutes(router)
	userHandler.RegisterRoutes(router, cfg.JWT.Secret)
	rideHandler.RegisterRoutes(router, cfg.JWT.Secret)
	requestHandler.RegisterRoutes(router, cfg.JWT.Secret)
	notificationHandler.RegisterRoutes(router, cfg.JWT.Secret)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("failed to flush traces", zap.Error(err))
	}

	logger.Info("server stopped")
}

func corsMiddleware(origins string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(origins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	return cors.New(corsConfig)
}

func timeoutMiddleware(seconds int) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(time.Duration(seconds)*time.Second),
		timeout.WithHandler(func(c *gin.Context) { c.Next() }),
		timeout.WithResponse(func(c *gin.Context) {
			common.ErrorResponse(c, http.StatusRequestTimeout, "request timed out")
		}),
	)
}
