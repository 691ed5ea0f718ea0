package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/dafibh/underwriter/underwriter-backend/docs"
	"github.com/dafibh/underwriter/underwriter-backend/internal/config"
	"github.com/dafibh/underwriter/underwriter-backend/internal/handler"
	"github.com/dafibh/underwriter/underwriter-backend/internal/messaging"
	"github.com/dafibh/underwriter/underwriter-backend/internal/metrics"
	"github.com/dafibh/underwriter/underwriter-backend/internal/middleware"
	"github.com/dafibh/underwriter/underwriter-backend/internal/repository/cache"
	"github.com/dafibh/underwriter/underwriter-backend/internal/repository/postgres"
	"github.com/dafibh/underwriter/underwriter-backend/internal/repository/storage"
	"github.com/dafibh/underwriter/underwriter-backend/internal/service"
	"github.com/dafibh/underwriter/underwriter-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// @title Underwriter API
// @version 1.0
// @description DSCR loan underwriting: payments, coverage, LTV and blanket loan allocation.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Auth0 access token, prefixed with "Bearer "
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.PolicyFile).Msg("Failed to load underwriting policy")
	}

	// Run migrations before the pool is opened
	if cfg.MigrateOnBoot {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		log.Info().Msg("Database migrations applied")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	m := metrics.New()

	// Analysis cache: Redis when configured, otherwise in-process
	var analysisCache cache.AnalysisCache = cache.NewMemoryCache()
	var redisCache *cache.RedisCache
	if cfg.RedisAddr != "" {
		redisCache, err = cache.NewRedisCache(context.Background(), cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, using in-process analysis cache")
		} else {
			analysisCache = redisCache
			log.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
		}
	}

	// Object storage is optional; reports and photos are disabled without it
	var objectStore storage.ObjectStore
	if cfg.S3.Bucket != "" {
		s3Store, err := storage.NewS3ObjectStore(context.Background(), cfg.S3)
		if err != nil {
			log.Warn().Err(err).Str("bucket", cfg.S3.Bucket).Msg("S3 storage unavailable, reports and photos disabled")
		} else {
			objectStore = s3Store
			log.Info().Str("bucket", cfg.S3.Bucket).Msg("S3 storage configured")
		}
	}

	// Event delivery: websocket sessions, plus Kafka when brokers are set
	hub := websocket.NewHub(
		websocket.WithLogger(log.Logger),
		websocket.WithClientCountObserver(m.SetWebsocketClients),
	)
	var publisher websocket.EventPublisher = hub
	var bridge *messaging.EventBridge
	if len(cfg.KafkaBrokers) > 0 {
		bridge = messaging.NewEventBridge(messaging.NewProducer(cfg.KafkaBrokers), cfg.KafkaTopic, m, log.Logger)
		publisher = websocket.NewFanout(hub, bridge)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("Publishing deal events to Kafka")
	}

	// Initialize repositories
	workspaceRepo := postgres.NewWorkspaceRepository(pool)
	dealRepo := postgres.NewDealRepository(pool)

	// Initialize services
	authService := service.NewAuthService(workspaceRepo)
	underwritingService := service.NewUnderwritingService(policy, m)
	dealService := service.NewDealService(dealRepo, underwritingService, analysisCache, cfg.AnalysisCacheTTL, m)
	dealService.SetEventPublisher(publisher)
	reportService := service.NewReportService(objectStore, dealRepo)
	reportService.SetEventPublisher(publisher)
	imageService := service.NewImageService(objectStore, dealRepo)
	imageService.SetEventPublisher(publisher)

	purgeWorker := service.NewPurgeWorker(dealRepo, m, log.Logger, service.PurgeWorkerConfig{
		Interval:  cfg.PurgeInterval,
		Retention: cfg.DealRetention,
	})
	purgeWorker.SetEventPublisher(publisher)
	purgeWorker.Start(context.Background())

	// Create workspace provider adapter for auth middleware
	workspaceProvider := &workspaceProviderAdapter{authService: authService}

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, workspaceProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, 0)

	// Initialize handlers
	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Calculation: handler.NewCalculationHandler(underwritingService),
		Deal:        handler.NewDealHandler(dealService),
		Report:      handler.NewReportHandler(reportService),
		Image:       handler.NewImageHandler(imageService, dealService),
	}
	wsHandler := handler.NewWebSocketHandler(
		hub,
		websocket.NewTokenWorkspaceResolver(authMiddleware.Verifier(), workspaceProvider),
		cfg.CORSOrigins,
	)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	e.Use(middleware.RequestMetrics(m))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	e.GET("/ws", wsHandler.HandleWS)
	if !cfg.IsProduction() {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	purgeWorker.Stop()
	hub.CloseAll()
	rateLimiter.Stop()
	if bridge != nil {
		if err := bridge.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka producer")
		}
	}
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Redis client")
		}
	}

	log.Info().Msg("Server exited")
}

// workspaceProviderAdapter adapts AuthService to middleware.WorkspaceProvider
// and websocket.WorkspaceLookup
type workspaceProviderAdapter struct {
	authService *service.AuthService
}

// GetWorkspaceByAuth0ID implements middleware.WorkspaceProvider
func (a *workspaceProviderAdapter) GetWorkspaceByAuth0ID(auth0ID string) (int32, error) {
	workspace, err := a.authService.GetWorkspaceByAuth0ID(auth0ID)
	if err != nil {
		return 0, err
	}
	return workspace.ID, nil
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Int32("workspace_id", middleware.GetWorkspaceID(c)).
				Msg("request")

			return nil
		}
	}
}
