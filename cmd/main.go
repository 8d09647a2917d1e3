package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/agent"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/extraction"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/handler"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/middleware"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/notify"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/onboarding"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/session"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/store"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/upload"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/cache"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/config"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/database"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/jwtutil"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()
	log.Info("Starting marketplace service...", cfg.LogConfig()...)

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(&cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connection established")
	st := store.New(db)

	jwt := jwtutil.NewJWTUtil(&cfg.JWT)

	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Redis is optional; without it wizard sessions and usage counters live in process
	rdb, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	var (
		sessions onboarding.SessionStore = onboarding.NewMemoryStore(onboarding.DefaultSessionTTL)
		limiter  agent.UsageLimiter      = agent.NewMemoryLimiter(cfg.Agent.DailyLimit)
	)
	if rdb != nil {
		defer rdb.Close()
		sessions = onboarding.NewRedisStore(rdb, onboarding.DefaultSessionTTL)
		limiter = agent.NewRedisLimiter(rdb, cfg.Agent.DailyLimit)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))
	} else {
		log.Warn("REDIS_ADDR not set, using in-process session store")
	}

	caller, err := extraction.NewAnthropicCaller(cfg.LLM)
	if err != nil {
		log.Fatal("Failed to initialize LLM client", zap.Error(err))
	}
	extractor := extraction.NewService(caller, cfg.LLM.Timeout)

	var backend upload.Backend
	if cfg.Storage.Bucket != "" {
		s3Backend, err := upload.NewS3Backend(ctx, cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		backend = s3Backend
		log.Info("Object storage initialized", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		backend = upload.NewMemoryBackend("/files")
		log.Warn("S3_BUCKET not set, uploads are kept in memory")
	}

	notifier := notify.NewNotifier(cfg.Notify.RelayURL, cfg.Notify.To)
	if !notifier.Enabled() {
		log.Warn("EMAIL_RELAY_URL not set, interest notifications are disabled")
	}

	h := &handler.Handler{
		ServiceName: cfg.ServiceName,
		Store:       st,
		JWT:         jwt,
		Wizard:      onboarding.NewWizard(sessions, extractor, 2*cfg.LLM.Timeout),
		Agent:       agent.NewService(extractor, st, limiter),
		Uploads:     upload.NewService(backend),
		Notifier:    notifier,
	}

	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit("12M"))
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	h.Mount(e, middleware.Authenticate(jwt, st, session.DefaultLoadTimeout))

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	notifier.Wait()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
