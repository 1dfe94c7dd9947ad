package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/andrew-zhouu/unjargon-ai/internal/config"
	"github.com/andrew-zhouu/unjargon-ai/internal/middleware"
	"github.com/andrew-zhouu/unjargon-ai/internal/pkg/ratelimit"
	"github.com/andrew-zhouu/unjargon-ai/internal/pkg/upstream"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	logger *zap.Logger
}

// New initializes the application: config → limiters → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			return originAllowed(patterns, origin)
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	router.Use(cors.New(corsConfig))
	router.Use(middleware.Maintenance(cfg.Maintenance.Enabled, cfg.Maintenance.Message))

	window := time.Duration(cfg.RateLimit.WindowSec) * time.Second
	burstLimiter, steadyLimiter := newLimiters(cfg, window, logger)

	modelClient := upstream.New(upstream.Config{
		APIKey:    cfg.OpenAI.APIKey,
		Endpoint:  cfg.OpenAI.Endpoint,
		Model:     cfg.OpenAI.Model,
		MaxTokens: cfg.OpenAI.MaxTokens,
	})

	app := &App{cfg: cfg, router: router, logger: logger}
	app.registerRoutes(modelClient, burstLimiter, steadyLimiter)

	return app, nil
}

// newLimiters builds the coarse and steady limiters, preferring Redis so the
// window survives restarts and is shared across replicas. A Redis failure
// falls back to in-process limiting rather than blocking startup.
func newLimiters(cfg *config.AppConfig, window time.Duration, logger *zap.Logger) (ratelimit.Limiter, ratelimit.Limiter) {
	if cfg.Redis.URL != "" {
		burst, err := ratelimit.NewRedisLimiter(cfg.Redis.URL, cfg.RateLimit.Burst, window)
		if err == nil {
			steady, serr := ratelimit.NewRedisLimiter(cfg.Redis.URL, cfg.RateLimit.Steady, window)
			if serr == nil {
				return burst, steady
			}
			err = serr
		}
		logger.Warn("redis limiter unavailable, using in-memory limiter", zap.Error(err))
	}
	return ratelimit.NewMemoryLimiter(cfg.RateLimit.Burst, window),
		ratelimit.NewMemoryLimiter(cfg.RateLimit.Steady, window)
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }
