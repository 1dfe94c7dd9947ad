package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrew-zhouu/unjargon-ai/internal/middleware"
	"github.com/andrew-zhouu/unjargon-ai/internal/modules/simplify"
	"github.com/andrew-zhouu/unjargon-ai/internal/modules/upload"
	"github.com/andrew-zhouu/unjargon-ai/internal/pkg/ratelimit"
	"github.com/andrew-zhouu/unjargon-ai/internal/pkg/response"
	"github.com/andrew-zhouu/unjargon-ai/internal/pkg/upstream"
)

func (a *App) registerRoutes(modelClient *upstream.Client, burstLimiter, steadyLimiter ratelimit.Limiter) {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	r.NoMethod(response.MethodNotAllowed)

	appInfo := gin.H{
		"name":     "unjargon-ai",
		"version":  "1.0.0",
		"homepage": "https://github.com/andrew-zhouu/unjargon-ai",
	}
	r.GET("/", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// The whole API sits behind the coarse per-IP limiter; the simplify
	// routes add the tighter quota limiter that reports X-RateLimit headers.
	api := r.Group("/api")
	api.Use(middleware.RateLimit(burstLimiter, "burst", false, a.logger))

	simplifySvc := simplify.NewService(modelClient, a.logger)
	simplify.NewHandler(simplifySvc, a.logger).RegisterRoutes(api,
		middleware.RateLimit(steadyLimiter, "steady", true, a.logger))

	uploadSvc := upload.NewService(a.cfg.S3)
	upload.NewHandler(uploadSvc, a.logger).RegisterRoutes(api)
}
