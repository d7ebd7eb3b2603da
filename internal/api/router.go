package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/liliang-cn/askclinic/internal/api/admin"
	"github.com/liliang-cn/askclinic/internal/api/chat"
	"github.com/liliang-cn/askclinic/internal/api/middleware"
	"github.com/liliang-cn/askclinic/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	APIKey       string
	AllowOrigins []string
	RateLimit    *middleware.RateLimiter
}

// ReadinessFunc reports whether the RAG system can serve requests
type ReadinessFunc func(ctx context.Context) error

// SetupRouter sets up the Gin router
func SetupRouter(
	chatService chat.Service,
	adminService *service.AdminService,
	ready ReadinessFunc,
	logger *zap.Logger,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	SetupStaticRoutes(r)

	// Public chat API
	public := r.Group("")
	if cfg.RateLimit != nil {
		public.Use(cfg.RateLimit.Middleware())
	}
	chat.NewHandler(chatService).RegisterRoutes(public)

	// Admin API (requires API key)
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.Auth(cfg.APIKey))
	admin.NewHandler(adminService).RegisterRoutes(adminGroup)

	return r
}
