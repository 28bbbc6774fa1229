package httpapi

import (
	"time"

	"growpreen/pkg/config"
	"growpreen/pkg/health"
	"growpreen/pkg/metrics"
	"growpreen/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("httpapi",
	fx.Provide(NewRouter),
	fx.Invoke(registerOpsEndpoints),
)

// Router exposes the route groups handlers attach to.
type Router struct {
	// Public is /api without identity.
	Public *gin.RouterGroup
	// User is /api behind the gateway-provided user id.
	User *gin.RouterGroup
	// Admin is /api/admin behind the admin key.
	Admin *gin.RouterGroup
	// Limited wraps write-heavy user routes with a per-user token bucket.
	Limited gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg *config.Config) *Router {
	return &Router{
		Public:  engine.Group("/api"),
		User:    engine.Group("/api", middleware.RequireUser()),
		Admin:   engine.Group("/api/admin", middleware.RequireAdmin(cfg.Admin.Key)),
		Limited: middleware.NewRateLimiter(2*time.Second, 5).Handler(),
	}
}

func registerOpsEndpoints(engine *gin.Engine, h health.HealthService) {
	engine.GET("/healthz", h.Liveness)
	engine.GET("/readyz", h.Readiness)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))
}
