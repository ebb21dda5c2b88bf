package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/placement-dashboard/internal/config"
	"github.com/stemsi/placement-dashboard/internal/handler"
	"github.com/stemsi/placement-dashboard/internal/middleware"
	"github.com/stemsi/placement-dashboard/internal/response"
)

// baselineMaxAge is how long clients may cache the raw baseline table.
const baselineMaxAge = 300

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Region    *handler.RegionHandler
	Dashboard *handler.DashboardHandler
	View      *handler.ViewHandler
	WS        *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// The limiter guards every route that reaches the geography service.
func SetupRouter(handlers *Handlers, limiter *middleware.RateLimiter, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Regions (Rate Limited) ─────────────────────────────────────
	regions := router.Group("/api/v1/regions")
	regions.Use(limiter.Middleware())
	{
		regions.GET("/states", handlers.Region.ListStates)
		regions.GET("/cities", handlers.Region.ListCities)
	}

	// ─── 2. Dashboard (Stateless) ──────────────────────────────────────
	dashboard := router.Group("/api/v1/dashboard")
	{
		dashboard.GET("", handlers.Dashboard.GetDashboard)
		dashboard.GET("/baseline", middleware.CacheControl(baselineMaxAge), handlers.Dashboard.GetBaseline)
	}

	// ─── 3. Dashboard Views ────────────────────────────────────────────
	views := dashboard.Group("/views")
	views.Use(middleware.NoStore())
	{
		views.POST("", limiter.Middleware(), handlers.View.CreateView)
		views.GET("/:id", handlers.View.GetView)
		views.PUT("/:id/state", limiter.Middleware(), handlers.View.SelectState)
		views.PUT("/:id/city", handlers.View.SelectCity)
		views.DELETE("/:id/filters", handlers.View.ClearFilters)
		views.DELETE("/:id", handlers.View.CloseView)
	}

	// ─── 4. WebSocket ──────────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/dashboard/views/:id/stream", handlers.WS.ViewStream)
	}

	return router
}
