package handlers

import (
	"net/http"
	"time"

	"github.com/shiv060600/Tuttle-Tools/internal/metrics"
	"github.com/shiv060600/Tuttle-Tools/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) SetupRouter(loginLimiter *services.IPRateLimiter, store sessions.Store) *gin.Engine {
	r := gin.Default()

	// Middleware
	r.Use(metrics.GinMiddleware())
	r.Use(h.CORSMiddleware())
	r.Use(sessions.Sessions(sessionCookie, store))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/health", h.Health)

	auth := api.Group("/auth")
	{
		login := []gin.HandlerFunc{h.Login}
		if loginLimiter != nil {
			login = append([]gin.HandlerFunc{h.RateLimitMiddleware(loginLimiter)}, login...)
		}
		auth.POST("/login", login...)
		auth.POST("/logout", h.Logout)
		auth.GET("/check", h.CheckAuth)
	}

	mappings := api.Group("/mappings")
	{
		mappings.GET("/:type", h.ListMappings)
		mappings.POST("/:type", h.CreateMapping)
		mappings.PUT("/:type/:rowNum", h.UpdateMapping)
		mappings.DELETE("/:type/:rowNum", h.DeleteMapping)
	}

	logging := api.Group("/logging")
	{
		logging.GET("/:type", h.ListLogs)
		logging.POST("/:type", h.AppendLog)
		logging.DELETE("/:type/:days", h.PurgeLogs)
		logging.DELETE("/:type/id/:logId", h.PurgeLog)
	}

	api.GET("/books/:isbn", h.GetBook)
	api.GET("/backorders/:isbn", h.GetBackorder)
	api.GET("/reports/:reportType", h.GetReport)

	return r
}

// Health reports the store as reachable or not. It never fails the request.
func (h *Handler) Health(c *gin.Context) {
	status := "healthy"
	if err := h.gw.Ping(c.Request.Context()); err != nil {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "timestamp": h.now().UTC().Format(time.RFC3339)})
}
