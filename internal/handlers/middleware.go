package handlers

import (
	"net/http"

	"github.com/shiv060600/Tuttle-Tools/internal/services"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware rejects a client IP that ran out of tokens with 429.
func (h *Handler) RateLimitMiddleware(limiter *services.IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			h.logger.Warn("Rate limit exceeded", "ip", c.ClientIP(), "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many login attempts. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

// CORSMiddleware echoes an allowed Origin in production and allows any origin
// elsewhere. Credentials are always allowed so the session cookie travels.
func (h *Handler) CORSMiddleware() gin.HandlerFunc {
	allowed := make(map[string]bool)
	for _, o := range h.cfg.Origins() {
		allowed[o] = true
	}
	production := h.cfg.IsProduction()

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		switch {
		case origin == "":
		case !production || allowed[origin]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Add("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
