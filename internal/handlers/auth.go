package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shiv060600/Tuttle-Tools/internal/apperr"
	"github.com/shiv060600/Tuttle-Tools/internal/metrics"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_input").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	username := strings.TrimSpace(req.Username)
	if err := h.admin.Verify(username, req.Password); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(metrics.Result(err)).Inc()
		if errors.Is(err, apperr.ErrUnauthorized) {
			h.logger.Warn("Admin login rejected", "user", username, "ip", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": apperr.Message(err)})
			return
		}
		h.respondError(c, err)
		return
	}

	if err := h.promote(c, username); err != nil {
		h.logger.Error("Failed to save session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process login"})
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("ok").Inc()
	h.logger.Info("Admin logged in", "user", username, "ip", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful"})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.demote(c); err != nil {
		h.logger.Error("Failed to clear session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logout successful"})
}

func (h *Handler) CheckAuth(c *gin.Context) {
	actor := h.actor(c)
	c.JSON(http.StatusOK, gin.H{"isAdmin": actor.IsAdmin, "authenticated": actor.IsAdmin})
}
