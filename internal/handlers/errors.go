package handlers

import (
	"net/http"

	"github.com/shiv060600/Tuttle-Tools/internal/apperr"

	"github.com/gin-gonic/gin"
)

// respondError writes {"error": msg} with the status for the error kind. Only
// messages of apperr errors reach the client.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}
