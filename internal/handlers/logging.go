package handlers

import (
	"net/http"
	"strconv"

	"github.com/shiv060600/Tuttle-Tools/internal/apperr"
	"github.com/shiv060600/Tuttle-Tools/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListLogs(c *gin.Context) {
	mt, ok := h.mappingType(c)
	if !ok {
		return
	}

	entries, err := h.audit.List(c.Request.Context(), mt)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) AppendLog(c *gin.Context) {
	mt, ok := h.mappingType(c)
	if !ok {
		return
	}

	var req services.LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.InvalidInput("Invalid log body"))
		return
	}
	entry, err := services.ParseLogEntry(req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	n, err := h.audit.Append(c.Request.Context(), mt, entry)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"inserted": n})
}

// PurgeLogs deletes entries older than :days days. Fractional days are allowed.
func (h *Handler) PurgeLogs(c *gin.Context) {
	mt, ok := h.mappingType(c)
	if !ok {
		return
	}

	days, err := strconv.ParseFloat(c.Param("days"), 64)
	if err != nil {
		h.respondError(c, apperr.InvalidInput("days must be a non-negative number"))
		return
	}

	n, err := h.audit.PurgeOlderThan(c.Request.Context(), mt, days)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted_count": n})
}

func (h *Handler) PurgeLog(c *gin.Context) {
	mt, ok := h.mappingType(c)
	if !ok {
		return
	}

	n, err := h.audit.PurgeByID(c.Request.Context(), mt, c.Param("logId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted_count": n})
}
