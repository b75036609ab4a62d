package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetReport(c *gin.Context) {
	rows, err := h.reports.Run(c.Request.Context(), c.Param("reportType"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
