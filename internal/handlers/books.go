package handlers

import (
	"errors"
	"net/http"

	"github.com/shiv060600/Tuttle-Tools/internal/apperr"

	"github.com/gin-gonic/gin"
)

// GetBook returns {data: row} for a single match and {data: rows} otherwise.
func (h *Handler) GetBook(c *gin.Context) {
	rows, err := h.books.Lookup(c.Request.Context(), c.Param("isbn"))
	if errors.Is(err, apperr.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": apperr.Message(err)})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	if len(rows) == 1 {
		c.JSON(http.StatusOK, gin.H{"data": rows[0]})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *Handler) GetBackorder(c *gin.Context) {
	b, err := h.books.Backorder(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
