package handlers

import (
	"net/http"
	"strconv"

	"github.com/shiv060600/Tuttle-Tools/internal/apperr"
	"github.com/shiv060600/Tuttle-Tools/internal/services"

	"github.com/gin-gonic/gin"
)

// mappingType resolves the :type path segment, writing a 404 when unknown.
func (h *Handler) mappingType(c *gin.Context) (services.MappingType, bool) {
	mt, err := h.types.Lookup(c.Param("type"))
	if err != nil {
		h.respondError(c, err)
		return services.MappingType{}, false
	}
	return mt, true
}

// rowNum parses :rowNum. Anything that is not a positive integer becomes 0 and
// is rejected by the service after the write gates ran.
func rowNum(c *gin.Context) int64 {
	n, err := strconv.ParseInt(c.Param("rowNum"), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// bindMapping decodes the body. A malformed body is reported only when the
// write gates pass, so gate rejections do not depend on the payload.
func (h *Handler) bindMapping(c *gin.Context, mt services.MappingType, actor services.Actor) (services.MappingInput, bool) {
	var in services.MappingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		if gateErr := h.mappings.Authorize(mt, actor); gateErr != nil {
			h.respondError(c, gateErr)
			return in, false
		}
		h.respondError(c, apperr.InvalidInput("Invalid request body"))
		return in, false
	}
	return in, true
}

func (h *Handler) ListMappings(c *gin.Context) {
	mt, ok := h.mappingType(c)
	if !ok {
		return
	}

	rows, err := h.mappings.List(c.Request.Context(), mt)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) CreateMapping(c *gin.Context) {
	mt, ok := h.mappingType(c)
	if !ok {
		return
	}
	actor := h.actor(c)
	in, ok := h.bindMapping(c, mt, actor)
	if !ok {
		return
	}

	n, err := h.mappings.Create(c.Request.Context(), mt, actor, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inserted": n})
}

func (h *Handler) UpdateMapping(c *gin.Context) {
	mt, ok := h.mappingType(c)
	if !ok {
		return
	}
	actor := h.actor(c)
	patch, ok := h.bindMapping(c, mt, actor)
	if !ok {
		return
	}

	n, err := h.mappings.Update(c.Request.Context(), mt, actor, rowNum(c), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

func (h *Handler) DeleteMapping(c *gin.Context) {
	mt, ok := h.mappingType(c)
	if !ok {
		return
	}

	n, err := h.mappings.Delete(c.Request.Context(), mt, h.actor(c), rowNum(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
