package handler

import (
	"errors"
	"net/http"
	"strconv"

	"watchlist/internal/service"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) Search(c *gin.Context) {
	results, err := h.svc.Search(c.Request.Context(), c.Query("query"))
	if errors.Is(err, service.ErrCatalogUnavailable) {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Catalog search failed"})
		return
	}
	if err != nil {
		respondError(c, err, "catalog", "search")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *CatalogHandler) Details(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid movie id"})
		return
	}
	movie, err := h.svc.Details(c.Request.Context(), id)
	if errors.Is(err, service.ErrCatalogUnavailable) {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Failed to fetch movie details"})
		return
	}
	if err != nil {
		respondError(c, err, "catalog", "details")
		return
	}
	c.JSON(http.StatusOK, gin.H{"movie": movie})
}
