package handler

import (
	"net/http"

	"watchlist/internal/middleware"
	"watchlist/internal/service"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	svc *service.FavoriteService
}

func NewFavoriteHandler(svc *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: svc}
}

func (h *FavoriteHandler) Create(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	fav, err := h.svc.Create(c.Request.Context(), middleware.GetUserID(c), body)
	if err != nil {
		respondError(c, err, "favorites", "create")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Favorite saved successfully", "favorite": fav})
}

func (h *FavoriteHandler) List(c *gin.Context) {
	q, err := service.ParseListQuery(c.Query("page"), c.Query("limit"), c.Query("type"), c.Query("search"))
	if err != nil {
		respondError(c, err, "favorites", "list")
		return
	}
	page, err := h.svc.List(c.Request.Context(), middleware.GetUserID(c), q)
	if err != nil {
		respondError(c, err, "favorites", "list")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": page.Data, "pagination": page.Pagination})
}

func (h *FavoriteHandler) Get(c *gin.Context) {
	id, ok := favoriteID(c)
	if !ok {
		return
	}
	fav, err := h.svc.Get(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err, "favorites", "get")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "favorite": fav})
}

func (h *FavoriteHandler) Replace(c *gin.Context) {
	id, ok := favoriteID(c)
	if !ok {
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}
	fav, err := h.svc.Replace(c.Request.Context(), middleware.GetUserID(c), id, body)
	if err != nil {
		respondError(c, err, "favorites", "replace")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Favorite updated", "favorite": fav})
}

func (h *FavoriteHandler) Patch(c *gin.Context) {
	id, ok := favoriteID(c)
	if !ok {
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}
	fav, err := h.svc.Patch(c.Request.Context(), middleware.GetUserID(c), id, body)
	if err != nil {
		respondError(c, err, "favorites", "patch")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Favorite partially updated", "favorite": fav})
}

func (h *FavoriteHandler) Delete(c *gin.Context) {
	id, ok := favoriteID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondError(c, err, "favorites", "delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Deleted successfully"})
}
