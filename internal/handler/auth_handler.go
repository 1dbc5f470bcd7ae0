package handler

import (
	"net/http"

	"watchlist/internal/middleware"
	"watchlist/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func malformedBody(c *gin.Context) {
	validationFailed(c, service.ValidationErrors{{Field: "body", Message: "Request body must be a JSON object"}})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		malformedBody(c)
		return
	}
	_, token, err := h.svc.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "auth", "signup")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Signup successful", "token": token})
}

func (h *AuthHandler) Signin(c *gin.Context) {
	var req service.SigninInput
	if err := c.ShouldBindJSON(&req); err != nil {
		malformedBody(c)
		return
	}
	_, token, err := h.svc.Signin(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "auth", "signin")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Signin successful", "token": token})
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.svc.Me(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "auth", "me")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}
