package middleware

import (
	"net/http"
	"strings"

	"watchlist/config"
	"watchlist/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxClaims = "claims"
)

// Unauthorized aborts with the single 401 body used for every token failure.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
}

// AuthRequired validates the bearer token and stores the caller's identity in the context.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			Unauthorized(c)
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			Unauthorized(c)
			return
		}
		c.Set(ctxUserID, claims.ID)
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserID returns the authenticated user ID from context (must be used after AuthRequired).
func GetUserID(c *gin.Context) uint {
	v, _ := c.Get(ctxUserID)
	if v == nil {
		return 0
	}
	return v.(uint)
}

func GetClaims(c *gin.Context) *auth.Claims {
	v, _ := c.Get(ctxClaims)
	claims, _ := v.(*auth.Claims)
	return claims
}
