package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"watchlist/internal/logger"
	"watchlist/internal/middleware"
	"watchlist/internal/service"

	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 1 << 20

func validationFailed(c *gin.Context, verrs service.ValidationErrors) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Validation failed", "errors": verrs})
}

func serverError(c *gin.Context, err error, component, operation string) {
	logger.WithContext(component, operation).
		WithField("request_id", middleware.GetRequestID(c)).
		WithError(err).
		Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
}

func favoriteNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Favorite not found"})
}

// respondError maps service errors onto HTTP responses; unknown errors are logged and hidden.
func respondError(c *gin.Context, err error, component, operation string) {
	if verrs, ok := service.AsValidation(err); ok {
		validationFailed(c, verrs)
		return
	}
	switch {
	case errors.Is(err, service.ErrFavoriteNotFound):
		favoriteNotFound(c)
	case errors.Is(err, service.ErrInvalidCreds):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
	case errors.Is(err, service.ErrUserNotFound):
		middleware.Unauthorized(c)
	case errors.Is(err, service.ErrQueryRequired):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Query required"})
	default:
		serverError(c, err, component, operation)
	}
}

// readBody returns the raw request body, capped at maxBodyBytes.
func readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		validationFailed(c, service.ValidationErrors{{Field: "body", Message: "Request body could not be read"}})
		return nil, false
	}
	return body, true
}

// favoriteID parses the :id path parameter. Anything but a positive integer is reported as
// not found, the same as a missing row.
func favoriteID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		favoriteNotFound(c)
		return 0, false
	}
	return uint(id), true
}
