package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fursa_connect/internal/services"
)

// currentUserID reads the authenticated caller's id set by RequireAuth.
// JWT numeric claims decode as float64.
func currentUserID(c *gin.Context) uint {
	return uint(c.MustGet("user_id").(float64))
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Unexpected errors are logged and never leak their message.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var authErr *services.AuthorizationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Message})
	case errors.As(err, &authErr):
		c.JSON(http.StatusForbidden, gin.H{"error": authErr.Message})
	default:
		logrus.WithError(err).Error("unexpected service error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
