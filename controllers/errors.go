package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/forohub-backend/middleware"
	"github.com/vnkhanh/forohub-backend/models"
	"github.com/vnkhanh/forohub-backend/services"
)

// respondError writes the status that matches the error kind. Unexpected
// errors are logged and reported without detail.
func respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		body := gin.H{"error": svcErr.Message}
		if len(svcErr.Fields) > 0 {
			body["fields"] = svcErr.Fields
		}
		c.JSON(statusFor(svcErr.Kind), body)
		return
	}

	middleware.Logger(c).ErrorContext(c.Request.Context(), "request failed",
		slog.String("path", c.FullPath()),
		slog.Any("error", err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(kind, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(kind, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(kind, services.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// paramID parses a uuid path parameter. An empty value yields uuid.Nil so the
// service reports the missing id itself.
func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Param(name)
	if raw == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is not a valid uuid"})
		return uuid.Nil, false
	}
	return id, true
}

// requireUser returns the caller set by the auth middleware.
func requireUser(c *gin.Context) (models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authenticated user required"})
	}
	return user, ok
}
