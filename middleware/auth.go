package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/forohub-backend/models"
	"github.com/vnkhanh/forohub-backend/services"
)

const (
	ctxUserKey  = "user"
	ctxTokenKey = "token"
)

// Authenticator resolves the user behind a bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// BearerToken reads "Bearer <token>" from Authorization, falling back to X-Auth-Token for iOS clients.
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		authHeader = c.GetHeader("X-Auth-Token")
	}
	if authHeader == "" {
		return "", false
	}
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c, auth); !ok {
			return
		}
		c.Next()
	}
}

// authenticate resolves the bearer token and stores the caller in c. On failure
// it aborts with 401 or 500 and reports false; it never calls c.Next.
func authenticate(c *gin.Context, auth Authenticator) (models.User, bool) {
	token, ok := BearerToken(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed Authorization header"})
		return models.User{}, false
	}

	user, err := auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return models.User{}, false
		}
		Logger(c).ErrorContext(c.Request.Context(), "authenticate", slog.Any("error", err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return models.User{}, false
	}

	c.Set("user_id", user.ID.String())
	c.Set("role", string(user.Role))
	c.Set(ctxUserKey, *user)
	c.Set(ctxTokenKey, token)
	return *user, true
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}

// CurrentToken returns the raw bearer token accepted by AuthMiddleware.
func CurrentToken(c *gin.Context) string {
	return c.GetString(ctxTokenKey)
}
