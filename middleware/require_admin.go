package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/forohub-backend/models"
)

// RequireRoles authenticates the request and then allows only the given roles.
func RequireRoles(auth Authenticator, allowedRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			if user, ok = authenticate(c, auth); !ok {
				return
			}
		}

		for _, allowed := range allowedRoles {
			if user.Role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "you do not have permission to access this resource",
		})
	}
}
