package middlewares

import (
	"net/http"

	"github.com/coursehub/backend/internal/authz"
	"github.com/gin-gonic/gin"
)

// RequireAdmin gates administrative routes. It runs after RequireAuth and
// delegates the actual decision to the authz evaluator.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFromContext(c)

		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Missing identity context",
				},
			})
			return
		}

		if d := authz.RequireAdmin(caller); !d.Allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "forbidden",
					"message": "Admin role required",
				},
			})
			return
		}

		c.Next()
	}
}
