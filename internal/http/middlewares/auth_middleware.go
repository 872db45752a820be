package middlewares

import (
	"net/http"
	"strings"

	"github.com/coursehub/backend/internal/actorctx"
	"github.com/coursehub/backend/internal/auth"
	"github.com/coursehub/backend/internal/authz"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abortUnauthorized(c, "Missing or invalid bearer token")
			return
		}

		claims, err := m.jwt.Verify(raw)
		if err != nil {
			// expired, malformed and forged tokens all read the same to clients
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		// Stash the verified identity on the gin context and on the
		// request context for the layers below the transport.
		c.Set(string(CtxUserID), claims.UserID)
		c.Set(string(CtxRole), claims.Role)

		c.Request = c.Request.WithContext(
			actorctx.WithCaller(c.Request.Context(), claims.UserID, claims.Role),
		)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": message,
		},
	})
}

// Helpers so handlers don't need to know the magic keys.

func CallerFromContext(c *gin.Context) (*authz.Caller, bool) {
	id, ok := valueString(c, CtxUserID)
	if !ok {
		return nil, false
	}

	role, _ := valueString(c, CtxRole)

	return &authz.Caller{ID: id, Role: role}, true
}

func UserIDFromContext(c *gin.Context) (string, bool) {
	return valueString(c, CtxUserID)
}

func RoleFromContext(c *gin.Context) (string, bool) {
	return valueString(c, CtxRole)
}

func valueString(c *gin.Context, key ctxKey) (string, bool) {
	v, ok := c.Get(string(key))
	if !ok {
		return "", false
	}

	s, ok := v.(string)
	return s, ok && s != ""
}
