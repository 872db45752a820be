package middlewares

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireJSON rejects mutating requests whose body is not declared as
// JSON. GET and DELETE carry no body and pass through untouched.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			if !isJSONContentType(c.GetHeader("Content-Type")) {
				c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
					"error": gin.H{
						"code":    "unsupported_media_type",
						"message": "Content-Type must be application/json",
					},
				})
				return
			}
		}

		c.Next()
	}
}

// accepts parameters such as "application/json; charset=utf-8"
func isJSONContentType(ct string) bool {
	mediaType, _, err := mime.ParseMediaType(ct)

	if err != nil {
		return false
	}

	return mediaType == "application/json"
}
