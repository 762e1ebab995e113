package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell/internal/pkg/jwt"
)

const userIDKey = "user_id"

// Auth validates the bearer token and stores the caller's identity in
// the request context.
func Auth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// UserID returns the authenticated caller's ID, or 0 when the request
// did not pass through Auth.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
