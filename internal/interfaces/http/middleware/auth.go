// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nabin216/ZotPot/internal/pkg/auth"
	"github.com/nabin216/ZotPot/internal/store"
)

const (
	userIDKey    = "user_id"
	userEmailKey = "user_email"
)

// SessionSource exposes the signed-in session held by the store
type SessionSource interface {
	Snapshot() store.State
}

// AuthMiddleware accepts requests carrying the id token of the session
// currently held by the store. Tokens of earlier sessions are rejected even
// while they are still valid.
func AuthMiddleware(tokens *auth.JWTManager, session SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := tokens.ValidateIDToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		snapshot := session.Snapshot()
		if snapshot.Auth.UserID() != claims.UserID || snapshot.Auth.Token() != tokenString {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Session has ended",
			})
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userEmailKey, claims.Email)

		c.Next()
	}
}

// GetUserIDFromContext extracts user ID from gin context
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}

// GetUserEmailFromContext extracts user email from gin context
func GetUserEmailFromContext(c *gin.Context) (string, bool) {
	email, exists := c.Get(userEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}
