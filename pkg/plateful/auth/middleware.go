package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/plateful/plateful/pkg/plateful/models"
	"gorm.io/gorm"
)

const (
	// ContextKeyUserID is the key for user ID in gin context
	ContextKeyUserID = "user_id"
	// ContextKeyUser is the key for the authenticated user in gin context
	ContextKeyUser = "user"
)

// TokenAuthMiddleware validates opaque bearer tokens and sets the
// authenticated user in context
func TokenAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Expect "Bearer <token>" ("Token <token>" accepted for older clients)
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}
		scheme := strings.ToLower(parts[0])
		if scheme != "bearer" && scheme != "token" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		user, err := ValidateToken(db, parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyUser, user)

		c.Next()
	}
}

// GetUserID returns the authenticated user's ID from the gin context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUser returns the authenticated user from the gin context
func GetUser(c *gin.Context) (models.User, bool) {
	user, exists := c.Get(ContextKeyUser)
	if !exists {
		return models.User{}, false
	}
	return user.(models.User), true
}
