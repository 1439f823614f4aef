package admin

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/plateful/plateful/pkg/plateful/config"
	"github.com/plateful/plateful/pkg/plateful/models"
	"gorm.io/gorm"
)

var (
	ErrInvalidSession = errors.New("invalid session token")
	ErrExpiredSession = errors.New("session has expired")
)

const (
	// ContextKeyStaffUser is the key for the staff user in gin context
	ContextKeyStaffUser = "staff_user"

	sessionDuration = 24 * time.Hour
)

// SessionClaims represents the admin console session JWT claims.
// The console uses short-lived signed sessions rather than the API's
// long-lived opaque tokens, so an operator login can expire independently
// of the account's API credential.
type SessionClaims struct {
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	jwt.RegisteredClaims
}

func sessionSecret() []byte {
	secret := config.AppConfig.SessionSecret
	if secret == "" {
		// Default for development only - should be set in production
		secret = "plateful-dev-secret-change-in-production"
	}
	return []byte(secret)
}

// GenerateSessionToken creates a signed admin session token for a user
func GenerateSessionToken(user models.User) (string, error) {
	claims := &SessionClaims{
		UserID:      user.ID,
		Email:       user.Email,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "plateful-admin",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sessionSecret())
}

// ValidateSessionToken validates an admin session token and returns its claims
func ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return sessionSecret(), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSession
		}
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}

	return claims, nil
}

// SessionMiddleware validates the admin session token and loads the staff
// user into context. The user row is re-read so deactivation or a dropped
// staff flag takes effect before the session expires.
func SessionMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := ValidateSessionToken(parts[1])
		if err != nil {
			if err == ErrExpiredSession {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session has expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session token"})
			}
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil || !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session token"})
			c.Abort()
			return
		}

		c.Set(ContextKeyStaffUser, user)
		c.Next()
	}
}

// RequireStaff middleware checks that the session user has the staff flag
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := GetStaffUser(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		if !user.IsStaff {
			c.JSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetStaffUser returns the session user from the gin context
func GetStaffUser(c *gin.Context) (models.User, bool) {
	user, exists := c.Get(ContextKeyStaffUser)
	if !exists {
		return models.User{}, false
	}
	return user.(models.User), true
}
