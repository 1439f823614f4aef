package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/plateful/plateful/pkg/plateful/models"
	"gorm.io/gorm"
)

const (
	// TokenLength is the length of the generated token in bytes (20 bytes = 40 hex chars)
	TokenLength = 20
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// generateTokenKey generates a new random opaque token key
func generateTokenKey() (string, error) {
	bytes := make([]byte, TokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// IssueToken returns the user's bearer token, minting and persisting one on
// first login. Tokens are reused across logins, not rotated; revocation
// happens by deleting the row or deactivating the user.
func IssueToken(db *gorm.DB, user models.User) (string, error) {
	var token models.AuthToken
	if err := db.Where("user_id = ?", user.ID).First(&token).Error; err == nil {
		return token.Key, nil
	}

	key, err := generateTokenKey()
	if err != nil {
		return "", err
	}

	token = models.AuthToken{UserID: user.ID, Key: key}
	if err := db.Create(&token).Error; err != nil {
		// A concurrent login may have minted the token first; the unique
		// constraint on user_id makes the re-query authoritative.
		if err2 := db.Where("user_id = ?", user.ID).First(&token).Error; err2 == nil {
			return token.Key, nil
		}
		return "", err
	}
	return key, nil
}

// ValidateToken resolves a bearer token key to its active user.
// Unknown keys and inactive users both fail with ErrInvalidToken.
func ValidateToken(db *gorm.DB, key string) (models.User, error) {
	var token models.AuthToken
	if err := db.Where("key = ?", key).First(&token).Error; err != nil {
		return models.User{}, ErrInvalidToken
	}

	var user models.User
	if err := db.First(&user, token.UserID).Error; err != nil {
		return models.User{}, ErrInvalidToken
	}
	if !user.IsActive {
		return models.User{}, ErrInvalidToken
	}
	return user, nil
}
