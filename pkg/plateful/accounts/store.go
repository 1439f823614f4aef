package accounts

import (
	"errors"
	"strings"

	"github.com/plateful/plateful/pkg/plateful/auth"
	"github.com/plateful/plateful/pkg/plateful/models"
	"gorm.io/gorm"
)

const (
	// MinPasswordLength is the minimum accepted password length
	MinPasswordLength = 5
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordTooShort   = errors.New("password must be at least 5 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Store provides account persistence operations
type Store struct {
	db *gorm.DB
}

// NewStore creates a new account store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// NormalizeEmail lowercases the domain portion of an email address.
// The local part is left untouched; it is case-sensitive per RFC 5321.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + strings.ToLower(email[at:])
}

// CreateUser creates a new user with a hashed password. A superuser is
// implicitly staff.
func (s *Store) CreateUser(email, password, name string, superuser bool) (models.User, error) {
	if email == "" {
		return models.User{}, ErrEmailRequired
	}
	if len(password) < MinPasswordLength {
		return models.User{}, ErrPasswordTooShort
	}

	email = NormalizeEmail(email)

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return models.User{}, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		IsActive:     true,
	}
	if superuser {
		user.IsStaff = true
		user.IsSuperuser = true
	}

	if err := s.db.Create(&user).Error; err != nil {
		// Unique index on email is the backstop for concurrent signups;
		// anything else is a storage fault and surfaces as-is.
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint") {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateSuperuser creates a user with staff and superuser flags set
func (s *Store) CreateSuperuser(email, password string) (models.User, error) {
	return s.CreateUser(email, password, "", true)
}

// Authenticate verifies email and password against a stored active user
func (s *Store) Authenticate(email, password string) (models.User, error) {
	var user models.User
	err := s.db.Where("email = ? AND is_active = ?", NormalizeEmail(email), true).First(&user).Error
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// UpdateProfile applies a partial update of name and/or password to a user.
// A nil field is left unchanged; a changed password is re-hashed.
func (s *Store) UpdateProfile(user *models.User, name, password *string) error {
	updates := make(map[string]interface{})

	if name != nil {
		updates["name"] = *name
	}
	if password != nil {
		if len(*password) < MinPasswordLength {
			return ErrPasswordTooShort
		}
		hash, err := auth.HashPassword(*password)
		if err != nil {
			return err
		}
		updates["password_hash"] = hash
	}

	if len(updates) == 0 {
		return nil
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return err
	}
	return s.db.First(user, user.ID).Error
}
