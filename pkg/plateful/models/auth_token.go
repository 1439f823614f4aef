package models

import "time"

// AuthToken is the opaque bearer credential issued on login. Each user has
// at most one token; it is returned again on subsequent logins rather than
// rotated, so the key is stored as issued (and never serialized).
type AuthToken struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Key       string    `gorm:"uniqueIndex;not null" json:"-"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
