package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. Email is the login identifier.
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `json:"-"`
	Name         string         `json:"name"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	IsStaff      bool           `gorm:"default:false" json:"is_staff"`
	IsSuperuser  bool           `gorm:"default:false" json:"is_superuser"`

	// Relationships
	Recipes []Recipe `gorm:"foreignKey:UserID" json:"recipes,omitempty"`
	Tags    []Tag    `gorm:"foreignKey:UserID" json:"tags,omitempty"`
}
