package models

import "time"

// Tag represents a label a user applies to their recipes. Tags are owned
// exclusively by one user; the (user_id, name) pair is unique, which backs
// the atomic get-or-create used during recipe creation.
//
// Tags are hard-deleted: a soft-deleted row would still occupy the unique
// index and block re-creating a tag with the same name.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_tag_owner_name" json:"user_id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_tag_owner_name" json:"name"`

	// Relationships
	User    User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Recipes []Recipe `gorm:"many2many:recipe_tags;" json:"recipes,omitempty"`
}
