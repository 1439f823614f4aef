package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	return db
}

func TestAutoMigrate(t *testing.T) {
	db := setupTestDB(t)

	err := AutoMigrate(db)
	if err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	tables := []string{"users", "tags", "recipes", "auth_tokens", "recipe_tags"}
	for _, table := range tables {
		if !db.Migrator().HasTable(table) {
			t.Errorf("Expected table %s to exist", table)
		}
	}
}

func TestUserModel(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	user := User{
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		Name:         "Test User",
		IsActive:     true,
	}

	result := db.Create(&user)
	if result.Error != nil {
		t.Fatalf("Failed to create user: %v", result.Error)
	}

	if user.ID == 0 {
		t.Error("Expected user ID to be set after create")
	}

	// Test unique email constraint
	user2 := User{
		Email:        "test@example.com",
		PasswordHash: "another_hash",
		Name:         "Another User",
	}
	result = db.Create(&user2)
	if result.Error == nil {
		t.Error("Expected error when creating user with duplicate email")
	}
}

func TestRecipeWithTags(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	user := User{Email: "test@example.com", PasswordHash: "hash", Name: "Test", IsActive: true}
	db.Create(&user)

	tag1 := Tag{UserID: user.ID, Name: "Thai"}
	tag2 := Tag{UserID: user.ID, Name: "Dinner"}
	db.Create(&tag1)
	db.Create(&tag2)

	recipe := Recipe{
		UserID:      user.ID,
		Title:       "Green Curry",
		TimeMinutes: 30,
		Price:       decimal.RequireFromString("7.50"),
		Tags:        []Tag{tag1, tag2},
	}
	result := db.Create(&recipe)
	if result.Error != nil {
		t.Fatalf("Failed to create recipe: %v", result.Error)
	}

	var loaded Recipe
	db.Preload("Tags").First(&loaded, recipe.ID)
	if len(loaded.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %d", len(loaded.Tags))
	}
	if !loaded.Price.Equal(decimal.RequireFromString("7.50")) {
		t.Errorf("Expected price 7.50, got %s", loaded.Price)
	}
}

func TestTagOwnerNameUniqueness(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	user := User{Email: "a@example.com", PasswordHash: "hash", Name: "A", IsActive: true}
	db.Create(&user)
	other := User{Email: "b@example.com", PasswordHash: "hash", Name: "B", IsActive: true}
	db.Create(&other)

	if err := db.Create(&Tag{UserID: user.ID, Name: "Vegan"}).Error; err != nil {
		t.Fatalf("Failed to create tag: %v", err)
	}

	// Same name under the same owner must be rejected
	if err := db.Create(&Tag{UserID: user.ID, Name: "Vegan"}).Error; err == nil {
		t.Error("Expected error when creating duplicate tag name for same owner")
	}

	// Same name under a different owner is fine
	if err := db.Create(&Tag{UserID: other.ID, Name: "Vegan"}).Error; err != nil {
		t.Errorf("Expected tag with same name under another owner to succeed: %v", err)
	}
}

func TestAuthTokenOnePerUser(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	user := User{Email: "test@example.com", PasswordHash: "hash", Name: "Test", IsActive: true}
	db.Create(&user)

	if err := db.Create(&AuthToken{UserID: user.ID, Key: "abc123"}).Error; err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}

	if err := db.Create(&AuthToken{UserID: user.ID, Key: "def456"}).Error; err == nil {
		t.Error("Expected error when creating second token for same user")
	}
}
