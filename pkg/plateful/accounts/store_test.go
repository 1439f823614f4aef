package accounts

import (
	"errors"
	"testing"

	"github.com/plateful/plateful/pkg/plateful/auth"
	"github.com/plateful/plateful/pkg/plateful/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"test@EXAMPLE.COM":  "test@example.com",
		"Test2@Example.com": "Test2@example.com",
		"TEST3@EXAMPLE.com": "TEST3@example.com",
		"test4@example.COM": "test4@example.com",
		"noat":              "noat",
	}
	for input, want := range cases {
		if got := NormalizeEmail(input); got != want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCreateUser(t *testing.T) {
	store := NewStore(setupTestDB(t))

	user, err := store.CreateUser("test@EXAMPLE.com", "password123", "Test User", false)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if user.Email != "test@example.com" {
		t.Errorf("Expected normalized email test@example.com, got %s", user.Email)
	}
	if user.PasswordHash == "password123" {
		t.Error("Password must not be stored in plaintext")
	}
	if !auth.CheckPassword("password123", user.PasswordHash) {
		t.Error("Stored hash should verify against the original password")
	}
	if !user.IsActive {
		t.Error("New users should be active")
	}
	if user.IsStaff || user.IsSuperuser {
		t.Error("Plain users should not get staff or superuser flags")
	}
}

func TestCreateUserEmptyEmail(t *testing.T) {
	store := NewStore(setupTestDB(t))

	if _, err := store.CreateUser("", "password123", "Test", false); !errors.Is(err, ErrEmailRequired) {
		t.Errorf("Expected ErrEmailRequired, got %v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	store := NewStore(setupTestDB(t))

	if _, err := store.CreateUser("test@example.com", "password123", "Test", false); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := store.CreateUser("test@example.com", "password456", "Other", false); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}
}

func TestCreateUserStorageFault(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	// A failure that is not the unique email index must not be reported
	// as a duplicate email
	db.Exec("DROP TABLE users")

	_, err := store.CreateUser("test@example.com", "password123", "Test", false)
	if err == nil {
		t.Fatal("Expected an error after dropping the users table")
	}
	if errors.Is(err, ErrEmailTaken) {
		t.Errorf("Expected a storage error, got ErrEmailTaken")
	}
}

func TestCreateUserShortPassword(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	if _, err := store.CreateUser("test@example.com", "pw", "Test", false); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("Expected ErrPasswordTooShort, got %v", err)
	}

	// No row should have been created
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no users, got %d", count)
	}
}

func TestCreateSuperuser(t *testing.T) {
	store := NewStore(setupTestDB(t))

	user, err := store.CreateSuperuser("admin@example.com", "password123")
	if err != nil {
		t.Fatalf("CreateSuperuser failed: %v", err)
	}
	if !user.IsStaff || !user.IsSuperuser {
		t.Error("Superuser must have both staff and superuser flags")
	}
}

func TestAuthenticate(t *testing.T) {
	store := NewStore(setupTestDB(t))
	store.CreateUser("test@example.com", "password123", "Test", false)

	if _, err := store.Authenticate("test@example.com", "password123"); err != nil {
		t.Errorf("Authenticate failed for valid credentials: %v", err)
	}
	if _, err := store.Authenticate("test@EXAMPLE.com", "password123"); err != nil {
		t.Errorf("Authenticate should normalize the email domain: %v", err)
	}
	if _, err := store.Authenticate("test@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := store.Authenticate("nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthenticateInactiveUser(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	user, _ := store.CreateUser("test@example.com", "password123", "Test", false)

	db.Model(&user).Update("is_active", false)

	if _, err := store.Authenticate("test@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for inactive user, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	store := NewStore(setupTestDB(t))
	user, _ := store.CreateUser("test@example.com", "password123", "Old Name", false)

	newName := "New Name"
	newPassword := "newpassword"
	if err := store.UpdateProfile(&user, &newName, &newPassword); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	if user.Name != "New Name" {
		t.Errorf("Expected name to be updated, got %s", user.Name)
	}
	if !auth.CheckPassword("newpassword", user.PasswordHash) {
		t.Error("Password should have been re-hashed with the new value")
	}
}

func TestUpdateProfileShortPassword(t *testing.T) {
	store := NewStore(setupTestDB(t))
	user, _ := store.CreateUser("test@example.com", "password123", "Test", false)

	short := "pw"
	if err := store.UpdateProfile(&user, nil, &short); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("Expected ErrPasswordTooShort, got %v", err)
	}

	// The stored password must be unchanged
	fresh, err := store.Authenticate("test@example.com", "password123")
	if err != nil {
		t.Errorf("Original password should still authenticate: %v", err)
	}
	if fresh.ID != user.ID {
		t.Errorf("Expected same user, got %d", fresh.ID)
	}
}

func TestUpdateProfileNameOnly(t *testing.T) {
	store := NewStore(setupTestDB(t))
	user, _ := store.CreateUser("test@example.com", "password123", "Test", false)

	newName := "Renamed"
	if err := store.UpdateProfile(&user, &newName, nil); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if !auth.CheckPassword("password123", user.PasswordHash) {
		t.Error("Password should be untouched by a name-only update")
	}
}
