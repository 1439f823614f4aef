package tags

import (
	"errors"
	"strings"

	"github.com/plateful/plateful/pkg/plateful/models"
	"gorm.io/gorm"
)

var (
	ErrNameRequired = errors.New("tag name is required")
	ErrNameTaken    = errors.New("tag name already in use")
)

// Store provides owner-scoped tag persistence operations
type Store struct {
	db *gorm.DB
}

// NewStore creates a new tag store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetOrCreate resolves an existing tag with the given name under the owner,
// or creates one. Callers creating recipes pass their transaction as tx so
// resolution and creation commit atomically; the unique (user_id, name)
// index is the backstop against concurrent duplicates.
func GetOrCreate(tx *gorm.DB, ownerID uint, name string) (models.Tag, error) {
	if name == "" {
		return models.Tag{}, ErrNameRequired
	}

	var tag models.Tag
	err := tx.Where(models.Tag{UserID: ownerID, Name: name}).FirstOrCreate(&tag).Error
	if err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

// Resolve maps tag names to tags owned by ownerID, creating missing ones.
// Empty names are skipped.
func Resolve(tx *gorm.DB, ownerID uint, names []string) ([]models.Tag, error) {
	var tags []models.Tag
	for _, name := range names {
		if name == "" {
			continue
		}
		tag, err := GetOrCreate(tx, ownerID, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// List returns the owner's tags ordered by descending name
func (s *Store) List(ownerID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.Where("user_id = ?", ownerID).Order("name DESC").Find(&tags).Error
	return tags, err
}

// Get returns a tag by id, scoped to the owner
func (s *Store) Get(ownerID, id uint) (models.Tag, error) {
	var tag models.Tag
	err := s.db.Where("user_id = ?", ownerID).First(&tag, id).Error
	return tag, err
}

// Update renames a tag, scoped to the owner. Renaming to a name the owner
// already uses fails with ErrNameTaken; the unique (user_id, name) index is
// the backstop for concurrent renames.
func (s *Store) Update(ownerID, id uint, name string) (models.Tag, error) {
	if name == "" {
		return models.Tag{}, ErrNameRequired
	}

	tag, err := s.Get(ownerID, id)
	if err != nil {
		return models.Tag{}, err
	}

	var existing models.Tag
	if err := s.db.Where("user_id = ? AND name = ? AND id <> ?", ownerID, name, id).First(&existing).Error; err == nil {
		return models.Tag{}, ErrNameTaken
	}

	if err := s.db.Model(&tag).Update("name", name).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return models.Tag{}, ErrNameTaken
		}
		return models.Tag{}, err
	}
	return tag, nil
}

// Delete removes a tag and its recipe associations, scoped to the owner
func (s *Store) Delete(ownerID, id uint) error {
	tag, err := s.Get(ownerID, id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&tag).Association("Recipes").Clear(); err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}
