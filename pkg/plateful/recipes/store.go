package recipes

import (
	"github.com/plateful/plateful/pkg/plateful/models"
	"github.com/plateful/plateful/pkg/plateful/tags"
	"gorm.io/gorm"
)

// Store provides owner-scoped recipe persistence operations
type Store struct {
	db *gorm.DB
}

// NewStore creates a new recipe store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create persists a recipe and associates it with tags resolved (or created)
// under the same owner. The whole operation runs in one transaction so a
// failed tag resolution leaves no orphan recipe behind.
func (s *Store) Create(recipe *models.Recipe, tagNames []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}

		resolved, err := tags.Resolve(tx, recipe.UserID, tagNames)
		if err != nil {
			return err
		}
		if len(resolved) > 0 {
			if err := tx.Model(recipe).Association("Tags").Append(resolved); err != nil {
				return err
			}
		}
		recipe.Tags = resolved
		return nil
	})
}

// List returns the owner's recipes ordered by descending id, tags preloaded.
// A non-empty tagIDs restricts the result to recipes carrying at least one
// of those tags, de-duplicated.
func (s *Store) List(ownerID uint, tagIDs []uint) ([]models.Recipe, error) {
	query := s.db.Preload("Tags").
		Where("recipes.user_id = ?", ownerID).
		Order("recipes.id DESC")

	if len(tagIDs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Where("recipe_tags.tag_id IN ?", tagIDs).
			Distinct("recipes.*")
	}

	var recipes []models.Recipe
	err := query.Find(&recipes).Error
	return recipes, err
}

// Get returns a recipe by id with its tags, scoped to the owner
func (s *Store) Get(ownerID, id uint) (models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.Preload("Tags").Where("user_id = ?", ownerID).First(&recipe, id).Error
	return recipe, err
}

// Update applies field updates to an owner's recipe. A non-nil tagNames
// replaces the recipe's tag set, resolving names under the same owner inside
// the update transaction.
func (s *Store) Update(recipe *models.Recipe, updates map[string]interface{}, tagNames []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(recipe).Updates(updates).Error; err != nil {
				return err
			}
		}

		if tagNames != nil {
			resolved, err := tags.Resolve(tx, recipe.UserID, tagNames)
			if err != nil {
				return err
			}
			if err := tx.Model(recipe).Association("Tags").Replace(resolved); err != nil {
				return err
			}
			recipe.Tags = resolved
		}
		return nil
	})
}

// Delete removes an owner's recipe and its tag associations
func (s *Store) Delete(ownerID, id uint) error {
	recipe, err := s.Get(ownerID, id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}
