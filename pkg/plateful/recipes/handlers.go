package recipes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/plateful/plateful/pkg/plateful/auth"
	"github.com/plateful/plateful/pkg/plateful/models"
	"github.com/plateful/plateful/pkg/plateful/tags"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Handler handles recipe-related requests
type Handler struct {
	db    *gorm.DB
	store *Store
}

// NewHandler creates a new recipes handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, store: NewStore(db)}
}

// TagInput is a nested tag payload on recipe create/update
type TagInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateRecipeRequest represents the recipe creation request body.
// TimeMinutes and Price are pointers so that zero values pass the
// required check; only an absent field is rejected.
type CreateRecipeRequest struct {
	Title       string           `json:"title" binding:"required"`
	TimeMinutes *int             `json:"time_minutes" binding:"required"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Description string           `json:"description"`
	Link        string           `json:"link"`
	Tags        []TagInput       `json:"tags"`
}

// UpdateRecipeRequest represents a full or partial recipe update.
// Nil fields are left unchanged; a non-nil Tags replaces the tag set.
type UpdateRecipeRequest struct {
	Title       *string          `json:"title"`
	TimeMinutes *int             `json:"time_minutes"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Link        *string          `json:"link"`
	Tags        *[]TagInput      `json:"tags"`
}

// RecipeResponse is the list-view shape; it omits the description
type RecipeResponse struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	TimeMinutes int                `json:"time_minutes"`
	Price       decimal.Decimal    `json:"price"`
	Link        string             `json:"link"`
	Tags        []tags.TagResponse `json:"tags"`
}

// RecipeDetailResponse is the detail-view shape, including the description
type RecipeDetailResponse struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	TimeMinutes int                `json:"time_minutes"`
	Price       decimal.Decimal    `json:"price"`
	Link        string             `json:"link"`
	Tags        []tags.TagResponse `json:"tags"`
}

// NewRecipeResponse converts a recipe model to its list-view shape
func NewRecipeResponse(recipe models.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Link:        recipe.Link,
		Tags:        tags.NewTagResponses(recipe.Tags),
	}
}

// NewRecipeDetailResponse converts a recipe model to its detail-view shape
func NewRecipeDetailResponse(recipe models.Recipe) RecipeDetailResponse {
	return RecipeDetailResponse{
		ID:          recipe.ID,
		Title:       recipe.Title,
		Description: recipe.Description,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Link:        recipe.Link,
		Tags:        tags.NewTagResponses(recipe.Tags),
	}
}

func tagNames(inputs []TagInput) []string {
	names := make([]string, len(inputs))
	for i, in := range inputs {
		names[i] = in.Name
	}
	return names
}

// parseTagIDs parses the ?tags=1,2,3 filter parameter
func parseTagIDs(raw string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// List returns the authenticated user's recipes, newest first
// @Summary List recipes
// @Produce json
// @Param tags query string false "Comma-separated tag IDs to filter by"
// @Success 200 {array} RecipeResponse
// @Security BearerAuth
// @Router /recipe/recipes/ [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	tagIDs, err := parseTagIDs(c.Query("tags"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tags filter"})
		return
	}

	recipes, err := h.store.List(userID, tagIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	responses := make([]RecipeResponse, len(recipes))
	for i, recipe := range recipes {
		responses[i] = NewRecipeResponse(recipe)
	}

	c.JSON(http.StatusOK, responses)
}

// Create creates a recipe for the authenticated user, resolving nested tag
// payloads under the same owner
// @Summary Create a recipe
// @Accept json
// @Produce json
// @Param request body CreateRecipeRequest true "Recipe details"
// @Success 201 {object} RecipeDetailResponse
// @Security BearerAuth
// @Router /recipe/recipes/ [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe := models.Recipe{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		TimeMinutes: *req.TimeMinutes,
		Price:       *req.Price,
		Link:        req.Link,
	}

	if err := h.store.Create(&recipe, tagNames(req.Tags)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe"})
		return
	}

	c.JSON(http.StatusCreated, NewRecipeDetailResponse(recipe))
}

// Get returns one of the authenticated user's recipes, description included
// @Summary Get a recipe
// @Produce json
// @Success 200 {object} RecipeDetailResponse
// @Security BearerAuth
// @Router /recipe/recipes/{id}/ [get]
func (h *Handler) Get(c *gin.Context) {
	recipe, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, NewRecipeDetailResponse(recipe))
}

// Update applies a full (PUT) or partial (PATCH) update to a recipe
// @Summary Update a recipe
// @Accept json
// @Produce json
// @Param request body UpdateRecipeRequest true "Fields to update"
// @Success 200 {object} RecipeDetailResponse
// @Security BearerAuth
// @Router /recipe/recipes/{id}/ [patch]
func (h *Handler) Update(c *gin.Context) {
	recipe, ok := h.lookup(c)
	if !ok {
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		if *req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title must not be empty"})
			return
		}
		updates["title"] = *req.Title
	}
	if req.TimeMinutes != nil {
		updates["time_minutes"] = *req.TimeMinutes
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Link != nil {
		updates["link"] = *req.Link
	}

	var names []string
	if req.Tags != nil {
		names = tagNames(*req.Tags)
		if names == nil {
			names = []string{}
		}
	}

	if err := h.store.Update(&recipe, updates, names); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recipe"})
		return
	}

	c.JSON(http.StatusOK, NewRecipeDetailResponse(recipe))
}

// Delete removes one of the authenticated user's recipes
// @Summary Delete a recipe
// @Success 204
// @Security BearerAuth
// @Router /recipe/recipes/{id}/ [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	if err := h.store.Delete(userID, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete recipe"})
		return
	}

	c.Status(http.StatusNoContent)
}

// lookup resolves the :id path param to a recipe owned by the requester.
// Absent and foreign recipes are indistinguishable to the client (404).
func (h *Handler) lookup(c *gin.Context) (models.Recipe, bool) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return models.Recipe{}, false
	}

	recipe, err := h.store.Get(userID, uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return models.Recipe{}, false
	}
	return recipe, true
}

// RegisterRoutes registers recipe routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recipes/", h.List)
	rg.POST("/recipes/", h.Create)
	rg.GET("/recipes/:id/", h.Get)
	rg.PUT("/recipes/:id/", h.Update)
	rg.PATCH("/recipes/:id/", h.Update)
	rg.DELETE("/recipes/:id/", h.Delete)
}
