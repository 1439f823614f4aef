package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/plateful/plateful/pkg/plateful/accounts"
	"github.com/plateful/plateful/pkg/plateful/models"
	"github.com/plateful/plateful/pkg/plateful/recipes"
	"github.com/plateful/plateful/pkg/plateful/tags"
	"gorm.io/gorm"
)

// Handler handles admin console requests
type Handler struct {
	db       *gorm.DB
	accounts *accounts.Store
}

// NewHandler creates a new admin handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, accounts: accounts.NewStore(db)}
}

// LoginRequest represents the console login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session token issued to a staff operator
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse represents a user row in the console listing
type UserResponse struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	CreatedAt   string `json:"created_at"`
	RecipeCount int64  `json:"recipe_count"`
	TagCount    int64  `json:"tag_count"`
}

// UpdateUserRequest represents an operator edit of a user account
type UpdateUserRequest struct {
	Name        *string `json:"name"`
	Password    *string `json:"password"`
	IsActive    *bool   `json:"is_active"`
	IsStaff     *bool   `json:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser"`
}

// StatsResponse represents system statistics
type StatsResponse struct {
	TotalUsers   int64 `json:"total_users"`
	ActiveUsers  int64 `json:"active_users"`
	StaffUsers   int64 `json:"staff_users"`
	TotalRecipes int64 `json:"total_recipes"`
	TotalTags    int64 `json:"total_tags"`
	TotalTokens  int64 `json:"total_tokens"`
}

func (h *Handler) userResponse(user models.User) UserResponse {
	var recipeCount, tagCount int64
	h.db.Model(&models.Recipe{}).Where("user_id = ?", user.ID).Count(&recipeCount)
	h.db.Model(&models.Tag{}).Where("user_id = ?", user.ID).Count(&tagCount)

	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		IsActive:    user.IsActive,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		CreatedAt:   user.CreatedAt.Format("2006-01-02T15:04:05Z"),
		RecipeCount: recipeCount,
		TagCount:    tagCount,
	}
}

// Login authenticates a staff operator and issues a console session token
// @Summary Console login
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 403 {object} map[string]string "Not a staff account"
// @Router /admin/login/ [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !user.IsStaff {
		c.JSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
		return
	}

	token, err := GenerateSessionToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: h.userResponse(user)})
}

// ListUsers returns all user accounts (staff only)
// @Summary List user accounts
// @Produce json
// @Param q query string false "Search in email and name"
// @Success 200 {array} UserResponse
// @Security BearerAuth
// @Router /admin/users/ [get]
func (h *Handler) ListUsers(c *gin.Context) {
	query := h.db.Order("id ASC")

	if search := c.Query("q"); search != "" {
		query = query.Where("email LIKE ? OR name LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = h.userResponse(user)
	}

	c.JSON(http.StatusOK, responses)
}

// GetUser returns a single user account (staff only)
func (h *Handler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, h.userResponse(user))
}

// UpdateUser edits a user account (staff only). Operators cannot strip
// their own superuser flag.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	operator, _ := GetStaffUser(c)
	if user.ID == operator.ID && req.IsSuperuser != nil && !*req.IsSuperuser && operator.IsSuperuser {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot demote yourself"})
		return
	}

	if req.Name != nil || req.Password != nil {
		if err := h.accounts.UpdateProfile(&user, req.Name, req.Password); err != nil {
			if errors.Is(err, accounts.ErrPasswordTooShort) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
	}

	updates := make(map[string]interface{})
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsStaff != nil {
		updates["is_staff"] = *req.IsStaff
	}
	if req.IsSuperuser != nil {
		updates["is_superuser"] = *req.IsSuperuser
	}

	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
	}

	h.db.First(&user, id)
	c.JSON(http.StatusOK, h.userResponse(user))
}

// ListRecipes returns a raw listing of all recipes across users (staff only)
func (h *Handler) ListRecipes(c *gin.Context) {
	var all []models.Recipe
	if err := h.db.Preload("Tags").Order("id DESC").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	type row struct {
		recipes.RecipeDetailResponse
		UserID uint `json:"user_id"`
	}
	responses := make([]row, len(all))
	for i, recipe := range all {
		responses[i] = row{
			RecipeDetailResponse: recipes.NewRecipeDetailResponse(recipe),
			UserID:               recipe.UserID,
		}
	}

	c.JSON(http.StatusOK, responses)
}

// ListTags returns a raw listing of all tags across users (staff only)
func (h *Handler) ListTags(c *gin.Context) {
	var all []models.Tag
	if err := h.db.Order("id DESC").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
		return
	}

	type row struct {
		tags.TagResponse
		UserID uint `json:"user_id"`
	}
	responses := make([]row, len(all))
	for i, tag := range all {
		responses[i] = row{
			TagResponse: tags.NewTagResponse(tag),
			UserID:      tag.UserID,
		}
	}

	c.JSON(http.StatusOK, responses)
}

// GetStats returns system-wide statistics (staff only)
func (h *Handler) GetStats(c *gin.Context) {
	var stats StatsResponse

	h.db.Model(&models.User{}).Count(&stats.TotalUsers)
	h.db.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.ActiveUsers)
	h.db.Model(&models.User{}).Where("is_staff = ?", true).Count(&stats.StaffUsers)
	h.db.Model(&models.Recipe{}).Count(&stats.TotalRecipes)
	h.db.Model(&models.Tag{}).Count(&stats.TotalTags)
	h.db.Model(&models.AuthToken{}).Count(&stats.TotalTokens)

	c.JSON(http.StatusOK, stats)
}

// RegisterRoutes registers admin console routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login/", h.Login)

	protected := rg.Group("", SessionMiddleware(h.db), RequireStaff())
	protected.GET("/stats/", h.GetStats)
	protected.GET("/users/", h.ListUsers)
	protected.GET("/users/:id/", h.GetUser)
	protected.PATCH("/users/:id/", h.UpdateUser)
	protected.GET("/recipes/", h.ListRecipes)
	protected.GET("/tags/", h.ListTags)
}
