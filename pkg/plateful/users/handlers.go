package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plateful/plateful/pkg/plateful/accounts"
	"github.com/plateful/plateful/pkg/plateful/auth"
	"gorm.io/gorm"
)

// Handler handles user signup, token issue and profile self-service
type Handler struct {
	db    *gorm.DB
	store *accounts.Store
}

// NewHandler creates a new users handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, store: accounts.NewStore(db)}
}

// CreateUserRequest represents the signup request body
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// TokenRequest represents the credential exchange request body
type TokenRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the issued bearer token
type TokenResponse struct {
	Token string `json:"token"`
}

// UpdateMeRequest represents a partial profile update
type UpdateMeRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// UserResponse represents user data in responses; the password never
// appears here in any form
type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Create handles user signup
// @Summary Register a new user
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "Signup details"
// @Success 201 {object} UserResponse
// @Failure 400 {object} map[string]string "Duplicate email or invalid payload"
// @Router /user/create/ [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.CreateUser(req.Email, req.Password, req.Name, false)
	if err != nil {
		if errors.Is(err, accounts.ErrEmailTaken) || errors.Is(err, accounts.ErrPasswordTooShort) || errors.Is(err, accounts.ErrEmailRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, UserResponse{Email: user.Email, Name: user.Name})
}

// Token exchanges valid credentials for the user's bearer token
// @Summary Issue an auth token
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} map[string]string "Bad credentials"
// @Router /user/token/ [post]
func (h *Handler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.Authenticate(req.Email, req.Password)
	if err != nil {
		// The token endpoint reports bad credentials as a validation
		// failure on the submitted form, not as 401.
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to authenticate with provided credentials"})
		return
	}

	token, err := auth.IssueToken(h.db, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Me returns the authenticated user's profile
// @Summary Get own profile
// @Produce json
// @Success 200 {object} UserResponse
// @Security BearerAuth
// @Router /user/me/ [get]
func (h *Handler) Me(c *gin.Context) {
	user, exists := auth.GetUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	c.JSON(http.StatusOK, UserResponse{Email: user.Email, Name: user.Name})
}

// UpdateMe partially updates the authenticated user's name and/or password
// @Summary Update own profile
// @Accept json
// @Produce json
// @Param request body UpdateMeRequest true "Fields to update"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string "Password too short"
// @Security BearerAuth
// @Router /user/me/ [patch]
func (h *Handler) UpdateMe(c *gin.Context) {
	user, exists := auth.GetUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.UpdateProfile(&user, req.Name, req.Password); err != nil {
		if errors.Is(err, accounts.ErrPasswordTooShort) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, UserResponse{Email: user.Email, Name: user.Name})
}

// RegisterRoutes registers user routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	authRequired := auth.TokenAuthMiddleware(h.db)
	rg.POST("/create/", h.Create)
	rg.POST("/token/", h.Token)
	rg.GET("/me/", authRequired, h.Me)
	rg.PUT("/me/", authRequired, h.UpdateMe)
	rg.PATCH("/me/", authRequired, h.UpdateMe)
}
