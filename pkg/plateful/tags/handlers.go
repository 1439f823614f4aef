package tags

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/plateful/plateful/pkg/plateful/auth"
	"github.com/plateful/plateful/pkg/plateful/models"
	"gorm.io/gorm"
)

// Handler handles tag-related requests
type Handler struct {
	db    *gorm.DB
	store *Store
}

// NewHandler creates a new tags handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, store: NewStore(db)}
}

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// UpdateTagRequest represents the request to rename a tag
type UpdateTagRequest struct {
	Name string `json:"name" binding:"required"`
}

// NewTagResponse converts a tag model to its API shape
func NewTagResponse(tag models.Tag) TagResponse {
	return TagResponse{ID: tag.ID, Name: tag.Name}
}

// NewTagResponses converts tag models to their API shape
func NewTagResponses(tags []models.Tag) []TagResponse {
	responses := make([]TagResponse, len(tags))
	for i, tag := range tags {
		responses[i] = NewTagResponse(tag)
	}
	return responses
}

// List returns the authenticated user's tags ordered by descending name
// @Summary List tags
// @Produce json
// @Success 200 {array} TagResponse
// @Security BearerAuth
// @Router /recipe/tag/ [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	tags, err := h.store.List(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
		return
	}

	c.JSON(http.StatusOK, NewTagResponses(tags))
}

// Update renames one of the authenticated user's tags
// @Summary Rename a tag
// @Accept json
// @Produce json
// @Success 200 {object} TagResponse
// @Security BearerAuth
// @Router /recipe/tag/{id}/ [patch]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		return
	}

	var req UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := h.store.Update(userID, uint(id), req.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
			return
		}
		if errors.Is(err, ErrNameRequired) || errors.Is(err, ErrNameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tag"})
		return
	}

	c.JSON(http.StatusOK, NewTagResponse(tag))
}

// Delete removes one of the authenticated user's tags
// @Summary Delete a tag
// @Success 204
// @Security BearerAuth
// @Router /recipe/tag/{id}/ [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		return
	}

	if err := h.store.Delete(userID, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tag"})
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers tag routes on the given router group.
// There is deliberately no create or retrieve-single endpoint: tags come
// into existence through recipes, and the list view is the read surface.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tag/", h.List)
	rg.PUT("/tag/:id/", h.Update)
	rg.PATCH("/tag/:id/", h.Update)
	rg.DELETE("/tag/:id/", h.Delete)
}
