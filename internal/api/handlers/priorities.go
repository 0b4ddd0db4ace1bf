package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/opsdesk/opsdesk/internal/db"
	"github.com/opsdesk/opsdesk/internal/models"
	"github.com/rs/zerolog"
)

// PriorityStore defines the interface for priority persistence operations.
type PriorityStore interface {
	ListPrioritiesByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.Priority, error)
	GetPriorityByID(ctx context.Context, id uuid.UUID) (*models.Priority, error)
	CreatePriority(ctx context.Context, p *models.Priority) error
	UpdatePriority(ctx context.Context, p *models.Priority) error
}

// PrioritiesHandler handles priority HTTP endpoints.
type PrioritiesHandler struct {
	store  PriorityStore
	logger zerolog.Logger
}

// NewPrioritiesHandler creates a new PrioritiesHandler.
func NewPrioritiesHandler(store PriorityStore, logger zerolog.Logger) *PrioritiesHandler {
	return &PrioritiesHandler{
		store:  store,
		logger: logger.With().Str("component", "priorities_handler").Logger(),
	}
}

// RegisterRoutes registers priority routes on the given router group.
func (h *PrioritiesHandler) RegisterRoutes(r *gin.RouterGroup) {
	priorities := r.Group("/priorities")
	{
		priorities.GET("", h.List)
		priorities.POST("", h.Create)
		priorities.GET("/:id", h.Get)
		priorities.PUT("/:id", h.Update)
	}
}

// List returns all priorities of a company.
// GET /api/v1/priorities?company_id=...
func (h *PrioritiesHandler) List(c *gin.Context) {
	companyID, err := uuid.Parse(c.Query("company_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company_id"})
		return
	}

	priorities, err := h.store.ListPrioritiesByCompanyID(c.Request.Context(), companyID)
	if err != nil {
		h.logger.Error().Err(err).Str("company_id", companyID.String()).Msg("failed to list priorities")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list priorities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"priorities": priorities})
}

// Get returns a specific priority by ID.
// GET /api/v1/priorities/:id
func (h *PrioritiesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority ID"})
		return
	}

	priority, err := h.store.GetPriorityByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "priority not found"})
			return
		}
		h.logger.Error().Err(err).Str("priority_id", id.String()).Msg("failed to get priority")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get priority"})
		return
	}

	c.JSON(http.StatusOK, priority)
}

// Create creates a new priority.
// POST /api/v1/priorities
func (h *PrioritiesHandler) Create(c *gin.Context) {
	var req struct {
		CompanyID uuid.UUID `json:"company_id"`
		Name      string    `json:"name"`
		Level     int       `json:"level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.CompanyID == uuid.Nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_id and name are required"})
		return
	}
	if req.Level < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "level must be positive"})
		return
	}

	priority := models.NewPriority(req.CompanyID, req.Name, req.Level)
	if err := h.store.CreatePriority(c.Request.Context(), priority); err != nil {
		h.logger.Error().Err(err).Msg("failed to create priority")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create priority"})
		return
	}

	c.JSON(http.StatusCreated, priority)
}

// Update applies a partial update to a priority.
// PUT /api/v1/priorities/:id
func (h *PrioritiesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority ID"})
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Level    *int    `json:"level"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	priority, err := h.store.GetPriorityByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "priority not found"})
			return
		}
		h.logger.Error().Err(err).Str("priority_id", id.String()).Msg("failed to load priority")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update priority"})
		return
	}

	if req.Name != nil {
		priority.Name = *req.Name
	}
	if req.Level != nil {
		if *req.Level < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "level must be positive"})
			return
		}
		priority.Level = *req.Level
	}
	if req.IsActive != nil {
		priority.IsActive = *req.IsActive
	}

	if err := h.store.UpdatePriority(c.Request.Context(), priority); err != nil {
		h.logger.Error().Err(err).Str("priority_id", id.String()).Msg("failed to update priority")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update priority"})
		return
	}

	c.JSON(http.StatusOK, priority)
}
