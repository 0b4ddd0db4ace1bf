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

// IncidentTypeStore defines the interface for incident type persistence operations.
type IncidentTypeStore interface {
	ListIncidentTypesByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.IncidentType, error)
	GetIncidentTypeByID(ctx context.Context, id uuid.UUID) (*models.IncidentType, error)
	CreateIncidentType(ctx context.Context, it *models.IncidentType) error
	UpdateIncidentType(ctx context.Context, it *models.IncidentType) error
}

// IncidentTypesHandler handles incident type HTTP endpoints.
type IncidentTypesHandler struct {
	store  IncidentTypeStore
	logger zerolog.Logger
}

// NewIncidentTypesHandler creates a new IncidentTypesHandler.
func NewIncidentTypesHandler(store IncidentTypeStore, logger zerolog.Logger) *IncidentTypesHandler {
	return &IncidentTypesHandler{
		store:  store,
		logger: logger.With().Str("component", "incident_types_handler").Logger(),
	}
}

// RegisterRoutes registers incident type routes on the given router group.
func (h *IncidentTypesHandler) RegisterRoutes(r *gin.RouterGroup) {
	types := r.Group("/incident-types")
	{
		types.GET("", h.List)
		types.POST("", h.Create)
		types.GET("/:id", h.Get)
		types.PUT("/:id", h.Update)
	}
}

// List returns all incident types of a company.
// GET /api/v1/incident-types?company_id=...
func (h *IncidentTypesHandler) List(c *gin.Context) {
	companyID, err := uuid.Parse(c.Query("company_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company_id"})
		return
	}

	types, err := h.store.ListIncidentTypesByCompanyID(c.Request.Context(), companyID)
	if err != nil {
		h.logger.Error().Err(err).Str("company_id", companyID.String()).Msg("failed to list incident types")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list incident types"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"incident_types": types})
}

// Get returns a specific incident type by ID.
// GET /api/v1/incident-types/:id
func (h *IncidentTypesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident type ID"})
		return
	}

	incidentType, err := h.store.GetIncidentTypeByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "incident type not found"})
			return
		}
		h.logger.Error().Err(err).Str("incident_type_id", id.String()).Msg("failed to get incident type")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get incident type"})
		return
	}

	c.JSON(http.StatusOK, incidentType)
}

// Create creates a new incident type.
// POST /api/v1/incident-types
func (h *IncidentTypesHandler) Create(c *gin.Context) {
	var req struct {
		CompanyID   uuid.UUID `json:"company_id"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.CompanyID == uuid.Nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_id and name are required"})
		return
	}

	incidentType := models.NewIncidentType(req.CompanyID, req.Name, req.Description)
	if err := h.store.CreateIncidentType(c.Request.Context(), incidentType); err != nil {
		h.logger.Error().Err(err).Msg("failed to create incident type")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create incident type"})
		return
	}

	c.JSON(http.StatusCreated, incidentType)
}

// Update applies a partial update to an incident type. Like departments,
// incident types soft-disable via is_active rather than hard-delete.
// PUT /api/v1/incident-types/:id
func (h *IncidentTypesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident type ID"})
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	incidentType, err := h.store.GetIncidentTypeByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "incident type not found"})
			return
		}
		h.logger.Error().Err(err).Str("incident_type_id", id.String()).Msg("failed to load incident type")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update incident type"})
		return
	}

	if req.Name != nil {
		incidentType.Name = *req.Name
	}
	if req.Description != nil {
		incidentType.Description = *req.Description
	}
	if req.IsActive != nil {
		incidentType.IsActive = *req.IsActive
	}

	if err := h.store.UpdateIncidentType(c.Request.Context(), incidentType); err != nil {
		h.logger.Error().Err(err).Str("incident_type_id", id.String()).Msg("failed to update incident type")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update incident type"})
		return
	}

	c.JSON(http.StatusOK, incidentType)
}
