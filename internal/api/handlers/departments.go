// Package handlers implements the HTTP endpoints of the Opsdesk API.
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

// DepartmentStore defines the interface for department persistence operations.
type DepartmentStore interface {
	ListDepartmentsByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.Department, error)
	GetDepartmentByID(ctx context.Context, id uuid.UUID) (*models.Department, error)
	CreateDepartment(ctx context.Context, d *models.Department) error
	UpdateDepartment(ctx context.Context, d *models.Department) error
}

// DepartmentsHandler handles department HTTP endpoints.
type DepartmentsHandler struct {
	store  DepartmentStore
	logger zerolog.Logger
}

// NewDepartmentsHandler creates a new DepartmentsHandler.
func NewDepartmentsHandler(store DepartmentStore, logger zerolog.Logger) *DepartmentsHandler {
	return &DepartmentsHandler{
		store:  store,
		logger: logger.With().Str("component", "departments_handler").Logger(),
	}
}

// RegisterRoutes registers department routes on the given router group.
func (h *DepartmentsHandler) RegisterRoutes(r *gin.RouterGroup) {
	departments := r.Group("/departments")
	{
		departments.GET("", h.List)
		departments.POST("", h.Create)
		departments.GET("/:id", h.Get)
		departments.PUT("/:id", h.Update)
	}
}

// List returns all departments of a company.
// GET /api/v1/departments?company_id=...
func (h *DepartmentsHandler) List(c *gin.Context) {
	companyID, err := uuid.Parse(c.Query("company_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company_id"})
		return
	}

	departments, err := h.store.ListDepartmentsByCompanyID(c.Request.Context(), companyID)
	if err != nil {
		h.logger.Error().Err(err).Str("company_id", companyID.String()).Msg("failed to list departments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list departments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"departments": departments})
}

// Get returns a specific department by ID.
// GET /api/v1/departments/:id
func (h *DepartmentsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid department ID"})
		return
	}

	department, err := h.store.GetDepartmentByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "department not found"})
			return
		}
		h.logger.Error().Err(err).Str("department_id", id.String()).Msg("failed to get department")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get department"})
		return
	}

	c.JSON(http.StatusOK, department)
}

// Create creates a new department.
// POST /api/v1/departments
func (h *DepartmentsHandler) Create(c *gin.Context) {
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

	department := models.NewDepartment(req.CompanyID, req.Name, req.Description)
	if err := h.store.CreateDepartment(c.Request.Context(), department); err != nil {
		h.logger.Error().Err(err).Msg("failed to create department")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create department"})
		return
	}

	c.JSON(http.StatusCreated, department)
}

// Update applies a partial update to a department. Setting is_active to false
// soft-disables it; departments are never hard-deleted.
// PUT /api/v1/departments/:id
func (h *DepartmentsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid department ID"})
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

	department, err := h.store.GetDepartmentByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "department not found"})
			return
		}
		h.logger.Error().Err(err).Str("department_id", id.String()).Msg("failed to load department")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update department"})
		return
	}

	if req.Name != nil {
		department.Name = *req.Name
	}
	if req.Description != nil {
		department.Description = *req.Description
	}
	if req.IsActive != nil {
		department.IsActive = *req.IsActive
	}

	if err := h.store.UpdateDepartment(c.Request.Context(), department); err != nil {
		h.logger.Error().Err(err).Str("department_id", id.String()).Msg("failed to update department")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update department"})
		return
	}

	c.JSON(http.StatusOK, department)
}
