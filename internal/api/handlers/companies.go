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

// CompanyStore defines the interface for company persistence operations.
type CompanyStore interface {
	ListCompanies(ctx context.Context) ([]*models.Company, error)
	GetCompanyByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	CreateCompany(ctx context.Context, c *models.Company) error
	UpdateCompany(ctx context.Context, c *models.Company) error
}

// CompaniesHandler handles company HTTP endpoints.
type CompaniesHandler struct {
	store  CompanyStore
	logger zerolog.Logger
}

// NewCompaniesHandler creates a new CompaniesHandler.
func NewCompaniesHandler(store CompanyStore, logger zerolog.Logger) *CompaniesHandler {
	return &CompaniesHandler{
		store:  store,
		logger: logger.With().Str("component", "companies_handler").Logger(),
	}
}

// RegisterRoutes registers company routes on the given router group.
func (h *CompaniesHandler) RegisterRoutes(r *gin.RouterGroup) {
	companies := r.Group("/companies")
	{
		companies.GET("", h.List)
		companies.POST("", h.Create)
		companies.GET("/:id", h.Get)
		companies.PUT("/:id", h.Update)
	}
}

// List returns all companies.
// GET /api/v1/companies
func (h *CompaniesHandler) List(c *gin.Context) {
	companies, err := h.store.ListCompanies(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list companies")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list companies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

// Get returns a specific company by ID.
// GET /api/v1/companies/:id
func (h *CompaniesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company ID"})
		return
	}

	company, err := h.store.GetCompanyByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
			return
		}
		h.logger.Error().Err(err).Str("company_id", id.String()).Msg("failed to get company")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get company"})
		return
	}

	c.JSON(http.StatusOK, company)
}

// Create creates a new company.
// POST /api/v1/companies
func (h *CompaniesHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	company := models.NewCompany(req.Name)
	if err := h.store.CreateCompany(c.Request.Context(), company); err != nil {
		h.logger.Error().Err(err).Msg("failed to create company")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create company"})
		return
	}

	c.JSON(http.StatusCreated, company)
}

// Update applies a partial update to a company.
// PUT /api/v1/companies/:id
func (h *CompaniesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company ID"})
		return
	}

	var req struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	company, err := h.store.GetCompanyByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
			return
		}
		h.logger.Error().Err(err).Str("company_id", id.String()).Msg("failed to load company")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update company"})
		return
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}

	if err := h.store.UpdateCompany(c.Request.Context(), company); err != nil {
		h.logger.Error().Err(err).Str("company_id", id.String()).Msg("failed to update company")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update company"})
		return
	}

	c.JSON(http.StatusOK, company)
}
