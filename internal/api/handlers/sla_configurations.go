package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/opsdesk/opsdesk/internal/db"
	"github.com/opsdesk/opsdesk/internal/models"
	"github.com/opsdesk/opsdesk/internal/slaconfig"
	"github.com/rs/zerolog"
)

// priorityWildcardParam is the query sentinel selecting wildcard rows, i.e.
// rows whose priority_id is NULL.
const priorityWildcardParam = "null"

// SLAConfigurationsHandler handles SLA configuration HTTP endpoints. All
// rule semantics live in the engine; the handler only translates HTTP.
type SLAConfigurationsHandler struct {
	engine *slaconfig.Engine
	logger zerolog.Logger
}

// NewSLAConfigurationsHandler creates a new SLAConfigurationsHandler.
func NewSLAConfigurationsHandler(engine *slaconfig.Engine, logger zerolog.Logger) *SLAConfigurationsHandler {
	return &SLAConfigurationsHandler{
		engine: engine,
		logger: logger.With().Str("component", "sla_configurations_handler").Logger(),
	}
}

// RegisterRoutes registers SLA configuration routes on the given router group.
func (h *SLAConfigurationsHandler) RegisterRoutes(r *gin.RouterGroup) {
	configs := r.Group("/sla-configurations")
	{
		configs.GET("", h.List)
		configs.POST("", h.Create)
		configs.GET("/effective", h.Effective)
		configs.POST("/bulk", h.BulkCreate)
		configs.PUT("/bulk", h.BulkUpdate)
		configs.DELETE("/bulk", h.BulkDelete)
		configs.PATCH("/bulk/toggle", h.BulkToggle)
		configs.POST("/copy", h.Copy)
		configs.POST("/validate", h.Validate)
		configs.GET("/:id", h.Get)
		configs.PUT("/:id", h.Update)
		configs.DELETE("/:id", h.Delete)
	}
}

// List returns SLA configurations matching the query filter.
// GET /api/v1/sla-configurations
func (h *SLAConfigurationsHandler) List(c *gin.Context) {
	companyID, err := uuid.Parse(c.Query("company_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid company_id"})
		return
	}

	filter := models.SLAConfigurationFilter{CompanyID: companyID}

	if v := c.Query("department_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid department_id"})
			return
		}
		filter.DepartmentID = &id
	}
	if v := c.Query("incident_type_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid incident_type_id"})
			return
		}
		filter.IncidentTypeID = &id
	}
	if v := c.Query("priority_id"); v != "" {
		if v == priorityWildcardParam {
			filter.PriorityWildcard = true
		} else {
			id, err := uuid.Parse(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid priority_id"})
				return
			}
			filter.PriorityID = &id
		}
	}
	if v := c.Query("is_active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid is_active"})
			return
		}
		filter.IsActive = &active
	}

	configs, err := h.engine.Resolve(c.Request.Context(), filter)
	if err != nil {
		h.respondEngineError(c, err, "failed to list sla configurations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": configs, "count": len(configs)})
}

// Effective returns the single configuration governing a concrete ticket
// scope, applying the exact-priority-then-wildcard fallback. data is null when
// no SLA applies.
// GET /api/v1/sla-configurations/effective
func (h *SLAConfigurationsHandler) Effective(c *gin.Context) {
	companyID, err := uuid.Parse(c.Query("company_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid company_id"})
		return
	}
	departmentID, err := uuid.Parse(c.Query("department_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid department_id"})
		return
	}
	incidentTypeID, err := uuid.Parse(c.Query("incident_type_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid incident_type_id"})
		return
	}

	var priorityID *uuid.UUID
	if v := c.Query("priority_id"); v != "" && v != priorityWildcardParam {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid priority_id"})
			return
		}
		priorityID = &id
	}

	config, err := h.engine.ResolveEffective(c.Request.Context(), companyID, departmentID, incidentTypeID, priorityID)
	if err != nil {
		h.respondEngineError(c, err, "failed to resolve effective sla")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": config})
}

// Get returns a specific SLA configuration by ID.
// GET /api/v1/sla-configurations/:id
func (h *SLAConfigurationsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid sla configuration ID"})
		return
	}

	config, err := h.engine.Get(c.Request.Context(), id)
	if err != nil {
		h.respondEngineError(c, err, "failed to get sla configuration")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": config})
}

// createRequest is the body for creating or validating a single configuration.
type createRequest struct {
	CompanyID           uuid.UUID  `json:"company_id"`
	DepartmentID        uuid.UUID  `json:"department_id"`
	IncidentTypeID      uuid.UUID  `json:"incident_type_id"`
	PriorityID          *uuid.UUID `json:"priority_id"`
	ResponseTimeHours   float64    `json:"response_time_hours"`
	ResolutionTimeHours float64    `json:"resolution_time_hours"`
	IsActive            *bool      `json:"is_active"`
}

func (req *createRequest) toModel() *models.SLAConfiguration {
	config := models.NewSLAConfiguration(req.CompanyID, req.DepartmentID, req.IncidentTypeID, req.PriorityID,
		req.ResponseTimeHours, req.ResolutionTimeHours)
	if req.IsActive != nil {
		config.IsActive = *req.IsActive
	}
	return config
}

// Create creates a new SLA configuration.
// POST /api/v1/sla-configurations
func (h *SLAConfigurationsHandler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	config := req.toModel()
	warnings, err := h.engine.Create(c.Request.Context(), config)
	if err != nil {
		h.respondEngineError(c, err, "failed to create sla configuration")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": config, "warnings": warnings})
}

// updateRequest is the body for a partial update of a single configuration.
// Nil fields are left unchanged; priority_wildcard resets the priority to the
// wildcard default.
type updateRequest struct {
	IncidentTypeID      *uuid.UUID `json:"incident_type_id"`
	PriorityID          *uuid.UUID `json:"priority_id"`
	PriorityWildcard    bool       `json:"priority_wildcard"`
	ResponseTimeHours   *float64   `json:"response_time_hours"`
	ResolutionTimeHours *float64   `json:"resolution_time_hours"`
	IsActive            *bool      `json:"is_active"`
}

// Update applies a partial update to an SLA configuration.
// PUT /api/v1/sla-configurations/:id
func (h *SLAConfigurationsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid sla configuration ID"})
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	config, err := h.engine.Get(c.Request.Context(), id)
	if err != nil {
		h.respondEngineError(c, err, "failed to load sla configuration")
		return
	}

	if req.IncidentTypeID != nil {
		config.IncidentTypeID = *req.IncidentTypeID
	}
	if req.PriorityWildcard {
		config.PriorityID = nil
	} else if req.PriorityID != nil {
		config.PriorityID = req.PriorityID
	}
	if req.ResponseTimeHours != nil {
		config.ResponseTimeHours = *req.ResponseTimeHours
	}
	if req.ResolutionTimeHours != nil {
		config.ResolutionTimeHours = *req.ResolutionTimeHours
	}
	if req.IsActive != nil {
		config.IsActive = *req.IsActive
	}

	warnings, err := h.engine.Update(c.Request.Context(), config)
	if err != nil {
		h.respondEngineError(c, err, "failed to update sla configuration")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": config, "warnings": warnings})
}

// Delete hard-deletes an SLA configuration.
// DELETE /api/v1/sla-configurations/:id
func (h *SLAConfigurationsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid sla configuration ID"})
		return
	}

	if err := h.engine.Delete(c.Request.Context(), id); err != nil {
		h.respondEngineError(c, err, "failed to delete sla configuration")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// bulkCreateRequest is the body for a bulk create.
type bulkCreateRequest struct {
	CompanyID      uuid.UUID              `json:"company_id"`
	DepartmentID   uuid.UUID              `json:"department_id"`
	Configurations []slaconfig.CreateItem `json:"configurations"`
}

// BulkCreate creates many configurations best-effort; per-item failures do
// not block siblings.
// POST /api/v1/sla-configurations/bulk
func (h *SLAConfigurationsHandler) BulkCreate(c *gin.Context) {
	var req bulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if req.CompanyID == uuid.Nil || req.DepartmentID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "company_id and department_id are required"})
		return
	}
	if len(req.Configurations) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "configurations must not be empty"})
		return
	}

	result, err := h.engine.BulkCreate(c.Request.Context(), req.CompanyID, req.DepartmentID, req.Configurations)
	if err != nil {
		h.respondEngineError(c, err, "bulk create failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"created":       result.Created,
		"created_count": len(result.Created),
		"errors":        result.Errors,
		"error_count":   len(result.Errors),
	})
}

// bulkUpdateRequest is the body for a bulk update.
type bulkUpdateRequest struct {
	CompanyID    uuid.UUID              `json:"company_id"`
	DepartmentID uuid.UUID              `json:"department_id"`
	Updates      []slaconfig.UpdateItem `json:"updates"`
}

// BulkUpdate applies partial updates to many configurations best-effort.
// PUT /api/v1/sla-configurations/bulk
func (h *SLAConfigurationsHandler) BulkUpdate(c *gin.Context) {
	var req bulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if req.CompanyID == uuid.Nil || req.DepartmentID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "company_id and department_id are required"})
		return
	}
	if len(req.Updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "updates must not be empty"})
		return
	}

	result, err := h.engine.BulkUpdate(c.Request.Context(), req.CompanyID, req.DepartmentID, req.Updates)
	if err != nil {
		h.respondEngineError(c, err, "bulk update failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"updated":       result.Updated,
		"updated_count": len(result.Updated),
		"errors":        result.Errors,
		"error_count":   len(result.Errors),
	})
}

// bulkDeleteRequest is the body for a bulk delete.
type bulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// BulkDelete hard-deletes many configurations. Missing ids are not errors;
// callers compare the two counts to detect partial completion.
// DELETE /api/v1/sla-configurations/bulk
func (h *SLAConfigurationsHandler) BulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ids must not be empty"})
		return
	}

	result, err := h.engine.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		h.respondEngineError(c, err, "bulk delete failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"deleted_count":   result.DeletedCount,
		"requested_count": result.RequestedCount,
	})
}

// bulkToggleRequest is the body for a bulk active toggle.
type bulkToggleRequest struct {
	IDs      []uuid.UUID `json:"ids"`
	IsActive *bool       `json:"is_active"`
}

// BulkToggle enables or disables many configurations best-effort.
// PATCH /api/v1/sla-configurations/bulk/toggle
func (h *SLAConfigurationsHandler) BulkToggle(c *gin.Context) {
	var req bulkToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ids must not be empty"})
		return
	}
	if req.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "is_active is required"})
		return
	}

	result, err := h.engine.BulkToggleActive(c.Request.Context(), req.IDs, *req.IsActive)
	if err != nil {
		h.respondEngineError(c, err, "bulk toggle failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"updated":       result.Updated,
		"updated_count": len(result.Updated),
		"errors":        result.Errors,
		"error_count":   len(result.Errors),
	})
}

// copyRequest is the body for copying a department's rule set.
type copyRequest struct {
	CompanyID         uuid.UUID `json:"company_id"`
	FromDepartmentID  uuid.UUID `json:"from_department_id"`
	ToDepartmentID    uuid.UUID `json:"to_department_id"`
	OverwriteExisting bool      `json:"overwrite_existing"`
}

// Copy clones one department's SLA configurations into another.
// POST /api/v1/sla-configurations/copy
func (h *SLAConfigurationsHandler) Copy(c *gin.Context) {
	var req copyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if req.CompanyID == uuid.Nil || req.FromDepartmentID == uuid.Nil || req.ToDepartmentID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "company_id, from_department_id and to_department_id are required"})
		return
	}

	result, err := h.engine.Copy(c.Request.Context(), req.FromDepartmentID, req.ToDepartmentID, req.CompanyID, req.OverwriteExisting)
	if err != nil {
		h.respondEngineError(c, err, "copy failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"copied":        result.Copied,
		"copied_count":  len(result.Copied),
		"skipped_count": result.Skipped,
		"errors":        result.Errors,
		"error_count":   len(result.Errors),
	})
}

// Validate runs the full rule validation for a candidate without persisting
// anything.
// POST /api/v1/sla-configurations/validate
func (h *SLAConfigurationsHandler) Validate(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	result, err := h.engine.Validate(c.Request.Context(), req.toModel())
	if err != nil {
		h.respondEngineError(c, err, "validation failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_valid": result.IsValid,
		"errors":   result.Errors,
		"warnings": result.Warnings,
	})
}

// respondEngineError translates engine errors to HTTP. Rule violations are
// client errors and never logged as system faults; unexpected store failures
// are logged and hidden behind a generic message.
func (h *SLAConfigurationsHandler) respondEngineError(c *gin.Context, err error, logMsg string) {
	var verr *slaconfig.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":  false,
			"errors":   verr.Errors,
			"warnings": verr.Warnings,
		})
		return
	}
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "sla configuration not found"})
		return
	}

	h.logger.Error().Err(err).Msg(logMsg)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
}
