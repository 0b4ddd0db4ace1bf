package slaconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/opsdesk/opsdesk/internal/db"
	"github.com/opsdesk/opsdesk/internal/models"
)

// Typical threshold bounds. Values outside this range are legal but almost
// always operator typos, so they produce warnings rather than errors.
const (
	minTypicalResponseHours   = 0.25
	maxTypicalResolutionHours = 720
)

// ValidationResult reports whether a candidate configuration may be persisted.
// Errors block the operation; warnings do not.
type ValidationResult struct {
	IsValid  bool         `json:"is_valid"`
	Errors   []FieldError `json:"errors"`
	Warnings []string     `json:"warnings"`
}

func (r *ValidationResult) addError(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

func (r *ValidationResult) addWarning(message string) {
	r.Warnings = append(r.Warnings, message)
}

// asError converts an invalid result into a ValidationError, or nil if valid.
func (r *ValidationResult) asError() error {
	if r.IsValid {
		return nil
	}
	return &ValidationError{Errors: r.Errors, Warnings: r.Warnings}
}

// Validate checks a candidate configuration against structural and business
// rules. When the candidate carries a non-nil ID (an update), the duplicate
// check excludes that row. Only store failures are returned as errors;
// rule violations land in the result.
//
// The duplicate check is a pre-check: a concurrent write on the same tuple can
// still slip past it, which is why the mutators additionally map store-level
// unique violations to per-item failures.
func (e *Engine) Validate(ctx context.Context, c *models.SLAConfiguration) (*ValidationResult, error) {
	res := &ValidationResult{Errors: []FieldError{}, Warnings: []string{}}

	if c.CompanyID == uuid.Nil {
		res.addError("company_id", "company is required")
	}
	if c.DepartmentID == uuid.Nil {
		res.addError("department_id", "department is required")
	}
	if c.IncidentTypeID == uuid.Nil {
		res.addError("incident_type_id", "incident type is required")
	}
	if c.PriorityID != nil && *c.PriorityID == uuid.Nil {
		res.addError("priority_id", "priority must be a valid id or omitted for the wildcard default")
	}

	if c.ResponseTimeHours <= 0 {
		res.addError("response_time_hours", "response time must be positive")
	}
	if c.ResolutionTimeHours <= 0 {
		res.addError("resolution_time_hours", "resolution time must be positive")
	}
	if c.ResponseTimeHours > 0 && c.ResolutionTimeHours > 0 && c.ResponseTimeHours > c.ResolutionTimeHours {
		res.addError("response_time_hours", "response time cannot exceed resolution time")
	}

	if err := e.checkReferences(ctx, c, res); err != nil {
		return nil, err
	}

	if len(res.Errors) == 0 && c.IsActive {
		if err := e.checkDuplicate(ctx, c, res); err != nil {
			return nil, err
		}
	}

	if len(res.Errors) == 0 {
		if err := e.checkCoverage(ctx, c, res); err != nil {
			return nil, err
		}
		if c.ResponseTimeHours < minTypicalResponseHours {
			res.addWarning(fmt.Sprintf("response time of %.2f hours is unusually short", c.ResponseTimeHours))
		}
		if c.ResolutionTimeHours > maxTypicalResolutionHours {
			res.addWarning(fmt.Sprintf("resolution time of %.0f hours exceeds the typical maximum of %.0f", c.ResolutionTimeHours, float64(maxTypicalResolutionHours)))
		}
	}

	res.IsValid = len(res.Errors) == 0
	return res, nil
}

// checkReferences verifies that the department, incident type and priority
// exist and belong to the candidate's company. Cross-tenant references are
// rejected.
func (e *Engine) checkReferences(ctx context.Context, c *models.SLAConfiguration, res *ValidationResult) error {
	if c.CompanyID == uuid.Nil {
		return nil
	}

	if c.DepartmentID != uuid.Nil {
		dept, err := e.store.GetDepartmentByID(ctx, c.DepartmentID)
		switch {
		case errors.Is(err, db.ErrNotFound):
			res.addError("department_id", "department not found")
		case err != nil:
			return fmt.Errorf("check department reference: %w", err)
		case dept.CompanyID != c.CompanyID:
			res.addError("department_id", "department does not belong to the company")
		}
	}

	if c.IncidentTypeID != uuid.Nil {
		it, err := e.store.GetIncidentTypeByID(ctx, c.IncidentTypeID)
		switch {
		case errors.Is(err, db.ErrNotFound):
			res.addError("incident_type_id", "incident type not found")
		case err != nil:
			return fmt.Errorf("check incident type reference: %w", err)
		case it.CompanyID != c.CompanyID:
			res.addError("incident_type_id", "incident type does not belong to the company")
		}
	}

	if c.PriorityID != nil && *c.PriorityID != uuid.Nil {
		prio, err := e.store.GetPriorityByID(ctx, *c.PriorityID)
		switch {
		case errors.Is(err, db.ErrNotFound):
			res.addError("priority_id", "priority not found")
		case err != nil:
			return fmt.Errorf("check priority reference: %w", err)
		case prio.CompanyID != c.CompanyID:
			res.addError("priority_id", "priority does not belong to the company")
		}
	}

	return nil
}

// checkDuplicate rejects a second active row for the same
// (company, department, incident type, priority) tuple. On update the row
// itself is excluded.
func (e *Engine) checkDuplicate(ctx context.Context, c *models.SLAConfiguration, res *ValidationResult) error {
	active := true
	filter := models.SLAConfigurationFilter{
		CompanyID:      c.CompanyID,
		DepartmentID:   &c.DepartmentID,
		IncidentTypeID: &c.IncidentTypeID,
		IsActive:       &active,
	}
	if c.PriorityID == nil {
		filter.PriorityWildcard = true
	} else {
		filter.PriorityID = c.PriorityID
	}

	existing, err := e.store.ListSLAConfigurations(ctx, filter)
	if err != nil {
		return fmt.Errorf("check duplicate tuple: %w", err)
	}
	for _, row := range existing {
		if row.ID != c.ID {
			res.addError("scope", "an active configuration already exists for this department, incident type and priority")
			return nil
		}
	}
	return nil
}

// checkCoverage warns when a priority-specific rule has no wildcard default
// behind it: priorities without their own rule would then have no SLA at all.
func (e *Engine) checkCoverage(ctx context.Context, c *models.SLAConfiguration, res *ValidationResult) error {
	if c.PriorityID == nil {
		return nil
	}

	active := true
	wildcards, err := e.store.ListSLAConfigurations(ctx, models.SLAConfigurationFilter{
		CompanyID:        c.CompanyID,
		DepartmentID:     &c.DepartmentID,
		IncidentTypeID:   &c.IncidentTypeID,
		PriorityWildcard: true,
		IsActive:         &active,
	})
	if err != nil {
		return fmt.Errorf("check wildcard coverage: %w", err)
	}
	if len(wildcards) == 0 {
		res.addWarning("no wildcard default exists for this department and incident type; priorities without a specific rule will have no SLA")
	}
	return nil
}
