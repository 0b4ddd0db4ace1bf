package slaconfig

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/opsdesk/opsdesk/internal/models"
)

// Resolve returns all SLA configurations matching the filter. It performs no
// precedence selection; callers wanting the single effective SLA for a ticket
// use ResolveEffective. Results are read directly from the store on every
// call; freshness is guaranteed by the HTTP layer disabling response caching.
func (e *Engine) Resolve(ctx context.Context, filter models.SLAConfigurationFilter) ([]*models.SLAConfiguration, error) {
	if filter.CompanyID == uuid.Nil {
		return nil, &ValidationError{Errors: []FieldError{{Field: "company_id", Message: "company is required"}}}
	}

	configs, err := e.store.ListSLAConfigurations(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("resolve configurations: %w", err)
	}
	return configs, nil
}

// Get returns a single configuration by id.
func (e *Engine) Get(ctx context.Context, id uuid.UUID) (*models.SLAConfiguration, error) {
	return e.store.GetSLAConfigurationByID(ctx, id)
}

// ResolveEffective picks the configuration governing a concrete ticket scope:
// first the active row matching the ticket's exact priority, then the active
// wildcard row for the same company, department and incident type. A nil
// result with nil error means no SLA applies.
func (e *Engine) ResolveEffective(ctx context.Context, companyID, departmentID, incidentTypeID uuid.UUID, priorityID *uuid.UUID) (*models.SLAConfiguration, error) {
	active := true

	if priorityID != nil {
		exact, err := e.store.ListSLAConfigurations(ctx, models.SLAConfigurationFilter{
			CompanyID:      companyID,
			DepartmentID:   &departmentID,
			IncidentTypeID: &incidentTypeID,
			PriorityID:     priorityID,
			IsActive:       &active,
		})
		if err != nil {
			return nil, fmt.Errorf("resolve exact priority: %w", err)
		}
		if len(exact) > 0 {
			return exact[0], nil
		}
	}

	wildcards, err := e.store.ListSLAConfigurations(ctx, models.SLAConfigurationFilter{
		CompanyID:        companyID,
		DepartmentID:     &departmentID,
		IncidentTypeID:   &incidentTypeID,
		PriorityWildcard: true,
		IsActive:         &active,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve wildcard fallback: %w", err)
	}
	if len(wildcards) > 0 {
		return wildcards[0], nil
	}

	return nil, nil
}
