package slaconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/opsdesk/opsdesk/internal/db"
	"github.com/opsdesk/opsdesk/internal/models"
)

// CopyResult reports the outcome of copying a department's rule set.
type CopyResult struct {
	Copied  []*models.SLAConfiguration `json:"copied"`
	Skipped int                        `json:"skipped"`
	Errors  []ItemError                `json:"errors"`
}

// Copy clones the active SLA configurations of one department into another
// within the same company.
//
// For each active source rule the target tuple is the destination department
// with the source's incident type and priority:
//   - target tuple occupied and overwriteExisting is false: the rule is
//     skipped, without error.
//   - target tuple occupied and overwriteExisting is true: the existing
//     target row's thresholds are overwritten in place. Its id is preserved
//     so references held elsewhere stay valid.
//   - target tuple free: a new row is created from the source with the
//     destination department substituted.
//
// A source rule whose incident type cannot be validated against the company
// is recorded as a per-item error and does not abort the copy.
func (e *Engine) Copy(ctx context.Context, fromDepartmentID, toDepartmentID, companyID uuid.UUID, overwriteExisting bool) (*CopyResult, error) {
	if fromDepartmentID == toDepartmentID {
		return nil, &ValidationError{Errors: []FieldError{{Field: "to_department_id", Message: "source and destination departments must differ"}}}
	}

	if err := e.checkCopyDepartment(ctx, "from_department_id", fromDepartmentID, companyID); err != nil {
		return nil, err
	}
	if err := e.checkCopyDepartment(ctx, "to_department_id", toDepartmentID, companyID); err != nil {
		return nil, err
	}

	active := true
	sources, err := e.store.ListSLAConfigurations(ctx, models.SLAConfigurationFilter{
		CompanyID:    companyID,
		DepartmentID: &fromDepartmentID,
		IsActive:     &active,
	})
	if err != nil {
		return nil, fmt.Errorf("list source configurations: %w", err)
	}

	targets, err := e.store.ListSLAConfigurations(ctx, models.SLAConfigurationFilter{
		CompanyID:    companyID,
		DepartmentID: &toDepartmentID,
		IsActive:     &active,
	})
	if err != nil {
		return nil, fmt.Errorf("list destination configurations: %w", err)
	}

	occupied := make(map[string]*models.SLAConfiguration, len(targets))
	for _, t := range targets {
		occupied[tupleKey(t.IncidentTypeID, t.PriorityID)] = t
	}

	result := &CopyResult{
		Copied: []*models.SLAConfiguration{},
		Errors: []ItemError{},
	}

	for i, src := range sources {
		srcID := src.ID

		it, err := e.store.GetIncidentTypeByID(ctx, src.IncidentTypeID)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("check incident type for %s: %w", srcID, err)
		}
		if err != nil || it.CompanyID != companyID {
			result.Errors = append(result.Errors, ItemError{Index: i, ID: &srcID, Message: "incident type is not valid for the company"})
			bulkItemsTotal.WithLabelValues("copy", outcomeInvalid).Inc()
			continue
		}

		key := tupleKey(src.IncidentTypeID, src.PriorityID)
		if existing, ok := occupied[key]; ok {
			if !overwriteExisting {
				result.Skipped++
				continue
			}

			existing.ResponseTimeHours = src.ResponseTimeHours
			existing.ResolutionTimeHours = src.ResolutionTimeHours
			if err := e.store.UpdateSLAConfiguration(ctx, existing); err != nil {
				e.logger.Error().Err(err).Str("config_id", existing.ID.String()).Msg("copy overwrite failed")
				result.Errors = append(result.Errors, ItemError{Index: i, ID: &srcID, Message: "failed to overwrite existing configuration"})
				bulkItemsTotal.WithLabelValues("copy", outcomeFailed).Inc()
				continue
			}
			result.Copied = append(result.Copied, existing)
			bulkItemsTotal.WithLabelValues("copy", outcomeOK).Inc()
			continue
		}

		clone := src.Clone(toDepartmentID)
		if err := e.store.CreateSLAConfiguration(ctx, clone); err != nil {
			if db.IsUniqueViolation(err) {
				result.Errors = append(result.Errors, ItemError{Index: i, ID: &srcID, Message: duplicateTupleMessage})
				bulkItemsTotal.WithLabelValues("copy", outcomeInvalid).Inc()
				continue
			}
			e.logger.Error().Err(err).Str("source_id", srcID.String()).Msg("copy create failed")
			result.Errors = append(result.Errors, ItemError{Index: i, ID: &srcID, Message: "failed to store configuration"})
			bulkItemsTotal.WithLabelValues("copy", outcomeFailed).Inc()
			continue
		}
		occupied[key] = clone
		result.Copied = append(result.Copied, clone)
		bulkItemsTotal.WithLabelValues("copy", outcomeOK).Inc()
	}

	e.logger.Info().
		Str("from_department_id", fromDepartmentID.String()).
		Str("to_department_id", toDepartmentID.String()).
		Int("copied", len(result.Copied)).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("sla configurations copied")

	return result, nil
}

// checkCopyDepartment verifies a copy endpoint department exists and belongs
// to the company. Failures abort the whole copy.
func (e *Engine) checkCopyDepartment(ctx context.Context, field string, departmentID, companyID uuid.UUID) error {
	dept, err := e.store.GetDepartmentByID(ctx, departmentID)
	if errors.Is(err, db.ErrNotFound) {
		return &ValidationError{Errors: []FieldError{{Field: field, Message: "department not found"}}}
	}
	if err != nil {
		return fmt.Errorf("check department %s: %w", departmentID, err)
	}
	if dept.CompanyID != companyID {
		return &ValidationError{Errors: []FieldError{{Field: field, Message: "department does not belong to the company"}}}
	}
	return nil
}

// tupleKey identifies the (incident type, priority) part of a configuration
// tuple within a single department.
func tupleKey(incidentTypeID uuid.UUID, priorityID *uuid.UUID) string {
	if priorityID == nil {
		return incidentTypeID.String() + "|*"
	}
	return incidentTypeID.String() + "|" + priorityID.String()
}
