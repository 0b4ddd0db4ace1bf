package slaconfig

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/opsdesk/opsdesk/internal/db"
	"github.com/opsdesk/opsdesk/internal/models"
)

// duplicateTupleMessage is reported both when the validator pre-check finds a
// duplicate and when the store's unique index rejects a write that raced a
// concurrent operation on the same tuple.
const duplicateTupleMessage = "an active configuration already exists for this department, incident type and priority"

// Create validates and persists a single configuration. On success it returns
// any non-blocking warnings; on rule violations it returns a ValidationError
// and nothing is persisted.
func (e *Engine) Create(ctx context.Context, c *models.SLAConfiguration) ([]string, error) {
	res, err := e.Validate(ctx, c)
	if err != nil {
		return nil, err
	}
	if !res.IsValid {
		return nil, res.asError()
	}

	if err := e.store.CreateSLAConfiguration(ctx, c); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, &ValidationError{Errors: []FieldError{{Field: "scope", Message: duplicateTupleMessage}}}
		}
		return nil, fmt.Errorf("create configuration: %w", err)
	}

	e.logger.Info().
		Str("config_id", c.ID.String()).
		Str("company_id", c.CompanyID.String()).
		Str("department_id", c.DepartmentID.String()).
		Msg("sla configuration created")

	return res.Warnings, nil
}

// Update validates and persists changes to an existing configuration.
func (e *Engine) Update(ctx context.Context, c *models.SLAConfiguration) ([]string, error) {
	res, err := e.Validate(ctx, c)
	if err != nil {
		return nil, err
	}
	if !res.IsValid {
		return nil, res.asError()
	}

	if err := e.store.UpdateSLAConfiguration(ctx, c); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, &ValidationError{Errors: []FieldError{{Field: "scope", Message: duplicateTupleMessage}}}
		}
		if errors.Is(err, db.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update configuration: %w", err)
	}

	return res.Warnings, nil
}

// Delete hard-deletes a configuration by id. This is distinct from disabling
// via is_active: deletion supports cleanup, disabling supports suspension.
func (e *Engine) Delete(ctx context.Context, id uuid.UUID) error {
	return e.store.DeleteSLAConfiguration(ctx, id)
}

// CreateItem is one candidate within a bulk create. Company and department
// come from the enclosing call.
type CreateItem struct {
	IncidentTypeID      uuid.UUID  `json:"incident_type_id"`
	PriorityID          *uuid.UUID `json:"priority_id"`
	ResponseTimeHours   float64    `json:"response_time_hours"`
	ResolutionTimeHours float64    `json:"resolution_time_hours"`
	IsActive            *bool      `json:"is_active"`
}

// BulkCreateResult reports a best-effort bulk create: successfully created
// rows plus one ItemError per rejected item, both in input order.
type BulkCreateResult struct {
	Created []*models.SLAConfiguration `json:"created"`
	Errors  []ItemError                `json:"errors"`
}

// BulkCreate validates and creates each item independently. One item's
// failure is recorded and does not block its siblings; items are processed in
// input order so a duplicate tuple later in the batch loses to an earlier one.
func (e *Engine) BulkCreate(ctx context.Context, companyID, departmentID uuid.UUID, items []CreateItem) (*BulkCreateResult, error) {
	result := &BulkCreateResult{
		Created: []*models.SLAConfiguration{},
		Errors:  []ItemError{},
	}

	for i, item := range items {
		candidate := models.NewSLAConfiguration(companyID, departmentID, item.IncidentTypeID, item.PriorityID,
			item.ResponseTimeHours, item.ResolutionTimeHours)
		if item.IsActive != nil {
			candidate.IsActive = *item.IsActive
		}

		res, err := e.Validate(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if !res.IsValid {
			result.Errors = append(result.Errors, ItemError{Index: i, Message: joinFieldErrors(res.Errors)})
			bulkItemsTotal.WithLabelValues("create", outcomeInvalid).Inc()
			continue
		}

		if err := e.store.CreateSLAConfiguration(ctx, candidate); err != nil {
			if db.IsUniqueViolation(err) {
				result.Errors = append(result.Errors, ItemError{Index: i, Message: duplicateTupleMessage})
				bulkItemsTotal.WithLabelValues("create", outcomeInvalid).Inc()
				continue
			}
			e.logger.Error().Err(err).Int("index", i).Msg("bulk create item failed")
			result.Errors = append(result.Errors, ItemError{Index: i, Message: "failed to store configuration"})
			bulkItemsTotal.WithLabelValues("create", outcomeFailed).Inc()
			continue
		}

		result.Created = append(result.Created, candidate)
		bulkItemsTotal.WithLabelValues("create", outcomeOK).Inc()
	}

	return result, nil
}

// UpdateItem is one partial update within a bulk update, keyed by id. Nil
// fields are left unchanged; PriorityWildcard resets the priority to the
// wildcard default.
type UpdateItem struct {
	ID                  uuid.UUID  `json:"id"`
	IncidentTypeID      *uuid.UUID `json:"incident_type_id"`
	PriorityID          *uuid.UUID `json:"priority_id"`
	PriorityWildcard    bool       `json:"priority_wildcard"`
	ResponseTimeHours   *float64   `json:"response_time_hours"`
	ResolutionTimeHours *float64   `json:"resolution_time_hours"`
	IsActive            *bool      `json:"is_active"`
}

// BulkUpdateResult reports a best-effort bulk update.
type BulkUpdateResult struct {
	Updated []*models.SLAConfiguration `json:"updated"`
	Errors  []ItemError                `json:"errors"`
}

// BulkUpdate applies each update independently. Items whose id does not exist
// under the stated company and department are reported as per-item errors.
func (e *Engine) BulkUpdate(ctx context.Context, companyID, departmentID uuid.UUID, items []UpdateItem) (*BulkUpdateResult, error) {
	result := &BulkUpdateResult{
		Updated: []*models.SLAConfiguration{},
		Errors:  []ItemError{},
	}

	for i, item := range items {
		id := item.ID
		existing, err := e.store.GetSLAConfigurationByID(ctx, id)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				result.Errors = append(result.Errors, ItemError{Index: i, ID: &id, Message: "configuration not found"})
				bulkItemsTotal.WithLabelValues("update", outcomeInvalid).Inc()
				continue
			}
			return nil, fmt.Errorf("load configuration %s: %w", id, err)
		}
		if existing.CompanyID != companyID || existing.DepartmentID != departmentID {
			result.Errors = append(result.Errors, ItemError{Index: i, ID: &id, Message: "configuration not found"})
			bulkItemsTotal.WithLabelValues("update", outcomeInvalid).Inc()
			continue
		}

		updated := *existing
		if item.IncidentTypeID != nil {
			updated.IncidentTypeID = *item.IncidentTypeID
		}
		if item.PriorityWildcard {
			updated.PriorityID = nil
		} else if item.PriorityID != nil {
			updated.PriorityID = item.PriorityID
		}
		if item.ResponseTimeHours != nil {
			updated.ResponseTimeHours = *item.ResponseTimeHours
		}
		if item.ResolutionTimeHours != nil {
			updated.ResolutionTimeHours = *item.ResolutionTimeHours
		}
		if item.IsActive != nil {
			updated.IsActive = *item.IsActive
		}

		res, err := e.Validate(ctx, &updated)
		if err != nil {
			return nil, err
		}
		if !res.IsValid {
			result.Errors = append(result.Errors, ItemError{Index: i, ID: &id, Message: joinFieldErrors(res.Errors)})
			bulkItemsTotal.WithLabelValues("update", outcomeInvalid).Inc()
			continue
		}

		if err := e.store.UpdateSLAConfiguration(ctx, &updated); err != nil {
			if db.IsUniqueViolation(err) {
				result.Errors = append(result.Errors, ItemError{Index: i, ID: &id, Message: duplicateTupleMessage})
				bulkItemsTotal.WithLabelValues("update", outcomeInvalid).Inc()
				continue
			}
			e.logger.Error().Err(err).Str("config_id", id.String()).Msg("bulk update item failed")
			result.Errors = append(result.Errors, ItemError{Index: i, ID: &id, Message: "failed to store configuration"})
			bulkItemsTotal.WithLabelValues("update", outcomeFailed).Inc()
			continue
		}

		result.Updated = append(result.Updated, &updated)
		bulkItemsTotal.WithLabelValues("update", outcomeOK).Inc()
	}

	return result, nil
}

// BulkDeleteResult lets the caller detect partial completion by comparing the
// two counts.
type BulkDeleteResult struct {
	DeletedCount   int `json:"deleted_count"`
	RequestedCount int `json:"requested_count"`
}

// BulkDelete hard-deletes each id independently. Missing rows are simply not
// counted.
func (e *Engine) BulkDelete(ctx context.Context, ids []uuid.UUID) (*BulkDeleteResult, error) {
	result := &BulkDeleteResult{RequestedCount: len(ids)}

	for _, id := range ids {
		err := e.store.DeleteSLAConfiguration(ctx, id)
		switch {
		case err == nil:
			result.DeletedCount++
			bulkItemsTotal.WithLabelValues("delete", outcomeOK).Inc()
		case errors.Is(err, db.ErrNotFound):
			bulkItemsTotal.WithLabelValues("delete", outcomeInvalid).Inc()
		default:
			e.logger.Error().Err(err).Str("config_id", id.String()).Msg("bulk delete item failed")
			bulkItemsTotal.WithLabelValues("delete", outcomeFailed).Inc()
		}
	}

	return result, nil
}

// BulkToggleResult reports a best-effort bulk active toggle.
type BulkToggleResult struct {
	Updated []*models.SLAConfiguration `json:"updated"`
	Errors  []ItemError                `json:"errors"`
}

// BulkToggleActive sets is_active on each id independently. Rows already in
// the requested state are returned unchanged without a write, so repeating a
// toggle is a no-op. Re-enabling a row whose tuple has since been taken by
// another active row is reported as a per-item error.
func (e *Engine) BulkToggleActive(ctx context.Context, ids []uuid.UUID, isActive bool) (*BulkToggleResult, error) {
	result := &BulkToggleResult{
		Updated: []*models.SLAConfiguration{},
		Errors:  []ItemError{},
	}

	for i, id := range ids {
		id := id
		existing, err := e.store.GetSLAConfigurationByID(ctx, id)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				result.Errors = append(result.Errors, ItemError{Index: i, ID: &id, Message: "configuration not found"})
				bulkItemsTotal.WithLabelValues("toggle", outcomeInvalid).Inc()
				continue
			}
			return nil, fmt.Errorf("load configuration %s: %w", id, err)
		}

		if existing.IsActive == isActive {
			result.Updated = append(result.Updated, existing)
			bulkItemsTotal.WithLabelValues("toggle", outcomeOK).Inc()
			continue
		}

		existing.IsActive = isActive
		if err := e.store.UpdateSLAConfiguration(ctx, existing); err != nil {
			if db.IsUniqueViolation(err) {
				result.Errors = append(result.Errors, ItemError{Index: i, ID: &id, Message: duplicateTupleMessage})
				bulkItemsTotal.WithLabelValues("toggle", outcomeInvalid).Inc()
				continue
			}
			e.logger.Error().Err(err).Str("config_id", id.String()).Msg("bulk toggle item failed")
			result.Errors = append(result.Errors, ItemError{Index: i, ID: &id, Message: "failed to store configuration"})
			bulkItemsTotal.WithLabelValues("toggle", outcomeFailed).Inc()
			continue
		}

		result.Updated = append(result.Updated, existing)
		bulkItemsTotal.WithLabelValues("toggle", outcomeOK).Inc()
	}

	return result, nil
}

// joinFieldErrors flattens field errors into a single per-item message.
func joinFieldErrors(errs []FieldError) string {
	parts := make([]string, len(errs))
	for i, fe := range errs {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}
