package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/opsdesk/opsdesk/internal/models"
)

const slaConfigurationColumns = `id, company_id, department_id, incident_type_id, priority_id,
	       response_time_hours, resolution_time_hours, is_active, created_at, updated_at`

// ListSLAConfigurations returns all SLA configurations matching the filter,
// ordered by department, incident type, then wildcard rows last within a scope.
func (db *DB) ListSLAConfigurations(ctx context.Context, filter models.SLAConfigurationFilter) ([]*models.SLAConfiguration, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + slaConfigurationColumns + `
		FROM sla_configurations
		WHERE company_id = $1`)
	args := []any{filter.CompanyID}

	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		fmt.Fprintf(&sb, " AND department_id = $%d", len(args))
	}
	if filter.IncidentTypeID != nil {
		args = append(args, *filter.IncidentTypeID)
		fmt.Fprintf(&sb, " AND incident_type_id = $%d", len(args))
	}
	if filter.PriorityWildcard {
		sb.WriteString(" AND priority_id IS NULL")
	} else if filter.PriorityID != nil {
		args = append(args, *filter.PriorityID)
		fmt.Fprintf(&sb, " AND priority_id = $%d", len(args))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		fmt.Fprintf(&sb, " AND is_active = $%d", len(args))
	}

	sb.WriteString(" ORDER BY department_id, incident_type_id, priority_id NULLS LAST, created_at")

	rows, err := db.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list sla configurations: %w", err)
	}
	defer rows.Close()

	var configs []*models.SLAConfiguration
	for rows.Next() {
		c, err := scanSLAConfiguration(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sla configurations: %w", err)
	}
	return configs, nil
}

// GetSLAConfigurationByID returns an SLA configuration by ID.
func (db *DB) GetSLAConfigurationByID(ctx context.Context, id uuid.UUID) (*models.SLAConfiguration, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+slaConfigurationColumns+`
		FROM sla_configurations
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get sla configuration: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrNotFound
	}
	return scanSLAConfiguration(rows)
}

// CreateSLAConfiguration inserts a new SLA configuration. A unique-constraint
// violation on the active tuple index surfaces unwrapped so callers can map it
// to a per-item failure.
func (db *DB) CreateSLAConfiguration(ctx context.Context, c *models.SLAConfiguration) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO sla_configurations (id, company_id, department_id, incident_type_id, priority_id,
		                                response_time_hours, resolution_time_hours, is_active,
		                                created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, c.ID, c.CompanyID, c.DepartmentID, c.IncidentTypeID, c.PriorityID,
		c.ResponseTimeHours, c.ResolutionTimeHours, c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create sla configuration: %w", err)
	}
	return nil
}

// UpdateSLAConfiguration updates an existing SLA configuration.
func (db *DB) UpdateSLAConfiguration(ctx context.Context, c *models.SLAConfiguration) error {
	c.UpdatedAt = time.Now()

	tag, err := db.Pool.Exec(ctx, `
		UPDATE sla_configurations
		SET department_id = $2, incident_type_id = $3, priority_id = $4,
		    response_time_hours = $5, resolution_time_hours = $6, is_active = $7, updated_at = $8
		WHERE id = $1
	`, c.ID, c.DepartmentID, c.IncidentTypeID, c.PriorityID,
		c.ResponseTimeHours, c.ResolutionTimeHours, c.IsActive, c.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("update sla configuration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSLAConfiguration hard-deletes an SLA configuration. This is distinct
// from the is_active soft-disable: deleted rows are gone for good.
func (db *DB) DeleteSLAConfiguration(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM sla_configurations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sla configuration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanSLAConfiguration scans a row into an SLAConfiguration.
func scanSLAConfiguration(rows interface{ Scan(dest ...any) error }) (*models.SLAConfiguration, error) {
	var c models.SLAConfiguration
	err := rows.Scan(
		&c.ID, &c.CompanyID, &c.DepartmentID, &c.IncidentTypeID, &c.PriorityID,
		&c.ResponseTimeHours, &c.ResolutionTimeHours, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan sla configuration: %w", err)
	}
	return &c, nil
}
