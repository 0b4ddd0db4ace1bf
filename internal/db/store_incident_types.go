package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/opsdesk/internal/models"
)

// ListIncidentTypesByCompanyID returns all incident types for a company.
func (db *DB) ListIncidentTypesByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.IncidentType, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, company_id, name, description, is_active, created_at, updated_at
		FROM incident_types
		WHERE company_id = $1
		ORDER BY name
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list incident types: %w", err)
	}
	defer rows.Close()

	var types []*models.IncidentType
	for rows.Next() {
		it, err := scanIncidentType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incident types: %w", err)
	}
	return types, nil
}

// GetIncidentTypeByID returns an incident type by ID.
func (db *DB) GetIncidentTypeByID(ctx context.Context, id uuid.UUID) (*models.IncidentType, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, company_id, name, description, is_active, created_at, updated_at
		FROM incident_types
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get incident type: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrNotFound
	}
	return scanIncidentType(rows)
}

// CreateIncidentType inserts a new incident type.
func (db *DB) CreateIncidentType(ctx context.Context, it *models.IncidentType) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO incident_types (id, company_id, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, it.ID, it.CompanyID, it.Name, it.Description, it.IsActive, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create incident type: %w", err)
	}
	return nil
}

// UpdateIncidentType updates an existing incident type.
func (db *DB) UpdateIncidentType(ctx context.Context, it *models.IncidentType) error {
	it.UpdatedAt = time.Now()
	tag, err := db.Pool.Exec(ctx, `
		UPDATE incident_types
		SET name = $2, description = $3, is_active = $4, updated_at = $5
		WHERE id = $1
	`, it.ID, it.Name, it.Description, it.IsActive, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update incident type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanIncidentType scans a row into an IncidentType.
func scanIncidentType(rows interface{ Scan(dest ...any) error }) (*models.IncidentType, error) {
	var it models.IncidentType
	var description *string
	err := rows.Scan(&it.ID, &it.CompanyID, &it.Name, &description, &it.IsActive, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan incident type: %w", err)
	}
	if description != nil {
		it.Description = *description
	}
	return &it, nil
}
