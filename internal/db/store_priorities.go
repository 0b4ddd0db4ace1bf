package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/opsdesk/internal/models"
)

// ListPrioritiesByCompanyID returns all priorities for a company ordered by level.
func (db *DB) ListPrioritiesByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.Priority, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, company_id, name, level, is_active, created_at, updated_at
		FROM priorities
		WHERE company_id = $1
		ORDER BY level DESC, name
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list priorities: %w", err)
	}
	defer rows.Close()

	var priorities []*models.Priority
	for rows.Next() {
		var p models.Priority
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Level, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan priority: %w", err)
		}
		priorities = append(priorities, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate priorities: %w", err)
	}
	return priorities, nil
}

// GetPriorityByID returns a priority by ID.
func (db *DB) GetPriorityByID(ctx context.Context, id uuid.UUID) (*models.Priority, error) {
	var p models.Priority
	err := db.Pool.QueryRow(ctx, `
		SELECT id, company_id, name, level, is_active, created_at, updated_at
		FROM priorities
		WHERE id = $1
	`, id).Scan(&p.ID, &p.CompanyID, &p.Name, &p.Level, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get priority: %w", err)
	}
	return &p, nil
}

// CreatePriority inserts a new priority.
func (db *DB) CreatePriority(ctx context.Context, p *models.Priority) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO priorities (id, company_id, name, level, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.CompanyID, p.Name, p.Level, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create priority: %w", err)
	}
	return nil
}

// UpdatePriority updates an existing priority.
func (db *DB) UpdatePriority(ctx context.Context, p *models.Priority) error {
	p.UpdatedAt = time.Now()
	tag, err := db.Pool.Exec(ctx, `
		UPDATE priorities
		SET name = $2, level = $3, is_active = $4, updated_at = $5
		WHERE id = $1
	`, p.ID, p.Name, p.Level, p.IsActive, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update priority: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
