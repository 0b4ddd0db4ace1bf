package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/opsdesk/opsdesk/internal/models"
)

// isNoRows reports whether err is a pgx no-rows result.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// ListDepartmentsByCompanyID returns all departments for a company.
func (db *DB) ListDepartmentsByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.Department, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, company_id, name, description, is_active, created_at, updated_at
		FROM departments
		WHERE company_id = $1
		ORDER BY name
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var departments []*models.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate departments: %w", err)
	}
	return departments, nil
}

// GetDepartmentByID returns a department by ID.
func (db *DB) GetDepartmentByID(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, company_id, name, description, is_active, created_at, updated_at
		FROM departments
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get department: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrNotFound
	}
	return scanDepartment(rows)
}

// CreateDepartment inserts a new department.
func (db *DB) CreateDepartment(ctx context.Context, d *models.Department) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO departments (id, company_id, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, d.ID, d.CompanyID, d.Name, d.Description, d.IsActive, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// UpdateDepartment updates an existing department.
func (db *DB) UpdateDepartment(ctx context.Context, d *models.Department) error {
	d.UpdatedAt = time.Now()
	tag, err := db.Pool.Exec(ctx, `
		UPDATE departments
		SET name = $2, description = $3, is_active = $4, updated_at = $5
		WHERE id = $1
	`, d.ID, d.Name, d.Description, d.IsActive, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanDepartment scans a row into a Department.
func scanDepartment(rows interface{ Scan(dest ...any) error }) (*models.Department, error) {
	var d models.Department
	var description *string
	err := rows.Scan(&d.ID, &d.CompanyID, &d.Name, &description, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan department: %w", err)
	}
	if description != nil {
		d.Description = *description
	}
	return &d, nil
}
