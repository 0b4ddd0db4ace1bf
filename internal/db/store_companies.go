package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/opsdesk/internal/models"
)

// ListCompanies returns all companies.
func (db *DB) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, is_active, created_at, updated_at
		FROM companies
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return companies, nil
}

// GetCompanyByID returns a company by ID.
func (db *DB) GetCompanyByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var c models.Company
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, is_active, created_at, updated_at
		FROM companies
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// CreateCompany inserts a new company.
func (db *DB) CreateCompany(ctx context.Context, c *models.Company) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO companies (id, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Name, c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}

// UpdateCompany updates an existing company.
func (db *DB) UpdateCompany(ctx context.Context, c *models.Company) error {
	c.UpdatedAt = time.Now()
	tag, err := db.Pool.Exec(ctx, `
		UPDATE companies
		SET name = $2, is_active = $3, updated_at = $4
		WHERE id = $1
	`, c.ID, c.Name, c.IsActive, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
