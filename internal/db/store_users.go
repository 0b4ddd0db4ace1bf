package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/opsdesk/internal/models"
)

// ListUsersByCompanyID returns all users for a company.
func (db *DB) ListUsersByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.User, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, company_id, email, name, role, password_hash, is_active, created_at, updated_at
		FROM users
		WHERE company_id = $1
		ORDER BY email
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// GetUserByID returns a user by ID.
func (db *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, company_id, email, name, role, password_hash, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrNotFound
	}
	return scanUser(rows)
}

// CreateUser inserts a new user. The (company_id, email) pair is unique.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO users (id, company_id, email, name, role, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, u.ID, u.CompanyID, u.Email, u.Name, string(u.Role), u.PasswordHash, u.IsActive, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateUser updates an existing user.
func (db *DB) UpdateUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now()
	tag, err := db.Pool.Exec(ctx, `
		UPDATE users
		SET email = $2, name = $3, role = $4, password_hash = $5, is_active = $6, updated_at = $7
		WHERE id = $1
	`, u.ID, u.Email, u.Name, string(u.Role), u.PasswordHash, u.IsActive, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanUser scans a row into a User.
func scanUser(rows interface{ Scan(dest ...any) error }) (*models.User, error) {
	var u models.User
	var roleStr string
	err := rows.Scan(&u.ID, &u.CompanyID, &u.Email, &u.Name, &roleStr, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Role = models.UserRole(roleStr)
	return &u, nil
}
