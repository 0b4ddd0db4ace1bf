// Package models defines the core data structures for Opsdesk.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Company represents a tenant. All configuration data is scoped to a company.
type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCompany creates a new active Company.
func NewCompany(name string) *Company {
	now := time.Now()
	return &Company{
		ID:        uuid.New(),
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
