package models

import (
	"time"

	"github.com/google/uuid"
)

// Department represents an organizational unit within a company.
// Departments are soft-disabled via IsActive rather than deleted, since
// SLA configurations and tickets reference them.
type Department struct {
	ID          uuid.UUID `json:"id"`
	CompanyID   uuid.UUID `json:"company_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDepartment creates a new active Department for a company.
func NewDepartment(companyID uuid.UUID, name, description string) *Department {
	now := time.Now()
	return &Department{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
