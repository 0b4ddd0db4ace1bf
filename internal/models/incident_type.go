package models

import (
	"time"

	"github.com/google/uuid"
)

// IncidentType represents a ticket category within a company.
// Like departments, incident types are soft-disabled rather than deleted.
type IncidentType struct {
	ID          uuid.UUID `json:"id"`
	CompanyID   uuid.UUID `json:"company_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewIncidentType creates a new active IncidentType for a company.
func NewIncidentType(companyID uuid.UUID, name, description string) *IncidentType {
	now := time.Now()
	return &IncidentType{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
