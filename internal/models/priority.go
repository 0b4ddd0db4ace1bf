package models

import (
	"time"

	"github.com/google/uuid"
)

// Priority represents a ticket priority level within a company.
// Level orders priorities; higher values are more urgent.
type Priority struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Name      string    `json:"name"`
	Level     int       `json:"level"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPriority creates a new active Priority for a company.
func NewPriority(companyID uuid.UUID, name string, level int) *Priority {
	now := time.Now()
	return &Priority{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      name,
		Level:     level,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
