package models

import (
	"time"

	"github.com/google/uuid"
)

// SLAConfiguration pairs a scope (company, department, incident type, optional
// priority) with response and resolution time thresholds. A nil PriorityID is
// the wildcard default: it applies to any priority without a specific override.
//
// At most one active configuration may exist per
// (company, department, incident type, priority) tuple; the database enforces
// this with partial unique indexes.
type SLAConfiguration struct {
	ID                  uuid.UUID  `json:"id"`
	CompanyID           uuid.UUID  `json:"company_id"`
	DepartmentID        uuid.UUID  `json:"department_id"`
	IncidentTypeID      uuid.UUID  `json:"incident_type_id"`
	PriorityID          *uuid.UUID `json:"priority_id"`
	ResponseTimeHours   float64    `json:"response_time_hours"`
	ResolutionTimeHours float64    `json:"resolution_time_hours"`
	IsActive            bool       `json:"is_active"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// SLAConfigurationFilter narrows an SLA configuration listing. CompanyID is
// required; all other fields are optional. PriorityWildcard selects only
// wildcard rows (priority_id IS NULL) and takes precedence over PriorityID.
type SLAConfigurationFilter struct {
	CompanyID        uuid.UUID
	DepartmentID     *uuid.UUID
	IncidentTypeID   *uuid.UUID
	PriorityID       *uuid.UUID
	PriorityWildcard bool
	IsActive         *bool
}

// NewSLAConfiguration creates a new active SLAConfiguration.
func NewSLAConfiguration(companyID, departmentID, incidentTypeID uuid.UUID, priorityID *uuid.UUID, responseHours, resolutionHours float64) *SLAConfiguration {
	now := time.Now()
	return &SLAConfiguration{
		ID:                  uuid.New(),
		CompanyID:           companyID,
		DepartmentID:        departmentID,
		IncidentTypeID:      incidentTypeID,
		PriorityID:          priorityID,
		ResponseTimeHours:   responseHours,
		ResolutionTimeHours: resolutionHours,
		IsActive:            true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// IsWildcard reports whether this configuration is a wildcard default
// (no specific priority).
func (c *SLAConfiguration) IsWildcard() bool {
	return c.PriorityID == nil
}

// SameTuple reports whether another configuration targets the same
// (company, department, incident type, priority) tuple.
func (c *SLAConfiguration) SameTuple(other *SLAConfiguration) bool {
	if c.CompanyID != other.CompanyID ||
		c.DepartmentID != other.DepartmentID ||
		c.IncidentTypeID != other.IncidentTypeID {
		return false
	}
	if c.PriorityID == nil || other.PriorityID == nil {
		return c.PriorityID == nil && other.PriorityID == nil
	}
	return *c.PriorityID == *other.PriorityID
}

// Clone returns a copy of the configuration with a new ID and the given
// department substituted, used when copying a rule set between departments.
func (c *SLAConfiguration) Clone(departmentID uuid.UUID) *SLAConfiguration {
	clone := NewSLAConfiguration(c.CompanyID, departmentID, c.IncidentTypeID, c.PriorityID, c.ResponseTimeHours, c.ResolutionTimeHours)
	clone.IsActive = c.IsActive
	return clone
}
