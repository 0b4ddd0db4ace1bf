// Package slaconfig implements SLA configuration resolution and bulk mutation.
//
// An SLA configuration maps a scope (company, department, incident type,
// optional priority) to response and resolution time thresholds. The engine
// validates candidates, resolves which configurations apply to a filter,
// mutates configurations in best-effort batches, and copies rule sets between
// departments.
package slaconfig

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsdesk/opsdesk/internal/models"
	"github.com/rs/zerolog"
)

// Store defines the database operations needed by the engine.
// Lookups for departments, incident types and priorities are read-only
// referential checks; the engine never mutates those entities.
type Store interface {
	ListSLAConfigurations(ctx context.Context, filter models.SLAConfigurationFilter) ([]*models.SLAConfiguration, error)
	GetSLAConfigurationByID(ctx context.Context, id uuid.UUID) (*models.SLAConfiguration, error)
	CreateSLAConfiguration(ctx context.Context, c *models.SLAConfiguration) error
	UpdateSLAConfiguration(ctx context.Context, c *models.SLAConfiguration) error
	DeleteSLAConfiguration(ctx context.Context, id uuid.UUID) error

	GetDepartmentByID(ctx context.Context, id uuid.UUID) (*models.Department, error)
	GetIncidentTypeByID(ctx context.Context, id uuid.UUID) (*models.IncidentType, error)
	GetPriorityByID(ctx context.Context, id uuid.UUID) (*models.Priority, error)
}

// Engine performs SLA configuration validation, resolution, bulk mutation and
// copying against an injected store. It holds no state of its own; calls may
// run concurrently and the store's unique indexes are the final arbiter
// against duplicate active tuples.
type Engine struct {
	store  Store
	logger zerolog.Logger
}

// NewEngine creates a new Engine backed by the given store.
func NewEngine(store Store, logger zerolog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger.With().Str("component", "slaconfig").Logger(),
	}
}
