package slaconfig

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/opsdesk/opsdesk/internal/db"
	"github.com/opsdesk/opsdesk/internal/models"
)

// fakeStore is an in-memory Store. It keeps configurations in insertion order
// and emulates the partial unique indexes on active tuples, returning the
// same Postgres error code the real store surfaces.
type fakeStore struct {
	configs       []*models.SLAConfiguration
	departments   map[uuid.UUID]*models.Department
	incidentTypes map[uuid.UUID]*models.IncidentType
	priorities    map[uuid.UUID]*models.Priority

	listErr   error
	getErr    error
	createErr error
	updateErr error
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		departments:   map[uuid.UUID]*models.Department{},
		incidentTypes: map[uuid.UUID]*models.IncidentType{},
		priorities:    map[uuid.UUID]*models.Priority{},
	}
}

func (f *fakeStore) addDepartment(companyID uuid.UUID) uuid.UUID {
	d := models.NewDepartment(companyID, "dept", "")
	f.departments[d.ID] = d
	return d.ID
}

func (f *fakeStore) addIncidentType(companyID uuid.UUID) uuid.UUID {
	it := models.NewIncidentType(companyID, "incident", "")
	f.incidentTypes[it.ID] = it
	return it.ID
}

func (f *fakeStore) addPriority(companyID uuid.UUID) uuid.UUID {
	p := models.NewPriority(companyID, "high", 3)
	f.priorities[p.ID] = p
	return p.ID
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "uniq_sla_active_tuple"}
}

func matchesFilter(c *models.SLAConfiguration, filter models.SLAConfigurationFilter) bool {
	if c.CompanyID != filter.CompanyID {
		return false
	}
	if filter.DepartmentID != nil && c.DepartmentID != *filter.DepartmentID {
		return false
	}
	if filter.IncidentTypeID != nil && c.IncidentTypeID != *filter.IncidentTypeID {
		return false
	}
	if filter.PriorityWildcard {
		if c.PriorityID != nil {
			return false
		}
	} else if filter.PriorityID != nil {
		if c.PriorityID == nil || *c.PriorityID != *filter.PriorityID {
			return false
		}
	}
	if filter.IsActive != nil && c.IsActive != *filter.IsActive {
		return false
	}
	return true
}

func (f *fakeStore) ListSLAConfigurations(_ context.Context, filter models.SLAConfigurationFilter) ([]*models.SLAConfiguration, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.SLAConfiguration
	for _, c := range f.configs {
		if matchesFilter(c, filter) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) GetSLAConfigurationByID(_ context.Context, id uuid.UUID) (*models.SLAConfiguration, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, c := range f.configs {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) hasActiveDuplicate(c *models.SLAConfiguration) bool {
	if !c.IsActive {
		return false
	}
	for _, other := range f.configs {
		if other.ID != c.ID && other.IsActive && other.SameTuple(c) {
			return true
		}
	}
	return false
}

func (f *fakeStore) CreateSLAConfiguration(_ context.Context, c *models.SLAConfiguration) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.hasActiveDuplicate(c) {
		return uniqueViolation()
	}
	cp := *c
	f.configs = append(f.configs, &cp)
	return nil
}

func (f *fakeStore) UpdateSLAConfiguration(_ context.Context, c *models.SLAConfiguration) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.hasActiveDuplicate(c) {
		return uniqueViolation()
	}
	for i, existing := range f.configs {
		if existing.ID == c.ID {
			cp := *c
			f.configs[i] = &cp
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeStore) DeleteSLAConfiguration(_ context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, c := range f.configs {
		if c.ID == id {
			f.configs = append(f.configs[:i], f.configs[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeStore) GetDepartmentByID(_ context.Context, id uuid.UUID) (*models.Department, error) {
	if d, ok := f.departments[id]; ok {
		return d, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) GetIncidentTypeByID(_ context.Context, id uuid.UUID) (*models.IncidentType, error) {
	if it, ok := f.incidentTypes[id]; ok {
		return it, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) GetPriorityByID(_ context.Context, id uuid.UUID) (*models.Priority, error) {
	if p, ok := f.priorities[id]; ok {
		return p, nil
	}
	return nil, db.ErrNotFound
}
