package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/opsdesk/opsdesk/internal/db"
	"github.com/opsdesk/opsdesk/internal/models"
	"github.com/opsdesk/opsdesk/internal/slaconfig"
	"github.com/rs/zerolog"
)

// doRequest performs a request against the router, JSON-encoding body when
// it is non-nil.
func doRequest(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return out
}

// memStore is an in-memory slaconfig.Store for handler tests. It emulates
// the database's partial unique indexes on active tuples.
type memStore struct {
	configs       []*models.SLAConfiguration
	departments   map[uuid.UUID]*models.Department
	incidentTypes map[uuid.UUID]*models.IncidentType
	priorities    map[uuid.UUID]*models.Priority
}

func newMemStore() *memStore {
	return &memStore{
		departments:   map[uuid.UUID]*models.Department{},
		incidentTypes: map[uuid.UUID]*models.IncidentType{},
		priorities:    map[uuid.UUID]*models.Priority{},
	}
}

func (m *memStore) addDepartment(companyID uuid.UUID) uuid.UUID {
	d := models.NewDepartment(companyID, "dept", "")
	m.departments[d.ID] = d
	return d.ID
}

func (m *memStore) addIncidentType(companyID uuid.UUID) uuid.UUID {
	it := models.NewIncidentType(companyID, "incident", "")
	m.incidentTypes[it.ID] = it
	return it.ID
}

func (m *memStore) addPriority(companyID uuid.UUID) uuid.UUID {
	p := models.NewPriority(companyID, "high", 3)
	m.priorities[p.ID] = p
	return p.ID
}

func (m *memStore) matches(c *models.SLAConfiguration, f models.SLAConfigurationFilter) bool {
	if c.CompanyID != f.CompanyID {
		return false
	}
	if f.DepartmentID != nil && c.DepartmentID != *f.DepartmentID {
		return false
	}
	if f.IncidentTypeID != nil && c.IncidentTypeID != *f.IncidentTypeID {
		return false
	}
	if f.PriorityWildcard {
		if c.PriorityID != nil {
			return false
		}
	} else if f.PriorityID != nil {
		if c.PriorityID == nil || *c.PriorityID != *f.PriorityID {
			return false
		}
	}
	if f.IsActive != nil && c.IsActive != *f.IsActive {
		return false
	}
	return true
}

func (m *memStore) ListSLAConfigurations(_ context.Context, f models.SLAConfigurationFilter) ([]*models.SLAConfiguration, error) {
	var out []*models.SLAConfiguration
	for _, c := range m.configs {
		if m.matches(c, f) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) GetSLAConfigurationByID(_ context.Context, id uuid.UUID) (*models.SLAConfiguration, error) {
	for _, c := range m.configs {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *memStore) hasActiveDuplicate(c *models.SLAConfiguration) bool {
	if !c.IsActive {
		return false
	}
	for _, other := range m.configs {
		if other.ID != c.ID && other.IsActive && other.SameTuple(c) {
			return true
		}
	}
	return false
}

func (m *memStore) CreateSLAConfiguration(_ context.Context, c *models.SLAConfiguration) error {
	if m.hasActiveDuplicate(c) {
		return &pgconn.PgError{Code: "23505", ConstraintName: "uniq_sla_active_tuple"}
	}
	cp := *c
	m.configs = append(m.configs, &cp)
	return nil
}

func (m *memStore) UpdateSLAConfiguration(_ context.Context, c *models.SLAConfiguration) error {
	if m.hasActiveDuplicate(c) {
		return &pgconn.PgError{Code: "23505", ConstraintName: "uniq_sla_active_tuple"}
	}
	for i, existing := range m.configs {
		if existing.ID == c.ID {
			cp := *c
			m.configs[i] = &cp
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *memStore) DeleteSLAConfiguration(_ context.Context, id uuid.UUID) error {
	for i, c := range m.configs {
		if c.ID == id {
			m.configs = append(m.configs[:i], m.configs[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *memStore) GetDepartmentByID(_ context.Context, id uuid.UUID) (*models.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, db.ErrNotFound
}

func (m *memStore) GetIncidentTypeByID(_ context.Context, id uuid.UUID) (*models.IncidentType, error) {
	if it, ok := m.incidentTypes[id]; ok {
		return it, nil
	}
	return nil, db.ErrNotFound
}

func (m *memStore) GetPriorityByID(_ context.Context, id uuid.UUID) (*models.Priority, error) {
	if p, ok := m.priorities[id]; ok {
		return p, nil
	}
	return nil, db.ErrNotFound
}

// setupSLARouter builds a router with only the SLA configuration routes
// mounted, backed by an engine over the given store.
func setupSLARouter(store slaconfig.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	engine := slaconfig.NewEngine(store, zerolog.Nop())
	h := NewSLAConfigurationsHandler(engine, zerolog.Nop())
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}
