package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/opsdesk/opsdesk/internal/models"
)

const slaBase = "/api/v1/sla-configurations"

func seedSLAStore() (*memStore, uuid.UUID, uuid.UUID, uuid.UUID, uuid.UUID) {
	store := newMemStore()
	companyID := uuid.New()
	deptID := store.addDepartment(companyID)
	typeID := store.addIncidentType(companyID)
	prioID := store.addPriority(companyID)
	return store, companyID, deptID, typeID, prioID
}

func TestSLAConfigurationsList(t *testing.T) {
	store, companyID, deptID, typeID, prioID := seedSLAStore()
	r := setupSLARouter(store)

	specific := models.NewSLAConfiguration(companyID, deptID, typeID, &prioID, 2, 8)
	wildcard := models.NewSLAConfiguration(companyID, deptID, typeID, nil, 8, 24)
	store.configs = append(store.configs, specific, wildcard)

	t.Run("requires company_id", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, slaBase, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("company filter", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, slaBase+"?company_id="+companyID.String(), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		body := decodeBody(t, w)
		if body["success"] != true {
			t.Fatal("expected success true")
		}
		if body["count"] != float64(2) {
			t.Fatalf("expected count 2, got %v", body["count"])
		}
	})

	t.Run("wildcard sentinel", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, slaBase+"?company_id="+companyID.String()+"&priority_id=null", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := decodeBody(t, w)
		if body["count"] != float64(1) {
			t.Fatalf("expected only the wildcard row, got count %v", body["count"])
		}
	})

	t.Run("invalid priority_id", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, slaBase+"?company_id="+companyID.String()+"&priority_id=bogus", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("is_active filter", func(t *testing.T) {
		disabled := models.NewSLAConfiguration(companyID, deptID, typeID, nil, 8, 24)
		disabled.IsActive = false
		store.configs = append(store.configs, disabled)

		w := doRequest(t, r, http.MethodGet, slaBase+"?company_id="+companyID.String()+"&is_active=false", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := decodeBody(t, w)
		if body["count"] != float64(1) {
			t.Fatalf("expected only the disabled row, got count %v", body["count"])
		}
	})

	t.Run("invalid is_active", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, slaBase+"?company_id="+companyID.String()+"&is_active=banana", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestSLAConfigurationsGet(t *testing.T) {
	store, companyID, deptID, typeID, _ := seedSLAStore()
	r := setupSLARouter(store)

	config := models.NewSLAConfiguration(companyID, deptID, typeID, nil, 4, 24)
	store.configs = append(store.configs, config)

	w := doRequest(t, r, http.MethodGet, slaBase+"/"+config.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = doRequest(t, r, http.MethodGet, slaBase+"/"+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = doRequest(t, r, http.MethodGet, slaBase+"/not-a-uuid", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSLAConfigurationsCreate(t *testing.T) {
	store, companyID, deptID, typeID, _ := seedSLAStore()
	r := setupSLARouter(store)

	payload := map[string]any{
		"company_id":            companyID,
		"department_id":         deptID,
		"incident_type_id":      typeID,
		"response_time_hours":   4,
		"resolution_time_hours": 24,
	}

	t.Run("created", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, slaBase, payload)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		body := decodeBody(t, w)
		if body["success"] != true {
			t.Fatal("expected success true")
		}
		if len(store.configs) != 1 {
			t.Fatalf("expected 1 stored row, got %d", len(store.configs))
		}
	})

	t.Run("duplicate tuple rejected", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, slaBase, payload)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		body := decodeBody(t, w)
		if body["success"] != false {
			t.Fatal("expected success false")
		}
		if errs, ok := body["errors"].([]any); !ok || len(errs) == 0 {
			t.Fatalf("expected field errors, got %v", body["errors"])
		}
	})

	t.Run("inverted thresholds rejected", func(t *testing.T) {
		bad := map[string]any{
			"company_id":            companyID,
			"department_id":         deptID,
			"incident_type_id":      typeID,
			"response_time_hours":   48,
			"resolution_time_hours": 24,
		}
		w := doRequest(t, r, http.MethodPost, slaBase, bad)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestSLAConfigurationsUpdate(t *testing.T) {
	store, companyID, deptID, typeID, prioID := seedSLAStore()
	r := setupSLARouter(store)

	config := models.NewSLAConfiguration(companyID, deptID, typeID, &prioID, 4, 24)
	store.configs = append(store.configs, config)

	t.Run("partial update", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPut, slaBase+"/"+config.ID.String(), map[string]any{
			"response_time_hours": 2,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		got, _ := store.GetSLAConfigurationByID(context.Background(), config.ID)
		if got.ResponseTimeHours != 2 {
			t.Fatalf("threshold not updated: %+v", got)
		}
		if got.ResolutionTimeHours != 24 {
			t.Fatalf("untouched field must survive: %+v", got)
		}
	})

	t.Run("reset to wildcard", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPut, slaBase+"/"+config.ID.String(), map[string]any{
			"priority_wildcard": true,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		got, _ := store.GetSLAConfigurationByID(context.Background(), config.ID)
		if !got.IsWildcard() {
			t.Fatal("expected wildcard after reset")
		}
	})

	t.Run("missing row", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPut, slaBase+"/"+uuid.NewString(), map[string]any{
			"response_time_hours": 2,
		})
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}

func TestSLAConfigurationsDelete(t *testing.T) {
	store, companyID, deptID, typeID, _ := seedSLAStore()
	r := setupSLARouter(store)

	config := models.NewSLAConfiguration(companyID, deptID, typeID, nil, 4, 24)
	store.configs = append(store.configs, config)

	w := doRequest(t, r, http.MethodDelete, slaBase+"/"+config.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = doRequest(t, r, http.MethodDelete, slaBase+"/"+config.ID.String(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestSLAConfigurationsBulkCreate(t *testing.T) {
	store, companyID, deptID, typeID, prioID := seedSLAStore()
	r := setupSLARouter(store)

	w := doRequest(t, r, http.MethodPost, slaBase+"/bulk", map[string]any{
		"company_id":    companyID,
		"department_id": deptID,
		"configurations": []map[string]any{
			{"incident_type_id": typeID, "response_time_hours": 8, "resolution_time_hours": 48},
			{"incident_type_id": typeID, "priority_id": prioID, "response_time_hours": 4, "resolution_time_hours": 24},
			{"incident_type_id": typeID, "priority_id": prioID, "response_time_hours": 2, "resolution_time_hours": 8},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["created_count"] != float64(2) {
		t.Fatalf("expected created_count 2, got %v", body["created_count"])
	}
	if body["error_count"] != float64(1) {
		t.Fatalf("expected error_count 1, got %v", body["error_count"])
	}

	t.Run("empty payload", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, slaBase+"/bulk", map[string]any{
			"company_id":     companyID,
			"department_id":  deptID,
			"configurations": []map[string]any{},
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestSLAConfigurationsBulkDelete(t *testing.T) {
	store, companyID, deptID, typeID, prioID := seedSLAStore()
	r := setupSLARouter(store)

	a := models.NewSLAConfiguration(companyID, deptID, typeID, nil, 4, 24)
	b := models.NewSLAConfiguration(companyID, deptID, typeID, &prioID, 2, 8)
	store.configs = append(store.configs, a, b)

	w := doRequest(t, r, http.MethodDelete, slaBase+"/bulk", map[string]any{
		"ids": []uuid.UUID{a.ID, b.ID, uuid.New()},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["deleted_count"] != float64(2) || body["requested_count"] != float64(3) {
		t.Fatalf("expected 2/3 deleted, got %v/%v", body["deleted_count"], body["requested_count"])
	}
}

func TestSLAConfigurationsBulkToggle(t *testing.T) {
	store, companyID, deptID, typeID, _ := seedSLAStore()
	r := setupSLARouter(store)

	config := models.NewSLAConfiguration(companyID, deptID, typeID, nil, 4, 24)
	store.configs = append(store.configs, config)

	t.Run("requires is_active", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPatch, slaBase+"/bulk/toggle", map[string]any{
			"ids": []uuid.UUID{config.ID},
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("disable", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPatch, slaBase+"/bulk/toggle", map[string]any{
			"ids":       []uuid.UUID{config.ID},
			"is_active": false,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		body := decodeBody(t, w)
		if body["updated_count"] != float64(1) {
			t.Fatalf("expected updated_count 1, got %v", body["updated_count"])
		}

		got, _ := store.GetSLAConfigurationByID(context.Background(), config.ID)
		if got.IsActive {
			t.Fatal("expected row disabled")
		}
	})
}

func TestSLAConfigurationsCopy(t *testing.T) {
	store, companyID, fromDept, typeID, prioID := seedSLAStore()
	toDept := store.addDepartment(companyID)
	r := setupSLARouter(store)

	src := models.NewSLAConfiguration(companyID, fromDept, typeID, nil, 8, 48)
	overlapping := models.NewSLAConfiguration(companyID, fromDept, typeID, &prioID, 4, 24)
	existing := models.NewSLAConfiguration(companyID, toDept, typeID, &prioID, 1, 6)
	store.configs = append(store.configs, src, overlapping, existing)

	w := doRequest(t, r, http.MethodPost, slaBase+"/copy", map[string]any{
		"company_id":         companyID,
		"from_department_id": fromDept,
		"to_department_id":   toDept,
		"overwrite_existing": false,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["copied_count"] != float64(1) || body["skipped_count"] != float64(1) {
		t.Fatalf("expected 1 copied / 1 skipped, got %v/%v", body["copied_count"], body["skipped_count"])
	}

	t.Run("same department rejected", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, slaBase+"/copy", map[string]any{
			"company_id":         companyID,
			"from_department_id": fromDept,
			"to_department_id":   fromDept,
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestSLAConfigurationsValidate(t *testing.T) {
	store, companyID, deptID, typeID, _ := seedSLAStore()
	r := setupSLARouter(store)

	t.Run("valid candidate", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, slaBase+"/validate", map[string]any{
			"company_id":            companyID,
			"department_id":         deptID,
			"incident_type_id":      typeID,
			"response_time_hours":   4,
			"resolution_time_hours": 24,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		body := decodeBody(t, w)
		if body["is_valid"] != true {
			t.Fatalf("expected is_valid true, got %v", body)
		}
		if len(store.configs) != 0 {
			t.Fatal("validate must not persist anything")
		}
	})

	t.Run("invalid candidate", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, slaBase+"/validate", map[string]any{
			"company_id":            companyID,
			"department_id":         deptID,
			"incident_type_id":      typeID,
			"response_time_hours":   0,
			"resolution_time_hours": 24,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("validation report is a 200 even for invalid candidates, got %d", w.Code)
		}
		body := decodeBody(t, w)
		if body["is_valid"] != false {
			t.Fatalf("expected is_valid false, got %v", body)
		}
	})
}

func TestSLAConfigurationsEffective(t *testing.T) {
	store, companyID, deptID, typeID, prioID := seedSLAStore()
	otherPrio := store.addPriority(companyID)
	r := setupSLARouter(store)

	wildcard := models.NewSLAConfiguration(companyID, deptID, typeID, nil, 8, 24)
	store.configs = append(store.configs, wildcard)

	base := slaBase + "/effective?company_id=" + companyID.String() +
		"&department_id=" + deptID.String() + "&incident_type_id=" + typeID.String()

	t.Run("wildcard fallback", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, base+"&priority_id="+otherPrio.String(), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		body := decodeBody(t, w)
		data, ok := body["data"].(map[string]any)
		if !ok {
			t.Fatalf("expected a row, got %v", body["data"])
		}
		if data["resolution_time_hours"] != float64(24) {
			t.Fatalf("expected wildcard 24h resolution, got %v", data["resolution_time_hours"])
		}
	})

	t.Run("no applicable rule", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, slaBase+"/effective?company_id="+companyID.String()+
			"&department_id="+deptID.String()+"&incident_type_id="+uuid.NewString()+
			"&priority_id="+prioID.String(), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := decodeBody(t, w)
		if body["data"] != nil {
			t.Fatalf("expected null data, got %v", body["data"])
		}
	})
}
