package slaconfig

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/opsdesk/opsdesk/internal/models"
	"github.com/rs/zerolog"
)

// newTestEngine returns an engine over a fresh fake store seeded with one
// company scope (department, incident type, priority).
func newTestEngine() (*Engine, *fakeStore, uuid.UUID, uuid.UUID, uuid.UUID, uuid.UUID) {
	store := newFakeStore()
	companyID := uuid.New()
	deptID := store.addDepartment(companyID)
	typeID := store.addIncidentType(companyID)
	prioID := store.addPriority(companyID)
	return NewEngine(store, zerolog.Nop()), store, companyID, deptID, typeID, prioID
}

func hasFieldError(res *ValidationResult, field string) bool {
	for _, fe := range res.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestValidateStructural(t *testing.T) {
	engine, _, companyID, deptID, typeID, _ := newTestEngine()
	ctx := context.Background()

	t.Run("missing scope fields", func(t *testing.T) {
		res, err := engine.Validate(ctx, &models.SLAConfiguration{
			ResponseTimeHours:   4,
			ResolutionTimeHours: 24,
			IsActive:            true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsValid {
			t.Fatal("expected invalid")
		}
		for _, field := range []string{"company_id", "department_id", "incident_type_id"} {
			if !hasFieldError(res, field) {
				t.Fatalf("expected error for %s", field)
			}
		}
	})

	t.Run("non-positive thresholds", func(t *testing.T) {
		c := models.NewSLAConfiguration(companyID, deptID, typeID, nil, 0, -1)
		res, err := engine.Validate(ctx, c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !hasFieldError(res, "response_time_hours") || !hasFieldError(res, "resolution_time_hours") {
			t.Fatal("expected threshold errors")
		}
	})

	t.Run("inverted thresholds", func(t *testing.T) {
		c := models.NewSLAConfiguration(companyID, deptID, typeID, nil, 48, 24)
		res, err := engine.Validate(ctx, c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsValid {
			t.Fatal("expected invalid for response > resolution")
		}
		if !hasFieldError(res, "response_time_hours") {
			t.Fatal("expected inverted threshold error")
		}
	})

	t.Run("valid wildcard candidate", func(t *testing.T) {
		c := models.NewSLAConfiguration(companyID, deptID, typeID, nil, 4, 24)
		res, err := engine.Validate(ctx, c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsValid {
			t.Fatalf("expected valid, got errors %v", res.Errors)
		}
	})
}

func TestValidateReferential(t *testing.T) {
	engine, store, companyID, deptID, typeID, prioID := newTestEngine()
	ctx := context.Background()

	t.Run("unknown department", func(t *testing.T) {
		c := models.NewSLAConfiguration(companyID, uuid.New(), typeID, nil, 4, 24)
		res, err := engine.Validate(ctx, c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !hasFieldError(res, "department_id") {
			t.Fatal("expected department error")
		}
	})

	t.Run("cross-tenant department", func(t *testing.T) {
		otherDept := store.addDepartment(uuid.New())
		c := models.NewSLAConfiguration(companyID, otherDept, typeID, nil, 4, 24)
		res, err := engine.Validate(ctx, c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !hasFieldError(res, "department_id") {
			t.Fatal("expected cross-tenant department error")
		}
	})

	t.Run("cross-tenant incident type", func(t *testing.T) {
		otherType := store.addIncidentType(uuid.New())
		c := models.NewSLAConfiguration(companyID, deptID, otherType, nil, 4, 24)
		res, err := engine.Validate(ctx, c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !hasFieldError(res, "incident_type_id") {
			t.Fatal("expected cross-tenant incident type error")
		}
	})

	t.Run("cross-tenant priority", func(t *testing.T) {
		otherPrio := store.addPriority(uuid.New())
		c := models.NewSLAConfiguration(companyID, deptID, typeID, &otherPrio, 4, 24)
		res, err := engine.Validate(ctx, c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !hasFieldError(res, "priority_id") {
			t.Fatal("expected cross-tenant priority error")
		}
	})

	t.Run("valid priority", func(t *testing.T) {
		c := models.NewSLAConfiguration(companyID, deptID, typeID, &prioID, 4, 24)
		res, err := engine.Validate(ctx, c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsValid {
			t.Fatalf("expected valid, got errors %v", res.Errors)
		}
	})
}

func TestValidateDuplicateTuple(t *testing.T) {
	engine, store, companyID, deptID, typeID, prioID := newTestEngine()
	ctx := context.Background()

	existing := models.NewSLAConfiguration(companyID, deptID, typeID, &prioID, 4, 24)
	store.configs = append(store.configs, existing)

	t.Run("duplicate active tuple", func(t *testing.T) {
		c := models.NewSLAConfiguration(companyID, deptID, typeID, &prioID, 2, 8)
		res, err := engine.Validate(ctx, c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !hasFieldError(res, "scope") {
			t.Fatal("expected duplicate tuple error")
		}
	})

	t.Run("update excludes itself", func(t *testing.T) {
		copy := *existing
		copy.ResponseTimeHours = 2
		res, err := engine.Validate(ctx, &copy)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsValid {
			t.Fatalf("row must not collide with itself, got errors %v", res.Errors)
		}
	})

	t.Run("inactive candidate skips duplicate check", func(t *testing.T) {
		c := models.NewSLAConfiguration(companyID, deptID, typeID, &prioID, 2, 8)
		c.IsActive = false
		res, err := engine.Validate(ctx, c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsValid {
			t.Fatalf("inactive rows may share a tuple, got errors %v", res.Errors)
		}
	})

	t.Run("wildcard does not collide with specific priority", func(t *testing.T) {
		c := models.NewSLAConfiguration(companyID, deptID, typeID, nil, 2, 8)
		res, err := engine.Validate(ctx, c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsValid {
			t.Fatalf("expected valid, got errors %v", res.Errors)
		}
	})
}

func TestValidateWarnings(t *testing.T) {
	engine, store, companyID, deptID, typeID, prioID := newTestEngine()
	ctx := context.Background()

	t.Run("coverage gap for priority-specific rule", func(t *testing.T) {
		c := models.NewSLAConfiguration(companyID, deptID, typeID, &prioID, 4, 24)
		res, err := engine.Validate(ctx, c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsValid {
			t.Fatalf("expected valid, got errors %v", res.Errors)
		}
		if len(res.Warnings) == 0 || !strings.Contains(res.Warnings[0], "wildcard default") {
			t.Fatalf("expected coverage warning, got %v", res.Warnings)
		}
	})

	t.Run("no coverage warning when wildcard exists", func(t *testing.T) {
		wildcard := models.NewSLAConfiguration(companyID, deptID, typeID, nil, 8, 48)
		store.configs = append(store.configs, wildcard)

		c := models.NewSLAConfiguration(companyID, deptID, typeID, &prioID, 4, 24)
		res, err := engine.Validate(ctx, c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Warnings) != 0 {
			t.Fatalf("expected no warnings, got %v", res.Warnings)
		}
	})

	t.Run("atypical thresholds", func(t *testing.T) {
		// Fresh engine so the wildcard row from the previous subtest does not
		// occupy the candidate's tuple.
		engine, _, companyID, deptID, typeID, _ := newTestEngine()

		c := models.NewSLAConfiguration(companyID, deptID, typeID, nil, 0.1, 900)
		res, err := engine.Validate(ctx, c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsValid {
			t.Fatalf("atypical thresholds are warnings, not errors: %v", res.Errors)
		}
		if len(res.Warnings) != 2 {
			t.Fatalf("expected 2 threshold warnings, got %v", res.Warnings)
		}
	})
}
