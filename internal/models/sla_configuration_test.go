package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestSLAConfigurationSameTuple(t *testing.T) {
	companyID := uuid.New()
	deptID := uuid.New()
	typeID := uuid.New()
	prioID := uuid.New()

	base := NewSLAConfiguration(companyID, deptID, typeID, &prioID, 4, 24)

	t.Run("identical tuple", func(t *testing.T) {
		other := NewSLAConfiguration(companyID, deptID, typeID, &prioID, 1, 8)
		if !base.SameTuple(other) {
			t.Fatal("expected same tuple")
		}
	})

	t.Run("different priority", func(t *testing.T) {
		otherPrio := uuid.New()
		other := NewSLAConfiguration(companyID, deptID, typeID, &otherPrio, 4, 24)
		if base.SameTuple(other) {
			t.Fatal("expected different tuple")
		}
	})

	t.Run("wildcard vs specific", func(t *testing.T) {
		wildcard := NewSLAConfiguration(companyID, deptID, typeID, nil, 4, 24)
		if base.SameTuple(wildcard) {
			t.Fatal("wildcard and specific priority must be distinct tuples")
		}
		if !wildcard.SameTuple(NewSLAConfiguration(companyID, deptID, typeID, nil, 1, 8)) {
			t.Fatal("two wildcard rows on the same scope are the same tuple")
		}
	})

	t.Run("different department", func(t *testing.T) {
		other := NewSLAConfiguration(companyID, uuid.New(), typeID, &prioID, 4, 24)
		if base.SameTuple(other) {
			t.Fatal("expected different tuple")
		}
	})
}

func TestSLAConfigurationIsWildcard(t *testing.T) {
	prioID := uuid.New()
	specific := NewSLAConfiguration(uuid.New(), uuid.New(), uuid.New(), &prioID, 4, 24)
	if specific.IsWildcard() {
		t.Fatal("specific-priority rule must not be wildcard")
	}
	wildcard := NewSLAConfiguration(uuid.New(), uuid.New(), uuid.New(), nil, 4, 24)
	if !wildcard.IsWildcard() {
		t.Fatal("nil-priority rule must be wildcard")
	}
}

func TestSLAConfigurationClone(t *testing.T) {
	prioID := uuid.New()
	src := NewSLAConfiguration(uuid.New(), uuid.New(), uuid.New(), &prioID, 4, 24)
	src.IsActive = false

	target := uuid.New()
	clone := src.Clone(target)

	if clone.ID == src.ID {
		t.Fatal("clone must get a new id")
	}
	if clone.DepartmentID != target {
		t.Fatalf("expected department %s, got %s", target, clone.DepartmentID)
	}
	if clone.CompanyID != src.CompanyID || clone.IncidentTypeID != src.IncidentTypeID {
		t.Fatal("clone must keep company and incident type")
	}
	if clone.PriorityID == nil || *clone.PriorityID != prioID {
		t.Fatal("clone must keep priority")
	}
	if clone.ResponseTimeHours != 4 || clone.ResolutionTimeHours != 24 {
		t.Fatal("clone must keep thresholds")
	}
	if clone.IsActive {
		t.Fatal("clone must keep active flag of source")
	}
}
