package store

import (
	"context"
	"testing"

	"github.com/roach88/assetcare/internal/model"
)

func TestWriteFleet_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	fleet := createTestFleet()

	for i := 0; i < 2; i++ {
		if err := s.WriteFleet(ctx, fleet); err != nil {
			t.Fatalf("WriteFleet() #%d failed: %v", i, err)
		}
	}

	var maint, incidents, plans int
	s.db.QueryRow("SELECT COUNT(*) FROM maintenance_records").Scan(&maint)
	s.db.QueryRow("SELECT COUNT(*) FROM incidents").Scan(&incidents)
	s.db.QueryRow("SELECT COUNT(*) FROM plans").Scan(&plans)
	if maint != 2 || incidents != 1 || plans != 1 {
		t.Errorf("child rows = %d/%d/%d after re-import, want 2/1/1", maint, incidents, plans)
	}
}

func TestWriteFleet_ReplacesChildRows(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.WriteFleet(ctx, createTestFleet()); err != nil {
		t.Fatalf("WriteFleet() failed: %v", err)
	}

	// Re-import the pump without a plan and with a single record.
	update := &model.Fleet{Assets: []model.AssetRecord{{
		Asset: model.Asset{ID: "pump-01", Name: "Feed pump (rebuilt)", Status: model.StatusMaintenance},
		Maintenance: []model.MaintenanceRecord{{
			ScheduledDate: model.MustDate("2024-08-01"),
			Status:        model.MaintenanceInProgress,
		}},
	}}}
	if err := s.WriteFleet(ctx, update); err != nil {
		t.Fatalf("WriteFleet(update) failed: %v", err)
	}

	fleet, err := s.ReadFleet(ctx)
	if err != nil {
		t.Fatalf("ReadFleet() failed: %v", err)
	}
	rec, ok := fleet.FindAsset("pump-01")
	if !ok {
		t.Fatal("pump-01 missing")
	}
	if rec.Asset.Name != "Feed pump (rebuilt)" {
		t.Errorf("Name = %q, want updated name", rec.Asset.Name)
	}
	if rec.Asset.CommissionedDate != nil {
		t.Errorf("CommissionedDate = %v, want cleared", rec.Asset.CommissionedDate)
	}
	if rec.Plan != nil {
		t.Errorf("Plan = %+v, want removed", rec.Plan)
	}
	if len(rec.Maintenance) != 1 || rec.Maintenance[0].Status != model.MaintenanceInProgress {
		t.Errorf("Maintenance = %+v, want single in_progress record", rec.Maintenance)
	}
	if len(rec.Incidents) != 0 {
		t.Errorf("Incidents = %+v, want none", rec.Incidents)
	}

	// Assets absent from the update are untouched.
	if _, ok := fleet.FindAsset("culvert-3"); !ok {
		t.Error("culvert-3 was removed by a partial import")
	}
}

func TestWriteFleet_RollsBackOnError(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if err := s.WriteFleet(cctx, createTestFleet()); err == nil {
		t.Fatal("WriteFleet() with cancelled context should fail")
	}

	counts, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() failed: %v", err)
	}
	if counts != (RowCounts{}) {
		t.Errorf("Counts() = %+v after failed write, want all zero", counts)
	}
}
