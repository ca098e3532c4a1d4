package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/assetcare/internal/model"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestFleet returns a fleet exercising every nullable column.
func createTestFleet() *model.Fleet {
	return &model.Fleet{
		Assets: []model.AssetRecord{
			{
				Asset: model.Asset{
					ID:                    "pump-01",
					Name:                  "Feed pump",
					CommissionedDate:      model.Ptr(model.MustDate("2010-01-15")),
					DesignedLifespanYears: model.Ptr(30),
					LifecycleStatus:       model.LifecycleOperational,
					Status:                model.StatusActive,
				},
				Maintenance: []model.MaintenanceRecord{
					{
						ID:            "wo-2",
						ScheduledDate: model.MustDate("2024-07-13"),
						Status:        model.MaintenanceScheduled,
						EstimatedCost: model.Ptr(900.0),
					},
					{
						ID:            "wo-1",
						ScheduledDate: model.MustDate("2024-01-10"),
						CompletedAt:   model.Ptr(model.MustDate("2024-01-15").Add(14 * time.Hour)),
						Status:        model.MaintenanceCompleted,
						ActualCost:    model.Ptr(1200.5),
					},
				},
				Incidents: []model.IncidentRecord{
					{
						ID:        "inc-1",
						Severity:  model.SeverityHigh,
						CreatedAt: model.MustDate("2024-05-02").Add(8 * time.Hour),
						Status:    model.IncidentOpen,
					},
				},
				Plan: &model.PreventiveMaintenancePlan{
					ID:                  "pm-1",
					AssetID:             "pump-01",
					CycleDays:           180,
					LastMaintenanceDate: model.Ptr(model.MustDate("2024-01-15")),
					WarningDays:         model.Ptr(7),
					IsActive:            true,
					StoredNextDate:      model.Ptr(model.MustDate("2024-07-13")),
				},
			},
			{
				Asset: model.Asset{ID: "culvert-3", Status: model.StatusInactive},
			},
		},
		Sensors: []model.Sensor{
			{
				ID:       "vib-01",
				AssetID:  "pump-01",
				Status:   model.SensorActive,
				LastSeen: model.Ptr(model.MustDate("2024-07-09").Add(23*time.Hour + 40*time.Minute)),
			},
			{ID: "flow-02", Status: model.SensorMaintenance},
		},
	}
}
