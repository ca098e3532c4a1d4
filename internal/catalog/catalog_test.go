package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/assetcare/internal/model"
)

const validFleet = `
asset: "pump-01": {
	name:                    "Feed pump"
	commissioned_date:       "2010-01-15"
	designed_lifespan_years: 30
	lifecycle_status:        "operational"
	status:                  "active"
	maintenance: [
		{scheduled_date: "2024-01-10", completed_at: "2024-01-15", status: "completed", actual_cost: 1200.5},
		{scheduled_date: "2024-07-13", status: "scheduled", estimated_cost: 900},
	]
	incidents: [{severity: "high", created_at: "2024-05-02T08:15:00Z", status: "open"}]
	plan: {cycle_days: 180, last_maintenance_date: "2024-01-15", warning_days: 7}
}

asset: "culvert-3": {
	status: "inactive"
}

sensor: "vib-01": {asset_id: "pump-01", status: "active", last_seen: "2024-07-09T23:40:00Z"}
sensor: "flow-02": {status: "maintenance"}
`

func TestLoadSource_Valid(t *testing.T) {
	res, err := LoadSource("fleet.cue", validFleet)
	require.NoError(t, err)
	fleet := res.Fleet

	require.Len(t, fleet.Assets, 2)
	assert.Equal(t, "culvert-3", fleet.Assets[0].Asset.ID, "assets are ordered by ID")
	assert.Equal(t, model.StatusInactive, fleet.Assets[0].Asset.Status)
	assert.Nil(t, fleet.Assets[0].Plan)
	assert.Nil(t, fleet.Assets[0].Asset.CommissionedDate)

	pump := fleet.Assets[1]
	assert.Equal(t, "pump-01", pump.Asset.ID)
	assert.Equal(t, "Feed pump", pump.Asset.Name)
	assert.Equal(t, model.MustDate("2010-01-15"), *pump.Asset.CommissionedDate)
	assert.Equal(t, 30, *pump.Asset.DesignedLifespanYears)
	assert.Equal(t, model.LifecycleOperational, pump.Asset.LifecycleStatus)

	require.Len(t, pump.Maintenance, 2)
	assert.Equal(t, model.MaintenanceCompleted, pump.Maintenance[0].Status)
	assert.Equal(t, model.MustDate("2024-01-15"), *pump.Maintenance[0].CompletedAt)
	assert.Equal(t, 1200.5, *pump.Maintenance[0].ActualCost)
	assert.Equal(t, 900.0, *pump.Maintenance[1].EstimatedCost)
	assert.Nil(t, pump.Maintenance[1].CompletedAt)

	require.Len(t, pump.Incidents, 1)
	assert.Equal(t, model.SeverityHigh, pump.Incidents[0].Severity)
	assert.Equal(t, 8, pump.Incidents[0].CreatedAt.Hour())

	require.NotNil(t, pump.Plan)
	assert.Equal(t, "pump-01", pump.Plan.AssetID)
	assert.Equal(t, 180, pump.Plan.CycleDays)
	assert.Equal(t, 7, *pump.Plan.WarningDays)
	assert.True(t, pump.Plan.IsActive, "is_active defaults to true")

	require.Len(t, fleet.Sensors, 2)
	assert.Equal(t, "flow-02", fleet.Sensors[0].ID)
	assert.Nil(t, fleet.Sensors[0].LastSeen)
	assert.Equal(t, model.SensorActive, fleet.Sensors[1].Status)
	require.NotNil(t, fleet.Sensors[1].LastSeen)

	assert.Empty(t, Validate(fleet))
}

func TestLoadSource_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown lifecycle", `asset: a: {lifecycle_status: "melted"}`},
		{"unknown field", `asset: a: {lifespan: 30}`},
		{"malformed date", `asset: a: {commissioned_date: "15/01/2010"}`},
		{"negative cost", `asset: a: {maintenance: [{scheduled_date: "2024-01-01", status: "completed", actual_cost: -1}]}`},
		{"missing plan cycle", `asset: a: {plan: {warning_days: 7}}`},
		{"unknown sensor status", `sensor: s: {status: "asleep"}`},
		{"syntax", `asset: a: {`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSource("bad.cue", tt.src)
			require.Error(t, err)
			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, ErrCodeBuildFailed, le.Code)
		})
	}
}

func TestLoadSource_InactivePlan(t *testing.T) {
	res, err := LoadSource("fleet.cue", `asset: a: {plan: {cycle_days: 30, is_active: false, created_at: "2024-01-01"}}`)
	require.NoError(t, err)
	plan := res.Fleet.Assets[0].Plan
	require.NotNil(t, plan)
	assert.False(t, plan.IsActive)
	assert.Equal(t, model.MustDate("2024-01-01"), *plan.CreatedAt)
}

func TestValidate_SemanticErrors(t *testing.T) {
	res, err := LoadSource("fleet.cue", `
asset: a: {designed_lifespan_years: 0, plan: {cycle_days: 0, warning_days: -2}}
sensor: s: {asset_id: "ghost", status: "active"}
`)
	require.NoError(t, err, "schema accepts the values; validation rejects them")

	errs := Validate(res.Fleet)
	codes := make([]string, 0, len(errs))
	for _, e := range errs {
		codes = append(codes, e.Code)
	}
	assert.Equal(t, []string{ErrCodeInvalidLife, ErrCodeInvalidCycle, ErrCodeInvalidWindow, ErrCodeUnknownAsset}, codes)
	assert.Equal(t, "asset.a.plan.cycle_days", errs[1].Field)
}

func TestValidate_EmptyFleet(t *testing.T) {
	errs := Validate(&model.Fleet{})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeEmptyFleet, errs[0].Code)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets.cue"), []byte(`package fleet

asset: "pump-01": {status: "active", plan: {cycle_days: 90, last_maintenance_date: "2024-04-01"}}
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sensors.cue"), []byte(`package fleet

sensor: "vib-01": {asset_id: "pump-01", status: "online"}
`), 0644))

	res, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, res.FileCount)
	require.Len(t, res.Fleet.Assets, 1)
	require.Len(t, res.Fleet.Sensors, 1)
	assert.Equal(t, 90, res.Fleet.Assets[0].Plan.CycleDays)
}

func TestLoadDir_NotFound(t *testing.T) {
	_, err := LoadDir("/nonexistent/fleet/dir")
	require.Error(t, err)
	assert.Equal(t, ErrCodeNotFound, Code(err))
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadDir_NoFiles(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ErrCodeNoFiles, Code(err))
}

func TestLoadDir_NotADirectory(t *testing.T) {
	f := filepath.Join(t.TempDir(), "fleet.cue")
	require.NoError(t, os.WriteFile(f, []byte("asset: {}"), 0644))

	_, err := LoadDir(f)
	assert.Equal(t, ErrCodeNotFound, Code(err))
}

func TestCode(t *testing.T) {
	assert.Equal(t, ErrCodeInvalidCycle, Code(ValidationError{Code: ErrCodeInvalidCycle}))
	assert.Equal(t, ErrCodeInvalidValue, Code(&CompileError{Field: "x"}))
	assert.Equal(t, ErrCodeGeneric, Code(os.ErrPermission))
}
