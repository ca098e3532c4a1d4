package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/assetcare/internal/model"
)

func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: test_scenario
description: "Test scenario for validation"
now: "2024-07-10"
assets:
  - asset:
      id: pump-01
      commissioned_date: 2010-01-15
    plan:
      cycle_days: 30
      last_maintenance_date: 2024-07-01
      is_active: true
sensors:
  - {id: vib-01, asset_id: pump-01, status: active, last_seen: 2024-07-09T23:55:00Z}
assertions:
  - type: schedule
    asset: pump-01
    status: upcoming
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "2024-07-10", scenario.Now)
	require.Len(t, scenario.Assets, 1)
	rec := scenario.Assets[0]
	assert.Equal(t, "pump-01", rec.Asset.ID)
	require.NotNil(t, rec.Asset.CommissionedDate)
	assert.True(t, rec.Asset.CommissionedDate.Equal(model.MustDate("2010-01-15")))
	require.NotNil(t, rec.Plan)
	assert.Equal(t, 30, rec.Plan.CycleDays)
	assert.True(t, rec.Plan.IsActive)
	require.Len(t, scenario.Sensors, 1)
	require.NotNil(t, scenario.Sensors[0].LastSeen)
	assert.Equal(t, 55, scenario.Sensors[0].LastSeen.Minute())
	assert.Len(t, scenario.Assertions, 1)
}

func TestLoadScenario_ResolvesFleetRelativeToFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fleet"), 0755))
	path := writeScenario(t, dir, `
name: fleet_path
description: "Fleet directory next to the scenario"
now: "2024-07-10"
fleet: fleet
assertions:
  - type: lifespan
    asset: a
    absent: true
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fleet"), scenario.Fleet)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: typo
description: "Typo in a top-level key"
now: "2024-07-10"
assets: [{asset: {id: a}}]
assertion:
  - type: health
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: d
now: "2024-07-10"
assets: [{asset: {id: a}}]
assertions: [{type: lifespan, asset: a}]
`,
			wantErr: "name is required",
		},
		{
			name: "missing now",
			content: `
name: n
description: d
assets: [{asset: {id: a}}]
assertions: [{type: lifespan, asset: a}]
`,
			wantErr: "now is required",
		},
		{
			name: "bad now",
			content: `
name: n
description: d
now: "10/07/2024"
assets: [{asset: {id: a}}]
assertions: [{type: lifespan, asset: a}]
`,
			wantErr: "now:",
		},
		{
			name: "no fleet",
			content: `
name: n
description: d
now: "2024-07-10"
assertions: [{type: lifespan, asset: a}]
`,
			wantErr: "fleet, assets or sensors is required",
		},
		{
			name: "missing fleet dir",
			content: `
name: n
description: d
now: "2024-07-10"
fleet: nowhere
assertions: [{type: lifespan, asset: a}]
`,
			wantErr: "fleet directory not found",
		},
		{
			name: "asset without id",
			content: `
name: n
description: d
now: "2024-07-10"
assets: [{asset: {name: x}}]
assertions: [{type: lifespan, asset: a}]
`,
			wantErr: "assets[0]: asset.id is required",
		},
		{
			name: "no assertions",
			content: `
name: n
description: d
now: "2024-07-10"
assets: [{asset: {id: a}}]
`,
			wantErr: "assertions list is required",
		},
		{
			name: "unknown assertion",
			content: `
name: n
description: d
now: "2024-07-10"
assets: [{asset: {id: a}}]
assertions: [{type: vibes, asset: a}]
`,
			wantErr: `unknown assertion type "vibes"`,
		},
		{
			name: "health without expectation",
			content: `
name: n
description: d
now: "2024-07-10"
assets: [{asset: {id: a}}]
assertions: [{type: health, asset: a}]
`,
			wantErr: "composite or grade is required",
		},
		{
			name: "projection statuses mismatch",
			content: `
name: n
description: d
now: "2024-07-10"
assets: [{asset: {id: a}}]
assertions: [{type: projection, asset: a, horizon: "2024-12-31", dates: ["2024-08-01"], statuses: [upcoming, upcoming]}]
`,
			wantErr: "statuses must match dates",
		},
		{
			name: "error without code",
			content: `
name: n
description: d
now: "2024-07-10"
assets: [{asset: {id: a}}]
assertions: [{type: error, asset: a}]
`,
			wantErr: "asset and code are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, t.TempDir(), tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_Testdata(t *testing.T) {
	files, err := DiscoverScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			_, err := LoadScenario(f)
			assert.NoError(t, err)
		})
	}
}
