package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/assetcare/internal/engine"
	"github.com/roach88/assetcare/internal/model"
	"github.com/roach88/assetcare/internal/report"
)

func testContext() *AssertionContext {
	plan := &model.PreventiveMaintenancePlan{
		AssetID:             "a",
		CycleDays:           30,
		LastMaintenanceDate: model.Ptr(model.MustDate("2024-06-01")),
		IsActive:            true,
	}
	return &AssertionContext{
		Now: model.MustDate("2024-07-10"),
		Fleet: &model.Fleet{Assets: []model.AssetRecord{
			{Asset: model.Asset{ID: "a"}, Plan: plan},
			{Asset: model.Asset{ID: "b"}},
		}},
		Report: &report.EvaluationReport{
			Assets: []report.AssetEntry{
				{
					AssetID:  "a",
					Health:   engine.HealthScoreBreakdown{Composite: 64.5},
					Grade:    engine.GradeGood,
					Lifespan: &engine.LifespanEstimate{RemainingYears: 16, RemainingPercent: 53},
					Schedule: &report.ScheduleEntry{
						NextDueDate:   "2024-07-01",
						Status:        engine.ScheduleOverdue,
						DaysRemaining: -9,
					},
				},
				{
					AssetID: "b",
					Grade:   engine.GradeCritical,
					Errors:  []report.ErrorEntry{{Code: "INVALID_LIFESPAN", Message: "bad"}},
				},
			},
			Sensors: []report.SensorEntry{{SensorID: "s", Liveness: engine.LivenessWarning}},
		},
	}
}

func TestEvaluateAssertions_AllPass(t *testing.T) {
	assertions := []Assertion{
		{Type: AssertHealth, Asset: "a", Composite: model.Ptr(64.5), Grade: "good"},
		{Type: AssertSchedule, Asset: "a", Status: "overdue", NextDueDate: "2024-07-01", DaysRemaining: model.Ptr(-9), StoredNextMismatch: model.Ptr(false)},
		{Type: AssertSchedule, Asset: "b", Absent: true},
		{Type: AssertLifespan, Asset: "a", RemainingYears: model.Ptr(16), RemainingPercent: model.Ptr(53)},
		{Type: AssertLifespan, Asset: "b", Absent: true},
		{Type: AssertLiveness, Sensor: "s", Liveness: "warning"},
		{Type: AssertError, Asset: "b", Code: "INVALID_LIFESPAN"},
		{
			Type:     AssertProjection,
			Asset:    "a",
			Horizon:  "2024-08-31",
			Dates:    []string{"2024-07-01", "2024-07-31", "2024-08-30"},
			Statuses: []string{"overdue", "upcoming", "upcoming"},
		},
	}

	assert.Empty(t, EvaluateAssertions(assertions, testContext()))
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		want      string
	}{
		{"composite", Assertion{Type: AssertHealth, Asset: "a", Composite: model.Ptr(70.0)}, "composite 70.0"},
		{"grade", Assertion{Type: AssertHealth, Asset: "a", Grade: "excellent"}, "grade good"},
		{"missing asset", Assertion{Type: AssertHealth, Asset: "zz", Grade: "good"}, "not found"},
		{"schedule status", Assertion{Type: AssertSchedule, Asset: "a", Status: "upcoming"}, "status overdue != upcoming"},
		{"schedule days", Assertion{Type: AssertSchedule, Asset: "a", DaysRemaining: model.Ptr(3)}, "days_remaining -9 != 3"},
		{"schedule present", Assertion{Type: AssertSchedule, Asset: "a", Absent: true}, "no schedule"},
		{"schedule absent", Assertion{Type: AssertSchedule, Asset: "b", Status: "upcoming"}, "a schedule"},
		{"lifespan years", Assertion{Type: AssertLifespan, Asset: "a", RemainingYears: model.Ptr(10)}, "remaining_years 16"},
		{"lifespan absent", Assertion{Type: AssertLifespan, Asset: "b", RemainingYears: model.Ptr(10)}, "no estimate"},
		{"liveness", Assertion{Type: AssertLiveness, Sensor: "s", Liveness: "online"}, "Actual: warning"},
		{"error code", Assertion{Type: AssertError, Asset: "b", Code: "INVALID_CYCLE"}, "errors [INVALID_LIFESPAN]"},
		{"projection dates", Assertion{Type: AssertProjection, Asset: "a", Horizon: "2024-07-31", Dates: []string{"2024-07-01"}}, "dates [2024-07-01 2024-07-31]"},
		{"projection no plan", Assertion{Type: AssertProjection, Asset: "b", Horizon: "2024-07-31"}, "no plan"},
		{"projection horizon", Assertion{Type: AssertProjection, Asset: "a", Horizon: "2024-07-01"}, "INVALID_HORIZON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failures := EvaluateAssertions([]Assertion{tt.assertion}, testContext())
			require.Len(t, failures, 1)
			assert.Contains(t, failures[0], tt.want)
		})
	}
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{Type: "liveness", Subject: "s", Expected: "online", Actual: "offline"}
	assert.Equal(t, "Assertion failed: liveness s\n  Expected: online\n  Actual: offline", err.Error())
}
