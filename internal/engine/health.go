package engine

import (
	"math"
	"time"

	"github.com/roach88/assetcare/internal/model"
)

// Health factor weights. They sum to 1.0.
const (
	WeightCondition   = 0.30
	WeightStatus      = 0.20
	WeightMaintenance = 0.25
	WeightIncident    = 0.15
	WeightAge         = 0.10
)

// Neutral defaults used when the input needed for a factor is absent.
const (
	NeutralConditionScore   = 50.0
	NeutralStatusScore      = 50.0
	NeutralMaintenanceScore = 70.0
	NeutralAgeScore         = 70.0
)

// IncidentWindowDays bounds how far back unresolved incidents count.
const IncidentWindowDays = 365

var conditionScores = map[model.LifecycleStatus]float64{
	model.LifecycleOperational:    100,
	model.LifecycleUnderRepair:    60,
	model.LifecycleDamaged:        20,
	model.LifecycleDecommissioned: 0,
}

var statusScores = map[model.AssetStatus]float64{
	model.StatusActive:         100,
	model.StatusMaintenance:    60,
	model.StatusInactive:       30,
	model.StatusDecommissioned: 0,
}

var incidentPenalties = map[model.Severity]float64{
	model.SeverityLow:      5,
	model.SeverityMedium:   10,
	model.SeverityHigh:     20,
	model.SeverityCritical: 35,
}

// HealthScoreBreakdown holds the five sub-scores and their weighted
// composite. Every value is in [0, 100].
type HealthScoreBreakdown struct {
	Condition   float64 `json:"condition"`
	Status      float64 `json:"status"`
	Maintenance float64 `json:"maintenance"`
	Incident    float64 `json:"incident"`
	Age         float64 `json:"age"`
	Composite   float64 `json:"composite"`
}

// Grade returns the display band of the composite score.
func (b HealthScoreBreakdown) Grade() HealthGrade {
	return GradeFor(b.Composite)
}

// HealthGrade is a coarse band over the composite score.
type HealthGrade string

const (
	GradeExcellent HealthGrade = "excellent"
	GradeGood      HealthGrade = "good"
	GradeFair      HealthGrade = "fair"
	GradePoor      HealthGrade = "poor"
	GradeCritical  HealthGrade = "critical"
)

// GradeFor maps a composite score to its band.
func GradeFor(score float64) HealthGrade {
	switch {
	case score >= 80:
		return GradeExcellent
	case score >= 60:
		return GradeGood
	case score >= 40:
		return GradeFair
	case score >= 20:
		return GradePoor
	default:
		return GradeCritical
	}
}

// ComputeHealth scores an asset from its record as of now.
//
// The function is total: absent lifecycle, status, plan, history or
// lifespan data degrade the affected factor to its neutral default.
func ComputeHealth(rec model.AssetRecord, now time.Time) HealthScoreBreakdown {
	b := HealthScoreBreakdown{
		Condition:   conditionScore(rec.Asset),
		Status:      statusScore(rec.Asset),
		Maintenance: maintenanceScore(rec.Maintenance, rec.Plan, now),
		Incident:    incidentScore(rec.Incidents, now),
		Age:         ageScore(rec.Asset, now),
	}
	b.Composite = composite(b)
	return b
}

func composite(b HealthScoreBreakdown) float64 {
	sum := WeightCondition*b.Condition +
		WeightStatus*b.Status +
		WeightMaintenance*b.Maintenance +
		WeightIncident*b.Incident +
		WeightAge*b.Age
	return clamp(round1(sum), 0, 100)
}

func conditionScore(a model.Asset) float64 {
	if s, ok := conditionScores[a.LifecycleStatus]; ok {
		return s
	}
	return NeutralConditionScore
}

func statusScore(a model.Asset) float64 {
	if s, ok := statusScores[a.Status]; ok {
		return s
	}
	return NeutralStatusScore
}

// maintenanceScore penalizes time past the plan cycle since the last
// completed job, taken as the later of the history and the plan's own
// last_maintenance_date. A full missed cycle drains the score to 0.
func maintenanceScore(history []model.MaintenanceRecord, plan *model.PreventiveMaintenancePlan, now time.Time) float64 {
	if plan == nil || plan.CycleDays < 1 {
		return NeutralMaintenanceScore
	}

	last, ok := lastCompleted(history)
	if p := plan.LastMaintenanceDate; p != nil && (!ok || p.After(last)) {
		last, ok = *p, true
	}
	if !ok {
		return NeutralMaintenanceScore
	}

	overdue := model.DaysBetween(last, now) - plan.CycleDays
	if overdue <= 0 {
		return 100
	}
	penalty := 100 * float64(overdue) / float64(plan.CycleDays)
	return clamp(round1(100-penalty), 0, 100)
}

// lastCompleted finds the most recent completed maintenance. Input order
// does not matter.
func lastCompleted(history []model.MaintenanceRecord) (time.Time, bool) {
	var (
		latest time.Time
		found  bool
	)
	for _, m := range history {
		if m.Status != model.MaintenanceCompleted {
			continue
		}
		if done := m.DoneAt(); !found || done.After(latest) {
			latest = done
			found = true
		}
	}
	return latest, found
}

func incidentScore(incidents []model.IncidentRecord, now time.Time) float64 {
	score := 100.0
	for _, inc := range incidents {
		if !inc.Status.Unresolved() {
			continue
		}
		age := model.DaysBetween(inc.CreatedAt, now)
		if age < 0 || age > IncidentWindowDays {
			continue
		}
		score -= incidentPenalties[inc.Severity]
	}
	return math.Max(score, 0)
}

func ageScore(a model.Asset, now time.Time) float64 {
	if a.CommissionedDate == nil || a.DesignedLifespanYears == nil || *a.DesignedLifespanYears <= 0 {
		return NeutralAgeScore
	}
	days := model.DaysBetween(*a.CommissionedDate, now)
	if days <= 0 {
		return 100
	}
	age := float64(days) / daysPerYear
	return clamp(round1(100*(1-age/float64(*a.DesignedLifespanYears))), 0, 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
