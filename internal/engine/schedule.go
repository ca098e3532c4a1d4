package engine

import (
	"time"

	"github.com/roach88/assetcare/internal/model"
)

// ScheduleStatus classifies a maintenance due date relative to now.
type ScheduleStatus string

const (
	ScheduleUpcoming ScheduleStatus = "upcoming"
	ScheduleDueSoon  ScheduleStatus = "due_soon"
	ScheduleOverdue  ScheduleStatus = "overdue"
	ScheduleInactive ScheduleStatus = "inactive"
)

// Schedule is the classification of a plan's next occurrence.
type Schedule struct {
	NextDueDate time.Time      `json:"next_due_date"`
	Status      ScheduleStatus `json:"status"`

	// DaysRemaining is negative when overdue.
	DaysRemaining int `json:"days_remaining"`

	// StoredNextMismatch is set when the plan carries a stored next date
	// that disagrees with the derived one.
	StoredNextMismatch bool `json:"stored_next_mismatch,omitempty"`
}

// Classify computes the next due date of a plan and classifies it.
//
// The due date is always derived from the plan fields: the last
// maintenance date, else the plan creation date, else now, plus
// cycle_days calendar days. Inactive plans get status inactive.
func Classify(plan model.PreventiveMaintenancePlan, now time.Time) (Schedule, error) {
	if err := validatePlan(plan); err != nil {
		return Schedule{}, err
	}

	next := NextDueDate(plan, now)
	s := Schedule{
		NextDueDate:   next,
		DaysRemaining: model.DaysBetween(now, next),
	}
	if plan.StoredNextDate != nil && !model.Day(*plan.StoredNextDate).Equal(next) {
		s.StoredNextMismatch = true
	}

	if !plan.IsActive {
		s.Status = ScheduleInactive
		return s, nil
	}
	s.Status = classifyDue(next, plan.Warning(), now)
	return s, nil
}

// NextDueDate returns anchor + cycle_days. The plan must be valid.
func NextDueDate(plan model.PreventiveMaintenancePlan, now time.Time) time.Time {
	anchor := now
	switch {
	case plan.LastMaintenanceDate != nil:
		anchor = *plan.LastMaintenanceDate
	case plan.CreatedAt != nil:
		anchor = *plan.CreatedAt
	}
	return model.AddDays(anchor, plan.CycleDays)
}

// classifyDue applies the ordered rules: overdue when now is past the due
// day, due soon when within the warning window (inclusive), else upcoming.
func classifyDue(due time.Time, warningDays int, now time.Time) ScheduleStatus {
	remaining := model.DaysBetween(now, due)
	switch {
	case remaining < 0:
		return ScheduleOverdue
	case remaining <= warningDays:
		return ScheduleDueSoon
	default:
		return ScheduleUpcoming
	}
}

func validatePlan(plan model.PreventiveMaintenancePlan) error {
	if plan.CycleDays < 1 {
		return newValidationError(ErrCodeInvalidCycle, "cycle_days",
			"cycle must be at least 1 day, got %d", plan.CycleDays)
	}
	if plan.WarningDays != nil && *plan.WarningDays < 0 {
		return newValidationError(ErrCodeInvalidWarningWindow, "warning_days",
			"warning window must be >= 0, got %d", *plan.WarningDays)
	}
	return nil
}
