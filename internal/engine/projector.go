package engine

import (
	"iter"
	"slices"
	"time"

	"github.com/roach88/assetcare/internal/model"
)

// PreventiveMaintenanceTask is one projected occurrence of a plan.
type PreventiveMaintenanceTask struct {
	ScheduledDate time.Time      `json:"scheduled_date"`
	Status        ScheduleStatus `json:"status"`
}

// Project expands a plan into its occurrences from the next due date up to
// and including horizonEnd, one every cycle_days.
//
// The returned sequence holds no state between iterations: ranging over it
// again, or calling Project again with the same arguments, yields the same
// tasks. Occurrences before now are included as overdue so callers can
// surface a backlog. Inactive plans project nothing. The horizon is a
// calendar day and must fall on a later day than now.
func Project(plan model.PreventiveMaintenancePlan, horizonEnd, now time.Time) (iter.Seq[PreventiveMaintenanceTask], error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	if !model.Day(horizonEnd).After(model.Day(now)) {
		return nil, newValidationError(ErrCodeInvalidHorizon, "horizon_end",
			"horizon %s must be after now %s", horizonEnd.Format(time.RFC3339), now.Format(time.RFC3339))
	}

	first := NextDueDate(plan, now)
	last := model.Day(horizonEnd)
	warning := plan.Warning()
	cycle := plan.CycleDays
	active := plan.IsActive

	return func(yield func(PreventiveMaintenanceTask) bool) {
		if !active {
			return
		}
		for due := first; !due.After(last); due = model.AddDays(due, cycle) {
			task := PreventiveMaintenanceTask{
				ScheduledDate: due,
				Status:        classifyDue(due, warning, now),
			}
			if !yield(task) {
				return
			}
		}
	}, nil
}

// ProjectTasks is Project collected into a slice.
func ProjectTasks(plan model.PreventiveMaintenancePlan, horizonEnd, now time.Time) ([]PreventiveMaintenanceTask, error) {
	seq, err := Project(plan, horizonEnd, now)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}
