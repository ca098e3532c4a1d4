package harness

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/roach88/assetcare/internal/engine"
	"github.com/roach88/assetcare/internal/model"
	"github.com/roach88/assetcare/internal/report"
)

// AssertionContext is what assertions are checked against.
type AssertionContext struct {
	Fleet  *model.Fleet
	Report *report.EvaluationReport
	Now    time.Time
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Subject  string // Asset or sensor ID
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s %s\n", e.Type, e.Subject)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns one message per
// failure. All assertions run; a failure does not stop the rest.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluateAssertion(a, actx); err != nil {
			failures = append(failures, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return failures
}

func evaluateAssertion(a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertHealth:
		return assertHealth(a, actx)
	case AssertSchedule:
		return assertSchedule(a, actx)
	case AssertLifespan:
		return assertLifespan(a, actx)
	case AssertLiveness:
		return assertLiveness(a, actx)
	case AssertProjection:
		return assertProjection(a, actx)
	case AssertError:
		return assertError(a, actx)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func findEntry(actx *AssertionContext, a Assertion) (*report.AssetEntry, error) {
	for i := range actx.Report.Assets {
		if actx.Report.Assets[i].AssetID == a.Asset {
			return &actx.Report.Assets[i], nil
		}
	}
	return nil, &AssertionError{Type: a.Type, Subject: a.Asset, Expected: "asset in report", Actual: "not found"}
}

func assertHealth(a Assertion, actx *AssertionContext) error {
	entry, err := findEntry(actx, a)
	if err != nil {
		return err
	}
	if a.Composite != nil && entry.Health.Composite != *a.Composite {
		return &AssertionError{
			Type:     a.Type,
			Subject:  a.Asset,
			Expected: fmt.Sprintf("composite %.1f", *a.Composite),
			Actual:   fmt.Sprintf("composite %.1f %+v", entry.Health.Composite, entry.Health),
		}
	}
	if a.Grade != "" && string(entry.Grade) != a.Grade {
		return &AssertionError{
			Type:     a.Type,
			Subject:  a.Asset,
			Expected: fmt.Sprintf("grade %s", a.Grade),
			Actual:   fmt.Sprintf("grade %s (composite %.1f)", entry.Grade, entry.Health.Composite),
		}
	}
	return nil
}

func assertSchedule(a Assertion, actx *AssertionContext) error {
	entry, err := findEntry(actx, a)
	if err != nil {
		return err
	}
	s := entry.Schedule
	if s == nil {
		if a.Absent {
			return nil
		}
		return &AssertionError{Type: a.Type, Subject: a.Asset, Expected: "a schedule", Actual: "no schedule"}
	}
	if a.Absent {
		return &AssertionError{Type: a.Type, Subject: a.Asset, Expected: "no schedule", Actual: fmt.Sprintf("%+v", *s)}
	}

	var diffs []string
	if a.Status != "" && string(s.Status) != a.Status {
		diffs = append(diffs, fmt.Sprintf("status %s != %s", s.Status, a.Status))
	}
	if a.NextDueDate != "" && s.NextDueDate != a.NextDueDate {
		diffs = append(diffs, fmt.Sprintf("next_due_date %s != %s", s.NextDueDate, a.NextDueDate))
	}
	if a.DaysRemaining != nil && s.DaysRemaining != *a.DaysRemaining {
		diffs = append(diffs, fmt.Sprintf("days_remaining %d != %d", s.DaysRemaining, *a.DaysRemaining))
	}
	if a.StoredNextMismatch != nil && s.StoredNextMismatch != *a.StoredNextMismatch {
		diffs = append(diffs, fmt.Sprintf("stored_next_mismatch %t != %t", s.StoredNextMismatch, *a.StoredNextMismatch))
	}
	if len(diffs) > 0 {
		return &AssertionError{
			Type:     a.Type,
			Subject:  a.Asset,
			Expected: "schedule matching assertion",
			Actual:   strings.Join(diffs, "; "),
		}
	}
	return nil
}

func assertLifespan(a Assertion, actx *AssertionContext) error {
	entry, err := findEntry(actx, a)
	if err != nil {
		return err
	}
	est := entry.Lifespan
	switch {
	case est == nil && a.Absent:
		return nil
	case est == nil:
		return &AssertionError{Type: a.Type, Subject: a.Asset, Expected: "a lifespan estimate", Actual: "no estimate"}
	case a.Absent:
		return &AssertionError{Type: a.Type, Subject: a.Asset, Expected: "no estimate", Actual: fmt.Sprintf("%+v", *est)}
	}

	if a.RemainingYears != nil && est.RemainingYears != *a.RemainingYears {
		return &AssertionError{
			Type:     a.Type,
			Subject:  a.Asset,
			Expected: fmt.Sprintf("remaining_years %d", *a.RemainingYears),
			Actual:   fmt.Sprintf("remaining_years %d", est.RemainingYears),
		}
	}
	if a.RemainingPercent != nil && est.RemainingPercent != *a.RemainingPercent {
		return &AssertionError{
			Type:     a.Type,
			Subject:  a.Asset,
			Expected: fmt.Sprintf("remaining_percent %d", *a.RemainingPercent),
			Actual:   fmt.Sprintf("remaining_percent %d", est.RemainingPercent),
		}
	}
	return nil
}

func assertLiveness(a Assertion, actx *AssertionContext) error {
	for _, s := range actx.Report.Sensors {
		if s.SensorID != a.Sensor {
			continue
		}
		if string(s.Liveness) != a.Liveness {
			return &AssertionError{
				Type:     a.Type,
				Subject:  a.Sensor,
				Expected: a.Liveness,
				Actual:   string(s.Liveness),
			}
		}
		return nil
	}
	return &AssertionError{Type: a.Type, Subject: a.Sensor, Expected: "sensor in report", Actual: "not found"}
}

// assertProjection projects the stored plan directly; projections are not
// part of the report.
func assertProjection(a Assertion, actx *AssertionContext) error {
	rec, ok := actx.Fleet.FindAsset(a.Asset)
	if !ok || rec.Plan == nil {
		return &AssertionError{Type: a.Type, Subject: a.Asset, Expected: "asset with a plan", Actual: "no plan"}
	}
	horizon, err := model.ParseTime(a.Horizon)
	if err != nil {
		return fmt.Errorf("horizon: %w", err)
	}

	tasks, err := engine.ProjectTasks(*rec.Plan, horizon, actx.Now)
	if err != nil {
		return &AssertionError{Type: a.Type, Subject: a.Asset, Expected: "a projection", Actual: err.Error()}
	}

	dates := make([]string, len(tasks))
	statuses := make([]string, len(tasks))
	for i, task := range tasks {
		dates[i] = task.ScheduledDate.Format(model.DateLayout)
		statuses[i] = string(task.Status)
	}

	if !slices.Equal(dates, a.Dates) {
		return &AssertionError{
			Type:     a.Type,
			Subject:  a.Asset,
			Expected: fmt.Sprintf("dates %v", a.Dates),
			Actual:   fmt.Sprintf("dates %v", dates),
		}
	}
	if len(a.Statuses) > 0 && !slices.Equal(statuses, a.Statuses) {
		return &AssertionError{
			Type:     a.Type,
			Subject:  a.Asset,
			Expected: fmt.Sprintf("statuses %v", a.Statuses),
			Actual:   fmt.Sprintf("statuses %v", statuses),
		}
	}
	return nil
}

func assertError(a Assertion, actx *AssertionContext) error {
	entry, err := findEntry(actx, a)
	if err != nil {
		return err
	}
	codes := make([]string, 0, len(entry.Errors))
	for _, e := range entry.Errors {
		if e.Code == a.Code {
			return nil
		}
		codes = append(codes, e.Code)
	}
	return &AssertionError{
		Type:     a.Type,
		Subject:  a.Asset,
		Expected: fmt.Sprintf("error %s", a.Code),
		Actual:   fmt.Sprintf("errors %v", codes),
	}
}
