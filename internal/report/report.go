package report

import (
	"fmt"
	"math"
	"time"

	"github.com/roach88/assetcare/internal/engine"
	"github.com/roach88/assetcare/internal/model"
)

// EvaluationReport is the outcome of one batch evaluation.
type EvaluationReport struct {
	RunID       string        `json:"run_id"`
	GeneratedAt string        `json:"generated_at"`
	Digest      string        `json:"digest"`
	Summary     Summary       `json:"summary"`
	Assets      []AssetEntry  `json:"assets"`
	Sensors     []SensorEntry `json:"sensors,omitempty"`
}

// Summary counts results by category.
type Summary struct {
	Assets  int `json:"assets"`
	Sensors int `json:"sensors"`
	Invalid int `json:"invalid"`

	// MeanHealth is the average composite, rounded to one decimal.
	MeanHealth float64 `json:"mean_health"`

	Grades   map[engine.HealthGrade]int    `json:"grades"`
	Schedule map[engine.ScheduleStatus]int `json:"schedule"`
	Liveness map[engine.Liveness]int       `json:"liveness"`
}

// AssetEntry is the reported view of one asset.
type AssetEntry struct {
	AssetID  string                      `json:"asset_id"`
	Health   engine.HealthScoreBreakdown `json:"health"`
	Grade    engine.HealthGrade          `json:"grade"`
	Lifespan *engine.LifespanEstimate    `json:"lifespan,omitempty"`
	Schedule *ScheduleEntry              `json:"schedule,omitempty"`
	Errors   []ErrorEntry                `json:"errors,omitempty"`
}

// ScheduleEntry is engine.Schedule with a calendar-date due date.
type ScheduleEntry struct {
	NextDueDate        string                `json:"next_due_date"`
	Status             engine.ScheduleStatus `json:"status"`
	DaysRemaining      int                   `json:"days_remaining"`
	StoredNextMismatch bool                  `json:"stored_next_mismatch,omitempty"`
}

// ErrorEntry is a reported validation error.
type ErrorEntry struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SensorEntry is the reported view of one sensor.
type SensorEntry struct {
	SensorID string          `json:"sensor_id"`
	AssetID  string          `json:"asset_id,omitempty"`
	Liveness engine.Liveness `json:"liveness"`
}

// Builder assembles reports.
type Builder struct {
	ids IDGenerator
}

// NewBuilder creates a Builder. A nil generator defaults to UUIDv7Generator.
func NewBuilder(ids IDGenerator) *Builder {
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	return &Builder{ids: ids}
}

// Build converts fleet results evaluated at now into a report and
// computes its digest.
func (b *Builder) Build(res *engine.FleetResult, now time.Time) (*EvaluationReport, error) {
	rep := &EvaluationReport{
		RunID:       b.ids.Generate(),
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Summary: Summary{
			Assets:   len(res.Assets),
			Sensors:  len(res.Sensors),
			Grades:   map[engine.HealthGrade]int{},
			Schedule: map[engine.ScheduleStatus]int{},
			Liveness: map[engine.Liveness]int{},
		},
		Assets:  make([]AssetEntry, 0, len(res.Assets)),
		Sensors: make([]SensorEntry, 0, len(res.Sensors)),
	}

	var total float64
	for _, a := range res.Assets {
		entry := NewAssetEntry(a)
		rep.Assets = append(rep.Assets, entry)

		total += a.Health.Composite
		rep.Summary.Grades[entry.Grade]++
		if entry.Schedule != nil {
			rep.Summary.Schedule[entry.Schedule.Status]++
		}
		if len(entry.Errors) > 0 {
			rep.Summary.Invalid++
		}
	}
	if len(res.Assets) > 0 {
		rep.Summary.MeanHealth = math.Round(total/float64(len(res.Assets))*10) / 10
	}

	for _, s := range res.Sensors {
		rep.Sensors = append(rep.Sensors, SensorEntry(s))
		rep.Summary.Liveness[s.Liveness]++
	}

	digest, err := Digest(rep)
	if err != nil {
		return nil, err
	}
	rep.Digest = digest
	return rep, nil
}

// NewAssetEntry converts one engine result.
func NewAssetEntry(a engine.AssetResult) AssetEntry {
	entry := AssetEntry{
		AssetID:  a.AssetID,
		Health:   a.Health,
		Grade:    a.Health.Grade(),
		Lifespan: a.Lifespan,
	}
	if a.Schedule != nil {
		entry.Schedule = &ScheduleEntry{
			NextDueDate:        a.Schedule.NextDueDate.Format(model.DateLayout),
			Status:             a.Schedule.Status,
			DaysRemaining:      a.Schedule.DaysRemaining,
			StoredNextMismatch: a.Schedule.StoredNextMismatch,
		}
	}
	for _, e := range a.Errors {
		entry.Errors = append(entry.Errors, ErrorEntry{
			Code:    string(e.Code),
			Field:   e.Field,
			Message: e.Message,
		})
	}
	return entry
}

// Digest hashes the report body. RunID and Digest itself are excluded so
// two runs over identical inputs agree.
func Digest(rep *EvaluationReport) (string, error) {
	body := struct {
		GeneratedAt string        `json:"generated_at"`
		Summary     Summary       `json:"summary"`
		Assets      []AssetEntry  `json:"assets"`
		Sensors     []SensorEntry `json:"sensors,omitempty"`
	}{rep.GeneratedAt, rep.Summary, rep.Assets, rep.Sensors}

	canonical, err := MarshalCanonical(body)
	if err != nil {
		return "", fmt.Errorf("report digest: %w", err)
	}
	return hashWithDomain(DomainReport, canonical), nil
}
