package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/assetcare/internal/engine"
	"github.com/roach88/assetcare/internal/model"
	"github.com/roach88/assetcare/internal/report"
)

// InspectOptions holds flags shared by the single-asset and single-sensor
// commands.
type InspectOptions struct {
	*RootOptions
	Database string
	Horizon  string // project only
}

// HealthView is the output of the health command.
type HealthView struct {
	AssetID string                      `json:"asset_id"`
	Health  engine.HealthScoreBreakdown `json:"health"`
	Grade   engine.HealthGrade          `json:"grade"`
}

// ProjectionView is the output of the project command.
type ProjectionView struct {
	AssetID string         `json:"asset_id"`
	PlanID  string         `json:"plan_id,omitempty"`
	Horizon string         `json:"horizon"`
	Tasks   []ProjectedDay `json:"tasks"`
}

// ProjectedDay is one projected occurrence with a calendar date.
type ProjectedDay struct {
	ScheduledDate string                `json:"scheduled_date"`
	Status        engine.ScheduleStatus `json:"status"`
}

// LivenessView is the output of the liveness command.
type LivenessView struct {
	SensorID string          `json:"sensor_id"`
	AssetID  string          `json:"asset_id,omitempty"`
	Declared string          `json:"declared"`
	LastSeen string          `json:"last_seen,omitempty"`
	Liveness engine.Liveness `json:"liveness"`
}

// inspection is the state a single-subject command works from.
type inspection struct {
	formatter *OutputFormatter
	fleet     *model.Fleet
	subject   string
	now       time.Time
}

func newInspectCommand(rootOpts *RootOptions, use, short, long string, run func(*InspectOptions, *inspection) error) (*cobra.Command, *InspectOptions) {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Long:          long,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opts.prepare(cmd, args)
			if err != nil {
				return err
			}
			return run(opts, in)
		},
	}
	cmd.Flags().StringVar(&opts.Database, "db", "", "read the fleet from a snapshot database")
	return cmd, opts
}

// prepare resolves the fleet source and subject ID from args, loads the
// fleet and fixes the evaluation instant.
func (o *InspectOptions) prepare(cmd *cobra.Command, args []string) (*inspection, error) {
	src := FleetSource{Database: o.Database}
	var subject string
	switch {
	case o.Database != "" && len(args) == 1:
		subject = args[0]
	case o.Database == "" && len(args) == 2:
		src.Dir, subject = args[0], args[1]
	case o.Database != "":
		return nil, NewExitError(ExitCommandError, "with --db, pass only the ID")
	default:
		return nil, NewExitError(ExitCommandError, "expected <fleet-dir> <id>, or --db <path> <id>")
	}

	now, err := o.evaluationTime()
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	formatter := o.formatter(cmd)
	fleet, err := LoadFleet(ctx, src, o.logger(cmd.ErrOrStderr()))
	if err != nil {
		return nil, fleetError(formatter, err)
	}
	return &inspection{formatter: formatter, fleet: fleet, subject: subject, now: now}, nil
}

// validationFailure reports an engine validation error for one subject.
func validationFailure(formatter *OutputFormatter, err error) error {
	var ve *engine.ValidationError
	if !errors.As(err, &ve) {
		return WrapExitError(ExitCommandError, "evaluation failed", err)
	}
	if formatter.Format == "json" {
		_ = formatter.Error(string(ve.Code), ve.Message, map[string]string{"field": ve.Field})
	} else {
		fmt.Fprintf(formatter.Writer, "✗ %s: %s\n", ve.Code, ve.Message)
	}
	return NewExitError(ExitFailure, ve.Error())
}

// NewHealthCommand creates the health command.
func NewHealthCommand(rootOpts *RootOptions) *cobra.Command {
	cmd, _ := newInspectCommand(rootOpts,
		"health <fleet-dir> <asset-id>",
		"Show the health score breakdown of one asset",
		`Show the five health factors and the weighted composite of one asset.

Examples:
  assetctl health ./fleet pump-01
  assetctl health --db ./fleet.db pump-01 --now 2024-07-10`,
		runHealth)
	return cmd
}

func runHealth(_ *InspectOptions, in *inspection) error {
	rec, err := findAsset(in.formatter, in.fleet, in.subject)
	if err != nil {
		return err
	}

	h := engine.ComputeHealth(*rec, in.now)
	view := HealthView{AssetID: rec.Asset.ID, Health: h, Grade: h.Grade()}
	if in.formatter.Format == "json" {
		return in.formatter.Success(view)
	}

	w := in.formatter.Writer
	fmt.Fprintf(w, "%s: %.1f (%s)\n", view.AssetID, h.Composite, view.Grade)
	fmt.Fprintf(w, "  condition    %5.1f  x %.2f\n", h.Condition, engine.WeightCondition)
	fmt.Fprintf(w, "  status       %5.1f  x %.2f\n", h.Status, engine.WeightStatus)
	fmt.Fprintf(w, "  maintenance  %5.1f  x %.2f\n", h.Maintenance, engine.WeightMaintenance)
	fmt.Fprintf(w, "  incident     %5.1f  x %.2f\n", h.Incident, engine.WeightIncident)
	fmt.Fprintf(w, "  age          %5.1f  x %.2f\n", h.Age, engine.WeightAge)
	return nil
}

// NewLifespanCommand creates the lifespan command.
func NewLifespanCommand(rootOpts *RootOptions) *cobra.Command {
	cmd, _ := newInspectCommand(rootOpts,
		"lifespan <fleet-dir> <asset-id>",
		"Estimate the remaining service life of one asset",
		`Estimate age, remaining years and remaining percentage of designed
service life, plus the health-adjusted remaining years.

Exit codes:
  0 - Estimate printed, or no lifespan data
  1 - Designed lifespan is invalid
  2 - Command error`,
		runLifespan)
	return cmd
}

func runLifespan(_ *InspectOptions, in *inspection) error {
	rec, err := findAsset(in.formatter, in.fleet, in.subject)
	if err != nil {
		return err
	}

	est, err := engine.EstimateLifespanWithHealth(rec.Asset, engine.ComputeHealth(*rec, in.now), in.now)
	if err != nil {
		return validationFailure(in.formatter, err)
	}

	if in.formatter.Format == "json" {
		return in.formatter.Success(map[string]any{
			"asset_id": rec.Asset.ID,
			"lifespan": est,
		})
	}

	w := in.formatter.Writer
	if est == nil {
		fmt.Fprintf(w, "%s: no lifespan data\n", rec.Asset.ID)
		return nil
	}
	fmt.Fprintf(w, "%s: %d of %d years used, %d remaining (%d%%)\n",
		rec.Asset.ID, est.CurrentAgeYears, *rec.Asset.DesignedLifespanYears, est.RemainingYears, est.RemainingPercent)
	if est.HealthAdjustedYears != nil {
		fmt.Fprintf(w, "  health-adjusted: %.1f years\n", *est.HealthAdjustedYears)
	}
	return nil
}

// NewScheduleCommand creates the schedule command.
func NewScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	cmd, _ := newInspectCommand(rootOpts,
		"schedule <fleet-dir> <asset-id>",
		"Show the next preventive maintenance due date of one asset",
		`Derive the next due date of the asset's preventive maintenance plan and
classify it as upcoming, due_soon, overdue or inactive.

A stored next date that disagrees with the derived one is flagged.

Exit codes:
  0 - Schedule printed
  1 - Plan is invalid
  2 - Command error (unknown asset, no plan)`,
		runSchedule)
	return cmd
}

func planFor(in *inspection) (*model.AssetRecord, error) {
	rec, err := findAsset(in.formatter, in.fleet, in.subject)
	if err != nil {
		return nil, err
	}
	if rec.Plan == nil {
		msg := fmt.Sprintf("asset %q has no maintenance plan", in.subject)
		_ = in.formatter.Error(ErrCodeNoPlan, msg, nil)
		return nil, NewExitError(ExitCommandError, msg)
	}
	return rec, nil
}

func runSchedule(_ *InspectOptions, in *inspection) error {
	rec, err := planFor(in)
	if err != nil {
		return err
	}

	sched, err := engine.Classify(*rec.Plan, in.now)
	if err != nil {
		return validationFailure(in.formatter, err)
	}

	entry := report.NewAssetEntry(engine.AssetResult{AssetID: rec.Asset.ID, Schedule: &sched}).Schedule
	if in.formatter.Format == "json" {
		return in.formatter.Success(map[string]any{
			"asset_id": rec.Asset.ID,
			"plan_id":  rec.Plan.ID,
			"schedule": entry,
		})
	}

	w := in.formatter.Writer
	fmt.Fprintf(w, "%s: next due %s (%s, %d days)\n", rec.Asset.ID, entry.NextDueDate, entry.Status, entry.DaysRemaining)
	if entry.StoredNextMismatch {
		fmt.Fprintf(w, "  stored next date %s disagrees with the plan\n", rec.Plan.StoredNextDate.Format(model.DateLayout))
	}
	return nil
}

// NewProjectCommand creates the project command.
func NewProjectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd, opts := newInspectCommand(rootOpts,
		"project <fleet-dir> <asset-id>",
		"Project preventive maintenance occurrences up to a horizon",
		`Expand the asset's plan into every occurrence from the next due date up
to and including --horizon, one per cycle.

Examples:
  assetctl project ./fleet pump-01 --horizon 2025-12-31
  assetctl project ./fleet pump-01 --horizon 2025-12-31 --format json`,
		runProject)
	cmd.Flags().StringVar(&opts.Horizon, "horizon", "", "last date to project, inclusive (required)")
	_ = cmd.MarkFlagRequired("horizon")
	return cmd
}

func runProject(opts *InspectOptions, in *inspection) error {
	horizon, err := model.ParseTime(opts.Horizon)
	if err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --horizon: %v", err))
	}

	rec, err := planFor(in)
	if err != nil {
		return err
	}

	seq, err := engine.Project(*rec.Plan, horizon, in.now)
	if err != nil {
		return validationFailure(in.formatter, err)
	}

	view := ProjectionView{
		AssetID: rec.Asset.ID,
		PlanID:  rec.Plan.ID,
		Horizon: horizon.Format(model.DateLayout),
		Tasks:   []ProjectedDay{},
	}
	for task := range seq {
		view.Tasks = append(view.Tasks, ProjectedDay{
			ScheduledDate: task.ScheduledDate.Format(model.DateLayout),
			Status:        task.Status,
		})
	}

	if in.formatter.Format == "json" {
		return in.formatter.Success(view)
	}

	w := in.formatter.Writer
	fmt.Fprintf(w, "%s: %d occurrence(s) through %s\n", view.AssetID, len(view.Tasks), view.Horizon)
	for _, t := range view.Tasks {
		fmt.Fprintf(w, "  %s  %s\n", t.ScheduledDate, t.Status)
	}
	return nil
}

// NewLivenessCommand creates the liveness command.
func NewLivenessCommand(rootOpts *RootOptions) *cobra.Command {
	cmd, _ := newInspectCommand(rootOpts,
		"liveness <fleet-dir> <sensor-id>",
		"Classify the liveness of one sensor",
		`Classify a sensor as online, warning, offline, inactive, maintenance or
error from its declared status and the time it was last seen.

More than 10 minutes of silence is warning, more than 30 is offline.`,
		runLiveness)
	return cmd
}

func runLiveness(_ *InspectOptions, in *inspection) error {
	s, ok := in.fleet.FindSensor(in.subject)
	if !ok {
		msg := fmt.Sprintf("sensor %q not found", in.subject)
		_ = in.formatter.Error(ErrCodeUnknownSensor, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	view := LivenessView{
		SensorID: s.ID,
		AssetID:  s.AssetID,
		Declared: string(s.Status),
		Liveness: engine.EvaluateSensor(*s, in.now),
	}
	if s.LastSeen != nil {
		view.LastSeen = s.LastSeen.UTC().Format(time.RFC3339)
	}

	if in.formatter.Format == "json" {
		return in.formatter.Success(view)
	}
	fmt.Fprintf(in.formatter.Writer, "%s: %s\n", view.SensorID, view.Liveness)
	return nil
}
