package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/assetcare/internal/catalog"
	"github.com/roach88/assetcare/internal/engine"
	"github.com/roach88/assetcare/internal/model"
	"github.com/roach88/assetcare/internal/report"
	"github.com/roach88/assetcare/internal/store"
	"github.com/roach88/assetcare/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios with a fixed clock and run ID.
type Harness struct {
	store  *store.Store
	clock  *testutil.FixedClock
	ids    *testutil.FixedIDGenerator
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Build the fleet from the CUE directory and inline records
// 2. Write it to a fresh in-memory store and read it back
// 3. Evaluate the stored fleet at the scenario's instant
// 4. Check assertions against the report
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with a caller-supplied logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	now, err := model.ParseTime(scenario.Now)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: now: %w", scenario.Name, err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		clock:  testutil.NewFixedClock(now),
		ids:    testutil.NewFixedIDGenerator(scenario.RunID),
		logger: logger.With("scenario", scenario.Name),
	}

	return h.run(context.Background(), scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	source, err := buildFleet(scenario)
	if err != nil {
		return nil, err
	}

	if err := h.store.WriteFleet(ctx, source); err != nil {
		return nil, fmt.Errorf("failed to write fleet: %w", err)
	}
	fleet, err := h.store.ReadFleet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read fleet: %w", err)
	}
	h.logger.Debug("fleet stored",
		"assets", len(fleet.Assets),
		"sensors", len(fleet.Sensors))

	now := h.clock.Now()
	res, err := engine.EvaluateFleet(ctx, *fleet, now, engine.BatchOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate fleet: %w", err)
	}
	rep, err := report.NewBuilder(h.ids).Build(res, now)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}

	result := NewResult()
	result.Report = rep
	result.Fleet = fleet

	actx := &AssertionContext{Fleet: fleet, Report: rep, Now: now}
	for _, msg := range EvaluateAssertions(scenario.Assertions, actx) {
		result.AddError(msg)
	}

	h.logger.Debug("scenario evaluated",
		"digest", rep.Digest,
		"pass", result.Pass,
		"failures", len(result.Errors))
	return result, nil
}

// buildFleet loads the scenario's CUE fleet, if any, and appends the
// inline records. Inline IDs must not collide with CUE IDs.
func buildFleet(scenario *Scenario) (*model.Fleet, error) {
	fleet := &model.Fleet{}
	if scenario.Fleet != "" {
		loaded, err := catalog.LoadDir(scenario.Fleet)
		if err != nil {
			return nil, fmt.Errorf("failed to load fleet: %w", err)
		}
		fleet = loaded.Fleet
	}

	for _, rec := range scenario.Assets {
		if _, dup := fleet.FindAsset(rec.Asset.ID); dup {
			return nil, fmt.Errorf("asset %s declared twice", rec.Asset.ID)
		}
		if rec.Plan != nil && rec.Plan.AssetID == "" {
			plan := *rec.Plan
			plan.AssetID = rec.Asset.ID
			rec.Plan = &plan
		}
		fleet.Assets = append(fleet.Assets, rec)
	}
	for _, s := range scenario.Sensors {
		if _, dup := fleet.FindSensor(s.ID); dup {
			return nil, fmt.Errorf("sensor %s declared twice", s.ID)
		}
		fleet.Sensors = append(fleet.Sensors, s)
	}
	return fleet, nil
}
