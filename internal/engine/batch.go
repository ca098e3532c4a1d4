package engine

import (
	"context"
	"errors"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/assetcare/internal/model"
)

// AssetResult is the full evaluation of one asset.
type AssetResult struct {
	AssetID  string               `json:"asset_id"`
	Health   HealthScoreBreakdown `json:"health"`
	Lifespan *LifespanEstimate    `json:"lifespan,omitempty"`
	Schedule *Schedule            `json:"schedule,omitempty"`

	// Errors holds validation failures for this asset. Other assets in
	// the same batch are unaffected.
	Errors []*ValidationError `json:"errors,omitempty"`
}

// SensorResult is the liveness of one sensor.
type SensorResult struct {
	SensorID string   `json:"sensor_id"`
	AssetID  string   `json:"asset_id,omitempty"`
	Liveness Liveness `json:"liveness"`
}

// FleetResult holds results in the same order as the input fleet.
type FleetResult struct {
	Assets  []AssetResult  `json:"assets"`
	Sensors []SensorResult `json:"sensors,omitempty"`
}

// BatchOptions tunes EvaluateFleet.
type BatchOptions struct {
	// Workers bounds parallelism. Zero means GOMAXPROCS.
	Workers int
}

// EvaluateAsset runs health, lifespan and scheduling for one asset.
// Validation failures are collected on the result, not returned.
func EvaluateAsset(rec model.AssetRecord, now time.Time) AssetResult {
	res := AssetResult{
		AssetID: rec.Asset.ID,
		Health:  ComputeHealth(rec, now),
	}

	est, err := EstimateLifespanWithHealth(rec.Asset, res.Health, now)
	if err != nil {
		res.addError(err)
	}
	res.Lifespan = est

	if rec.Plan != nil {
		sched, err := Classify(*rec.Plan, now)
		if err != nil {
			res.addError(err)
		} else {
			res.Schedule = &sched
		}
	}
	return res
}

func (r *AssetResult) addError(err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		r.Errors = append(r.Errors, ve)
	}
}

// EvaluateFleet evaluates every asset and sensor in parallel.
//
// Each evaluation is independent, so results are deterministic for a given
// fleet and now regardless of worker count. The only error returned is
// ctx's, when it is cancelled before the batch finishes.
func EvaluateFleet(ctx context.Context, fleet model.Fleet, now time.Time, opts BatchOptions) (*FleetResult, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := &FleetResult{
		Assets:  make([]AssetResult, len(fleet.Assets)),
		Sensors: make([]SensorResult, len(fleet.Sensors)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range fleet.Assets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out.Assets[i] = EvaluateAsset(fleet.Assets[i], now)
			return nil
		})
	}
	for i := range fleet.Sensors {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s := fleet.Sensors[i]
			out.Sensors[i] = SensorResult{
				SensorID: s.ID,
				AssetID:  s.AssetID,
				Liveness: EvaluateSensor(s, now),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
