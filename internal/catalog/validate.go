package catalog

import (
	"fmt"

	"github.com/roach88/assetcare/internal/model"
)

// Validate checks a compiled fleet for values the engine would reject and
// for dangling references. Returns all errors found (does not fail-fast).
func Validate(fleet *model.Fleet) []ValidationError {
	var errs []ValidationError

	if len(fleet.Assets) == 0 && len(fleet.Sensors) == 0 {
		return []ValidationError{{
			Field:   "fleet",
			Message: "no assets or sensors declared",
			Code:    ErrCodeEmptyFleet,
		}}
	}

	known := make(map[string]bool, len(fleet.Assets))
	for _, rec := range fleet.Assets {
		a := rec.Asset
		known[a.ID] = true

		if a.DesignedLifespanYears != nil && *a.DesignedLifespanYears <= 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("asset.%s.designed_lifespan_years", a.ID),
				Message: fmt.Sprintf("designed lifespan must be > 0, got %d", *a.DesignedLifespanYears),
				Code:    ErrCodeInvalidLife,
			})
		}

		if p := rec.Plan; p != nil {
			if p.CycleDays < 1 {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("asset.%s.plan.cycle_days", a.ID),
					Message: fmt.Sprintf("cycle must be at least 1 day, got %d", p.CycleDays),
					Code:    ErrCodeInvalidCycle,
				})
			}
			if p.WarningDays != nil && *p.WarningDays < 0 {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("asset.%s.plan.warning_days", a.ID),
					Message: fmt.Sprintf("warning window must be >= 0, got %d", *p.WarningDays),
					Code:    ErrCodeInvalidWindow,
				})
			}
		}
	}

	for _, s := range fleet.Sensors {
		if s.AssetID != "" && !known[s.AssetID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("sensor.%s.asset_id", s.ID),
				Message: fmt.Sprintf("unknown asset %q", s.AssetID),
				Code:    ErrCodeUnknownAsset,
			})
		}
	}

	return errs
}
