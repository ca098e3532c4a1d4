package engine

import (
	"math"
	"time"

	"github.com/roach88/assetcare/internal/model"
)

const daysPerYear = 365.0

// LifespanEstimate describes how much designed service life remains.
type LifespanEstimate struct {
	CurrentAgeYears  int `json:"current_age_years"`
	RemainingYears   int `json:"remaining_years"`
	RemainingPercent int `json:"remaining_percent"`

	// HealthAdjustedYears scales RemainingYears by the health composite.
	// Only set by EstimateLifespanWithHealth.
	HealthAdjustedYears *float64 `json:"health_adjusted_years,omitempty"`
}

// EstimateLifespan derives age and remaining life from the commissioning
// date and designed lifespan.
//
// A nil estimate with a nil error means "no data": the commissioning date
// or the lifespan is absent. An explicit lifespan <= 0 is bad data and
// returns a *ValidationError.
func EstimateLifespan(commissioned *time.Time, designedYears *int, now time.Time) (*LifespanEstimate, error) {
	if designedYears != nil && *designedYears <= 0 {
		return nil, newValidationError(ErrCodeInvalidLifespan, "designed_lifespan_years",
			"designed lifespan must be > 0, got %d", *designedYears)
	}
	if designedYears == nil || commissioned == nil {
		return nil, nil
	}

	lifespan := *designedYears
	days := model.DaysBetween(*commissioned, now)
	age := 0
	if days > 0 {
		age = days / int(daysPerYear)
	}

	remaining := max(0, lifespan-age)
	pct := int(math.Round(100 * float64(remaining) / float64(lifespan)))

	return &LifespanEstimate{
		CurrentAgeYears:  age,
		RemainingYears:   remaining,
		RemainingPercent: min(max(pct, 0), 100),
	}, nil
}

// EstimateLifespanWithHealth is EstimateLifespan plus a health-adjusted
// remaining life: remaining years scaled by composite/100.
func EstimateLifespanWithHealth(a model.Asset, health HealthScoreBreakdown, now time.Time) (*LifespanEstimate, error) {
	est, err := EstimateLifespan(a.CommissionedDate, a.DesignedLifespanYears, now)
	if err != nil || est == nil {
		return est, err
	}
	adjusted := round1(float64(est.RemainingYears) * clamp(health.Composite, 0, 100) / 100)
	est.HealthAdjustedYears = &adjusted
	return est, nil
}
