package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/assetcare/internal/model"
)

func TestEstimateLifespan_Scenario(t *testing.T) {
	est, err := EstimateLifespan(model.Ptr(model.MustDate("2010-01-15")), model.Ptr(30), model.MustDate("2024-01-15"))
	require.NoError(t, err)
	require.NotNil(t, est)

	assert.Equal(t, 14, est.CurrentAgeYears)
	assert.Equal(t, 16, est.RemainingYears)
	assert.Equal(t, 53, est.RemainingPercent)
	assert.Nil(t, est.HealthAdjustedYears)
}

func TestEstimateLifespan_Centuries(t *testing.T) {
	est, err := EstimateLifespan(model.Ptr(model.MustDate("1700-01-15")), model.Ptr(500), model.MustDate("2024-01-15"))
	require.NoError(t, err)
	require.NotNil(t, est)

	assert.Equal(t, 324, est.CurrentAgeYears)
	assert.Equal(t, 176, est.RemainingYears)
	assert.Equal(t, 35, est.RemainingPercent)
}

func TestEstimateLifespan_NoData(t *testing.T) {
	now := model.MustDate("2024-01-15")

	est, err := EstimateLifespan(nil, model.Ptr(30), now)
	require.NoError(t, err)
	assert.Nil(t, est, "missing commissioning date means no estimate")

	est, err = EstimateLifespan(model.Ptr(now), nil, now)
	require.NoError(t, err)
	assert.Nil(t, est, "missing lifespan means no estimate")
}

func TestEstimateLifespan_InvalidLifespan(t *testing.T) {
	now := model.MustDate("2024-01-15")
	for _, years := range []int{0, -5} {
		est, err := EstimateLifespan(model.Ptr(now), model.Ptr(years), now)
		require.Error(t, err)
		assert.Nil(t, est)
		assert.Equal(t, ErrCodeInvalidLifespan, ValidationCode(err))
	}

	// Bad data is reported even when the date is missing.
	_, err := EstimateLifespan(nil, model.Ptr(0), now)
	assert.Equal(t, ErrCodeInvalidLifespan, ValidationCode(err))
}

func TestEstimateLifespan_PastEndOfLife(t *testing.T) {
	est, err := EstimateLifespan(model.Ptr(model.MustDate("1970-06-01")), model.Ptr(20), model.MustDate("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, 54, est.CurrentAgeYears)
	assert.Equal(t, 0, est.RemainingYears)
	assert.Equal(t, 0, est.RemainingPercent)
}

func TestEstimateLifespan_FutureCommissioning(t *testing.T) {
	est, err := EstimateLifespan(model.Ptr(model.MustDate("2030-01-01")), model.Ptr(10), model.MustDate("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 0, est.CurrentAgeYears)
	assert.Equal(t, 10, est.RemainingYears)
	assert.Equal(t, 100, est.RemainingPercent)
}

func TestEstimateLifespan_MonotonicInAge(t *testing.T) {
	commissioned := model.MustDate("2000-03-01")
	prevYears, prevPct := 1<<30, 1<<30

	for offset := 0; offset <= 50*365; offset += 73 {
		now := commissioned.AddDate(0, 0, offset)
		est, err := EstimateLifespan(&commissioned, model.Ptr(35), now)
		require.NoError(t, err)

		assert.LessOrEqual(t, est.RemainingYears, prevYears)
		assert.LessOrEqual(t, est.RemainingPercent, prevPct)
		assert.GreaterOrEqual(t, est.RemainingYears, 0)
		assert.GreaterOrEqual(t, est.RemainingPercent, 0)
		assert.LessOrEqual(t, est.RemainingPercent, 100)
		prevYears, prevPct = est.RemainingYears, est.RemainingPercent
	}
}

func TestEstimateLifespanWithHealth(t *testing.T) {
	a := model.Asset{
		CommissionedDate:      model.Ptr(model.MustDate("2010-01-15")),
		DesignedLifespanYears: model.Ptr(30),
	}
	est, err := EstimateLifespanWithHealth(a, HealthScoreBreakdown{Composite: 50}, model.MustDate("2024-01-15"))
	require.NoError(t, err)
	require.NotNil(t, est.HealthAdjustedYears)
	assert.Equal(t, 8.0, *est.HealthAdjustedYears)

	est, err = EstimateLifespanWithHealth(model.Asset{}, HealthScoreBreakdown{Composite: 50}, model.MustDate("2024-01-15"))
	require.NoError(t, err)
	assert.Nil(t, est)
}
