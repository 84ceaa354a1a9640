package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teambrief/teambrief/embedding"
)

func TestEstimate_Guards(t *testing.T) {
	estimator, err := NewEstimator()
	require.NoError(t, err)

	_, err = estimator.Estimate(nil, 100, 50)
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = estimator.Estimate([]string{"sample"}, 0, 50)
	assert.ErrorIs(t, err, ErrInvalidVolume)

	_, err = estimator.Estimate([]string{"sample"}, 100, 0)
	assert.ErrorIs(t, err, ErrInvalidBudget)
}

func TestEstimate_Projections(t *testing.T) {
	estimator, err := NewEstimator()
	require.NoError(t, err)

	samples := []string{
		"the deploy finished without incident",
		"design review notes for the new cache layer",
		"quarterly planning doc, first draft",
	}

	est, err := estimator.Estimate(samples, 1000, 50)
	require.NoError(t, err)

	assert.Equal(t, embedding.DefaultModel, est.Model)
	assert.Equal(t, 3, est.SampleCount)
	assert.Greater(t, est.AvgTokensPerItem, 0.0)

	assert.InDelta(t, est.AvgTokensPerItem*1000, float64(est.TokensPerWeek), 1)
	assert.InDelta(t, float64(est.TokensPerWeek)*weeksPerMonth, float64(est.TokensPerMonth), 2)

	perToken := embedding.PricePerMillion(est.Model) / 1_000_000
	assert.InDelta(t, float64(est.TokensPerMonth)*perToken, est.MonthlyCostUSD, 1e-6)
	assert.True(t, est.WithinBudget, "a few short texts per week stay well under $50")
	assert.Less(t, est.BudgetUtilization, 1.0)
}

func TestEstimate_OverBudget(t *testing.T) {
	estimator, err := NewEstimator(WithEstimatorModel("text-embedding-3-large"))
	require.NoError(t, err)

	est, err := estimator.Estimate([]string{"short note"}, 1_000_000, 0.0001)
	require.NoError(t, err)

	assert.False(t, est.WithinBudget)
	assert.Greater(t, est.BudgetUtilization, 100.0)
}

func TestEstimate_UnknownModelUsesDefaultRate(t *testing.T) {
	estimator, err := NewEstimator(WithEstimatorModel("experimental-embedder"))
	require.NoError(t, err)

	est, err := estimator.Estimate([]string{"short note"}, 100, 50)
	require.NoError(t, err)

	perToken := embedding.PricePerMillion(embedding.DefaultModel) / 1_000_000
	assert.InDelta(t, float64(est.TokensPerMonth)*perToken, est.MonthlyCostUSD, 1e-6)
}
