package correction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"morphosig/domain/core"
	"morphosig/domain/signature"
)

func TestApply_BenjaminiHochberg(t *testing.T) {
	ps := []float64{0.005, 0.01, 0.02, 0.1, 0.2}

	got, err := Apply(signature.CorrectionBH, ps)
	require.NoError(t, err)

	// q_i = p_i * m / rank, monotone non-increasing from the largest rank
	want := []float64{0.025, 0.025, 1.0 / 30.0, 0.125, 0.2}
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12, "index %d", i)
	}
}

func TestApply_BenjaminiHochberg_TiedRanks(t *testing.T) {
	ps := []float64{0.01, 0.02, 0.03, 0.04, 0.05}

	got, err := Apply(signature.CorrectionBH, ps)
	require.NoError(t, err)

	for i, q := range got {
		assert.InDelta(t, 0.05, q, 1e-12, "index %d", i)
	}
}

func TestApply_BenjaminiYekutieli(t *testing.T) {
	ps := []float64{0.01, 0.02}

	got, err := Apply(signature.CorrectionBY, ps)
	require.NoError(t, err)

	// c(2) = 1.5, so both adjust to 0.03
	assert.InDelta(t, 0.03, got[0], 1e-12)
	assert.InDelta(t, 0.03, got[1], 1e-12)
}

func TestApply_Bonferroni(t *testing.T) {
	ps := []float64{0.01, 0.4, 0.9}

	got, err := Apply(signature.CorrectionBonferroni, ps)
	require.NoError(t, err)

	assert.InDelta(t, 0.03, got[0], 1e-12)
	assert.InDelta(t, 1.0, got[1], 1e-12) // clipped at 1
	assert.InDelta(t, 1.0, got[2], 1e-12)
}

func TestApply_Holm(t *testing.T) {
	ps := []float64{0.01, 0.02, 0.03}

	got, err := Apply(signature.CorrectionHolm, ps)
	require.NoError(t, err)

	want := []float64{0.03, 0.04, 0.04}
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12, "index %d", i)
	}
}

func TestApply_NaNExcludedAndReinstated(t *testing.T) {
	nan := math.NaN()
	ps := []float64{0.01, nan, 0.02}

	got, err := Apply(signature.CorrectionBonferroni, ps)
	require.NoError(t, err)

	// Family size is 2: the NaN entry does not inflate the correction
	assert.InDelta(t, 0.02, got[0], 1e-12)
	assert.True(t, math.IsNaN(got[1]), "NaN must stay at its original position")
	assert.InDelta(t, 0.04, got[2], 1e-12)
}

func TestApply_AllNaN(t *testing.T) {
	ps := []float64{math.NaN(), math.NaN()}

	got, err := Apply(signature.CorrectionBH, ps)
	require.NoError(t, err)
	for i, q := range got {
		assert.True(t, math.IsNaN(q), "index %d", i)
	}
}

func TestApply_PreservesOrder(t *testing.T) {
	ps := []float64{0.9, 0.001, 0.5, 0.04}

	got, err := Apply(signature.CorrectionBH, ps)
	require.NoError(t, err)
	require.Len(t, got, 4)

	// Smallest raw p keeps the smallest corrected p at its own position
	for i := range got {
		if i == 1 {
			continue
		}
		assert.Less(t, got[1], got[i])
	}
}

func TestApply_UnknownMethod(t *testing.T) {
	_, err := Apply(signature.Correction("fdr_tsbh"), []float64{0.1})
	require.ErrorIs(t, err, core.ErrUnsupportedCorrection)
}
