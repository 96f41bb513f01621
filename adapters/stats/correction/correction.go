// Package correction adjusts families of raw p-values for multiple
// simultaneous hypothesis tests.
package correction

import (
	"fmt"
	"math"
	"sort"

	"morphosig/domain/core"
	"morphosig/domain/signature"
)

// Apply corrects raw p-values with the named method and returns corrected
// values aligned by position with the input. NaN entries (uncomputable
// tests) are excluded from the family, the remaining values corrected as a
// family of their own size, and NaN reinstated at the original positions.
func Apply(method signature.Correction, ps []float64) ([]float64, error) {
	out := make([]float64, len(ps))
	idx := make([]int, 0, len(ps))
	vals := make([]float64, 0, len(ps))
	for i, p := range ps {
		if math.IsNaN(p) {
			out[i] = math.NaN()
			continue
		}
		idx = append(idx, i)
		vals = append(vals, p)
	}

	var corrected []float64
	switch method {
	case signature.CorrectionBonferroni:
		corrected = bonferroni(vals)
	case signature.CorrectionHolm:
		corrected = holm(vals)
	case signature.CorrectionBH:
		corrected = benjaminiHochberg(vals, 1.0)
	case signature.CorrectionBY:
		corrected = benjaminiHochberg(vals, harmonic(len(vals)))
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedCorrection, method)
	}

	for k, i := range idx {
		out[i] = corrected[k]
	}
	return out, nil
}

func bonferroni(ps []float64) []float64 {
	m := float64(len(ps))
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = math.Min(1, p*m)
	}
	return out
}

// holm is the step-down family-wise correction: the i-th smallest p-value
// is scaled by (m-i+1) and adjusted values are forced non-decreasing in
// rank order.
func holm(ps []float64) []float64 {
	m := len(ps)
	ord := rankOrder(ps)
	out := make([]float64, m)
	running := 0.0
	for rank, i := range ord {
		q := float64(m-rank) * ps[i]
		if q < running {
			q = running
		}
		running = q
		out[i] = math.Min(1, q)
	}
	return out
}

// benjaminiHochberg is the step-up FDR correction: q_i = p_i * m * scale / rank,
// with adjusted values forced non-increasing from the largest rank down.
// scale is 1 for BH and the harmonic number c(m) for BY.
func benjaminiHochberg(ps []float64, scale float64) []float64 {
	m := len(ps)
	ord := rankOrder(ps)
	out := make([]float64, m)

	running := math.Inf(1)
	for rank := m; rank >= 1; rank-- {
		i := ord[rank-1]
		q := ps[i] * float64(m) * scale / float64(rank)
		if q > running {
			q = running
		}
		running = q
		out[i] = math.Min(1, q)
	}
	return out
}

// rankOrder returns indices sorted by ascending p-value
func rankOrder(ps []float64) []int {
	ord := make([]int, len(ps))
	for i := range ord {
		ord[i] = i
	}
	sort.SliceStable(ord, func(a, b int) bool { return ps[ord[a]] < ps[ord[b]] })
	return ord
}

// harmonic returns c(m) = sum_{i=1..m} 1/i
func harmonic(m int) float64 {
	c := 0.0
	for i := 1; i <= m; i++ {
		c += 1.0 / float64(i)
	}
	return c
}
