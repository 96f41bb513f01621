package comparators

import (
	"context"
	"math"
	"sort"

	"morphosig/domain/core"
	"morphosig/domain/signature"
)

// WeightedKSComparator is the unequal-sample-size KS variant: each point
// carries weight 1/n of its own sample so both samples contribute equal
// total mass. The KS distance over the weighted CDFs characterizes effect
// size; significance comes from a Welch's t-test on the CDF heights
// evaluated at the shared value grid.
type WeightedKSComparator struct {
	dist *Distributions
}

// NewWeightedKSComparator creates a new weighted KS comparator
func NewWeightedKSComparator() *WeightedKSComparator {
	return &WeightedKSComparator{dist: NewDistributions()}
}

// Name returns the method name
func (c *WeightedKSComparator) Name() string {
	return string(signature.MethodWeightedKS)
}

// Description returns a human-readable description
func (c *WeightedKSComparator) Description() string {
	return "Weighted Kolmogorov-Smirnov distance with Welch's t-test on CDF heights"
}

// Compare runs the weighted KS test on one feature's samples
func (c *WeightedKSComparator) Compare(ctx context.Context, feature core.FeatureKey, reference, experimental []float64) (Comparison, error) {
	if len(reference) == 0 {
		return Comparison{}, core.NewInsufficientDataError(1, 0)
	}
	if len(experimental) == 0 {
		return Comparison{}, core.NewInsufficientDataError(1, 0)
	}

	refSorted := sortedCopy(reference)
	expSorted := sortedCopy(experimental)

	refCDF := weightedCDF(refSorted)
	expCDF := weightedCDF(expSorted)

	grid := unionValues(refSorted, expSorted)

	refHeights := make([]float64, len(grid))
	expHeights := make([]float64, len(grid))
	maxGap := 0.0
	for i, v := range grid {
		refHeights[i] = interpCDF(v, refSorted, refCDF)
		expHeights[i] = interpCDF(v, expSorted, expCDF)
		if gap := math.Abs(expHeights[i] - refHeights[i]); gap > maxGap {
			maxGap = gap
		}
	}

	t, df, err := welchStatistic(refHeights, expHeights)
	if err != nil {
		return Comparison{}, err
	}

	return Comparison{PValue: c.dist.TTestPValue(t, df), Statistic: maxGap}, nil
}

// weightedCDF returns cumulative mass at each sorted point, each point
// weighted by 1/n so the last entry is 1 regardless of sample size.
func weightedCDF(sorted []float64) []float64 {
	n := float64(len(sorted))
	cdf := make([]float64, len(sorted))
	for i := range sorted {
		cdf[i] = float64(i+1) / n
	}
	return cdf
}

// unionValues merges two sorted samples into sorted unique values
func unionValues(a, b []float64) []float64 {
	merged := make([]float64, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	sort.Float64s(merged)

	out := merged[:0]
	for i, v := range merged {
		if i == 0 || v != merged[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// interpCDF evaluates a weighted empirical CDF at v by linear
// interpolation between the sorted sample points, 0 below the sample
// range and 1 above it.
func interpCDF(v float64, xs, cdf []float64) float64 {
	n := len(xs)
	if v < xs[0] {
		return 0
	}
	if v > xs[n-1] {
		return 1
	}

	j := sort.SearchFloat64s(xs, v)
	if xs[j] == v {
		// duplicates carry the full cumulative mass of the tied block
		for j+1 < n && xs[j+1] == v {
			j++
		}
		return cdf[j]
	}

	x0, x1 := xs[j-1], xs[j]
	y0, y1 := cdf[j-1], cdf[j]
	return y0 + (v-x0)*(y1-y0)/(x1-x0)
}
