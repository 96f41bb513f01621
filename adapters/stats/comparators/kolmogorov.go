package comparators

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat"

	"morphosig/domain/core"
	"morphosig/domain/signature"
)

// KSComparator tests equality of distributions with the two-sample
// Kolmogorov-Smirnov test. Missing values are omitted before computation.
type KSComparator struct {
	dist *Distributions
}

// NewKSComparator creates a new Kolmogorov-Smirnov comparator
func NewKSComparator() *KSComparator {
	return &KSComparator{dist: NewDistributions()}
}

// Name returns the method name
func (c *KSComparator) Name() string {
	return string(signature.MethodKSTest)
}

// Description returns a human-readable description
func (c *KSComparator) Description() string {
	return "Two-sided two-sample Kolmogorov-Smirnov test of equal distributions"
}

// Compare runs the KS test on one feature's samples. The statistic is the
// maximum gap between the two empirical CDFs and the p-value comes from
// the asymptotic Kolmogorov distribution with the usual small-sample
// continuity correction.
func (c *KSComparator) Compare(ctx context.Context, feature core.FeatureKey, reference, experimental []float64) (Comparison, error) {
	ref := omitNaN(reference)
	exp := omitNaN(experimental)
	if len(ref) == 0 {
		return Comparison{}, core.NewInsufficientDataError(1, 0)
	}
	if len(exp) == 0 {
		return Comparison{}, core.NewInsufficientDataError(1, 0)
	}

	d := stat.KolmogorovSmirnov(sortedCopy(ref), nil, sortedCopy(exp), nil)

	n1 := float64(len(ref))
	n2 := float64(len(exp))
	en := math.Sqrt(n1 * n2 / (n1 + n2))
	lambda := (en + 0.12 + 0.11/en) * d

	return Comparison{PValue: c.dist.KolmogorovPValue(lambda), Statistic: d}, nil
}
