package comparators

import (
	"context"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"morphosig/domain/core"
	"morphosig/domain/signature"
)

// WelchComparator tests equality of means without assuming equal variances
type WelchComparator struct {
	dist *Distributions
}

// NewWelchComparator creates a new Welch's t-test comparator
func NewWelchComparator() *WelchComparator {
	return &WelchComparator{dist: NewDistributions()}
}

// Name returns the method name
func (c *WelchComparator) Name() string {
	return string(signature.MethodWelchTTest)
}

// Description returns a human-readable description
func (c *WelchComparator) Description() string {
	return "Two-sided test of equal means with unequal variances (Welch)"
}

// Compare runs a two-sided Welch's t-test on one feature's samples
func (c *WelchComparator) Compare(ctx context.Context, feature core.FeatureKey, reference, experimental []float64) (Comparison, error) {
	t, df, err := welchStatistic(reference, experimental)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{PValue: c.dist.TTestPValue(t, df), Statistic: t}, nil
}

// welchStatistic computes the Welch t-statistic and its Welch-Satterthwaite
// degrees of freedom. The sign follows experimental minus reference.
func welchStatistic(reference, experimental []float64) (t, df float64, err error) {
	if len(reference) < 2 {
		return 0, 0, core.NewInsufficientDataError(2, len(reference))
	}
	if len(experimental) < 2 {
		return 0, 0, core.NewInsufficientDataError(2, len(experimental))
	}

	meanR, _ := stats.Mean(reference)
	meanE, _ := stats.Mean(experimental)
	varR, _ := stats.SampleVariance(reference)
	varE, _ := stats.SampleVariance(experimental)

	nR := float64(len(reference))
	nE := float64(len(experimental))

	se2 := varR/nR + varE/nE
	if se2 == 0 {
		// Both samples constant. Unequal means separate perfectly (t is
		// infinite, p = 0); equal means leave the test undefined.
		if meanE == meanR {
			return 0, 0, fmt.Errorf("%w: zero variance in both samples", core.ErrDegenerateSample)
		}
		return math.Inf(sign(meanE - meanR)), nR + nE - 2, nil
	}

	t = (meanE - meanR) / math.Sqrt(se2)
	df = se2 * se2 / (math.Pow(varR/nR, 2)/(nR-1) + math.Pow(varE/nE, 2)/(nE-1))
	return t, df, nil
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
