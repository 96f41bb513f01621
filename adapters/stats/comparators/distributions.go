package comparators

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distributions provides unified access to the distribution functions the
// comparators share, replacing ad-hoc CDF approximations
type Distributions struct{}

// NewDistributions creates a new distributions utility
func NewDistributions() *Distributions {
	return &Distributions{}
}

// TTestPValue computes the exact two-tailed p-value for a t-statistic
// using Student's t-distribution. Welch's test produces fractional
// degrees of freedom, so df is a float.
func (sd *Distributions) TTestPValue(tStatistic, degreesOfFreedom float64) float64 {
	if degreesOfFreedom <= 0 || math.IsNaN(tStatistic) {
		return math.NaN()
	}
	if math.IsInf(tStatistic, 0) {
		return 0
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: degreesOfFreedom}

	// Two-tailed test
	p := 2 * (1 - tDist.CDF(math.Abs(tStatistic)))
	return clampUnit(p)
}

// KolmogorovPValue evaluates the asymptotic two-sided Kolmogorov survival
// function Q(lambda) = 2 * sum_{j>=1} (-1)^{j-1} exp(-2 j^2 lambda^2).
// The alternating series converges quickly for lambda away from zero; for
// lambda near zero the probability is 1 by the limit of Q.
func (sd *Distributions) KolmogorovPValue(lambda float64) float64 {
	if lambda <= 0 {
		return 1.0
	}

	a2 := -2.0 * lambda * lambda
	sum := 0.0
	sign := 1.0
	prevTerm := 0.0
	for j := 1; j <= 100; j++ {
		term := sign * 2.0 * math.Exp(a2*float64(j*j))
		sum += term
		abs := math.Abs(term)
		if abs <= 1e-8*prevTerm || abs <= 1e-12 {
			return clampUnit(sum)
		}
		sign = -sign
		prevTerm = abs
	}

	// Series failed to converge, which only happens for tiny lambda
	return 1.0
}

func clampUnit(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
