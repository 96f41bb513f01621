package comparators

import (
	"context"
	"math"
	"testing"
)

func TestWeightedKS_UnbalancedSamples(t *testing.T) {
	// Large reference, small shifted experimental sample: the 1/n weights
	// give both samples equal total mass, so the small sample still pulls
	// the full KS distance.
	reference := make([]float64, 100)
	for i := range reference {
		reference[i] = float64(i) / 100.0
	}
	experimental := []float64{5.1, 5.4, 5.2, 5.9, 5.5}

	c := NewWeightedKSComparator()
	res, err := c.Compare(context.Background(), "feat", reference, experimental)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if res.Statistic != 1.0 {
		t.Errorf("weighted KS distance = %v, want 1.0 for disjoint supports", res.Statistic)
	}
	if res.PValue >= 0.05 {
		t.Errorf("p = %v, want < 0.05", res.PValue)
	}
}

func TestWeightedKS_Symmetry(t *testing.T) {
	a := []float64{0.1, 0.5, 0.9, 1.4, 2.2, 2.9}
	b := []float64{0.4, 1.1, 1.8}

	c := NewWeightedKSComparator()
	ab, err := c.Compare(context.Background(), "feat", a, b)
	if err != nil {
		t.Fatalf("compare a/b: %v", err)
	}
	ba, err := c.Compare(context.Background(), "feat", b, a)
	if err != nil {
		t.Fatalf("compare b/a: %v", err)
	}

	if ab.Statistic != ba.Statistic {
		t.Errorf("distance not symmetric: %v vs %v", ab.Statistic, ba.Statistic)
	}
	if math.Abs(ab.PValue-ba.PValue) > 1e-12 {
		t.Errorf("p not symmetric: %v vs %v", ab.PValue, ba.PValue)
	}
}

func TestWeightedKS_DegenerateSamples(t *testing.T) {
	c := NewWeightedKSComparator()
	ctx := context.Background()

	// Identical constant samples collapse the value grid to one point;
	// the t-test step cannot run and the failure surfaces as an error.
	if _, err := c.Compare(ctx, "feat", []float64{2, 2, 2}, []float64{2, 2, 2}); err == nil {
		t.Error("expected error for constant identical samples")
	}
	if _, err := c.Compare(ctx, "feat", nil, []float64{1, 2}); err == nil {
		t.Error("expected error for empty reference")
	}
}

func TestWeightedKS_CDFInterpolation(t *testing.T) {
	xs := []float64{1, 2, 2, 3}
	cdf := weightedCDF(xs)

	if cdf[len(cdf)-1] != 1.0 {
		t.Fatalf("CDF must reach 1, got %v", cdf[len(cdf)-1])
	}

	cases := []struct {
		v    float64
		want float64
	}{
		{0.5, 0},    // below range
		{3.5, 1},    // above range
		{1, 0.25},   // exact point
		{2, 0.75},    // tied block carries full mass
		{2.5, 0.875}, // midway between 2 (0.75) and 3 (1.0)
	}
	for _, tc := range cases {
		if got := interpCDF(tc.v, xs, cdf); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("interpCDF(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}
