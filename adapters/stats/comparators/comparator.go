package comparators

import (
	"context"
	"math"
	"sort"

	"morphosig/domain/core"
	"morphosig/domain/signature"
)

// Comparison is the outcome of one statistical test on a single feature
type Comparison struct {
	PValue    float64 `json:"p_value"`
	Statistic float64 `json:"statistic"`
}

// Comparator runs one statistical test on a single named feature given the
// reference and experimental samples. Implementations never mutate the
// input slices and report uncomputable tests as errors, leaving recovery
// to the caller.
type Comparator interface {
	Name() string
	Description() string
	Compare(ctx context.Context, feature core.FeatureKey, reference, experimental []float64) (Comparison, error)
}

// Config carries the knobs that individual comparators need at build time
type Config struct {
	Resamples int   // permutation comparator resample count
	Seed      int64 // base seed for permutation streams
}

// Engine holds the closed set of comparators, dispatched by method name
type Engine struct {
	comparators []Comparator
}

// NewEngine creates an engine with all supported comparators
func NewEngine(cfg Config) *Engine {
	return &Engine{
		comparators: []Comparator{
			NewWelchComparator(),
			NewKSComparator(),
			NewPermutationComparator(cfg.Resamples, cfg.Seed),
			NewWeightedKSComparator(),
		},
	}
}

// ForMethod returns the comparator implementing the given method
func (e *Engine) ForMethod(m signature.Method) (Comparator, bool) {
	for _, c := range e.comparators {
		if c.Name() == string(m) {
			return c, true
		}
	}
	return nil, false
}

// ListMethods returns all available comparator names
func (e *Engine) ListMethods() []string {
	names := make([]string, len(e.comparators))
	for i, c := range e.comparators {
		names[i] = c.Name()
	}
	return names
}

// Shared sample helpers

// omitNaN returns a copy of data with NaN observations removed
func omitNaN(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// sortedCopy returns an ascending copy, leaving the input untouched
func sortedCopy(data []float64) []float64 {
	out := make([]float64, len(data))
	copy(out, data)
	sort.Float64s(out)
	return out
}
