package signature

import (
	"fmt"
	"math"
	"strings"

	"morphosig/domain/core"
)

// Method selects the per-feature statistical test. The set is closed:
// each value maps to exactly one comparator strategy.
type Method string

const (
	MethodWelchTTest  Method = "welch_ttest"
	MethodKSTest      Method = "ks_test"
	MethodPermutation Method = "permutation_test"
	MethodWeightedKS  Method = "weighted_ks"
)

// Methods returns all supported method names in a stable order.
func Methods() []Method {
	return []Method{MethodWelchTTest, MethodKSTest, MethodPermutation, MethodWeightedKS}
}

// ParseMethod parses a string into a Method
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Methods() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnsupportedMethod, s)
}

// Correction selects the multiple-testing correction family.
type Correction string

const (
	CorrectionBH         Correction = "fdr_bh"
	CorrectionBY         Correction = "fdr_by"
	CorrectionBonferroni Correction = "bonferroni"
	CorrectionHolm       Correction = "holm"
)

// Corrections returns all supported correction names in a stable order.
func Corrections() []Correction {
	return []Correction{CorrectionBH, CorrectionBY, CorrectionBonferroni, CorrectionHolm}
}

// ParseCorrection parses a string into a Correction
func ParseCorrection(s string) (Correction, error) {
	c := Correction(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Corrections() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnsupportedCorrection, s)
}

// Default extraction parameters
const (
	DefaultPThreshold = 0.05
	DefaultResamples  = 1000
)

// Params holds the knobs for one extraction run
type Params struct {
	Method      Method     `json:"method"`
	Correction  Correction `json:"correction"`
	PThreshold  float64    `json:"p_threshold"`
	Resamples   int        `json:"resamples"`    // permutation_test only
	Seed        int64      `json:"seed"`         // base seed for permutation streams
	MaxParallel int        `json:"max_parallel"` // 0 = NumCPU, 1 = sequential
}

// DefaultParams returns Params with the documented defaults applied.
func DefaultParams(method Method) Params {
	return Params{
		Method:     method,
		Correction: CorrectionBH,
		PThreshold: DefaultPThreshold,
		Resamples:  DefaultResamples,
	}
}

// Validate checks configuration before any computation starts.
func (p Params) Validate() error {
	if _, err := ParseMethod(string(p.Method)); err != nil {
		return err
	}
	if _, err := ParseCorrection(string(p.Correction)); err != nil {
		return err
	}
	if math.IsNaN(p.PThreshold) || math.IsInf(p.PThreshold, 0) || p.PThreshold <= 0 || p.PThreshold >= 1 {
		return fmt.Errorf("%w: got %v, want finite value in (0,1)", core.ErrInvalidThreshold, p.PThreshold)
	}
	if p.Method == MethodPermutation && p.Resamples < 1 {
		return core.NewValidationError("resamples", fmt.Sprintf("must be >= 1, got %d", p.Resamples))
	}
	if p.MaxParallel < 0 {
		return core.NewValidationError("max_parallel", fmt.Sprintf("must be >= 0, got %d", p.MaxParallel))
	}
	return nil
}

// FeatureResult is the outcome of one feature's test.
// RawP, Statistic and CorrectedP are NaN when the test could not be
// computed; FailureReason then carries the cause for caller inspection.
type FeatureResult struct {
	FeatureName   string  `json:"feature_name"`
	RawP          float64 `json:"raw_p_value"`
	Statistic     float64 `json:"test_statistic"`
	CorrectedP    float64 `json:"corrected_p_value"`
	Significant   bool    `json:"is_significant"`
	FailureReason string  `json:"failure_reason,omitempty"`
}

// Failed reports whether the feature's test could not be computed.
func (r FeatureResult) Failed() bool {
	return r.FailureReason != ""
}

// ResultSet is the ordered per-feature results for one run, one entry per
// requested feature, input order preserved.
type ResultSet []FeatureResult

// RawPValues returns the raw p-values aligned by position.
func (rs ResultSet) RawPValues() []float64 {
	ps := make([]float64, len(rs))
	for i, r := range rs {
		ps[i] = r.RawP
	}
	return ps
}

// FeatureNames returns the tested feature names in input order.
func (rs ResultSet) FeatureNames() []string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.FeatureName
	}
	return names
}

// Classify labels one corrected p-value against the significance threshold.
// Strict less-than: ties go to "not significant". NaN classifies as not
// significant so an uncomputable test can never produce an "on" call.
func Classify(correctedP, threshold float64) bool {
	if math.IsNaN(correctedP) {
		return false
	}
	return correctedP < threshold
}

// Extraction is the final output of one run: the full result set plus the
// on/off partition. On and Off are disjoint, preserve input order, and
// together cover every requested feature.
type Extraction struct {
	RunID      core.RunID     `json:"run_id"`
	ComputedAt core.Timestamp `json:"computed_at"`
	Params     Params         `json:"params"`
	Results    ResultSet      `json:"results"`
	On         []string       `json:"on_features"`
	Off        []string       `json:"off_features"`
}

// NewExtraction partitions a classified ResultSet into an Extraction.
func NewExtraction(params Params, results ResultSet) *Extraction {
	on := make([]string, 0, len(results))
	off := make([]string, 0, len(results))
	for _, r := range results {
		if r.Significant {
			on = append(on, r.FeatureName)
		} else {
			off = append(off, r.FeatureName)
		}
	}
	return &Extraction{
		RunID:      core.RunID(core.NewID()),
		ComputedAt: core.Now(),
		Params:     params,
		Results:    results,
		On:         on,
		Off:        off,
	}
}
