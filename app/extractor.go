package app

import (
	"context"
	"fmt"
	"log"
	"math"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"morphosig/adapters/stats/comparators"
	"morphosig/adapters/stats/correction"
	"morphosig/domain/core"
	"morphosig/domain/profile"
	"morphosig/domain/signature"
)

// Extractor orchestrates signature extraction: per-feature statistical
// comparison, one multiple-testing correction pass over the full family,
// significance labeling, and the on/off partition.
type Extractor struct{}

// NewExtractor creates a new signature extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract compares every requested feature between the reference and
// experimental profiles and partitions the features into on and off
// morphology signatures. Preconditions are validated before any test runs;
// a single feature's computation failure is recorded as NaN and routed to
// the off list without aborting the batch.
func (x *Extractor) Extract(ctx context.Context, reference, experimental *profile.Profile, featureNames []string, params signature.Params) (*signature.Extraction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := validateFeatures(reference, experimental, featureNames); err != nil {
		return nil, err
	}

	engine := comparators.NewEngine(comparators.Config{
		Resamples: params.Resamples,
		Seed:      params.Seed,
	})
	comparator, ok := engine.ForMethod(params.Method)
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedMethod, params.Method)
	}

	limit := params.MaxParallel
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	log.Printf("[Extractor] comparing %d features with %s (parallel=%d)",
		len(featureNames), params.Method, limit)

	// Per-feature tests are pure and independent; results land in their
	// input-order slot so scheduling never changes the output.
	results := make(signature.ResultSet, len(featureNames))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, name := range featureNames {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			refVals, err := reference.Column(name)
			if err != nil {
				return err
			}
			expVals, err := experimental.Column(name)
			if err != nil {
				return err
			}

			cmp, err := comparator.Compare(gctx, core.FeatureKey(name), refVals, expVals)
			if err != nil {
				log.Printf("[Extractor] feature %s: %v", name, err)
				results[i] = signature.FeatureResult{
					FeatureName:   name,
					RawP:          math.NaN(),
					Statistic:     math.NaN(),
					CorrectedP:    math.NaN(),
					FailureReason: err.Error(),
				}
				return nil
			}
			results[i] = signature.FeatureResult{
				FeatureName: name,
				RawP:        cmp.PValue,
				Statistic:   cmp.Statistic,
				CorrectedP:  math.NaN(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// All raw p-values are in; correct once over the whole family
	corrected, err := correction.Apply(params.Correction, results.RawPValues())
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].CorrectedP = corrected[i]
		results[i].Significant = signature.Classify(corrected[i], params.PThreshold)
	}

	extraction := signature.NewExtraction(params, results)
	log.Printf("[Extractor] run %s: %d on, %d off",
		extraction.RunID, len(extraction.On), len(extraction.Off))
	return extraction, nil
}

// validateFeatures checks the feature list and column alignment between the
// two profiles before any computation starts.
func validateFeatures(reference, experimental *profile.Profile, featureNames []string) error {
	if len(featureNames) == 0 {
		return fmt.Errorf("%w: no features requested", core.ErrInvalidFeatureList)
	}
	seen := make(map[string]struct{}, len(featureNames))
	for _, name := range featureNames {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty feature name", core.ErrInvalidFeatureList)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate feature %q", core.ErrInvalidFeatureList, name)
		}
		seen[name] = struct{}{}
		if !reference.HasColumn(name) {
			return core.NewFeatureMismatchError("reference profile", name)
		}
		if !experimental.HasColumn(name) {
			return core.NewFeatureMismatchError("experimental profile", name)
		}
	}
	return nil
}
