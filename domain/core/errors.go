package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input validation errors (fatal, batch never starts)
	ErrFeatureMismatch    = errors.New("feature columns not aligned between profiles")
	ErrInvalidFeatureList = errors.New("invalid feature name list")
	ErrInvalidThreshold   = errors.New("p-value threshold out of range")
	ErrColumnNotFound     = errors.New("column not found")

	// Configuration errors (fatal)
	ErrUnsupportedMethod     = errors.New("unsupported statistical method")
	ErrUnsupportedCorrection = errors.New("unsupported correction method")

	// Per-feature computation errors (recovered, batch continues)
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrDegenerateSample = errors.New("degenerate sample")
)

// Error constructors with context
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

func NewFeatureMismatchError(profile string, feature string) error {
	return fmt.Errorf("%w: %s missing column %q", ErrFeatureMismatch, profile, feature)
}

func NewInsufficientDataError(need, got int) error {
	return fmt.Errorf("%w: need at least %d observations, got %d", ErrInsufficientData, need, got)
}

// Error checking helpers
func IsValidationError(err error) bool {
	return errors.Is(err, ErrFeatureMismatch) ||
		errors.Is(err, ErrInvalidFeatureList) ||
		errors.Is(err, ErrInvalidThreshold) ||
		errors.Is(err, ErrColumnNotFound)
}

func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrUnsupportedMethod) ||
		errors.Is(err, ErrUnsupportedCorrection)
}

// IsComputationError reports whether err is a recoverable per-feature failure.
// These are recorded as NaN results and never abort a batch.
func IsComputationError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrDegenerateSample)
}
