// Package profile holds the tabular input shape for signature extraction:
// named float64 columns where rows are independent observations (single
// cells or wells) and columns are morphological features plus optional
// metadata. How the table was produced (parquet, CSV, database) is a
// caller concern; the core only needs aligned named columns.
package profile

import (
	"fmt"
	"strings"

	"morphosig/domain/core"
)

// Profile is an in-memory table of named numeric columns with equal row
// counts. Column order is preserved from insertion.
type Profile struct {
	order   []string
	columns map[string][]float64
	rows    int
}

// New creates an empty profile.
func New() *Profile {
	return &Profile{columns: make(map[string][]float64)}
}

// AddColumn appends a named column. The first column fixes the row count;
// later columns must match it. Duplicate names are rejected.
func (p *Profile) AddColumn(name string, values []float64) error {
	if strings.TrimSpace(name) == "" {
		return core.NewValidationError("column name", "cannot be empty")
	}
	if _, exists := p.columns[name]; exists {
		return core.NewValidationError("column name", fmt.Sprintf("duplicate column %q", name))
	}
	if len(p.order) == 0 {
		p.rows = len(values)
	} else if len(values) != p.rows {
		return core.NewValidationError("column length",
			fmt.Sprintf("column %q has %d rows, profile has %d", name, len(values), p.rows))
	}
	col := make([]float64, len(values))
	copy(col, values)
	p.order = append(p.order, name)
	p.columns[name] = col
	return nil
}

// FromColumns builds a profile from name/values pairs in the given order.
func FromColumns(names []string, values [][]float64) (*Profile, error) {
	if len(names) != len(values) {
		return nil, core.NewValidationError("columns",
			fmt.Sprintf("%d names for %d value slices", len(names), len(values)))
	}
	p := New()
	for i, name := range names {
		if err := p.AddColumn(name, values[i]); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Column returns a copy of the named column, so callers can never mutate
// profile data through the returned slice.
func (p *Profile) Column(name string) ([]float64, error) {
	col, ok := p.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrColumnNotFound, name)
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, nil
}

// HasColumn reports whether the named column exists.
func (p *Profile) HasColumn(name string) bool {
	_, ok := p.columns[name]
	return ok
}

// ColumnNames returns all column names in insertion order.
func (p *Profile) ColumnNames() []string {
	names := make([]string, len(p.order))
	copy(names, p.order)
	return names
}

// Rows returns the observation count.
func (p *Profile) Rows() int { return p.rows }

// Columns returns the column count.
func (p *Profile) Columns() int { return len(p.order) }

// compartmentPrefixes are the CellProfiler measurement compartments whose
// columns count as morphological features.
var compartmentPrefixes = []string{"Cells_", "Cytoplasm_", "Nuclei_", "Image_"}

// IsFeatureColumn reports whether a column name follows the morphological
// feature naming convention (compartment-prefixed). Metadata_ columns and
// anything with an unknown prefix are treated as metadata.
func IsFeatureColumn(name string) bool {
	if strings.HasPrefix(name, "Metadata_") {
		return false
	}
	for _, prefix := range compartmentPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// SplitFeatureColumns separates column names into morphological features
// and metadata, both preserving input order.
func SplitFeatureColumns(names []string) (features []string, metadata []string) {
	for _, name := range names {
		if IsFeatureColumn(name) {
			features = append(features, name)
		} else {
			metadata = append(metadata, name)
		}
	}
	return features, metadata
}
