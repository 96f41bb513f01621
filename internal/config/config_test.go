package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"morphosig/domain/core"
	"morphosig/domain/signature"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extraction.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
method: permutation_test
correction: bonferroni
p_threshold: 0.01
resamples: 2000
seed: 42
max_parallel: 4
`)

	params, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, signature.MethodPermutation, params.Method)
	assert.Equal(t, signature.CorrectionBonferroni, params.Correction)
	assert.Equal(t, 0.01, params.PThreshold)
	assert.Equal(t, 2000, params.Resamples)
	assert.Equal(t, int64(42), params.Seed)
	assert.Equal(t, 4, params.MaxParallel)
}

func TestLoad_DefaultsApply(t *testing.T) {
	path := writeConfig(t, "method: welch_ttest\n")

	params, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, signature.CorrectionBH, params.Correction)
	assert.Equal(t, signature.DefaultPThreshold, params.PThreshold)
	assert.Equal(t, signature.DefaultResamples, params.Resamples)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "method: welch_ttest\np_threshold: 0.05\n")
	t.Setenv("MORPHOSIG_METHOD", "ks_test")
	t.Setenv("MORPHOSIG_P_THRESHOLD", "0.1")
	t.Setenv("MORPHOSIG_SEED", "99")

	params, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, signature.MethodKSTest, params.Method)
	assert.Equal(t, 0.1, params.PThreshold)
	assert.Equal(t, int64(99), params.Seed)
}

func TestLoad_Rejections(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := Load(writeConfig(t, "method: anova\n"))
		require.ErrorIs(t, err, core.ErrUnsupportedMethod)
	})

	t.Run("unknown correction", func(t *testing.T) {
		_, err := Load(writeConfig(t, "method: welch_ttest\ncorrection: sidak\n"))
		require.ErrorIs(t, err, core.ErrUnsupportedCorrection)
	})

	t.Run("threshold out of range", func(t *testing.T) {
		_, err := Load(writeConfig(t, "method: welch_ttest\np_threshold: 1.5\n"))
		require.ErrorIs(t, err, core.ErrInvalidThreshold)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "method: [unclosed\n"))
		require.Error(t, err)
	})
}
