// Package config loads extraction parameters from a YAML file with
// optional MORPHOSIG_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"morphosig/domain/signature"
)

// File is the YAML shape of an extraction parameters file. Zero values
// fall back to the documented defaults.
type File struct {
	Method      string  `yaml:"method"`
	Correction  string  `yaml:"correction"`
	PThreshold  float64 `yaml:"p_threshold"`
	Resamples   int     `yaml:"resamples"`
	Seed        int64   `yaml:"seed"`
	MaxParallel int     `yaml:"max_parallel"`
}

// Load reads extraction parameters from a YAML file, applies environment
// overrides, and validates the result. A .env file in the working
// directory is honored when present.
func Load(path string) (signature.Params, error) {
	_ = godotenv.Load() // optional, absence is not an error

	raw, err := os.ReadFile(path)
	if err != nil {
		return signature.Params{}, fmt.Errorf("read config: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return signature.Params{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return f.Params()
}

// Params resolves the file against defaults and MORPHOSIG_* environment
// overrides and validates the combined result.
func (f File) Params() (signature.Params, error) {
	method, err := signature.ParseMethod(envOr("MORPHOSIG_METHOD", f.Method))
	if err != nil {
		return signature.Params{}, err
	}

	p := signature.DefaultParams(method)

	if v := envOr("MORPHOSIG_CORRECTION", f.Correction); v != "" {
		c, err := signature.ParseCorrection(v)
		if err != nil {
			return signature.Params{}, err
		}
		p.Correction = c
	}
	if v, set, err := envOrFloat("MORPHOSIG_P_THRESHOLD", f.PThreshold); err != nil {
		return signature.Params{}, err
	} else if set {
		p.PThreshold = v
	}
	if v, set, err := envOrInt("MORPHOSIG_RESAMPLES", int64(f.Resamples)); err != nil {
		return signature.Params{}, err
	} else if set {
		p.Resamples = int(v)
	}
	if v, set, err := envOrInt("MORPHOSIG_SEED", f.Seed); err != nil {
		return signature.Params{}, err
	} else if set {
		p.Seed = v
	}
	if f.MaxParallel > 0 {
		p.MaxParallel = f.MaxParallel
	}

	if err := p.Validate(); err != nil {
		return signature.Params{}, err
	}
	return p, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envOrFloat(key string, fallback float64) (float64, bool, error) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false, fmt.Errorf("parse %s: %w", key, err)
		}
		return parsed, true, nil
	}
	return fallback, fallback != 0, nil
}

func envOrInt(key string, fallback int64) (int64, bool, error) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false, fmt.Errorf("parse %s: %w", key, err)
		}
		return parsed, true, nil
	}
	return fallback, fallback != 0, nil
}
