package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/dataassoc/assoc/invariants"
	"github.com/banshee-data/dataassoc/assoc/solver"
)

// TuningConfig represents an optional JSON overlay on top of the built-in
// solver and invariant defaults. Every field is a pointer so a partial
// config file only overrides the values it names.
type TuningConfig struct {
	// Solver params
	TolU       *float64 `json:"tol_u,omitempty"`
	TolF       *float64 `json:"tol_f,omitempty"`
	TolFop     *float64 `json:"tol_fop,omitempty"`
	MaxInIters *int     `json:"max_in_iters,omitempty"`
	MaxOlIters *int     `json:"max_ol_iters,omitempty"`
	Beta       *float64 `json:"beta,omitempty"`
	MaxLsIters *int     `json:"max_ls_iters,omitempty"`
	Eps        *float64 `json:"eps,omitempty"`

	// Euclidean distance invariant params
	Sigma   *float64 `json:"sigma,omitempty"`
	Epsilon *float64 `json:"epsilon,omitempty"`
	MinDist *float64 `json:"min_dist,omitempty"`

	// Point-normal invariant params
	SigP *float64 `json:"sig_p,omitempty"`
	EpsP *float64 `json:"eps_p,omitempty"`
	SigN *float64 `json:"sig_n,omitempty"`
	EpsN *float64 `json:"eps_n,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON retain their defaults, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if err := requirePositive("tol_u", c.TolU); err != nil {
		return err
	}
	if err := requirePositive("tol_f", c.TolF); err != nil {
		return err
	}
	if err := requirePositive("tol_fop", c.TolFop); err != nil {
		return err
	}
	if err := requireAtLeastOne("max_in_iters", c.MaxInIters); err != nil {
		return err
	}
	if err := requireAtLeastOne("max_ol_iters", c.MaxOlIters); err != nil {
		return err
	}
	if err := requirePositive("beta", c.Beta); err != nil {
		return err
	}
	if err := requireAtLeastOne("max_ls_iters", c.MaxLsIters); err != nil {
		return err
	}
	if err := requirePositive("eps", c.Eps); err != nil {
		return err
	}

	if err := requirePositive("sigma", c.Sigma); err != nil {
		return err
	}
	if err := requirePositive("epsilon", c.Epsilon); err != nil {
		return err
	}
	if c.MinDist != nil && *c.MinDist < 0 {
		return fmt.Errorf("min_dist must be non-negative, got %g", *c.MinDist)
	}

	if err := requirePositive("sig_p", c.SigP); err != nil {
		return err
	}
	if err := requirePositive("eps_p", c.EpsP); err != nil {
		return err
	}
	if err := requirePositive("sig_n", c.SigN); err != nil {
		return err
	}
	if err := requirePositive("eps_n", c.EpsN); err != nil {
		return err
	}

	return nil
}

func requirePositive(name string, v *float64) error {
	if v != nil && *v <= 0 {
		return fmt.Errorf("%s must be positive, got %g", name, *v)
	}
	return nil
}

func requireAtLeastOne(name string, v *int) error {
	if v != nil && *v < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", name, *v)
	}
	return nil
}

// ApplySolver overlays the set solver fields onto p.
func (c *TuningConfig) ApplySolver(p *solver.Params) {
	if c.TolU != nil {
		p.TolU = *c.TolU
	}
	if c.TolF != nil {
		p.TolF = *c.TolF
	}
	if c.TolFop != nil {
		p.TolFop = *c.TolFop
	}
	if c.MaxInIters != nil {
		p.MaxInIters = *c.MaxInIters
	}
	if c.MaxOlIters != nil {
		p.MaxOlIters = *c.MaxOlIters
	}
	if c.Beta != nil {
		p.Beta = *c.Beta
	}
	if c.MaxLsIters != nil {
		p.MaxLsIters = *c.MaxLsIters
	}
	if c.Eps != nil {
		p.Eps = *c.Eps
	}
}

// ApplyEuclidean overlays the set distance-invariant fields onto inv.
func (c *TuningConfig) ApplyEuclidean(inv *invariants.EuclideanDistance) {
	if c.Sigma != nil {
		inv.Sigma = *c.Sigma
	}
	if c.Epsilon != nil {
		inv.Epsilon = *c.Epsilon
	}
	if c.MinDist != nil {
		inv.MinDist = *c.MinDist
	}
}

// ApplyPointNormal overlays the set point-normal fields onto inv.
func (c *TuningConfig) ApplyPointNormal(inv *invariants.PointNormalDistance) {
	if c.SigP != nil {
		inv.SigP = *c.SigP
	}
	if c.EpsP != nil {
		inv.EpsP = *c.EpsP
	}
	if c.SigN != nil {
		inv.SigN = *c.SigN
	}
	if c.EpsN != nil {
		inv.EpsN = *c.EpsN
	}
}
