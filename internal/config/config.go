// YAML case configuration with CUE schema validation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CaseConfig describes one validation case: where the simulated and observed
// inputs live and how the perimeter reconstruction behaves.
type CaseConfig struct {
	// Name identifies the case in logs and emitted records.
	Name string `yaml:"name"`
	// TOAGlob matches the simulated time-of-arrival raster(s); multi-frame
	// stacks are ordered by the numeric filename suffix.
	TOAGlob string `yaml:"toa_glob"`
	// ReferenceRaster defines the scoring grid; it must match the simulated
	// grid's shape exactly.
	ReferenceRaster string `yaml:"reference_raster"`
	// DetectionsDir holds the point-detection shapefiles.
	DetectionsDir string `yaml:"detections_dir"`
	// StartTime is the ignition time, optionally with a trailing zone token
	// (e.g. "2017-10-08, 21:45 PST").
	StartTime string `yaml:"start_time"`

	// ConcavityRatio is the hull concavity: 0 most concave, 1 convex.
	ConcavityRatio float64 `yaml:"concavity_ratio"`
	// AllowHoles lets concave perimeters carry interior cavities.
	AllowHoles bool `yaml:"allow_holes"`
	// CurveSamples, when positive, switches the burn-history curve to that
	// many evenly spaced thresholds instead of the exact per-arrival curve.
	CurveSamples int `yaml:"curve_samples"`
	// CellAreaM2 overrides the per-cell area; 0 derives it from the grid
	// transform.
	CellAreaM2 float64 `yaml:"cell_area_m2"`
	// AllowMissingIndex skips shapefile sources lacking their .shx sidecar
	// instead of aborting.
	AllowMissingIndex bool `yaml:"allow_missing_index"`
}

// Load loads a YAML case config and validates it against a CUE schema.
func Load(configPath, cueSchemaPath string) (*CaseConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg CaseConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.ConcavityRatio < 0 || cfg.ConcavityRatio > 1 {
		return nil, fmt.Errorf("config: concavity_ratio %v outside [0,1]", cfg.ConcavityRatio)
	}
	return &cfg, nil
}
