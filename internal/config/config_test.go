package config

import (
	"os"
	"testing"
)

func TestLoadConfig_Valid(t *testing.T) {
	tmpFile := "test-case.yaml"
	defer os.Remove(tmpFile)
	yaml := `
name: tubbs-landscape
toa_glob: data/tubbs/toa_*.nc
reference_raster: data/tubbs/fuel.nc
detections_dir: data/tubbs/detections
start_time: "2017-10-08, 21:45 PST"
concavity_ratio: 0.2
allow_holes: true
`
	if err := os.WriteFile(tmpFile, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	cfg, err := Load(tmpFile, "../../schemas/case.cue")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Name != "tubbs-landscape" {
		t.Errorf("unexpected name: %q", cfg.Name)
	}
	if cfg.ConcavityRatio != 0.2 {
		t.Errorf("concavity_ratio = %v, want 0.2", cfg.ConcavityRatio)
	}
	if !cfg.AllowHoles {
		t.Error("allow_holes not set")
	}
	if cfg.CurveSamples != 0 || cfg.CellAreaM2 != 0 {
		t.Errorf("defaults not zero: samples=%d cell_area=%v", cfg.CurveSamples, cfg.CellAreaM2)
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	tmpFile := "test-case-missing.yaml"
	defer os.Remove(tmpFile)
	yaml := `
name: incomplete
toa_glob: data/toa_*.nc
`
	if err := os.WriteFile(tmpFile, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	if _, err := Load(tmpFile, "../../schemas/case.cue"); err == nil {
		t.Fatal("Load() accepted a config missing required fields")
	}
}

func TestLoadConfig_RatioOutOfRange(t *testing.T) {
	tmpFile := "test-case-ratio.yaml"
	defer os.Remove(tmpFile)
	yaml := `
name: bad-ratio
toa_glob: data/toa_*.nc
reference_raster: data/fuel.nc
detections_dir: data/detections
start_time: "2020-01-01, 09:00 UTC"
concavity_ratio: 1.5
`
	if err := os.WriteFile(tmpFile, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	if _, err := Load(tmpFile, "../../schemas/case.cue"); err == nil {
		t.Fatal("Load() accepted concavity_ratio outside [0,1]")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := Load("does-not-exist.yaml", "../../schemas/case.cue"); err == nil {
		t.Fatal("Load() accepted a nonexistent config file")
	}
}
