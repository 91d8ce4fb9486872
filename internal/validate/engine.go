// Engine running one validation case end to end.
package validate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"firevalid/internal/config"
	"firevalid/internal/detect"
	"firevalid/internal/history"
	"firevalid/internal/hull"
	"firevalid/internal/logging"
	"firevalid/internal/raster"
	"firevalid/internal/report"
	"firevalid/internal/skill"
	"firevalid/internal/toa"
)

// Engine runs the validation pipeline for one case: simulated burn history
// from the time-of-arrival surface, observed perimeter history from the
// detections, and grid-aligned agreement between the two. The pipeline is a
// fully ordered batch; every stage consumes the complete output of its
// predecessor.
type Engine struct {
	cfg    *config.CaseConfig
	writer report.Writer
}

// NewEngine creates an engine for cfg emitting to writer.
func NewEngine(cfg *config.CaseConfig, writer report.Writer) *Engine {
	return &Engine{cfg: cfg, writer: writer}
}

// Run executes the case and hands the completed summary to the writer.
func (e *Engine) Run(ctx context.Context) (*report.Summary, error) {
	log := logging.FromContext(ctx)
	cfg := e.cfg

	start, err := history.ParseStart(ctx, cfg.StartTime)
	if err != nil {
		return nil, err
	}
	log.Info("starting validation", "case", cfg.Name, "ignition_utc", start)

	stack, err := raster.OpenStack(cfg.TOAGlob)
	if err != nil {
		return nil, err
	}
	// Frame 0 is the full-duration arrival surface; later frames are
	// intermediate snapshots.
	sim := stack[0]
	log.Info("loaded simulated surface", "frames", len(stack),
		"shape", fmt.Sprintf("%dx%d", sim.Height, sim.Width))

	ref, err := raster.Open(cfg.ReferenceRaster)
	if err != nil {
		return nil, err
	}

	cellArea := cfg.CellAreaM2
	if cellArea <= 0 {
		cellArea = sim.Transform.CellArea()
	}
	curve := toa.History(sim, cellArea, cfg.CurveSamples)
	log.Info("built simulated burn history", "knots", len(curve.Times), "cell_area_m2", cellArea)

	dets, err := detect.Load(ctx, cfg.DetectionsDir, detect.Options{
		AllowMissingIndex: cfg.AllowMissingIndex,
	})
	if err != nil {
		return nil, err
	}

	hulls := hull.Cumulative(ctx, dets, hull.Params{
		Ratio:      cfg.ConcavityRatio,
		AllowHoles: cfg.AllowHoles,
	})
	log.Info("reconstructed perimeters", "cohorts", len(hulls.Entries))

	obsSeconds, obsAreas := history.Observed(hulls, start)

	records, err := skill.Score(ctx, sim, hulls, start, ref)
	if err != nil {
		return nil, err
	}

	summary := &report.Summary{
		RunID:       uuid.NewString(),
		Case:        cfg.Name,
		StartUTC:    start,
		GeneratedAt: time.Now().UTC(),
		Records:     records,
		SimCurve:    curve,
		ObsSeconds:  obsSeconds,
		ObsAreasKm2: obsAreas,
	}
	if e.writer != nil {
		if err := e.writer.WriteSummary(*summary); err != nil {
			return nil, fmt.Errorf("writing summary: %w", err)
		}
	}
	log.Info("validation complete", "run_id", summary.RunID, "records", len(records))
	return summary, nil
}
