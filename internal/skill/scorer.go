// Grid-aligned agreement scoring between simulated and observed burn extents.
package skill

import (
	"context"
	"fmt"
	"time"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"

	"firevalid/internal/hull"
	"firevalid/internal/logging"
	"firevalid/internal/raster"
)

// GridMismatchError reports that the simulated and reference grids have
// different shapes; scoring requires cell-for-cell alignment.
type GridMismatchError struct {
	SimHeight, SimWidth int
	RefHeight, RefWidth int
}

func (e *GridMismatchError) Error() string {
	return fmt.Sprintf("skill: simulated grid %dx%d does not match reference grid %dx%d",
		e.SimHeight, e.SimWidth, e.RefHeight, e.RefWidth)
}

// Record is the per-cohort validation result: the observed elapsed time, the
// simulated elapsed time actually realized (the maximum arrival among burned
// cells, undefined when nothing had burned), and the agreement score.
type Record struct {
	Cohort     int     `json:"cohort"`
	ObsSeconds float64 `json:"t_obs_s"`
	SimSeconds Measure `json:"t_sim_s"`
	Kappa      Measure `json:"kappa"`
}

// longlat is the spatial reference cumulative perimeters are expressed in.
var longlat *proj.SR

func init() {
	var err error
	if longlat, err = proj.Parse("+proj=longlat +datum=WGS84 +no_defs"); err != nil {
		panic(err)
	}
}

// Score compares the simulated time-of-arrival grid against each cumulative
// perimeter at its observation time. ref defines the scoring grid and must
// match sim's shape exactly. For each perimeter, ascending by key timestamp:
// the perimeter is reprojected into ref's spatial reference and rasterized,
// the simulated binary mask at the elapsed time is derived, and Cohen's Kappa
// is computed over the cells valid in the simulated grid.
func Score(ctx context.Context, sim *raster.Grid, set *hull.Set, start time.Time, ref *raster.Grid) ([]Record, error) {
	log := logging.FromContext(ctx)

	if !sim.SameShape(ref) {
		return nil, &GridMismatchError{
			SimHeight: sim.Height, SimWidth: sim.Width,
			RefHeight: ref.Height, RefWidth: ref.Width,
		}
	}

	trans, err := refTransform(ref)
	if err != nil {
		return nil, err
	}

	start = start.UTC()
	records := make([]Record, 0, len(set.Entries))
	for _, e := range set.Entries {
		elapsed := e.Key.UTC().Sub(start).Seconds()

		poly := e.Poly
		if trans != nil {
			g, err := poly.Transform(trans)
			if err != nil {
				return nil, fmt.Errorf("skill: reprojecting cohort %d perimeter: %w", e.Cohort, err)
			}
			poly = g.(geom.Polygonal)
		}
		observed := raster.MaskPolygon(ref, poly)

		simulated, cutoff, burned := raster.BurnedMask(sim, elapsed)
		simSeconds := Undefined
		if burned {
			simSeconds = Defined(cutoff)
		}

		// Restrict the comparison to cells valid in the simulated grid so
		// nodata cells do not bias the agreement.
		var obsValid, simValid []uint8
		for i := range sim.Values {
			if !sim.Valid[i] {
				continue
			}
			obsValid = append(obsValid, observed[i])
			simValid = append(simValid, simulated[i])
		}

		rec := Record{
			Cohort:     e.Cohort,
			ObsSeconds: elapsed,
			SimSeconds: simSeconds,
			Kappa:      Kappa(obsValid, simValid),
		}
		records = append(records, rec)
		log.Debug("scored cohort", "cohort", e.Cohort, "elapsed_s", elapsed,
			"kappa_defined", rec.Kappa.Defined, "mode", e.Mode.String())
	}
	return records, nil
}

// refTransform builds the EPSG:4326 -> reference grid transform, or nil when
// the reference grid is itself geographic or carries no spatial reference.
func refTransform(ref *raster.Grid) (proj.Transformer, error) {
	if ref.Proj == "" {
		return nil, nil
	}
	sr, err := proj.Parse(ref.Proj)
	if err != nil {
		return nil, fmt.Errorf("skill: parsing reference spatial reference: %w", err)
	}
	if sr.Name == "longlat" {
		return nil, nil
	}
	trans, err := longlat.NewTransform(sr)
	if err != nil {
		return nil, fmt.Errorf("skill: building reference transform: %w", err)
	}
	return trans, nil
}
