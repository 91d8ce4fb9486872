// Cumulative fire-perimeter reconstruction from point detections.
package hull

import (
	"context"
	"sort"
	"time"

	"github.com/ctessum/geom"

	"firevalid/internal/detect"
	"firevalid/internal/logging"
)

// Mode records which construction produced a perimeter.
type Mode int

const (
	// ModeConcave means the concave construction at the configured ratio
	// succeeded.
	ModeConcave Mode = iota
	// ModeConvex means the concave attempt failed or was degenerate and the
	// convex hull was used instead.
	ModeConvex
)

func (m Mode) String() string {
	if m == ModeConcave {
		return "concave"
	}
	return "convex"
}

// Params controls perimeter construction.
type Params struct {
	// Ratio is the concavity: 0 is most concave, 1 is the convex hull.
	Ratio float64
	// AllowHoles lets the concave construction open interior cavities.
	AllowHoles bool
	// BufferEps is the half-width, in coordinate units, of the quad used to
	// repair zero-area results. Defaults to 1e-9.
	BufferEps float64
}

func (p Params) eps() float64 {
	if p.BufferEps > 0 {
		return p.BufferEps
	}
	return 1e-9
}

// Entry is one cumulative perimeter: the polygon enclosing every detection
// observed up to and including its cohort, keyed by the latest observation
// timestamp within that cohort.
type Entry struct {
	Cohort   int
	Key      time.Time
	Poly     geom.Polygonal
	Mode     Mode
	Buffered bool // zero-area result repaired with an epsilon quad
}

// Set holds cumulative perimeters in ascending key order.
type Set struct {
	Entries []Entry
}

// Cumulative builds one perimeter per observed cohort, ascending. The point
// accumulator only grows, so each perimeter encloses the full set observed so
// far; perimeter areas are therefore non-shrinking across cohorts.
func Cumulative(ctx context.Context, dets []detect.Detection, p Params) *Set {
	log := logging.FromContext(ctx)

	byCohort := make(map[int][]detect.Detection)
	for _, d := range dets {
		byCohort[d.Cohort] = append(byCohort[d.Cohort], d)
	}
	cohorts := make([]int, 0, len(byCohort))
	for c := range byCohort {
		cohorts = append(cohorts, c)
	}
	sort.Ints(cohorts)

	set := &Set{}
	var acc []geom.Point
	for _, c := range cohorts {
		group := byCohort[c]
		key := group[0].Time
		for _, d := range group {
			acc = append(acc, d.Point)
			if d.Time.After(key) {
				key = d.Time
			}
		}

		poly, mode, buffered := build(acc, p)
		if buffered {
			log.Debug("degenerate perimeter buffered", "cohort", c, "points", len(acc))
		}
		set.Entries = append(set.Entries, Entry{
			Cohort:   c,
			Key:      key,
			Poly:     poly,
			Mode:     mode,
			Buffered: buffered,
		})
	}
	return set
}

// build resolves the best available perimeter for the accumulated points:
// concave at the configured ratio, convex when the concave construction fails
// or is degenerate, and an epsilon-buffered quad when even the convex hull has
// no area (fewer than three distinct points, or collinear).
func build(pts []geom.Point, p Params) (geom.Polygonal, Mode, bool) {
	if len(pts) >= 3 {
		if poly, err := Concave(pts, p.Ratio, p.AllowHoles); err == nil {
			return poly, ModeConcave, false
		}
	}
	if poly, err := Convex(pts); err == nil && poly.Area() > 0 {
		return poly, ModeConvex, false
	}
	return bufferQuad(pts, p.eps()), ModeConvex, true
}

// bufferQuad is the degenerate-geometry repair: the bounding box of the
// points expanded by eps on every side, which is area-bearing even for a
// single repeated point or a collinear run.
func bufferQuad(pts []geom.Point, eps float64) geom.Polygon {
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	minX, minY = minX-eps, minY-eps
	maxX, maxY = maxX+eps, maxY+eps
	return geom.Polygon{{
		{X: minX, Y: minY},
		{X: maxX, Y: minY},
		{X: maxX, Y: maxY},
		{X: minX, Y: maxY},
	}}
}
