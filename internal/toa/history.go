// Burn-area history reconstruction from time-of-arrival surfaces.
package toa

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"firevalid/internal/raster"
)

// Curve is a cumulative burned-extent history: parallel sequences of arrival
// time thresholds, burned cell counts, and burned areas. Times are
// non-decreasing and counts/areas are monotone non-decreasing.
type Curve struct {
	Times  []float64 `json:"times_s"`
	Counts []float64 `json:"cells"`
	Areas  []float64 `json:"areas_m2"`
}

// Empty reports whether the curve has no knots.
func (c Curve) Empty() bool { return len(c.Times) == 0 }

// History builds the cumulative burned-area curve for a time-of-arrival grid.
// Cells that are invalid or have non-positive arrival times are treated as
// never burned. cellArea scales counts to areas; pass g.Transform.CellArea()
// for map-unit areas or 1 for plain counts.
//
// With samples <= 0 the curve is exact: one knot per distinct arrival value
// with a running cumulative count. With samples > 0 the curve holds that many
// evenly spaced thresholds between the minimum and maximum arrival, counting
// values <= threshold by binary search, which is much cheaper on dense grids.
func History(g *raster.Grid, cellArea float64, samples int) Curve {
	vals := make([]float64, 0, len(g.Values))
	for i, v := range g.Values {
		if g.Valid[i] && v > 0 {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return Curve{}
	}
	sort.Float64s(vals)

	if samples <= 0 {
		return exactCurve(vals, cellArea)
	}
	return sampledCurve(vals, cellArea, samples)
}

func exactCurve(sorted []float64, cellArea float64) Curve {
	var c Curve
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		c.Times = append(c.Times, sorted[i])
		c.Counts = append(c.Counts, float64(j))
		c.Areas = append(c.Areas, float64(j)*cellArea)
		i = j
	}
	return c
}

func sampledCurve(sorted []float64, cellArea float64, samples int) Curve {
	if samples == 1 {
		n := float64(len(sorted))
		return Curve{
			Times:  []float64{sorted[len(sorted)-1]},
			Counts: []float64{n},
			Areas:  []float64{n * cellArea},
		}
	}
	thresholds := floats.Span(make([]float64, samples), sorted[0], sorted[len(sorted)-1])
	c := Curve{
		Times:  thresholds,
		Counts: make([]float64, samples),
		Areas:  make([]float64, samples),
	}
	for i, t := range thresholds {
		// Right-inclusive: number of arrivals <= t.
		n := float64(sort.Search(len(sorted), func(k int) bool { return sorted[k] > t }))
		c.Counts[i] = n
		c.Areas[i] = n * cellArea
	}
	return c
}
