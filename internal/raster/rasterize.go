package raster

import (
	"math"

	"github.com/ctessum/geom"
)

// MaskPolygon burns poly onto g's grid: cells whose center lies inside (or on
// the edge of) the polygon are 1, all others 0. The polygon must already be
// expressed in g's spatial reference. A nil, empty, or zero-area polygon
// yields an all-zero mask.
func MaskPolygon(g *Grid, poly geom.Polygonal) []uint8 {
	mask := make([]uint8, g.Height*g.Width)
	if poly == nil || poly.Area() == 0 {
		return mask
	}

	// Only cells overlapping the polygon's bounds can be covered.
	b := poly.Bounds()
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			x, y := g.Transform.CellCenter(row, col)
			if x < b.Min.X || x > b.Max.X || y < b.Min.Y || y > b.Max.Y {
				continue
			}
			p := geom.Point{X: x, Y: y}
			if w := p.Within(poly); w == geom.Inside || w == geom.OnEdge {
				mask[row*g.Width+col] = 1
			}
		}
	}
	return mask
}

// BurnedMask returns the simulated binary burn mask at elapsed seconds t: a
// cell is burned when it is valid and its arrival time is finite, strictly
// positive, and at most t. For t <= 0 the mask is entirely unburned. The
// second return is the realized cutoff, the maximum arrival time among burned
// cells, with ok=false when no cell burned.
func BurnedMask(g *Grid, t float64) (mask []uint8, cutoff float64, ok bool) {
	mask = make([]uint8, g.Height*g.Width)
	if t <= 0 {
		return mask, 0, false
	}
	cutoff = math.Inf(-1)
	for i, v := range g.Values {
		if !g.Valid[i] || v <= 0 || v > t {
			continue
		}
		mask[i] = 1
		if v > cutoff {
			cutoff = v
		}
		ok = true
	}
	if !ok {
		cutoff = 0
	}
	return mask, cutoff, ok
}
