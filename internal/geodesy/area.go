// Ellipsoidal surface areas for geographic polygons.
package geodesy

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/tidwall/geodesic"
)

// Area returns the surface area of p on the WGS84 ellipsoid, in square
// meters. Coordinates must be geographic (X longitude, Y latitude). The area
// of each part is its exterior ring minus its interior rings, summed across
// parts; ring winding direction does not matter. Nil or empty input is 0.
func Area(p geom.Polygonal) float64 {
	switch g := p.(type) {
	case nil:
		return 0
	case geom.Polygon:
		return polygonArea(g)
	case geom.MultiPolygon:
		var sum float64
		for _, part := range g {
			sum += polygonArea(part)
		}
		return sum
	default:
		return 0
	}
}

func polygonArea(p geom.Polygon) float64 {
	if len(p) == 0 {
		return 0
	}
	area := ringArea(p[0])
	for _, hole := range p[1:] {
		area -= ringArea(hole)
	}
	if area < 0 {
		return 0
	}
	return area
}

// ringArea evaluates one ring's ellipsoidal area from its vertex sequence.
func ringArea(ring []geom.Point) float64 {
	if len(ring) < 3 {
		return 0
	}
	poly := geodesic.WGS84.PolygonInit(false)
	for _, v := range ring {
		poly.AddPoint(v.Y, v.X)
	}
	var area, perimeter float64
	poly.Compute(false, true, &area, &perimeter)
	return math.Abs(area)
}
