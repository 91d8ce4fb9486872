package hull

import (
	"errors"
	"math"

	"github.com/ctessum/geom"
	"github.com/fogleman/delaunay"
)

// ErrDegenerate reports that a point set cannot support a polygonal hull
// (fewer than three distinct points, or all collinear).
var ErrDegenerate = errors.New("hull: degenerate point set")

// Convex returns the convex hull polygon of pts.
func Convex(pts []geom.Point) (geom.Polygon, error) {
	tri, err := triangulate(pts)
	if err != nil {
		return nil, err
	}
	if len(tri.ConvexHull) < 3 {
		return nil, ErrDegenerate
	}
	ring := make([]geom.Point, len(tri.ConvexHull))
	for i, p := range tri.ConvexHull {
		ring[i] = geom.Point{X: p.X, Y: p.Y}
	}
	return geom.Polygon{ring}, nil
}

// Concave returns a concave hull of pts built from their Delaunay
// triangulation: boundary triangles whose exposed edge is longer than a
// cutoff are eroded away. ratio in [0,1] interpolates the cutoff between the
// triangulation's shortest and longest edge, so 1 reproduces the convex hull
// and 0 erodes every removable long edge. With allowHoles, interior triangles
// longer than the cutoff seed cavities as well.
func Concave(pts []geom.Point, ratio float64, allowHoles bool) (geom.Polygonal, error) {
	tri, err := triangulate(pts)
	if err != nil {
		return nil, err
	}
	nTri := len(tri.Triangles) / 3
	if nTri == 0 {
		return nil, ErrDegenerate
	}
	ratio = math.Min(math.Max(ratio, 0), 1)

	minLen, maxLen := edgeLengthRange(tri)
	cutoff := minLen + ratio*(maxLen-minLen)

	removed := make([]bool, nTri)
	erode(tri, removed, cutoff)
	if allowHoles {
		for carveHole(tri, removed, cutoff) {
			erode(tri, removed, cutoff)
		}
	}

	poly := polygonize(tri, removed, allowHoles)
	if poly == nil || poly.Area() == 0 {
		return nil, ErrDegenerate
	}
	return poly, nil
}

func triangulate(pts []geom.Point) (*delaunay.Triangulation, error) {
	if len(pts) < 3 {
		return nil, ErrDegenerate
	}
	dp := make([]delaunay.Point, len(pts))
	for i, p := range pts {
		dp[i] = delaunay.Point{X: p.X, Y: p.Y}
	}
	tri, err := delaunay.Triangulate(dp)
	if err != nil {
		return nil, ErrDegenerate
	}
	return tri, nil
}

// nextEdge is the next halfedge within the same triangle.
func nextEdge(e int) int {
	if e%3 == 2 {
		return e - 2
	}
	return e + 1
}

func edgeLength(tri *delaunay.Triangulation, e int) float64 {
	a := tri.Points[tri.Triangles[e]]
	b := tri.Points[tri.Triangles[nextEdge(e)]]
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func edgeLengthRange(tri *delaunay.Triangulation) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for e := range tri.Triangles {
		// Count each undirected edge once.
		if t := tri.Halfedges[e]; t != -1 && t < e {
			continue
		}
		l := edgeLength(tri, e)
		if l < min {
			min = l
		}
		if l > max {
			max = l
		}
	}
	return min, max
}

// exposed reports whether halfedge e currently lies on a boundary, either the
// outer hull or the rim of an eroded region.
func exposed(tri *delaunay.Triangulation, removed []bool, e int) bool {
	t := tri.Halfedges[e]
	return t == -1 || removed[t/3]
}

// erode repeatedly removes boundary triangles whose exposed edge exceeds the
// cutoff. A triangle is only removable when exactly one of its edges is
// exposed and its opposite vertex does not already lie on a boundary, which
// keeps the remaining region connected and free of pinch points.
func erode(tri *delaunay.Triangulation, removed []bool, cutoff float64) {
	for changed := true; changed; {
		changed = false
		boundaryVert := boundaryVertices(tri, removed)
		for t := 0; t < len(removed); t++ {
			if removed[t] {
				continue
			}
			exp, opp := -1, -1
			nExp := 0
			for i := 0; i < 3; i++ {
				e := 3*t + i
				if exposed(tri, removed, e) {
					nExp++
					exp = e
					opp = tri.Triangles[nextEdge(nextEdge(e))]
				}
			}
			if nExp != 1 || edgeLength(tri, exp) <= cutoff || boundaryVert[opp] {
				continue
			}
			removed[t] = true
			boundaryVert[opp] = true
			changed = true
		}
	}
}

// carveHole removes the interior triangle with the longest over-cutoff edge,
// opening a cavity for the next erosion pass. Returns false when no interior
// triangle qualifies.
func carveHole(tri *delaunay.Triangulation, removed []bool, cutoff float64) bool {
	best, bestLen := -1, cutoff
	for t := 0; t < len(removed); t++ {
		if removed[t] {
			continue
		}
		interior := true
		longest := 0.0
		for i := 0; i < 3; i++ {
			e := 3*t + i
			if exposed(tri, removed, e) {
				interior = false
				break
			}
			if l := edgeLength(tri, e); l > longest {
				longest = l
			}
		}
		if interior && longest > bestLen {
			best, bestLen = t, longest
		}
	}
	if best < 0 {
		return false
	}
	removed[best] = true
	return true
}

func boundaryVertices(tri *delaunay.Triangulation, removed []bool) map[int]bool {
	verts := make(map[int]bool)
	for e := range tri.Triangles {
		if removed[e/3] {
			continue
		}
		if exposed(tri, removed, e) {
			verts[tri.Triangles[e]] = true
			verts[tri.Triangles[nextEdge(e)]] = true
		}
	}
	return verts
}

// polygonize stitches the exposed edges of the kept triangles into rings and
// groups them into polygons per connected component. The largest ring of a
// component is its shell; the rest are holes, discarded unless allowHoles.
func polygonize(tri *delaunay.Triangulation, removed []bool, allowHoles bool) geom.Polygonal {
	comp := components(tri, removed)

	// Exposed edges per component, keyed by their starting vertex. Triangles
	// wind counterclockwise, so following starts through ends walks shells
	// counterclockwise and holes clockwise.
	next := make(map[int]map[int]int) // component -> start vertex -> edge
	for e := range tri.Triangles {
		t := e / 3
		if removed[t] || !exposed(tri, removed, e) {
			continue
		}
		c := comp[t]
		if next[c] == nil {
			next[c] = make(map[int]int)
		}
		next[c][tri.Triangles[e]] = e
	}

	var polys []geom.Polygon
	for _, edges := range next {
		var rings [][]geom.Point
		for len(edges) > 0 {
			ring := traceRing(tri, edges)
			if len(ring) >= 3 {
				rings = append(rings, ring)
			}
		}
		if len(rings) == 0 {
			continue
		}
		shell := 0
		for i, r := range rings {
			if math.Abs(ringArea(r)) > math.Abs(ringArea(rings[shell])) {
				shell = i
			}
		}
		poly := geom.Polygon{rings[shell]}
		if allowHoles {
			for i, r := range rings {
				if i != shell {
					poly = append(poly, r)
				}
			}
		}
		polys = append(polys, poly)
	}

	switch len(polys) {
	case 0:
		return nil
	case 1:
		return polys[0]
	default:
		mp := make(geom.MultiPolygon, len(polys))
		copy(mp, polys)
		return mp
	}
}

func traceRing(tri *delaunay.Triangulation, edges map[int]int) []geom.Point {
	var start int
	for v := range edges {
		start = v
		break
	}
	var ring []geom.Point
	for v := start; ; {
		e, ok := edges[v]
		if !ok {
			break
		}
		delete(edges, v)
		p := tri.Points[tri.Triangles[e]]
		ring = append(ring, geom.Point{X: p.X, Y: p.Y})
		v = tri.Triangles[nextEdge(e)]
		if v == start {
			break
		}
	}
	return ring
}

func ringArea(ring []geom.Point) float64 {
	var s float64
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		s += p.X*q.Y - q.X*p.Y
	}
	return s / 2
}

// components labels kept triangles by edge-adjacency flood fill.
func components(tri *delaunay.Triangulation, removed []bool) []int {
	comp := make([]int, len(removed))
	for i := range comp {
		comp[i] = -1
	}
	n := 0
	for t := range removed {
		if removed[t] || comp[t] >= 0 {
			continue
		}
		stack := []int{t}
		comp[t] = n
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for i := 0; i < 3; i++ {
				tw := tri.Halfedges[3*cur+i]
				if tw == -1 {
					continue
				}
				nb := tw / 3
				if !removed[nb] && comp[nb] < 0 {
					comp[nb] = n
					stack = append(stack, nb)
				}
			}
		}
		n++
	}
	return comp
}
