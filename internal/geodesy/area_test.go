package geodesy

import (
	"math"
	"testing"

	"github.com/ctessum/geom"
)

// square returns a small quad near Santa Rosa, side degrees on each edge.
func square(lon, lat, side float64) []geom.Point {
	return []geom.Point{
		{X: lon, Y: lat},
		{X: lon + side, Y: lat},
		{X: lon + side, Y: lat + side},
		{X: lon, Y: lat + side},
	}
}

func TestAreaOrientationIndependent(t *testing.T) {
	ring := square(-122.7, 38.5, 0.1)
	reversed := make([]geom.Point, len(ring))
	for i, p := range ring {
		reversed[len(ring)-1-i] = p
	}
	a := Area(geom.Polygon{ring})
	b := Area(geom.Polygon{reversed})
	if a != b {
		t.Errorf("area depends on winding: %v vs %v", a, b)
	}
	if a <= 0 {
		t.Errorf("area %v, want > 0", a)
	}
}

func TestAreaMagnitude(t *testing.T) {
	// A 0.1 degree square at 38.5N is roughly 11.1 km x 8.7 km.
	a := Area(geom.Polygon{square(-122.7, 38.5, 0.1)})
	km2 := a / 1e6
	if km2 < 80 || km2 > 110 {
		t.Errorf("area %v km², want roughly 97", km2)
	}
}

func TestAreaWithHole(t *testing.T) {
	outer := square(-122.7, 38.5, 0.1)
	inner := square(-122.67, 38.53, 0.02)
	solid := Area(geom.Polygon{outer})
	holed := Area(geom.Polygon{outer, inner})
	if holed >= solid {
		t.Errorf("holed area %v not below solid %v", holed, solid)
	}
	want := solid - Area(geom.Polygon{inner})
	if math.Abs(holed-want) > 1 { // within a square meter
		t.Errorf("holed area %v, want %v", holed, want)
	}
}

func TestAreaMultiPolygon(t *testing.T) {
	p1 := geom.Polygon{square(-122.7, 38.5, 0.05)}
	p2 := geom.Polygon{square(-122.5, 38.5, 0.05)}
	mp := geom.MultiPolygon{p1, p2}
	want := Area(p1) + Area(p2)
	if got := Area(mp); math.Abs(got-want) > 1 {
		t.Errorf("multipolygon area %v, want %v", got, want)
	}
}

func TestAreaEmpty(t *testing.T) {
	if got := Area(nil); got != 0 {
		t.Errorf("nil area %v, want 0", got)
	}
	if got := Area(geom.Polygon{}); got != 0 {
		t.Errorf("empty polygon area %v, want 0", got)
	}
	if got := Area(geom.Polygon{{{X: 0, Y: 0}, {X: 1, Y: 1}}}); got != 0 {
		t.Errorf("two-vertex ring area %v, want 0", got)
	}
}
