package hull

import (
	"context"
	"testing"
	"time"

	"github.com/ctessum/geom"

	"firevalid/internal/detect"
)

func det(x, y float64, t time.Time) detect.Detection {
	return detect.Detection{
		Point:  geom.Point{X: x, Y: y},
		Time:   t,
		Cohort: detect.CohortOf(t),
	}
}

func TestConvexSquare(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	poly, err := Convex(pts)
	if err != nil {
		t.Fatalf("Convex: %v", err)
	}
	if a := poly.Area(); a < 0.999 || a > 1.001 {
		t.Errorf("area %v, want 1", a)
	}
}

func TestConvexDegenerate(t *testing.T) {
	collinear := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}
	if _, err := Convex(collinear); err == nil {
		t.Error("expected error for collinear points")
	}
	if _, err := Convex(collinear[:2]); err == nil {
		t.Error("expected error for two points")
	}
}

// uShape is a concave point cloud: a lattice along three sides of a square,
// leaving a wide open mouth across the top.
func uShape() []geom.Point {
	var pts []geom.Point
	for i := 0; i <= 10; i++ {
		f := float64(i)
		pts = append(pts,
			geom.Point{X: f, Y: 0},   // bottom bar
			geom.Point{X: 0, Y: f},   // left bar
			geom.Point{X: 10, Y: f},  // right bar
			geom.Point{X: f, Y: 0.5}, // thicken the bottom
			geom.Point{X: 0.5, Y: f},
			geom.Point{X: 9.5, Y: f},
		)
	}
	return pts
}

func TestConcaveTighterThanConvex(t *testing.T) {
	pts := uShape()
	convex, err := Convex(pts)
	if err != nil {
		t.Fatalf("Convex: %v", err)
	}
	concave, err := Concave(pts, 0, false)
	if err != nil {
		t.Fatalf("Concave: %v", err)
	}
	if concave.Area() >= convex.Area() {
		t.Errorf("concave area %v not below convex area %v", concave.Area(), convex.Area())
	}
	if concave.Area() <= 0 {
		t.Errorf("concave area %v, want > 0", concave.Area())
	}
}

func TestConcaveRatioOneMatchesConvex(t *testing.T) {
	pts := uShape()
	convex, err := Convex(pts)
	if err != nil {
		t.Fatalf("Convex: %v", err)
	}
	concave, err := Concave(pts, 1, false)
	if err != nil {
		t.Fatalf("Concave: %v", err)
	}
	diff := concave.Area() - convex.Area()
	if diff < -1e-9 || diff > 1e-9 {
		t.Errorf("ratio 1 area %v differs from convex %v", concave.Area(), convex.Area())
	}
}

func TestConcaveDegenerateFallsThrough(t *testing.T) {
	same := []geom.Point{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}}
	if _, err := Concave(same, 0.5, true); err == nil {
		t.Error("expected error for identical points")
	}
}

func TestCumulativeIdenticalPointsBuffered(t *testing.T) {
	base := time.Date(2017, 10, 9, 10, 0, 0, 0, time.UTC)
	dets := []detect.Detection{
		det(-122.7, 38.5, base),
		det(-122.7, 38.5, base.Add(time.Minute)),
		det(-122.7, 38.5, base.Add(2*time.Minute)),
	}
	set := Cumulative(context.Background(), dets, Params{Ratio: 0.5})
	if len(set.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(set.Entries))
	}
	e := set.Entries[0]
	if !e.Buffered {
		t.Error("expected degenerate geometry to be buffered")
	}
	if e.Poly.Area() <= 0 {
		t.Errorf("buffered hull area %v, want > 0", e.Poly.Area())
	}
	if want := base.Add(2 * time.Minute); !e.Key.Equal(want) {
		t.Errorf("key %v, want max observation time %v", e.Key, want)
	}
}

func TestCumulativeGrowth(t *testing.T) {
	day1 := time.Date(2017, 10, 9, 6, 0, 0, 0, time.UTC)
	day1pm := time.Date(2017, 10, 9, 18, 0, 0, 0, time.UTC)
	day2 := time.Date(2017, 10, 10, 6, 0, 0, 0, time.UTC)

	var dets []detect.Detection
	// Cohort 1: a small triangle.
	dets = append(dets,
		det(0, 0, day1), det(1, 0, day1), det(0, 1, day1.Add(time.Hour)))
	// Cohort 2: extend east.
	dets = append(dets,
		det(2, 0, day1pm), det(2, 1, day1pm.Add(time.Hour)))
	// Cohort 3: extend north.
	dets = append(dets,
		det(0, 3, day2), det(2, 3, day2.Add(time.Hour)))

	set := Cumulative(context.Background(), dets, Params{Ratio: 1})
	if len(set.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(set.Entries))
	}
	for i := 1; i < len(set.Entries); i++ {
		prev, cur := set.Entries[i-1], set.Entries[i]
		if cur.Poly.Area() < prev.Poly.Area() {
			t.Errorf("hull area shrank from cohort %d (%v) to %d (%v)",
				prev.Cohort, prev.Poly.Area(), cur.Cohort, cur.Poly.Area())
		}
		if !cur.Key.After(prev.Key) {
			t.Errorf("keys not ascending: %v then %v", prev.Key, cur.Key)
		}
	}
	if got := set.Entries[2].Poly.Area(); got < 5.999 {
		t.Errorf("final hull area %v, want 6 (full 2x3 extent)", got)
	}
}

func TestCumulativeModeFallback(t *testing.T) {
	// Collinear cohort first, then a polygonal one: the first entry needs
	// the convex-then-buffer path, the second resolves concave.
	day1 := time.Date(2017, 10, 9, 6, 0, 0, 0, time.UTC)
	day1pm := time.Date(2017, 10, 9, 18, 0, 0, 0, time.UTC)

	var dets []detect.Detection
	dets = append(dets, det(0, 0, day1), det(1, 0, day1), det(2, 0, day1))
	for _, p := range uShape() {
		dets = append(dets, det(p.X, p.Y, day1pm))
	}

	set := Cumulative(context.Background(), dets, Params{Ratio: 0.3})
	if len(set.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(set.Entries))
	}
	first, second := set.Entries[0], set.Entries[1]
	if first.Mode != ModeConvex || !first.Buffered {
		t.Errorf("first entry mode=%v buffered=%v, want convex fallback with buffering", first.Mode, first.Buffered)
	}
	if second.Mode != ModeConcave || second.Buffered {
		t.Errorf("second entry mode=%v buffered=%v, want concave", second.Mode, second.Buffered)
	}
}

func TestConcaveAllowHoles(t *testing.T) {
	// Dense ring of points with an empty middle: with holes allowed the
	// construction may carve the cavity, and must never exceed the
	// hole-free area.
	var pts []geom.Point
	for i := 0; i <= 20; i++ {
		f := float64(i) / 2
		pts = append(pts,
			geom.Point{X: f, Y: 0}, geom.Point{X: f, Y: 10},
			geom.Point{X: 0, Y: f}, geom.Point{X: 10, Y: f},
			geom.Point{X: f, Y: 1}, geom.Point{X: f, Y: 9},
			geom.Point{X: 1, Y: f}, geom.Point{X: 9, Y: f},
		)
	}
	solid, err := Concave(pts, 0.2, false)
	if err != nil {
		t.Fatalf("Concave without holes: %v", err)
	}
	holed, err := Concave(pts, 0.2, true)
	if err != nil {
		t.Fatalf("Concave with holes: %v", err)
	}
	if holed.Area() > solid.Area()+1e-9 {
		t.Errorf("holed area %v exceeds solid area %v", holed.Area(), solid.Area())
	}
}
