package history

import (
	"context"
	"testing"
	"time"

	"github.com/ctessum/geom"

	"firevalid/internal/hull"
)

func TestParseStartPacificDaylight(t *testing.T) {
	got, err := ParseStart(context.Background(), "2020-01-01, 09:00 PDT")
	if err != nil {
		t.Fatalf("ParseStart: %v", err)
	}
	// The token names the offset: PDT is UTC-7 even on a January date.
	want := time.Date(2020, 1, 1, 16, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("result not normalized to UTC: %v", got.Location())
	}
}

func TestParseStartPacificSummer(t *testing.T) {
	got, err := ParseStart(context.Background(), "2020-07-01, 09:00 PDT")
	if err != nil {
		t.Fatalf("ParseStart: %v", err)
	}
	// +7h offset under daylight rules.
	want := time.Date(2020, 7, 1, 16, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseStartRealIgnition(t *testing.T) {
	got, err := ParseStart(context.Background(), "2017-10-08, 21:45 PST")
	if err != nil {
		t.Fatalf("ParseStart: %v", err)
	}
	want := time.Date(2017, 10, 9, 5, 45, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseStartUnknownTokenAssumesUTC(t *testing.T) {
	got, err := ParseStart(context.Background(), "2020-01-01 09:00 XST")
	if err != nil {
		t.Fatalf("ParseStart: %v", err)
	}
	want := time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseStartNoToken(t *testing.T) {
	got, err := ParseStart(context.Background(), "2020-03-15 12:30:45")
	if err != nil {
		t.Fatalf("ParseStart: %v", err)
	}
	want := time.Date(2020, 3, 15, 12, 30, 45, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseStartUnparseable(t *testing.T) {
	if _, err := ParseStart(context.Background(), "soon"); err == nil {
		t.Error("expected error for unparseable start time")
	}
}

func TestObserved(t *testing.T) {
	start := time.Date(2017, 10, 9, 4, 45, 0, 0, time.UTC)
	small := geom.Polygon{{
		{X: -122.7, Y: 38.5}, {X: -122.65, Y: 38.5},
		{X: -122.65, Y: 38.55}, {X: -122.7, Y: 38.55},
	}}
	big := geom.Polygon{{
		{X: -122.7, Y: 38.5}, {X: -122.6, Y: 38.5},
		{X: -122.6, Y: 38.6}, {X: -122.7, Y: 38.6},
	}}
	set := &hull.Set{Entries: []hull.Entry{
		{Cohort: 18, Key: start.Add(1 * time.Hour), Poly: small},
		{Cohort: 19, Key: start.Add(13 * time.Hour), Poly: big},
	}}

	seconds, areas := Observed(set, start)
	if len(seconds) != 2 || len(areas) != 2 {
		t.Fatalf("got %d/%d samples, want 2/2", len(seconds), len(areas))
	}
	if seconds[0] != 3600 || seconds[1] != 13*3600 {
		t.Errorf("elapsed %v, want [3600, 46800]", seconds)
	}
	if areas[0] <= 0 || areas[1] <= areas[0] {
		t.Errorf("areas %v, want positive and growing", areas)
	}
}
