// Detection ingestion and normalization for satellite fire detections.
package detect

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"

	"firevalid/internal/logging"
)

// NoDetectionsError reports that no source under Dir yielded a valid record.
type NoDetectionsError struct {
	Dir string
}

func (e *NoDetectionsError) Error() string {
	return fmt.Sprintf("detect: no valid detections under %q", e.Dir)
}

// Detection is one normalized point observation in EPSG:4326. Immutable once
// built.
type Detection struct {
	Point  geom.Point // X longitude, Y latitude
	Time   time.Time  // absolute observation time, UTC
	Cohort int        // half-day bucket, see CohortOf
}

// Options configures ingestion. AllowMissingIndex is the explicit startup
// toggle for shapefile sources that lack their .shx sidecar: when set, such
// sources are skipped with a warning instead of aborting the run.
type Options struct {
	AllowMissingIndex bool
	DateField         string // defaults to ACQ_DATE
	TimeField         string // defaults to ACQ_TIME
}

func (o Options) dateField() string {
	if o.DateField == "" {
		return "ACQ_DATE"
	}
	return o.DateField
}

func (o Options) timeField() string {
	if o.TimeField == "" {
		return "ACQ_TIME"
	}
	return o.TimeField
}

// longlat is the canonical geographic reference all detections are unified to.
var longlat = mustParse("+proj=longlat +datum=WGS84 +no_defs")

func mustParse(p string) *proj.SR {
	sr, err := proj.Parse(p)
	if err != nil {
		panic(err)
	}
	return sr
}

// Load reads every shapefile under dir (recursively), drops records without
// geometry, reprojects to EPSG:4326, derives absolute UTC timestamps from the
// acquisition date and time-of-day fields, deduplicates, sorts ascending by
// time, and assigns half-day cohorts. Identical input always produces the
// identical ordering and cohort assignment.
func Load(ctx context.Context, dir string, opts Options) ([]Detection, error) {
	log := logging.FromContext(ctx)

	var sources []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".shp") {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("detect: scanning %q: %w", dir, err)
	}
	sort.Strings(sources)
	if len(sources) == 0 {
		return nil, &NoDetectionsError{Dir: dir}
	}

	var dets []Detection
	for _, src := range sources {
		rows, err := loadSource(src, opts)
		if err != nil {
			if opts.AllowMissingIndex && missingIndex(src) {
				log.Warn("skipping shapefile without index sidecar", "source", src, "err", err)
				continue
			}
			return nil, fmt.Errorf("detect: reading %q: %w", src, err)
		}
		dets = append(dets, rows...)
	}

	dets = dedupe(dets)
	if len(dets) == 0 {
		return nil, &NoDetectionsError{Dir: dir}
	}

	sort.SliceStable(dets, func(i, j int) bool { return dets[i].Time.Before(dets[j].Time) })
	for i := range dets {
		dets[i].Cohort = CohortOf(dets[i].Time)
	}
	log.Info("normalized detections", "dir", dir, "sources", len(sources), "count", len(dets))
	return dets, nil
}

func loadSource(path string, opts Options) ([]Detection, error) {
	dec, err := shp.NewDecoder(path)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	// Sources without a .prj sidecar are assumed to already be geographic. A
	// present but unreadable one aborts: silently skipping it would mis-locate
	// every detection in the source.
	var trans proj.Transformer
	if hasProjection(path) {
		sr, err := dec.SR()
		if err != nil {
			return nil, fmt.Errorf("parsing projection sidecar: %w", err)
		}
		if trans, err = sr.NewTransform(longlat); err != nil {
			return nil, fmt.Errorf("building transform to EPSG:4326: %w", err)
		}
	}

	var dets []Detection
	for {
		g, fields, more := dec.DecodeRowFields(opts.dateField(), opts.timeField())
		if !more {
			break
		}
		if g == nil {
			continue // geometry-less record
		}
		if trans != nil {
			if g, err = g.Transform(trans); err != nil {
				return nil, fmt.Errorf("reprojecting record: %w", err)
			}
		}
		pt, ok := g.(geom.Point)
		if !ok {
			continue // only point detections participate
		}
		t, err := combineDateTime(fields[opts.dateField()], fields[opts.timeField()])
		if err != nil {
			continue // unparseable acquisition stamp, drop the record
		}
		dets = append(dets, Detection{Point: pt, Time: t})
	}
	if err := dec.Error(); err != nil {
		return nil, err
	}
	return dets, nil
}

func missingIndex(shpPath string) bool {
	shx := strings.TrimSuffix(shpPath, filepath.Ext(shpPath)) + ".shx"
	_, err := os.Stat(shx)
	return err != nil
}

func hasProjection(shpPath string) bool {
	prj := strings.TrimSuffix(shpPath, filepath.Ext(shpPath)) + ".prj"
	_, err := os.Stat(prj)
	return err == nil
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", "20060102", "2006-01-02T15:04:05"}

// combineDateTime merges an acquisition date with a 24-hour "HHMM" clock
// string into one absolute UTC timestamp.
func combineDateTime(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	var day time.Time
	var err error
	for _, layout := range dateLayouts {
		if day, err = time.ParseInLocation(layout, date, time.UTC); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("acquisition date %q: %w", date, err)
	}

	clock = strings.TrimSpace(clock)
	if clock == "" {
		return time.Time{}, fmt.Errorf("empty acquisition time")
	}
	for len(clock) < 4 {
		clock = "0" + clock
	}
	hhmm, err := time.Parse("1504", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("acquisition time %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hhmm.Hour(), hhmm.Minute(), 0, 0, time.UTC), nil
}

// CohortOf assigns the half-day bucket for an observation time:
// 2*day-of-month, plus one for the afternoon half.
func CohortOf(t time.Time) int {
	c := 2 * t.Day()
	if t.Hour() >= 12 {
		c++
	}
	return c
}

func dedupe(dets []Detection) []Detection {
	seen := make(map[Detection]struct{}, len(dets))
	out := dets[:0]
	for _, d := range dets {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}
