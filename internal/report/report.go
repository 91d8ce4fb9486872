// Validation run summaries and the flat metrics record.
package report

import (
	"fmt"
	"time"

	"firevalid/internal/skill"
	"firevalid/internal/toa"
)

// Summary is the complete result of one validation run.
type Summary struct {
	RunID       string         `json:"run_id"`
	Case        string         `json:"case"`
	StartUTC    time.Time      `json:"start_utc"`
	GeneratedAt time.Time      `json:"generated_at"`
	Records     []skill.Record `json:"records"`
	SimCurve    toa.Curve      `json:"sim_curve"`
	ObsSeconds  []float64      `json:"obs_times_s"`
	ObsAreasKm2 []float64      `json:"obs_areas_km2"`
}

// Flatten produces the flat key->value metrics map consumed by downstream
// reporting: per observation index (1-based) the agreement score, the
// realized simulated cutoff, and the observed elapsed time. Undefined
// measures map to nil, serialized as null.
func Flatten(records []skill.Record) map[string]*float64 {
	out := make(map[string]*float64, 3*len(records))
	for i, r := range records {
		obs := r.ObsSeconds
		out[fmt.Sprintf("kappa_%d", i+1)] = r.Kappa.Ptr()
		out[fmt.Sprintf("t_sim_%d", i+1)] = r.SimSeconds.Ptr()
		out[fmt.Sprintf("t_obs_%d", i+1)] = &obs
	}
	return out
}

// Writer receives a completed run summary.
type Writer interface {
	WriteSummary(Summary) error
}

// MultiWriter fans a summary out to several writers.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(ws ...Writer) *MultiWriter {
	return &MultiWriter{writers: ws}
}

// WriteSummary sends the summary to all writers.
func (mw *MultiWriter) WriteSummary(s Summary) error {
	for _, w := range mw.writers {
		if err := w.WriteSummary(s); err != nil {
			return err
		}
	}
	return nil
}
