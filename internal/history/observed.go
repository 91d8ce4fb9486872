// Observed burn-area history from cumulative perimeters.
package history

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"firevalid/internal/geodesy"
	"firevalid/internal/hull"
	"firevalid/internal/logging"
)

// zoneTokens maps the recognized trailing timezone abbreviations to concrete
// zones. An abbreviation names a fixed offset, not a location: "PDT" means
// UTC-7 whatever the date says. The set is deliberately small; abbreviations
// outside it are ambiguous and are treated as UTC with a warning so callers
// can validate their inputs up front.
var zoneTokens = map[string]*time.Location{
	"PST": time.FixedZone("PST", -8*3600),
	"PDT": time.FixedZone("PDT", -7*3600),
	"UTC": time.UTC,
	"GMT": time.UTC,
}

var trailingZone = regexp.MustCompile(`(?i)\b([A-Z]{3,4})\s*$`)

var startLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseStart parses an ignition start time. A recognized trailing zone token
// is stripped and resolved, the remainder is parsed as a naive date/time and
// localized in that zone; with no token (or an unrecognized one) the string
// is taken as UTC. The result is always normalized to UTC.
func ParseStart(ctx context.Context, s string) (time.Time, error) {
	log := logging.FromContext(ctx)

	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", " "))
	loc := time.UTC
	if m := trailingZone.FindStringSubmatch(cleaned); m != nil {
		token := strings.ToUpper(m[1])
		if zone, ok := zoneTokens[token]; ok {
			loc = zone
			cleaned = strings.TrimSpace(cleaned[:len(cleaned)-len(m[0])])
		} else {
			log.Warn("unrecognized timezone token, assuming UTC", "token", token, "start", s)
			cleaned = strings.TrimSpace(cleaned[:len(cleaned)-len(m[0])])
		}
	}

	cleaned = strings.Join(strings.Fields(cleaned), " ")
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, cleaned, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("history: unparseable start time %q", s)
}

// Observed converts a cumulative perimeter set into an elapsed-time series:
// for each perimeter, seconds since start (both UTC) paired with its geodesic
// area in square kilometers. Entries are emitted in key order, which is
// chronological because perimeters are built in cohort order.
func Observed(set *hull.Set, start time.Time) (seconds []float64, areasKm2 []float64) {
	start = start.UTC()
	for _, e := range set.Entries {
		seconds = append(seconds, e.Key.UTC().Sub(start).Seconds())
		areasKm2 = append(areasKm2, geodesy.Area(e.Poly)/1e6)
	}
	return seconds, areasKm2
}
