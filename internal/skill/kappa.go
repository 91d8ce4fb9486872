package skill

import "encoding/json"

// Measure is an agreement or timing value that may be undefined. Undefined
// measures (single-class kappa, no burned simulated cell) are expected,
// non-fatal outcomes and must never leak into arithmetic as NaN.
type Measure struct {
	Value   float64
	Defined bool
}

// Defined wraps v in a defined Measure.
func Defined(v float64) Measure { return Measure{Value: v, Defined: true} }

// Undefined is the sentinel for measures that cannot be computed.
var Undefined = Measure{}

// Ptr returns the value for serialization, nil when undefined.
func (m Measure) Ptr() *float64 {
	if !m.Defined {
		return nil
	}
	v := m.Value
	return &v
}

// MarshalJSON encodes a defined measure as its value and an undefined one as
// null, matching the downstream reporting contract.
func (m Measure) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Ptr())
}

// UnmarshalJSON decodes null as the undefined sentinel.
func (m *Measure) UnmarshalJSON(b []byte) error {
	var v *float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		*m = Undefined
	} else {
		*m = Defined(*v)
	}
	return nil
}

// Kappa computes Cohen's Kappa between two equal-length binary label slices.
// When both slices contain only a single class the chance-corrected agreement
// cannot be estimated and the result is undefined.
func Kappa(obs, sim []uint8) Measure {
	if len(obs) == 0 || len(obs) != len(sim) {
		return Undefined
	}
	var n00, n01, n10, n11 float64
	for i := range obs {
		switch {
		case obs[i] == 0 && sim[i] == 0:
			n00++
		case obs[i] == 0 && sim[i] != 0:
			n01++
		case obs[i] != 0 && sim[i] == 0:
			n10++
		default:
			n11++
		}
	}
	singleObs := n00+n01 == 0 || n10+n11 == 0
	singleSim := n00+n10 == 0 || n01+n11 == 0
	if singleObs && singleSim {
		return Undefined
	}

	n := n00 + n01 + n10 + n11
	po := (n00 + n11) / n
	pe := ((n00+n01)*(n00+n10) + (n10+n11)*(n01+n11)) / (n * n)
	if pe == 1 {
		return Undefined
	}
	return Defined((po - pe) / (1 - pe))
}
