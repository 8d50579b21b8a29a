package shape

import (
	"encoding/json"
	"time"

	"ForecastGate/internal/domain"
	xutil "ForecastGate/pkg/util"
)

// Propagation is a decoded chain propagation result.
type Propagation struct {
	HasPropagated bool
	// Datetime is RFC3339 when the EIP value parses as a time, verbatim otherwise.
	Datetime   *string
	ChainValue *int
}

// MatchPropagation accepts either
//
//	{"has_propagated": true, "propagation_datetime": "...", "chain_value": 1}
//	[true, "...", 1]
//
// where the datetime and chain value may be null.
func MatchPropagation(raw json.RawMessage) (Propagation, error) {
	v, err := decode(raw)
	if err != nil {
		return Propagation{}, domain.UnexpectedResultError("propagation result is not valid JSON")
	}

	var flag, dt, chain interface{}
	switch t := v.(type) {
	case map[string]interface{}:
		var ok bool
		if flag, ok = t["has_propagated"]; !ok {
			return Propagation{}, domain.UnexpectedResultError("propagation result without has_propagated")
		}
		dt = t["propagation_datetime"]
		chain = t["chain_value"]
	case []interface{}:
		if len(t) != 3 {
			return Propagation{}, domain.UnexpectedResultError("propagation tuple has %d elements, want 3", len(t))
		}
		flag, dt, chain = t[0], t[1], t[2]
	default:
		return Propagation{}, domain.UnexpectedResultError("unsupported propagation result type %T", v)
	}

	has, ok := flag.(bool)
	if !ok {
		return Propagation{}, domain.UnexpectedResultError("has_propagated is %T, want bool", flag)
	}
	out := Propagation{HasPropagated: has}

	if dt != nil {
		s, ok := scalarString(dt)
		if !ok {
			return Propagation{}, domain.UnexpectedResultError("propagation_datetime is %T", dt)
		}
		if ts, ok := xutil.ParseTime(s); ok {
			s = ts.Format(time.RFC3339)
		}
		out.Datetime = &s
	}

	if chain != nil {
		n, err := integral(chain)
		if err != nil {
			return Propagation{}, err
		}
		c := int(n)
		out.ChainValue = &c
	}

	return out, nil
}
