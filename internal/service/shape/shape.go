// Package shape interprets the heterogeneous results the EIP API returns for
// forecasts and propagation checks.
//
// A forecast result is matched against these arms, in order:
//
//	mapping   {"causal_chain": 1, "datetime": "..."}
//	table     {"causal_chain": [..], "datetime": [..]}, {"causal_chain": {"0": ..}, "datetime": {"0": ..}},
//	          {"columns": [..], "data": [[..]]} or [{...}, {...}]
//	entry     {"2024-01-01 00:00:00": 1}
//	scalar    1
//
// Anything else is an unexpected result.
package shape

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"ForecastGate/internal/domain"
)

// Kind identifies the arm that accepted a result.
type Kind int

const (
	KindMapping Kind = iota + 1
	KindTable
	KindEntry
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindTable:
		return "table"
	case KindEntry:
		return "entry"
	case KindScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

const causalChainKey = "causal_chain"

// timestampKeys are consulted in order when a result carries its own timestamp.
var timestampKeys = []string{"timestamp", "datetime"}

// Reading is a decoded forecast result.
type Reading struct {
	Kind        Kind
	CausalChain int
	// Timestamp is empty when the result does not say which period it applies to.
	Timestamp string
}

// Match decodes a forecast result. The error matches domain.ErrUnexpectedResult
// when no arm accepts raw.
func Match(raw json.RawMessage) (Reading, error) {
	v, err := decode(raw)
	if err != nil {
		return Reading{}, domain.UnexpectedResultError("result is not valid JSON")
	}

	switch t := v.(type) {
	case map[string]interface{}:
		if cc, ok := t[causalChainKey]; ok {
			switch cc.(type) {
			case []interface{}:
				return matchColumns(t)
			case map[string]interface{}:
				return matchIndexedColumns(t)
			default:
				return matchMapping(t, cc)
			}
		}
		if _, ok := t["columns"]; ok {
			return matchSplit(t)
		}
		if len(t) == 1 {
			return matchEntry(t)
		}
		return Reading{}, domain.UnexpectedResultError("object without %s (keys: %d)", causalChainKey, len(t))
	case []interface{}:
		return matchRecords(t)
	case json.Number:
		dir, err := direction(t)
		if err != nil {
			return Reading{}, err
		}
		return Reading{Kind: KindScalar, CausalChain: dir}, nil
	default:
		return Reading{}, domain.UnexpectedResultError("unsupported result type %T", v)
	}
}

func matchMapping(m map[string]interface{}, cc interface{}) (Reading, error) {
	dir, err := direction(cc)
	if err != nil {
		return Reading{}, err
	}
	r := Reading{Kind: KindMapping, CausalChain: dir}
	for _, k := range timestampKeys {
		if s, ok := scalarString(m[k]); ok {
			r.Timestamp = s
			break
		}
	}
	return r, nil
}

// matchColumns handles column-oriented tables; the last row wins.
func matchColumns(m map[string]interface{}) (Reading, error) {
	col, _ := m[causalChainKey].([]interface{})
	if len(col) == 0 {
		return Reading{}, domain.UnexpectedResultError("%s column is empty", causalChainKey)
	}
	dir, err := direction(col[len(col)-1])
	if err != nil {
		return Reading{}, err
	}

	r := Reading{Kind: KindTable, CausalChain: dir}
	for _, k := range timestampKeys {
		tc, ok := m[k].([]interface{})
		if !ok || len(tc) != len(col) {
			continue
		}
		if s, ok := scalarString(tc[len(tc)-1]); ok {
			r.Timestamp = s
			break
		}
	}
	return r, nil
}

// matchIndexedColumns handles columns keyed by row index, {"causal_chain": {"0": 1, "1": -1}};
// the highest index wins.
func matchIndexedColumns(m map[string]interface{}) (Reading, error) {
	col, _ := m[causalChainKey].(map[string]interface{})
	if len(col) == 0 {
		return Reading{}, domain.UnexpectedResultError("%s column is empty", causalChainKey)
	}
	last, lastIdx := "", int64(-1)
	for k := range col {
		i, err := strconv.ParseInt(k, 10, 64)
		if err != nil || i < 0 {
			return Reading{}, domain.UnexpectedResultError("%s index %q is not a row number", causalChainKey, k)
		}
		if i > lastIdx {
			last, lastIdx = k, i
		}
	}
	dir, err := direction(col[last])
	if err != nil {
		return Reading{}, err
	}

	r := Reading{Kind: KindTable, CausalChain: dir}
	for _, k := range timestampKeys {
		tc, ok := m[k].(map[string]interface{})
		if !ok {
			continue
		}
		if s, ok := scalarString(tc[last]); ok {
			r.Timestamp = s
			break
		}
	}
	return r, nil
}

// matchSplit handles {"columns": [...], "data": [[...], ...]}.
func matchSplit(m map[string]interface{}) (Reading, error) {
	cols, _ := m["columns"].([]interface{})
	rows, _ := m["data"].([]interface{})
	idx := map[string]int{}
	for i, c := range cols {
		if s, ok := c.(string); ok {
			idx[s] = i
		}
	}
	ci, ok := idx[causalChainKey]
	if !ok || len(rows) == 0 {
		return Reading{}, domain.UnexpectedResultError("split table without %s rows", causalChainKey)
	}
	last, ok := rows[len(rows)-1].([]interface{})
	if !ok || ci >= len(last) {
		return Reading{}, domain.UnexpectedResultError("split table row is malformed")
	}
	dir, err := direction(last[ci])
	if err != nil {
		return Reading{}, err
	}

	r := Reading{Kind: KindTable, CausalChain: dir}
	for _, k := range timestampKeys {
		if ti, ok := idx[k]; ok && ti < len(last) {
			if s, ok := scalarString(last[ti]); ok {
				r.Timestamp = s
				break
			}
		}
	}
	return r, nil
}

// matchRecords handles a list of row objects; the last row wins.
func matchRecords(rows []interface{}) (Reading, error) {
	if len(rows) == 0 {
		return Reading{}, domain.UnexpectedResultError("empty result list")
	}
	last, ok := rows[len(rows)-1].(map[string]interface{})
	if !ok {
		return Reading{}, domain.UnexpectedResultError("result list does not hold objects")
	}
	cc, ok := last[causalChainKey]
	if !ok {
		return Reading{}, domain.UnexpectedResultError("result rows have no %s", causalChainKey)
	}
	r, err := matchMapping(last, cc)
	if err != nil {
		return Reading{}, err
	}
	r.Kind = KindTable
	return r, nil
}

// matchEntry handles the single-entry {timestamp: direction} mapping.
func matchEntry(m map[string]interface{}) (Reading, error) {
	for ts, v := range m {
		dir, err := direction(v)
		if err != nil {
			return Reading{}, err
		}
		return Reading{Kind: KindEntry, CausalChain: dir, Timestamp: ts}, nil
	}
	return Reading{}, domain.UnexpectedResultError("empty object")
}

// direction accepts integral numbers in {-1, 0, 1}. 1.0 is fine, 0.5 and 2 are not.
func direction(v interface{}) (int, error) {
	n, err := integral(v)
	if err != nil {
		return 0, err
	}
	if n < -1 || n > 1 {
		return 0, domain.UnexpectedResultError("causal chain %d outside {-1, 0, 1}", n)
	}
	return int(n), nil
}

func integral(v interface{}) (int64, error) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, domain.UnexpectedResultError("expected a number, got %T", v)
	}
	if i, err := num.Int64(); err == nil {
		return i, nil
	}
	f, err := num.Float64()
	if err != nil || math.Trunc(f) != f || math.Abs(f) > math.MaxInt32 {
		return 0, domain.UnexpectedResultError("expected an integer, got %s", num.String())
	}
	return int64(f), nil
}

func scalarString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

func decode(raw json.RawMessage) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
