package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Table is a column-oriented data set that keeps its column order on the wire:
// {"datetime": [...], "open": [...], ...}.
type Table struct {
	columns []string
	values  map[string][]interface{}
	rows    int
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...string) *Table {
	t := &Table{values: make(map[string][]interface{}, len(columns))}
	for _, c := range columns {
		t.AddColumn(c)
	}
	return t
}

// AddColumn appends a column and back-fills existing rows with nulls. Existing columns are left alone.
func (t *Table) AddColumn(name string) {
	if _, ok := t.values[name]; ok {
		return
	}
	t.columns = append(t.columns, name)
	t.values[name] = make([]interface{}, t.rows)
}

// AppendRecord adds one row keeping the record's key order for columns it introduces.
func (t *Table) AppendRecord(r Record) {
	for _, k := range r.Keys {
		t.AddColumn(k)
	}
	for _, c := range t.columns {
		if v, ok := r.Values[c]; ok {
			t.values[c] = append(t.values[c], v)
			continue
		}
		t.values[c] = append(t.values[c], nil)
	}
	t.rows++
}

// AppendValues adds one row given in column order.
func (t *Table) AppendValues(vals ...interface{}) error {
	if len(vals) != len(t.columns) {
		return fmt.Errorf("table: got %d values for %d columns", len(vals), len(t.columns))
	}
	for i, c := range t.columns {
		t.values[c] = append(t.values[c], vals[i])
	}
	t.rows++
	return nil
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column returns the values of one column, or nil when it does not exist.
func (t *Table) Column(name string) []interface{} {
	return t.values[name]
}

// Len is the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.rows
}

func (t *Table) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range t.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		vals := t.values[c]
		if vals == nil {
			vals = []interface{}{}
		}
		col, err := json.Marshal(vals)
		if err != nil {
			return nil, fmt.Errorf("table column %q: %w", c, err)
		}
		buf.Write(col)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
