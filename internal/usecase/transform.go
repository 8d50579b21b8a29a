package usecase

import (
	"errors"
	"strings"

	"ForecastGate/internal/domain"
	"ForecastGate/internal/domain/models"
	xutil "ForecastGate/pkg/util"
)

var (
	ohlcColumns       = []string{"datetime", "open", "high", "low", "close"}
	univariateColumns = []string{"datetime", "value"}

	errBadTimestamp     = errors.New("unrecognized timestamp format")
	errMissingTimestamp = errors.New("datetime is required")
)

// window enforces the period count: fewer than need is an error, more keeps the
// most recent need entries in their original order. offset is the index of the
// first kept entry in s.
func window[T any](s []T, need int) (kept []T, offset int, err error) {
	if len(s) < need {
		return nil, 0, &domain.InsufficientDataError{Have: len(s), Need: need}
	}
	offset = len(s) - need
	return s[offset:], offset, nil
}

// buildOHLCTable converts bars into the EIP column layout. It returns the number of
// non-numeric cells, which are sent as null.
func buildOHLCTable(bars []models.OHLCBar, offset int) (*models.Table, int, error) {
	t := models.NewTable(ohlcColumns...)
	invalid := 0
	for i, b := range bars {
		ts, err := normalizeDatetime(b.Datetime)
		if err != nil {
			return nil, 0, &domain.MalformedRecordError{Index: offset + i, Field: "datetime", Err: err}
		}
		invalid += countInvalid(b.Open, b.High, b.Low, b.Close)
		if err := t.AppendValues(ts, b.Open.Cell(), b.High.Cell(), b.Low.Cell(), b.Close.Cell()); err != nil {
			return nil, 0, err
		}
	}
	return t, invalid, nil
}

func buildUnivariateTable(points []models.UnivariatePoint, offset int) (*models.Table, int, error) {
	t := models.NewTable(univariateColumns...)
	invalid := 0
	for i, p := range points {
		ts, err := normalizeDatetime(p.Datetime)
		if err != nil {
			return nil, 0, &domain.MalformedRecordError{Index: offset + i, Field: "datetime", Err: err}
		}
		invalid += countInvalid(p.Value)
		if err := t.AppendValues(ts, p.Value.Cell()); err != nil {
			return nil, 0, err
		}
	}
	return t, invalid, nil
}

// normalizeDatetime checks presence here rather than at bind time, so records
// dropped by window never fail a request.
func normalizeDatetime(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errMissingTimestamp
	}
	ts, ok := xutil.NormalizeTimestamp(raw)
	if !ok {
		return "", errBadTimestamp
	}
	return ts, nil
}

// buildRecordTable lays free-form records out column-wise; columns follow first appearance.
func buildRecordTable(records []models.Record) *models.Table {
	t := models.NewTable()
	for _, r := range records {
		t.AppendRecord(r)
	}
	return t
}

func countInvalid(vals ...models.Float) int {
	n := 0
	for _, v := range vals {
		if !v.Valid {
			n++
		}
	}
	return n
}
