package usecase

import (
	"encoding/json"
	"testing"

	"ForecastGate/internal/domain"
	"ForecastGate/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow(t *testing.T) {
	s := []int{1, 2, 3, 4, 5}

	kept, offset, err := window(s, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5}, kept)
	assert.Equal(t, 2, offset)

	kept, offset, err = window(s, 5)
	require.NoError(t, err)
	assert.Equal(t, s, kept)
	assert.Zero(t, offset)

	_, _, err = window(s, 6)
	var ide *domain.InsufficientDataError
	require.ErrorAs(t, err, &ide)
	assert.Equal(t, 5, ide.Have)
}

func TestBuildOHLCTable(t *testing.T) {
	bars := []models.OHLCBar{
		{Datetime: "2024-03-01T10:00:00+02:00", Open: models.NewFloat(1), High: models.NewFloat(2), Low: models.NewFloat(0.5), Close: models.NewFloat(1.5)},
		{Datetime: "2024-03-01 09:00", Open: models.NewFloat(1.5), Close: models.NewFloat(1)},
	}

	tbl, invalid, err := buildOHLCTable(bars, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, invalid)
	assert.Equal(t, []string{"datetime", "open", "high", "low", "close"}, tbl.Columns())
	assert.Equal(t, []interface{}{"2024-03-01 08:00:00", "2024-03-01 09:00:00"}, tbl.Column("datetime"))

	b, err := json.Marshal(tbl)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"datetime": ["2024-03-01 08:00:00", "2024-03-01 09:00:00"],
		"open": [1, 1.5], "high": [2, null], "low": [0.5, null], "close": [1.5, 1]
	}`, string(b))
}

func TestBuildUnivariateTableReportsOriginalIndex(t *testing.T) {
	pts := []models.UnivariatePoint{
		{Datetime: "2024-01-01", Value: models.NewFloat(1)},
		{Datetime: "not a date", Value: models.NewFloat(2)},
	}
	_, _, err := buildUnivariateTable(pts, 40)
	var mre *domain.MalformedRecordError
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, 41, mre.Index)
	assert.Equal(t, "datetime", mre.Field)
}

func TestBuildRecordTable(t *testing.T) {
	var recs []models.Record
	require.NoError(t, json.Unmarshal([]byte(`[
		{"datetime": "2024-01-01", "causal_chain": 1},
		{"datetime": "2024-01-02", "causal_chain": 0, "extra": true}
	]`), &recs))

	tbl := buildRecordTable(recs)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"datetime", "causal_chain", "extra"}, tbl.Columns())
	assert.Nil(t, tbl.Column("extra")[0])
}
