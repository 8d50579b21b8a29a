package models

// OHLCBar is one input period of an OHLC series.
type OHLCBar struct {
	Datetime string `json:"datetime"`
	Open     Float  `json:"open"`
	High     Float  `json:"high"`
	Low      Float  `json:"low"`
	Close    Float  `json:"close"`
}

// OHLCForecastRequest is the body of POST /api/forecast/ohlc and of the legacy directional change endpoint.
type OHLCForecastRequest struct {
	DataInput     []OHLCBar `json:"data_input" validate:"required,dive"`
	Interval      *int      `json:"interval" validate:"required"`
	IntervalUnit  string    `json:"interval_unit" validate:"required"`
	ReasoningMode string    `json:"reasoning_mode" validate:"required"`
}

// UnivariatePoint is one input period of a scalar series.
type UnivariatePoint struct {
	Datetime string `json:"datetime"`
	Value    Float  `json:"value"`
}

// UnivariateForecastRequest is the body of POST /api/forecast/univariate.
type UnivariateForecastRequest struct {
	DataInput     []UnivariatePoint `json:"data_input" validate:"required,dive"`
	Interval      *int              `json:"interval" validate:"required"`
	IntervalUnit  string            `json:"interval_unit" validate:"required"`
	ReasoningMode string            `json:"reasoning_mode" validate:"required"`
}

// IntervalValue returns the requested interval, which the EIP API validates on its side.
func (r *OHLCForecastRequest) IntervalValue() int {
	return derefInterval(r.Interval)
}

func (r *UnivariateForecastRequest) IntervalValue() int {
	return derefInterval(r.Interval)
}

func derefInterval(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// ForecastCall is what gets handed to the EIP API for either forecast flavour.
type ForecastCall struct {
	DataInput     *Table `json:"data_input"`
	Interval      int    `json:"interval"`
	IntervalUnit  string `json:"interval_unit"`
	ReasoningMode string `json:"reasoning_mode"`
}

// ForecastResponse carries the causal chain direction for the last period.
type ForecastResponse struct {
	CausalChain      int     `json:"causal_chain"`
	Timestamp        string  `json:"timestamp"`
	ProcessingTimeMs float64 `json:"processing_time_ms"`
	DataPeriods      int     `json:"data_periods"`
}

const LegacyDeprecationWarning = "This endpoint is deprecated. Use /forecast/ohlc instead."

// LegacyForecastResponse is the body of the deprecated /api/predict/directional_change endpoint.
type LegacyForecastResponse struct {
	DirectionalChangeForecast bool    `json:"directional_change_forecast"`
	Confidence                int     `json:"confidence"`
	Timestamp                 string  `json:"timestamp"`
	CausalChain               int     `json:"causal_chain"`
	ProcessingTimeMs          float64 `json:"processing_time_ms"`
	DeprecationWarning        string  `json:"deprecation_warning"`
}
