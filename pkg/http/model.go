package http

// ErrorBody is the JSON body of every non-2xx response.
// Detail mirrors the message so clients written against FastAPI-style errors keep working.
type ErrorBody struct {
	Status  int               `json:"status" example:"400"`
	Message string            `json:"message" example:"Bad Request"`
	Detail  string            `json:"detail" example:"Insufficient data: 4000 periods"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"data_input"`
	Message string                 `json:"message,omitempty" example:"data_input is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
