package models

// PropagationRequest holds the result series of two adjacent timeframes.
type PropagationRequest struct {
	CurrentTFData []Record `json:"current_tf_data" validate:"required"`
	NextTFData    []Record `json:"next_tf_data" validate:"required"`
}

// PropagationCall is the payload of the EIP chain propagation check.
type PropagationCall struct {
	CurrentTF *Table `json:"current_tf"`
	NextTF    *Table `json:"next_tf"`
}

// PropagationResponse reports whether a chain carried over into the next timeframe.
type PropagationResponse struct {
	HasPropagated       bool    `json:"has_propagated"`
	PropagationDatetime *string `json:"propagation_datetime"`
	ChainValue          *int    `json:"chain_value"`
	Timestamp           string  `json:"timestamp"`
}
