package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDependencyUnavailable means the EIP API is disabled or not configured.
	ErrDependencyUnavailable = errors.New("EIP package not available")
	// ErrClientNotInitialized means the EIP client could not be constructed.
	ErrClientNotInitialized = errors.New("EIP client not initialized")
	// ErrUnexpectedResult means the EIP API answered with a shape no matcher arm accepts.
	ErrUnexpectedResult = errors.New("unexpected API response format")
	// ErrExternalCall wraps failures of the delegated EIP operation.
	ErrExternalCall = errors.New("EIP API call failed")
)

// MinPeriods is the exact number of records a forecast is computed on:
// 5000 historical periods plus one zero-filled forecast placeholder.
const MinPeriods = 5001

// InsufficientDataError is returned when fewer than Need records were supplied.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf(
		"Insufficient data: %d periods. Need at least %d periods (%d historical + 1 forecast placeholder with zeros).",
		e.Have, e.Need, e.Need-1,
	)
}

// MalformedRecordError points at the input record that could not be converted.
type MalformedRecordError struct {
	Index int
	Field string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s: %v", e.FieldPath(), e.Err)
}

// FieldPath names the offending value the way the request body spells it.
func (e *MalformedRecordError) FieldPath() string {
	return fmt.Sprintf("data_input[%d].%s", e.Index, e.Field)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// ExternalCallError builds an error that matches ErrExternalCall and keeps the remote message.
func ExternalCallError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrExternalCall, op, err)
}

// UnexpectedResultError builds an error that matches ErrUnexpectedResult.
func UnexpectedResultError(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnexpectedResult, fmt.Sprintf(format, a...))
}
