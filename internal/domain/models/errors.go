package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoHistory means the requested product has no recorded sales.
	ErrNoHistory = errors.New("no sales history for product")

	// ErrStorageUnavailable means the sales store could not be reached.
	// Retry policy belongs to the storage side; forecasting never retries.
	ErrStorageUnavailable = errors.New("sales storage unavailable")
)

// MinHistory is the smallest aggregated series the predictor accepts.
const MinHistory = 7

// InsufficientHistoryError reports a series too short to forecast from.
type InsufficientHistoryError struct {
	Need int
	Got  int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history: need at least %d periods, got %d", e.Need, e.Got)
}

// NewInsufficientHistoryError builds the error with the engine minimum.
func NewInsufficientHistoryError(got int) *InsufficientHistoryError {
	return &InsufficientHistoryError{Need: MinHistory, Got: got}
}

// SchemaError reports required columns missing from supplied tabular data.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("data must contain columns: %s", strings.Join(e.Missing, ", "))
}
