package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key violation")
	ErrNoProbability  = errors.New("no model probability available")
	ErrPackValidation = errors.New("calibration pack failed schema validation")
)

// InsufficientDataError indicates a train or test window fell below the
// minimum record count. Fatal to the run, never retried.
type InsufficientDataError struct {
	Window string
	Got    int
	Min    int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %s window has %d records, minimum %d", e.Window, e.Got, e.Min)
}

// InvalidSplitRatioError indicates a split ratio outside (0,1) or a
// boundary date outside the record range. Rejected before any computation.
type InvalidSplitRatioError struct {
	Ratio  float64
	Detail string
}

func (e *InvalidSplitRatioError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("invalid split ratio %g: %s", e.Ratio, e.Detail)
	}
	return fmt.Sprintf("invalid split ratio %g: must be in (0,1)", e.Ratio)
}
