package grid

import (
	"errors"
	"fmt"
)

// Domain errors for grid operations.
var (
	// ErrInvalidDimensions indicates non-positive or mismatched rows/cols.
	ErrInvalidDimensions = errors.New("grid: invalid dimensions")

	// ErrValueOutOfRange indicates a value outside the grid's [0, domain).
	ErrValueOutOfRange = errors.New("grid: value out of range")

	// ErrStreamLengthMismatch reports that a decoded stream did not cover the
	// grid exactly. It is informational; decoding still succeeds.
	ErrStreamLengthMismatch = errors.New("grid: stream length does not match grid size")

	// ErrEmptyNeighborhood indicates a cell with no neighbors to average.
	ErrEmptyNeighborhood = errors.New("grid: empty neighborhood")
)

// CellError wraps an error with the coordinate that caused it.
type CellError struct {
	Row     int
	Col     int
	Value   float64
	Wrapped error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%v at (%d,%d): %v", e.Wrapped, e.Row, e.Col, e.Value)
}

func (e *CellError) Unwrap() error {
	return e.Wrapped
}
