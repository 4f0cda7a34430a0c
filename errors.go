package kmedgo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when Fit is called with an unusable
	// data matrix. It is raised once at Fit entry and never retried.
	ErrInvalidInput = errors.New("invalid input matrix")

	// ErrInvalidK is returned when the cluster count is not positive.
	ErrInvalidK = errors.New("k must be positive")
)

// ErrDimensionMismatch indicates a center/data dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }
