package axes

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrIncompatibleAxes = errors.New("incompatible axes")
	ErrDuplicateAxis    = errors.New("duplicate axis")
	ErrAxisNotFound     = errors.New("axis not found")
	ErrNotPermutation   = errors.New("axes are not a permutation")
)

// IncompatibleAxesError reports two axes with the same identity but different lengths.
type IncompatibleAxesError struct {
	A, B Axis
}

// Error implements the error interface.
func (e *IncompatibleAxesError) Error() string {
	return fmt.Sprintf("axis %s has length %d here and %d there", e.A.ident(), e.A.Length(), e.B.Length())
}

// Unwrap returns ErrIncompatibleAxes.
func (e *IncompatibleAxesError) Unwrap() error {
	return ErrIncompatibleAxes
}

// DuplicateAxisError reports an axis appearing twice in one Axes.
type DuplicateAxisError struct {
	Axis Axis
}

// Error implements the error interface.
func (e *DuplicateAxisError) Error() string {
	return fmt.Sprintf("axis %s appears more than once", e.Axis.ident())
}

// Unwrap returns ErrDuplicateAxis.
func (e *DuplicateAxisError) Unwrap() error {
	return ErrDuplicateAxis
}
