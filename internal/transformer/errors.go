package transformer

import (
	"errors"
	"fmt"

	"github.com/born-ml/axgraph/internal/axes"
)

// Common errors.
var (
	ErrUnknownBackend     = errors.New("transformer: unknown backend")
	ErrUnknownPass        = errors.New("transformer: unknown pass")
	ErrUnboundPlaceholder = errors.New("transformer: placeholder is not a computation parameter")
	ErrNotParameter       = errors.New("transformer: parameter is not a placeholder")
	ErrInputCount         = errors.New("transformer: wrong number of inputs")
	ErrInputShape         = errors.New("transformer: input does not fit parameter axes")
	ErrClosed             = errors.New("transformer: closed")
)

// InputError reports a value that does not fit its parameter.
type InputError struct {
	Index int
	Param string
	Want  axes.Axes
	Got   axes.Axes
	Size  int
}

// Error implements the error interface.
func (e *InputError) Error() string {
	if e.Got.IsScalar() && e.Size != 1 {
		return fmt.Sprintf("input %d (%s): %d unlabelled values for axes %s", e.Index, e.Param, e.Size, e.Want)
	}
	return fmt.Sprintf("input %d (%s): axes %s do not fit %s", e.Index, e.Param, e.Got, e.Want)
}

// Unwrap returns ErrInputShape.
func (e *InputError) Unwrap() error { return ErrInputShape }

// KernelError reports a failure while executing an op.
type KernelError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *KernelError) Error() string {
	return fmt.Sprintf("transformer: executing %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *KernelError) Unwrap() error { return e.Err }
