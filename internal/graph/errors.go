package graph

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrArgument     = errors.New("invalid argument")
	ErrNotVariable  = errors.New("not a variable")
	ErrUnknownAxis  = errors.New("axis not in op axes")
	ErrLengthAxis   = errors.New("axis lengths differ")
	ErrUnsetLength  = errors.New("axis length not set")
	ErrNoArguments  = errors.New("no arguments")
	ErrIndexOutside = errors.New("index out of range")
)

// OpError describes a failure to construct an op.
type OpError struct {
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Err
}

// fail aborts op construction. Graph building mirrors eager tensor code:
// a malformed op is a programming error, so constructors panic. Try turns
// the panic back into an error for callers assembling graphs from input
// they do not control.
func fail(kind Kind, err error) {
	panic(&OpError{Kind: kind, Err: err})
}

func failf(kind Kind, base error, format string, args ...any) {
	fail(kind, fmt.Errorf("%w: "+format, append([]any{base}, args...)...))
}

// Try runs build and converts a construction panic into an error.
// Panics that are not construction failures propagate.
func Try(build func() Op) (op Op, err error) {
	defer func() {
		if r := recover(); r != nil {
			opErr, ok := r.(*OpError)
			if !ok {
				panic(r)
			}
			op, err = nil, opErr
		}
	}()
	return build(), nil
}
