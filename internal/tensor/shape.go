package tensor

import (
	"fmt"
	"slices"
)

// Shape lists the dimensions of a tensor in row-major order.
// The empty shape is a scalar.
type Shape []int

// NumElements returns the product of all dimensions.
func (s Shape) NumElements() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Validate rejects non-positive dimensions.
func (s Shape) Validate() error {
	if i := slices.IndexFunc(s, func(d int) bool { return d <= 0 }); i >= 0 {
		return fmt.Errorf("tensor: dimension %d of %v is %d, must be positive", i, s, s[i])
	}
	return nil
}

func (s Shape) Equal(other Shape) bool { return slices.Equal(s, other) }

func (s Shape) Clone() Shape { return slices.Clone(s) }

// ComputeStrides returns row-major strides for s.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	acc := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= s[i]
	}
	return strides
}

// BroadcastShapes aligns a and b from the trailing dimension and returns the
// common shape. A dimension of 1 stretches to match the other operand.
// The flag reports whether either operand has to be stretched.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	n := max(len(a), len(b))
	out := make(Shape, n)
	stretched := len(a) != len(b)

	dim := func(s Shape, i int) int {
		if j := i - (n - len(s)); j >= 0 {
			return s[j]
		}
		return 1
	}

	for i := range n {
		da, db := dim(a, i), dim(b, i)
		switch {
		case da == db:
			out[i] = da
		case da == 1:
			out[i], stretched = db, true
		case db == 1:
			out[i], stretched = da, true
		default:
			return nil, false, fmt.Errorf("tensor: cannot broadcast %v with %v at dimension %d", a, b, i)
		}
	}
	return out, stretched, nil
}

// BroadcastStrides returns the strides that read a tensor of shape in as if
// it had shape out. Stretched dimensions get stride 0.
func BroadcastStrides(in, out Shape) []int {
	strides := make([]int, len(out))
	offset := len(out) - len(in)
	inStrides := in.ComputeStrides()
	for i := range out {
		if j := i - offset; j >= 0 && in[j] != 1 {
			strides[i] = inStrides[j]
		}
	}
	return strides
}
