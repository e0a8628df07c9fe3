package transformer

import (
	"fmt"
	"strings"

	"github.com/born-ml/axgraph/internal/axes"
)

// Value is a host tensor exchanged with a computation: the inputs bound to
// placeholders and the results returned by Call. Data is row-major in the
// order of Axes.
//
// A Value with no axes is unlabelled. It binds to any parameter with the
// same number of elements, taking the parameter's axes in order.
type Value struct {
	axes axes.Axes
	data []float32
}

// NewValue wraps data laid out in axs. The slice is copied.
func NewValue(axs axes.Axes, data []float32) (Value, error) {
	if len(data) != axs.Size() {
		return Value{}, fmt.Errorf("transformer: %d values for axes %s", len(data), axs)
	}
	return Value{axes: axs, data: append([]float32(nil), data...)}, nil
}

// MustValue is like NewValue but panics on a size mismatch.
func MustValue(axs axes.Axes, data []float32) Value {
	v, err := NewValue(axs, data)
	if err != nil {
		panic(err)
	}
	return v
}

// Scalar returns a single-element value.
func Scalar(v float32) Value {
	return Value{data: []float32{v}}
}

// Unlabelled wraps data without axes.
func Unlabelled(data []float32) Value {
	return Value{data: append([]float32(nil), data...)}
}

// Axes returns the axes of the value.
func (v Value) Axes() axes.Axes { return v.axes }

// Len returns the number of elements.
func (v Value) Len() int { return len(v.data) }

// IsEmpty reports whether the value holds no data. Side-effect results are empty.
func (v Value) IsEmpty() bool { return v.data == nil }

// Data returns a copy of the elements.
func (v Value) Data() []float32 {
	return append([]float32(nil), v.data...)
}

// Float returns the only element of a single-element value.
func (v Value) Float() float32 {
	if len(v.data) != 1 {
		panic(fmt.Sprintf("transformer: Float on value with %d elements", len(v.data)))
	}
	return v.data[0]
}

// At returns the element at idx, one index per axis.
func (v Value) At(idx ...int) float32 {
	if len(idx) != v.axes.Len() {
		panic(fmt.Sprintf("transformer: %d indices for axes %s", len(idx), v.axes))
	}
	off := 0
	for i, j := range idx {
		n := v.axes.At(i).Length()
		if j < 0 || j >= n {
			panic(fmt.Sprintf("transformer: index %d out of range for %s", j, v.axes.At(i)))
		}
		off = off*n + j
	}
	return v.data[off]
}

func (v Value) String() string {
	var b strings.Builder
	b.WriteString(v.axes.String())
	if len(v.data) <= 8 {
		fmt.Fprintf(&b, "%v", v.data)
	} else {
		fmt.Fprintf(&b, "%v...", v.data[:8])
	}
	return b.String()
}
