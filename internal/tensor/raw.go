package tensor

import (
	"fmt"
	"strings"
)

// RawTensor is a dense row-major float32 tensor.
//
// Kernels never mutate their inputs, so a RawTensor may be shared freely
// between steps of a plan once it has been produced.
type RawTensor struct {
	data   []float32
	shape  Shape
	stride []int
	device Device
}

// NewRaw creates a zero-filled tensor with the given shape.
func NewRaw(shape Shape, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		data:   make([]float32, shape.NumElements()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		device: device,
	}, nil
}

// FromSlice wraps data as a tensor of the given shape. The slice is copied.
func FromSlice(data []float32, shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}

	buf := make([]float32, len(data))
	copy(buf, data)
	return &RawTensor{
		data:   buf,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		device: CPU,
	}, nil
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float32, device Device) (*RawTensor, error) {
	t, err := NewRaw(shape, device)
	if err != nil {
		return nil, err
	}
	if value != 0 {
		for i := range t.data {
			t.data[i] = value
		}
	}
	return t, nil
}

// Scalar creates a 0-dimensional tensor.
func Scalar(value float32) *RawTensor {
	return &RawTensor{
		data:   []float32{value},
		shape:  Shape{},
		stride: []int{},
		device: CPU,
	}
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return len(r.data)
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return len(r.data) * 4
}

// Data returns the underlying storage.
// WARNING: Direct access to underlying memory. Callers must not write to
// tensors they did not allocate.
func (r *RawTensor) Data() []float32 {
	return r.data
}

// Item returns the single element of a one-element tensor.
func (r *RawTensor) Item() float32 {
	if len(r.data) != 1 {
		panic(fmt.Sprintf("item: tensor has %d elements, expected 1", len(r.data)))
	}
	return r.data[0]
}

// At returns the element at the given multi-dimensional index.
func (r *RawTensor) At(idx ...int) float32 {
	if len(idx) != len(r.shape) {
		panic(fmt.Sprintf("at: got %d indices for %dD tensor", len(idx), len(r.shape)))
	}
	flat := 0
	for i, v := range idx {
		if v < 0 || v >= r.shape[i] {
			panic(fmt.Sprintf("at: index %d out of range for dimension %d (size %d)", v, i, r.shape[i]))
		}
		flat += v * r.stride[i]
	}
	return r.data[flat]
}

// Clone returns a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	data := make([]float32, len(r.data))
	copy(data, r.data)
	return &RawTensor{
		data:   data,
		shape:  r.shape.Clone(),
		stride: r.shape.ComputeStrides(),
		device: r.device,
	}
}

// WithShape returns a view of the same storage with a new shape.
// The element count must not change.
func (r *RawTensor) WithShape(shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(r.data) {
		return nil, fmt.Errorf("cannot view %v as %v: element count differs", r.shape, shape)
	}
	return &RawTensor{
		data:   r.data,
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		device: r.device,
	}, nil
}

// String formats the tensor for debugging.
func (r *RawTensor) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "RawTensor%v[", []int(r.shape))
	const limit = 16
	for i, v := range r.data {
		if i == limit {
			sb.WriteString(" ...")
			break
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%g", v)
	}
	sb.WriteByte(']')
	return sb.String()
}
