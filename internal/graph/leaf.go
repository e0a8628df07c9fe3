package graph

import (
	"fmt"
	"strconv"

	"github.com/born-ml/axgraph/internal/axes"
)

// Initializer fills a variable's storage, laid out in the variable's axes order.
type Initializer interface {
	Fill(data []float32, axs axes.Axes)
}

// InitFunc adapts a function to the Initializer interface.
type InitFunc func(data []float32, axs axes.Axes)

// Fill implements Initializer.
func (f InitFunc) Fill(data []float32, axs axes.Axes) { f(data, axs) }

// Option configures a leaf op.
type Option func(*leafOptions)

type leafOptions struct {
	name      string
	trainable bool
}

// WithName names the op at construction.
func WithName(name string) Option {
	return func(o *leafOptions) { o.name = name }
}

// NonTrainable excludes a variable from optimizer updates.
func NonTrainable() Option {
	return func(o *leafOptions) { o.trainable = false }
}

func resolveOptions(opts []Option) leafOptions {
	o := leafOptions{trainable: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func checkLengths(kind Kind, axs axes.Axes) {
	for i := 0; i < axs.Len(); i++ {
		if axs.At(i).Length() <= 0 {
			failf(kind, ErrUnsetLength, "%s", axs.At(i))
		}
	}
}

// PlaceholderOp is an input whose value is supplied when a computation runs.
type PlaceholderOp struct {
	node
}

// Placeholder creates an input op with the given axes.
func Placeholder(axs axes.Axes, opts ...Option) Op {
	checkLengths(KindPlaceholder, axs)
	op := &PlaceholderOp{}
	op.init(op, KindPlaceholder, axs)
	if o := resolveOptions(opts); o.name != "" {
		op.name = o.name
	}
	return op
}

// Attrs keeps placeholders distinct.
func (op *PlaceholderOp) Attrs() string { return "#" + strconv.FormatInt(op.id, 10) }

// ConstantOp is a value fixed at graph construction.
type ConstantOp struct {
	node
	fill   float32
	values []float32
}

// Constant creates a scalar constant.
func Constant(v float32) Op {
	return Full(v, axes.Axes{})
}

// Full creates a constant with every element equal to v.
func Full(v float32, axs axes.Axes) Op {
	checkLengths(KindConstant, axs)
	op := &ConstantOp{fill: v}
	op.init(op, KindConstant, axs)
	return op
}

// ConstantTensor creates a constant from values laid out in axs order.
func ConstantTensor(values []float32, axs axes.Axes) Op {
	checkLengths(KindConstant, axs)
	if len(values) != axs.Size() {
		failf(KindConstant, ErrArgument, "%d values for axes %s", len(values), axs)
	}
	data := make([]float32, len(values))
	copy(data, values)
	op := &ConstantOp{values: data}
	op.init(op, KindConstant, axs)
	return op
}

// IsFill reports whether the constant is a single repeated value.
func (op *ConstantOp) IsFill() bool { return op.values == nil }

// FillValue returns the repeated value of a fill constant.
func (op *ConstantOp) FillValue() float32 { return op.fill }

// Values returns the element values, expanding a fill constant.
func (op *ConstantOp) Values() []float32 {
	out := make([]float32, op.axes.Size())
	if op.values != nil {
		copy(out, op.values)
		return out
	}
	for i := range out {
		out[i] = op.fill
	}
	return out
}

// Attrs encodes the value; tensor constants are never merged.
func (op *ConstantOp) Attrs() string {
	if op.values != nil {
		return "#" + strconv.FormatInt(op.id, 10)
	}
	return strconv.FormatFloat(float64(op.fill), 'g', -1, 32)
}

// VariableOp is persistent state owned by a transformer.
type VariableOp struct {
	node
	initializer Initializer
	trainable   bool
}

// Variable creates a persistent tensor initialized by init (zeros when nil).
func Variable(axs axes.Axes, init Initializer, opts ...Option) Op {
	checkLengths(KindVariable, axs)
	o := resolveOptions(opts)
	op := &VariableOp{initializer: init, trainable: o.trainable}
	op.init(op, KindVariable, axs)
	if o.name != "" {
		op.name = o.name
	}
	return op
}

// Initializer returns the initializer, or nil for zeros.
func (op *VariableOp) Initializer() Initializer { return op.initializer }

// Trainable reports whether optimizers update this variable.
func (op *VariableOp) Trainable() bool { return op.trainable }

// Attrs keeps variables distinct.
func (op *VariableOp) Attrs() string { return "#" + strconv.FormatInt(op.id, 10) }

// InitialValue computes the starting value of the variable.
func (op *VariableOp) InitialValue() []float32 {
	data := make([]float32, op.axes.Size())
	if op.initializer != nil {
		op.initializer.Fill(data, op.axes)
	}
	return data
}

func (op *VariableOp) String() string {
	return fmt.Sprintf("%s%s trainable=%t", op.Name(), op.axes, op.trainable)
}
