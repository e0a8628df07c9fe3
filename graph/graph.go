// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph builds symbolic computations over named axes.
//
// Operations combine their arguments by axis name: Add(x, y) over (C, N) and
// (N, H) yields (C, N, H). Nothing is computed here; a transformer compiles
// and runs the graph.
//
// Constructors panic with *OpError on malformed input, like arithmetic on
// mismatched tensors. Wrap construction in Try to get an error instead:
//
//	z, err := graph.Try(func() graph.Op { return graph.Dot(w, x) })
package graph

import (
	"github.com/born-ml/axgraph/internal/axes"
	"github.com/born-ml/axgraph/internal/graph"
)

// Op is a node of the computation graph.
type Op = graph.Op

// Kind identifies the operation an Op performs.
type Kind = graph.Kind

// Leaf and operation types that callers inspect.
type (
	PlaceholderOp = graph.PlaceholderOp
	ConstantOp    = graph.ConstantOp
	VariableOp    = graph.VariableOp
	DotOp         = graph.DotOp
	ReduceOp      = graph.ReduceOp
	AssignOp      = graph.AssignOp
	OpError       = graph.OpError
)

// Initializer fills a variable's storage, laid out in its axes order.
type Initializer = graph.Initializer

// InitFunc adapts a function to the Initializer interface.
type InitFunc = graph.InitFunc

// Option configures a leaf op.
type Option = graph.Option

// ReduceOption selects the axes a reduction removes.
type ReduceOption = graph.ReduceOption

// Errors.
var (
	ErrArgument     = graph.ErrArgument
	ErrNotVariable  = graph.ErrNotVariable
	ErrUnknownAxis  = graph.ErrUnknownAxis
	ErrLengthAxis   = graph.ErrLengthAxis
	ErrUnsetLength  = graph.ErrUnsetLength
	ErrNoArguments  = graph.ErrNoArguments
	ErrIndexOutside = graph.ErrIndexOutside
)

// Try runs build and converts a construction panic into an error.
func Try(build func() Op) (Op, error) { return graph.Try(build) }

// Leaves.

// Placeholder creates an input bound when a computation is called.
func Placeholder(axs axes.Axes, opts ...Option) Op { return graph.Placeholder(axs, opts...) }

// Constant creates a scalar constant.
func Constant(v float32) Op { return graph.Constant(v) }

// Full creates a constant with every element set to v.
func Full(v float32, axs axes.Axes) Op { return graph.Full(v, axs) }

// ConstantTensor creates a constant from values laid out in axs.
func ConstantTensor(values []float32, axs axes.Axes) Op { return graph.ConstantTensor(values, axs) }

// Variable creates a persistent tensor, zeros when init is nil.
func Variable(axs axes.Axes, init Initializer, opts ...Option) Op {
	return graph.Variable(axs, init, opts...)
}

// WithName names a leaf.
func WithName(name string) Option { return graph.WithName(name) }

// NonTrainable excludes a variable from optimization.
func NonTrainable() Option { return graph.NonTrainable() }

// Elementwise.

func Add(x, y Op) Op               { return graph.Add(x, y) }
func Subtract(x, y Op) Op          { return graph.Subtract(x, y) }
func Multiply(x, y Op) Op          { return graph.Multiply(x, y) }
func Divide(x, y Op) Op            { return graph.Divide(x, y) }
func Maximum(x, y Op) Op           { return graph.Maximum(x, y) }
func Minimum(x, y Op) Op           { return graph.Minimum(x, y) }
func Power(x, y Op) Op             { return graph.Power(x, y) }
func Greater(x, y Op) Op           { return graph.Greater(x, y) }
func Less(x, y Op) Op              { return graph.Less(x, y) }
func Equal(x, y Op) Op             { return graph.Equal(x, y) }
func AddScalar(x Op, v float32) Op { return graph.AddScalar(x, v) }
func SubScalar(x Op, v float32) Op { return graph.SubScalar(x, v) }
func MulScalar(x Op, v float32) Op { return graph.MulScalar(x, v) }
func DivScalar(x Op, v float32) Op { return graph.DivScalar(x, v) }
func Negative(x Op) Op             { return graph.Negative(x) }
func Exp(x Op) Op                  { return graph.Exp(x) }
func Log(x Op) Op                  { return graph.Log(x) }
func SafeLog(x Op) Op              { return graph.SafeLog(x) }
func Tanh(x Op) Op                 { return graph.Tanh(x) }
func Sigmoid(x Op) Op              { return graph.Sigmoid(x) }
func Relu(x Op) Op                 { return graph.Relu(x) }
func Sqrt(x Op) Op                 { return graph.Sqrt(x) }
func Square(x Op) Op               { return graph.Square(x) }
func Reciprocal(x Op) Op           { return graph.Reciprocal(x) }
func Abs(x Op) Op                  { return graph.Abs(x) }
func Sign(x Op) Op                 { return graph.Sign(x) }
func StopGradient(x Op) Op         { return graph.StopGradient(x) }

// Axis manipulation.

// Broadcast adds the axes of axs that x lacks and orders x like axs.
func Broadcast(x Op, axs axes.Axes) Op { return graph.Broadcast(x, axs) }

// ExpandDims inserts axis at position pos.
func ExpandDims(x Op, axis axes.Axis, pos int) Op { return graph.ExpandDims(x, axis, pos) }

// ReorderAxes permutes x into the order of axs.
func ReorderAxes(x Op, axs axes.Axes) Op { return graph.ReorderAxes(x, axs) }

// Transpose reverses the axes of x.
func Transpose(x Op) Op { return graph.Transpose(x) }

// CastAxes renames the axes of x positionally.
func CastAxes(x Op, axs axes.Axes) Op { return graph.CastAxes(x, axs) }

// Slice selects one index along axis, removing it.
func Slice(x Op, axis axes.Axis, index int) Op { return graph.Slice(x, axis, index) }

// Stack joins xs along a new axis at position pos.
func Stack(xs []Op, axis axes.Axis, pos int) Op { return graph.Stack(xs, axis, pos) }

// OneHot expands integer values of x along axis.
func OneHot(x Op, axis axes.Axis) Op { return graph.OneHot(x, axis) }

// Reductions and contraction.

// ReductionAxes reduces exactly axs.
func ReductionAxes(axs axes.Axes) ReduceOption { return graph.ReductionAxes(axs) }

// OutAxes keeps exactly axs and reduces the rest.
func OutAxes(axs axes.Axes) ReduceOption { return graph.OutAxes(axs) }

func Sum(x Op, opts ...ReduceOption) Op  { return graph.Sum(x, opts...) }
func Max(x Op, opts ...ReduceOption) Op  { return graph.Max(x, opts...) }
func Min(x Op, opts ...ReduceOption) Op  { return graph.Min(x, opts...) }
func Mean(x Op, opts ...ReduceOption) Op { return graph.Mean(x, opts...) }

// Dot contracts each axis a of x with a+1 in y, or the shared axes when
// there is no such pair.
func Dot(x, y Op) Op { return graph.Dot(x, y) }

// DotPairs contracts xr of x with yr of y, pairwise.
func DotPairs(x, y Op, xr, yr axes.Axes) Op { return graph.DotPairs(x, y, xr, yr) }

// Neural network helpers.

func Softmax(x Op, opts ...ReduceOption) Op { return graph.Softmax(x, opts...) }
func CrossEntropyMulti(y, t Op, usebits bool, opts ...ReduceOption) Op {
	return graph.CrossEntropyMulti(y, t, usebits, opts...)
}
func CrossEntropyBinary(y, t Op, opts ...ReduceOption) Op {
	return graph.CrossEntropyBinary(y, t, opts...)
}
func Variance(x Op, opts ...ReduceOption) Op  { return graph.Variance(x, opts...) }
func SquaredL2(x Op, opts ...ReduceOption) Op { return graph.SquaredL2(x, opts...) }

// Side effects.

// Assign stores value into variable when executed.
func Assign(variable, value Op) Op { return graph.Assign(variable, value) }

// DoAll groups ops executed together.
func DoAll(ops ...Op) Op { return graph.DoAll(ops...) }

// Traversal.

// Topological returns every op reachable from roots, arguments first.
func Topological(roots ...Op) []Op { return graph.Topological(roots...) }

// Variables returns the variables reachable from roots.
func Variables(roots ...Op) []*VariableOp { return graph.Variables(roots...) }

// Placeholders returns the placeholders reachable from roots.
func Placeholders(roots ...Op) []*PlaceholderOp { return graph.Placeholders(roots...) }
