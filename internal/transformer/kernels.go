package transformer

import (
	"fmt"
	"sort"

	"github.com/born-ml/axgraph/internal/axes"
	"github.com/born-ml/axgraph/internal/graph"
	"github.com/born-ml/axgraph/internal/tensor"
)

// kernels lowers ops onto a backend. Every tensor is laid out in the order
// of its op's axes; argAxes[i] describes args[i].
type kernels struct {
	b tensor.Backend
}

func shapeOf(axs axes.Axes) tensor.Shape {
	return tensor.Shape(axs.Lengths())
}

// align lays x (over from) out for broadcasting against to: from's axes
// are permuted into to's order and size-1 dimensions stand in for the axes
// x lacks.
func (k kernels) align(x *tensor.RawTensor, from, to axes.Axes) *tensor.RawTensor {
	sub := to.Intersect(from)
	perm, err := from.Permutation(sub)
	if err != nil {
		panic(err)
	}
	x = k.b.Transpose(x, perm...)
	shape := make(tensor.Shape, to.Len())
	for i, ax := range to.Slice() {
		shape[i] = 1
		if from.Contains(ax) {
			shape[i] = ax.Length()
		}
	}
	return k.b.Reshape(x, shape)
}

// permute2D lays x out as a [rows, cols] matrix.
func (k kernels) permute2D(x *tensor.RawTensor, from, rows, cols axes.Axes) *tensor.RawTensor {
	order, err := rows.Concat(cols)
	if err != nil {
		panic(err)
	}
	perm, err := from.Permutation(order)
	if err != nil {
		panic(err)
	}
	return k.b.Reshape(k.b.Transpose(x, perm...), tensor.Shape{rows.Size(), cols.Size()})
}

func (k kernels) run(op graph.Op, argAxes []axes.Axes, args []*tensor.RawTensor) *tensor.RawTensor {
	out := op.Axes()
	switch o := op.(type) {
	case *graph.BinaryOp:
		x := k.align(args[0], argAxes[0], out)
		y := k.align(args[1], argAxes[1], out)
		return k.binary(o.Kind(), x, y)

	case *graph.UnaryOp:
		return k.unary(o.Kind(), args[0])

	case *graph.BroadcastOp:
		return k.b.Expand(k.align(args[0], argAxes[0], out), shapeOf(out))

	case *graph.ReorderOp:
		perm, err := argAxes[0].Permutation(out)
		if err != nil {
			panic(err)
		}
		return k.b.Transpose(args[0], perm...)

	case *graph.CastOp:
		return args[0]

	case *graph.SliceOp:
		return k.b.Index(args[0], argAxes[0].Index(o.Axis()), o.Index())

	case *graph.StackOp:
		return k.b.Stack(args, o.Position())

	case *graph.ReduceOp:
		return k.reduce(o, argAxes[0], args[0])

	case *graph.DotOp:
		xr, yr := o.Reduced()
		xo := argAxes[0].Difference(xr)
		yo := argAxes[1].Difference(yr)
		x := k.permute2D(args[0], argAxes[0], xo, xr)
		y := k.permute2D(args[1], argAxes[1], yr, yo)
		return k.b.Reshape(k.b.MatMul(x, y), shapeOf(out))

	case *graph.OneHotOp:
		return k.b.OneHot(args[0], o.Axis().Length())

	default:
		panic(fmt.Sprintf("no kernel for %s", op.Kind()))
	}
}

func (k kernels) binary(kind graph.Kind, x, y *tensor.RawTensor) *tensor.RawTensor {
	switch kind {
	case graph.KindAdd:
		return k.b.Add(x, y)
	case graph.KindSubtract:
		return k.b.Sub(x, y)
	case graph.KindMultiply:
		return k.b.Mul(x, y)
	case graph.KindDivide:
		return k.b.Div(x, y)
	case graph.KindMaximum:
		return k.b.Maximum(x, y)
	case graph.KindMinimum:
		return k.b.Minimum(x, y)
	case graph.KindPower:
		return k.b.Pow(x, y)
	case graph.KindGreater:
		return k.b.Greater(x, y)
	case graph.KindLess:
		return k.b.Less(x, y)
	case graph.KindEqual:
		return k.b.Equal(x, y)
	}
	panic(fmt.Sprintf("no binary kernel for %s", kind))
}

func (k kernels) unary(kind graph.Kind, x *tensor.RawTensor) *tensor.RawTensor {
	switch kind {
	case graph.KindNegative:
		return k.b.Neg(x)
	case graph.KindExp:
		return k.b.Exp(x)
	case graph.KindLog:
		return k.b.Log(x)
	case graph.KindTanh:
		return k.b.Tanh(x)
	case graph.KindSigmoid:
		return k.b.Sigmoid(x)
	case graph.KindSqrt:
		return k.b.Sqrt(x)
	case graph.KindSquare:
		return k.b.Square(x)
	case graph.KindReciprocal:
		return k.b.Reciprocal(x)
	case graph.KindAbs:
		return k.b.Abs(x)
	case graph.KindSign:
		return k.b.Sign(x)
	case graph.KindStopGradient:
		return x
	}
	panic(fmt.Sprintf("no unary kernel for %s", kind))
}

// reduce folds the reduced dimensions one at a time, highest first so the
// remaining dimension indices stay valid.
func (k kernels) reduce(op *graph.ReduceOp, from axes.Axes, x *tensor.RawTensor) *tensor.RawTensor {
	red := op.Reduced()
	dims := make([]int, red.Len())
	for i, ax := range red.Slice() {
		dims[i] = from.Index(ax)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(dims)))

	for _, d := range dims {
		switch op.Kind() {
		case graph.KindSum:
			x = k.b.SumDim(x, d, false)
		case graph.KindMax:
			x = k.b.MaxDim(x, d, false)
		case graph.KindMin:
			x = k.b.MinDim(x, d, false)
		}
	}
	return x
}

// leafTensor materialises a constant.
func leafTensor(c *graph.ConstantOp) *tensor.RawTensor {
	shape := shapeOf(c.Axes())
	if c.IsFill() {
		t, err := tensor.Full(shape, c.FillValue(), tensor.CPU)
		if err != nil {
			panic(err)
		}
		return t
	}
	t, err := tensor.FromSlice(c.Values(), shape)
	if err != nil {
		panic(err)
	}
	return t
}
