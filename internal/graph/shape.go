package graph

import (
	"fmt"

	"github.com/born-ml/axgraph/internal/axes"
)

// BroadcastOp repeats x along the axes of its target that x lacks.
type BroadcastOp struct {
	node
}

// Broadcast expands x to axs, which must contain every axis of x in any order.
func Broadcast(x Op, axs axes.Axes) Op {
	if err := axes.CheckCompatible(x.Axes(), axs); err != nil {
		fail(KindBroadcast, err)
	}
	if missing := x.Axes().Difference(axs); !missing.IsScalar() {
		failf(KindBroadcast, ErrUnknownAxis, "%s not in %s", missing, axs)
	}
	if x.Axes().Equal(axs) {
		return x
	}
	checkLengths(KindBroadcast, axs)
	op := &BroadcastOp{}
	op.init(op, KindBroadcast, axs, x)
	return op
}

// Adjoints passes delta through; the caller sums the broadcast axes away.
func (op *BroadcastOp) Adjoints(delta Op) []Op { return []Op{delta} }

// ExpandDims inserts axis into x's axes at pos, repeating x along it.
func ExpandDims(x Op, axis axes.Axis, pos int) Op {
	xs := x.Axes().Slice()
	if pos < 0 || pos > len(xs) {
		failf(KindBroadcast, ErrIndexOutside, "position %d for %d axes", pos, len(xs))
	}
	target := make([]axes.Axis, 0, len(xs)+1)
	target = append(target, xs[:pos]...)
	target = append(target, axis)
	target = append(target, xs[pos:]...)
	axs, err := axes.NewAxes(target...)
	if err != nil {
		fail(KindBroadcast, err)
	}
	return Broadcast(x, axs)
}

// ReorderOp permutes the axes of x.
type ReorderOp struct {
	node
}

// ReorderAxes lays x out in the order of axs, a permutation of x's axes.
func ReorderAxes(x Op, axs axes.Axes) Op {
	if _, err := x.Axes().Permutation(axs); err != nil {
		fail(KindReorder, err)
	}
	if x.Axes().Equal(axs) {
		return x
	}
	// Keep the arg's axis lengths; axs may carry stale ones.
	ordered := make([]axes.Axis, axs.Len())
	for i := range ordered {
		ordered[i] = x.Axes().At(x.Axes().Index(axs.At(i)))
	}
	op := &ReorderOp{}
	op.init(op, KindReorder, axes.MustAxes(ordered...), x)
	return op
}

// Transpose reverses the order of x's axes.
func Transpose(x Op) Op {
	xs := x.Axes().Slice()
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
	return ReorderAxes(x, axes.MustAxes(xs...))
}

// Adjoints passes delta through; the caller restores x's order.
func (op *ReorderOp) Adjoints(delta Op) []Op { return []Op{delta} }

// CastOp relabels the axes of x without moving data.
type CastOp struct {
	node
}

// CastAxes renames x's axes positionally. Lengths must match.
func CastAxes(x Op, axs axes.Axes) Op {
	if axs.Len() != x.Axes().Len() {
		failf(KindCast, ErrArgument, "cannot cast %s to %s", x.Axes(), axs)
	}
	for i := 0; i < axs.Len(); i++ {
		if axs.At(i).Length() != x.Axes().At(i).Length() {
			failf(KindCast, ErrLengthAxis, "%s vs %s", x.Axes().At(i), axs.At(i))
		}
	}
	if x.Axes().Equal(axs) {
		return x
	}
	op := &CastOp{}
	op.init(op, KindCast, axs, x)
	return op
}

// Adjoints casts delta back to x's axes.
func (op *CastOp) Adjoints(delta Op) []Op {
	return []Op{CastAxes(delta, op.args[0].Axes())}
}

// SliceOp selects one position along an axis, dropping the axis.
type SliceOp struct {
	node
	axis  axes.Axis
	index int
}

// Slice selects position index along axis. Negative indices count from the end.
func Slice(x Op, axis axes.Axis, index int) Op {
	i := x.Axes().Index(axis)
	if i < 0 {
		failf(KindSlice, ErrUnknownAxis, "%s not in %s", axis, x.Axes())
	}
	axis = x.Axes().At(i)
	if index < 0 {
		index += axis.Length()
	}
	if index < 0 || index >= axis.Length() {
		failf(KindSlice, ErrIndexOutside, "index %d for %s", index, axis)
	}
	op := &SliceOp{axis: axis, index: index}
	op.init(op, KindSlice, x.Axes().Difference(axes.MustAxes(axis)), x)
	return op
}

// Axis returns the sliced axis.
func (op *SliceOp) Axis() axes.Axis { return op.axis }

// Index returns the selected position.
func (op *SliceOp) Index() int { return op.index }

// Attrs encodes the axis and position.
func (op *SliceOp) Attrs() string { return fmt.Sprintf("%s@%d", op.axis, op.index) }

// Adjoints scatters delta back into the selected position.
func (op *SliceOp) Adjoints(delta Op) []Op {
	mask := make([]float32, op.axis.Length())
	mask[op.index] = 1
	return []Op{Multiply(delta, ConstantTensor(mask, axes.MustAxes(op.axis)))}
}

// StackOp joins ops with equal axes along a new axis.
type StackOp struct {
	node
	axis axes.Axis
	pos  int
}

// Stack joins xs along axis, inserted at pos of the element axes. The axis
// length is taken from len(xs). Every element is laid out like xs[0].
func Stack(xs []Op, axis axes.Axis, pos int) Op {
	if len(xs) == 0 {
		fail(KindStack, ErrNoArguments)
	}
	elem := xs[0].Axes()
	if elem.Contains(axis) {
		failf(KindStack, ErrArgument, "%s already in %s", axis, elem)
	}
	if pos < 0 || pos > elem.Len() {
		failf(KindStack, ErrIndexOutside, "position %d for %d axes", pos, elem.Len())
	}

	args := make([]Op, len(xs))
	for i, x := range xs {
		if err := axes.CheckCompatible(elem, x.Axes()); err != nil {
			fail(KindStack, err)
		}
		if !x.Axes().SetEqual(elem) {
			failf(KindStack, ErrArgument, "element %d has axes %s, want %s", i, x.Axes(), elem)
		}
		args[i] = ReorderAxes(x, elem)
	}

	axis = axis.WithLength(len(xs))
	list := elem.Slice()
	out := make([]axes.Axis, 0, len(list)+1)
	out = append(out, list[:pos]...)
	out = append(out, axis)
	out = append(out, list[pos:]...)

	op := &StackOp{axis: axis, pos: pos}
	op.init(op, KindStack, axes.MustAxes(out...), args...)
	return op
}

// Axis returns the new axis.
func (op *StackOp) Axis() axes.Axis { return op.axis }

// Position returns where the new axis sits in the output axes.
func (op *StackOp) Position() int { return op.pos }

// Attrs encodes the axis and position.
func (op *StackOp) Attrs() string { return fmt.Sprintf("%s@%d", op.axis, op.pos) }

// Adjoints slices delta back apart.
func (op *StackOp) Adjoints(delta Op) []Op {
	out := make([]Op, len(op.args))
	for i := range out {
		out[i] = Slice(delta, op.axis, i)
	}
	return out
}
