package graph

import (
	"github.com/born-ml/axgraph/internal/axes"
)

// DotOp contracts pairs of axes of x and y.
type DotOp struct {
	node
	xr, yr axes.Axes
}

// Dot contracts every axis a of x against a.Add(1) in y. A weight declared
// over C.Sub(1) therefore consumes an input over C. When no such pair
// exists the axes x and y share are contracted. The result carries x's
// remaining axes followed by y's.
func Dot(x, y Op) Op {
	var xr, yr []axes.Axis
	for _, a := range x.Axes().Slice() {
		if i := y.Axes().Index(a.Add(1)); i >= 0 {
			xr = append(xr, a)
			yr = append(yr, y.Axes().At(i))
		}
	}
	if len(xr) == 0 {
		shared := x.Axes().Intersect(y.Axes())
		return DotPairs(x, y, shared, shared)
	}
	return DotPairs(x, y, axes.MustAxes(xr...), axes.MustAxes(yr...))
}

// DotPairs contracts xr[i] of x against yr[i] of y.
func DotPairs(x, y Op, xr, yr axes.Axes) Op {
	if xr.Len() != yr.Len() {
		failf(KindDot, ErrArgument, "%d axes paired with %d", xr.Len(), yr.Len())
	}
	xr, yr = resolveIn(x.Axes(), xr), resolveIn(y.Axes(), yr)
	for i := 0; i < xr.Len(); i++ {
		if xr.At(i).Length() != yr.At(i).Length() {
			failf(KindDot, ErrLengthAxis, "%s vs %s", xr.At(i), yr.At(i))
		}
	}
	out, err := x.Axes().Difference(xr).Concat(y.Axes().Difference(yr))
	if err != nil {
		fail(KindDot, err)
	}
	op := &DotOp{xr: xr, yr: yr}
	op.init(op, KindDot, out, x, y)
	return op
}

// resolveIn replaces each axis of want by its instance in have.
func resolveIn(have, want axes.Axes) axes.Axes {
	out := make([]axes.Axis, want.Len())
	for i, a := range want.Slice() {
		j := have.Index(a)
		if j < 0 {
			failf(KindDot, ErrUnknownAxis, "%s not in %s", a, have)
		}
		out[i] = have.At(j)
	}
	return axes.MustAxes(out...)
}

// Reduced returns the contracted axes of x and y, pairwise aligned.
func (op *DotOp) Reduced() (xr, yr axes.Axes) { return op.xr, op.yr }

// Attrs encodes the contraction pairs.
func (op *DotOp) Attrs() string { return op.xr.Names() + "|" + op.yr.Names() }

// Adjoints contracts delta against the other operand and casts the result
// back onto the contracted axes. The contracted axes of the other operand
// are renamed to fresh axes first, since they may share an identity with
// the kept axes (a square weight such as U over (H, H')).
func (op *DotOp) Adjoints(delta Op) []Op {
	x, y := op.args[0], op.args[1]
	xo := x.Axes().Difference(op.xr)
	yo := y.Axes().Difference(op.yr)

	yAxes, yFresh := freshen(y.Axes(), op.yr)
	dx := DotPairs(delta, CastAxes(y, yAxes), yo, yo)
	dx = ReorderAxes(dx, mustConcat(KindDot, xo, yFresh))
	dx = CastAxes(dx, mustConcat(KindDot, xo, op.xr))

	xAxes, xFresh := freshen(x.Axes(), op.xr)
	dy := DotPairs(CastAxes(x, xAxes), delta, xo, xo)
	dy = ReorderAxes(dy, mustConcat(KindDot, xFresh, yo))
	dy = CastAxes(dy, mustConcat(KindDot, op.yr, yo))
	return []Op{dx, dy}
}

// freshen replaces every axis of axs found in swap by a new generated axis
// of the same length. It returns the renamed tuple and the new axes in
// swap's order.
func freshen(axs, swap axes.Axes) (renamed, fresh axes.Axes) {
	out := axs.Slice()
	repl := make([]axes.Axis, swap.Len())
	for i, a := range swap.Slice() {
		repl[i] = axes.NewAxis(a.Length(), "")
		out[axs.Index(a)] = repl[i]
	}
	return axes.MustAxes(out...), axes.MustAxes(repl...)
}

func mustConcat(kind Kind, a, b axes.Axes) axes.Axes {
	out, err := a.Concat(b)
	if err != nil {
		fail(kind, err)
	}
	return out
}

// OneHotOp expands integer class indices along a new axis.
type OneHotOp struct {
	node
	axis axes.Axis
}

// OneHot returns 1 at position x along axis and 0 elsewhere. The new axis
// comes first.
func OneHot(x Op, axis axes.Axis) Op {
	if x.Axes().Contains(axis) {
		failf(KindOneHot, ErrArgument, "%s already in %s", axis, x.Axes())
	}
	checkLengths(KindOneHot, axes.MustAxes(axis))
	out := mustConcat(KindOneHot, axes.MustAxes(axis), x.Axes())
	op := &OneHotOp{axis: axis}
	op.init(op, KindOneHot, out, x)
	return op
}

// Axis returns the class axis.
func (op *OneHotOp) Axis() axes.Axis { return op.axis }

// Attrs encodes the class axis.
func (op *OneHotOp) Attrs() string { return op.axis.String() }
