package graph

import (
	"github.com/born-ml/axgraph/internal/axes"
)

// ReduceOption selects the axes a reduction removes.
type ReduceOption func(*reduceOptions)

type reduceOptions struct {
	reduction *axes.Axes
	out       *axes.Axes
}

// ReductionAxes reduces exactly axs.
func ReductionAxes(axs axes.Axes) ReduceOption {
	return func(o *reduceOptions) { o.reduction = &axs }
}

// OutAxes keeps exactly axs, in that order, and reduces the rest.
func OutAxes(axs axes.Axes) ReduceOption {
	return func(o *reduceOptions) { o.out = &axs }
}

// resolveReduction returns the axes to reduce and the requested output order.
// Without options every sample axis is reduced.
func resolveReduction(kind Kind, x axes.Axes, opts []ReduceOption) (red axes.Axes, out *axes.Axes) {
	var o reduceOptions
	for _, opt := range opts {
		opt(&o)
	}
	switch {
	case o.reduction != nil && o.out != nil:
		if !o.reduction.Union(*o.out).SetEqual(x) || !o.reduction.Intersect(*o.out).IsScalar() {
			failf(kind, ErrArgument, "reduction %s and out %s do not partition %s", *o.reduction, *o.out, x)
		}
		return *o.reduction, o.out
	case o.reduction != nil:
		if extra := o.reduction.Difference(x); !extra.IsScalar() {
			failf(kind, ErrUnknownAxis, "%s not in %s", extra, x)
		}
		return x.Intersect(*o.reduction), nil
	case o.out != nil:
		if extra := o.out.Difference(x); !extra.IsScalar() {
			failf(kind, ErrUnknownAxis, "%s not in %s", extra, x)
		}
		return x.Difference(*o.out), o.out
	default:
		return x.SampleAxes(), nil
	}
}

// ReduceOp folds x along a set of axes.
type ReduceOp struct {
	node
	reduced axes.Axes
}

func newReduce(kind Kind, x Op, opts []ReduceOption) Op {
	red, out := resolveReduction(kind, x.Axes(), opts)
	var result Op = x
	if !red.IsScalar() {
		op := &ReduceOp{reduced: red}
		op.init(op, kind, x.Axes().Difference(red), x)
		result = op
	}
	if out != nil {
		result = ReorderAxes(result, *out)
	}
	return result
}

// Sum adds x over the reduction axes.
func Sum(x Op, opts ...ReduceOption) Op { return newReduce(KindSum, x, opts) }

// Max takes the maximum of x over the reduction axes.
func Max(x Op, opts ...ReduceOption) Op { return newReduce(KindMax, x, opts) }

// Min takes the minimum of x over the reduction axes.
func Min(x Op, opts ...ReduceOption) Op { return newReduce(KindMin, x, opts) }

// Mean averages x over the reduction axes.
func Mean(x Op, opts ...ReduceOption) Op {
	red, _ := resolveReduction(KindSum, x.Axes(), opts)
	if red.IsScalar() {
		return Sum(x, opts...)
	}
	return MulScalar(Sum(x, opts...), 1/float32(red.Size()))
}

// Reduced returns the axes removed by the reduction.
func (op *ReduceOp) Reduced() axes.Axes { return op.reduced }

// Attrs encodes the reduced axes.
func (op *ReduceOp) Attrs() string { return op.reduced.Names() }

// Adjoints spreads delta back over the reduced axes. Max and Min route it
// to every element equal to the extremum.
func (op *ReduceOp) Adjoints(delta Op) []Op {
	x := op.args[0]
	spread := Broadcast(delta, x.Axes())
	if op.kind == KindSum {
		return []Op{spread}
	}
	return []Op{Multiply(spread, Equal(x, op))}
}

// ReduceTo sums the axes of delta missing from target, repeats delta along
// target axes it lacks, and lays the result out in target's order.
func ReduceTo(delta Op, target axes.Axes) Op {
	if delta.Axes().Equal(target) {
		return delta
	}
	if extra := delta.Axes().Difference(target); !extra.IsScalar() {
		delta = Sum(delta, ReductionAxes(extra))
	}
	if !delta.Axes().SetEqual(target) {
		return Broadcast(delta, target)
	}
	return ReorderAxes(delta, target)
}
