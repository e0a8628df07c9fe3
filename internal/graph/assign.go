package graph

import (
	"github.com/born-ml/axgraph/internal/axes"
)

// AssignOp stores a value into a variable when executed.
type AssignOp struct {
	node
}

// Assign writes value into variable. The value's axes must be a subset of
// the variable's; it is repeated and reordered to fit.
func Assign(variable, value Op) Op {
	v, ok := variable.(*VariableOp)
	if !ok {
		failf(KindAssign, ErrNotVariable, "%s", variable)
	}
	if err := axes.CheckCompatible(v.Axes(), value.Axes()); err != nil {
		fail(KindAssign, err)
	}
	value = fitAxes(value, v.Axes())
	op := &AssignOp{}
	op.init(op, KindAssign, axes.Axes{}, v, value)
	return op
}

// fitAxes broadcasts and reorders x to axs without summing.
func fitAxes(x Op, axs axes.Axes) Op {
	if extra := x.Axes().Difference(axs); !extra.IsScalar() {
		failf(KindAssign, ErrUnknownAxis, "%s not in %s", extra, axs)
	}
	return ReduceTo(x, axs)
}

// Variable returns the assigned variable.
func (op *AssignOp) Variable() *VariableOp { return op.args[0].(*VariableOp) }

// Value returns the assigned value, laid out in the variable's axes.
func (op *AssignOp) Value() Op { return op.args[1] }

// DoAllOp runs its args for their side effects.
type DoAllOp struct {
	node
}

// DoAll groups ops so that one result runs all of them.
func DoAll(ops ...Op) Op {
	args := make([]Op, 0, len(ops))
	for _, o := range ops {
		if o != nil {
			args = append(args, o)
		}
	}
	op := &DoAllOp{}
	op.init(op, KindDoAll, axes.Axes{}, args...)
	return op
}

// IsSideEffect reports whether op mutates state when executed.
func IsSideEffect(op Op) bool {
	switch op.Kind() {
	case KindAssign, KindDoAll:
		return true
	}
	return false
}
