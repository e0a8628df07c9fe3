// Package graph builds symbolic computations over named axes.
//
// Every Op records its output axes, its argument ops and the parameters of
// its operation. Ops are immutable once constructed; only annotations (a
// name and free-form tags) may be attached afterwards. Nothing is computed
// here: a transformer lowers a finished graph to backend kernels.
//
// Example:
//
//	x := graph.Placeholder(axes.Axes{})
//	y := graph.AddScalar(x, 1.5)
//	comp, _ := t.Computation([]graph.Op{y}, x)
package graph

import (
	"fmt"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/born-ml/axgraph/internal/axes"
)

// Kind identifies the operation an Op performs.
type Kind string

// Op kinds.
const (
	KindPlaceholder Kind = "Placeholder"
	KindConstant    Kind = "Constant"
	KindVariable    Kind = "Variable"

	KindAdd      Kind = "Add"
	KindSubtract Kind = "Subtract"
	KindMultiply Kind = "Multiply"
	KindDivide   Kind = "Divide"
	KindMaximum  Kind = "Maximum"
	KindMinimum  Kind = "Minimum"
	KindPower    Kind = "Power"
	KindGreater  Kind = "Greater"
	KindLess     Kind = "Less"
	KindEqual    Kind = "Equal"

	KindNegative     Kind = "Negative"
	KindExp          Kind = "Exp"
	KindLog          Kind = "Log"
	KindTanh         Kind = "Tanh"
	KindSigmoid      Kind = "Sigmoid"
	KindSqrt         Kind = "Sqrt"
	KindSquare       Kind = "Square"
	KindReciprocal   Kind = "Reciprocal"
	KindAbs          Kind = "Abs"
	KindSign         Kind = "Sign"
	KindStopGradient Kind = "StopGradient"

	KindBroadcast Kind = "Broadcast"
	KindReorder   Kind = "ReorderAxes"
	KindCast      Kind = "CastAxes"
	KindSlice     Kind = "Slice"
	KindStack     Kind = "Stack"

	KindSum Kind = "Sum"
	KindMax Kind = "Max"
	KindMin Kind = "Min"

	KindDot    Kind = "Dot"
	KindOneHot Kind = "OneHot"

	KindAssign Kind = "Assign"
	KindDoAll  Kind = "DoAll"
)

// Op is a node of the computation graph.
type Op interface {
	// ID returns a process-unique identifier.
	ID() int64
	// Kind returns the operation performed.
	Kind() Kind
	// Name returns the user-assigned name, or a generated one.
	Name() string
	// Axes returns the ordered axes of the op's value.
	Axes() axes.Axes
	// Args returns the argument ops.
	Args() []Op
	// Attrs returns a canonical encoding of op parameters that are not args or axes.
	// Two ops with equal kind, args, axes and attrs compute the same value.
	Attrs() string

	// Named sets the op name and returns the op.
	Named(name string) Op
	// Tag attaches an annotation and returns the op.
	Tag(key string, value any) Op
	// Tags returns a copy of the annotations.
	Tags() map[string]any

	// Adjoints returns, for each arg, the contribution of delta (the
	// adjoint of this op, laid out in this op's axes) to the arg's adjoint.
	// A nil entry means no gradient flows to that arg. Contributions may
	// carry extra axes or a different order; the caller reduces them.
	Adjoints(delta Op) []Op

	String() string
}

var opCounter atomic.Int64

// node holds the state shared by every op.
type node struct {
	id   int64
	kind Kind
	axes axes.Axes
	args []Op
	self Op

	mu   sync.RWMutex
	name string
	tags map[string]any
}

func (n *node) init(self Op, kind Kind, axs axes.Axes, args ...Op) {
	n.id = opCounter.Add(1)
	n.kind = kind
	n.axes = axs
	n.args = args
	n.self = self
}

func (n *node) ID() int64       { return n.id }
func (n *node) Kind() Kind      { return n.kind }
func (n *node) Axes() axes.Axes { return n.axes }
func (n *node) Attrs() string   { return "" }

func (n *node) Args() []Op {
	out := make([]Op, len(n.args))
	copy(out, n.args)
	return out
}

func (n *node) Name() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.name != "" {
		return n.name
	}
	return fmt.Sprintf("%s_%d", n.kind, n.id)
}

func (n *node) Named(name string) Op {
	n.mu.Lock()
	n.name = name
	n.mu.Unlock()
	return n.self
}

func (n *node) Tag(key string, value any) Op {
	n.mu.Lock()
	if n.tags == nil {
		n.tags = make(map[string]any)
	}
	n.tags[key] = value
	n.mu.Unlock()
	return n.self
}

func (n *node) Tags() map[string]any {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return maps.Clone(n.tags)
}

// Adjoints of an op without a gradient rule.
func (n *node) Adjoints(Op) []Op {
	return make([]Op, len(n.args))
}

func (n *node) String() string {
	return n.Name() + n.axes.String()
}
