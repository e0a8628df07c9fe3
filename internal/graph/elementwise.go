package graph

import (
	"math"

	"github.com/born-ml/axgraph/internal/axes"
)

// BinaryOp is an element-wise operation over two args. Its axes are the
// broadcast of the args' axes: x's axes followed by y's remaining axes.
type BinaryOp struct {
	node
}

func newBinary(kind Kind, x, y Op) Op {
	out, err := axes.Broadcast(x.Axes(), y.Axes())
	if err != nil {
		fail(kind, err)
	}
	op := &BinaryOp{}
	op.init(op, kind, out, x, y)
	return op
}

// Add returns x + y.
func Add(x, y Op) Op { return newBinary(KindAdd, x, y) }

// Subtract returns x - y.
func Subtract(x, y Op) Op { return newBinary(KindSubtract, x, y) }

// Multiply returns x * y.
func Multiply(x, y Op) Op { return newBinary(KindMultiply, x, y) }

// Divide returns x / y.
func Divide(x, y Op) Op { return newBinary(KindDivide, x, y) }

// Maximum returns the element-wise maximum of x and y.
func Maximum(x, y Op) Op { return newBinary(KindMaximum, x, y) }

// Minimum returns the element-wise minimum of x and y.
func Minimum(x, y Op) Op { return newBinary(KindMinimum, x, y) }

// Power returns x raised to y.
func Power(x, y Op) Op { return newBinary(KindPower, x, y) }

// Greater returns 1 where x > y and 0 elsewhere.
func Greater(x, y Op) Op { return newBinary(KindGreater, x, y) }

// Less returns 1 where x < y and 0 elsewhere.
func Less(x, y Op) Op { return newBinary(KindLess, x, y) }

// Equal returns 1 where x == y and 0 elsewhere.
func Equal(x, y Op) Op { return newBinary(KindEqual, x, y) }

// AddScalar returns x + v.
func AddScalar(x Op, v float32) Op { return Add(x, Constant(v)) }

// SubScalar returns x - v.
func SubScalar(x Op, v float32) Op { return Subtract(x, Constant(v)) }

// MulScalar returns x * v.
func MulScalar(x Op, v float32) Op { return Multiply(x, Constant(v)) }

// DivScalar returns x / v.
func DivScalar(x Op, v float32) Op { return Divide(x, Constant(v)) }

// Adjoints implements the gradient rules of the binary ops.
func (op *BinaryOp) Adjoints(delta Op) []Op {
	x, y := op.args[0], op.args[1]
	switch op.kind {
	case KindAdd:
		return []Op{delta, delta}
	case KindSubtract:
		return []Op{delta, Negative(delta)}
	case KindMultiply:
		return []Op{Multiply(delta, y), Multiply(delta, x)}
	case KindDivide:
		// d(x/y)/dy = -x/y²
		return []Op{
			Divide(delta, y),
			Negative(Divide(Multiply(delta, x), Square(y))),
		}
	case KindMaximum:
		// Ties send the gradient to x.
		yWins := Less(x, y)
		return []Op{
			Multiply(delta, Subtract(Constant(1), yWins)),
			Multiply(delta, yWins),
		}
	case KindMinimum:
		yWins := Greater(x, y)
		return []Op{
			Multiply(delta, Subtract(Constant(1), yWins)),
			Multiply(delta, yWins),
		}
	case KindPower:
		// d(x^y)/dx = y·x^(y-1), d(x^y)/dy = log(x)·x^y
		return []Op{
			Multiply(delta, Multiply(y, Power(x, SubScalar(y, 1)))),
			Multiply(delta, Multiply(Log(x), op)),
		}
	default:
		// Comparisons are piecewise constant.
		return []Op{nil, nil}
	}
}

// UnaryOp is an element-wise function of one arg.
type UnaryOp struct {
	node
}

func newUnary(kind Kind, x Op) Op {
	op := &UnaryOp{}
	op.init(op, kind, x.Axes(), x)
	return op
}

// Negative returns -x.
func Negative(x Op) Op { return newUnary(KindNegative, x) }

// Exp returns e^x.
func Exp(x Op) Op { return newUnary(KindExp, x) }

// Log returns the natural logarithm of x.
func Log(x Op) Op { return newUnary(KindLog, x) }

// Tanh returns the hyperbolic tangent of x.
func Tanh(x Op) Op { return newUnary(KindTanh, x) }

// Sigmoid returns 1 / (1 + e^-x).
func Sigmoid(x Op) Op { return newUnary(KindSigmoid, x) }

// Sqrt returns the square root of x.
func Sqrt(x Op) Op { return newUnary(KindSqrt, x) }

// Square returns x².
func Square(x Op) Op { return newUnary(KindSquare, x) }

// Reciprocal returns 1/x.
func Reciprocal(x Op) Op { return newUnary(KindReciprocal, x) }

// Abs returns |x|.
func Abs(x Op) Op { return newUnary(KindAbs, x) }

// Sign returns -1, 0 or 1 according to the sign of x.
func Sign(x Op) Op { return newUnary(KindSign, x) }

// StopGradient passes x through unchanged but blocks gradients.
func StopGradient(x Op) Op { return newUnary(KindStopGradient, x) }

// Relu returns max(x, 0).
func Relu(x Op) Op { return Maximum(x, Constant(0)) }

// Adjoints implements the gradient rules of the unary ops.
func (op *UnaryOp) Adjoints(delta Op) []Op {
	x := op.args[0]
	var g Op
	switch op.kind {
	case KindNegative:
		g = Negative(delta)
	case KindExp:
		g = Multiply(delta, op)
	case KindLog:
		g = Divide(delta, x)
	case KindTanh:
		g = Multiply(delta, Subtract(Constant(1), Square(op)))
	case KindSigmoid:
		g = Multiply(delta, Multiply(op, Subtract(Constant(1), op)))
	case KindSqrt:
		g = Divide(MulScalar(delta, 0.5), op)
	case KindSquare:
		g = Multiply(delta, MulScalar(x, 2))
	case KindReciprocal:
		g = Negative(Multiply(delta, Square(op)))
	case KindAbs:
		g = Multiply(delta, Sign(x))
	}
	return []Op{g}
}

// safeLogFloor keeps log away from -Inf for probabilities that underflowed.
var safeLogFloor = float32(math.Exp(-50))

// SafeLog returns log(max(x, e^-50)).
func SafeLog(x Op) Op {
	return Log(Maximum(x, Constant(safeLogFloor)))
}
