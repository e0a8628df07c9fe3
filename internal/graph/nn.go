package graph

import "math"

// Softmax normalises exp(x) over the reduction axes, sample axes by default.
// The maximum is subtracted first and excluded from differentiation.
func Softmax(x Op, opts ...ReduceOption) Op {
	red, _ := resolveReduction(KindSum, x.Axes(), opts)
	if red.IsScalar() {
		return Full(1, x.Axes())
	}
	shifted := Subtract(x, StopGradient(Max(x, ReductionAxes(red))))
	e := Exp(shifted)
	return Divide(e, Sum(e, ReductionAxes(red)))
}

// CrossEntropyMulti returns -Σ t·log(y) over the sample axes. With usebits
// the result is measured in bits.
func CrossEntropyMulti(y, t Op, usebits bool, opts ...ReduceOption) Op {
	ce := Negative(Sum(Multiply(t, SafeLog(y)), opts...))
	if usebits {
		ce = MulScalar(ce, float32(1/math.Ln2))
	}
	return ce
}

// CrossEntropyBinary returns -Σ t·log(y) + (1-t)·log(1-y) over the sample axes.
func CrossEntropyBinary(y, t Op, opts ...ReduceOption) Op {
	one := Constant(1)
	pos := Multiply(t, SafeLog(y))
	neg := Multiply(Subtract(one, t), SafeLog(Subtract(one, y)))
	return Negative(Sum(Add(pos, neg), opts...))
}

// Variance returns the mean squared deviation from the mean.
func Variance(x Op, opts ...ReduceOption) Op {
	red, _ := resolveReduction(KindSum, x.Axes(), opts)
	dev := Subtract(x, Mean(x, ReductionAxes(red)))
	return Mean(Square(dev), ReductionAxes(red))
}

// SquaredL2 returns Σ x².
func SquaredL2(x Op, opts ...ReduceOption) Op {
	return Sum(Square(x), opts...)
}
