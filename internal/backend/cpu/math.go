package cpu

import (
	"math"

	"github.com/born-ml/axgraph/internal/tensor"
)

// unary applies f to every element of x.
func (cpu *CPUBackend) unary(op string, x *tensor.RawTensor, f func(v float32) float32) *tensor.RawTensor {
	result := cpu.alloc(op, x.Shape())
	out, in := result.Data(), x.Data()
	cpu.forRange(len(out), func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = f(in[i])
		}
	})
	return result
}

// Neg negates every element.
func (cpu *CPUBackend) Neg(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("neg", x, func(v float32) float32 { return -v })
}

// Exp computes e^x.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("exp", x, func(v float32) float32 { return float32(math.Exp(float64(v))) })
}

// Log computes the natural logarithm.
func (cpu *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("log", x, func(v float32) float32 { return float32(math.Log(float64(v))) })
}

// Tanh computes the hyperbolic tangent.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("tanh", x, func(v float32) float32 { return float32(math.Tanh(float64(v))) })
}

// Sigmoid computes 1 / (1 + e^-x).
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("sigmoid", x, func(v float32) float32 {
		return float32(1.0 / (1.0 + math.Exp(-float64(v))))
	})
}

// Sqrt computes the square root.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("sqrt", x, func(v float32) float32 { return float32(math.Sqrt(float64(v))) })
}

// Square computes x².
func (cpu *CPUBackend) Square(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("square", x, func(v float32) float32 { return v * v })
}

// Reciprocal computes 1/x.
func (cpu *CPUBackend) Reciprocal(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("reciprocal", x, func(v float32) float32 { return 1 / v })
}

// Abs computes |x|.
func (cpu *CPUBackend) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("abs", x, func(v float32) float32 { return float32(math.Abs(float64(v))) })
}

// Sign returns -1, 0 or 1 per element.
func (cpu *CPUBackend) Sign(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("sign", x, func(v float32) float32 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		default:
			return 0
		}
	})
}
