package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/axgraph/internal/parallel"
	"github.com/born-ml/axgraph/internal/tensor"
)

// binary applies f element-wise with NumPy-style broadcasting.
func (cpu *CPUBackend) binary(op string, a, b *tensor.RawTensor, f func(x, y float32) float32) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	result := cpu.alloc(op, outShape)
	out := result.Data()
	ad, bd := a.Data(), b.Data()

	if !needsBroadcast {
		// Fast path: identical shapes.
		cpu.forRange(len(out), func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = f(ad[i], bd[i])
			}
		})
		return result
	}

	// Slow path: broadcasting required.
	outStrides := outShape.ComputeStrides()
	aStrides := tensor.BroadcastStrides(a.Shape(), outShape)
	bStrides := tensor.BroadcastStrides(b.Shape(), outShape)
	cpu.forRange(len(out), func(start, end int) {
		for i := start; i < end; i++ {
			ai, bi := 0, 0
			rem := i
			for d, s := range outStrides {
				coord := rem / s
				rem %= s
				ai += coord * aStrides[d]
				bi += coord * bStrides[d]
			}
			out[i] = f(ad[ai], bd[bi])
		}
	})
	return result
}

// Add performs element-wise addition with broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, func(x, y float32) float32 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("div", a, b, func(x, y float32) float32 { return x / y })
}

// Maximum returns the element-wise maximum.
func (cpu *CPUBackend) Maximum(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("maximum", a, b, func(x, y float32) float32 {
		if x >= y {
			return x
		}
		return y
	})
}

// Minimum returns the element-wise minimum.
func (cpu *CPUBackend) Minimum(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("minimum", a, b, func(x, y float32) float32 {
		if x <= y {
			return x
		}
		return y
	})
}

// Pow raises a to the power b element-wise.
func (cpu *CPUBackend) Pow(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("pow", a, b, func(x, y float32) float32 {
		return float32(math.Pow(float64(x), float64(y)))
	})
}

// Greater returns 1 where a > b.
func (cpu *CPUBackend) Greater(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("greater", a, b, func(x, y float32) float32 { return boolToFloat(x > y) })
}

// Less returns 1 where a < b.
func (cpu *CPUBackend) Less(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("less", a, b, func(x, y float32) float32 { return boolToFloat(x < y) })
}

// Equal returns 1 where a == b.
func (cpu *CPUBackend) Equal(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("equal", a, b, func(x, y float32) float32 { return boolToFloat(x == y) })
}

func boolToFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

func (cpu *CPUBackend) forRange(n int, f func(start, end int)) {
	parallel.ForRange(n, f, cpu.par)
}
