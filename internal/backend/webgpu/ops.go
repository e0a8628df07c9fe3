//go:build windows

package webgpu

import (
	"k8s.io/klog/v2"

	"github.com/born-ml/axgraph/internal/tensor"
)

// onGPU reports whether a kernel over n elements is worth a GPU round trip.
func (b *Backend) onGPU(n int) bool {
	return b.device != nil && n >= b.MinElements
}

// binary runs a shader when both operands share a shape and falls back to
// the CPU kernel for broadcasts, small tensors and GPU failures.
func (b *Backend) binary(name string, x, y *tensor.RawTensor,
	fallback func(x, y *tensor.RawTensor) *tensor.RawTensor,
) *tensor.RawTensor {
	if b.onGPU(x.NumElements()) && x.Shape().Equal(y.Shape()) {
		result, err := b.runBinaryOp(name, x, y)
		if err == nil {
			return result
		}
		klog.V(2).Infof("webgpu: %s falling back to CPU: %v", name, err)
	}
	return fallback(x, y)
}

func (b *Backend) unary(name string, x *tensor.RawTensor,
	fallback func(x *tensor.RawTensor) *tensor.RawTensor,
) *tensor.RawTensor {
	if b.onGPU(x.NumElements()) {
		result, err := b.runUnaryOp(name, x)
		if err == nil {
			return result
		}
		klog.V(2).Infof("webgpu: %s falling back to CPU: %v", name, err)
	}
	return fallback(x)
}

// Add performs element-wise addition.
func (b *Backend) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary("add", x, y, b.CPUBackend.Add)
}

// Sub performs element-wise subtraction.
func (b *Backend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary("sub", x, y, b.CPUBackend.Sub)
}

// Mul performs element-wise multiplication.
func (b *Backend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary("mul", x, y, b.CPUBackend.Mul)
}

// Div performs element-wise division.
func (b *Backend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary("div", x, y, b.CPUBackend.Div)
}

// Maximum returns the element-wise maximum.
func (b *Backend) Maximum(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary("maximum", x, y, b.CPUBackend.Maximum)
}

// Minimum returns the element-wise minimum.
func (b *Backend) Minimum(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary("minimum", x, y, b.CPUBackend.Minimum)
}

// Neg returns -x.
func (b *Backend) Neg(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary("neg", x, b.CPUBackend.Neg)
}

// Exp returns e^x.
func (b *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary("exp", x, b.CPUBackend.Exp)
}

// Log returns the natural logarithm.
func (b *Backend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary("log", x, b.CPUBackend.Log)
}

// Tanh returns the hyperbolic tangent.
func (b *Backend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary("tanh", x, b.CPUBackend.Tanh)
}

// Sigmoid returns the logistic function.
func (b *Backend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary("sigmoid", x, b.CPUBackend.Sigmoid)
}

// Sqrt returns the square root.
func (b *Backend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary("sqrt", x, b.CPUBackend.Sqrt)
}

// Square returns x².
func (b *Backend) Square(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary("square", x, b.CPUBackend.Square)
}

// Reciprocal returns 1/x.
func (b *Backend) Reciprocal(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary("reciprocal", x, b.CPUBackend.Reciprocal)
}

// Abs returns |x|.
func (b *Backend) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary("abs", x, b.CPUBackend.Abs)
}

// MatMul multiplies 2D matrices on the GPU when they are large enough.
func (b *Backend) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	if len(x.Shape()) == 2 && len(y.Shape()) == 2 && b.onGPU(x.Shape()[0]*y.Shape()[1]) {
		result, err := b.runMatMul(x, y)
		if err == nil {
			return result
		}
		klog.V(2).Infof("webgpu: matmul falling back to CPU: %v", err)
	}
	return b.CPUBackend.MatMul(x, y)
}
