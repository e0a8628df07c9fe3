package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/axgraph/internal/tensor"
)

// SumDim sums tensor elements along the specified dimension.
//
// Parameters:
//   - dim: dimension to reduce (supports negative indexing: -1 = last dim)
//   - keepDim: if true, keep the reduced dimension with size 1; if false, remove it
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("sumdim", x, dim, keepDim, 0, func(acc, v float32) float32 { return acc + v })
}

// MaxDim takes the maximum along the specified dimension.
func (cpu *CPUBackend) MaxDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("maxdim", x, dim, keepDim, float32(math.Inf(-1)), func(acc, v float32) float32 {
		if v > acc {
			return v
		}
		return acc
	})
}

// MinDim takes the minimum along the specified dimension.
func (cpu *CPUBackend) MinDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("mindim", x, dim, keepDim, float32(math.Inf(1)), func(acc, v float32) float32 {
		if v < acc {
			return v
		}
		return acc
	})
}

// reduceDim folds dimension dim with f starting from init.
// The tensor is viewed as [outer, dimSize, inner].
func (cpu *CPUBackend) reduceDim(op string, x *tensor.RawTensor, dim int, keepDim bool,
	init float32, f func(acc, v float32) float32,
) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("%s: dimension %d out of range for %dD tensor", op, dim, ndim))
	}

	var outShape tensor.Shape
	if keepDim {
		outShape = shape.Clone()
		outShape[dim] = 1
	} else {
		outShape = make(tensor.Shape, 0, ndim-1)
		outShape = append(outShape, shape[:dim]...)
		outShape = append(outShape, shape[dim+1:]...)
	}

	result := cpu.alloc(op, outShape)
	out, in := result.Data(), x.Data()

	outer := shape[:dim].NumElements()
	size := shape[dim]
	inner := shape[dim+1:].NumElements()

	cpu.forRange(outer, func(start, end int) {
		for o := start; o < end; o++ {
			base := o * size * inner
			for i := 0; i < inner; i++ {
				acc := init
				for d := 0; d < size; d++ {
					acc = f(acc, in[base+d*inner+i])
				}
				out[o*inner+i] = acc
			}
		}
	})
	return result
}
