package cpu

import (
	"fmt"

	"github.com/born-ml/axgraph/internal/tensor"
)

// Reshape returns x viewed with a new shape. Storage is shared; kernels never
// write to their inputs, so sharing is safe.
func (cpu *CPUBackend) Reshape(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	view, err := x.WithShape(shape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return view
}

// Transpose permutes dimensions. With no perm the dimensions are reversed.
func (cpu *CPUBackend) Transpose(x *tensor.RawTensor, perm ...int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if len(perm) == 0 {
		perm = make([]int, ndim)
		for i := range perm {
			perm[i] = ndim - 1 - i
		}
	}
	if len(perm) != ndim {
		panic(fmt.Sprintf("transpose: got %d axes for %dD tensor", len(perm), ndim))
	}

	identity := true
	seen := make([]bool, ndim)
	outShape := make(tensor.Shape, ndim)
	for i, p := range perm {
		if p < 0 || p >= ndim || seen[p] {
			panic(fmt.Sprintf("transpose: invalid permutation %v", perm))
		}
		seen[p] = true
		outShape[i] = shape[p]
		if p != i {
			identity = false
		}
	}
	if identity {
		return x
	}

	result := cpu.alloc("transpose", outShape)
	out, in := result.Data(), x.Data()
	inStrides := x.Strides()
	outStrides := outShape.ComputeStrides()

	// Source stride for each output dimension.
	src := make([]int, ndim)
	for i, p := range perm {
		src[i] = inStrides[p]
	}

	cpu.forRange(len(out), func(start, end int) {
		for i := start; i < end; i++ {
			rem, idx := i, 0
			for d, s := range outStrides {
				idx += (rem / s) * src[d]
				rem %= s
			}
			out[i] = in[idx]
		}
	})
	return result
}

// Expand broadcasts x to shape.
func (cpu *CPUBackend) Expand(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	outShape, _, err := tensor.BroadcastShapes(x.Shape(), shape)
	if err != nil || !outShape.Equal(shape) {
		panic(fmt.Sprintf("expand: cannot broadcast %v to %v", x.Shape(), shape))
	}
	if x.Shape().Equal(shape) {
		return x
	}

	result := cpu.alloc("expand", shape)
	out, in := result.Data(), x.Data()
	outStrides := shape.ComputeStrides()
	inStrides := tensor.BroadcastStrides(x.Shape(), shape)
	cpu.forRange(len(out), func(start, end int) {
		for i := start; i < end; i++ {
			rem, idx := i, 0
			for d, s := range outStrides {
				idx += (rem / s) * inStrides[d]
				rem %= s
			}
			out[i] = in[idx]
		}
	})
	return result
}

// OneHot expands indices into a new leading dimension of size depth.
// Output shape is [depth] + indices.Shape(). Out-of-range indices produce all-zero columns.
func (cpu *CPUBackend) OneHot(indices *tensor.RawTensor, depth int) *tensor.RawTensor {
	if depth <= 0 {
		panic(fmt.Sprintf("onehot: depth must be positive, got %d", depth))
	}
	outShape := append(tensor.Shape{depth}, indices.Shape()...)
	result := cpu.alloc("onehot", outShape)
	out, in := result.Data(), indices.Data()
	n := len(in)
	for i, v := range in {
		c := int(v)
		if c < 0 || c >= depth {
			continue
		}
		out[c*n+i] = 1
	}
	return result
}

// Index selects position i along dim, removing the dimension.
func (cpu *CPUBackend) Index(x *tensor.RawTensor, dim, i int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("index: dimension %d out of range for %dD tensor", dim, len(shape)))
	}
	if i < 0 || i >= shape[dim] {
		panic(fmt.Sprintf("index: position %d out of range for dimension of size %d", i, shape[dim]))
	}

	outShape := make(tensor.Shape, 0, len(shape)-1)
	outShape = append(outShape, shape[:dim]...)
	outShape = append(outShape, shape[dim+1:]...)

	result := cpu.alloc("index", outShape)
	out, in := result.Data(), x.Data()
	outer := shape[:dim].NumElements()
	size := shape[dim]
	inner := shape[dim+1:].NumElements()
	for o := 0; o < outer; o++ {
		copy(out[o*inner:(o+1)*inner], in[(o*size+i)*inner:(o*size+i+1)*inner])
	}
	return result
}

// Stack joins equally shaped tensors along a new dimension inserted at dim.
func (cpu *CPUBackend) Stack(xs []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(xs) == 0 {
		panic("stack: no tensors")
	}
	shape := xs[0].Shape()
	if dim < 0 || dim > len(shape) {
		panic(fmt.Sprintf("stack: dimension %d out of range for %dD tensors", dim, len(shape)))
	}
	for _, x := range xs[1:] {
		if !x.Shape().Equal(shape) {
			panic(fmt.Sprintf("stack: shape mismatch %v vs %v", x.Shape(), shape))
		}
	}

	outShape := make(tensor.Shape, 0, len(shape)+1)
	outShape = append(outShape, shape[:dim]...)
	outShape = append(outShape, len(xs))
	outShape = append(outShape, shape[dim:]...)

	result := cpu.alloc("stack", outShape)
	out := result.Data()
	outer := shape[:dim].NumElements()
	inner := shape[dim:].NumElements()
	n := len(xs)
	for o := 0; o < outer; o++ {
		for k, x := range xs {
			copy(out[(o*n+k)*inner:(o*n+k+1)*inner], x.Data()[o*inner:(o+1)*inner])
		}
	}
	return result
}
