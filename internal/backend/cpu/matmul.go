package cpu

import (
	"fmt"

	"github.com/born-ml/axgraph/internal/tensor"
)

// MatMul performs matrix multiplication.
// For 2D tensors: (M, K) @ (K, N) -> (M, N)
// Rows of the result are computed in parallel; the inner loop runs i-k-j so
// both B and C are walked contiguously.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	result := cpu.alloc("matmul", tensor.Shape{m, n})
	matmulFloat32(result.Data(), a.Data(), b.Data(), m, k, n, cpu)
	return result
}

// matmulFloat32 computes C[i,j] = sum_k A[i,k] * B[k,j] into a zeroed c.
func matmulFloat32(c, a, b []float32, m, k, n int, cpu *CPUBackend) {
	rowsPerChunk := func(start, end int) {
		for i := start; i < end; i++ {
			row := c[i*n : (i+1)*n]
			for kk := 0; kk < k; kk++ {
				av := a[i*k+kk]
				if av == 0 {
					continue
				}
				bRow := b[kk*n : (kk+1)*n]
				for j, bv := range bRow {
					row[j] += av * bv
				}
			}
		}
	}

	// Small products are not worth the goroutines.
	if m*k*n < 32*1024 {
		rowsPerChunk(0, m)
		return
	}
	cpu.forRange(m, rowsPerChunk)
}
