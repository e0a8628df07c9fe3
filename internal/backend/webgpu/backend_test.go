//go:build windows

package webgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/axgraph/internal/tensor"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	if !IsAvailable() {
		t.Skip("WebGPU not available")
	}
	b, err := New()
	require.NoError(t, err)
	b.MinElements = 0
	t.Cleanup(b.Release)
	return b
}

func mustFromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return r
}

func TestWebGPU_BinaryMatchesCPU(t *testing.T) {
	b := newTestBackend(t)
	x := mustFromSlice(t, []float32{1, -2, 3, 4}, tensor.Shape{2, 2})
	y := mustFromSlice(t, []float32{2, 2, -1, 0.5}, tensor.Shape{2, 2})

	assert.InDeltaSlice(t, b.CPUBackend.Add(x, y).Data(), b.Add(x, y).Data(), 1e-6)
	assert.InDeltaSlice(t, b.CPUBackend.Mul(x, y).Data(), b.Mul(x, y).Data(), 1e-6)
	assert.InDeltaSlice(t, b.CPUBackend.Maximum(x, y).Data(), b.Maximum(x, y).Data(), 1e-6)
	assert.Equal(t, tensor.WebGPU, b.Add(x, y).Device())
}

func TestWebGPU_UnaryMatchesCPU(t *testing.T) {
	b := newTestBackend(t)
	x := mustFromSlice(t, []float32{0.5, 1, 2, 3}, tensor.Shape{4})

	assert.InDeltaSlice(t, b.CPUBackend.Exp(x).Data(), b.Exp(x).Data(), 1e-4)
	assert.InDeltaSlice(t, b.CPUBackend.Tanh(x).Data(), b.Tanh(x).Data(), 1e-5)
	assert.InDeltaSlice(t, b.CPUBackend.Sigmoid(x).Data(), b.Sigmoid(x).Data(), 1e-5)
}

func TestWebGPU_MatMul(t *testing.T) {
	b := newTestBackend(t)
	x := mustFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y := mustFromSlice(t, []float32{1, 0, 0, 1, 1, 1}, tensor.Shape{3, 2})

	got := b.MatMul(x, y)
	assert.Equal(t, tensor.Shape{2, 2}, got.Shape())
	assert.InDeltaSlice(t, []float32{4, 5, 10, 11}, got.Data(), 1e-5)
}

func TestWebGPU_BroadcastFallsBack(t *testing.T) {
	b := newTestBackend(t)
	x := mustFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	y := mustFromSlice(t, []float32{10, 20}, tensor.Shape{1, 2})

	got := b.Add(x, y)
	assert.Equal(t, []float32{11, 22, 13, 24}, got.Data())
	assert.Equal(t, tensor.CPU, got.Device())
}
