package cpu

import (
	"testing"

	"github.com/born-ml/axgraph/internal/parallel"
	"github.com/born-ml/axgraph/internal/tensor"
)

// Helper to create test backend.
func newTestBackend() *CPUBackend {
	return New()
}

// Helper to check float32 slices are equal within epsilon.
func float32SliceEqual(a, b []float32) bool {
	const epsilon = 1e-5
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		diff := a[i] - b[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > epsilon {
			return false
		}
	}
	return true
}

func mustFromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.FromSlice(data, shape)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	return r
}

// TestCPUBackend_New tests backend creation.
func TestCPUBackend_New(t *testing.T) {
	backend := New()
	if backend.Name() != "CPU" {
		t.Errorf("Expected name 'CPU', got '%s'", backend.Name())
	}
	if backend.Device() != tensor.CPU {
		t.Errorf("Expected device CPU, got %v", backend.Device())
	}
	if NewWithConfig(parallel.Config{}).Workers() != 1 {
		t.Error("disabled parallel config should report a single worker")
	}
}

// TestCPUBackend_Add tests element-wise addition.
func TestCPUBackend_Add(t *testing.T) {
	backend := newTestBackend()

	t.Run("SameShape", func(t *testing.T) {
		a := mustFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
		b := mustFromSlice(t, []float32{10, 11, 12, 13, 14, 15}, tensor.Shape{2, 3})

		result := backend.Add(a, b)
		expected := []float32{11, 13, 15, 17, 19, 21}
		if !float32SliceEqual(result.Data(), expected) {
			t.Errorf("Expected %v, got %v", expected, result.Data())
		}
		if a.Data()[0] != 1 {
			t.Error("Add must not modify its inputs")
		}
	})

	t.Run("Broadcast", func(t *testing.T) {
		a := mustFromSlice(t, []float32{1, 2}, tensor.Shape{2, 1})
		b := mustFromSlice(t, []float32{10, 20, 30}, tensor.Shape{3})

		result := backend.Add(a, b)
		if !result.Shape().Equal(tensor.Shape{2, 3}) {
			t.Fatalf("Expected shape [2 3], got %v", result.Shape())
		}
		expected := []float32{11, 21, 31, 12, 22, 32}
		if !float32SliceEqual(result.Data(), expected) {
			t.Errorf("Expected %v, got %v", expected, result.Data())
		}
	})

	t.Run("Incompatible", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Expected panic for incompatible shapes")
			}
		}()
		backend.Add(
			mustFromSlice(t, []float32{1, 2, 3}, tensor.Shape{3}),
			mustFromSlice(t, []float32{1, 2}, tensor.Shape{2}),
		)
	})
}

func TestCPUBackend_Comparisons(t *testing.T) {
	backend := newTestBackend()
	a := mustFromSlice(t, []float32{1, 5, 3}, tensor.Shape{3})
	b := mustFromSlice(t, []float32{2, 5, 1}, tensor.Shape{3})

	if got := backend.Greater(a, b).Data(); !float32SliceEqual(got, []float32{0, 0, 1}) {
		t.Errorf("Greater: got %v", got)
	}
	if got := backend.Less(a, b).Data(); !float32SliceEqual(got, []float32{1, 0, 0}) {
		t.Errorf("Less: got %v", got)
	}
	if got := backend.Equal(a, b).Data(); !float32SliceEqual(got, []float32{0, 1, 0}) {
		t.Errorf("Equal: got %v", got)
	}
	if got := backend.Maximum(a, b).Data(); !float32SliceEqual(got, []float32{2, 5, 3}) {
		t.Errorf("Maximum: got %v", got)
	}
}

func TestCPUBackend_Unary(t *testing.T) {
	backend := newTestBackend()
	x := mustFromSlice(t, []float32{-2, 0, 4}, tensor.Shape{3})

	tests := []struct {
		name string
		fn   func(*tensor.RawTensor) *tensor.RawTensor
		want []float32
	}{
		{"Neg", backend.Neg, []float32{2, 0, -4}},
		{"Abs", backend.Abs, []float32{2, 0, 4}},
		{"Sign", backend.Sign, []float32{-1, 0, 1}},
		{"Square", backend.Square, []float32{4, 0, 16}},
		{"Sigmoid", backend.Sigmoid, []float32{0.11920292, 0.5, 0.98201376}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(x).Data(); !float32SliceEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCPUBackend_MatMul(t *testing.T) {
	backend := newTestBackend()
	a := mustFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := mustFromSlice(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	result := backend.MatMul(a, b)
	expected := []float32{58, 64, 139, 154}
	if !float32SliceEqual(result.Data(), expected) {
		t.Errorf("Expected %v, got %v", expected, result.Data())
	}
}

func TestCPUBackend_MatMul_Large(t *testing.T) {
	backend := NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1})
	const m, k, n = 64, 48, 40

	a, _ := tensor.Full(tensor.Shape{m, k}, 1, tensor.CPU)
	b, _ := tensor.Full(tensor.Shape{k, n}, 0.5, tensor.CPU)
	result := backend.MatMul(a, b)
	for i, v := range result.Data() {
		if v != k*0.5 {
			t.Fatalf("element %d: got %v, want %v", i, v, k*0.5)
		}
	}
}

func TestCPUBackend_Reductions(t *testing.T) {
	backend := newTestBackend()
	x := mustFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	sum0 := backend.SumDim(x, 0, false)
	if !sum0.Shape().Equal(tensor.Shape{3}) || !float32SliceEqual(sum0.Data(), []float32{5, 7, 9}) {
		t.Errorf("SumDim(0): got %v", sum0)
	}

	sum1 := backend.SumDim(x, -1, true)
	if !sum1.Shape().Equal(tensor.Shape{2, 1}) || !float32SliceEqual(sum1.Data(), []float32{6, 15}) {
		t.Errorf("SumDim(-1, keep): got %v", sum1)
	}

	if got := backend.MaxDim(x, 1, false).Data(); !float32SliceEqual(got, []float32{3, 6}) {
		t.Errorf("MaxDim: got %v", got)
	}
	if got := backend.MinDim(x, 0, false).Data(); !float32SliceEqual(got, []float32{1, 2, 3}) {
		t.Errorf("MinDim: got %v", got)
	}
}

func TestCPUBackend_Transpose(t *testing.T) {
	backend := newTestBackend()
	x := mustFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	result := backend.Transpose(x)
	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Expected shape [3 2], got %v", result.Shape())
	}
	if !float32SliceEqual(result.Data(), []float32{1, 4, 2, 5, 3, 6}) {
		t.Errorf("got %v", result.Data())
	}

	cube := mustFromSlice(t, []float32{0, 1, 2, 3, 4, 5, 6, 7}, tensor.Shape{2, 2, 2})
	perm := backend.Transpose(cube, 2, 0, 1)
	if got := perm.At(1, 0, 1); got != cube.At(0, 1, 1) {
		t.Errorf("perm (2,0,1): got %v, want %v", got, cube.At(0, 1, 1))
	}
	if backend.Transpose(cube, 0, 1, 2) != cube {
		t.Error("identity permutation should return the input")
	}
}

func TestCPUBackend_Expand(t *testing.T) {
	backend := newTestBackend()
	x := mustFromSlice(t, []float32{1, 2}, tensor.Shape{2, 1})
	result := backend.Expand(x, tensor.Shape{2, 3})
	if !float32SliceEqual(result.Data(), []float32{1, 1, 1, 2, 2, 2}) {
		t.Errorf("got %v", result.Data())
	}
}

func TestCPUBackend_OneHot(t *testing.T) {
	backend := newTestBackend()
	idx := mustFromSlice(t, []float32{2, 0, 1}, tensor.Shape{3})
	result := backend.OneHot(idx, 3)
	if !result.Shape().Equal(tensor.Shape{3, 3}) {
		t.Fatalf("Expected shape [3 3], got %v", result.Shape())
	}
	expected := []float32{
		0, 1, 0,
		0, 0, 1,
		1, 0, 0,
	}
	if !float32SliceEqual(result.Data(), expected) {
		t.Errorf("got %v", result.Data())
	}
}

func TestCPUBackend_IndexAndStack(t *testing.T) {
	backend := newTestBackend()
	x := mustFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	col := backend.Index(x, 1, 2)
	if !float32SliceEqual(col.Data(), []float32{3, 6}) {
		t.Errorf("Index: got %v", col.Data())
	}

	cols := []*tensor.RawTensor{backend.Index(x, 1, 0), backend.Index(x, 1, 1), backend.Index(x, 1, 2)}
	back := backend.Stack(cols, 1)
	if !back.Shape().Equal(x.Shape()) || !float32SliceEqual(back.Data(), x.Data()) {
		t.Errorf("Stack did not invert Index: got %v", back)
	}
}
