package tensor

// Backend defines the kernels a compiled computation executes against.
//
// Binary operations follow NumPy broadcasting rules; callers align axes so
// that broadcasting by position is always correct. Kernels never modify their
// inputs and panic on shape errors, which the transformer reports as
// execution errors.
//
// Implementations:
//   - CPU: pure Go, parallelised over rows
//   - WebGPU: WGSL compute shaders (Windows)
type Backend interface {
	// Element-wise binary operations
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor
	Maximum(a, b *RawTensor) *RawTensor
	Minimum(a, b *RawTensor) *RawTensor
	Pow(a, b *RawTensor) *RawTensor

	// Comparison operations (1 where true, 0 otherwise)
	Greater(a, b *RawTensor) *RawTensor
	Less(a, b *RawTensor) *RawTensor
	Equal(a, b *RawTensor) *RawTensor

	// Element-wise unary operations
	Neg(x *RawTensor) *RawTensor
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor
	Tanh(x *RawTensor) *RawTensor
	Sigmoid(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor
	Square(x *RawTensor) *RawTensor
	Reciprocal(x *RawTensor) *RawTensor
	Abs(x *RawTensor) *RawTensor
	Sign(x *RawTensor) *RawTensor

	// MatMul multiplies 2D tensors: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations
	Reshape(x *RawTensor, shape Shape) *RawTensor
	Transpose(x *RawTensor, perm ...int) *RawTensor
	Expand(x *RawTensor, shape Shape) *RawTensor

	// Reductions along one dimension
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MaxDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MinDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// OneHot expands integer-valued indices into a new leading dimension of size depth.
	OneHot(indices *RawTensor, depth int) *RawTensor
	// Index selects position i along dim, removing the dimension.
	Index(x *RawTensor, dim, i int) *RawTensor
	// Stack joins equally shaped tensors along a new dimension at dim.
	Stack(xs []*RawTensor, dim int) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
