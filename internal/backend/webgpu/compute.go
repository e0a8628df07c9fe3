//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/born-ml/axgraph/internal/tensor"
)

// compileShader compiles WGSL shader code into a ShaderModule.
// Results are cached in the Backend's shaders map.
func (b *Backend) compileShader(name, code string) *wgpu.ShaderModule {
	b.mu.RLock()
	if shader, exists := b.shaders[name]; exists {
		b.mu.RUnlock()
		return shader
	}
	b.mu.RUnlock()

	shader := b.device.CreateShaderModuleWGSL(code)

	b.mu.Lock()
	b.shaders[name] = shader
	b.mu.Unlock()
	return shader
}

// getOrCreatePipeline returns a cached ComputePipeline or creates a new one.
func (b *Backend) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) *wgpu.ComputePipeline {
	b.mu.RLock()
	if pipeline, exists := b.pipelines[name]; exists {
		b.mu.RUnlock()
		return pipeline
	}
	b.mu.RUnlock()

	// Auto layout (nil layout)
	pipeline := b.device.CreateComputePipelineSimple(nil, shader, "main")

	b.mu.Lock()
	b.pipelines[name] = pipeline
	b.mu.Unlock()
	return pipeline
}

// asBytes views float32 storage as bytes without copying.
func asBytes(data []float32) []byte {
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy conversion of float32 storage
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4)
}

// createBuffer creates a GPU buffer holding data.
func (b *Backend) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))
	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(unsafe.Slice((*byte)(mappedPtr), size), data)
	buffer.Unmap()
	return buffer
}

// createUniformBuffer creates a uniform buffer padded to 16 bytes.
func (b *Backend) createUniformBuffer(data []byte) *wgpu.Buffer {
	alignedSize := (uint64(len(data)) + 15) &^ 15
	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(unsafe.Slice((*byte)(mappedPtr), alignedSize), data)
	buffer.Unmap()
	return buffer
}

// readInto copies a GPU buffer into dst through a staging buffer, since
// storage buffers cannot be mapped directly.
func (b *Backend) readInto(dst []float32, src *wgpu.Buffer) error {
	size := uint64(len(dst) * 4)
	staging := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	b.queue.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(b.device, wgpu.MapModeRead, 0, size); err != nil {
		return fmt.Errorf("failed to map staging buffer: %w", err)
	}
	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(asBytes(dst), unsafe.Slice((*byte)(mappedPtr), size))
	staging.Unmap()
	return nil
}

func sizeParams(n int) []byte {
	params := make([]byte, 16)
	//nolint:gosec // G115: element counts are non-negative
	binary.LittleEndian.PutUint32(params[0:4], uint32(n))
	return params
}

// dispatch binds buffers in order, runs the pipeline over the given
// workgroup grid and reads the last storage buffer into out.
func (b *Backend) dispatch(name, code string, inputs []*tensor.RawTensor, params []byte,
	out *tensor.RawTensor, groupsX, groupsY uint32,
) error {
	pipeline := b.getOrCreatePipeline(name, b.compileShader(name, code))

	entries := make([]wgpu.BindGroupEntry, 0, len(inputs)+2)
	for i, in := range inputs {
		buf := b.createBuffer(asBytes(in.Data()), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
		defer buf.Release()
		//nolint:gosec // G115: ByteSize is non-negative
		entries = append(entries, wgpu.BufferBindingEntry(uint32(i), buf, 0, uint64(in.ByteSize())))
	}

	//nolint:gosec // G115: ByteSize is non-negative
	resultSize := uint64(out.ByteSize())
	result := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer result.Release()
	//nolint:gosec // G115: binding indices are small
	entries = append(entries, wgpu.BufferBindingEntry(uint32(len(inputs)), result, 0, resultSize))

	uniform := b.createUniformBuffer(params)
	defer uniform.Release()
	//nolint:gosec // G115: binding indices are small
	entries = append(entries, wgpu.BufferBindingEntry(uint32(len(inputs)+1), uniform, 0, 16))

	bindGroup := b.device.CreateBindGroupSimple(pipeline.GetBindGroupLayout(0), entries)
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(groupsX, groupsY, 1)
	pass.End()
	b.queue.Submit(encoder.Finish(nil))

	return b.readInto(out.Data(), result)
}

func (b *Backend) newResult(shape tensor.Shape) (*tensor.RawTensor, error) {
	return tensor.NewRaw(shape, tensor.WebGPU)
}

func elementGroups(n int) uint32 {
	//nolint:gosec // G115: workgroup count is non-negative
	return uint32((n + workgroupSize - 1) / workgroupSize)
}

// runBinaryOp executes an element-wise op over equally shaped tensors.
func (b *Backend) runBinaryOp(name string, a, other *tensor.RawTensor) (*tensor.RawTensor, error) {
	if !a.Shape().Equal(other.Shape()) {
		return nil, fmt.Errorf("webgpu: shape mismatch: %v vs %v", a.Shape(), other.Shape())
	}
	result, err := b.newResult(a.Shape())
	if err != nil {
		return nil, err
	}
	n := a.NumElements()
	err = b.dispatch(name, binaryShader(binaryExprs[name]), []*tensor.RawTensor{a, other},
		sizeParams(n), result, elementGroups(n), 1)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// runUnaryOp executes an element-wise function.
func (b *Backend) runUnaryOp(name string, input *tensor.RawTensor) (*tensor.RawTensor, error) {
	result, err := b.newResult(input.Shape())
	if err != nil {
		return nil, err
	}
	n := input.NumElements()
	err = b.dispatch(name, unaryShader(unaryExprs[name]), []*tensor.RawTensor{input},
		sizeParams(n), result, elementGroups(n), 1)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// runMatMul executes C = A @ B with A [M, K] and B [K, N].
func (b *Backend) runMatMul(a, other *tensor.RawTensor) (*tensor.RawTensor, error) {
	if len(a.Shape()) != 2 || len(other.Shape()) != 2 {
		return nil, fmt.Errorf("webgpu: matmul requires 2D tensors, got %v and %v", a.Shape(), other.Shape())
	}
	m, k, n := a.Shape()[0], a.Shape()[1], other.Shape()[1]
	if other.Shape()[0] != k {
		return nil, fmt.Errorf("webgpu: matmul shape mismatch: [%d,%d] @ %v", m, k, other.Shape())
	}

	result, err := b.newResult(tensor.Shape{m, n})
	if err != nil {
		return nil, err
	}

	params := make([]byte, 16)
	//nolint:gosec // G115: matrix dimensions are non-negative
	binary.LittleEndian.PutUint32(params[0:4], uint32(m))
	//nolint:gosec // G115: matrix dimensions are non-negative
	binary.LittleEndian.PutUint32(params[4:8], uint32(k))
	//nolint:gosec // G115: matrix dimensions are non-negative
	binary.LittleEndian.PutUint32(params[8:12], uint32(n))

	// 16x16 threads per workgroup
	groupsX := uint32(math.Ceil(float64(n) / 16.0))
	groupsY := uint32(math.Ceil(float64(m) / 16.0))
	if err := b.dispatch("matmul", matmulShader, []*tensor.RawTensor{a, other}, params, result, groupsX, groupsY); err != nil {
		return nil, err
	}
	return result, nil
}
