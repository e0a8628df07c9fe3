//go:build windows

// Package webgpu runs element-wise kernels and matrix products as WebGPU
// compute shaders through go-webgpu (github.com/go-webgpu/webgpu), a
// zero-CGO binding. Every other kernel is delegated to the CPU backend.
package webgpu

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
	"k8s.io/klog/v2"

	"github.com/born-ml/axgraph/internal/backend/cpu"
	"github.com/born-ml/axgraph/internal/tensor"
)

// Backend implements tensor.Backend on a WebGPU device.
type Backend struct {
	// CPU kernels serve every op without a shader.
	*cpu.CPUBackend

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	// Shader and pipeline cache
	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline
	mu        sync.RWMutex

	adapterInfo *wgpu.AdapterInfo

	// MinElements is the smallest tensor sent to the GPU; smaller ones stay on the CPU.
	MinElements int
}

// New opens the high-performance adapter and its default device.
// A missing wgpu_native library surfaces as an error, not a panic.
func New() (backend *Backend, err error) {
	defer func() {
		if r := recover(); r != nil {
			backend, err = nil, fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	var undo []func()
	fail := func(format string, args ...any) (*Backend, error) {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
		return nil, fmt.Errorf(format, args...)
	}

	instance := wgpu.CreateInstance(nil)
	undo = append(undo, instance.Release)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fail("webgpu: request adapter: %w", err)
	}
	undo = append(undo, adapter.Release)
	info := adapter.GetInfo()

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		return fail("webgpu: request device on %s: %w", info.Name, err)
	}
	undo = append(undo, device.Release)

	queue := device.GetQueue()
	if queue == nil {
		return fail("webgpu: device on %s has no queue", info.Name)
	}

	klog.V(1).Infof("webgpu: using adapter %s (%s)", info.Name, info.VendorName)
	return &Backend{
		CPUBackend:  cpu.New(),
		instance:    instance,
		adapter:     adapter,
		device:      device,
		queue:       queue,
		shaders:     map[string]*wgpu.ShaderModule{},
		pipelines:   map[string]*wgpu.ComputePipeline{},
		adapterInfo: &info,
		MinElements: 4096,
	}, nil
}

// Release frees cached pipelines and shaders, then the device chain.
// The backend is unusable afterwards.
func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, p := range b.pipelines {
		p.Release()
		delete(b.pipelines, key)
	}
	for key, m := range b.shaders {
		m.Release()
		delete(b.shaders, key)
	}
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
	b.queue, b.device, b.adapter, b.instance = nil, nil, nil, nil
}

func (b *Backend) Name() string {
	if b.adapterInfo == nil {
		return "webgpu"
	}
	return fmt.Sprintf("webgpu (%s %s)", b.adapterInfo.Name, b.adapterInfo.VendorName)
}

func (b *Backend) Device() tensor.Device { return tensor.WebGPU }

// IsAvailable probes for any adapter without keeping it open.
func IsAvailable() (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()
	return true
}

var _ tensor.Backend = (*Backend)(nil)
