// Package cpu implements the pure Go backend that compiled computations run on by default.
package cpu

import (
	"fmt"

	"github.com/born-ml/axgraph/internal/parallel"
	"github.com/born-ml/axgraph/internal/tensor"
)

// CPUBackend implements tensor kernels on the host.
type CPUBackend struct {
	device tensor.Device
	par    parallel.Config
}

// New creates a new CPU backend with a worker pool sized to the machine.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit parallelism config.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		par:    cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Workers reports how many goroutines kernels may use.
func (cpu *CPUBackend) Workers() int {
	if !cpu.par.Enabled {
		return 1
	}
	return cpu.par.NumWorkers
}

// alloc creates a result tensor or panics; shapes reaching kernels are
// produced by the planner, so a failure here is a planner bug.
func (cpu *CPUBackend) alloc(op string, shape tensor.Shape) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return result
}

// Compile-time check that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)
