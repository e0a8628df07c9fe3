// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend.
//
// Kernels run on float32 host memory and split large loops across worker
// goroutines sized from the physical core count.
package cpu

import (
	internalcpu "github.com/born-ml/axgraph/internal/backend/cpu"
	"github.com/born-ml/axgraph/internal/parallel"
	"github.com/born-ml/axgraph/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a CPU backend using every physical core.
//
// Example:
//
//	b := cpu.New()
//	y := b.Add(x, tensor.Scalar(1))
func New() *Backend {
	return internalcpu.New()
}

// NewWithWorkers creates a CPU backend limited to n worker goroutines.
// n <= 1 runs every kernel on the calling goroutine.
func NewWithWorkers(n int) *Backend {
	return internalcpu.NewWithConfig(parallel.WithWorkers(n))
}
