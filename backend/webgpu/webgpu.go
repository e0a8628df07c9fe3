// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

//go:build windows

// Package webgpu provides the WebGPU compute backend.
//
// Elementwise kernels and matrix multiplication run as WGSL compute
// shaders; every other kernel, and tensors too small to be worth a dispatch,
// fall back to the CPU backend.
package webgpu

import (
	internalwebgpu "github.com/born-ml/axgraph/internal/backend/webgpu"
	"github.com/born-ml/axgraph/tensor"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

var _ tensor.Backend = (*Backend)(nil)

// New acquires an adapter and device. Call Release when done.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable reports whether a WebGPU adapter can be acquired.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
