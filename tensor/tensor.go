// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the host tensor storage and the kernel contract
// backends implement.
//
// Most users never touch tensors directly: graphs are built from named axes
// and a transformer lowers them to these kernels. Implement Backend and
// register it with transformer.Register to add a device.
package tensor

import (
	"github.com/born-ml/axgraph/internal/tensor"
)

// Backend defines the kernels a compiled computation executes against.
type Backend = tensor.Backend

// RawTensor is float32 host storage with a shape.
type RawTensor = tensor.RawTensor

// Shape is a list of dimension sizes.
type Shape = tensor.Shape

// Device represents the compute device for tensor operations.
type Device = tensor.Device

// Supported compute devices.
const (
	CPU    = tensor.CPU
	WebGPU = tensor.WebGPU
)

// FromSlice wraps a copy of data with the given shape.
func FromSlice(data []float32, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// Scalar returns a zero-dimensional tensor.
func Scalar(value float32) *RawTensor {
	return tensor.Scalar(value)
}
